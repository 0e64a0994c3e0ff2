package domain

import (
	"fmt"
	"math"
)

// GeoPoint is a WGS84 coordinate pair attached to a single entity.
type GeoPoint struct {
	Longitude float64
	Latitude  float64
}

// Coordinate bounds in WGS84 degrees and the hard ceiling for proximity
// queries, in meters.
const (
	MinLongitude = -180.0
	MaxLongitude = 180.0
	MinLatitude  = -90.0
	MaxLatitude  = 90.0

	MaxSearchRadiusMeters = 100_000.0
)

// outsideRange reports whether v falls outside [min, max]. NaN is always
// outside; comparisons alone would let it through since NaN fails every
// ordering check.
func outsideRange(v, min, max float64) bool {
	return math.IsNaN(v) || v < min || v > max
}

// Validate checks that the point lies inside WGS84 bounds.
// All violated fields are reported.
func (p GeoPoint) Validate() error {
	var errs []FieldError
	if outsideRange(p.Longitude, MinLongitude, MaxLongitude) {
		errs = append(errs, FieldError{Field: "longitude", Message: "must be between -180 and 180"})
	}
	if outsideRange(p.Latitude, MinLatitude, MaxLatitude) {
		errs = append(errs, FieldError{Field: "latitude", Message: "must be between -90 and 90"})
	}
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// NearQuery is a validated proximity query: all entities with a stored point
// strictly within RadiusMeters of (Longitude, Latitude), ordered by geodesic
// distance.
type NearQuery struct {
	Longitude    float64
	Latitude     float64
	RadiusMeters float64
}

// AssetDistance pairs an asset with its geodesic distance from a query
// origin, in meters.
type AssetDistance struct {
	Asset          *Asset
	DistanceMeters float64
}

// StaffDistance pairs a staff member with their geodesic distance from a
// query origin, in meters.
type StaffDistance struct {
	Staff          *Staff
	DistanceMeters float64
}

// WorkOrderDistance pairs a work order with its geodesic distance from a
// query origin, in meters.
type WorkOrderDistance struct {
	WorkOrder      *WorkOrder
	DistanceMeters float64
}

// Validate checks coordinate bounds and the radius range against the default
// radius ceiling, collecting every violated field. Callers must not run a
// proximity query that fails here.
func (q NearQuery) Validate() error {
	return q.ValidateMax(MaxSearchRadiusMeters)
}

// ValidateMax is Validate with a configured radius ceiling. A ceiling that is
// zero, negative, or not finite falls back to MaxSearchRadiusMeters.
func (q NearQuery) ValidateMax(maxRadiusMeters float64) error {
	if maxRadiusMeters <= 0 || math.IsNaN(maxRadiusMeters) || math.IsInf(maxRadiusMeters, 0) {
		maxRadiusMeters = MaxSearchRadiusMeters
	}

	var errs []FieldError
	if outsideRange(q.Longitude, MinLongitude, MaxLongitude) {
		errs = append(errs, FieldError{Field: "longitude", Message: "must be between -180 and 180"})
	}
	if outsideRange(q.Latitude, MinLatitude, MaxLatitude) {
		errs = append(errs, FieldError{Field: "latitude", Message: "must be between -90 and 90"})
	}
	if math.IsNaN(q.RadiusMeters) || q.RadiusMeters <= 0 {
		errs = append(errs, FieldError{Field: "radius", Message: "must be greater than 0"})
	} else if q.RadiusMeters > maxRadiusMeters {
		errs = append(errs, FieldError{Field: "radius", Message: fmt.Sprintf("must not exceed %.0f meters", maxRadiusMeters)})
	}
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
