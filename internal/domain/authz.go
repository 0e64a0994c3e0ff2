package domain

import "github.com/google/uuid"

// LocationOwner exposes the identity relationships a location-update
// capability check needs. Each geo-carrying entity implements it.
type LocationOwner interface {
	// OwnerIDs returns every actor allowed to move the entity's point.
	OwnerIDs() []uuid.UUID
}

// OwnerIDs for an asset: the custodian if set, plus the creator.
func (a *Asset) OwnerIDs() []uuid.UUID {
	ids := []uuid.UUID{a.CreatedBy}
	if a.CustodianID != nil {
		ids = append(ids, *a.CustodianID)
	}
	return ids
}

// OwnerIDs for staff: only the staff member themselves.
func (s *Staff) OwnerIDs() []uuid.UUID {
	return []uuid.UUID{s.ID}
}

// OwnerIDs for a work order: the assignee if set, plus the creator.
func (w *WorkOrder) OwnerIDs() []uuid.UUID {
	ids := []uuid.UUID{w.CreatedBy}
	if w.AssigneeID != nil {
		ids = append(ids, *w.AssigneeID)
	}
	return ids
}

// CanEditLocation reports whether the actor holds the ownership relationship
// required to move the entity's stored point.
func CanEditLocation(actorID uuid.UUID, entity LocationOwner) bool {
	if actorID == uuid.Nil {
		return false
	}
	for _, id := range entity.OwnerIDs() {
		if id == actorID {
			return true
		}
	}
	return false
}
