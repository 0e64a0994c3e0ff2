package domain

import (
	"reflect"
	"time"

	"github.com/google/uuid"
)

// AuditRecord is one immutable log entry describing a mutation. Records are
// write-once: no API exists to change or remove them after insert.
//
// OldValue is absent on create, NewValue is absent on delete. EntityID is the
// public identifier for sequenced entities and the UUID string for staff.
type AuditRecord struct {
	ID          int64
	EntityType  EntityType
	EntityID    string
	Action      AuditAction
	ActorID     uuid.UUID
	ActorName   *string
	OldValue    map[string]any
	NewValue    map[string]any
	OriginIP    *string
	OriginAgent *string
	CreatedAt   time.Time
}

// AuditPage is one page of the audit trail plus the total record count,
// both computed against the same anchor.
type AuditPage struct {
	Records []AuditRecord
	Total   int
}

// DiffSnapshots restricts two snapshots of the same entity to the fields
// that actually changed between them, so update records carry the delta
// rather than two full copies.
func DiffSnapshots(before, after map[string]any) (oldValue, newValue map[string]any) {
	oldValue = make(map[string]any)
	newValue = make(map[string]any)
	for key, b := range before {
		a, ok := after[key]
		if !ok {
			oldValue[key] = b
			continue
		}
		if !reflect.DeepEqual(a, b) {
			oldValue[key] = b
			newValue[key] = a
		}
	}
	for key, a := range after {
		if _, ok := before[key]; !ok {
			newValue[key] = a
		}
	}
	return oldValue, newValue
}
