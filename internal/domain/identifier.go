package domain

import "fmt"

// Identifier prefixes per entity type. Staff members carry an opaque UUID
// instead of a sequenced identifier, so they have no entry here.
var identifierPrefixes = map[EntityType]string{
	EntityTypeAsset:     "AST",
	EntityTypeDocument:  "DOC",
	EntityTypeWorkflow:  "WKF",
	EntityTypeWorkOrder: "WO",
}

// IdentifierSeed is the first sequence value handed out per entity type.
const IdentifierSeed = 1000

// HasSequencedID reports whether the entity type uses a human-readable
// sequenced identifier.
func HasSequencedID(t EntityType) bool {
	_, ok := identifierPrefixes[t]
	return ok
}

// FormatIdentifier renders a sequence value as the public identifier for the
// given entity type, e.g. (asset, 1007) -> "AST-1007". The sequence is
// zero-padded to four digits and grows naturally past that width.
func FormatIdentifier(t EntityType, seq int64) (string, error) {
	prefix, ok := identifierPrefixes[t]
	if !ok {
		return "", fmt.Errorf("entity type %q has no sequenced identifier", t)
	}
	return fmt.Sprintf("%s-%04d", prefix, seq), nil
}
