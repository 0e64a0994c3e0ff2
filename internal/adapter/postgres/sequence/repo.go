// Package sequence implements the identifier allocator using PostgreSQL.
// Each entity type owns a row in id_counters; allocation is one atomic
// fetch-and-increment statement, so concurrent callers across any number of
// service instances never receive the same value.
package sequence

import (
	"context"

	postgres "github.com/assetbase/backend/internal/adapter/postgres"
	"github.com/assetbase/backend/internal/domain"
)

// Repo allocates sequenced public identifiers.
type Repo struct {
	db postgres.Querier
}

// New creates a new sequence repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// The first INSERT per type lands on the seed; every later call takes the
// conflict path and increments. RETURNING makes read-and-bump a single
// statement, which is what gives the no-duplicates guarantee under
// concurrency.
const nextSQL = `
INSERT INTO id_counters (entity_type, last_value)
VALUES ($1, $2)
ON CONFLICT (entity_type)
DO UPDATE SET last_value = id_counters.last_value + 1
RETURNING last_value`

// Next returns the next public identifier for the given entity type,
// e.g. "AST-1000". Fails for entity types without a sequenced identifier.
func (r *Repo) Next(ctx context.Context, entityType domain.EntityType) (string, error) {
	if !domain.HasSequencedID(entityType) {
		return "", domain.NewValidationError("entity_type", "no sequenced identifier for this type")
	}

	q := postgres.QuerierFromCtx(ctx, r.db)

	var seq int64
	if err := q.QueryRow(ctx, nextSQL, entityType, domain.IdentifierSeed).Scan(&seq); err != nil {
		return "", postgres.MapError(err, "id_counter", entityType.String())
	}

	return domain.FormatIdentifier(entityType, seq)
}
