package repository

import (
	"context"
	"errors"

	"zip-gate/internal/model"
)

// ErrDuplicateCode reports a unique constraint violation on zip_code. The
// service layer pre-checks uniqueness, but the constraint closes the race
// between concurrent writers.
var ErrDuplicateCode = errors.New("zip code already exists")

// CodeRepository defines the storage contract for code records. Any backing
// mechanism must uphold the in-memory list semantics: unique zip_code,
// monotonic ids that are never reused after deletion.
type CodeRepository interface {
	// Create inserts a new record and returns it with the assigned id and
	// timestamps. Returns ErrDuplicateCode when the code already exists.
	Create(ctx context.Context, rec *model.CodeRecord) (*model.CodeRecord, error)

	// GetByID retrieves a record by id, or nil when absent.
	GetByID(ctx context.Context, id int64) (*model.CodeRecord, error)

	// GetByCode retrieves a record by its normalized zip code, or nil when
	// absent. Absence is not an error: callers treat it as "no policy
	// configured".
	GetByCode(ctx context.Context, zipCode string) (*model.CodeRecord, error)

	// List returns a page of records matching the filter, plus the total
	// match count before pagination.
	List(ctx context.Context, params model.ListParams) ([]model.CodeRecord, int, error)

	// Update persists the merged record under its id, refreshing updated_at.
	// Writers to the same record serialize; the last committed write wins
	// wholesale. Returns ErrDuplicateCode when the new code collides.
	Update(ctx context.Context, rec *model.CodeRecord) (*model.CodeRecord, error)

	// Delete removes a record, reporting whether it existed.
	Delete(ctx context.Context, id int64) (bool, error)
}
