package service

import (
	"context"

	"zip-gate/internal/model"
)

// CodeService defines operations for managing availability code records.
type CodeService interface {
	// Create validates and stores a new code record.
	Create(ctx context.Context, input *model.CodeInput) (*model.CodeRecord, error)

	// GetByID retrieves a single code record by id.
	GetByID(ctx context.Context, id int64) (*model.CodeRecord, error)

	// List returns a filtered, sorted, paginated page of code records.
	List(ctx context.Context, params model.ListParams) (*model.ListResult, error)

	// Update applies a partial update to an existing code record.
	Update(ctx context.Context, id int64, input *model.CodeInput) (*model.CodeRecord, error)

	// Delete removes a code record.
	Delete(ctx context.Context, id int64) error
}

// CheckService resolves raw shopper input to an availability outcome and
// records it against the shopper session.
type CheckService interface {
	// Check normalizes rawCode, resolves it against the code store, records
	// the outcome for the session, and returns the result payload. A code
	// with no configured record is unavailable (fail-closed).
	Check(ctx context.Context, sessionID, rawCode string, productID int64) (*model.CheckResponse, error)

	// LastResult returns the outcome recorded by the most recent check for
	// the session, if any is still live.
	LastResult(sessionID string) (*model.CheckResult, bool)
}
