package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"zip-gate/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// codeRepository implements the CodeRepository interface using PostgreSQL.
type codeRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCodeRepository creates a new PostgreSQL-backed code repository.
func NewCodeRepository(pool *pgxpool.Pool, logger zerolog.Logger) CodeRepository {
	return &codeRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "code").Logger(),
	}
}

const codeColumns = "id, zip_code, availability, message, created_at, updated_at"

// sortColumns whitelists the order-by fields exposed by the list API.
var sortColumns = map[string]string{
	"id":           "id",
	"zip_code":     "zip_code",
	"availability": "availability",
	"created_at":   "created_at",
}

// Create inserts a new code record.
func (r *codeRepository) Create(ctx context.Context, rec *model.CodeRecord) (*model.CodeRecord, error) {
	query := `
		INSERT INTO codes (zip_code, availability, message)
		VALUES ($1, $2, $3)
		RETURNING ` + codeColumns

	var created model.CodeRecord
	err := r.pool.QueryRow(ctx, query, rec.ZipCode, rec.Availability, rec.Message).Scan(
		&created.ID, &created.ZipCode, &created.Availability, &created.Message,
		&created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.Debug().Str("zip_code", rec.ZipCode).Msg("duplicate zip code on insert")
			return nil, ErrDuplicateCode
		}
		r.logger.Error().Err(err).Str("zip_code", rec.ZipCode).Msg("failed to insert code")
		return nil, fmt.Errorf("failed to insert code: %w", err)
	}

	r.logger.Debug().
		Int64("code_id", created.ID).
		Str("zip_code", created.ZipCode).
		Msg("code created successfully")

	return &created, nil
}

// GetByID retrieves a single code record by its id.
func (r *codeRepository) GetByID(ctx context.Context, id int64) (*model.CodeRecord, error) {
	query := `SELECT ` + codeColumns + ` FROM codes WHERE id = $1`

	var rec model.CodeRecord
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.ZipCode, &rec.Availability, &rec.Message,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("code_id", id).Msg("code not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("code_id", id).Msg("failed to query code")
		return nil, fmt.Errorf("failed to query code: %w", err)
	}

	return &rec, nil
}

// GetByCode retrieves a single code record by its normalized zip code.
func (r *codeRepository) GetByCode(ctx context.Context, zipCode string) (*model.CodeRecord, error) {
	query := `SELECT ` + codeColumns + ` FROM codes WHERE zip_code = $1`

	var rec model.CodeRecord
	err := r.pool.QueryRow(ctx, query, zipCode).Scan(
		&rec.ID, &rec.ZipCode, &rec.Availability, &rec.Message,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("zip_code", zipCode).Msg("failed to query code by zip")
		return nil, fmt.Errorf("failed to query code by zip: %w", err)
	}

	return &rec, nil
}

// List returns a page of code records and the total match count. Results are
// ordered by the requested column with an id ASC tie-break so pagination is
// deterministic.
func (r *codeRepository) List(ctx context.Context, params model.ListParams) ([]model.CodeRecord, int, error) {
	var (
		conditions []string
		args       []interface{}
	)

	if params.Search != "" {
		args = append(args, "%"+escapeLike(params.Search)+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(zip_code ILIKE $%d OR message ILIKE $%d)", n, n))
	}

	if params.Availability != "" {
		args = append(args, params.Availability)
		conditions = append(conditions, fmt.Sprintf("availability = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM codes` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Error().Err(err).Msg("failed to count codes")
		return nil, 0, fmt.Errorf("failed to count codes: %w", err)
	}

	column, ok := sortColumns[params.OrderBy]
	if !ok {
		column = "id"
	}
	direction := "DESC"
	if strings.EqualFold(params.Order, "ASC") {
		direction = "ASC"
	}

	args = append(args, params.PerPage, (params.Page-1)*params.PerPage)
	query := fmt.Sprintf(
		`SELECT %s FROM codes%s ORDER BY %s %s, id ASC LIMIT $%d OFFSET $%d`,
		codeColumns, where, column, direction, len(args)-1, len(args),
	)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query codes")
		return nil, 0, fmt.Errorf("failed to query codes: %w", err)
	}
	defer rows.Close()

	var records []model.CodeRecord
	for rows.Next() {
		var rec model.CodeRecord
		err := rows.Scan(
			&rec.ID, &rec.ZipCode, &rec.Availability, &rec.Message,
			&rec.CreatedAt, &rec.UpdatedAt,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan code row")
			return nil, 0, fmt.Errorf("failed to scan code: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating code rows")
		return nil, 0, fmt.Errorf("error iterating codes: %w", err)
	}

	return records, total, nil
}

// Update persists a merged record. The row is locked with SELECT ... FOR
// UPDATE so concurrent writers to the same record serialize; the last
// committed write replaces the whole record (no field merge).
func (r *codeRepository) Update(ctx context.Context, rec *model.CodeRecord) (*model.CodeRecord, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var lockedID int64
	err = tx.QueryRow(ctx, `SELECT id FROM codes WHERE id = $1 FOR UPDATE`, rec.ID).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("code_id", rec.ID).Msg("code not found for update")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("code_id", rec.ID).Msg("failed to lock code row")
		return nil, fmt.Errorf("failed to lock code row: %w", err)
	}

	// clock_timestamp() rather than now(): updated_at must be strictly later
	// than the previous value even within the same transaction timestamp.
	query := `
		UPDATE codes
		SET zip_code = $2, availability = $3, message = $4, updated_at = clock_timestamp()
		WHERE id = $1
		RETURNING ` + codeColumns

	var updated model.CodeRecord
	err = tx.QueryRow(ctx, query, rec.ID, rec.ZipCode, rec.Availability, rec.Message).Scan(
		&updated.ID, &updated.ZipCode, &updated.Availability, &updated.Message,
		&updated.CreatedAt, &updated.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.Debug().Str("zip_code", rec.ZipCode).Msg("duplicate zip code on update")
			return nil, ErrDuplicateCode
		}
		r.logger.Error().Err(err).Int64("code_id", rec.ID).Msg("failed to update code")
		return nil, fmt.Errorf("failed to update code: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Int64("code_id", rec.ID).Msg("failed to commit update")
		return nil, fmt.Errorf("failed to commit update: %w", err)
	}

	r.logger.Debug().Int64("code_id", updated.ID).Msg("code updated successfully")

	return &updated, nil
}

// Delete removes a code record, reporting whether a row was deleted.
func (r *codeRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM codes WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("code_id", id).Msg("failed to delete code")
		return false, fmt.Errorf("failed to delete code: %w", err)
	}

	deleted := tag.RowsAffected() > 0
	if deleted {
		r.logger.Debug().Int64("code_id", id).Msg("code deleted successfully")
	}

	return deleted, nil
}

// likeEscaper escapes LIKE metacharacters so search terms match literally
// rather than as wildcards.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
