package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"zip-gate/internal/model"
	"zip-gate/internal/postal"
	"zip-gate/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// codeService implements CodeService.
type codeService struct {
	codeRepo repository.CodeRepository
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewCodeService creates a new code service.
func NewCodeService(codeRepo repository.CodeRepository, logger zerolog.Logger) CodeService {
	v := validator.New()
	// The "postalcode" rule delegates to the shared acceptance set, so the
	// payload validator and the lookup path can never disagree.
	_ = v.RegisterValidation("postalcode", func(fl validator.FieldLevel) bool {
		return postal.Valid(fl.Field().String())
	})

	return &codeService{
		codeRepo: codeRepo,
		validate: v,
		logger:   logger.With().Str("service", "code").Logger(),
	}
}

// Create validates and stores a new code record.
func (s *codeService) Create(ctx context.Context, input *model.CodeInput) (*model.CodeRecord, error) {
	if input.ZipCode == nil || strings.TrimSpace(*input.ZipCode) == "" {
		return nil, model.ErrMissingZipCode
	}
	if input.Availability == nil || *input.Availability == "" {
		return nil, model.ErrInvalidAvailability
	}

	if err := s.validate.Struct(input); err != nil {
		return nil, mapValidationError(err)
	}

	zipCode := postal.Normalize(*input.ZipCode)

	existing, err := s.codeRepo.GetByCode(ctx, zipCode)
	if err != nil {
		return nil, fmt.Errorf("failed to check zip code uniqueness: %w", err)
	}
	if existing != nil {
		s.logger.Debug().Str("zip_code", zipCode).Msg("zip code already exists")
		return nil, model.ErrZipCodeExists(zipCode)
	}

	rec := &model.CodeRecord{
		ZipCode:      zipCode,
		Availability: *input.Availability,
	}
	if input.Message != nil {
		rec.Message = strings.TrimSpace(*input.Message)
	}

	created, err := s.codeRepo.Create(ctx, rec)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateCode) {
			// Another writer won the race between the uniqueness check and
			// the insert.
			return nil, model.ErrZipCodeExists(zipCode)
		}
		s.logger.Error().Err(err).Str("zip_code", zipCode).Msg("failed to create code")
		return nil, model.ErrSaveFailed("save")
	}

	s.logger.Info().
		Int64("code_id", created.ID).
		Str("zip_code", created.ZipCode).
		Str("availability", created.Availability).
		Msg("code created")

	return created, nil
}

// GetByID retrieves a single code record.
func (s *codeService) GetByID(ctx context.Context, id int64) (*model.CodeRecord, error) {
	rec, err := s.codeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get code: %w", err)
	}
	if rec == nil {
		return nil, model.ErrCodeNotFoundByID(id)
	}

	return rec, nil
}

// List returns a filtered, sorted, paginated page of code records.
func (s *codeService) List(ctx context.Context, params model.ListParams) (*model.ListResult, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PerPage <= 0 {
		params.PerPage = 10
	}
	if params.PerPage > 100 {
		params.PerPage = 100
	}
	if params.OrderBy == "" {
		params.OrderBy = "id"
	}
	if params.Order == "" {
		params.Order = "DESC"
	}

	switch params.OrderBy {
	case "id", "zip_code", "availability", "created_at":
	default:
		return nil, model.ErrInvalidRequest("Invalid orderby parameter.").WithField("orderby")
	}
	if !strings.EqualFold(params.Order, "ASC") && !strings.EqualFold(params.Order, "DESC") {
		return nil, model.ErrInvalidRequest("Order must be ASC or DESC.").WithField("order")
	}
	if params.Availability != "" && !model.ValidAvailability(params.Availability) {
		return nil, model.ErrInvalidAvailability
	}

	records, total, err := s.codeRepo.List(ctx, params)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list codes")
		return nil, fmt.Errorf("failed to list codes: %w", err)
	}
	if records == nil {
		records = []model.CodeRecord{}
	}

	pages := 0
	if total > 0 {
		pages = (total + params.PerPage - 1) / params.PerPage
	}

	s.logger.Debug().
		Int("count", len(records)).
		Int("total", total).
		Int("page", params.Page).
		Msg("listed codes")

	return &model.ListResult{
		Items: records,
		Total: total,
		Pages: pages,
		Page:  params.Page,
	}, nil
}

// Update applies a partial update: only supplied fields change, every
// supplied field is validated exactly as on create, and updated_at is
// refreshed.
func (s *codeService) Update(ctx context.Context, id int64, input *model.CodeInput) (*model.CodeRecord, error) {
	existing, err := s.codeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get code: %w", err)
	}
	if existing == nil {
		return nil, model.ErrCodeNotFoundByID(id)
	}

	if input.ZipCode != nil && strings.TrimSpace(*input.ZipCode) == "" {
		return nil, model.ErrInvalidZipCode
	}
	if input.Availability != nil && *input.Availability == "" {
		return nil, model.ErrInvalidAvailability
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, mapValidationError(err)
	}

	merged := *existing
	if input.ZipCode != nil {
		merged.ZipCode = postal.Normalize(*input.ZipCode)
	}
	if input.Availability != nil {
		merged.Availability = *input.Availability
	}
	if input.Message != nil {
		merged.Message = strings.TrimSpace(*input.Message)
	}

	// Uniqueness check excludes the record being updated.
	if merged.ZipCode != existing.ZipCode {
		other, err := s.codeRepo.GetByCode(ctx, merged.ZipCode)
		if err != nil {
			return nil, fmt.Errorf("failed to check zip code uniqueness: %w", err)
		}
		if other != nil && other.ID != id {
			return nil, model.ErrZipCodeExists(merged.ZipCode)
		}
	}

	updated, err := s.codeRepo.Update(ctx, &merged)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateCode) {
			return nil, model.ErrZipCodeExists(merged.ZipCode)
		}
		s.logger.Error().Err(err).Int64("code_id", id).Msg("failed to update code")
		return nil, model.ErrSaveFailed("update")
	}
	if updated == nil {
		// Deleted between the read and the write.
		return nil, model.ErrCodeNotFoundByID(id)
	}

	s.logger.Info().
		Int64("code_id", updated.ID).
		Str("zip_code", updated.ZipCode).
		Msg("code updated")

	return updated, nil
}

// Delete removes a code record.
func (s *codeService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.codeRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("code_id", id).Msg("failed to delete code")
		return model.ErrSaveFailed("delete")
	}
	if !deleted {
		return model.ErrCodeNotFoundByID(id)
	}

	s.logger.Info().Int64("code_id", id).Msg("code deleted")

	return nil
}

// mapValidationError translates validator failures into field-level domain
// errors.
func mapValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return model.ErrInvalidRequest("Invalid request payload.")
	}

	for _, fe := range verrs {
		switch fe.StructField() {
		case "ZipCode":
			return model.ErrInvalidZipCode
		case "Availability":
			return model.ErrInvalidAvailability
		case "Message":
			return model.ErrInvalidRequest("Message must be at most 500 characters.").WithField("message")
		}
	}

	return model.ErrInvalidRequest("Invalid request payload.")
}
