package seed

import (
	"context"
	"errors"
	"fmt"

	"zip-gate/internal/model"
	"zip-gate/internal/postal"
	"zip-gate/internal/repository"

	"github.com/rs/zerolog"
)

// Importer inserts seed entries into the code store. Rows that fail
// validation and codes that already exist are skipped, never overwritten.
type Importer struct {
	codeRepo repository.CodeRepository
	logger   zerolog.Logger
}

// NewImporter creates a new seed importer.
func NewImporter(codeRepo repository.CodeRepository, logger zerolog.Logger) *Importer {
	return &Importer{
		codeRepo: codeRepo,
		logger:   logger.With().Str("component", "seed-importer").Logger(),
	}
}

// Import stores the given entries and returns the number actually inserted.
// Storage failures abort the import; invalid or duplicate rows do not.
func (i *Importer) Import(ctx context.Context, entries []Entry) (int, error) {
	imported := 0

	for _, entry := range entries {
		if !postal.Valid(entry.ZipCode) {
			i.logger.Warn().Str("zip_code", entry.ZipCode).Msg("skipping entry with invalid zip code")
			continue
		}
		if !model.ValidAvailability(entry.Availability) {
			i.logger.Warn().
				Str("zip_code", entry.ZipCode).
				Str("availability", entry.Availability).
				Msg("skipping entry with invalid availability")
			continue
		}

		zipCode := postal.Normalize(entry.ZipCode)

		existing, err := i.codeRepo.GetByCode(ctx, zipCode)
		if err != nil {
			return imported, fmt.Errorf("failed to check existing code %s: %w", zipCode, err)
		}
		if existing != nil {
			i.logger.Debug().Str("zip_code", zipCode).Msg("code already exists, skipping")
			continue
		}

		_, err = i.codeRepo.Create(ctx, &model.CodeRecord{
			ZipCode:      zipCode,
			Availability: entry.Availability,
			Message:      entry.Message,
		})
		if err != nil {
			if errors.Is(err, repository.ErrDuplicateCode) {
				continue
			}
			return imported, fmt.Errorf("failed to import code %s: %w", zipCode, err)
		}

		imported++
	}

	i.logger.Info().
		Int("imported", imported).
		Int("total", len(entries)).
		Msg("seed import complete")

	return imported, nil
}
