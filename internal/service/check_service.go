package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"zip-gate/internal/model"
	"zip-gate/internal/postal"
	"zip-gate/internal/repository"
	"zip-gate/internal/session"

	"github.com/rs/zerolog"
)

// Default messages shown when a matching record carries no custom message,
// or when no record is configured for the code at all.
const (
	MsgNoPolicy    = "Delivery not available in your area."
	MsgAvailable   = "Available for delivery in your area."
	MsgUnavailable = "Not available for delivery in your area."
)

// checkService implements CheckService.
type checkService struct {
	codeRepo repository.CodeRepository
	sessions *session.Store
	logger   zerolog.Logger
	nowFunc  func() time.Time
}

// NewCheckService creates a new availability check service.
func NewCheckService(codeRepo repository.CodeRepository, sessions *session.Store, logger zerolog.Logger) CheckService {
	return &checkService{
		codeRepo: codeRepo,
		sessions: sessions,
		logger:   logger.With().Str("service", "check").Logger(),
		nowFunc:  time.Now,
	}
}

// Check resolves a raw code to an availability outcome. A code with no
// configured record is reported unavailable: shipping somewhere the shop has
// no policy for is the mistake to avoid, so the default fails closed.
func (s *checkService) Check(ctx context.Context, sessionID, rawCode string, productID int64) (*model.CheckResponse, error) {
	if strings.TrimSpace(rawCode) == "" {
		return nil, model.ErrMissingZipCode
	}
	if productID <= 0 {
		return nil, model.ErrMissingProductID
	}

	zipCode := postal.Normalize(rawCode)

	rec, err := s.codeRepo.GetByCode(ctx, zipCode)
	if err != nil {
		s.logger.Error().Err(err).Str("zip_code", zipCode).Msg("failed to resolve code")
		return nil, fmt.Errorf("failed to resolve code: %w", err)
	}

	resp := &model.CheckResponse{ZipCode: zipCode}

	if rec == nil {
		resp.Availability = model.AvailabilityUnavailable
		resp.Message = MsgNoPolicy
	} else {
		resp.Availability = rec.Availability
		switch {
		case rec.Message != "":
			resp.Message = rec.Message
		case rec.Availability == model.AvailabilityAvailable:
			resp.Message = MsgAvailable
		default:
			resp.Message = MsgUnavailable
		}
	}

	s.sessions.Put(sessionID, model.CheckResult{
		Availability: resp.Availability,
		ProductID:    productID,
		ZipCode:      zipCode,
		CheckedAt:    s.nowFunc(),
	})

	s.logger.Info().
		Str("zip_code", zipCode).
		Int64("product_id", productID).
		Str("availability", resp.Availability).
		Bool("matched", rec != nil).
		Msg("availability check")

	return resp, nil
}

// LastResult returns the outcome recorded by the most recent check for the
// session.
func (s *checkService) LastResult(sessionID string) (*model.CheckResult, bool) {
	res, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, false
	}
	return &res, true
}
