package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/swiftcab/service-booking/internal/apperrors"
	bookingDomain "github.com/swiftcab/service-booking/internal/domain/booking"
	taxiDomain "github.com/swiftcab/service-booking/internal/domain/taxi"
)

// TaxiService implements read-only use cases over the taxi catalog.
type TaxiService struct {
	repo   taxiDomain.TaxiRepository
	logger *zap.Logger
}

// NewTaxiService creates a new TaxiService.
func NewTaxiService(repo taxiDomain.TaxiRepository, logger *zap.Logger) *TaxiService {
	return &TaxiService{repo: repo, logger: logger}
}

// GetTaxi returns a single taxi by ID.
func (s *TaxiService) GetTaxi(ctx context.Context, taxiID string) (*taxiDomain.Taxi, error) {
	t, err := s.repo.FindByID(ctx, taxiID)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListAvailable returns taxis currently accepting rides, optionally filtered
// by tier.
func (s *TaxiService) ListAvailable(ctx context.Context, tier string, limit int) ([]taxiDomain.Taxi, error) {
	parsed := bookingDomain.TaxiTier(tier)
	if tier != "" && !parsed.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid taxi tier: %s", tier))
	}

	taxis, err := s.repo.FindAvailable(ctx, parsed, limit)
	if err != nil {
		s.logger.Error("failed to list available taxis",
			zap.String("tier", tier),
			zap.Error(err),
		)
		return nil, err
	}
	return taxis, nil
}
