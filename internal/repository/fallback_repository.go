package repository

import (
	"context"

	"go.uber.org/zap"

	"github.com/swiftcab/service-booking/internal/apperrors"
	bookingDomain "github.com/swiftcab/service-booking/internal/domain/booking"
)

// FallbackBookingRepository decorates a primary repository with a local
// store that takes over when the primary is unreachable. Only availability
// failures trigger the fallback; data errors such as conflicts or missing
// rows propagate unchanged because retrying them locally would lie to the
// caller.
type FallbackBookingRepository struct {
	primary bookingDomain.BookingRepository
	local   bookingDomain.BookingRepository
	logger  *zap.Logger
}

// NewFallbackBookingRepository creates a new FallbackBookingRepository.
func NewFallbackBookingRepository(primary, local bookingDomain.BookingRepository, logger *zap.Logger) *FallbackBookingRepository {
	return &FallbackBookingRepository{
		primary: primary,
		local:   local,
		logger:  logger,
	}
}

// Create persists the booking remotely, capturing it locally when the
// remote store is unreachable.
func (r *FallbackBookingRepository) Create(ctx context.Context, bk *bookingDomain.Booking) error {
	err := r.primary.Create(ctx, bk)
	if err == nil || !shouldFallback(err) {
		return err
	}
	r.logger.Warn("primary store unavailable, capturing booking locally",
		zap.String("booking_id", bk.ID),
		zap.Error(err),
	)
	return r.local.Create(ctx, bk)
}

// FindByUserPhone reads from the primary store, serving locally captured
// bookings when it is unreachable.
func (r *FallbackBookingRepository) FindByUserPhone(ctx context.Context, userPhone string) ([]bookingDomain.Booking, error) {
	items, err := r.primary.FindByUserPhone(ctx, userPhone)
	if err == nil || !shouldFallback(err) {
		return items, err
	}
	r.logger.Warn("primary store unavailable, listing bookings from local store",
		zap.String("user_phone", userPhone),
		zap.Error(err),
	)
	return r.local.FindByUserPhone(ctx, userPhone)
}

// FindRecent reads from the primary store, serving locally captured
// bookings when it is unreachable.
func (r *FallbackBookingRepository) FindRecent(ctx context.Context, limit int) ([]bookingDomain.Booking, error) {
	items, err := r.primary.FindRecent(ctx, limit)
	if err == nil || !shouldFallback(err) {
		return items, err
	}
	r.logger.Warn("primary store unavailable, listing recent bookings from local store",
		zap.Error(err),
	)
	return r.local.FindRecent(ctx, limit)
}

// UpdateStatus updates the booking remotely, applying the change to the
// local capture when the remote store is unreachable.
func (r *FallbackBookingRepository) UpdateStatus(ctx context.Context, id, status string) error {
	err := r.primary.UpdateStatus(ctx, id, status)
	if err == nil || !shouldFallback(err) {
		return err
	}
	r.logger.Warn("primary store unavailable, updating booking status locally",
		zap.String("booking_id", id),
		zap.String("status", status),
		zap.Error(err),
	)
	return r.local.UpdateStatus(ctx, id, status)
}

// shouldFallback limits the fallback to availability failures.
func shouldFallback(err error) bool {
	return apperrors.IsCode(err, apperrors.CodeUnavailable)
}
