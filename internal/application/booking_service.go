package application

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/swiftcab/service-booking/internal/apperrors"
	bookingDomain "github.com/swiftcab/service-booking/internal/domain/booking"
	"github.com/swiftcab/service-booking/internal/events"
	"github.com/swiftcab/service-booking/internal/kafka"
)

// CreateBookingRequest holds the data needed to create a new booking. Distance
// and fare may be supplied by the caller; when absent they are derived from
// the route and the active rate card.
type CreateBookingRequest struct {
	ID            string               `json:"id"`
	UserName      string               `json:"user_name" binding:"required"`
	UserPhone     string               `json:"user_phone" binding:"required"`
	StartLocation *bookingDomain.Point `json:"start_location" binding:"required"`
	EndLocation   *bookingDomain.Point `json:"end_location" binding:"required"`
	Tier          string               `json:"tier" binding:"required"`
	Distance      *float64             `json:"distance"`
	Fare          *float64             `json:"fare"`
	TaxiID        *string              `json:"taxi_id"`
	ETA           *int                 `json:"eta"`
}

// EventPublisher publishes cloud events to the message bus. A nil publisher
// disables event publishing without changing the booking flow.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// BookingService is the application service orchestrating booking use cases.
// Every operation reports its outcome as a Result rather than an error, so
// transport layers and event consumers share one failure contract.
type BookingService struct {
	repo      bookingDomain.BookingRepository
	fares     bookingDomain.FareStrategy
	publisher EventPublisher
	logger    *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo bookingDomain.BookingRepository,
	fares bookingDomain.FareStrategy,
	publisher EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:      repo,
		fares:     fares,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateBooking builds a booking from the request and persists it. The created
// booking is returned alongside the outcome so callers can echo the stored
// record. A request naming a taxi is stored already assigned.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*bookingDomain.Booking, bookingDomain.Result) {
	tier := bookingDomain.TaxiTier(req.Tier)

	var distance float64
	if req.Distance != nil {
		distance = *req.Distance
	} else {
		distance = haversineDistance(
			req.StartLocation.Lat, req.StartLocation.Lng,
			req.EndLocation.Lat, req.EndLocation.Lng,
		)
	}

	var fare float64
	if req.Fare != nil {
		fare = *req.Fare
	} else {
		estimated, err := s.fares.Estimate(bookingDomain.FareParams{
			DistanceKm: distance,
			Tier:       tier,
		})
		if err != nil {
			return nil, bookingDomain.Fail(apperrors.NewValidationError(fmt.Sprintf("fare estimate: %v", err)))
		}
		fare = estimated
	}

	bk, err := bookingDomain.NewBooking(
		req.UserName,
		req.UserPhone,
		*req.StartLocation,
		*req.EndLocation,
		tier,
		distance,
		fare,
	)
	if err != nil {
		return nil, bookingDomain.Fail(err)
	}

	// Callers that generate booking IDs client-side keep them.
	if req.ID != "" {
		bk.ID = req.ID
	}

	if req.TaxiID != nil {
		if err := bk.Assign(*req.TaxiID, req.ETA); err != nil {
			return nil, bookingDomain.Fail(err)
		}
	}

	if err := s.repo.Create(ctx, bk); err != nil {
		s.logger.Error("failed to create booking",
			zap.String("booking_id", bk.ID),
			zap.Error(err),
		)
		return nil, bookingDomain.Fail(err)
	}

	s.publishBookingCreated(ctx, bk)
	return bk, bookingDomain.OK()
}

// ListByUser retrieves all bookings placed under the given phone number,
// newest first.
func (s *BookingService) ListByUser(ctx context.Context, userPhone string) bookingDomain.ListResult {
	bookings, err := s.repo.FindByUserPhone(ctx, userPhone)
	if err != nil {
		s.logger.Error("failed to list bookings by user",
			zap.String("user_phone", userPhone),
			zap.Error(err),
		)
		return bookingDomain.ListFail(err)
	}
	return bookingDomain.ListOK(bookings)
}

// ListRecent retrieves the most recent bookings across all users. A
// non-positive limit falls back to the repository default.
func (s *BookingService) ListRecent(ctx context.Context, limit int) bookingDomain.ListResult {
	bookings, err := s.repo.FindRecent(ctx, limit)
	if err != nil {
		s.logger.Error("failed to list recent bookings",
			zap.Int("limit", limit),
			zap.Error(err),
		)
		return bookingDomain.ListFail(err)
	}
	return bookingDomain.ListOK(bookings)
}

// UpdateStatus moves a booking to the given status. Unknown statuses are
// rejected before the store is touched.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID, status string) bookingDomain.Result {
	parsed, err := bookingDomain.ParseBookingStatus(status)
	if err != nil {
		return bookingDomain.Fail(apperrors.NewValidationError(err.Error()))
	}

	if err := s.repo.UpdateStatus(ctx, bookingID, string(parsed)); err != nil {
		s.logger.Error("failed to update booking status",
			zap.String("booking_id", bookingID),
			zap.String("status", status),
			zap.Error(err),
		)
		return bookingDomain.Fail(err)
	}

	evt := events.BookingStatusChangedEvent{
		BookingID:  bookingID,
		Status:     string(parsed),
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingStatusChanged, evt)
	return bookingDomain.OK()
}

// QuoteFares estimates the fare for every tier over the given route.
func (s *BookingService) QuoteFares(ctx context.Context, from, to bookingDomain.Point) ([]bookingDomain.FareQuote, error) {
	distanceKm := haversineDistance(from.Lat, from.Lng, to.Lat, to.Lng)

	tiers := bookingDomain.Tiers()
	quotes := make([]bookingDomain.FareQuote, 0, len(tiers))
	for _, tier := range tiers {
		fare, err := s.fares.Estimate(bookingDomain.FareParams{
			DistanceKm: distanceKm,
			Tier:       tier,
		})
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, bookingDomain.FareQuote{
			Tier:       tier,
			DistanceKm: bookingDomain.RoundMoney(distanceKm),
			Fare:       fare,
		})
	}
	return quotes, nil
}

// --- Helpers ---

func (s *BookingService) publishBookingCreated(ctx context.Context, bk *bookingDomain.Booking) {
	evt := events.BookingCreatedEvent{
		BookingID:  bk.ID,
		UserPhone:  bk.UserPhone,
		Tier:       string(bk.Tier),
		PickupLat:  bk.StartLocation.Lat,
		PickupLng:  bk.StartLocation.Lng,
		DropLat:    bk.EndLocation.Lat,
		DropLng:    bk.EndLocation.Lng,
		Fare:       bk.Fare,
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingCreated, evt)
}

func (s *BookingService) publishEvent(ctx context.Context, topic, eventType string, data interface{}) {
	if s.publisher == nil {
		return
	}

	cloudEvent, err := kafka.NewCloudEvent("service-booking", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.publisher.PublishEvent(ctx, topic, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

// haversineDistance calculates the distance between two coordinates in kilometers.
func haversineDistance(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371.0

	dLat := degreesToRadians(lat2 - lat1)
	dLng := degreesToRadians(lng2 - lng1)

	lat1Rad := degreesToRadians(lat1)
	lat2Rad := degreesToRadians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
