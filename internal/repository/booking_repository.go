package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/swiftcab/service-booking/internal/apperrors"
	bookingDomain "github.com/swiftcab/service-booking/internal/domain/booking"
	"github.com/swiftcab/service-booking/internal/postgrest"
)

const (
	bookingsTable      = "bookings"
	defaultRecentLimit = 50
)

// bookingRow is the wire shape of one row in the remote bookings table.
// Pointer fields keep an unassigned taxi as an explicit JSON null, which the
// store schema expects; created_at is filled by the store and never sent.
// Validate tags describe the schema so malformed rows are rejected at this
// boundary instead of leaking upward.
type bookingRow struct {
	ID             string               `json:"id" validate:"required"`
	UserName       string               `json:"user_name"`
	UserPhone      string               `json:"user_phone"`
	PickupLocation *bookingDomain.Point `json:"pickup_location" validate:"required"`
	DropLocation   *bookingDomain.Point `json:"drop_location" validate:"required"`
	TaxiTier       string               `json:"taxi_tier" validate:"required"`
	Distance       float64              `json:"distance" validate:"gte=0"`
	Fare           float64              `json:"fare" validate:"gte=0"`
	Status         string               `json:"status" validate:"required"`
	TaxiID         *string              `json:"taxi_id"`
	ETA            *int                 `json:"eta" validate:"omitempty,gte=0"`
	Timestamp      int64                `json:"timestamp" validate:"required"`
	CreatedAt      *time.Time           `json:"created_at,omitempty"`
}

// RestBookingRepository implements BookingRepository against the hosted
// data API.
type RestBookingRepository struct {
	client   *postgrest.Client
	validate *validator.Validate
}

// NewRestBookingRepository creates a new RestBookingRepository.
func NewRestBookingRepository(client *postgrest.Client) *RestBookingRepository {
	return &RestBookingRepository{
		client:   client,
		validate: validator.New(),
	}
}

// Create persists a new booking as exactly one row, stored as given.
func (r *RestBookingRepository) Create(ctx context.Context, bk *bookingDomain.Booking) error {
	row := toBookingRow(bk)
	if err := r.client.Insert(ctx, bookingsTable, row); err != nil {
		return mapStoreError("create booking", err)
	}
	return nil
}

// FindByUserPhone retrieves every booking made under the given phone
// number, newest first.
func (r *RestBookingRepository) FindByUserPhone(ctx context.Context, userPhone string) ([]bookingDomain.Booking, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("user_phone", "eq."+userPhone)
	query.Set("order", "timestamp.desc")

	var rows []bookingRow
	if err := r.client.Select(ctx, bookingsTable, query, &rows); err != nil {
		return nil, mapStoreError("list bookings by phone", err)
	}
	return r.toDomainBookings(rows)
}

// FindRecent retrieves the newest bookings across all users, capped at
// limit. Non-positive limits fall back to the default window.
func (r *RestBookingRepository) FindRecent(ctx context.Context, limit int) ([]bookingDomain.Booking, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	query := url.Values{}
	query.Set("select", "*")
	query.Set("order", "timestamp.desc")
	query.Set("limit", strconv.Itoa(limit))

	var rows []bookingRow
	if err := r.client.Select(ctx, bookingsTable, query, &rows); err != nil {
		return nil, mapStoreError("list recent bookings", err)
	}
	return r.toDomainBookings(rows)
}

// UpdateStatus sets the status of one booking, leaving every other field
// untouched. The store echoes the patched rows back; an empty reply means
// the ID matched nothing.
func (r *RestBookingRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := url.Values{}
	query.Set("id", "eq."+id)

	patch := map[string]string{"status": status}
	var updated []bookingRow
	if err := r.client.Update(ctx, bookingsTable, query, patch, &updated); err != nil {
		return mapStoreError("update booking status", err)
	}
	if len(updated) == 0 {
		return apperrors.NewNotFoundError("booking", id)
	}
	return nil
}

// --- Conversion Helpers ---

func toBookingRow(bk *bookingDomain.Booking) bookingRow {
	pickup := bk.StartLocation
	drop := bk.EndLocation
	return bookingRow{
		ID:             bk.ID,
		UserName:       bk.UserName,
		UserPhone:      bk.UserPhone,
		PickupLocation: &pickup,
		DropLocation:   &drop,
		TaxiTier:       string(bk.Tier),
		Distance:       bookingDomain.RoundMoney(bk.Distance),
		Fare:           bookingDomain.RoundMoney(bk.Fare),
		Status:         string(bk.Status),
		TaxiID:         bk.TaxiID,
		ETA:            bk.ETA,
		Timestamp:      bk.Timestamp,
	}
}

// toDomainBooking converts a validated row, dropping the store-owned
// created_at column.
func toDomainBooking(row bookingRow) bookingDomain.Booking {
	return bookingDomain.Booking{
		ID:            row.ID,
		UserName:      row.UserName,
		UserPhone:     row.UserPhone,
		StartLocation: *row.PickupLocation,
		EndLocation:   *row.DropLocation,
		Tier:          bookingDomain.TaxiTier(row.TaxiTier),
		Distance:      row.Distance,
		Fare:          row.Fare,
		Status:        bookingDomain.BookingStatus(row.Status),
		TaxiID:        row.TaxiID,
		ETA:           row.ETA,
		Timestamp:     row.Timestamp,
	}
}

func (r *RestBookingRepository) toDomainBookings(rows []bookingRow) ([]bookingDomain.Booking, error) {
	bookings := make([]bookingDomain.Booking, len(rows))
	for i, row := range rows {
		if err := r.validate.Struct(&row); err != nil {
			return nil, apperrors.NewInternalError(fmt.Sprintf("store returned malformed booking row %q", row.ID), err)
		}
		bookings[i] = toDomainBooking(row)
	}
	return bookings, nil
}

// mapStoreError normalizes transport failures and the store's error
// documents into the shared error taxonomy. Messages stay close to what the
// store reported so callers see the original cause.
func mapStoreError(op string, err error) error {
	var apiErr *postgrest.APIError
	if !errors.As(err, &apiErr) {
		return apperrors.NewUnavailableError(fmt.Sprintf("failed to %s: store unreachable", op), err)
	}

	switch {
	case apiErr.IsUniqueViolation(), apiErr.StatusCode == http.StatusConflict:
		return apperrors.NewConflictError(apiErr.Error())
	case apiErr.StatusCode == http.StatusUnauthorized, apiErr.StatusCode == http.StatusForbidden:
		return apperrors.NewForbiddenError(apiErr.Error())
	case apiErr.StatusCode >= http.StatusInternalServerError:
		return apperrors.NewUnavailableError(apiErr.Error(), nil)
	default:
		return apperrors.NewValidationError(apiErr.Error())
	}
}
