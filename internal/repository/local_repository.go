package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/swiftcab/service-booking/internal/apperrors"
	bookingDomain "github.com/swiftcab/service-booking/internal/domain/booking"
)

// BookingRecord is the GORM model for the local fallback bookings table. It
// mirrors the remote schema column for column so captured rows can be
// replayed against the remote store later.
type BookingRecord struct {
	ID             string  `gorm:"primaryKey;size:64"`
	UserName       string  `gorm:"size:120"`
	UserPhone      string  `gorm:"index;size:32"`
	PickupLocation string  `gorm:"type:text;not null"`
	DropLocation   string  `gorm:"type:text;not null"`
	TaxiTier       string  `gorm:"not null;size:20"`
	Distance       float64 `gorm:"not null"`
	Fare           float64 `gorm:"not null"`
	Status         string  `gorm:"not null;size:20;index"`
	TaxiID         *string `gorm:"size:64"`
	ETA            *int
	Timestamp      int64     `gorm:"not null;index"`
	CreatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingRecord) TableName() string {
	return "bookings"
}

// OpenLocalStore opens and migrates the SQLite database backing the local
// fallback store.
func OpenLocalStore(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	if err := db.AutoMigrate(&BookingRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate local store: %w", err)
	}
	return db, nil
}

// LocalBookingRepository is the SQLite-backed BookingRepository that takes
// writes and serves reads while the remote store is unreachable.
type LocalBookingRepository struct {
	db *gorm.DB
}

// NewLocalBookingRepository creates a new LocalBookingRepository.
func NewLocalBookingRepository(db *gorm.DB) *LocalBookingRepository {
	return &LocalBookingRepository{db: db}
}

// Create persists a new booking locally.
func (r *LocalBookingRepository) Create(ctx context.Context, bk *bookingDomain.Booking) error {
	record, err := toBookingRecord(bk)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.NewConflictError(fmt.Sprintf("booking %s already exists", bk.ID))
		}
		return fmt.Errorf("failed to save booking locally: %w", err)
	}
	return nil
}

// FindByUserPhone retrieves locally captured bookings for a phone number,
// newest first.
func (r *LocalBookingRepository) FindByUserPhone(ctx context.Context, userPhone string) ([]bookingDomain.Booking, error) {
	var records []BookingRecord
	if err := r.db.WithContext(ctx).
		Where("user_phone = ?", userPhone).
		Order("timestamp DESC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list local bookings by phone: %w", err)
	}
	return toDomainBookingsFromRecords(records)
}

// FindRecent retrieves the newest locally captured bookings, capped at
// limit. Non-positive limits fall back to the default window.
func (r *LocalBookingRepository) FindRecent(ctx context.Context, limit int) ([]bookingDomain.Booking, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	var records []BookingRecord
	if err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list recent local bookings: %w", err)
	}
	return toDomainBookingsFromRecords(records)
}

// UpdateStatus sets the status of one locally captured booking.
func (r *LocalBookingRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result := r.db.WithContext(ctx).
		Model(&BookingRecord{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update local booking status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("booking", id)
	}
	return nil
}

// --- Conversion Helpers ---

func toBookingRecord(bk *bookingDomain.Booking) (*BookingRecord, error) {
	pickupJSON, err := json.Marshal(bk.StartLocation)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pickup location: %w", err)
	}
	dropJSON, err := json.Marshal(bk.EndLocation)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal drop location: %w", err)
	}

	return &BookingRecord{
		ID:             bk.ID,
		UserName:       bk.UserName,
		UserPhone:      bk.UserPhone,
		PickupLocation: string(pickupJSON),
		DropLocation:   string(dropJSON),
		TaxiTier:       string(bk.Tier),
		Distance:       bookingDomain.RoundMoney(bk.Distance),
		Fare:           bookingDomain.RoundMoney(bk.Fare),
		Status:         string(bk.Status),
		TaxiID:         bk.TaxiID,
		ETA:            bk.ETA,
		Timestamp:      bk.Timestamp,
	}, nil
}

func toDomainBookingFromRecord(rec BookingRecord) (bookingDomain.Booking, error) {
	var pickup, drop bookingDomain.Point
	if err := json.Unmarshal([]byte(rec.PickupLocation), &pickup); err != nil {
		return bookingDomain.Booking{}, apperrors.NewInternalError(fmt.Sprintf("local store returned malformed booking row %q", rec.ID), err)
	}
	if err := json.Unmarshal([]byte(rec.DropLocation), &drop); err != nil {
		return bookingDomain.Booking{}, apperrors.NewInternalError(fmt.Sprintf("local store returned malformed booking row %q", rec.ID), err)
	}

	return bookingDomain.Booking{
		ID:            rec.ID,
		UserName:      rec.UserName,
		UserPhone:     rec.UserPhone,
		StartLocation: pickup,
		EndLocation:   drop,
		Tier:          bookingDomain.TaxiTier(rec.TaxiTier),
		Distance:      rec.Distance,
		Fare:          rec.Fare,
		Status:        bookingDomain.BookingStatus(rec.Status),
		TaxiID:        rec.TaxiID,
		ETA:           rec.ETA,
		Timestamp:     rec.Timestamp,
	}, nil
}

func toDomainBookingsFromRecords(records []BookingRecord) ([]bookingDomain.Booking, error) {
	bookings := make([]bookingDomain.Booking, len(records))
	for i, rec := range records {
		bk, err := toDomainBookingFromRecord(rec)
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}
