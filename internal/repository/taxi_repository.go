package repository

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/swiftcab/service-booking/internal/apperrors"
	bookingDomain "github.com/swiftcab/service-booking/internal/domain/booking"
	taxiDomain "github.com/swiftcab/service-booking/internal/domain/taxi"
	"github.com/swiftcab/service-booking/internal/postgrest"
)

const (
	taxisTable          = "taxis"
	defaultCatalogLimit = 20
)

// taxiRow is the wire shape of one row in the remote taxis table.
type taxiRow struct {
	ID          string  `json:"id" validate:"required"`
	DriverName  string  `json:"driver_name"`
	PlateNumber string  `json:"plate_number"`
	Tier        string  `json:"tier" validate:"required"`
	Available   bool    `json:"available"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

// RestTaxiRepository implements TaxiRepository against the hosted data API.
type RestTaxiRepository struct {
	client   *postgrest.Client
	validate *validator.Validate
}

// NewRestTaxiRepository creates a new RestTaxiRepository.
func NewRestTaxiRepository(client *postgrest.Client) *RestTaxiRepository {
	return &RestTaxiRepository{
		client:   client,
		validate: validator.New(),
	}
}

// FindByID retrieves a taxi from the fleet catalog.
func (r *RestTaxiRepository) FindByID(ctx context.Context, id string) (*taxiDomain.Taxi, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("id", "eq."+id)
	query.Set("limit", "1")

	var rows []taxiRow
	if err := r.client.Select(ctx, taxisTable, query, &rows); err != nil {
		return nil, mapStoreError("find taxi", err)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewNotFoundError("taxi", id)
	}
	return r.toDomainTaxi(rows[0])
}

// FindAvailable retrieves taxis currently accepting rides, optionally
// narrowed to a tier.
func (r *RestTaxiRepository) FindAvailable(ctx context.Context, tier bookingDomain.TaxiTier, limit int) ([]taxiDomain.Taxi, error) {
	if limit <= 0 {
		limit = defaultCatalogLimit
	}

	query := url.Values{}
	query.Set("select", "*")
	query.Set("available", "eq.true")
	if tier != "" {
		query.Set("tier", "eq."+string(tier))
	}
	query.Set("order", "driver_name.asc")
	query.Set("limit", strconv.Itoa(limit))

	var rows []taxiRow
	if err := r.client.Select(ctx, taxisTable, query, &rows); err != nil {
		return nil, mapStoreError("list available taxis", err)
	}

	taxis := make([]taxiDomain.Taxi, len(rows))
	for i, row := range rows {
		t, err := r.toDomainTaxi(row)
		if err != nil {
			return nil, err
		}
		taxis[i] = *t
	}
	return taxis, nil
}

// --- Conversion Helpers ---

func (r *RestTaxiRepository) toDomainTaxi(row taxiRow) (*taxiDomain.Taxi, error) {
	if err := r.validate.Struct(&row); err != nil {
		return nil, apperrors.NewInternalError(fmt.Sprintf("store returned malformed taxi row %q", row.ID), err)
	}
	return &taxiDomain.Taxi{
		ID:          row.ID,
		DriverName:  row.DriverName,
		PlateNumber: row.PlateNumber,
		Tier:        bookingDomain.TaxiTier(row.Tier),
		Available:   row.Available,
		Location:    bookingDomain.Point{Lat: row.Lat, Lng: row.Lng},
	}, nil
}
