package repository

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftcab/service-booking/internal/apperrors"
	bookingDomain "github.com/swiftcab/service-booking/internal/domain/booking"
	"github.com/swiftcab/service-booking/internal/postgrest"
)

func testBooking() *bookingDomain.Booking {
	return &bookingDomain.Booking{
		ID:            "b-100",
		UserName:      "Aina",
		UserPhone:     "+60123456789",
		StartLocation: bookingDomain.Point{Lat: 3.1390, Lng: 101.6869, Address: "KL Sentral"},
		EndLocation:   bookingDomain.Point{Lat: 3.1570, Lng: 101.7120, Address: "KLCC"},
		Tier:          bookingDomain.TierStandard,
		Distance:      4.2,
		Fare:          11.06,
		Status:        bookingDomain.StatusPending,
		Timestamp:     1724563200000,
	}
}

func newBookingRepo(t *testing.T, handler http.HandlerFunc) *RestBookingRepository {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewRestBookingRepository(postgrest.New(srv.URL, "test-key"))
}

const storedRowJSON = `{
	"id": "b-100",
	"user_name": "Aina",
	"user_phone": "+60123456789",
	"pickup_location": {"lat": 3.139, "lng": 101.6869, "address": "KL Sentral"},
	"drop_location": {"lat": 3.157, "lng": 101.712, "address": "KLCC"},
	"taxi_tier": "standard",
	"distance": 4.2,
	"fare": 11.06,
	"status": "assigned",
	"taxi_id": "taxi-17",
	"eta": 6,
	"timestamp": 1724563200000,
	"created_at": "2026-08-25T06:00:00Z"
}`

func TestRestBookingRepository_Create(t *testing.T) {
	var gotBody map[string]any
	repo := newBookingRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/bookings", r.URL.Path)
		assert.Equal(t, "return=minimal", r.Header.Get("Prefer"))

		raw, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(raw, &gotBody))
		w.WriteHeader(http.StatusCreated)
	})

	require.NoError(t, repo.Create(context.Background(), testBooking()))

	assert.Equal(t, "b-100", gotBody["id"])
	assert.Equal(t, "standard", gotBody["taxi_tier"])
	assert.Equal(t, "pending", gotBody["status"])

	// Dispatch columns travel as explicit nulls, never omitted.
	taxiID, present := gotBody["taxi_id"]
	assert.True(t, present, "taxi_id must be present")
	assert.Nil(t, taxiID)
	eta, present := gotBody["eta"]
	assert.True(t, present, "eta must be present")
	assert.Nil(t, eta)

	// created_at belongs to the store.
	_, present = gotBody["created_at"]
	assert.False(t, present, "created_at must not be sent")

	pickup, ok := gotBody["pickup_location"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 3.1390, pickup["lat"])
}

func TestRestBookingRepository_Create_Duplicate(t *testing.T) {
	repo := newBookingRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"code":"23505","message":"duplicate key value violates unique constraint \"bookings_pkey\""}`))
	})

	err := repo.Create(context.Background(), testBooking())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConflict, apperrors.CodeOf(err))
}

func TestRestBookingRepository_Create_StoreDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	repo := NewRestBookingRepository(postgrest.New(srv.URL, "test-key"))

	err := repo.Create(context.Background(), testBooking())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnavailable, apperrors.CodeOf(err))
}

func TestRestBookingRepository_Create_BadKey(t *testing.T) {
	repo := newBookingRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"No suitable key or wrong key type"}`))
	})

	err := repo.Create(context.Background(), testBooking())
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))
}

func TestRestBookingRepository_FindByUserPhone(t *testing.T) {
	repo := newBookingRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "eq.+60123456789", r.URL.Query().Get("user_phone"))
		assert.Equal(t, "timestamp.desc", r.URL.Query().Get("order"))
		assert.Equal(t, "*", r.URL.Query().Get("select"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[" + storedRowJSON + "]"))
	})

	bookings, err := repo.FindByUserPhone(context.Background(), "+60123456789")
	require.NoError(t, err)
	require.Len(t, bookings, 1)

	bk := bookings[0]
	assert.Equal(t, "b-100", bk.ID)
	assert.Equal(t, bookingDomain.StatusAssigned, bk.Status)
	assert.Equal(t, bookingDomain.TierStandard, bk.Tier)
	assert.Equal(t, "KLCC", bk.EndLocation.Address)
	require.NotNil(t, bk.TaxiID)
	assert.Equal(t, "taxi-17", *bk.TaxiID)
	require.NotNil(t, bk.ETA)
	assert.Equal(t, 6, *bk.ETA)
}

func TestRestBookingRepository_FindByUserPhone_Empty(t *testing.T) {
	repo := newBookingRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	bookings, err := repo.FindByUserPhone(context.Background(), "+60000000000")
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestRestBookingRepository_FindRecent_Limit(t *testing.T) {
	var gotLimit string
	repo := newBookingRepo(t, func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := repo.FindRecent(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "5", gotLimit)

	// Non-positive limits fall back to the default window.
	_, err = repo.FindRecent(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "50", gotLimit)

	_, err = repo.FindRecent(context.Background(), -3)
	require.NoError(t, err)
	assert.Equal(t, "50", gotLimit)
}

func TestRestBookingRepository_MalformedRow(t *testing.T) {
	// pickup_location is null, which the schema forbids.
	repo := newBookingRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{
			"id": "b-101",
			"user_name": "Ben",
			"user_phone": "+60198765432",
			"pickup_location": null,
			"drop_location": {"lat": 3.1, "lng": 101.7},
			"taxi_tier": "economy",
			"distance": 2,
			"fare": 4.9,
			"status": "pending",
			"taxi_id": null,
			"eta": null,
			"timestamp": 1724563200000
		}]`))
	})

	_, err := repo.FindRecent(context.Background(), 10)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInternal, apperrors.CodeOf(err))
	assert.Contains(t, apperrors.Message(err), "malformed booking row")
}

func TestRestBookingRepository_UpdateStatus(t *testing.T) {
	repo := newBookingRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "eq.b-100", r.URL.Query().Get("id"))
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"status":"completed"}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[" + storedRowJSON + "]"))
	})

	require.NoError(t, repo.UpdateStatus(context.Background(), "b-100", "completed"))
}

func TestRestBookingRepository_UpdateStatus_NotFound(t *testing.T) {
	repo := newBookingRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	err := repo.UpdateStatus(context.Background(), "missing", "cancelled")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestBookingRowMapping_RoundTrip(t *testing.T) {
	bk := testBooking()
	taxiID := "taxi-17"
	eta := 6
	bk.TaxiID = &taxiID
	bk.ETA = &eta
	bk.Status = bookingDomain.StatusAssigned

	row := toBookingRow(bk)
	back := toDomainBooking(row)
	again := toBookingRow(&back)

	assert.Equal(t, row, again, "mapping must be stable under repetition")
}
