package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftcab/service-booking/internal/apperrors"
	bookingDomain "github.com/swiftcab/service-booking/internal/domain/booking"
)

func newLocalRepo(t *testing.T) *LocalBookingRepository {
	t.Helper()
	db, err := OpenLocalStore(filepath.Join(t.TempDir(), "fallback.db"))
	require.NoError(t, err)
	return NewLocalBookingRepository(db)
}

func TestLocalBookingRepository_CreateAndFind(t *testing.T) {
	repo := newLocalRepo(t)
	ctx := context.Background()

	first := testBooking()
	first.ID = "b-1"
	first.Timestamp = 1000
	second := testBooking()
	second.ID = "b-2"
	second.Timestamp = 2000

	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	bookings, err := repo.FindByUserPhone(ctx, first.UserPhone)
	require.NoError(t, err)
	require.Len(t, bookings, 2)

	// Newest first.
	assert.Equal(t, "b-2", bookings[0].ID)
	assert.Equal(t, "b-1", bookings[1].ID)

	// Locations survive the round trip through the jsonb text columns.
	assert.Equal(t, first.StartLocation, bookings[1].StartLocation)
	assert.Equal(t, first.EndLocation, bookings[1].EndLocation)
	assert.Nil(t, bookings[1].TaxiID)
}

func TestLocalBookingRepository_Create_Duplicate(t *testing.T) {
	repo := newLocalRepo(t)
	ctx := context.Background()

	bk := testBooking()
	require.NoError(t, repo.Create(ctx, bk))

	err := repo.Create(ctx, bk)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConflict, apperrors.CodeOf(err))
}

func TestLocalBookingRepository_FindRecent(t *testing.T) {
	repo := newLocalRepo(t)
	ctx := context.Background()

	for i, id := range []string{"b-1", "b-2", "b-3"} {
		bk := testBooking()
		bk.ID = id
		bk.UserPhone = "+60111111111"
		bk.Timestamp = int64(1000 * (i + 1))
		require.NoError(t, repo.Create(ctx, bk))
	}

	bookings, err := repo.FindRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, "b-3", bookings[0].ID)
	assert.Equal(t, "b-2", bookings[1].ID)

	// Non-positive limit falls back to the default window.
	bookings, err = repo.FindRecent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, bookings, 3)
}

func TestLocalBookingRepository_UpdateStatus(t *testing.T) {
	repo := newLocalRepo(t)
	ctx := context.Background()

	bk := testBooking()
	require.NoError(t, repo.Create(ctx, bk))

	require.NoError(t, repo.UpdateStatus(ctx, bk.ID, "cancelled"))

	bookings, err := repo.FindByUserPhone(ctx, bk.UserPhone)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, bookingDomain.StatusCancelled, bookings[0].Status)
}

func TestLocalBookingRepository_UpdateStatus_NotFound(t *testing.T) {
	repo := newLocalRepo(t)

	err := repo.UpdateStatus(context.Background(), "missing", "completed")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}
