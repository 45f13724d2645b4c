package booking

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftcab/service-booking/internal/apperrors"
)

func TestResult(t *testing.T) {
	ok := OK()
	assert.True(t, ok.Success)
	assert.Empty(t, ok.Error)
	assert.Empty(t, ok.Code)

	failed := Fail(apperrors.NewConflictError("booking b-1 already exists"))
	assert.False(t, failed.Success)
	assert.Equal(t, "booking b-1 already exists", failed.Error)
	assert.Equal(t, apperrors.CodeConflict, failed.Code)

	// Untyped errors degrade to the internal code.
	failed = Fail(errors.New("boom"))
	assert.Equal(t, apperrors.CodeInternal, failed.Code)
}

func TestListResult_NeverNil(t *testing.T) {
	res := ListOK(nil)
	require.NotNil(t, res.Bookings)
	assert.Empty(t, res.Bookings)

	res = ListFail(apperrors.NewUnavailableError("store unreachable", nil))
	require.NotNil(t, res.Bookings)
	assert.Empty(t, res.Bookings)
	assert.Equal(t, apperrors.CodeUnavailable, res.Code)

	// The JSON form keeps the empty array so clients can always iterate.
	raw, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"bookings":[]`)
}

func TestBookingJSON_NullableDispatchFields(t *testing.T) {
	start, end := validPoints()
	bk, err := NewBooking("Aina", "+60123456789", start, end, TierEconomy, 4.2, 7.54)
	require.NoError(t, err)

	raw, err := json.Marshal(bk)
	require.NoError(t, err)

	// Unassigned bookings serialize taxi_id and eta as explicit nulls rather
	// than omitting them.
	assert.Contains(t, string(raw), `"taxi_id":null`)
	assert.Contains(t, string(raw), `"eta":null`)
}
