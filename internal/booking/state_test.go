package booking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gearshare/gearshare-backend/internal/booking"
	"github.com/gearshare/gearshare-backend/internal/pkg/apperror"
)

func TestParseState(t *testing.T) {
	cases := []struct {
		raw  string
		want booking.State
	}{
		{"", booking.StateAll},
		{"  ", booking.StateAll},
		{"ALL", booking.StateAll},
		{"all", booking.StateAll},
		{"current", booking.StateCurrent},
		{"Past", booking.StatePast},
		{"FUTURE", booking.StateFuture},
		{"waiting", booking.StateWaiting},
		{"Rejected", booking.StateRejected},
	}

	for _, tc := range cases {
		got, err := booking.ParseState(tc.raw)
		require.NoError(t, err, "token %q", tc.raw)
		assert.Equal(t, tc.want, got, "token %q", tc.raw)
	}
}

func TestParseStateUnknownToken(t *testing.T) {
	for _, raw := range []string{"SOON", "cancelled", "ALL CURRENT"} {
		_, err := booking.ParseState(raw)
		require.Error(t, err, "token %q", raw)

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.Code)
		assert.Contains(t, appErr.Message, raw)
	}
}
