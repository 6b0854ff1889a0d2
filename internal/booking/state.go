package booking

import (
	"net/http"
	"strings"

	"github.com/gearshare/gearshare-backend/internal/pkg/apperror"
)

// State is a query-time classification of bookings, distinct from the stored
// Status: CURRENT/PAST/FUTURE compare the window against now, WAITING/REJECTED
// filter on status, ALL applies no filter.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// ParseState maps a query token to a State. Matching is case-insensitive and
// a blank token means ALL. Unknown tokens are rejected before any service call.
func ParseState(raw string) (State, error) {
	token := strings.TrimSpace(raw)
	if token == "" {
		return StateAll, nil
	}

	switch State(strings.ToUpper(token)) {
	case StateAll:
		return StateAll, nil
	case StateCurrent:
		return StateCurrent, nil
	case StatePast:
		return StatePast, nil
	case StateFuture:
		return StateFuture, nil
	case StateWaiting:
		return StateWaiting, nil
	case StateRejected:
		return StateRejected, nil
	default:
		return "", apperror.New(http.StatusBadRequest, "Unknown state: "+raw)
	}
}
