package booking

import (
	"net/http"
	"time"

	"github.com/gearshare/gearshare-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "booking not found")
	ErrAccessDenied     = apperror.New(http.StatusForbidden, "access denied to booking")
	ErrOnlyOwnerApprove = apperror.New(http.StatusForbidden, "only owner can approve booking")
	ErrAlreadyProcessed = apperror.New(http.StatusBadRequest, "booking already processed")
	ErrEndNotAfterStart = apperror.New(http.StatusBadRequest, "end must be after start")
	ErrStartNotFuture   = apperror.New(http.StatusBadRequest, "start must be in the future")
	ErrEndNotFuture     = apperror.New(http.StatusBadRequest, "end must be in the future")
	ErrItemUnavailable  = apperror.New(http.StatusBadRequest, "item is not available for booking")
)

// Status is the stored lifecycle state of a booking. WAITING is the initial
// state; APPROVED and REJECTED are terminal.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

type Booking struct {
	ID       int64
	ItemID   int64
	ItemName string
	// OwnerID is the item owner's id, loaded with the booking for access checks.
	OwnerID   int64
	BookerID  int64
	Start     time.Time
	End       time.Time
	Status    Status
	CreatedAt time.Time
}
