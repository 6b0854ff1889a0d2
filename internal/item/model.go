package item

import (
	"context"
	"net/http"
	"time"

	"github.com/gearshare/gearshare-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "item not found")
	ErrOnlyOwner          = apperror.New(http.StatusForbidden, "only owner can update item")
	ErrNameBlank          = apperror.New(http.StatusBadRequest, "name must not be blank")
	ErrDescriptionBlank   = apperror.New(http.StatusBadRequest, "description must not be blank")
	ErrAvailableRequired  = apperror.New(http.StatusBadRequest, "available must not be null")
	ErrCommentBlank       = apperror.New(http.StatusBadRequest, "text must not be blank")
	ErrNoCompletedBooking = apperror.New(http.StatusBadRequest, "user has no completed booking for item")
)

type Item struct {
	ID          int64
	Name        string
	Description string
	Available   bool
	OwnerID     int64
}

type Comment struct {
	ID         int64
	ItemID     int64
	Text       string
	AuthorID   int64
	AuthorName string
	Created    time.Time
}

// BookingSummary is the short booking reference attached to owner item views.
type BookingSummary struct {
	ID       int64
	BookerID int64
}

// Detail is an item with its derived view data: comments for everyone,
// last/next approved booking only when viewed by the owner.
type Detail struct {
	Item
	LastBooking *BookingSummary
	NextBooking *BookingSummary
	Comments    []*Comment
}

// BookingReader is the slice of the booking store the item module consumes.
// Implemented by the booking package; defined here to keep the dependency
// one-directional.
type BookingReader interface {
	// LastApproved returns the most recent approved booking of the item
	// whose start is before now, or nil if there is none.
	LastApproved(ctx context.Context, itemID int64, now time.Time) (*BookingSummary, error)
	// NextApproved returns the earliest approved booking of the item
	// whose start is after now, or nil if there is none.
	NextApproved(ctx context.Context, itemID int64, now time.Time) (*BookingSummary, error)
	// HasCompletedBooking reports whether the user has an approved booking
	// of the item that ended before now.
	HasCompletedBooking(ctx context.Context, itemID, userID int64, now time.Time) (bool, error)
}
