package booking

import (
	"context"
	"time"

	"github.com/gearshare/gearshare-backend/internal/item"
)

// ItemBookings adapts the booking store to the lookups the item module needs
// for owner-view enrichment and comment eligibility.
type ItemBookings struct {
	repo Repository
}

func NewItemBookings(repo Repository) *ItemBookings {
	return &ItemBookings{repo: repo}
}

var _ item.BookingReader = (*ItemBookings)(nil)

func (a *ItemBookings) LastApproved(ctx context.Context, itemID int64, now time.Time) (*item.BookingSummary, error) {
	b, err := a.repo.LastApproved(ctx, itemID, now)
	if err != nil {
		return nil, err
	}
	return summary(b), nil
}

func (a *ItemBookings) NextApproved(ctx context.Context, itemID int64, now time.Time) (*item.BookingSummary, error) {
	b, err := a.repo.NextApproved(ctx, itemID, now)
	if err != nil {
		return nil, err
	}
	return summary(b), nil
}

func (a *ItemBookings) HasCompletedBooking(ctx context.Context, itemID, userID int64, now time.Time) (bool, error) {
	return a.repo.HasCompletedBooking(ctx, itemID, userID, now)
}

func summary(b *Booking) *item.BookingSummary {
	if b == nil {
		return nil
	}
	return &item.BookingSummary{ID: b.ID, BookerID: b.BookerID}
}
