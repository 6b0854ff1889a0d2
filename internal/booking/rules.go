package booking

import "time"

// Pure predicates over already-loaded entities. No I/O here so they stay
// unit-testable without a persistence fixture.

// ValidateWindow checks the temporal preconditions for a new booking: both
// instants must lie in the future relative to now and the window must have
// positive length.
func ValidateWindow(start, end, now time.Time) error {
	if !start.After(now) {
		return ErrStartNotFuture
	}
	if !end.After(now) {
		return ErrEndNotFuture
	}
	if !end.After(start) {
		return ErrEndNotAfterStart
	}
	return nil
}

// CanView reports whether the user may read the booking. Visibility is
// symmetric: the booker and the item owner, nobody else.
func CanView(b *Booking, userID int64) bool {
	return b.BookerID == userID || b.OwnerID == userID
}

// IsOwner reports whether the user owns the booked item.
func IsOwner(b *Booking, userID int64) bool {
	return b.OwnerID == userID
}
