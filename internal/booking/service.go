package booking

import (
	"context"
	"log"
	"time"

	"github.com/gearshare/gearshare-backend/internal/clock"
	"github.com/gearshare/gearshare-backend/internal/item"
	"github.com/gearshare/gearshare-backend/internal/user"
)

type CreateRequest struct {
	ItemID int64
	Start  time.Time
	End    time.Time
}

type Service interface {
	Create(ctx context.Context, bookerID int64, req CreateRequest) (*Booking, error)
	Approve(ctx context.Context, ownerID, bookingID int64, approved bool) (*Booking, error)
	GetByID(ctx context.Context, callerID, bookingID int64) (*Booking, error)
	ListByBooker(ctx context.Context, bookerID int64, state State) ([]*Booking, error)
	ListByOwner(ctx context.Context, ownerID int64, state State) ([]*Booking, error)
}

type service struct {
	repo        Repository
	userService user.Service
	itemService item.Service
	clk         clock.Clock
}

func NewService(repo Repository, userService user.Service, itemService item.Service, clk clock.Clock) Service {
	return &service{
		repo:        repo,
		userService: userService,
		itemService: itemService,
		clk:         clk,
	}
}

func (s *service) Create(ctx context.Context, bookerID int64, req CreateRequest) (*Booking, error) {
	if err := ValidateWindow(req.Start, req.End, s.clk.Now()); err != nil {
		return nil, err
	}

	if _, err := s.userService.GetByID(ctx, bookerID); err != nil {
		return nil, err
	}

	it, err := s.itemService.Get(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	// An owner booking their own item gets the same not-found as a missing
	// item. Intentional: this code path must not confirm the item exists.
	if it.OwnerID == bookerID {
		return nil, item.ErrNotFound
	}

	if !it.Available {
		return nil, ErrItemUnavailable
	}

	b := &Booking{
		ItemID:   it.ID,
		ItemName: it.Name,
		OwnerID:  it.OwnerID,
		BookerID: bookerID,
		Start:    req.Start,
		End:      req.End,
		Status:   StatusWaiting,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	log.Printf("created booking id=%d, itemId=%d, bookerId=%d", b.ID, b.ItemID, bookerID)
	return b, nil
}

func (s *service) Approve(ctx context.Context, ownerID, bookingID int64, approved bool) (*Booking, error) {
	if _, err := s.userService.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !IsOwner(b, ownerID) {
		return nil, ErrOnlyOwnerApprove
	}
	if b.Status != StatusWaiting {
		return nil, ErrAlreadyProcessed
	}

	status := StatusRejected
	if approved {
		status = StatusApproved
	}

	// The store applies the transition only if the row is still WAITING, so a
	// concurrent approval loses here instead of overwriting a terminal state.
	updated, err := s.repo.UpdateStatusIfWaiting(ctx, bookingID, status)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrAlreadyProcessed
	}

	b.Status = status
	log.Printf("booking %d set to %s by owner %d", bookingID, status, ownerID)
	return b, nil
}

func (s *service) GetByID(ctx context.Context, callerID, bookingID int64) (*Booking, error) {
	if _, err := s.userService.GetByID(ctx, callerID); err != nil {
		return nil, err
	}

	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !CanView(b, callerID) {
		return nil, ErrAccessDenied
	}

	return b, nil
}

func (s *service) ListByBooker(ctx context.Context, bookerID int64, state State) ([]*Booking, error) {
	if _, err := s.userService.GetByID(ctx, bookerID); err != nil {
		return nil, err
	}
	return s.repo.ListByBooker(ctx, bookerID, state, s.clk.Now())
}

func (s *service) ListByOwner(ctx context.Context, ownerID int64, state State) ([]*Booking, error) {
	if _, err := s.userService.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.repo.ListByOwner(ctx, ownerID, state, s.clk.Now())
}
