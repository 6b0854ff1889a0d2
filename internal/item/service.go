package item

import (
	"context"
	"log"
	"strings"

	"github.com/gearshare/gearshare-backend/internal/clock"
	"github.com/gearshare/gearshare-backend/internal/user"
)

type CreateRequest struct {
	Name        string
	Description string
	Available   *bool
}

type UpdateRequest struct {
	Name        *string
	Description *string
	Available   *bool
}

type Service interface {
	Create(ctx context.Context, ownerID int64, req CreateRequest) (*Item, error)
	Update(ctx context.Context, ownerID, itemID int64, req UpdateRequest) (*Item, error)
	// Get is the plain lookup other modules use; no viewer semantics.
	Get(ctx context.Context, itemID int64) (*Item, error)
	GetByID(ctx context.Context, requesterID, itemID int64) (*Detail, error)
	GetAllByOwner(ctx context.Context, ownerID int64) ([]*Detail, error)
	Search(ctx context.Context, requesterID int64, text string) ([]*Item, error)
	AddComment(ctx context.Context, userID, itemID int64, text string) (*Comment, error)
}

type service struct {
	repo        Repository
	userService user.Service
	bookings    BookingReader
	clk         clock.Clock
}

func NewService(repo Repository, userService user.Service, bookings BookingReader, clk clock.Clock) Service {
	return &service{
		repo:        repo,
		userService: userService,
		bookings:    bookings,
		clk:         clk,
	}
}

func (s *service) Create(ctx context.Context, ownerID int64, req CreateRequest) (*Item, error) {
	if _, err := s.userService.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameBlank
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, ErrDescriptionBlank
	}
	if req.Available == nil {
		return nil, ErrAvailableRequired
	}

	it := &Item{
		Name:        req.Name,
		Description: req.Description,
		Available:   *req.Available,
		OwnerID:     ownerID,
	}
	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}

	log.Printf("created item id=%d, ownerId=%d", it.ID, ownerID)
	return it, nil
}

func (s *service) Update(ctx context.Context, ownerID, itemID int64, req UpdateRequest) (*Item, error) {
	if _, err := s.userService.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if existing.OwnerID != ownerID {
		return nil, ErrOnlyOwner
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrNameBlank
		}
		existing.Name = *req.Name
	}
	if req.Description != nil {
		if strings.TrimSpace(*req.Description) == "" {
			return nil, ErrDescriptionBlank
		}
		existing.Description = *req.Description
	}
	if req.Available != nil {
		existing.Available = *req.Available
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	return existing, nil
}

func (s *service) Get(ctx context.Context, itemID int64) (*Item, error) {
	return s.repo.GetByID(ctx, itemID)
}

func (s *service) GetByID(ctx context.Context, requesterID, itemID int64) (*Detail, error) {
	if _, err := s.userService.GetByID(ctx, requesterID); err != nil {
		return nil, err
	}

	it, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	detail := &Detail{Item: *it}

	detail.Comments, err = s.repo.ListCommentsByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	// Booking summaries are owner-only; exposing them to other viewers would
	// leak booker identities.
	if it.OwnerID == requesterID {
		if err := s.enrich(ctx, detail); err != nil {
			return nil, err
		}
	}

	return detail, nil
}

func (s *service) GetAllByOwner(ctx context.Context, ownerID int64) ([]*Detail, error) {
	if _, err := s.userService.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	items, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	details := make([]*Detail, 0, len(items))
	for _, it := range items {
		detail := &Detail{Item: *it}
		detail.Comments, err = s.repo.ListCommentsByItem(ctx, it.ID)
		if err != nil {
			return nil, err
		}
		if err := s.enrich(ctx, detail); err != nil {
			return nil, err
		}
		details = append(details, detail)
	}

	return details, nil
}

func (s *service) Search(ctx context.Context, requesterID int64, text string) ([]*Item, error) {
	if _, err := s.userService.GetByID(ctx, requesterID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(text) == "" {
		return []*Item{}, nil
	}

	return s.repo.Search(ctx, text)
}

func (s *service) AddComment(ctx context.Context, userID, itemID int64, text string) (*Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrCommentBlank
	}

	author, err := s.userService.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByID(ctx, itemID); err != nil {
		return nil, err
	}

	now := s.clk.Now()
	completed, err := s.bookings.HasCompletedBooking(ctx, itemID, userID, now)
	if err != nil {
		return nil, err
	}
	if !completed {
		return nil, ErrNoCompletedBooking
	}

	comment := &Comment{
		ItemID:     itemID,
		Text:       text,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Created:    now,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// enrich attaches the last/next approved booking summaries, both relative to
// a single captured now.
func (s *service) enrich(ctx context.Context, detail *Detail) error {
	now := s.clk.Now()

	last, err := s.bookings.LastApproved(ctx, detail.ID, now)
	if err != nil {
		return err
	}
	next, err := s.bookings.NextApproved(ctx, detail.ID, now)
	if err != nil {
		return err
	}

	detail.LastBooking = last
	detail.NextBooking = next
	return nil
}
