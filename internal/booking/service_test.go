package booking_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gearshare/gearshare-backend/internal/booking"
	"github.com/gearshare/gearshare-backend/internal/item"
	"github.com/gearshare/gearshare-backend/internal/pkg/apperror"
	"github.com/gearshare/gearshare-backend/internal/user"
)

type stubClock struct {
	now time.Time
}

func (c *stubClock) Now() time.Time {
	return c.now
}

type fakeUsers struct {
	users map[int64]*user.User
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*user.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, user.ErrNotFound
}

func (f *fakeUsers) Create(context.Context, user.CreateRequest) (*user.User, error) {
	return nil, nil
}

func (f *fakeUsers) Update(context.Context, int64, user.UpdateRequest) (*user.User, error) {
	return nil, nil
}

func (f *fakeUsers) GetAll(context.Context) ([]*user.User, error) { return nil, nil }

func (f *fakeUsers) Delete(context.Context, int64) error { return nil }

type fakeItems struct {
	items map[int64]*item.Item
}

func (f *fakeItems) Get(_ context.Context, id int64) (*item.Item, error) {
	if it, ok := f.items[id]; ok {
		return it, nil
	}
	return nil, item.ErrNotFound
}

func (f *fakeItems) Create(context.Context, int64, item.CreateRequest) (*item.Item, error) {
	return nil, nil
}

func (f *fakeItems) Update(context.Context, int64, int64, item.UpdateRequest) (*item.Item, error) {
	return nil, nil
}

func (f *fakeItems) GetByID(context.Context, int64, int64) (*item.Detail, error) {
	return nil, nil
}

func (f *fakeItems) GetAllByOwner(context.Context, int64) ([]*item.Detail, error) {
	return nil, nil
}

func (f *fakeItems) Search(context.Context, int64, string) ([]*item.Item, error) {
	return nil, nil
}

func (f *fakeItems) AddComment(context.Context, int64, int64, string) (*item.Comment, error) {
	return nil, nil
}

// fakeRepo is an in-memory booking store mirroring the SQL predicates.
type fakeRepo struct {
	bookings map[int64]*booking.Booking
	nextID   int64
	failCAS  bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bookings: make(map[int64]*booking.Booking), nextID: 1}
}

func (r *fakeRepo) Create(_ context.Context, b *booking.Booking) error {
	b.ID = r.nextID
	r.nextID++
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (*booking.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeRepo) ListByBooker(_ context.Context, bookerID int64, state booking.State, now time.Time) ([]*booking.Booking, error) {
	return r.list(func(b *booking.Booking) bool { return b.BookerID == bookerID }, state, now), nil
}

func (r *fakeRepo) ListByOwner(_ context.Context, ownerID int64, state booking.State, now time.Time) ([]*booking.Booking, error) {
	return r.list(func(b *booking.Booking) bool { return b.OwnerID == ownerID }, state, now), nil
}

func (r *fakeRepo) list(match func(*booking.Booking) bool, state booking.State, now time.Time) []*booking.Booking {
	var out []*booking.Booking
	for _, b := range r.bookings {
		if !match(b) || !matchesState(b, state, now) {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.After(out[j].Start)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func matchesState(b *booking.Booking, state booking.State, now time.Time) bool {
	switch state {
	case booking.StateCurrent:
		return !b.Start.After(now) && !b.End.Before(now)
	case booking.StatePast:
		return b.End.Before(now)
	case booking.StateFuture:
		return b.Start.After(now)
	case booking.StateWaiting:
		return b.Status == booking.StatusWaiting
	case booking.StateRejected:
		return b.Status == booking.StatusRejected
	default:
		return true
	}
}

func (r *fakeRepo) UpdateStatusIfWaiting(_ context.Context, id int64, status booking.Status) (bool, error) {
	if r.failCAS {
		return false, nil
	}
	b, ok := r.bookings[id]
	if !ok || b.Status != booking.StatusWaiting {
		return false, nil
	}
	b.Status = status
	return true, nil
}

func (r *fakeRepo) LastApproved(_ context.Context, itemID int64, now time.Time) (*booking.Booking, error) {
	var best *booking.Booking
	for _, b := range r.bookings {
		if b.ItemID != itemID || b.Status != booking.StatusApproved || !b.Start.Before(now) {
			continue
		}
		if best == nil || b.Start.After(best.Start) {
			cp := *b
			best = &cp
		}
	}
	return best, nil
}

func (r *fakeRepo) NextApproved(_ context.Context, itemID int64, now time.Time) (*booking.Booking, error) {
	var best *booking.Booking
	for _, b := range r.bookings {
		if b.ItemID != itemID || b.Status != booking.StatusApproved || !b.Start.After(now) {
			continue
		}
		if best == nil || b.Start.Before(best.Start) {
			cp := *b
			best = &cp
		}
	}
	return best, nil
}

func (r *fakeRepo) HasCompletedBooking(_ context.Context, itemID, userID int64, now time.Time) (bool, error) {
	for _, b := range r.bookings {
		if b.ItemID == itemID && b.BookerID == userID && b.Status == booking.StatusApproved && b.End.Before(now) {
			return true, nil
		}
	}
	return false, nil
}

// Fixture ids: user 1 owns items 10 (available) and 11 (unavailable),
// user 2 is the booker, user 3 is unrelated.
func newFixture(now time.Time) (*fakeRepo, *stubClock, booking.Service) {
	users := &fakeUsers{users: map[int64]*user.User{
		1: {ID: 1, Name: "owner", Email: "owner@example.com"},
		2: {ID: 2, Name: "booker", Email: "booker@example.com"},
		3: {ID: 3, Name: "stranger", Email: "stranger@example.com"},
	}}
	items := &fakeItems{items: map[int64]*item.Item{
		10: {ID: 10, Name: "drill", Description: "cordless drill", Available: true, OwnerID: 1},
		11: {ID: 11, Name: "ladder", Description: "step ladder", Available: false, OwnerID: 1},
	}}
	repo := newFakeRepo()
	clk := &stubClock{now: now}
	return repo, clk, booking.NewService(repo, users, items, clk)
}

func seedBooking(t *testing.T, repo *fakeRepo, start, end time.Time, status booking.Status) *booking.Booking {
	t.Helper()
	b := &booking.Booking{
		ItemID:   10,
		ItemName: "drill",
		OwnerID:  1,
		BookerID: 2,
		Start:    start,
		End:      end,
		Status:   status,
	}
	require.NoError(t, repo.Create(context.Background(), b))
	return b
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	_, _, svc := newFixture(now)
	ctx := context.Background()

	start := now.Add(time.Hour)
	end := now.Add(2 * time.Hour)

	created, err := svc.Create(ctx, 2, booking.CreateRequest{ItemID: 10, Start: start, End: end})
	require.NoError(t, err)
	assert.Equal(t, booking.StatusWaiting, created.Status)
	assert.Equal(t, int64(2), created.BookerID)
	assert.Equal(t, "drill", created.ItemName)

	got, err := svc.GetByID(ctx, 2, created.ID)
	require.NoError(t, err)
	assert.True(t, got.Start.Equal(start))
	assert.True(t, got.End.Equal(end))
	assert.Equal(t, booking.StatusWaiting, got.Status)
}

func TestCreateValidation(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	_, _, svc := newFixture(now)
	ctx := context.Background()

	cases := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr error
	}{
		{"start in the past", now.Add(-time.Hour), now.Add(time.Hour), booking.ErrStartNotFuture},
		{"start equals now", now, now.Add(time.Hour), booking.ErrStartNotFuture},
		{"end before start", now.Add(2 * time.Hour), now.Add(time.Hour), booking.ErrEndNotAfterStart},
		{"end equals start", now.Add(time.Hour), now.Add(time.Hour), booking.ErrEndNotAfterStart},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, 2, booking.CreateRequest{ItemID: 10, Start: tc.start, End: tc.end})
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCreateMissingEntities(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	_, _, svc := newFixture(now)
	ctx := context.Background()
	req := booking.CreateRequest{ItemID: 10, Start: now.Add(time.Hour), End: now.Add(2 * time.Hour)}

	_, err := svc.Create(ctx, 99, req)
	assert.ErrorIs(t, err, user.ErrNotFound)

	req.ItemID = 99
	_, err = svc.Create(ctx, 2, req)
	assert.ErrorIs(t, err, item.ErrNotFound)
}

func TestCreateOwnerCannotBookOwnItem(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	_, _, svc := newFixture(now)

	_, err := svc.Create(context.Background(), 1, booking.CreateRequest{
		ItemID: 10,
		Start:  now.Add(time.Hour),
		End:    now.Add(2 * time.Hour),
	})
	require.ErrorIs(t, err, item.ErrNotFound)

	// Must look like a missing item, not a permission problem.
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Code)
}

func TestCreateUnavailableItem(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	_, _, svc := newFixture(now)

	_, err := svc.Create(context.Background(), 2, booking.CreateRequest{
		ItemID: 11,
		Start:  now.Add(time.Hour),
		End:    now.Add(2 * time.Hour),
	})
	assert.ErrorIs(t, err, booking.ErrItemUnavailable)
}

func TestApproveTransitions(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("approved", func(t *testing.T) {
		repo, _, svc := newFixture(now)
		b := seedBooking(t, repo, now.Add(time.Hour), now.Add(2*time.Hour), booking.StatusWaiting)

		updated, err := svc.Approve(ctx, 1, b.ID, true)
		require.NoError(t, err)
		assert.Equal(t, booking.StatusApproved, updated.Status)
	})

	t.Run("rejected", func(t *testing.T) {
		repo, _, svc := newFixture(now)
		b := seedBooking(t, repo, now.Add(time.Hour), now.Add(2*time.Hour), booking.StatusWaiting)

		updated, err := svc.Approve(ctx, 1, b.ID, false)
		require.NoError(t, err)
		assert.Equal(t, booking.StatusRejected, updated.Status)
	})

	t.Run("only owner may approve", func(t *testing.T) {
		repo, _, svc := newFixture(now)
		b := seedBooking(t, repo, now.Add(time.Hour), now.Add(2*time.Hour), booking.StatusWaiting)

		_, err := svc.Approve(ctx, 2, b.ID, true)
		assert.ErrorIs(t, err, booking.ErrOnlyOwnerApprove)

		_, err = svc.Approve(ctx, 3, b.ID, true)
		assert.ErrorIs(t, err, booking.ErrOnlyOwnerApprove)
	})

	t.Run("terminal states stay terminal", func(t *testing.T) {
		for _, status := range []booking.Status{booking.StatusApproved, booking.StatusRejected} {
			repo, _, svc := newFixture(now)
			b := seedBooking(t, repo, now.Add(time.Hour), now.Add(2*time.Hour), status)

			for _, flag := range []bool{true, false} {
				_, err := svc.Approve(ctx, 1, b.ID, flag)
				assert.ErrorIs(t, err, booking.ErrAlreadyProcessed)
			}
		}
	})

	t.Run("concurrent approval loser fails", func(t *testing.T) {
		repo, _, svc := newFixture(now)
		b := seedBooking(t, repo, now.Add(time.Hour), now.Add(2*time.Hour), booking.StatusWaiting)

		// The row flips out of WAITING between the read and the update.
		repo.failCAS = true
		_, err := svc.Approve(ctx, 1, b.ID, true)
		assert.ErrorIs(t, err, booking.ErrAlreadyProcessed)
	})

	t.Run("missing booking or owner", func(t *testing.T) {
		repo, _, svc := newFixture(now)
		b := seedBooking(t, repo, now.Add(time.Hour), now.Add(2*time.Hour), booking.StatusWaiting)

		_, err := svc.Approve(ctx, 99, b.ID, true)
		assert.ErrorIs(t, err, user.ErrNotFound)

		_, err = svc.Approve(ctx, 1, 999, true)
		assert.ErrorIs(t, err, booking.ErrNotFound)
	})
}

func TestGetByIDVisibility(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo, _, svc := newFixture(now)
	ctx := context.Background()
	b := seedBooking(t, repo, now.Add(time.Hour), now.Add(2*time.Hour), booking.StatusWaiting)

	for _, callerID := range []int64{1, 2} {
		got, err := svc.GetByID(ctx, callerID, b.ID)
		require.NoError(t, err)
		assert.Equal(t, b.ID, got.ID)
	}

	_, err := svc.GetByID(ctx, 3, b.ID)
	assert.ErrorIs(t, err, booking.ErrAccessDenied)

	_, err = svc.GetByID(ctx, 99, b.ID)
	assert.ErrorIs(t, err, user.ErrNotFound)

	_, err = svc.GetByID(ctx, 2, 999)
	assert.ErrorIs(t, err, booking.ErrNotFound)
}

func TestListClassification(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo, _, svc := newFixture(now)
	ctx := context.Background()

	past := seedBooking(t, repo, now.Add(-3*time.Hour), now.Add(-2*time.Hour), booking.StatusApproved)
	current := seedBooking(t, repo, now.Add(-time.Hour), now.Add(time.Hour), booking.StatusApproved)
	future := seedBooking(t, repo, now.Add(2*time.Hour), now.Add(3*time.Hour), booking.StatusWaiting)
	rejected := seedBooking(t, repo, now.Add(4*time.Hour), now.Add(5*time.Hour), booking.StatusRejected)

	ids := func(bookings []*booking.Booking) []int64 {
		out := make([]int64, len(bookings))
		for i, b := range bookings {
			out[i] = b.ID
		}
		return out
	}

	all, err := svc.ListByBooker(ctx, 2, booking.StateAll)
	require.NoError(t, err)
	assert.Equal(t, []int64{rejected.ID, future.ID, current.ID, past.ID}, ids(all), "descending start order")

	got, err := svc.ListByBooker(ctx, 2, booking.StateCurrent)
	require.NoError(t, err)
	assert.Equal(t, []int64{current.ID}, ids(got))

	got, err = svc.ListByBooker(ctx, 2, booking.StatePast)
	require.NoError(t, err)
	assert.Equal(t, []int64{past.ID}, ids(got))

	got, err = svc.ListByBooker(ctx, 2, booking.StateFuture)
	require.NoError(t, err)
	assert.Equal(t, []int64{rejected.ID, future.ID}, ids(got))

	got, err = svc.ListByBooker(ctx, 2, booking.StateWaiting)
	require.NoError(t, err)
	assert.Equal(t, []int64{future.ID}, ids(got))

	got, err = svc.ListByBooker(ctx, 2, booking.StateRejected)
	require.NoError(t, err)
	assert.Equal(t, []int64{rejected.ID}, ids(got))

	// Owner view sees the same set.
	ownerAll, err := svc.ListByOwner(ctx, 1, booking.StateAll)
	require.NoError(t, err)
	assert.Equal(t, ids(all), ids(ownerAll))

	_, err = svc.ListByBooker(ctx, 99, booking.StateAll)
	assert.ErrorIs(t, err, user.ErrNotFound)
}

// The temporal partitions must be pairwise disjoint and jointly cover ALL.
func TestTemporalPartitionsCoverAll(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo, _, svc := newFixture(now)
	ctx := context.Background()

	for i := 0; i < 9; i++ {
		offset := time.Duration(i-4) * time.Hour
		seedBooking(t, repo, now.Add(offset), now.Add(offset+90*time.Minute), booking.StatusWaiting)
	}

	all, err := svc.ListByBooker(ctx, 2, booking.StateAll)
	require.NoError(t, err)

	seen := make(map[int64]int)
	for _, state := range []booking.State{booking.StateCurrent, booking.StatePast, booking.StateFuture} {
		part, err := svc.ListByBooker(ctx, 2, state)
		require.NoError(t, err)
		for _, b := range part {
			seen[b.ID]++
		}
	}

	require.Len(t, seen, len(all))
	for _, b := range all {
		assert.Equal(t, 1, seen[b.ID], "booking %d must fall in exactly one temporal partition", b.ID)
	}
}

// A single window classifies differently as the evaluation time moves.
func TestClassificationFollowsClock(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	_, clk, svc := newFixture(base)
	ctx := context.Background()

	b, err := svc.Create(ctx, 2, booking.CreateRequest{
		ItemID: 10,
		Start:  base.Add(time.Hour),
		End:    base.Add(2 * time.Hour),
	})
	require.NoError(t, err)

	stateOf := func(state booking.State) bool {
		got, err := svc.ListByBooker(ctx, 2, state)
		require.NoError(t, err)
		return len(got) == 1 && got[0].ID == b.ID
	}

	clk.now = base.Add(30 * time.Minute)
	assert.True(t, stateOf(booking.StateFuture))

	clk.now = base.Add(90 * time.Minute)
	assert.True(t, stateOf(booking.StateCurrent))

	clk.now = base.Add(3 * time.Hour)
	assert.True(t, stateOf(booking.StatePast))
}
