package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brajesh31/TEC-DEV-CL/internal/database"
	"github.com/Brajesh31/TEC-DEV-CL/internal/database/memory"
	"github.com/Brajesh31/TEC-DEV-CL/internal/entity"
)

var testNow = time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return testNow }

type recordingPublisher struct {
	mu   sync.Mutex
	sent []entity.RSVPNotification
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, n entity.RSVPNotification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, n)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []entity.NotificationType {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []entity.NotificationType
	for _, n := range p.sent {
		out = append(out, n.Type)
	}
	return out
}

func intPtr(v int) *int { return &v }

type rsvpFixture struct {
	store     *memory.Store
	svc       RSVPService
	publisher *recordingPublisher
}

func newRSVPFixture(t *testing.T, atomic bool, events ...*entity.Event) *rsvpFixture {
	t.Helper()
	store := memory.NewStore()
	for _, e := range events {
		require.NoError(t, store.Events().Create(context.Background(), e))
	}
	pub := &recordingPublisher{}
	return &rsvpFixture{
		store:     store,
		publisher: pub,
		svc: NewRSVPService(store.RSVPs(), store.Events(), pub, RSVPServiceConfig{
			AtomicCapacity: atomic,
			Now:            clock,
		}),
	}
}

func upcoming(id string, max *int) *entity.Event {
	return &entity.Event{ID: id, Title: id, Date: testNow.Add(24 * time.Hour), MaxAttendees: max, IsActive: true}
}

func rsvpReq(eventID, email string) *CreateRSVPRequest {
	return &CreateRSVPRequest{EventID: eventID, UserEmail: email, UserName: strings.Split(email, "@")[0]}
}

func TestCreateRSVP(t *testing.T) {
	ctx := context.Background()
	f := newRSVPFixture(t, true, upcoming("e1", nil))

	rsvp, err := f.svc.CreateRSVP(ctx, &CreateRSVPRequest{
		EventID:   "e1",
		UserEmail: "  Alice@Example.COM ",
		UserName:  "Alice",
		Notes:     "vegetarian",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, rsvp.ID)
	assert.Equal(t, "alice@example.com", rsvp.UserEmail)
	assert.Equal(t, entity.RSVPStatusPending, rsvp.Status)
	assert.Equal(t, testNow, rsvp.SubmittedAt)
	assert.Equal(t, testNow, rsvp.UpdatedAt)
	assert.Equal(t, []entity.NotificationType{entity.NotificationRSVPCreated}, f.publisher.types())

	_, err = f.svc.CreateRSVP(ctx, rsvpReq("e1", "ALICE@example.com"))
	assert.ErrorIs(t, err, entity.ErrAlreadyReserved)
	assert.Equal(t, "You have already RSVPed to this event", err.Error())
}

func TestCreateRSVPRejections(t *testing.T) {
	ctx := context.Background()
	past := &entity.Event{ID: "past", Date: testNow.Add(-time.Minute), IsActive: true}
	now := &entity.Event{ID: "now", Date: testNow, IsActive: true}
	inactive := &entity.Event{ID: "inactive", Date: testNow.Add(time.Hour), IsActive: false}
	fullPast := &entity.Event{ID: "full-past", Date: testNow.Add(-time.Hour), MaxAttendees: intPtr(1), IsActive: true}

	tests := []struct {
		name    string
		req     *CreateRSVPRequest
		wantErr error
	}{
		{name: "unknown event", req: rsvpReq("nope", "a@example.com"), wantErr: entity.ErrEventNotFound},
		{name: "inactive event", req: rsvpReq("inactive", "a@example.com"), wantErr: entity.ErrEventNotFound},
		{name: "past event", req: rsvpReq("past", "a@example.com"), wantErr: entity.ErrEventNotUpcoming},
		{name: "event starting now", req: rsvpReq("now", "a@example.com"), wantErr: entity.ErrEventNotUpcoming},
		{name: "past event with capacity", req: rsvpReq("full-past", "a@example.com"), wantErr: entity.ErrEventNotUpcoming},
	}

	f := newRSVPFixture(t, true, past, now, inactive, fullPast)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateRSVP(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, f.publisher.types())
}

func TestCreateRSVPValidation(t *testing.T) {
	ctx := context.Background()
	f := newRSVPFixture(t, true, upcoming("e1", nil))

	tests := []struct {
		name string
		req  *CreateRSVPRequest
	}{
		{name: "no event", req: &CreateRSVPRequest{UserEmail: "a@example.com", UserName: "A"}},
		{name: "no email", req: &CreateRSVPRequest{EventID: "e1", UserName: "A"}},
		{name: "blank name", req: &CreateRSVPRequest{EventID: "e1", UserEmail: "a@example.com", UserName: "  "}},
		{name: "long notes", req: &CreateRSVPRequest{EventID: "e1", UserEmail: "a@example.com", UserName: "A", Notes: strings.Repeat("n", 501)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateRSVP(ctx, tt.req)
			var ve *entity.ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}

	_, err := f.svc.CreateRSVP(ctx, &CreateRSVPRequest{EventID: "e1", UserEmail: "a@example.com", UserName: "A", Notes: strings.Repeat("é", 500)})
	assert.NoError(t, err)
}

// TestCreateRSVPSequentialCapacity: m последовательных RSVP проходят, (m+1)-й нет
func TestCreateRSVPSequentialCapacity(t *testing.T) {
	for _, atomic := range []bool{false, true} {
		for _, m := range []int{1, 2, 5} {
			t.Run(fmt.Sprintf("atomic=%v/m=%d", atomic, m), func(t *testing.T) {
				ctx := context.Background()
				f := newRSVPFixture(t, atomic, upcoming("e1", intPtr(m)))

				for i := 0; i < m; i++ {
					_, err := f.svc.CreateRSVP(ctx, rsvpReq("e1", fmt.Sprintf("user%d@example.com", i)))
					require.NoError(t, err)
				}
				_, err := f.svc.CreateRSVP(ctx, rsvpReq("e1", "late@example.com"))
				assert.ErrorIs(t, err, entity.ErrEventFull)

				count, err := f.svc.AttendeeCount(ctx, "e1")
				require.NoError(t, err)
				assert.Equal(t, m, count)
			})
		}
	}
}

func TestCancelledRSVPFreesSeat(t *testing.T) {
	ctx := context.Background()
	f := newRSVPFixture(t, true, upcoming("e1", intPtr(1)))

	first, err := f.svc.CreateRSVP(ctx, rsvpReq("e1", "alice@example.com"))
	require.NoError(t, err)
	_, err = f.svc.CreateRSVP(ctx, rsvpReq("e1", "bob@example.com"))
	require.ErrorIs(t, err, entity.ErrEventFull)

	_, err = f.svc.UpdateStatus(ctx, first.ID, entity.RSVPStatusCancelled)
	require.NoError(t, err)

	_, err = f.svc.CreateRSVP(ctx, rsvpReq("e1", "bob@example.com"))
	require.NoError(t, err)
	// alice may RSVP again only once a seat is free
	_, err = f.svc.CreateRSVP(ctx, rsvpReq("e1", "alice@example.com"))
	assert.ErrorIs(t, err, entity.ErrEventFull)
}

// countBarrier holds every CountActive call until parties callers have
// counted, so all of them see the count taken before any insert.
type countBarrier struct {
	database.RSVPRepository
	wg sync.WaitGroup
}

func newCountBarrier(inner database.RSVPRepository, parties int) *countBarrier {
	b := &countBarrier{RSVPRepository: inner}
	b.wg.Add(parties)
	return b
}

func (b *countBarrier) CountActive(ctx context.Context, eventID string) (int, error) {
	n, err := b.RSVPRepository.CountActive(ctx, eventID)
	b.wg.Done()
	b.wg.Wait()
	return n, err
}

func raceForLastSeat(t *testing.T, atomic bool) (results []error, active int) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Events().Create(ctx, upcoming("e1", intPtr(1))))

	const parties = 2
	svc := NewRSVPService(newCountBarrier(store.RSVPs(), parties), store.Events(), nil, RSVPServiceConfig{
		AtomicCapacity: atomic,
		Now:            clock,
	})

	results = make([]error, parties)
	var wg sync.WaitGroup
	for i := 0; i < parties; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.CreateRSVP(ctx, rsvpReq("e1", fmt.Sprintf("racer%d@example.com", i)))
		}(i)
	}
	wg.Wait()

	active, err := store.RSVPs().CountActive(ctx, "e1")
	require.NoError(t, err)
	return results, active
}

func TestCapacityRaceWithoutAtomicInsert(t *testing.T) {
	results, active := raceForLastSeat(t, false)

	for _, err := range results {
		assert.NoError(t, err)
	}
	assert.Equal(t, 2, active, "both requests pass the count before either inserts")
}

func TestCapacityRaceWithAtomicInsert(t *testing.T) {
	results, active := raceForLastSeat(t, true)

	var ok, full int
	for _, err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, entity.ErrEventFull):
			full++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, full)
	assert.Equal(t, 1, active)
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	f := newRSVPFixture(t, true, upcoming("e1", nil))
	rsvp, err := f.svc.CreateRSVP(ctx, rsvpReq("e1", "alice@example.com"))
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, "missing", "BOGUS")
	assert.ErrorIs(t, err, entity.ErrRSVPNotFound, "unknown id is reported before the status")

	_, err = f.svc.UpdateStatus(ctx, rsvp.ID, "BOGUS")
	assert.ErrorIs(t, err, entity.ErrInvalidStatus)
	assert.Equal(t, "Invalid status", err.Error())

	updated, err := f.svc.UpdateStatus(ctx, rsvp.ID, entity.RSVPStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, entity.RSVPStatusConfirmed, updated.Status)

	assert.Equal(t, []entity.NotificationType{
		entity.NotificationRSVPCreated,
		entity.NotificationRSVPStatusChanged,
	}, f.publisher.types())
}

func TestDeleteRSVP(t *testing.T) {
	ctx := context.Background()
	f := newRSVPFixture(t, true, upcoming("e1", nil))
	rsvp, err := f.svc.CreateRSVP(ctx, rsvpReq("e1", "alice@example.com"))
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteRSVP(ctx, rsvp.ID))
	assert.ErrorIs(t, f.svc.DeleteRSVP(ctx, rsvp.ID), entity.ErrRSVPNotFound)

	// a hard delete frees the pair
	_, err = f.svc.CreateRSVP(ctx, rsvpReq("e1", "alice@example.com"))
	assert.NoError(t, err)
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	ctx := context.Background()
	f := newRSVPFixture(t, true, upcoming("e1", nil))
	f.publisher.err = errors.New("broker unavailable")

	_, err := f.svc.CreateRSVP(ctx, rsvpReq("e1", "alice@example.com"))
	assert.NoError(t, err)
	assert.Len(t, f.publisher.types(), 1)
}

func TestGetRSVPs(t *testing.T) {
	ctx := context.Background()
	f := newRSVPFixture(t, true, upcoming("e1", nil), upcoming("e2", nil))
	for _, r := range []*CreateRSVPRequest{
		rsvpReq("e1", "alice@example.com"),
		rsvpReq("e1", "bob@example.com"),
		rsvpReq("e2", "alice@example.com"),
	} {
		_, err := f.svc.CreateRSVP(ctx, r)
		require.NoError(t, err)
	}

	byUser, err := f.svc.GetRSVPs(ctx, entity.RSVPQuery{UserEmail: "ALICE@example.com"})
	require.NoError(t, err)
	assert.Len(t, byUser, 2)

	byEvent, err := f.svc.GetRSVPs(ctx, entity.RSVPQuery{EventID: "e1", Status: entity.RSVPStatusPending})
	require.NoError(t, err)
	assert.Len(t, byEvent, 2)

	none, err := f.svc.GetRSVPs(ctx, entity.RSVPQuery{EventID: "e3"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = f.svc.GetRSVPs(ctx, entity.RSVPQuery{Status: "MAYBE"})
	assert.ErrorIs(t, err, entity.ErrInvalidStatus)

	_, err = f.svc.AttendeeCount(ctx, "e3")
	assert.ErrorIs(t, err, entity.ErrEventNotFound)
}

// TestAtMostOneActiveRSVPPerPair runs random operation sequences and checks
// the (event, email) uniqueness after every step.
func TestAtMostOneActiveRSVPPerPair(t *testing.T) {
	ctx := context.Background()
	emails := []string{"a@example.com", "B@example.com", "b@example.com", "c@example.com"}
	statuses := []entity.RSVPStatus{entity.RSVPStatusPending, entity.RSVPStatusConfirmed, entity.RSVPStatusCancelled}

	for seed := int64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		f := newRSVPFixture(t, seed%2 == 0, upcoming("e1", intPtr(3)), upcoming("e2", nil))
		var ids []string

		for step := 0; step < 60; step++ {
			switch op := rng.Intn(3); {
			case op == 0 || len(ids) == 0:
				event := []string{"e1", "e2"}[rng.Intn(2)]
				if rsvp, err := f.svc.CreateRSVP(ctx, rsvpReq(event, emails[rng.Intn(len(emails))])); err == nil {
					ids = append(ids, rsvp.ID)
				}
			case op == 1:
				f.svc.UpdateStatus(ctx, ids[rng.Intn(len(ids))], statuses[rng.Intn(len(statuses))])
			default:
				f.svc.DeleteRSVP(ctx, ids[rng.Intn(len(ids))])
			}

			all, err := f.store.RSVPs().List(ctx, entity.RSVPQuery{})
			require.NoError(t, err)
			seen := map[string]bool{}
			for _, r := range all {
				if r.Status == entity.RSVPStatusCancelled {
					continue
				}
				key := r.EventID + "|" + r.UserEmail
				require.Falsef(t, seen[key], "seed %d step %d: duplicate active rsvp for %s", seed, step, key)
				seen[key] = true
			}
		}
	}
}
