package service

import (
	"context"
	"io"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	schedulingerrors "github.com/r1cko23/Novo-pets-website-sub001/internal/scheduling/errors"
	mongotx "github.com/r1cko23/Novo-pets-website-sub001/pkg/db/mongo"
	"github.com/r1cko23/Novo-pets-website-sub001/pkg/logger"
	"github.com/r1cko23/Novo-pets-website-sub001/pkg/model"
)

// memBookingRepo is an in-memory ledger enforcing the same invariant as the
// partial unique index: at most one non-cancelled booking per
// (date, time, groomer). Insert is atomic under the mutex, so concurrent
// submits race exactly as they do against the real index.
type memBookingRepo struct {
	mu       sync.Mutex
	byID     map[string]*model.Booking
	seq      int
	failNext error
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{byID: make(map[string]*model.Booking)}
}

func slotKey(date, slotTime, groomerID string) string {
	return date + "|" + slotTime + "|" + groomerID
}

func (r *memBookingRepo) Insert(_ context.Context, booking *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}

	key := slotKey(booking.AppointmentDate, booking.AppointmentTime, booking.GroomerID)
	for _, b := range r.byID {
		if b.Status != "cancelled" && slotKey(b.AppointmentDate, b.AppointmentTime, b.GroomerID) == key {
			return schedulingerrors.ErrSlotTaken
		}
	}

	r.seq++
	booking.ID = objectIDHex(r.seq)
	booking.CreatedAt = time.Now().UTC()
	copied := *booking
	r.byID[booking.ID] = &copied
	return nil
}

// objectIDHex fabricates a 24-char hex ID so service-level ID checks pass.
func objectIDHex(n int) string {
	const digits = "0123456789abcdef"
	buf := make([]byte, 24)
	for i := range buf {
		buf[i] = '0'
	}
	for i := 23; n > 0 && i >= 0; i-- {
		buf[i] = digits[n%16]
		n /= 16
	}
	return string(buf)
}

func (r *memBookingRepo) FindByID(_ context.Context, id string) (*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.byID[id]
	if !ok {
		return nil, schedulingerrors.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *memBookingRepo) FindByDate(_ context.Context, date string) ([]*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.Booking
	for _, b := range r.byID {
		if b.AppointmentDate == date {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memBookingRepo) UpdateStatus(_ context.Context, id string, status string) (*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.byID[id]
	if !ok {
		return nil, schedulingerrors.ErrNotFound
	}

	// Reactivation re-enters the uniqueness constraint, same as the real
	// partial index.
	if status != "cancelled" {
		key := slotKey(b.AppointmentDate, b.AppointmentTime, b.GroomerID)
		for otherID, other := range r.byID {
			if otherID != id && other.Status != "cancelled" && slotKey(other.AppointmentDate, other.AppointmentTime, other.GroomerID) == key {
				return nil, schedulingerrors.ErrSlotTaken
			}
		}
	}

	b.Status = status
	copied := *b
	return &copied, nil
}

func (r *memBookingRepo) ExistsActive(_ context.Context, date, slotTime, groomerID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := slotKey(date, slotTime, groomerID)
	for _, b := range r.byID {
		if b.Status != "cancelled" && slotKey(b.AppointmentDate, b.AppointmentTime, b.GroomerID) == key {
			return true, nil
		}
	}
	return false, nil
}

func (r *memBookingRepo) FindDuplicates(_ context.Context) ([]model.DuplicateGroup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byKey := make(map[string][]*model.Booking)
	for _, b := range r.byID {
		if b.Status == "cancelled" {
			continue
		}
		key := slotKey(b.AppointmentDate, b.AppointmentTime, b.GroomerID)
		copied := *b
		byKey[key] = append(byKey[key], &copied)
	}

	var groups []model.DuplicateGroup
	for _, bookings := range byKey {
		if len(bookings) > 1 {
			groups = append(groups, model.DuplicateGroup{
				AppointmentDate: bookings[0].AppointmentDate,
				AppointmentTime: bookings[0].AppointmentTime,
				GroomerID:       bookings[0].GroomerID,
				Count:           len(bookings),
				Bookings:        bookings,
			})
		}
	}
	return groups, nil
}

func (r *memBookingRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

// memGroomerRepo serves a fixed roster.
type memGroomerRepo struct {
	groomers map[string]*model.Groomer
}

func newMemGroomerRepo(groomers ...*model.Groomer) *memGroomerRepo {
	byID := make(map[string]*model.Groomer, len(groomers))
	for _, g := range groomers {
		byID[g.ID] = g
	}
	return &memGroomerRepo{groomers: byID}
}

func (r *memGroomerRepo) FindActive(_ context.Context) ([]*model.Groomer, error) {
	var out []*model.Groomer
	for _, g := range r.groomers {
		if g.Active {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *memGroomerRepo) FindByID(_ context.Context, id string) (*model.Groomer, error) {
	g, ok := r.groomers[id]
	if !ok {
		return nil, schedulingerrors.ErrGroomerNotFound
	}
	return g, nil
}

// memHoldRepo mirrors the SlotHolds collection: string _id plus a unique
// index on the slot triple. Expiry is enforced the same way the real
// repository does it, by comparing expires_at against the supplied now.
type memHoldRepo struct {
	mu     sync.Mutex
	byID   map[string]*model.SlotHold
	bySlot map[string]string
}

func newMemHoldRepo() *memHoldRepo {
	return &memHoldRepo{
		byID:   make(map[string]*model.SlotHold),
		bySlot: make(map[string]string),
	}
}

func (r *memHoldRepo) Create(_ context.Context, hold *model.SlotHold) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := slotKey(hold.AppointmentDate, hold.AppointmentTime, hold.GroomerID)
	if _, taken := r.bySlot[key]; taken {
		return schedulingerrors.ErrHoldTaken
	}

	hold.CreatedAt = time.Now().UTC()
	copied := *hold
	r.byID[hold.ID] = &copied
	r.bySlot[key] = hold.ID
	return nil
}

func (r *memHoldRepo) FindByID(_ context.Context, id string) (*model.SlotHold, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.byID[id]
	if !ok {
		return nil, schedulingerrors.ErrHoldNotFound
	}
	copied := *h
	return &copied, nil
}

func (r *memHoldRepo) Renew(_ context.Context, id string, expiresAt, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.byID[id]
	if !ok || !h.ExpiresAt.After(now) {
		return schedulingerrors.ErrHoldNotFound
	}
	h.ExpiresAt = expiresAt
	return nil
}

func (r *memHoldRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.byID[id]
	if !ok {
		return schedulingerrors.ErrHoldNotFound
	}
	delete(r.bySlot, slotKey(h.AppointmentDate, h.AppointmentTime, h.GroomerID))
	delete(r.byID, id)
	return nil
}

func (r *memHoldRepo) DeleteExpired(_ context.Context, date, slotTime, groomerID string, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := slotKey(date, slotTime, groomerID)
	id, ok := r.bySlot[key]
	if !ok {
		return 0, nil
	}

	h := r.byID[id]
	if h.ExpiresAt.After(now) {
		return 0, nil
	}

	delete(r.bySlot, key)
	delete(r.byID, id)
	return 1, nil
}

// mockNotifier records events and can be made to fail.
type mockNotifier struct {
	mu      sync.Mutex
	created []string
	changed []string
	err     error
	done    chan struct{}
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{done: make(chan struct{}, 16)}
}

func (n *mockNotifier) BookingCreated(_ context.Context, booking *model.Booking) error {
	n.mu.Lock()
	n.created = append(n.created, booking.ID)
	err := n.err
	n.mu.Unlock()
	n.done <- struct{}{}
	return err
}

func (n *mockNotifier) BookingStatusChanged(_ context.Context, booking *model.Booking) error {
	n.mu.Lock()
	n.changed = append(n.changed, booking.ID)
	err := n.err
	n.mu.Unlock()
	n.done <- struct{}{}
	return err
}

func (n *mockNotifier) wait(timeout time.Duration) bool {
	select {
	case <-n.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.ERROR, Format: logger.TEXT, Output: io.Discard})
}
