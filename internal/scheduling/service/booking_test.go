package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/r1cko23/Novo-pets-website-sub001/internal/scheduling/validator"
	"github.com/r1cko23/Novo-pets-website-sub001/pkg/config"
	apperrors "github.com/r1cko23/Novo-pets-website-sub001/pkg/errors"
	"github.com/r1cko23/Novo-pets-website-sub001/pkg/model"
)

const testGroomerID = "507f1f77bcf86cd799439011"

func newTestConfig() *config.Config {
	return &config.Config{
		OpenHour:        9,
		CloseHour:       17,
		SlotDurationMin: 60,
		BreakIntervals:  []string{"12:00-13:00"},
		HoldTTL:         time.Minute,
		Log:             testLogger(),
	}
}

type bookingFixture struct {
	service  BookingService
	repo     *memBookingRepo
	holds    *memHoldRepo
	notifier *mockNotifier
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	cfg := newTestConfig()
	catalog, err := NewCatalog(cfg)
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}

	repo := newMemBookingRepo()
	holds := newMemHoldRepo()
	notifier := newMockNotifier()
	groomers := newMemGroomerRepo(&model.Groomer{
		ID:          testGroomerID,
		DisplayName: "Bea",
		Active:      true,
	})

	svc := NewBookingService(
		repo,
		groomers,
		holds,
		catalog,
		validator.NewBookingValidator(cfg.Log),
		notifier,
		cfg,
	)

	return &bookingFixture{service: svc, repo: repo, holds: holds, notifier: notifier}
}

func newBookingRequest() *model.Booking {
	return &model.Booking{
		AppointmentDate: "2026-09-15",
		AppointmentTime: "10:00",
		GroomerID:       testGroomerID,
		PetName:         "Mochi",
		CustomerName:    "Ana Reyes",
		CustomerPhone:   "+639171234567",
	}
}

func TestSubmitCreatesBooking(t *testing.T) {
	f := newBookingFixture(t)

	booking, err := f.service.Submit(context.Background(), newBookingRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.ID == "" {
		t.Error("expected booking to receive an ID")
	}
	if booking.Status != config.Pending {
		t.Errorf("expected default status pending, got %q", booking.Status)
	}

	if !f.notifier.wait(time.Second) {
		t.Error("expected a booking.created event to be published")
	}
}

func TestSubmitExactlyOneWinnerUnderContention(t *testing.T) {
	f := newBookingFixture(t)

	const attempts = 20

	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.Submit(context.Background(), newBookingRequest())
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var committed, conflicts int
	for err := range results {
		if err == nil {
			committed++
			continue
		}
		appErr := apperrors.AsAppError(err)
		if appErr.Code != apperrors.CodeConflict {
			t.Errorf("expected conflict for losers, got: %v", err)
			continue
		}
		conflicts++
	}

	if committed != 1 {
		t.Errorf("expected exactly 1 committed booking, got %d", committed)
	}
	if conflicts != attempts-1 {
		t.Errorf("expected %d conflicts, got %d", attempts-1, conflicts)
	}
}

func TestSubmitAfterCancellationSucceeds(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	first, err := f.service.Submit(ctx, newBookingRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.service.Submit(ctx, newBookingRequest()); err == nil {
		t.Fatal("expected conflict while the slot is occupied")
	}

	if _, err := f.service.UpdateStatus(ctx, first.ID, config.Cancelled); err != nil {
		t.Fatalf("unexpected error cancelling: %v", err)
	}

	if _, err := f.service.Submit(ctx, newBookingRequest()); err != nil {
		t.Errorf("expected slot to be free after cancellation, got: %v", err)
	}
}

func TestSubmitRejectsOffGridSlot(t *testing.T) {
	f := newBookingFixture(t)

	booking := newBookingRequest()
	booking.AppointmentTime = "12:00"

	_, err := f.service.Submit(context.Background(), booking)
	if err == nil {
		t.Fatal("expected rejection of a slot inside the break")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got: %v", err)
	}
}

func TestSubmitRejectsUnknownGroomer(t *testing.T) {
	f := newBookingFixture(t)

	booking := newBookingRequest()
	booking.GroomerID = "507f1f77bcf86cd799439099"

	_, err := f.service.Submit(context.Background(), booking)
	if err == nil {
		t.Fatal("expected rejection for unknown groomer")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeValidation {
		t.Errorf("expected VALIDATION_ERROR, got: %v", err)
	}
}

func TestSubmitRejectsInvalidPayload(t *testing.T) {
	f := newBookingFixture(t)

	booking := newBookingRequest()
	booking.CustomerPhone = "not a phone"
	booking.PetName = ""

	_, err := f.service.Submit(context.Background(), booking)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeValidation {
		t.Errorf("expected VALIDATION_ERROR, got: %v", err)
	}
}

func TestSubmitNotifierFailureDoesNotFailBooking(t *testing.T) {
	f := newBookingFixture(t)
	f.notifier.err = errors.New("broker unreachable")

	booking, err := f.service.Submit(context.Background(), newBookingRequest())
	if err != nil {
		t.Fatalf("notification failure must not fail the booking, got: %v", err)
	}

	if !f.notifier.wait(time.Second) {
		t.Error("expected the publish attempt to have happened")
	}

	stored, err := f.service.GetByID(context.Background(), booking.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Status != config.Pending {
		t.Errorf("expected booking to stand, got status %q", stored.Status)
	}
}

func TestSubmitReleasesHold(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	hold := &model.SlotHold{
		ID:              "3b241101-e2bb-4255-8caf-4136c566a962",
		AppointmentDate: "2026-09-15",
		AppointmentTime: "10:00",
		GroomerID:       testGroomerID,
		ExpiresAt:       time.Now().Add(time.Minute),
	}
	if err := f.holds.Create(ctx, hold); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	booking := newBookingRequest()
	booking.HoldID = hold.ID

	if _, err := f.service.Submit(ctx, booking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.holds.FindByID(ctx, hold.ID); err == nil {
		t.Error("expected hold to be released after commit")
	}
}

func TestSubmitForcesPendingStatus(t *testing.T) {
	f := newBookingFixture(t)

	for _, claimed := range []string{config.Confirmed, config.Cancelled} {
		booking := newBookingRequest()
		booking.AppointmentTime = "13:00"
		booking.Status = claimed

		created, err := f.service.Submit(context.Background(), booking)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created.Status != config.Pending {
			t.Errorf("client-claimed status %q must be overridden, got %q", claimed, created.Status)
		}

		if _, err := f.service.UpdateStatus(context.Background(), created.ID, config.Cancelled); err != nil {
			t.Fatalf("unexpected error cancelling: %v", err)
		}
	}
}

func TestUpdateStatusReactivationIntoOccupiedSlotConflicts(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	first, err := f.service.Submit(ctx, newBookingRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.service.UpdateStatus(ctx, first.ID, config.Cancelled); err != nil {
		t.Fatalf("unexpected error cancelling: %v", err)
	}

	if _, err := f.service.Submit(ctx, newBookingRequest()); err != nil {
		t.Fatalf("unexpected error rebooking the freed slot: %v", err)
	}

	_, err = f.service.UpdateStatus(ctx, first.ID, config.Pending)
	if err == nil {
		t.Fatal("expected conflict reactivating into an occupied slot")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
		t.Errorf("expected CONFLICT, got: %v", err)
	}

	groups, err := f.service.FindDuplicates(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("expected the rejected reactivation to leave no duplicates, got %d groups", len(groups))
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.service.UpdateStatus(context.Background(), "507f1f77bcf86cd799439011", "done")
	if err == nil {
		t.Fatal("expected rejection of unknown status")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got: %v", err)
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.service.UpdateStatus(context.Background(), "507f1f77bcf86cd799439099", config.Confirmed)
	if err == nil {
		t.Fatal("expected not found")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeNotFound {
		t.Errorf("expected NOT_FOUND, got: %v", err)
	}
}

func TestFindDuplicatesEmptyOnHealthyLedger(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	if _, err := f.service.Submit(ctx, newBookingRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second := newBookingRequest()
	second.AppointmentTime = "11:00"
	if _, err := f.service.Submit(ctx, second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	groups, err := f.service.FindDuplicates(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("expected no duplicates on a healthy ledger, got %d groups", len(groups))
	}
}
