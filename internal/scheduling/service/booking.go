package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/r1cko23/Novo-pets-website-sub001/internal/notification"
	schedulingerrors "github.com/r1cko23/Novo-pets-website-sub001/internal/scheduling/errors"
	"github.com/r1cko23/Novo-pets-website-sub001/internal/scheduling/repository"
	"github.com/r1cko23/Novo-pets-website-sub001/internal/scheduling/validator"
	"github.com/r1cko23/Novo-pets-website-sub001/pkg/config"
	apperrors "github.com/r1cko23/Novo-pets-website-sub001/pkg/errors"
	"github.com/r1cko23/Novo-pets-website-sub001/pkg/model"
	"github.com/r1cko23/Novo-pets-website-sub001/pkg/sanitizer"
)

const notifyTimeout = 5 * time.Second

type BookingService interface {
	Submit(ctx context.Context, booking *model.Booking) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	ListForDate(ctx context.Context, date string) ([]*model.Booking, error)
	UpdateStatus(ctx context.Context, id string, status string) (*model.Booking, error)
	FindDuplicates(ctx context.Context) ([]model.DuplicateGroup, error)
}

type bookingService struct {
	repo        repository.BookingRepository
	groomerRepo repository.GroomerRepository
	holdRepo    repository.HoldRepository
	catalog     *Catalog
	validator   *validator.BookingValidator
	notifier    notification.Notifier
	cfg         *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	groomerRepo repository.GroomerRepository,
	holdRepo repository.HoldRepository,
	catalog *Catalog,
	bookingValidator *validator.BookingValidator,
	notifier notification.Notifier,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:        repo,
		groomerRepo: groomerRepo,
		holdRepo:    holdRepo,
		catalog:     catalog,
		validator:   bookingValidator,
		notifier:    notifier,
		cfg:         cfg,
	}
}

// Submit runs the full pipeline: sanitize, validate, re-check the slot, then
// insert. The freshness re-check inside the transaction narrows the race
// window; the unique index closes it. A conflict is returned as-is with no
// retry, because retrying the same slot can only conflict again.
func (s *bookingService) Submit(ctx context.Context, booking *model.Booking) (*model.Booking, error) {
	// Status is server-owned: every submission starts pending no matter what
	// the client sent. Confirmation and cancellation go through UpdateStatus.
	booking.Status = config.Pending

	s.sanitize(booking)
	if err := s.validate(booking); err != nil {
		return nil, err
	}

	if !s.catalog.Contains(booking.AppointmentTime) {
		return nil, apperrors.InvalidInput("appointment_time is not a bookable slot")
	}

	groomer, err := s.groomerRepo.FindByID(ctx, booking.GroomerID)
	if err != nil {
		if errors.Is(err, schedulingerrors.ErrGroomerNotFound) || errors.Is(err, schedulingerrors.ErrInvalidID) {
			return nil, apperrors.Validation("Unknown groomer", map[string]any{"groomer_id": booking.GroomerID})
		}
		return nil, apperrors.Internal("Failed to verify groomer", err)
	}
	if !groomer.Active {
		return nil, apperrors.Validation("Groomer is not accepting bookings", map[string]any{"groomer_id": booking.GroomerID})
	}

	holdID := booking.HoldID

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		taken, err := s.repo.ExistsActive(sessCtx, booking.AppointmentDate, booking.AppointmentTime, booking.GroomerID)
		if err != nil {
			return apperrors.Internal("Failed to check slot occupancy", err)
		}
		if taken {
			return apperrors.Conflict("Slot is no longer available")
		}

		if err := s.repo.Insert(sessCtx, booking); err != nil {
			if errors.Is(err, schedulingerrors.ErrSlotTaken) {
				return apperrors.Conflict("Slot is no longer available")
			}
			return apperrors.Internal("Failed to create booking", err)
		}

		return nil
	})
	if err != nil {
		s.cfg.Log.Warn("Booking submission rejected",
			"appointment_date", booking.AppointmentDate,
			"appointment_time", booking.AppointmentTime,
			"groomer_id", booking.GroomerID,
			"error", err,
		)
		return nil, err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"appointment_date", booking.AppointmentDate,
		"appointment_time", booking.AppointmentTime,
		"groomer_id", booking.GroomerID,
	)

	if holdID != "" {
		if err := s.holdRepo.Delete(ctx, holdID); err != nil && !errors.Is(err, schedulingerrors.ErrHoldNotFound) {
			s.cfg.Log.Warn("Failed to release hold after booking", "hold_id", holdID, "error", err)
		}
	}

	s.notifyAsync(booking, s.notifier.BookingCreated)

	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, schedulingerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, schedulingerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) ListForDate(ctx context.Context, date string) ([]*model.Booking, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}

	bookings, err := s.repo.FindByDate(ctx, date)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "date", date, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	return bookings, nil
}

// UpdateStatus transitions a booking between pending, confirmed and
// cancelled. Cancelling removes the booking from the unique index coverage,
// which is what frees the slot.
func (s *bookingService) UpdateStatus(ctx context.Context, id string, status string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if status != config.Pending && status != config.Confirmed && status != config.Cancelled {
		return nil, apperrors.InvalidInput("status must be one of: pending, confirmed, cancelled")
	}

	booking, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, schedulingerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, schedulingerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		if errors.Is(err, schedulingerrors.ErrSlotTaken) {
			return nil, apperrors.Conflict("Slot is no longer available")
		}
		return nil, apperrors.Internal("Failed to update booking status", err)
	}

	s.cfg.Log.Info("Booking status updated", "id", id, "status", status)

	s.notifyAsync(booking, s.notifier.BookingStatusChanged)

	return booking, nil
}

// FindDuplicates audits the ledger for slots held by more than one active
// booking. It never repairs anything; a non-empty result is alerted on so an
// operator can reconcile with the affected customers.
func (s *bookingService) FindDuplicates(ctx context.Context) ([]model.DuplicateGroup, error) {
	groups, err := s.repo.FindDuplicates(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to audit duplicates", err)
	}

	if len(groups) > 0 {
		s.cfg.Log.Error("Duplicate active bookings detected",
			"group_count", len(groups),
		)
	}

	return groups, nil
}

// notifyAsync fires the event without blocking or failing the request. The
// request context may be cancelled the moment the response is written, so
// the publish gets its own deadline.
func (s *bookingService) notifyAsync(booking *model.Booking, send func(context.Context, *model.Booking) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := send(ctx, booking); err != nil {
			s.cfg.Log.Warn("Failed to publish booking event",
				"booking_id", booking.ID,
				"error", err,
			)
		}
	}()
}

func (s *bookingService) sanitize(b *model.Booking) {
	b.PetName = sanitizer.NormalizeName(b.PetName)
	b.PetBreed = sanitizer.NormalizeName(b.PetBreed)
	b.PetNotes = sanitizer.NormalizeNotes(b.PetNotes)
	b.CustomerName = sanitizer.NormalizeName(b.CustomerName)
	b.CustomerPhone = sanitizer.SanitizePhone(b.CustomerPhone)
	b.CustomerEmail = sanitizer.NormalizeEmail(b.CustomerEmail)
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}
