package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	schedulingerrors "github.com/r1cko23/Novo-pets-website-sub001/internal/scheduling/errors"
	"github.com/r1cko23/Novo-pets-website-sub001/internal/scheduling/repository"
	"github.com/r1cko23/Novo-pets-website-sub001/pkg/clock"
	"github.com/r1cko23/Novo-pets-website-sub001/pkg/config"
	apperrors "github.com/r1cko23/Novo-pets-website-sub001/pkg/errors"
	"github.com/r1cko23/Novo-pets-website-sub001/pkg/model"
)

// HoldService manages advisory slot holds for the booking form. A hold gives
// the customer a soft claim while they type; it is never consulted at commit
// time, where the ledger's unique index decides alone. The server owns all
// TTL arithmetic so client clock skew cannot extend a hold.
type HoldService interface {
	CreateHold(ctx context.Context, date, slotTime, groomerID string) (*model.SlotHold, error)
	RenewHold(ctx context.Context, id string) (*model.SlotHold, error)
	ReleaseHold(ctx context.Context, id string) error
}

type holdService struct {
	repo         repository.HoldRepository
	availability AvailabilityService
	catalog      *Catalog
	clock        clock.Clock
	cfg          *config.Config
}

func NewHoldService(
	repo repository.HoldRepository,
	availability AvailabilityService,
	catalog *Catalog,
	clk clock.Clock,
	cfg *config.Config,
) HoldService {
	return &holdService{
		repo:         repo,
		availability: availability,
		catalog:      catalog,
		clock:        clk,
		cfg:          cfg,
	}
}

// CreateHold claims a slot for the configured TTL. When an existing hold
// blocks the slot, expired holds for the same slot are swept and the claim is
// retried once; a live hold yields a conflict.
func (s *holdService) CreateHold(ctx context.Context, date, slotTime, groomerID string) (*model.SlotHold, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	if !s.catalog.Contains(slotTime) {
		return nil, apperrors.InvalidInput("time is not a bookable slot")
	}
	if groomerID == "" {
		return nil, apperrors.InvalidInput("groomer_id is required")
	}

	free, err := s.availability.IsSlotFree(ctx, date, slotTime, groomerID)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, apperrors.Conflict("Slot is already booked")
	}

	now := s.clock.Now()
	hold := &model.SlotHold{
		ID:              uuid.NewString(),
		AppointmentDate: date,
		AppointmentTime: slotTime,
		GroomerID:       groomerID,
		ExpiresAt:       now.Add(s.cfg.HoldTTL),
	}

	err = s.repo.Create(ctx, hold)
	if errors.Is(err, schedulingerrors.ErrHoldTaken) {
		deleted, delErr := s.repo.DeleteExpired(ctx, date, slotTime, groomerID, now)
		if delErr != nil {
			return nil, apperrors.Internal("Failed to sweep expired holds", delErr)
		}
		if deleted == 0 {
			return nil, apperrors.Conflict("Slot is currently held by another customer")
		}

		err = s.repo.Create(ctx, hold)
		if errors.Is(err, schedulingerrors.ErrHoldTaken) {
			return nil, apperrors.Conflict("Slot is currently held by another customer")
		}
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to create hold", err)
	}

	s.cfg.Log.Info("Hold created",
		"hold_id", hold.ID,
		"appointment_date", date,
		"appointment_time", slotTime,
		"groomer_id", groomerID,
		"expires_at", hold.ExpiresAt,
	)

	return hold, nil
}

// RenewHold extends a live hold by a full TTL from now. Expired or unknown
// holds are reported as not found; the customer must start over.
func (s *holdService) RenewHold(ctx context.Context, id string) (*model.SlotHold, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Hold ID cannot be empty")
	}

	now := s.clock.Now()
	expiresAt := now.Add(s.cfg.HoldTTL)

	if err := s.repo.Renew(ctx, id, expiresAt, now); err != nil {
		if errors.Is(err, schedulingerrors.ErrHoldNotFound) {
			return nil, apperrors.NotFoundWithID("Hold", id)
		}
		return nil, apperrors.Internal("Failed to renew hold", err)
	}

	hold, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, schedulingerrors.ErrHoldNotFound) {
			return nil, apperrors.NotFoundWithID("Hold", id)
		}
		return nil, apperrors.Internal("Failed to load hold", err)
	}

	return hold, nil
}

func (s *holdService) ReleaseHold(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Hold ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, schedulingerrors.ErrHoldNotFound) {
			return apperrors.NotFoundWithID("Hold", id)
		}
		return apperrors.Internal("Failed to release hold", err)
	}

	s.cfg.Log.Info("Hold released", "hold_id", id)
	return nil
}
