package service

import (
	"context"
	"time"

	"github.com/r1cko23/Novo-pets-website-sub001/internal/scheduling/repository"
	"github.com/r1cko23/Novo-pets-website-sub001/pkg/config"
	apperrors "github.com/r1cko23/Novo-pets-website-sub001/pkg/errors"
	"github.com/r1cko23/Novo-pets-website-sub001/pkg/model"
)

// AvailabilityService projects the day grid from the booking ledger. It is
// stateless: nothing is cached, so a freed slot shows up on the next call.
type AvailabilityService interface {
	ComputeAvailability(ctx context.Context, date string) (*model.DayAvailability, error)
	IsSlotFree(ctx context.Context, date, slotTime, groomerID string) (bool, error)
}

type availabilityService struct {
	catalog     *Catalog
	bookingRepo repository.BookingRepository
	groomerRepo repository.GroomerRepository
	cfg         *config.Config
}

func NewAvailabilityService(
	catalog *Catalog,
	bookingRepo repository.BookingRepository,
	groomerRepo repository.GroomerRepository,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		catalog:     catalog,
		bookingRepo: bookingRepo,
		groomerRepo: groomerRepo,
		cfg:         cfg,
	}
}

// ComputeAvailability crosses the slot grid with the active roster and marks
// each cell taken when a non-cancelled booking occupies it. Holds are not
// consulted here; they only gate the booking form, never the grid.
func (s *availabilityService) ComputeAvailability(ctx context.Context, date string) (*model.DayAvailability, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}

	groomers, err := s.groomerRepo.FindActive(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to load groomer roster", "error", err)
		return nil, apperrors.Internal("Failed to load groomer roster", err)
	}

	bookings, err := s.bookingRepo.FindByDate(ctx, date)
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings for date", "date", date, "error", err)
		return nil, apperrors.Internal("Failed to load bookings", err)
	}

	taken := make(map[string]struct{}, len(bookings))
	for _, b := range bookings {
		if b.Status == config.Cancelled {
			continue
		}
		taken[b.AppointmentTime+"|"+b.GroomerID] = struct{}{}
	}

	grid := &model.DayAvailability{
		Date:  date,
		Slots: make([]model.SlotAvailability, 0, len(s.catalog.Slots())*len(groomers)),
	}

	for _, slot := range s.catalog.Slots() {
		for _, g := range groomers {
			_, occupied := taken[slot+"|"+g.ID]
			grid.Slots = append(grid.Slots, model.SlotAvailability{
				Time:      slot,
				GroomerID: g.ID,
				Available: !occupied,
			})
		}
	}

	return grid, nil
}

func (s *availabilityService) IsSlotFree(ctx context.Context, date, slotTime, groomerID string) (bool, error) {
	exists, err := s.bookingRepo.ExistsActive(ctx, date, slotTime, groomerID)
	if err != nil {
		return false, apperrors.Internal("Failed to check slot occupancy", err)
	}
	return !exists, nil
}

func validateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return apperrors.InvalidInput("date must be in YYYY-MM-DD format")
	}
	return nil
}
