package handler

import (
	"github.com/julienschmidt/httprouter"

	"github.com/r1cko23/Novo-pets-website-sub001/internal/scheduling/service"
	"github.com/r1cko23/Novo-pets-website-sub001/pkg/logger"
)

// API bundles the scheduling handlers behind a single route registrar.
type API struct {
	bookings     *BookingHandler
	availability *AvailabilityHandler
	holds        *HoldHandler
}

func NewAPI(
	bookingService service.BookingService,
	availabilityService service.AvailabilityService,
	holdService service.HoldService,
	log *logger.Logger,
) *API {
	return &API{
		bookings:     NewBookingHandler(bookingService, log),
		availability: NewAvailabilityHandler(availabilityService, log),
		holds:        NewHoldHandler(holdService, log),
	}
}

func (a *API) RegisterRoutes(router *httprouter.Router) {
	a.bookings.RegisterRoutes(router)
	a.availability.RegisterRoutes(router)
	a.holds.RegisterRoutes(router)
}
