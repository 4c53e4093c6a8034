package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/r1cko23/Novo-pets-website-sub001/internal/scheduling/service"
	httputil "github.com/r1cko23/Novo-pets-website-sub001/pkg/http"
	"github.com/r1cko23/Novo-pets-website-sub001/pkg/logger"
)

type HoldHandler struct {
	service service.HoldService
	log     *logger.Logger
}

func NewHoldHandler(service service.HoldService, log *logger.Logger) *HoldHandler {
	return &HoldHandler{
		service: service,
		log:     log,
	}
}

type createHoldRequest struct {
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
	GroomerID       string `json:"groomer_id"`
}

func (h *HoldHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createHoldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	hold, err := h.service.CreateHold(r.Context(), req.AppointmentDate, req.AppointmentTime, req.GroomerID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, hold); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *HoldHandler) Renew(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	hold, err := h.service.RenewHold(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Renew", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, hold); err != nil {
		h.log.Error("failed to write success response", "handler", "Renew", "operation", "WriteSuccess", "error", err)
	}
}

func (h *HoldHandler) Release(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if err := h.service.ReleaseHold(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Release", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *HoldHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/holds", h.Create)
	router.POST("/api/v1/holds/id/:id/renew", h.Renew)
	router.DELETE("/api/v1/holds/id/:id", h.Release)
}
