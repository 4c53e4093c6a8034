package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"

	apperrors "github.com/r1cko23/Novo-pets-website-sub001/pkg/errors"
	"github.com/r1cko23/Novo-pets-website-sub001/pkg/logger"
	"github.com/r1cko23/Novo-pets-website-sub001/pkg/model"
)

type mockBookingService struct {
	submitFn         func(ctx context.Context, booking *model.Booking) (*model.Booking, error)
	getByIDFn        func(ctx context.Context, id string) (*model.Booking, error)
	listForDateFn    func(ctx context.Context, date string) ([]*model.Booking, error)
	updateStatusFn   func(ctx context.Context, id, status string) (*model.Booking, error)
	findDuplicatesFn func(ctx context.Context) ([]model.DuplicateGroup, error)
}

func (m *mockBookingService) Submit(ctx context.Context, booking *model.Booking) (*model.Booking, error) {
	return m.submitFn(ctx, booking)
}

func (m *mockBookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockBookingService) ListForDate(ctx context.Context, date string) ([]*model.Booking, error) {
	return m.listForDateFn(ctx, date)
}

func (m *mockBookingService) UpdateStatus(ctx context.Context, id, status string) (*model.Booking, error) {
	return m.updateStatusFn(ctx, id, status)
}

func (m *mockBookingService) FindDuplicates(ctx context.Context) ([]model.DuplicateGroup, error) {
	return m.findDuplicatesFn(ctx)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.ERROR, Format: logger.TEXT, Output: io.Discard})
}

func newRouter(svc *mockBookingService) *httprouter.Router {
	router := httprouter.New()
	NewBookingHandler(svc, testLogger()).RegisterRoutes(router)
	return router
}

func TestCreateReturns201(t *testing.T) {
	svc := &mockBookingService{
		submitFn: func(_ context.Context, booking *model.Booking) (*model.Booking, error) {
			booking.ID = "507f1f77bcf86cd799439011"
			return booking, nil
		},
	}
	router := newRouter(svc)

	body := `{
		"appointment_date": "2026-09-15",
		"appointment_time": "10:00",
		"groomer_id": "507f1f77bcf86cd799439022",
		"pet_name": "Mochi",
		"customer_name": "Ana Reyes",
		"customer_phone": "+639171234567"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data model.Booking `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.ID != "507f1f77bcf86cd799439011" {
		t.Errorf("expected the stored booking back, got ID %q", resp.Data.ID)
	}
}

func TestCreateConflictReturns409(t *testing.T) {
	svc := &mockBookingService{
		submitFn: func(_ context.Context, _ *model.Booking) (*model.Booking, error) {
			return nil, apperrors.Conflict("Slot is no longer available")
		},
	}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestCreateMalformedBodyReturns400(t *testing.T) {
	router := newRouter(&mockBookingService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetByIDNotFoundReturns404(t *testing.T) {
	svc := &mockBookingService{
		getByIDFn: func(_ context.Context, id string) (*model.Booking, error) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		},
	}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/id/507f1f77bcf86cd799439099", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestListByDateRequiresDate(t *testing.T) {
	router := newRouter(&mockBookingService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUpdateStatusReturnsUpdatedBooking(t *testing.T) {
	svc := &mockBookingService{
		updateStatusFn: func(_ context.Context, id, status string) (*model.Booking, error) {
			return &model.Booking{ID: id, Status: status}, nil
		},
	}
	router := newRouter(svc)

	req := httptest.NewRequest(
		http.MethodPatch,
		"/api/v1/bookings/id/507f1f77bcf86cd799439011/status",
		strings.NewReader(`{"status":"cancelled"}`),
	)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data model.Booking `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.Status != "cancelled" {
		t.Errorf("expected cancelled status in response, got %q", resp.Data.Status)
	}
}

func TestDuplicatesReturnsGroups(t *testing.T) {
	svc := &mockBookingService{
		findDuplicatesFn: func(_ context.Context) ([]model.DuplicateGroup, error) {
			return []model.DuplicateGroup{{
				AppointmentDate: "2026-09-15",
				AppointmentTime: "10:00",
				GroomerID:       "507f1f77bcf86cd799439022",
				Count:           2,
			}}, nil
		},
	}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/duplicates", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Data []model.DuplicateGroup `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Count != 2 {
		t.Errorf("unexpected duplicate groups: %+v", resp.Data)
	}
}
