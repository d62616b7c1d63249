package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/clinitech/internal/entity"
	"github.com/xavierca1/clinitech/internal/infra/http/middleware"
	"github.com/xavierca1/clinitech/internal/usecase"
)

type AppointmentHandler struct {
	UC     *usecase.AppointmentUseCase
	logger *zap.Logger
}

func NewAppointmentHandler(uc *usecase.AppointmentUseCase, logger *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{UC: uc, logger: logger}
}

func (h *AppointmentHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	out, err := h.UC.Catalog(r.Context())
	if err != nil {
		writeUseCaseError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Slots (GET /appointments/slots?doctor=&day=&month=&year=)
func (h *AppointmentHandler) Slots(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	day, errDay := strconv.Atoi(q.Get("day"))
	month, errMonth := strconv.Atoi(q.Get("month"))
	year, errYear := strconv.Atoi(q.Get("year"))
	if errDay != nil || errMonth != nil || errYear != nil {
		writeErrorResponse(w, http.StatusBadRequest, usecase.CodeValidation, "day, month e year devem ser numéricos")
		return
	}

	out, err := h.UC.AvailableSlots(r.Context(), q.Get("doctor"), day, month, year)
	if err != nil {
		writeUseCaseError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Schedule (POST /patients/{cpf}/appointments)
func (h *AppointmentHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	var input usecase.ScheduleAppointmentInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.CPF = chi.URLParam(r, "cpf")

	out, err := h.UC.Schedule(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, h.logger, r, err)
		return
	}

	middleware.RecordAppointment(entity.AppointmentScheduled)
	writeJSON(w, http.StatusCreated, out)
}

func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.UC.List(r.Context(), chi.URLParam(r, "cpf"))
	if err != nil {
		writeUseCaseError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	out, err := h.UC.Cancel(r.Context(), chi.URLParam(r, "cpf"), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, h.logger, r, err)
		return
	}

	middleware.RecordAppointment(entity.AppointmentCancelled)
	writeJSON(w, http.StatusOK, out)
}
