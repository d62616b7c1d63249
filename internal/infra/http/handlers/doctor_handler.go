package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/clinitech/internal/entity"
	"github.com/xavierca1/clinitech/internal/infra/http/middleware"
	"github.com/xavierca1/clinitech/internal/usecase"
)

type DoctorHandler struct {
	UC            *usecase.DoctorUseCase
	AppointmentUC *usecase.AppointmentUseCase
	rateLimiter   *RateLimiter
	logger        *zap.Logger
}

func NewDoctorHandler(uc *usecase.DoctorUseCase, appointmentUC *usecase.AppointmentUseCase, logger *zap.Logger) *DoctorHandler {
	return &DoctorHandler{
		UC:            uc,
		AppointmentUC: appointmentUC,
		rateLimiter:   NewRateLimiter(10, time.Minute),
		logger:        logger,
	}
}

func (h *DoctorHandler) Close() {
	h.rateLimiter.Stop()
}

type registrationTokenRequest struct {
	Token string `json:"token"`
}

// VerifyRegistrationToken (POST /doctors/registration-token) libera a tela
// de cadastro de médico.
func (h *DoctorHandler) VerifyRegistrationToken(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.limitByIP(w, r) {
		return
	}

	var req registrationTokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if !h.UC.VerifyRegistrationToken(req.Token) {
		writeErrorResponse(w, http.StatusForbidden, usecase.CodeInvalidRegToken, "senha de cadastro inválida")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
}

func (h *DoctorHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input usecase.RegisterDoctorInput
	if !decodeJSON(w, r, &input) {
		return
	}

	out, err := h.UC.Register(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, h.logger, r, err)
		return
	}

	middleware.RecordRegistration(entity.RoleDoctor)
	writeJSON(w, http.StatusCreated, out)
}

func (h *DoctorHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.limitByIP(w, r) {
		return
	}

	var input usecase.LoginDoctorInput
	if !decodeJSON(w, r, &input) {
		return
	}

	out, err := h.UC.Login(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *DoctorHandler) Get(w http.ResponseWriter, r *http.Request) {
	out, err := h.UC.Get(r.Context(), chi.URLParam(r, "crm"))
	if err != nil {
		writeUseCaseError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *DoctorHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.UC.List(r.Context())
	if err != nil {
		writeUseCaseError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Agenda (GET /doctors/{crm}/agenda)
func (h *DoctorHandler) Agenda(w http.ResponseWriter, r *http.Request) {
	out, err := h.AppointmentUC.DoctorAgenda(r.Context(), chi.URLParam(r, "crm"))
	if err != nil {
		writeUseCaseError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
