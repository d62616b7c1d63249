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

type PatientHandler struct {
	UC          *usecase.PatientUseCase
	rateLimiter *RateLimiter
	logger      *zap.Logger
}

func NewPatientHandler(uc *usecase.PatientUseCase, logger *zap.Logger) *PatientHandler {
	return &PatientHandler{
		UC:          uc,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 tentativas/min por IP
		logger:      logger,
	}
}

// Close para o rate limiter do login.
func (h *PatientHandler) Close() {
	h.rateLimiter.Stop()
}

// Register (POST /patients)
func (h *PatientHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input usecase.RegisterPatientInput
	if !decodeJSON(w, r, &input) {
		return
	}

	out, err := h.UC.Register(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, h.logger, r, err)
		return
	}

	middleware.RecordRegistration(entity.RolePatient)
	writeJSON(w, http.StatusCreated, out)
}

// Login (POST /patients/login)
func (h *PatientHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.limitByIP(w, r) {
		return
	}

	var input usecase.LoginPatientInput
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

func (h *PatientHandler) Get(w http.ResponseWriter, r *http.Request) {
	out, err := h.UC.Get(r.Context(), chi.URLParam(r, "cpf"))
	if err != nil {
		writeUseCaseError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Update (PUT /patients/{cpf}) troca celular, CEP e opcionalmente a senha.
func (h *PatientHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input usecase.UpdatePatientInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.CPF = chi.URLParam(r, "cpf")

	out, err := h.UC.UpdateProfile(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *PatientHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.UC.List(r.Context())
	if err != nil {
		writeUseCaseError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
