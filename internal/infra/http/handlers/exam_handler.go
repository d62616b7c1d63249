package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/clinitech/internal/usecase"
)

type ExamHandler struct {
	UC     *usecase.ExamUseCase
	logger *zap.Logger
}

func NewExamHandler(uc *usecase.ExamUseCase, logger *zap.Logger) *ExamHandler {
	return &ExamHandler{UC: uc, logger: logger}
}

// Request (POST /patients/{cpf}/exams)
func (h *ExamHandler) Request(w http.ResponseWriter, r *http.Request) {
	var input usecase.RequestExamInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.CPF = chi.URLParam(r, "cpf")

	out, err := h.UC.Request(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *ExamHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.UC.List(r.Context(), chi.URLParam(r, "cpf"))
	if err != nil {
		writeUseCaseError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type updateExamStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus (PATCH /patients/{cpf}/exams/{id})
func (h *ExamHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateExamStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	out, err := h.UC.UpdateStatus(r.Context(), chi.URLParam(r, "cpf"), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeUseCaseError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ExamHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	out, err := h.UC.Cancel(r.Context(), chi.URLParam(r, "cpf"), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// AttachResult (POST /patients/{cpf}/exams/{id}/result)
func (h *ExamHandler) AttachResult(w http.ResponseWriter, r *http.Request) {
	var input usecase.AttachResultInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.CPF = chi.URLParam(r, "cpf")
	input.ExamID = chi.URLParam(r, "id")

	out, err := h.UC.AttachResult(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
