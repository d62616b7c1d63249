package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/clinitech/internal/usecase"
)

type InsuranceHandler struct {
	UC     *usecase.InsuranceUseCase
	logger *zap.Logger
}

func NewInsuranceHandler(uc *usecase.InsuranceUseCase, logger *zap.Logger) *InsuranceHandler {
	return &InsuranceHandler{UC: uc, logger: logger}
}

func (h *InsuranceHandler) Get(w http.ResponseWriter, r *http.Request) {
	out, err := h.UC.Get(r.Context())
	if err != nil {
		writeUseCaseError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Save (POST /insurance) grava ou sobrescreve o convênio.
func (h *InsuranceHandler) Save(w http.ResponseWriter, r *http.Request) {
	var input usecase.SaveInsuranceInput
	if !decodeJSON(w, r, &input) {
		return
	}

	out, err := h.UC.Save(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// Update (PUT /insurance) exige convênio já cadastrado.
func (h *InsuranceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input usecase.SaveInsuranceInput
	if !decodeJSON(w, r, &input) {
		return
	}

	out, err := h.UC.Update(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *InsuranceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.UC.Delete(r.Context()); err != nil {
		writeUseCaseError(w, h.logger, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
