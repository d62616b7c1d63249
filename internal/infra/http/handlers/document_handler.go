package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/clinitech/internal/usecase"
)

// DocumentHandler atende receitas e atestados do paciente.
type DocumentHandler struct {
	PrescriptionUC *usecase.PrescriptionUseCase
	CertificateUC  *usecase.CertificateUseCase
	logger         *zap.Logger
}

func NewDocumentHandler(prescriptionUC *usecase.PrescriptionUseCase, certificateUC *usecase.CertificateUseCase, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		PrescriptionUC: prescriptionUC,
		CertificateUC:  certificateUC,
		logger:         logger,
	}
}

func (h *DocumentHandler) CreatePrescription(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreatePrescriptionInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.CPF = chi.URLParam(r, "cpf")

	out, err := h.PrescriptionUC.Create(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *DocumentHandler) ListPrescriptions(w http.ResponseWriter, r *http.Request) {
	out, err := h.PrescriptionUC.List(r.Context(), chi.URLParam(r, "cpf"))
	if err != nil {
		writeUseCaseError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// PrescriptionFile devolve só a referência do PDF; receita vencida dá 422.
func (h *DocumentHandler) PrescriptionFile(w http.ResponseWriter, r *http.Request) {
	out, err := h.PrescriptionUC.File(r.Context(), chi.URLParam(r, "cpf"), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *DocumentHandler) CreateCertificate(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateCertificateInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.CPF = chi.URLParam(r, "cpf")

	out, err := h.CertificateUC.Create(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *DocumentHandler) ListCertificates(w http.ResponseWriter, r *http.Request) {
	out, err := h.CertificateUC.List(r.Context(), chi.URLParam(r, "cpf"))
	if err != nil {
		writeUseCaseError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
