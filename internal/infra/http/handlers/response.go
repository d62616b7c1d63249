package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/clinitech/internal/usecase"
)

const CodeInvalidJSON = "INVALID_JSON"

type ErrorResponse struct {
	Error   string                    `json:"error"`
	Message string                    `json:"message"`
	Details []usecase.ValidationError `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, CodeInvalidJSON, "JSON inválido")
		return false
	}
	return true
}

// StatusForCode maps a domain error code to its HTTP status.
func StatusForCode(code string) int {
	switch code {
	case usecase.CodeValidation:
		return http.StatusBadRequest
	case usecase.CodeInvalidCredentials:
		return http.StatusUnauthorized
	case usecase.CodeInvalidRegToken:
		return http.StatusForbidden
	case usecase.CodeSlotUnavailable, usecase.CodeAlreadyCancelled:
		return http.StatusConflict
	case usecase.CodePrescriptionExpired, usecase.CodeExamNotCancellable,
		usecase.CodeResultTooEarly, usecase.CodeResultAttached:
		return http.StatusUnprocessableEntity
	}
	switch {
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "_ALREADY_EXISTS"):
		return http.StatusConflict
	}
	return http.StatusBadRequest
}

// writeUseCaseError renders DomainError with its own code and hides the
// details of anything else behind a 500.
func writeUseCaseError(w http.ResponseWriter, logger *zap.Logger, r *http.Request, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		writeJSON(w, StatusForCode(de.Code), ErrorResponse{Error: de.Code, Message: de.Message, Details: de.Details})
		return
	}

	code := "INTERNAL_ERROR"
	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		code = te.Code
	}
	logger.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("code", code),
		zap.Error(err),
	)
	writeErrorResponse(w, http.StatusInternalServerError, code, "erro interno, tente novamente")
}
