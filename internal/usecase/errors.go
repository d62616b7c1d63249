package usecase

import (
	"errors"
	"fmt"
	"strings"
)

const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeInvalidRegToken     = "INVALID_REGISTRATION_TOKEN"
	CodeCPFAlreadyExists    = "CPF_ALREADY_EXISTS"
	CodeCRMAlreadyExists    = "CRM_ALREADY_EXISTS"
	CodePatientNotFound     = "PATIENT_NOT_FOUND"
	CodeDoctorNotFound      = "DOCTOR_NOT_FOUND"
	CodeExamNotFound        = "EXAM_NOT_FOUND"
	CodeExamNotCancellable  = "EXAM_NOT_CANCELLABLE"
	CodeResultTooEarly      = "RESULT_BEFORE_COLLECTION"
	CodeResultAttached      = "RESULT_ALREADY_ATTACHED"
	CodePrescriptionMissing = "PRESCRIPTION_NOT_FOUND"
	CodePrescriptionExpired = "PRESCRIPTION_EXPIRED"
	CodeFileNotFound        = "FILE_NOT_FOUND"
	CodeInsuranceNotFound   = "INSURANCE_NOT_FOUND"
	CodeAppointmentNotFound = "APPOINTMENT_NOT_FOUND"
	CodeAlreadyCancelled    = "APPOINTMENT_ALREADY_CANCELLED"
	CodeSlotUnavailable     = "SLOT_UNAVAILABLE"

	CodeStorage = "STORAGE_ERROR"
	CodeQueue   = "QUEUE_ERROR"
)

type DomainError struct {
	Code    string
	Message string
	Details []ValidationError
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func domainError(code, msg string) error {
	return &DomainError{Code: code, Message: msg}
}

func validationFailed(errs []ValidationError) error {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Field+" ("+e.Message+")")
	}
	return &DomainError{
		Code:    CodeValidation,
		Message: "validation failed: " + strings.Join(parts, ", "),
		Details: errs,
	}
}

func storageError(op string, err error) error {
	return &TechnicalError{
		Code:    CodeStorage,
		Message: fmt.Sprintf("%s: %v", op, err),
		Err:     err,
	}
}
