package entity

import (
	"regexp"
	"strings"
)

// Chaves do namespace plano. Os formatos precisam bater com o que o app
// mobile já grava, então não mude os prefixos.
const (
	DoctorKeyPrefix       = "MED_"
	LegacyPatientPrefix   = "PAC_"
	ExamKeyPrefix         = "EXA_"
	PrescriptionKeyPrefix = "REC_"
	CertificateKeyPrefix  = "ATE_"
	AppointmentKeyPrefix  = "consultas_"
	ChatKeyPrefix         = "chat:"

	DoctorListKey = "MEDICOS_LISTA"
	InsuranceKey  = "@clinitech_convenio"

	UnknownDoctorID  = "medico_unknown"
	UnknownPatientID = "paciente_unknown"
)

var patientKeyPattern = regexp.MustCompile(`^\d{11}$`)

func PatientKey(cpf string) string       { return cpf }
func LegacyPatientKey(cpf string) string { return LegacyPatientPrefix + cpf }
func DoctorKey(crm string) string        { return DoctorKeyPrefix + crm }
func ExamKey(cpf string) string          { return ExamKeyPrefix + cpf }
func PrescriptionKey(cpf string) string  { return PrescriptionKeyPrefix + cpf }
func CertificateKey(cpf string) string   { return CertificateKeyPrefix + cpf }
func AppointmentKey(cpf string) string   { return AppointmentKeyPrefix + cpf }

// IsPatientKey reports whether key holds a patient record (bare 11-digit CPF).
func IsPatientKey(key string) bool {
	return patientKeyPattern.MatchString(key)
}

// ChatKey builds chat:<doctorId>:<patientId>. Empty ids fall back to the
// unknown placeholders.
func ChatKey(doctorID, patientID string) string {
	if doctorID == "" {
		doctorID = UnknownDoctorID
	}
	if patientID == "" {
		patientID = UnknownPatientID
	}
	return ChatKeyPrefix + doctorID + ":" + patientID
}

// ParseChatKey splits a chat key. Everything after the doctor id belongs to
// the patient id, so patient ids containing ':' survive the round trip.
func ParseChatKey(key string) (doctorID, patientID string, ok bool) {
	if !strings.HasPrefix(key, ChatKeyPrefix) {
		return "", "", false
	}
	parts := strings.Split(key, ":")
	if len(parts) < 3 {
		return "", "", false
	}
	return parts[1], strings.Join(parts[2:], ":"), true
}
