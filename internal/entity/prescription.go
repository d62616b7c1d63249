package entity

import (
	"context"
	"time"
)

const (
	PrescriptionValid   = "Válida"
	PrescriptionExpired = "Vencida"
)

// Prescription fica num array sob REC_<cpf>.
type Prescription struct {
	ID         string `json:"id"`
	Title      string `json:"titulo"`
	ExpiryDate string `json:"vencimento"` // DD/MM/AAAA
	FileURI    string `json:"pdfUri,omitempty"`
	FileName   string `json:"pdfNome,omitempty"`
	CreatedAt  string `json:"criadoEm,omitempty"`
}

// IsExpired: the expiry day is before today. Unparseable dates never expire.
func (p *Prescription) IsExpired(now time.Time) bool {
	return IsPastDay(p.ExpiryDate, now)
}

func (p *Prescription) Situation(now time.Time) string {
	if p.IsExpired(now) {
		return PrescriptionExpired
	}
	return PrescriptionValid
}

type PrescriptionRepositoryInterface interface {
	Append(ctx context.Context, cpf string, p *Prescription) error
	ListByCPF(ctx context.Context, cpf string) ([]*Prescription, error)
}
