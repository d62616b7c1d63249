package entity

import (
	"context"
	"time"
)

const (
	CertificateIssued = "Emitido"

	CertificateActive = "Em vigor"
	CertificateClosed = "Encerrado"

	DefaultCertificateFileName = "atestado.pdf"
)

// Certificate (atestado) fica num array sob ATE_<cpf>.
type Certificate struct {
	ID        string `json:"id"`
	IssueDate string `json:"dataEmissao"`
	LeaveDays int    `json:"diasAfastamento"`
	ICD       string `json:"cid"`
	Reason    string `json:"motivo"`
	Status    string `json:"status"`
	FileURI   string `json:"pdfUri"`
	FileName  string `json:"pdfNome"`
}

// ValidUntil is the last day of leave: issue date + days - 1.
func (c *Certificate) ValidUntil() (time.Time, bool) {
	issued, ok := ParseFlexibleDate(c.IssueDate)
	if !ok || c.LeaveDays <= 0 {
		return time.Time{}, false
	}
	return StartOfDay(issued).AddDate(0, 0, c.LeaveDays-1), true
}

// Situation falls back to the stored status when there is no valid period.
func (c *Certificate) Situation(now time.Time) string {
	until, ok := c.ValidUntil()
	if !ok {
		return c.Status
	}
	if until.Before(StartOfDay(now)) {
		return CertificateClosed
	}
	return CertificateActive
}

type CertificateRepositoryInterface interface {
	Append(ctx context.Context, cpf string, c *Certificate) error
	ListByCPF(ctx context.Context, cpf string) ([]*Certificate, error)
}
