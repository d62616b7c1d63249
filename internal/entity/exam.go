package entity

import (
	"context"
	"strings"
	"time"
)

const (
	ExamStatusPending  = "Pendente"
	ExamStatusReleased = "Liberado"
	ExamStatusDone     = "Realizado"
	ExamStatusCanceled = "Cancelado"
)

type StatusCategory string

const (
	StatusPending  StatusCategory = "pending"
	StatusAccepted StatusCategory = "accepted"
	StatusReleased StatusCategory = "released"
	StatusFailed   StatusCategory = "failed"
	StatusOther    StatusCategory = "other"
)

// Exam fica num array sob EXA_<cpf>.
type Exam struct {
	ID             string `json:"id"`
	Type           string `json:"tipo"`
	CollectionDate string `json:"dataColeta"` // DD/MM/AAAA
	Notes          string `json:"observacao"`
	Result         string `json:"resultado"`
	Status         string `json:"status"`
	ResultFileURI  string `json:"resultadoPdfUri,omitempty"`
	ResultFileName string `json:"resultadoPdfNome,omitempty"`
	ResultFileAt   string `json:"resultadoPdfData,omitempty"`
	CancelledAt    string `json:"canceladoEm,omitempty"`
}

func (e *Exam) HasResult() bool {
	return e.ResultFileURI != ""
}

// CanAttachResult: collection day reached and nothing attached yet.
func (e *Exam) CanAttachResult(now time.Time) bool {
	return IsOnOrBeforeToday(e.CollectionDate, now) && !e.HasResult()
}

// EffectiveStatus resolves the status shown to users. A missing status
// derives from the attachment; a past collection date promotes anything that
// is not released nor failed to Realizado.
func (e *Exam) EffectiveStatus(now time.Time) string {
	status := strings.TrimSpace(e.Status)
	if status == "" {
		if e.HasResult() {
			status = ExamStatusReleased
		} else {
			status = ExamStatusPending
		}
	}
	cat := ClassifyStatus(status)
	if IsPastDay(e.CollectionDate, now) && cat != StatusReleased && cat != StatusFailed {
		return ExamStatusDone
	}
	return status
}

var statusMarkers = []struct {
	cat     StatusCategory
	needles []string
}{
	{StatusPending, []string{"solic", "pend", "aguard"}},
	{StatusAccepted, []string{"aceit", "confirm"}},
	{StatusReleased, []string{"liber", "pronto", "conclu", "final", "ok"}},
	{StatusFailed, []string{"recus", "rejei", "cancel", "erro", "falh"}},
}

// ClassifyStatus maps a free-text status to a category by case-insensitive
// substring match. Order matters: pending wins over the others.
func ClassifyStatus(status string) StatusCategory {
	s := strings.ToLower(status)
	for _, m := range statusMarkers {
		for _, n := range m.needles {
			if strings.Contains(s, n) {
				return m.cat
			}
		}
	}
	return StatusOther
}

type ExamRepositoryInterface interface {
	Append(ctx context.Context, cpf string, exam *Exam) error
	ListByCPF(ctx context.Context, cpf string) ([]*Exam, error)
	Update(ctx context.Context, cpf, examID string, fn func(*Exam) error) (*Exam, error)
	ListCPFs(ctx context.Context) ([]string, error)
	// UpdateEach rewrites the list once; fn reports whether it changed the exam.
	UpdateEach(ctx context.Context, cpf string, fn func(*Exam) bool) (int, error)
}
