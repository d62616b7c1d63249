package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xavierca1/clinitech/internal/entity"
)

const otherOption = "Outro"

type RequestExamInput struct {
	CPF            string `json:"-"`
	Type           string `json:"tipo"`
	OtherType      string `json:"tipoOutro"`
	CollectionDate string `json:"dataColeta"`
	Notes          string `json:"observacao"`
}

type AttachResultInput struct {
	CPF      string `json:"-"`
	ExamID   string `json:"-"`
	FileURI  string `json:"uri"`
	FileName string `json:"nome"`
}

// ExamView is an exam as shown to users: status resolved and categorized.
type ExamView struct {
	*entity.Exam
	StoredStatus string                `json:"statusArmazenado,omitempty"`
	Category     entity.StatusCategory `json:"categoria"`
	CanAttach    bool                  `json:"podeAnexar"`
}

type ExamUseCase struct {
	Repo        entity.ExamRepositoryInterface
	PatientRepo entity.PatientRepositoryInterface
	logger      *zap.Logger
	now         Clock
}

func NewExamUseCase(repo entity.ExamRepositoryInterface, patientRepo entity.PatientRepositoryInterface, logger *zap.Logger) *ExamUseCase {
	return &ExamUseCase{Repo: repo, PatientRepo: patientRepo, logger: logger, now: time.Now}
}

func (uc *ExamUseCase) Request(ctx context.Context, in RequestExamInput) (*ExamView, error) {
	cpf := OnlyDigits(in.CPF)
	if err := ensurePatient(ctx, uc.PatientRepo, cpf); err != nil {
		return nil, err
	}

	examType := strings.TrimSpace(in.Type)
	if examType == otherOption {
		examType = strings.TrimSpace(in.OtherType)
	}

	var errs []ValidationError
	if examType == "" {
		errs = append(errs, ValidationError{"tipo", "is required"})
	}
	if !entity.IsValidDateBR(in.CollectionDate) {
		errs = append(errs, ValidationError{"dataColeta", "must be a valid date (DD/MM/AAAA)"})
	}
	if len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	exam := &entity.Exam{
		ID:             uuid.NewString(),
		Type:           examType,
		CollectionDate: strings.TrimSpace(in.CollectionDate),
		Notes:          strings.TrimSpace(in.Notes),
		Result:         strings.TrimSpace(in.Notes),
		Status:         entity.ExamStatusPending,
	}
	if err := uc.Repo.Append(ctx, cpf, exam); err != nil {
		return nil, storageError("erro ao salvar exame", err)
	}

	uc.logger.Info("exame solicitado", zap.String("cpf", FormatCPF(cpf)), zap.String("exam_id", exam.ID))
	return uc.view(exam), nil
}

func (uc *ExamUseCase) List(ctx context.Context, cpf string) ([]*ExamView, error) {
	exams, err := uc.Repo.ListByCPF(ctx, OnlyDigits(cpf))
	if err != nil {
		return nil, storageError("erro ao listar exames", err)
	}
	out := make([]*ExamView, 0, len(exams))
	for _, e := range exams {
		out = append(out, uc.view(e))
	}
	return out, nil
}

func (uc *ExamUseCase) view(e *entity.Exam) *ExamView {
	now := uc.now()
	shown := *e
	shown.Status = e.EffectiveStatus(now)
	v := &ExamView{
		Exam:      &shown,
		Category:  entity.ClassifyStatus(shown.Status),
		CanAttach: e.CanAttachResult(now),
	}
	if shown.Status != e.Status {
		v.StoredStatus = e.Status
	}
	return v
}

// AttachResult only works once the collection day arrived and only once.
func (uc *ExamUseCase) AttachResult(ctx context.Context, in AttachResultInput) (*ExamView, error) {
	var errs []ValidationError
	errs = required(errs, "uri", in.FileURI)
	errs = required(errs, "nome", in.FileName)
	if len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	now := uc.now()
	exam, err := uc.Repo.Update(ctx, OnlyDigits(in.CPF), in.ExamID, func(e *entity.Exam) error {
		if e.HasResult() {
			return domainError(CodeResultAttached, "resultado já anexado")
		}
		if !entity.IsOnOrBeforeToday(e.CollectionDate, now) {
			return domainError(CodeResultTooEarly, "resultado só pode ser anexado a partir da data da coleta")
		}
		e.ResultFileURI = strings.TrimSpace(in.FileURI)
		e.ResultFileName = strings.TrimSpace(in.FileName)
		e.ResultFileAt = now.UTC().Format(time.RFC3339)
		return nil
	})
	if err != nil {
		return nil, uc.mapUpdateError(err)
	}
	return uc.view(exam), nil
}

func (uc *ExamUseCase) UpdateStatus(ctx context.Context, cpf, examID, status string) (*ExamView, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, validationFailed([]ValidationError{{"status", "is required"}})
	}
	exam, err := uc.Repo.Update(ctx, OnlyDigits(cpf), examID, func(e *entity.Exam) error {
		e.Status = status
		return nil
	})
	if err != nil {
		return nil, uc.mapUpdateError(err)
	}
	return uc.view(exam), nil
}

// Cancel só vale para exames ainda pendentes (solicitado, pendente,
// aguardando) e sem resultado anexado.
func (uc *ExamUseCase) Cancel(ctx context.Context, cpf, examID string) (*ExamView, error) {
	now := uc.now()
	exam, err := uc.Repo.Update(ctx, OnlyDigits(cpf), examID, func(e *entity.Exam) error {
		if e.HasResult() || entity.ClassifyStatus(e.EffectiveStatus(now)) != entity.StatusPending {
			return domainError(CodeExamNotCancellable, "exame não pode ser cancelado")
		}
		e.Status = entity.ExamStatusCanceled
		e.CancelledAt = now.UTC().Format(time.RFC3339)
		return nil
	})
	if err != nil {
		return nil, uc.mapUpdateError(err)
	}
	return uc.view(exam), nil
}

func (uc *ExamUseCase) mapUpdateError(err error) error {
	if IsDomainError(err) {
		return err
	}
	if errors.Is(err, entity.ErrNotFound) {
		return domainError(CodeExamNotFound, "exame não encontrado")
	}
	return storageError("erro ao atualizar exame", err)
}

func ensurePatient(ctx context.Context, repo entity.PatientRepositoryInterface, cpf string) error {
	if len(cpf) != 11 {
		return validationFailed([]ValidationError{{"cpf", "must have 11 digits"}})
	}
	_, err := repo.FindByCPF(ctx, cpf)
	if errors.Is(err, entity.ErrNotFound) {
		return domainError(CodePatientNotFound, "paciente não encontrado")
	}
	if err != nil {
		return storageError("erro ao buscar paciente", err)
	}
	return nil
}
