package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xavierca1/clinitech/internal/entity"
)

type CreateCertificateInput struct {
	CPF       string `json:"-"`
	IssueDate string `json:"dataEmissao"`
	LeaveDays int    `json:"diasAfastamento"`
	ICD       string `json:"cid"`
	Reason    string `json:"motivo"`
	FileURI   string `json:"pdfUri"`
	FileName  string `json:"pdfNome"`
}

type CertificateView struct {
	*entity.Certificate
	ValidUntil string `json:"validoAte,omitempty"`
	Situation  string `json:"situacao"`
}

type CertificateUseCase struct {
	Repo        entity.CertificateRepositoryInterface
	PatientRepo entity.PatientRepositoryInterface
	logger      *zap.Logger
	now         Clock
}

func NewCertificateUseCase(repo entity.CertificateRepositoryInterface, patientRepo entity.PatientRepositoryInterface, logger *zap.Logger) *CertificateUseCase {
	return &CertificateUseCase{Repo: repo, PatientRepo: patientRepo, logger: logger, now: time.Now}
}

func (uc *CertificateUseCase) Create(ctx context.Context, in CreateCertificateInput) (*CertificateView, error) {
	cpf := OnlyDigits(in.CPF)
	if err := ensurePatient(ctx, uc.PatientRepo, cpf); err != nil {
		return nil, err
	}

	var errs []ValidationError
	if !entity.IsValidDateBR(in.IssueDate) {
		errs = append(errs, ValidationError{"dataEmissao", "must be a valid date (DD/MM/AAAA)"})
	}
	if in.LeaveDays <= 0 {
		errs = append(errs, ValidationError{"diasAfastamento", "must be greater than zero"})
	}
	errs = required(errs, "pdfUri", in.FileURI)
	if len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	c := &entity.Certificate{
		ID:        uuid.NewString(),
		IssueDate: strings.TrimSpace(in.IssueDate),
		LeaveDays: in.LeaveDays,
		ICD:       strings.ToUpper(strings.TrimSpace(in.ICD)),
		Reason:    strings.TrimSpace(in.Reason),
		Status:    entity.CertificateIssued,
		FileURI:   strings.TrimSpace(in.FileURI),
		FileName:  strings.TrimSpace(in.FileName),
	}
	if c.FileName == "" {
		c.FileName = entity.DefaultCertificateFileName
	}

	if err := uc.Repo.Append(ctx, cpf, c); err != nil {
		return nil, storageError("erro ao salvar atestado", err)
	}
	uc.logger.Info("atestado emitido", zap.String("cpf", FormatCPF(cpf)), zap.String("id", c.ID))
	return uc.view(c), nil
}

// List returns the most recently issued first.
func (uc *CertificateUseCase) List(ctx context.Context, cpf string) ([]*CertificateView, error) {
	list, err := uc.Repo.ListByCPF(ctx, OnlyDigits(cpf))
	if err != nil {
		return nil, storageError("erro ao listar atestados", err)
	}

	out := make([]*CertificateView, 0, len(list))
	for _, c := range list {
		out = append(out, uc.view(c))
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, _ := entity.ParseFlexibleDate(out[i].IssueDate)
		b, _ := entity.ParseFlexibleDate(out[j].IssueDate)
		return a.After(b)
	})
	return out, nil
}

func (uc *CertificateUseCase) view(c *entity.Certificate) *CertificateView {
	v := &CertificateView{Certificate: c, Situation: c.Situation(uc.now())}
	if until, ok := c.ValidUntil(); ok {
		v.ValidUntil = entity.FormatDateBR(until)
	}
	return v
}
