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

type CreatePrescriptionInput struct {
	CPF        string `json:"-"`
	Title      string `json:"titulo"`
	ExpiryDate string `json:"vencimento"`
	FileURI    string `json:"pdfUri"`
	FileName   string `json:"pdfNome"`
}

type PrescriptionView struct {
	*entity.Prescription
	Situation string `json:"situacao"`
}

type PrescriptionFile struct {
	URI  string `json:"uri"`
	Name string `json:"nome"`
}

type PrescriptionUseCase struct {
	Repo        entity.PrescriptionRepositoryInterface
	PatientRepo entity.PatientRepositoryInterface
	logger      *zap.Logger
	now         Clock
}

func NewPrescriptionUseCase(repo entity.PrescriptionRepositoryInterface, patientRepo entity.PatientRepositoryInterface, logger *zap.Logger) *PrescriptionUseCase {
	return &PrescriptionUseCase{Repo: repo, PatientRepo: patientRepo, logger: logger, now: time.Now}
}

func (uc *PrescriptionUseCase) Create(ctx context.Context, in CreatePrescriptionInput) (*PrescriptionView, error) {
	cpf := OnlyDigits(in.CPF)
	if err := ensurePatient(ctx, uc.PatientRepo, cpf); err != nil {
		return nil, err
	}

	var errs []ValidationError
	errs = required(errs, "titulo", in.Title)
	if !entity.IsValidDateBR(in.ExpiryDate) {
		errs = append(errs, ValidationError{"vencimento", "must be a valid date (DD/MM/AAAA)"})
	}
	if len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	now := uc.now()
	p := &entity.Prescription{
		ID:         uuid.NewString(),
		Title:      strings.TrimSpace(in.Title),
		ExpiryDate: strings.TrimSpace(in.ExpiryDate),
		FileURI:    strings.TrimSpace(in.FileURI),
		FileName:   strings.TrimSpace(in.FileName),
		CreatedAt:  now.UTC().Format(time.RFC3339),
	}
	if p.FileURI != "" && p.FileName == "" {
		p.FileName = "receita.pdf"
	}

	if err := uc.Repo.Append(ctx, cpf, p); err != nil {
		return nil, storageError("erro ao salvar receita", err)
	}
	uc.logger.Info("receita cadastrada", zap.String("cpf", FormatCPF(cpf)), zap.String("id", p.ID))
	return &PrescriptionView{Prescription: p, Situation: p.Situation(now)}, nil
}

// List returns the newest expiry first.
func (uc *PrescriptionUseCase) List(ctx context.Context, cpf string) ([]*PrescriptionView, error) {
	list, err := uc.Repo.ListByCPF(ctx, OnlyDigits(cpf))
	if err != nil {
		return nil, storageError("erro ao listar receitas", err)
	}

	now := uc.now()
	out := make([]*PrescriptionView, 0, len(list))
	for _, p := range list {
		out = append(out, &PrescriptionView{Prescription: p, Situation: p.Situation(now)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, _ := entity.ParseFlexibleDate(out[i].ExpiryDate)
		b, _ := entity.ParseFlexibleDate(out[j].ExpiryDate)
		return a.After(b)
	})
	return out, nil
}

func (uc *PrescriptionUseCase) File(ctx context.Context, cpf, id string) (*PrescriptionFile, error) {
	list, err := uc.Repo.ListByCPF(ctx, OnlyDigits(cpf))
	if err != nil {
		return nil, storageError("erro ao buscar receita", err)
	}
	for _, p := range list {
		if p.ID != id {
			continue
		}
		if p.IsExpired(uc.now()) {
			return nil, domainError(CodePrescriptionExpired, "receita vencida")
		}
		if p.FileURI == "" {
			return nil, domainError(CodeFileNotFound, "receita sem arquivo")
		}
		return &PrescriptionFile{URI: p.FileURI, Name: p.FileName}, nil
	}
	return nil, domainError(CodePrescriptionMissing, "receita não encontrada")
}
