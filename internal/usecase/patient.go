package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/clinitech/internal/entity"
)

type RegisterPatientInput struct {
	Name            string `json:"nome"`
	CPF             string `json:"cpf"`
	BirthDate       string `json:"nascimento"`
	Gender          string `json:"genero"`
	Phone           string `json:"celular"`
	CEP             string `json:"cep"`
	Email           string `json:"email"`
	Password        string `json:"senha"`
	ConfirmPassword string `json:"confirmarSenha"`
}

type LoginPatientInput struct {
	CPF      string `json:"cpf"`
	Password string `json:"senha"`
}

type UpdatePatientInput struct {
	CPF             string `json:"-"`
	CurrentPassword string `json:"senhaAtual"`
	Phone           string `json:"celular"`
	CEP             string `json:"cep"`
	NewPassword     string `json:"novaSenha"`
}

// PatientOutput never carries the password.
type PatientOutput struct {
	Name      string    `json:"nome"`
	CPF       string    `json:"cpf"`
	BirthDate string    `json:"nascimento"`
	Gender    string    `json:"genero"`
	Phone     string    `json:"celular"`
	CEP       string    `json:"cep"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"criadoEm"`
}

func newPatientOutput(p *entity.Patient) *PatientOutput {
	return &PatientOutput{
		Name:      p.Name,
		CPF:       p.CPF,
		BirthDate: p.BirthDate,
		Gender:    p.Gender,
		Phone:     p.Phone,
		CEP:       p.CEP,
		Email:     p.Email,
		CreatedAt: p.CreatedAt,
	}
}

type PatientUseCase struct {
	Repo   entity.PatientRepositoryInterface
	logger *zap.Logger
	now    Clock
}

func NewPatientUseCase(repo entity.PatientRepositoryInterface, logger *zap.Logger) *PatientUseCase {
	return &PatientUseCase{Repo: repo, logger: logger, now: time.Now}
}

func ValidateRegisterPatientInput(in RegisterPatientInput) []ValidationError {
	var errs []ValidationError

	errs = required(errs, "nome", in.Name)

	if strings.TrimSpace(in.CPF) == "" {
		errs = append(errs, ValidationError{"cpf", "is required"})
	} else if !IsValidCPF(in.CPF) {
		errs = append(errs, ValidationError{"cpf", "is invalid"})
	}

	if strings.TrimSpace(in.BirthDate) == "" {
		errs = append(errs, ValidationError{"nascimento", "is required"})
	} else if !entity.IsValidDateBR(in.BirthDate) {
		errs = append(errs, ValidationError{"nascimento", "must be a valid date (DD/MM/AAAA)"})
	}

	if strings.TrimSpace(in.Gender) == "" {
		errs = append(errs, ValidationError{"genero", "is required"})
	} else if !IsValidGender(in.Gender) {
		errs = append(errs, ValidationError{"genero", "must be Feminino, Masculino or Outro"})
	}

	if strings.TrimSpace(in.Phone) == "" {
		errs = append(errs, ValidationError{"celular", "is required"})
	} else if !IsValidPhone(in.Phone) {
		errs = append(errs, ValidationError{"celular", "must have 10 or 11 digits"})
	}

	if strings.TrimSpace(in.CEP) == "" {
		errs = append(errs, ValidationError{"cep", "is required"})
	} else if !IsValidCEP(in.CEP) {
		errs = append(errs, ValidationError{"cep", "must have 8 digits"})
	}

	if strings.TrimSpace(in.Email) != "" && !IsValidEmail(in.Email) {
		errs = append(errs, ValidationError{"email", "is invalid"})
	}

	errs = append(errs, validateNewPassword("senha", in.Password, in.ConfirmPassword)...)
	return errs
}

func validateNewPassword(field, password, confirm string) []ValidationError {
	if password == "" {
		return []ValidationError{{field, "is required"}}
	}
	if !IsStrongPassword(password) {
		return []ValidationError{{field, "must have 8+ chars with upper, lower case and a digit"}}
	}
	if len(password) > maxPasswordBytes {
		return []ValidationError{{field, "must have at most 72 bytes"}}
	}
	if password != confirm {
		return []ValidationError{{"confirmarSenha", "does not match"}}
	}
	return nil
}

func (uc *PatientUseCase) Register(ctx context.Context, in RegisterPatientInput) (*PatientOutput, error) {
	if errs := ValidateRegisterPatientInput(in); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, &TechnicalError{Code: "HASH_ERROR", Message: "erro ao proteger senha", Err: err}
	}

	p := &entity.Patient{
		Name:      strings.TrimSpace(in.Name),
		CPF:       OnlyDigits(in.CPF),
		BirthDate: strings.TrimSpace(in.BirthDate),
		Gender:    NormalizeGender(in.Gender),
		Phone:     OnlyDigits(in.Phone),
		CEP:       OnlyDigits(in.CEP),
		Email:     strings.TrimSpace(in.Email),
		Password:  hash,
		CreatedAt: uc.now().UTC(),
	}

	if err := uc.Repo.Create(ctx, p); err != nil {
		if errors.Is(err, entity.ErrAlreadyExists) {
			return nil, domainError(CodeCPFAlreadyExists, "CPF já cadastrado")
		}
		return nil, storageError("erro ao salvar paciente", err)
	}

	uc.logger.Info("paciente cadastrado", zap.String("cpf", FormatCPF(p.CPF)))
	return newPatientOutput(p), nil
}

func (uc *PatientUseCase) Login(ctx context.Context, in LoginPatientInput) (*PatientOutput, error) {
	cpf := OnlyDigits(in.CPF)
	var errs []ValidationError
	if len(cpf) != 11 {
		errs = append(errs, ValidationError{"cpf", "must have 11 digits"})
	}
	if in.Password == "" {
		errs = append(errs, ValidationError{"senha", "is required"})
	}
	if len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	p, err := uc.Repo.FindByCPF(ctx, cpf)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, domainError(CodeInvalidCredentials, "CPF não cadastrado ou senha incorreta")
	}
	if err != nil {
		return nil, storageError("erro ao buscar paciente", err)
	}
	if !checkPassword(p.Password, in.Password) {
		uc.logger.Warn("login de paciente recusado", zap.String("cpf", FormatCPF(cpf)))
		return nil, domainError(CodeInvalidCredentials, "CPF não cadastrado ou senha incorreta")
	}
	return newPatientOutput(p), nil
}

func (uc *PatientUseCase) Get(ctx context.Context, cpf string) (*PatientOutput, error) {
	p, err := uc.find(ctx, cpf)
	if err != nil {
		return nil, err
	}
	return newPatientOutput(p), nil
}

func (uc *PatientUseCase) find(ctx context.Context, cpf string) (*entity.Patient, error) {
	p, err := uc.Repo.FindByCPF(ctx, OnlyDigits(cpf))
	if errors.Is(err, entity.ErrNotFound) {
		return nil, domainError(CodePatientNotFound, "paciente não encontrado")
	}
	if err != nil {
		return nil, storageError("erro ao buscar paciente", err)
	}
	return p, nil
}

func (uc *PatientUseCase) UpdateProfile(ctx context.Context, in UpdatePatientInput) (*PatientOutput, error) {
	p, err := uc.find(ctx, in.CPF)
	if err != nil {
		return nil, err
	}
	if !checkPassword(p.Password, in.CurrentPassword) {
		return nil, domainError(CodeInvalidCredentials, "senha atual incorreta")
	}

	var errs []ValidationError
	if !IsValidPhone(in.Phone) {
		errs = append(errs, ValidationError{"celular", "must have 10 or 11 digits"})
	}
	if !IsValidCEP(in.CEP) {
		errs = append(errs, ValidationError{"cep", "must have 8 digits"})
	}
	if in.NewPassword != "" {
		errs = append(errs, validateNewPassword("novaSenha", in.NewPassword, in.NewPassword)...)
	}
	if len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	p.Phone = OnlyDigits(in.Phone)
	p.CEP = OnlyDigits(in.CEP)
	if in.NewPassword != "" {
		hash, err := hashPassword(in.NewPassword)
		if err != nil {
			return nil, &TechnicalError{Code: "HASH_ERROR", Message: "erro ao proteger senha", Err: err}
		}
		p.Password = hash
	}

	if err := uc.Repo.Update(ctx, p); err != nil {
		return nil, storageError("erro ao atualizar paciente", err)
	}
	return newPatientOutput(p), nil
}

func (uc *PatientUseCase) List(ctx context.Context) ([]entity.PatientSummary, error) {
	patients, err := uc.Repo.ListAll(ctx)
	if err != nil {
		return nil, storageError("erro ao listar pacientes", err)
	}

	out := make([]entity.PatientSummary, 0, len(patients))
	for _, p := range patients {
		out = append(out, entity.PatientSummary{CPF: p.CPF, Name: p.Name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
