package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/clinitech/internal/entity"
)

type RegisterDoctorInput struct {
	Name              string `json:"nome"`
	BirthDate         string `json:"nascimento"`
	Gender            string `json:"genero"`
	CRM               string `json:"crm"`
	CEP               string `json:"cep"`
	Phone             string `json:"telefone"`
	Password          string `json:"senha"`
	ConfirmPassword   string `json:"confirmarSenha"`
	RegistrationToken string `json:"tokenCadastro"`
}

type LoginDoctorInput struct {
	CRM      string `json:"crm"`
	Password string `json:"senha"`
}

type DoctorOutput struct {
	Name        string    `json:"nome"`
	DisplayName string    `json:"nomeExibicao"`
	BirthDate   string    `json:"nascimento"`
	Gender      string    `json:"genero"`
	CRM         string    `json:"crm"`
	CEP         string    `json:"cep"`
	Phone       string    `json:"telefone"`
	CreatedAt   time.Time `json:"criadoEm"`
}

func newDoctorOutput(d *entity.Doctor) *DoctorOutput {
	return &DoctorOutput{
		Name:        d.Name,
		DisplayName: d.DisplayName(),
		BirthDate:   d.BirthDate,
		Gender:      d.Gender,
		CRM:         d.CRM,
		CEP:         d.CEP,
		Phone:       d.Phone,
		CreatedAt:   d.CreatedAt,
	}
}

type DoctorUseCase struct {
	Repo              entity.DoctorRepositoryInterface
	registrationToken string
	logger            *zap.Logger
	now               Clock
}

// NewDoctorUseCase: an empty registrationToken leaves registration open.
func NewDoctorUseCase(repo entity.DoctorRepositoryInterface, registrationToken string, logger *zap.Logger) *DoctorUseCase {
	return &DoctorUseCase{
		Repo:              repo,
		registrationToken: registrationToken,
		logger:            logger,
		now:               time.Now,
	}
}

func ValidateRegisterDoctorInput(in RegisterDoctorInput) []ValidationError {
	var errs []ValidationError

	errs = required(errs, "nome", in.Name)

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

	if OnlyDigits(in.CRM) == "" {
		errs = append(errs, ValidationError{"crm", "is required"})
	} else if !IsValidCRM(OnlyDigits(in.CRM)) {
		errs = append(errs, ValidationError{"crm", "must have 4 to 7 digits"})
	}

	if OnlyDigits(in.CEP) == "" {
		errs = append(errs, ValidationError{"cep", "is required"})
	} else if !IsValidCEP(in.CEP) {
		errs = append(errs, ValidationError{"cep", "must have 8 digits"})
	}

	if OnlyDigits(in.Phone) == "" {
		errs = append(errs, ValidationError{"telefone", "is required"})
	} else if !IsValidPhone(in.Phone) {
		errs = append(errs, ValidationError{"telefone", "must have 10 or 11 digits"})
	}

	errs = append(errs, validateNewPassword("senha", in.Password, in.ConfirmPassword)...)
	return errs
}

// VerifyRegistrationToken reports whether token unlocks doctor registration.
func (uc *DoctorUseCase) VerifyRegistrationToken(token string) bool {
	if uc.registrationToken == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(uc.registrationToken), []byte(token)) == 1
}

// Register grava MED_<crm> e depois inclui o CRM em MEDICOS_LISTA. Se a
// lista falhar, o registro do médico é removido.
func (uc *DoctorUseCase) Register(ctx context.Context, in RegisterDoctorInput) (*DoctorOutput, error) {
	// Login compara a senha sem espaços nas pontas.
	in.Password = strings.TrimSpace(in.Password)
	in.ConfirmPassword = strings.TrimSpace(in.ConfirmPassword)

	if !uc.VerifyRegistrationToken(in.RegistrationToken) {
		return nil, domainError(CodeInvalidRegToken, "senha de cadastro inválida")
	}
	if errs := ValidateRegisterDoctorInput(in); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, &TechnicalError{Code: "HASH_ERROR", Message: "erro ao proteger senha", Err: err}
	}

	d := &entity.Doctor{
		Name:      strings.TrimSpace(in.Name),
		BirthDate: strings.TrimSpace(in.BirthDate),
		Gender:    NormalizeGender(in.Gender),
		CRM:       OnlyDigits(in.CRM),
		CEP:       OnlyDigits(in.CEP),
		Phone:     OnlyDigits(in.Phone),
		Password:  hash,
		CreatedAt: uc.now().UTC(),
	}

	tx := NewTransaction(uc.logger)
	tx.AddOperation("create_doctor", func(ctx context.Context) error {
		return uc.Repo.Create(ctx, d)
	})
	tx.AddCompensation("delete_doctor", func(ctx context.Context) error {
		return uc.Repo.Delete(ctx, d.CRM)
	})
	tx.AddOperation("add_to_doctor_list", func(ctx context.Context) error {
		return uc.Repo.AddToList(ctx, d.CRM)
	})

	if err := tx.Execute(ctx); err != nil {
		if errors.Is(err, entity.ErrAlreadyExists) {
			return nil, domainError(CodeCRMAlreadyExists, "CRM já cadastrado")
		}
		return nil, storageError("erro ao salvar médico", err)
	}

	uc.logger.Info("médico cadastrado", zap.String("crm", d.CRM))
	return newDoctorOutput(d), nil
}

func (uc *DoctorUseCase) Login(ctx context.Context, in LoginDoctorInput) (*DoctorOutput, error) {
	crm := OnlyDigits(in.CRM)
	password := strings.TrimSpace(in.Password)

	var errs []ValidationError
	if !IsValidCRM(crm) {
		errs = append(errs, ValidationError{"crm", "must have 4 to 7 digits"})
	}
	if password == "" {
		errs = append(errs, ValidationError{"senha", "is required"})
	}
	if len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	d, err := uc.Repo.FindByCRM(ctx, crm)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, domainError(CodeInvalidCredentials, "CRM não cadastrado ou senha incorreta")
	}
	if err != nil {
		return nil, storageError("erro ao buscar médico", err)
	}
	if !checkPassword(d.Password, password) {
		uc.logger.Warn("login de médico recusado", zap.String("crm", crm))
		return nil, domainError(CodeInvalidCredentials, "CRM não cadastrado ou senha incorreta")
	}
	return newDoctorOutput(d), nil
}

func (uc *DoctorUseCase) Get(ctx context.Context, crm string) (*DoctorOutput, error) {
	d, err := uc.find(ctx, crm)
	if err != nil {
		return nil, err
	}
	return newDoctorOutput(d), nil
}

func (uc *DoctorUseCase) find(ctx context.Context, crm string) (*entity.Doctor, error) {
	d, err := uc.Repo.FindByCRM(ctx, OnlyDigits(crm))
	if errors.Is(err, entity.ErrNotFound) {
		return nil, domainError(CodeDoctorNotFound, "médico não encontrado")
	}
	if err != nil {
		return nil, storageError("erro ao buscar médico", err)
	}
	return d, nil
}

// List resolves MEDICOS_LISTA in order, skipping CRMs whose record is gone.
func (uc *DoctorUseCase) List(ctx context.Context) ([]*DoctorOutput, error) {
	crms, err := uc.Repo.ListCRMs(ctx)
	if err != nil {
		return nil, storageError("erro ao listar médicos", err)
	}

	out := make([]*DoctorOutput, 0, len(crms))
	for _, crm := range crms {
		d, err := uc.Repo.FindByCRM(ctx, crm)
		if err != nil {
			if !errors.Is(err, entity.ErrNotFound) {
				uc.logger.Warn("registro de médico ilegível", zap.String("crm", crm), zap.Error(err))
			}
			continue
		}
		out = append(out, newDoctorOutput(d))
	}
	return out, nil
}
