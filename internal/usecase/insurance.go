package usecase

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/clinitech/internal/entity"
)

const otherBrand = "Outra"

type SaveInsuranceInput struct {
	Brand      string `json:"bandeira"`
	OtherBrand string `json:"bandeiraOutra"`
	Number     string `json:"numero"`
	Holder     string `json:"nome"`
}

type InsuranceUseCase struct {
	Repo   entity.InsuranceRepositoryInterface
	logger *zap.Logger
}

func NewInsuranceUseCase(repo entity.InsuranceRepositoryInterface, logger *zap.Logger) *InsuranceUseCase {
	return &InsuranceUseCase{Repo: repo, logger: logger}
}

func ValidateSaveInsuranceInput(in SaveInsuranceInput) (*entity.Insurance, []ValidationError) {
	var errs []ValidationError

	brand := strings.TrimSpace(in.Brand)
	if brand == otherBrand {
		brand = strings.TrimSpace(in.OtherBrand)
	}
	if brand == "" {
		errs = append(errs, ValidationError{"bandeira", "is required"})
	}

	number := OnlyDigits(in.Number)
	if strings.TrimSpace(in.Number) == "" {
		errs = append(errs, ValidationError{"numero", "is required"})
	} else if len(number) < 4 {
		errs = append(errs, ValidationError{"numero", "must have at least 4 digits"})
	}

	errs = required(errs, "nome", in.Holder)

	return &entity.Insurance{Brand: brand, Number: number, Holder: strings.TrimSpace(in.Holder)}, errs
}

func (uc *InsuranceUseCase) Get(ctx context.Context) (*entity.Insurance, error) {
	ins, err := uc.Repo.Get(ctx)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, domainError(CodeInsuranceNotFound, "nenhum convênio cadastrado")
	}
	if err != nil {
		return nil, storageError("erro ao ler convênio", err)
	}
	return ins, nil
}

func (uc *InsuranceUseCase) Save(ctx context.Context, in SaveInsuranceInput) (*entity.Insurance, error) {
	ins, errs := ValidateSaveInsuranceInput(in)
	if len(errs) > 0 {
		return nil, validationFailed(errs)
	}
	if err := uc.Repo.Save(ctx, ins); err != nil {
		return nil, storageError("erro ao salvar convênio", err)
	}
	uc.logger.Info("convênio salvo", zap.String("bandeira", ins.Brand))
	return ins, nil
}

// Update requires an existing record.
func (uc *InsuranceUseCase) Update(ctx context.Context, in SaveInsuranceInput) (*entity.Insurance, error) {
	if _, err := uc.Get(ctx); err != nil {
		return nil, err
	}
	return uc.Save(ctx, in)
}

func (uc *InsuranceUseCase) Delete(ctx context.Context) error {
	if err := uc.Repo.Delete(ctx); err != nil {
		return storageError("erro ao remover convênio", err)
	}
	return nil
}
