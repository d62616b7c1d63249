package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/clinitech/internal/entity"
)

func TestValidateSaveInsuranceInput(t *testing.T) {
	ins, errs := ValidateSaveInsuranceInput(SaveInsuranceInput{Brand: "Outra", OtherBrand: "Cassi", Number: "1234", Holder: "Ana"})
	assert.Empty(t, errs)
	assert.Equal(t, &entity.Insurance{Brand: "Cassi", Number: "1234", Holder: "Ana"}, ins)

	_, errs = ValidateSaveInsuranceInput(SaveInsuranceInput{Brand: "Outra", Number: "12a4"})
	require.Len(t, errs, 3)
	assert.Equal(t, "bandeira", errs[0].Field)
	assert.Equal(t, "numero", errs[1].Field)
	assert.Equal(t, "nome", errs[2].Field)

	_, errs = ValidateSaveInsuranceInput(SaveInsuranceInput{Brand: "Unimed", Number: "123", Holder: "Ana"})
	assert.Len(t, errs, 1)

	ins, errs = ValidateSaveInsuranceInput(SaveInsuranceInput{Brand: "Unimed", Number: " 1234-5678 ", Holder: "Ana"})
	assert.Empty(t, errs)
	assert.Equal(t, "12345678", ins.Number)

	_, errs = ValidateSaveInsuranceInput(SaveInsuranceInput{Brand: "Unimed", Number: "1-2-3", Holder: "Ana"})
	require.Len(t, errs, 1)
	assert.Equal(t, "numero", errs[0].Field)
}

func TestInsuranceLifecycle(t *testing.T) {
	r := newRepos()
	ctx := context.Background()
	uc := NewInsuranceUseCase(r.insurance, zap.NewNop())

	_, err := uc.Get(ctx)
	assertDomainCode(t, err, CodeInsuranceNotFound)

	_, err = uc.Update(ctx, SaveInsuranceInput{Brand: "Unimed", Number: "9999", Holder: "Ana"})
	assertDomainCode(t, err, CodeInsuranceNotFound)

	_, err = uc.Save(ctx, SaveInsuranceInput{Brand: "Unimed", Number: "9999", Holder: "Ana"})
	require.NoError(t, err)

	updated, err := uc.Update(ctx, SaveInsuranceInput{Brand: "Bradesco", Number: "123456", Holder: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "Bradesco", updated.Brand)

	got, err := uc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "123456", got.Number)

	require.NoError(t, uc.Delete(ctx))
	_, err = uc.Get(ctx)
	assertDomainCode(t, err, CodeInsuranceNotFound)
}
