package database

import (
	"context"

	"github.com/xavierca1/clinitech/internal/entity"
	"github.com/xavierca1/clinitech/internal/infra/storage"
)

type InsuranceRepository struct {
	store storage.Store
}

var _ entity.InsuranceRepositoryInterface = (*InsuranceRepository)(nil)

func NewInsuranceRepository(s storage.Store) *InsuranceRepository {
	return &InsuranceRepository{store: s}
}

func (r *InsuranceRepository) Get(ctx context.Context) (*entity.Insurance, error) {
	var ins entity.Insurance
	found, err := storage.GetJSON(ctx, r.store, entity.InsuranceKey, &ins)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, entity.ErrNotFound
	}
	return &ins, nil
}

func (r *InsuranceRepository) Save(ctx context.Context, ins *entity.Insurance) error {
	return storage.SetJSON(ctx, r.store, entity.InsuranceKey, ins)
}

func (r *InsuranceRepository) Delete(ctx context.Context) error {
	return r.store.Remove(ctx, entity.InsuranceKey)
}
