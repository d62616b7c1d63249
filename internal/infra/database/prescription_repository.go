package database

import (
	"context"

	"github.com/xavierca1/clinitech/internal/entity"
	"github.com/xavierca1/clinitech/internal/infra/storage"
)

type PrescriptionRepository struct {
	store  storage.Store
	locker *storage.KeyLocker
}

var _ entity.PrescriptionRepositoryInterface = (*PrescriptionRepository)(nil)

func NewPrescriptionRepository(s storage.Store, l *storage.KeyLocker) *PrescriptionRepository {
	return &PrescriptionRepository{store: s, locker: l}
}

func (r *PrescriptionRepository) Append(ctx context.Context, cpf string, p *entity.Prescription) error {
	_, err := appendRecord(ctx, r.store, r.locker, entity.PrescriptionKey(cpf), p)
	return err
}

func (r *PrescriptionRepository) ListByCPF(ctx context.Context, cpf string) ([]*entity.Prescription, error) {
	return loadList[entity.Prescription](ctx, r.store, entity.PrescriptionKey(cpf))
}
