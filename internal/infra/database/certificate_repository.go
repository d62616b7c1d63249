package database

import (
	"context"

	"github.com/xavierca1/clinitech/internal/entity"
	"github.com/xavierca1/clinitech/internal/infra/storage"
)

type CertificateRepository struct {
	store  storage.Store
	locker *storage.KeyLocker
}

var _ entity.CertificateRepositoryInterface = (*CertificateRepository)(nil)

func NewCertificateRepository(s storage.Store, l *storage.KeyLocker) *CertificateRepository {
	return &CertificateRepository{store: s, locker: l}
}

func (r *CertificateRepository) Append(ctx context.Context, cpf string, c *entity.Certificate) error {
	_, err := appendRecord(ctx, r.store, r.locker, entity.CertificateKey(cpf), c)
	return err
}

func (r *CertificateRepository) ListByCPF(ctx context.Context, cpf string) ([]*entity.Certificate, error) {
	return loadList[entity.Certificate](ctx, r.store, entity.CertificateKey(cpf))
}
