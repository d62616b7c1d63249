package database

import (
	"context"

	"github.com/xavierca1/clinitech/internal/entity"
	"github.com/xavierca1/clinitech/internal/infra/storage"
)

type DoctorRepository struct {
	store  storage.Store
	locker *storage.KeyLocker
}

var _ entity.DoctorRepositoryInterface = (*DoctorRepository)(nil)

func NewDoctorRepository(s storage.Store, l *storage.KeyLocker) *DoctorRepository {
	return &DoctorRepository{store: s, locker: l}
}

func (r *DoctorRepository) Create(ctx context.Context, d *entity.Doctor) error {
	key := entity.DoctorKey(d.CRM)
	unlock := r.locker.Lock(key)
	defer unlock()

	_, found, err := r.store.Get(ctx, key)
	if err != nil {
		return err
	}
	if found {
		return entity.ErrAlreadyExists
	}
	return storage.SetJSON(ctx, r.store, key, d)
}

func (r *DoctorRepository) FindByCRM(ctx context.Context, crm string) (*entity.Doctor, error) {
	var d entity.Doctor
	found, err := storage.GetJSON(ctx, r.store, entity.DoctorKey(crm), &d)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, entity.ErrNotFound
	}
	return &d, nil
}

func (r *DoctorRepository) Delete(ctx context.Context, crm string) error {
	return r.store.Remove(ctx, entity.DoctorKey(crm))
}

// AddToList appends crm to MEDICOS_LISTA unless it is already there.
func (r *DoctorRepository) AddToList(ctx context.Context, crm string) error {
	unlock := r.locker.Lock(entity.DoctorListKey)
	defer unlock()

	var list []string
	if _, err := storage.GetJSON(ctx, r.store, entity.DoctorListKey, &list); err != nil {
		return err
	}
	for _, c := range list {
		if c == crm {
			return nil
		}
	}
	return storage.SetJSON(ctx, r.store, entity.DoctorListKey, append(list, crm))
}

func (r *DoctorRepository) ListCRMs(ctx context.Context) ([]string, error) {
	list := []string{}
	if _, err := storage.GetJSON(ctx, r.store, entity.DoctorListKey, &list); err != nil {
		return nil, err
	}
	return list, nil
}
