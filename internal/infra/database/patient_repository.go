package database

import (
	"context"

	"github.com/xavierca1/clinitech/internal/entity"
	"github.com/xavierca1/clinitech/internal/infra/storage"
)

type PatientRepository struct {
	store  storage.Store
	locker *storage.KeyLocker
}

var _ entity.PatientRepositoryInterface = (*PatientRepository)(nil)

func NewPatientRepository(s storage.Store, l *storage.KeyLocker) *PatientRepository {
	return &PatientRepository{store: s, locker: l}
}

func (r *PatientRepository) Create(ctx context.Context, p *entity.Patient) error {
	key := entity.PatientKey(p.CPF)
	unlock := r.locker.Lock(key)
	defer unlock()

	_, found, err := r.store.Get(ctx, key)
	if err != nil {
		return err
	}
	if found {
		return entity.ErrAlreadyExists
	}
	return storage.SetJSON(ctx, r.store, key, p)
}

// FindByCPF tenta a chave atual e depois o formato antigo PAC_<cpf>.
func (r *PatientRepository) FindByCPF(ctx context.Context, cpf string) (*entity.Patient, error) {
	for _, key := range []string{entity.PatientKey(cpf), entity.LegacyPatientKey(cpf)} {
		var p entity.Patient
		found, err := storage.GetJSON(ctx, r.store, key, &p)
		if err != nil {
			return nil, err
		}
		if found {
			if p.CPF == "" {
				p.CPF = cpf
			}
			return &p, nil
		}
	}
	return nil, entity.ErrNotFound
}

// Update always writes the current key, migrating legacy records on first save.
func (r *PatientRepository) Update(ctx context.Context, p *entity.Patient) error {
	key := entity.PatientKey(p.CPF)
	unlock := r.locker.Lock(key)
	defer unlock()
	return storage.SetJSON(ctx, r.store, key, p)
}

func (r *PatientRepository) ListAll(ctx context.Context) ([]*entity.Patient, error) {
	keys, err := r.store.Keys(ctx)
	if err != nil {
		return nil, err
	}

	patients := []*entity.Patient{}
	for _, k := range keys {
		if !entity.IsPatientKey(k) {
			continue
		}
		var p entity.Patient
		found, err := storage.GetJSON(ctx, r.store, k, &p)
		if err != nil || !found {
			continue
		}
		if p.CPF == "" {
			p.CPF = k
		}
		patients = append(patients, &p)
	}
	return patients, nil
}
