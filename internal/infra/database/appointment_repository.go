package database

import (
	"context"
	"fmt"

	"github.com/xavierca1/clinitech/internal/entity"
	"github.com/xavierca1/clinitech/internal/infra/storage"
)

type AppointmentRepository struct {
	store  storage.Store
	locker *storage.KeyLocker
}

var _ entity.AppointmentRepositoryInterface = (*AppointmentRepository)(nil)

func NewAppointmentRepository(s storage.Store, l *storage.KeyLocker) *AppointmentRepository {
	return &AppointmentRepository{store: s, locker: l}
}

func (r *AppointmentRepository) Append(ctx context.Context, cpf string, a *entity.Appointment) error {
	_, err := appendRecord(ctx, r.store, r.locker, entity.AppointmentKey(cpf), a)
	return err
}

func (r *AppointmentRepository) ListByCPF(ctx context.Context, cpf string) ([]*entity.Appointment, error) {
	return loadList[entity.Appointment](ctx, r.store, entity.AppointmentKey(cpf))
}

// ListAll walks every consultas_ key. Unreadable lists are skipped.
func (r *AppointmentRepository) ListAll(ctx context.Context) ([]*entity.Appointment, error) {
	cpfs, err := keysWithPrefix(ctx, r.store, entity.AppointmentKeyPrefix)
	if err != nil {
		return nil, err
	}

	all := []*entity.Appointment{}
	for _, cpf := range cpfs {
		list, err := r.ListByCPF(ctx, cpf)
		if err != nil {
			continue
		}
		for _, a := range list {
			if a.PatientCPF == "" {
				a.PatientCPF = cpf
			}
		}
		all = append(all, list...)
	}
	return all, nil
}

func (r *AppointmentRepository) Update(ctx context.Context, cpf, id string, fn func(*entity.Appointment) error) (*entity.Appointment, error) {
	var updated *entity.Appointment
	_, err := mutateList(ctx, r.store, r.locker, entity.AppointmentKey(cpf), func(list []*entity.Appointment) ([]*entity.Appointment, bool, error) {
		for _, a := range list {
			if a.ID != id {
				continue
			}
			if err := fn(a); err != nil {
				return nil, false, err
			}
			updated = a
			return list, true, nil
		}
		return nil, false, entity.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// LockSlot serializa agendamentos concorrentes no mesmo horário. O lock vale
// só dentro do processo.
func (r *AppointmentRepository) LockSlot(doctor string, day, month, year int, slot string) func() {
	return r.locker.Lock(fmt.Sprintf("slot:%s:%04d-%02d-%02d:%s", doctor, year, month, day, slot))
}
