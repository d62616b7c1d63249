package database

import (
	"context"

	"github.com/xavierca1/clinitech/internal/entity"
	"github.com/xavierca1/clinitech/internal/infra/storage"
)

type ExamRepository struct {
	store  storage.Store
	locker *storage.KeyLocker
}

var _ entity.ExamRepositoryInterface = (*ExamRepository)(nil)

func NewExamRepository(s storage.Store, l *storage.KeyLocker) *ExamRepository {
	return &ExamRepository{store: s, locker: l}
}

func (r *ExamRepository) Append(ctx context.Context, cpf string, exam *entity.Exam) error {
	_, err := appendRecord(ctx, r.store, r.locker, entity.ExamKey(cpf), exam)
	return err
}

func (r *ExamRepository) ListByCPF(ctx context.Context, cpf string) ([]*entity.Exam, error) {
	return loadList[entity.Exam](ctx, r.store, entity.ExamKey(cpf))
}

// Update applies fn to the exam with examID. fn errors abort without writing.
func (r *ExamRepository) Update(ctx context.Context, cpf, examID string, fn func(*entity.Exam) error) (*entity.Exam, error) {
	var updated *entity.Exam
	_, err := mutateList(ctx, r.store, r.locker, entity.ExamKey(cpf), func(list []*entity.Exam) ([]*entity.Exam, bool, error) {
		for _, e := range list {
			if e.ID != examID {
				continue
			}
			if err := fn(e); err != nil {
				return nil, false, err
			}
			updated = e
			return list, true, nil
		}
		return nil, false, entity.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *ExamRepository) ListCPFs(ctx context.Context) ([]string, error) {
	return keysWithPrefix(ctx, r.store, entity.ExamKeyPrefix)
}

func (r *ExamRepository) UpdateEach(ctx context.Context, cpf string, fn func(*entity.Exam) bool) (int, error) {
	changed := 0
	_, err := mutateList(ctx, r.store, r.locker, entity.ExamKey(cpf), func(list []*entity.Exam) ([]*entity.Exam, bool, error) {
		for _, e := range list {
			if fn(e) {
				changed++
			}
		}
		return list, changed > 0, nil
	})
	if err != nil {
		return 0, err
	}
	return changed, nil
}
