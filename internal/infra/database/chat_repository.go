package database

import (
	"context"

	"github.com/xavierca1/clinitech/internal/entity"
	"github.com/xavierca1/clinitech/internal/infra/storage"
)

// ChatRepository guarda cada conversa como um array sob chat:<med>:<pac>.
type ChatRepository struct {
	store  storage.Store
	locker *storage.KeyLocker
}

var _ entity.ChatRepositoryInterface = (*ChatRepository)(nil)

func NewChatRepository(s storage.Store, l *storage.KeyLocker) *ChatRepository {
	return &ChatRepository{store: s, locker: l}
}

func (r *ChatRepository) Get(ctx context.Context, doctorID, patientID string) ([]*entity.Message, error) {
	return r.GetByKey(ctx, entity.ChatKey(doctorID, patientID))
}

func (r *ChatRepository) GetByKey(ctx context.Context, key string) ([]*entity.Message, error) {
	return loadList[entity.Message](ctx, r.store, key)
}

func (r *ChatRepository) Save(ctx context.Context, doctorID, patientID string, msgs []*entity.Message) error {
	key := entity.ChatKey(doctorID, patientID)
	unlock := r.locker.Lock(key)
	defer unlock()
	if msgs == nil {
		msgs = []*entity.Message{}
	}
	return storage.SetJSON(ctx, r.store, key, msgs)
}

func (r *ChatRepository) Append(ctx context.Context, doctorID, patientID string, msg *entity.Message) ([]*entity.Message, error) {
	return appendRecord(ctx, r.store, r.locker, entity.ChatKey(doctorID, patientID), msg)
}

func (r *ChatRepository) Clear(ctx context.Context, doctorID, patientID string) error {
	return r.store.Remove(ctx, entity.ChatKey(doctorID, patientID))
}

func (r *ChatRepository) Update(ctx context.Context, doctorID, patientID string, fn func([]*entity.Message) bool) ([]*entity.Message, error) {
	return mutateList(ctx, r.store, r.locker, entity.ChatKey(doctorID, patientID), func(list []*entity.Message) ([]*entity.Message, bool, error) {
		return list, fn(list), nil
	})
}

func (r *ChatRepository) ListKeys(ctx context.Context) ([]string, error) {
	keys, err := r.store.Keys(ctx)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, k := range keys {
		if _, _, ok := entity.ParseChatKey(k); ok {
			out = append(out, k)
		}
	}
	return out, nil
}
