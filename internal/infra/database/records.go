package database

import (
	"context"
	"strings"

	"github.com/xavierca1/clinitech/internal/infra/storage"
)

// loadList reads a JSON array key. A missing key is an empty list.
func loadList[T any](ctx context.Context, s storage.Store, key string) ([]*T, error) {
	var list []*T
	if _, err := storage.GetJSON(ctx, s, key, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []*T{}
	}
	return list, nil
}

// mutateList runs a locked read-modify-write over a JSON array key. The list
// is written back only when fn reports a change.
func mutateList[T any](ctx context.Context, s storage.Store, l *storage.KeyLocker, key string, fn func([]*T) ([]*T, bool, error)) ([]*T, error) {
	unlock := l.Lock(key)
	defer unlock()

	list, err := loadList[T](ctx, s, key)
	if err != nil {
		return nil, err
	}

	list, changed, err := fn(list)
	if err != nil {
		return nil, err
	}
	if !changed {
		return list, nil
	}

	if err := storage.SetJSON(ctx, s, key, list); err != nil {
		return nil, err
	}
	return list, nil
}

func appendRecord[T any](ctx context.Context, s storage.Store, l *storage.KeyLocker, key string, rec *T) ([]*T, error) {
	return mutateList(ctx, s, l, key, func(list []*T) ([]*T, bool, error) {
		return append(list, rec), true, nil
	})
}

// keysWithPrefix returns the stored keys starting with prefix, prefix removed.
func keysWithPrefix(ctx context.Context, s storage.Store, prefix string) ([]string, error) {
	keys, err := s.Keys(ctx)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, k := range keys {
		if strings.HasPrefix(k, prefix) && len(k) > len(prefix) {
			out = append(out, strings.TrimPrefix(k, prefix))
		}
	}
	return out, nil
}
