package storage

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetMissingKey(t *testing.T) {
	s := NewMemoryStore()

	v, found, err := s.Get(context.Background(), "nope")

	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, v)
}

func TestMemoryStore_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Set(ctx, "MED_1234", []byte(`{"crm":"1234"}`)))
	v, found, err := s.Get(ctx, "MED_1234")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"crm":"1234"}`, string(v))

	require.NoError(t, s.Remove(ctx, "MED_1234"))
	_, found, err = s.Get(ctx, "MED_1234")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStore_KeysSorted(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for _, k := range []string{"b", "a", "chat:1:2"} {
		require.NoError(t, s.Set(ctx, k, []byte(`1`)))
	}

	keys, err := s.Keys(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "chat:1:2"}, keys)
}

func TestMemoryStore_ValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	buf := []byte(`"x"`)
	require.NoError(t, s.Set(ctx, "k", buf))
	buf[1] = 'y'

	v, _, _ := s.Get(ctx, "k")
	assert.Equal(t, `"x"`, string(v))
}

func TestGetJSON_SetJSON(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var missing []string
	found, err := GetJSON(ctx, s, "MEDICOS_LISTA", &missing)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, s, "MEDICOS_LISTA", []string{"1234", "56789"}))

	var list []string
	found, err = GetJSON(ctx, s, "MEDICOS_LISTA", &list)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"1234", "56789"}, list)
}

func TestGetJSON_CorruptValue(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "EXA_1", []byte(`{broken`)))

	var out []map[string]interface{}
	found, err := GetJSON(ctx, s, "EXA_1", &out)

	assert.True(t, found)
	assert.Error(t, err)
}

func TestKeyLocker_SerializesAppends(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	locker := NewKeyLocker()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			unlock := locker.Lock("list")
			defer unlock()

			var list []int
			_, err := GetJSON(ctx, s, "list", &list)
			require.NoError(t, err)
			list = append(list, i)
			require.NoError(t, SetJSON(ctx, s, "list", list))
		}(i)
	}
	wg.Wait()

	var list []int
	_, err := GetJSON(ctx, s, "list", &list)
	require.NoError(t, err)
	assert.Len(t, list, 50)
	assert.Empty(t, locker.locks)
}
