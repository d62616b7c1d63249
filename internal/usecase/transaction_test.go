package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestTransaction_AllSucceed(t *testing.T) {
	var calls []string
	tx := NewTransaction(zap.NewNop())
	tx.AddOperation("a", func(context.Context) error { calls = append(calls, "a"); return nil })
	tx.AddCompensation("undo a", func(context.Context) error { calls = append(calls, "undo a"); return nil })
	tx.AddOperation("b", func(context.Context) error { calls = append(calls, "b"); return nil })

	assert.NoError(t, tx.Execute(context.Background()))
	assert.Equal(t, []string{"a", "b"}, calls)
}

func TestTransaction_RollsBackInReverse(t *testing.T) {
	var calls []string
	boom := errors.New("boom")
	tx := NewTransaction(zap.NewNop())
	tx.AddOperation("a", func(context.Context) error { calls = append(calls, "a"); return nil })
	tx.AddCompensation("undo a", func(context.Context) error { calls = append(calls, "undo a"); return nil })
	tx.AddOperation("b", func(context.Context) error { calls = append(calls, "b"); return nil })
	tx.AddCompensation("undo b", func(context.Context) error { calls = append(calls, "undo b"); return errors.New("ignored") })
	tx.AddOperation("c", func(context.Context) error { return boom })

	err := tx.Execute(context.Background())

	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "operation 'c' failed")
	assert.Equal(t, []string{"a", "b", "undo b", "undo a"}, calls)
}

func TestTransaction_FirstOperationFailsNoCompensation(t *testing.T) {
	compensated := false
	tx := NewTransaction(zap.NewNop())
	tx.AddOperation("a", func(context.Context) error { return errors.New("x") })
	tx.AddCompensation("undo a", func(context.Context) error { compensated = true; return nil })

	assert.Error(t, tx.Execute(context.Background()))
	assert.False(t, compensated)
}
