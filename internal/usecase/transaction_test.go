package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransaction_CompensatesInReverseOrder(t *testing.T) {
	var trail []string
	record := func(s string) func(context.Context) error {
		return func(context.Context) error { trail = append(trail, s); return nil }
	}

	txn := NewTransaction()
	txn.AddStep("a", record("do a"), record("undo a"))
	txn.AddStep("b", record("do b"), nil)
	txn.AddStep("c", record("do c"), record("undo c"))
	txn.AddStep("d", func(context.Context) error { return errors.New("boom") }, record("undo d"))

	err := txn.Execute(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "operation 'd' failed")
	assert.Equal(t, []string{"do a", "do b", "do c", "undo c", "undo a"}, trail)
}

func TestTransaction_Success(t *testing.T) {
	calls := 0
	txn := NewTransaction()
	txn.AddStep("only", func(context.Context) error { calls++; return nil }, func(context.Context) error { t.Fatal("no rollback"); return nil })

	assert.NoError(t, txn.Execute(context.Background()))
	assert.Equal(t, 1, calls)
}
