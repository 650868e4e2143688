package asyncx

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPromiseResolve(t *testing.T) {
	t.Parallel()

	p := New[int]()
	go p.Resolve(42)

	val, err := p.Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, 42, val)
}

func TestPromiseReject(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	p := Rejected[string](boom)

	_, err := p.Await(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestPromiseCompletesOnlyOnce(t *testing.T) {
	t.Parallel()

	p := New[int]()
	p.Resolve(1)
	p.Resolve(2)
	p.Reject(errors.New("late"))

	val, err := p.Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, val)
}

func TestAwaitHonoursDeadline(t *testing.T) {
	t.Parallel()

	p := New[int]() // never resolved

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.Await(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAwaitAbandonedResultDiscarded(t *testing.T) {
	t.Parallel()

	p := New[int]()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Await(ctx)
	require.ErrorIs(t, err, context.Canceled)

	// The producer may still complete afterwards; a later wait sees it.
	p.Resolve(7)
	val, err := p.Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, 7, val)
}

func TestAwaitRefusedOnWorkerContext(t *testing.T) {
	t.Parallel()

	p := Resolved(1)
	ctx := MarkWorker(context.Background())

	require.True(t, OnWorker(ctx))
	_, err := p.Await(ctx)
	require.ErrorIs(t, err, ErrAwaitFromWorker)
}
