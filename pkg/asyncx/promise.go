// Package asyncx provides the single-result completion primitive used by the
// record store. Store drivers resolve a Promise from their own worker pool;
// callers wait on it with a context so every wait is cancellable.
package asyncx

import (
	"context"
	"errors"
	"sync"
)

// ErrAwaitFromWorker reports a wait issued from inside a store worker pool.
// Blocking a pool goroutine on work that needs the same pool can stall the
// whole store, so Await refuses up front instead of risking a deadlock.
var ErrAwaitFromWorker = errors.New("asyncx: await invoked from store worker")

// Promise is a write-once container for the eventual result of an
// asynchronous operation.
type Promise[T any] struct {
	done chan struct{}
	once sync.Once

	val T
	err error
}

// New returns an unresolved promise. The producer must eventually call
// Resolve or Reject exactly once; later calls are ignored.
func New[T any]() *Promise[T] {
	return &Promise[T]{done: make(chan struct{})}
}

// Resolved returns a promise already completed with val.
func Resolved[T any](val T) *Promise[T] {
	p := New[T]()
	p.Resolve(val)
	return p
}

// Rejected returns a promise already failed with err.
func Rejected[T any](err error) *Promise[T] {
	p := New[T]()
	p.Reject(err)
	return p
}

// Resolve completes the promise with a value.
func (p *Promise[T]) Resolve(val T) {
	p.once.Do(func() {
		p.val = val
		close(p.done)
	})
}

// Reject completes the promise with an error.
func (p *Promise[T]) Reject(err error) {
	p.once.Do(func() {
		p.err = err
		close(p.done)
	})
}

// Done is closed once the promise has completed either way.
func (p *Promise[T]) Done() <-chan struct{} { return p.done }

// Await blocks until the promise completes or ctx is done, whichever comes
// first. Abandoning the wait does not cancel the producing operation; its
// result is simply discarded.
func (p *Promise[T]) Await(ctx context.Context) (T, error) {
	var zero T

	if OnWorker(ctx) {
		return zero, ErrAwaitFromWorker
	}

	select {
	case <-p.done:
		return p.val, p.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

type workerKey struct{}

// MarkWorker tags ctx as belonging to a store worker goroutine. Jobs run by
// a driver's pool receive a marked context so that any nested Await fails
// fast instead of starving the pool.
func MarkWorker(ctx context.Context) context.Context {
	return context.WithValue(ctx, workerKey{}, true)
}

// OnWorker reports whether ctx originates from a store worker goroutine.
func OnWorker(ctx context.Context) bool {
	v, _ := ctx.Value(workerKey{}).(bool)
	return v
}
