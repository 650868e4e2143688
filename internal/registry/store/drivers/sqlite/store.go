// Package sqlite implements the asynchronous record store on an embedded
// SQLite database. All SQL runs on the store's own worker pool; callers only
// ever see promises. Blocking one of these workers on another store promise
// would starve the pool, which is why worker contexts are marked and
// asyncx.Await refuses them.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"

	"github.com/cloudfleet/clientregistry/internal/registry/store"
	"github.com/cloudfleet/clientregistry/pkg/asyncx"

	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"
)

const (
	defaultWorkers    = 4
	defaultQueueDepth = 64
)

type Store struct {
	db *sql.DB

	jobs chan func(context.Context)
	done chan struct{}
	grp  *errgroup.Group

	// mu makes enqueueing and shutdown mutually exclusive: submitters hold
	// the read side across the closed check and the send, so Close cannot
	// retire the workers between the two and strand a queued job.
	mu     sync.RWMutex
	closed bool

	closeOnce sync.Once
	closeErr  error
}

// NewStore opens the database and starts the worker pool. workers <= 0 uses
// the default pool size.
func NewStore(dsn string, workers int) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// A single writer keeps SQLite happy under concurrent saves.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	if workers <= 0 {
		workers = defaultWorkers
	}

	s := &Store{
		db:   db,
		jobs: make(chan func(context.Context), defaultQueueDepth),
		done: make(chan struct{}),
		grp:  &errgroup.Group{},
	}

	for range workers {
		s.grp.Go(s.work)
	}

	return s, nil
}

// work drains the job queue until shutdown, then finishes whatever is still
// queued so no promise is left unresolved.
func (s *Store) work() error {
	ctx := asyncx.MarkWorker(context.Background())
	for {
		select {
		case <-s.done:
			for {
				select {
				case job := <-s.jobs:
					job(ctx)
				default:
					return nil
				}
			}
		case job := <-s.jobs:
			job(ctx)
		}
	}
}

// submit queues op on the pool and returns the promise for its result. The
// caller's ctx only bounds the enqueue; once accepted, the operation runs to
// completion in the background even if the caller abandons the wait.
func submit[T any](s *Store, ctx context.Context, op func(ctx context.Context) (T, error)) *asyncx.Promise[T] {
	p := asyncx.New[T]()

	job := func(workerCtx context.Context) {
		val, err := op(workerCtx)
		if err != nil {
			p.Reject(err)
			return
		}
		p.Resolve(val)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		p.Reject(store.ErrClosed)
		return p
	}

	select {
	case <-ctx.Done():
		p.Reject(ctx.Err())
	case s.jobs <- job:
	}

	return p
}

func (s *Store) Clients() store.Clients         { return &clientsRepo{s: s} }
func (s *Store) Credentials() store.Credentials { return &credentialsRepo{s: s} }

// Ping verifies the database connection through the normal async path.
func (s *Store) Ping(ctx context.Context) *asyncx.Promise[struct{}] {
	return submit(s, ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.db.PingContext(ctx)
	})
}

// Close stops accepting work, lets queued operations finish and closes the
// database. Taking the write lock first waits out any submitter mid-enqueue,
// so every accepted job is processed by the final drain.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		close(s.done)
		_ = s.grp.Wait()
		s.closeErr = s.db.Close()
	})
	return s.closeErr
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func mapConstraint(err error) error {
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}
