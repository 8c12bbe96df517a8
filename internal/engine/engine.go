// Package engine implements the mutation actions: every change is applied
// to the state container first, then mirrored to the remote store in the
// background on a best-effort, at-most-once basis.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/pinboard/internal/metrics"
	"github.com/mesh-intelligence/pinboard/internal/normalize"
	"github.com/mesh-intelligence/pinboard/internal/remote"
	"github.com/mesh-intelligence/pinboard/internal/store"
)

// Engine exposes the mutation actions over one Store.
//
// Methods never return errors from the cache or the remote store: the
// optimistic local state is the contract. Remote failures are logged and
// counted, never rolled back and never retried.
type Engine struct {
	store   *store.Store
	remote  remote.Remote
	log     logrus.FieldLogger
	rec     metrics.Recorder
	timeout time.Duration
	newID   func() string
	now     func() time.Time

	wg sync.WaitGroup
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for reconciliation failures.
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Engine) { e.log = log }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(e *Engine) { e.rec = rec }
}

// WithRemoteTimeout bounds every background remote call. Zero means no
// bound beyond what the remote adapter enforces.
func WithRemoteTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithIDGenerator replaces the temporary identifier source.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

// WithClock replaces the time source used for createdAt stamps.
func WithClock(fn func() time.Time) Option {
	return func(e *Engine) { e.now = fn }
}

// New returns an Engine over s. A nil r (including a nil *remote.Postgres)
// runs the engine purely locally.
func New(s *store.Store, r remote.Remote, opts ...Option) *Engine {
	if p, ok := r.(*remote.Postgres); ok && p == nil {
		r = nil
	}
	e := &Engine{
		store:  s,
		remote: r,
		log:    logrus.StandardLogger(),
		rec:    metrics.Nop{},
		newID:  generateUUID,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store returns the underlying state container.
func (e *Engine) Store() *store.Store {
	return e.store
}

// Remote reports whether a remote store is configured.
func (e *Engine) Remote() bool {
	return e.remote != nil
}

// Wait blocks until every in-flight reconciliation has finished.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// stamp returns the current time in the entity timestamp format.
func (e *Engine) stamp() string {
	return normalize.FormatTime(e.now())
}

// background runs fn against the remote store on its own goroutine. The
// caller's cancellation does not reach fn; the configured timeout does.
// Skipped entirely when no remote store is configured.
func (e *Engine) background(ctx context.Context, op string, fields logrus.Fields, fn func(ctx context.Context, r remote.Remote) error) {
	if e.remote == nil {
		e.rec.Remote(op, metrics.OutcomeSkipped)
		return
	}
	ctx = context.WithoutCancel(ctx)
	r := e.remote

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		if e.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, e.timeout)
			defer cancel()
		}

		if err := fn(ctx, r); err != nil {
			e.rec.Remote(op, metrics.OutcomeError)
			e.log.WithFields(fields).WithField("op", op).WithError(err).
				Warn("remote call failed, keeping local state")
			return
		}
		e.rec.Remote(op, metrics.OutcomeOK)
	}()
}

// generateUUID generates a UUID v7 for temporary entity IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
