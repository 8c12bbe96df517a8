// Engine setup shared by the pinboard commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/pinboard/internal/cache"
	"github.com/mesh-intelligence/pinboard/internal/engine"
	"github.com/mesh-intelligence/pinboard/internal/logging"
	"github.com/mesh-intelligence/pinboard/internal/metrics"
	"github.com/mesh-intelligence/pinboard/internal/notify"
	"github.com/mesh-intelligence/pinboard/internal/remote"
	"github.com/mesh-intelligence/pinboard/internal/store"
	"github.com/mesh-intelligence/pinboard/pkg/types"
)

// selectionFileName keeps the current client between invocations; the
// durable snapshot only carries the collections.
const selectionFileName = "current-client"

// app is one assembled engine plus everything it holds open.
type app struct {
	cfg    types.Config
	log    *logrus.Logger
	logs   io.Closer
	cache  cache.Cache
	pg     *remote.Postgres
	nc     *nats.Conn
	rec    *metrics.Prometheus
	store  *store.Store
	engine *engine.Engine
}

// openApp wires cache, remote, store, engine and the optional change feed.
// An unreachable remote or NATS server is logged and the app runs locally.
// The caller must defer a.Close().
func openApp(ctx context.Context) (*app, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	cfg, err := buildConfig(settings, dataDir)
	if err != nil {
		return nil, err
	}

	level := flagLogLevel
	if level == "" {
		level = settings.GetString(cfgKeyLogLevel)
	}
	logger, logs, err := logging.New(logging.Options{
		Level:  level,
		Format: settings.GetString(cfgKeyLogFormat),
		File:   settings.GetString(cfgKeyLogFile),
	})
	if err != nil {
		return nil, userError{err: err}
	}

	a := &app{cfg: cfg, log: logger, logs: logs, rec: metrics.NewPrometheus()}

	a.cache, err = cache.Open(cfg.Cache)
	if err != nil {
		logs.Close()
		return nil, fmt.Errorf("open cache: %w", err)
	}

	a.pg, err = remote.Connect(ctx, cfg.Remote)
	if err != nil {
		logger.WithError(err).Warn("remote store unreachable, working offline")
		a.pg = nil
	}

	a.store = store.New(a.cache, logger)

	a.nc, err = notify.Connect(cfg.Notify, settings.GetString(cfgKeyNATSToken))
	if err != nil {
		logger.WithError(err).Warn("change feed disabled")
		a.nc = nil
	}
	if a.nc != nil {
		notify.NewPublisher(a.nc, cfg.Notify.Subject, logger).Attach(a.store)
	}

	var r remote.Remote
	if a.pg != nil {
		r = a.pg
	}
	a.engine = engine.New(a.store, r,
		engine.WithLogger(logger),
		engine.WithRecorder(a.rec),
		engine.WithRemoteTimeout(cfg.Remote.Timeout),
	)
	a.restoreSelection()
	return a, nil
}

func (a *app) selectionPath() string {
	return filepath.Join(a.cfg.DataDir, selectionFileName)
}

// restoreSelection reselects the client saved by the previous run, if it
// still exists.
func (a *app) restoreSelection() {
	data, err := os.ReadFile(a.selectionPath())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			a.log.WithError(err).Warn("reading current client")
		}
		return
	}
	id := strings.TrimSpace(string(data))
	if _, ok := a.store.Get().FindClient(id); ok {
		a.engine.SetCurrentClientID(id)
	}
}

// saveSelection records the current client, removing the file when none is
// selected.
func (a *app) saveSelection() error {
	current := a.store.Get().CurrentClientID
	if current == nil {
		if err := os.Remove(a.selectionPath()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	}
	if err := os.MkdirAll(a.cfg.DataDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(a.selectionPath(), []byte(*current+"\n"), 0o644)
}

// Close waits for background reconciliation, then releases everything.
func (a *app) Close() error {
	a.engine.Wait()
	if err := a.saveSelection(); err != nil {
		a.log.WithError(err).Warn("saving current client")
	}

	if flagMetrics {
		if err := a.rec.WriteText(os.Stderr); err != nil {
			a.log.WithError(err).Warn("writing metrics")
		}
	}
	if a.nc != nil {
		if err := a.nc.Flush(); err != nil {
			a.log.WithError(err).Warn("flushing change feed")
		}
		a.nc.Close()
	}
	a.pg.Close()
	return errors.Join(a.cache.Close(), a.logs.Close())
}
