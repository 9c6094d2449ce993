// Package commands holds the contenthub subcommands.
package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nhle/content-hub/internal/checkpoint"
	"github.com/nhle/content-hub/internal/concept"
	"github.com/nhle/content-hub/internal/credential"
	"github.com/nhle/content-hub/internal/logging"
	"github.com/nhle/content-hub/internal/model"
	"github.com/nhle/content-hub/internal/store"
)

var (
	// ConfigPath is the configuration file read by every command.
	ConfigPath = model.DefaultConfigPath()

	// Verbose forces debug logging regardless of log.mode.
	Verbose bool
)

// runtime is everything a command needs to talk to the stores.
type runtime struct {
	cfg     *model.AppConfig
	log     *logging.Logger
	svc     *concept.Service
	closers []func() error
}

// openRuntime loads the config and opens the document store, the local
// checkpoint storage and the concept service on top of them.
func openRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := model.LoadConfig(ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	mode := cfg.Log.Mode
	if Verbose {
		mode = "dev"
	}
	log, err := logging.New(mode)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	rt := &runtime{cfg: cfg, log: log}

	docs, err := rt.openDocumentStore(ctx)
	if err != nil {
		rt.Close()
		return nil, err
	}

	local, err := openSQLite(cfg.Local.Path)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to open local storage: %w", err)
	}
	rt.closers = append(rt.closers, local.Close)

	rt.svc = concept.NewService(docs, checkpoint.New(local, log), concept.Options{
		Timeout:  cfg.Store.Timeout(),
		CacheTTL: cfg.Cache.TTL(),
		Logger:   log,
	})
	return rt, nil
}

func (rt *runtime) openDocumentStore(ctx context.Context) (store.DocumentStore, error) {
	switch rt.cfg.Store.Driver {
	case model.DriverMongo:
		uri, err := credential.ResolveMongoURI(rt.cfg.Store.MongoURI)
		if err != nil {
			return nil, err
		}
		connectCtx, cancel := context.WithTimeout(ctx, rt.cfg.Store.Timeout())
		defer cancel()

		m, err := store.NewMongoStore(connectCtx, uri, rt.cfg.Store.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		rt.closers = append(rt.closers, m.Close)
		if err := m.EnsureIndexes(connectCtx); err != nil {
			rt.log.Warn("creating indexes failed", "error", err)
		}
		rt.log.Debug("document store opened", "driver", "mongo", "database", rt.cfg.Store.Database)
		return m, nil
	default:
		s, err := openSQLite(rt.cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open document store: %w", err)
		}
		rt.closers = append(rt.closers, s.Close)
		rt.log.Debug("document store opened", "driver", "sqlite", "path", rt.cfg.Store.Path)
		return s, nil
	}
}

// Close releases every opened store in reverse order.
func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			rt.log.Warn("closing store failed", "error", err)
		}
	}
	rt.closers = nil
	rt.log.Sync()
}

func openSQLite(path string) (*store.SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating directory for %s: %w", path, err)
	}
	return store.NewSQLiteStore(path)
}

// withRuntime opens the runtime for the duration of fn.
func withRuntime(ctx context.Context, fn func(rt *runtime) error) error {
	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()
	return fn(rt)
}
