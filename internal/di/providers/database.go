package providers

import (
	"fmt"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/ohmyreads/ohmyreads-server/internal/config"
	"github.com/ohmyreads/ohmyreads-server/internal/logger"
	"github.com/ohmyreads/ohmyreads-server/internal/store"
	"github.com/ohmyreads/ohmyreads-server/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore opens the configured key-value backend.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	var (
		kv   store.KV
		path string
		err  error
	)
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		path = filepath.Join(cfg.Storage.DataPath, "ohmyreads.db")
		kv, err = sqlite.Open(path, log.Logger)
	case config.BackendBadger, "":
		path = filepath.Join(cfg.Storage.DataPath, "db")
		kv, err = store.OpenBadger(path, log.Logger)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Storage.Backend)
	}
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "backend", cfg.Storage.Backend, "path", path)

	return &StoreHandle{Store: store.New(kv, log.Logger)}, nil
}
