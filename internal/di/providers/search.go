package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/ohmyreads/ohmyreads-server/internal/config"
	"github.com/ohmyreads/ohmyreads-server/internal/logger"
	"github.com/ohmyreads/ohmyreads-server/internal/search"
	"github.com/ohmyreads/ohmyreads-server/internal/service"
)

// SearchIndexHandle wraps the shelf index with shutdown capability.
type SearchIndexHandle struct {
	*search.ShelfIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve shelf index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewShelfIndex(search.Options{
		DataPath: cfg.Storage.DataPath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Shelf index initialized", "documents", docCount)

	return &SearchIndexHandle{ShelfIndex: index}, nil
}

// TriggerShelfReindexIfNeeded rebuilds the shelf index in the background when
// it is empty, which happens on first start and after a mapping change.
func TriggerShelfReindexIfNeeded(i do.Injector) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	shelfService := do.MustInvoke[*service.ShelfService](i)
	log := do.MustInvoke[*logger.Logger](i)

	docCount, _ := indexHandle.DocumentCount()
	if docCount > 0 {
		return
	}

	go func() {
		count, err := shelfService.ReindexAll(context.Background())
		if err != nil {
			log.Error("Initial shelf reindex failed", "error", err)
			return
		}
		if count > 0 {
			log.Info("Initial shelf reindex completed", "documents", count)
		}
	}()
}
