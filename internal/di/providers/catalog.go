package providers

import (
	"context"
	"errors"

	"github.com/samber/do/v2"

	"github.com/ohmyreads/ohmyreads-server/internal/ai/gemini"
	"github.com/ohmyreads/ohmyreads-server/internal/catalog/openlibrary"
	"github.com/ohmyreads/ohmyreads-server/internal/config"
	"github.com/ohmyreads/ohmyreads-server/internal/logger"
)

// CatalogClientHandle wraps the Open Library client with shutdown capability.
type CatalogClientHandle struct {
	*openlibrary.Client
}

// Shutdown implements do.Shutdownable.
func (h *CatalogClientHandle) Shutdown() error {
	h.Client.Close()
	return nil
}

// ProvideCatalogClient provides the Open Library client.
func ProvideCatalogClient(i do.Injector) (*CatalogClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := openlibrary.New(openlibrary.Options{
		BaseURL:        cfg.OpenLibrary.BaseURL,
		CoversURL:      cfg.OpenLibrary.CoversURL,
		RequestsPerSec: float64(cfg.OpenLibrary.RequestsPerSec),
	}, log.Logger)
	log.Info("Open Library client initialized", "base_url", cfg.OpenLibrary.BaseURL)

	return &CatalogClientHandle{Client: client}, nil
}

// AIProviderHandle holds the Gemini provider. Provider is nil when the
// provider is disabled or could not be created.
type AIProviderHandle struct {
	Provider *gemini.Provider
}

// ProvideAIProvider creates the Gemini provider when it is enabled.
// Failure is not fatal: requests fall back to the catalog.
func ProvideAIProvider(i do.Injector) (*AIProviderHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Recommendations.EnableGemini {
		log.Info("Gemini provider disabled by configuration")
		return &AIProviderHandle{}, nil
	}

	provider, err := gemini.New(context.Background(), gemini.Options{
		APIKey: cfg.Gemini.APIKey,
		Model:  cfg.Gemini.Model,
	}, log.Logger)
	if err != nil {
		if errors.Is(err, gemini.ErrNotConfigured) {
			log.Warn("Gemini enabled without GEMINI_API_KEY, using Open Library")
		} else {
			log.Warn("Gemini provider unavailable, using Open Library", "error", err)
		}
		return &AIProviderHandle{}, nil
	}

	log.Info("Gemini provider initialized", "model", cfg.Gemini.Model)
	return &AIProviderHandle{Provider: provider}, nil
}
