// Package di provides dependency injection configuration for the OhMyReads server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/ohmyreads/ohmyreads-server/internal/auth"
	"github.com/ohmyreads/ohmyreads-server/internal/config"
	"github.com/ohmyreads/ohmyreads-server/internal/di/providers"
	"github.com/ohmyreads/ohmyreads-server/internal/logger"
	"github.com/ohmyreads/ohmyreads-server/internal/recommend"
	"github.com/ohmyreads/ohmyreads-server/internal/service"
	"github.com/ohmyreads/ohmyreads-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)
	do.Provide(injector, providers.ProvideValidator)

	// Persistence
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Recommendation providers
	do.Provide(injector, providers.ProvideCatalogClient)
	do.Provide(injector, providers.ProvideAIProvider)
	do.Provide(injector, providers.ProvideRecommendRouter)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideGoalsService)
	do.Provide(injector, providers.ProvideShelfService)
	do.Provide(injector, providers.ProvideReviewService)
	do.Provide(injector, providers.ProvideBlogService)
	do.Provide(injector, providers.ProvideProfileService)
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideConciergeService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and starts the HTTP server.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*providers.CatalogClientHandle](injector)
	_ = do.MustInvoke[*providers.AIProviderHandle](injector)
	_ = do.MustInvoke[*recommend.Router](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.GoalsService](injector)
	_ = do.MustInvoke[*service.ShelfService](injector)
	_ = do.MustInvoke[*service.ReviewService](injector)
	_ = do.MustInvoke[*service.BlogService](injector)
	_ = do.MustInvoke[*service.ProfileService](injector)
	_ = do.MustInvoke[*service.SessionService](injector)
	_ = do.MustInvoke[*service.ConciergeService](injector)

	providers.TriggerShelfReindexIfNeeded(injector)

	// Server
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}

	return nil
}
