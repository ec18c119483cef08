package providers

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"

	"github.com/ohmyreads/ohmyreads-server/internal/auth"
	"github.com/ohmyreads/ohmyreads-server/internal/config"
	"github.com/ohmyreads/ohmyreads-server/internal/domain"
	"github.com/ohmyreads/ohmyreads-server/internal/logger"
	"github.com/ohmyreads/ohmyreads-server/internal/recommend"
	"github.com/ohmyreads/ohmyreads-server/internal/service"
	"github.com/ohmyreads/ohmyreads-server/internal/validation"
)

// ProvideValidator provides the request validator.
func ProvideValidator(_ do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideRecommendRouter provides the recommendation source router.
func ProvideRecommendRouter(i do.Injector) (*recommend.Router, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	catalog := do.MustInvoke[*CatalogClientHandle](i)
	ai := do.MustInvoke[*AIProviderHandle](i)

	// A nil *gemini.Provider must reach the router as a nil interface.
	var provider recommend.Provider
	if ai.Provider != nil {
		provider = ai.Provider
	}

	router := recommend.NewRouter(recommend.Options{
		Source:   recommend.Source(cfg.Recommendations.Source),
		EnableAI: cfg.Recommendations.EnableGemini,
		Premium:  cfg.Recommendations.EnablePremium,
	}, provider, catalog.Client, log.Logger)

	log.Info("Recommendation router initialized",
		"source", router.Source(),
		"ai_available", provider != nil,
	)

	return router, nil
}

// ProvideGoalsService provides the reading goals service.
func ProvideGoalsService(i do.Injector) (*service.GoalsService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewGoalsService(storeHandle.Store, v, service.GoalsOptions{
		Location:     cfg.Goals.Location(),
		PagesPerDay:  cfg.Goals.DefaultPagesPerDay,
		BooksPerYear: cfg.Goals.DefaultBooksPerYr,
	}, log.Logger), nil
}

// ProvideShelfService provides the shelf service.
func ProvideShelfService(i do.Injector) (*service.ShelfService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	goalsService := do.MustInvoke[*service.GoalsService](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewShelfService(storeHandle.Store, goalsService, indexHandle.ShelfIndex, v, log.Logger), nil
}

// ProvideReviewService provides the review service.
func ProvideReviewService(i do.Injector) (*service.ReviewService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewReviewService(storeHandle.Store, v, log.Logger), nil
}

// ProvideBlogService provides the blog service.
func ProvideBlogService(i do.Injector) (*service.BlogService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBlogService(storeHandle.Store, v, log.Logger), nil
}

// ProvideProfileService provides profile statistics.
func ProvideProfileService(i do.Injector) (*service.ProfileService, error) {
	return service.NewProfileService(
		do.MustInvoke[*service.GoalsService](i),
		do.MustInvoke[*service.ReviewService](i),
		do.MustInvoke[*service.ShelfService](i),
	), nil
}

// ProvideSessionService provides the session service and provisions the
// configured admin account.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	sessions := service.NewSessionService(storeHandle.Store, tokenService, v, log.Logger)

	if cfg.Auth.AdminPassword == "" {
		log.Warn("ADMIN_PASSWORD not set, no admin account provisioned", "admin_name", cfg.Auth.AdminName)
		return sessions, nil
	}
	if _, err := sessions.EnsureAdmin(context.Background(), cfg.Auth.AdminName, cfg.Auth.AdminPassword); err != nil {
		return nil, fmt.Errorf("provision admin %q: %w", cfg.Auth.AdminName, err)
	}

	return sessions, nil
}

// ProvideConciergeService provides the book concierge.
func ProvideConciergeService(i do.Injector) (*service.ConciergeService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	catalog := do.MustInvoke[*CatalogClientHandle](i)
	ai := do.MustInvoke[*AIProviderHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	var chatter service.Chatter
	if ai.Provider != nil {
		chatter = ai.Provider
	}

	return service.NewConciergeService(chatter, catalog.Client, service.ConciergeOptions{
		UseAI:      cfg.Recommendations.AIEnabled(),
		AISource:   domain.Source{Name: "Gemini AI", IsAI: true, Badge: "AI-Curated"},
		RuleSource: domain.Source{Name: catalog.Name(), IsAI: false},
	}, log.Logger), nil
}
