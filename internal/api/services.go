package api

import (
	"github.com/ohmyreads/ohmyreads-server/internal/recommend"
	"github.com/ohmyreads/ohmyreads-server/internal/service"
)

// Services groups all business logic services used by the API server.
type Services struct {
	Session   *service.SessionService
	Goals     *service.GoalsService
	Shelf     *service.ShelfService
	Reviews   *service.ReviewService
	Blog      *service.BlogService
	Profile   *service.ProfileService
	Concierge *service.ConciergeService
	Recommend *recommend.Router
}
