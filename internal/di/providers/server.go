package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/ohmyreads/ohmyreads-server/internal/api"
	"github.com/ohmyreads/ohmyreads-server/internal/auth"
	"github.com/ohmyreads/ohmyreads-server/internal/config"
	"github.com/ohmyreads/ohmyreads-server/internal/logger"
	"github.com/ohmyreads/ohmyreads-server/internal/recommend"
	"github.com/ohmyreads/ohmyreads-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	handler *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := h.Server.Shutdown(ctx)
	h.handler.Close()
	return err
}

// ProvideHTTPServer builds the API handler and starts listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)

	services := &api.Services{
		Session:   do.MustInvoke[*service.SessionService](i),
		Goals:     do.MustInvoke[*service.GoalsService](i),
		Shelf:     do.MustInvoke[*service.ShelfService](i),
		Reviews:   do.MustInvoke[*service.ReviewService](i),
		Blog:      do.MustInvoke[*service.BlogService](i),
		Profile:   do.MustInvoke[*service.ProfileService](i),
		Concierge: do.MustInvoke[*service.ConciergeService](i),
		Recommend: do.MustInvoke[*recommend.Router](i),
	}

	handler := api.NewServer(storeHandle.Store, indexHandle.ShelfIndex, services, tokenService, api.Options{
		CORSOrigins: cfg.Server.CORSOrigins,
		TrustProxy:  cfg.Server.TrustProxy,
	}, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv, handler: handler}, nil
}
