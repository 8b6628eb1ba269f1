package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/guftaho/guftaho-server/internal/api"
	"github.com/guftaho/guftaho-server/internal/auth"
	"github.com/guftaho/guftaho-server/internal/config"
	"github.com/guftaho/guftaho-server/internal/logger"
	"github.com/guftaho/guftaho-server/internal/service"
)

// HTTPServerHandle wraps the HTTP server with shutdown capability.
type HTTPServerHandle struct {
	server *http.Server
	logger *logger.Logger
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	h.logger.Info("Shutting down HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return h.server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	loginLimiter := do.MustInvoke[*LoginLimiterHandle](i)

	apiServer := api.NewServer(api.Config{
		Name:            cfg.Server.Name,
		Store:           storeHandle.Store,
		Tokens:          tokens,
		AuthService:     do.MustInvoke[*service.AuthService](i),
		PoetService:     do.MustInvoke[*service.PoetService](i),
		BookService:     do.MustInvoke[*service.BookService](i),
		PoemService:     do.MustInvoke[*service.PoemService](i),
		FavoriteService: do.MustInvoke[*service.FavoriteService](i),
		ReadingService:  do.MustInvoke[*service.ReadingService](i),
		SearchService:   do.MustInvoke[*service.SearchService](i),
		LoginLimiter:    loginLimiter.KeyedRateLimiter,
		Logger:          log.Logger,
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      apiServer,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{server: httpServer, logger: log}, nil
}
