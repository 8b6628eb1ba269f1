// Package di provides dependency injection configuration for the Guftaho server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/guftaho/guftaho-server/internal/auth"
	"github.com/guftaho/guftaho-server/internal/config"
	"github.com/guftaho/guftaho-server/internal/di/providers"
	"github.com/guftaho/guftaho-server/internal/logger"
	"github.com/guftaho/guftaho-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideSearchService)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvideLoginLimiter)

	// Business services
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvidePoetService)
	do.Provide(injector, providers.ProvideBookService)
	do.Provide(injector, providers.ProvidePoemService)
	do.Provide(injector, providers.ProvideFavoriteService)
	do.Provide(injector, providers.ProvideReadingService)

	// Workers
	do.Provide(injector, providers.ProvideSessionCleanupJob)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*service.SearchService](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)
	_ = do.MustInvoke[*providers.LoginLimiterHandle](injector)

	// Business services
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.PoetService](injector)
	_ = do.MustInvoke[*service.BookService](injector)
	_ = do.MustInvoke[*service.PoemService](injector)
	_ = do.MustInvoke[*service.FavoriteService](injector)
	_ = do.MustInvoke[*service.ReadingService](injector)

	// Workers
	_ = do.MustInvoke[*providers.SessionCleanupJob](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	// Trigger search reindex if needed
	providers.TriggerSearchReindexIfNeeded(injector)

	return nil
}
