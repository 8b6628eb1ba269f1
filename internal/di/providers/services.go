package providers

import (
	"github.com/samber/do/v2"

	"github.com/guftaho/guftaho-server/internal/auth"
	"github.com/guftaho/guftaho-server/internal/logger"
	"github.com/guftaho/guftaho-server/internal/service"
)

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokens, log.Logger), nil
}

// ProvidePoetService provides the poet service.
func ProvidePoetService(i do.Injector) (*service.PoetService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPoetService(storeHandle.Store, log.Logger), nil
}

// ProvideBookService provides the book service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookService(storeHandle.Store, log.Logger), nil
}

// ProvidePoemService provides the poem service.
func ProvidePoemService(i do.Injector) (*service.PoemService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPoemService(storeHandle.Store, log.Logger), nil
}

// ProvideFavoriteService provides the favorite service.
func ProvideFavoriteService(i do.Injector) (*service.FavoriteService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewFavoriteService(storeHandle.Store, log.Logger), nil
}

// ProvideReadingService provides the reading history service.
func ProvideReadingService(i do.Injector) (*service.ReadingService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewReadingService(storeHandle.Store, log.Logger), nil
}
