package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/guftaho/guftaho-server/internal/config"
	"github.com/guftaho/guftaho-server/internal/logger"
	"github.com/guftaho/guftaho-server/internal/search"
	"github.com/guftaho/guftaho-server/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.SearchIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewSearchIndex(search.Options{
		DataPath: cfg.Data.BasePath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{SearchIndex: index}, nil
}

// ProvideSearchService provides the search service.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewSearchService(indexHandle.SearchIndex, storeHandle.Store, log.Logger)

	// Wire to store for automatic indexing
	storeHandle.SetSearchIndexer(svc)

	return svc, nil
}

// TriggerSearchReindexIfNeeded rebuilds an empty index when the catalog is
// not. Happens after a mapping version bump wiped the old index.
// Should be called after all services are wired.
func TriggerSearchReindexIfNeeded(i do.Injector) {
	searchService := do.MustInvoke[*service.SearchService](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	docCount, _ := searchService.DocumentCount()
	if docCount > 0 {
		return
	}

	ctx := context.Background()
	count, err := storeHandle.CountPoets(ctx)
	if err != nil || count == 0 {
		return
	}

	log.Info("Search index is empty but the catalog is not, triggering reindex",
		"poet_count", count,
	)

	go func() {
		if err := searchService.ReindexAll(context.Background()); err != nil {
			log.Error("Initial search reindex failed", "error", err)
		} else {
			docs, _ := searchService.DocumentCount()
			log.Info("Initial search reindex completed", "documents", docs)
		}
	}()
}
