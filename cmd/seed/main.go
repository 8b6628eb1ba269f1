// Package main seeds the archive with a small set of classical poets,
// their collections, and sample poems. Intended for development setups.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/guftaho/guftaho-server/internal/search"
	"github.com/guftaho/guftaho-server/internal/service"
	"github.com/guftaho/guftaho-server/internal/store/sqlite"
)

type seedPoem struct {
	title   string
	content string
}

type seedBook struct {
	title       string
	description string
	poems       []seedPoem
}

type seedPoet struct {
	name      string
	biography string
	featured  bool
	books     []seedBook
}

var catalog = []seedPoet{
	{
		name:      "Абӯабдуллоҳи Рӯдакӣ",
		biography: "Асосгузори адабиёти классикии форсу тоҷик, шоири асри IX-X.",
		featured:  true,
		books: []seedBook{
			{
				title:       "Девони Рӯдакӣ",
				description: "Маҷмӯаи ашъори боқимондаи устод Рӯдакӣ.",
				poems: []seedPoem{
					{
						title: "Бӯи ҷӯи Мӯлиён",
						content: "Бӯи ҷӯи Мӯлиён ояд ҳаме,\n" +
							"Ёди ёри меҳрубон ояд ҳаме.\n" +
							"Реги Омуву дурушти роҳи ӯ,\n" +
							"Зери поям парниён ояд ҳаме.",
					},
					{
						title: "Ҳар кӣ н-омӯхт аз гузашти рӯзгор",
						content: "Ҳар кӣ н-омӯхт аз гузашти рӯзгор,\n" +
							"Низ н-омӯзад зи ҳеҷ омӯзгор.",
					},
				},
			},
		},
	},
	{
		name:      "Ҳофизи Шерозӣ",
		biography: "Ғазалсарои бузурги асри XIV, соҳиби девони машҳур.",
		featured:  true,
		books: []seedBook{
			{
				title:       "Девони Ҳофиз",
				description: "Ғазалиёти Хоҷа Ҳофизи Шерозӣ.",
				poems: []seedPoem{
					{
						title: "Агар он турки шерозӣ",
						content: "Агар он турки шерозӣ ба даст орад дили моро,\n" +
							"Ба холи ҳиндуяш бахшам Самарқанду Бухороро.",
					},
				},
			},
		},
	},
	{
		name:      "Умари Хайём",
		biography: "Шоир, риёзидон ва файласуфи асри XI-XII, машҳур бо рубоиёташ.",
		books: []seedBook{
			{
				title:       "Рубоиёт",
				description: "Рубоиёти мунтахаби Хайём.",
				poems: []seedPoem{
					{
						title: "Ин кӯза чу ман",
						content: "Ин кӯза чу ман ошиқи зоре будаст,\n" +
							"Дар банди сари зулфи нигоре будаст.\n" +
							"Ин даста, ки бар гардани ӯ мебинӣ,\n" +
							"Дастест, ки бар гардани ёре будаст.",
					},
				},
			},
		},
	},
}

func main() {
	dataPath := flag.String("data", "./data", "data directory")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := run(*dataPath, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Seed failed: %v\n", err)
		os.Exit(1)
	}
}

func run(dataPath string, logger *slog.Logger) error {
	if err := os.MkdirAll(dataPath, 0o755); err != nil {
		return err
	}

	st, err := sqlite.Open(filepath.Join(dataPath, "guftaho.db"), logger)
	if err != nil {
		return err
	}
	defer st.Close()

	index, err := search.NewSearchIndex(search.Options{DataPath: dataPath, Logger: logger})
	if err != nil {
		return err
	}
	defer index.Close()

	searchService := service.NewSearchService(index, st, logger)
	st.SetSearchIndexer(searchService)

	poets := service.NewPoetService(st, logger)
	books := service.NewBookService(st, logger)
	poems := service.NewPoemService(st, logger)

	ctx := context.Background()

	count, err := st.CountPoets(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Archive already has poets, nothing to seed", "count", count)
		return nil
	}

	for _, sp := range catalog {
		poet, err := poets.CreatePoet(ctx, service.CreatePoetRequest{
			Name:      sp.name,
			Biography: sp.biography,
			Featured:  sp.featured,
		})
		if err != nil {
			return fmt.Errorf("seed poet %q: %w", sp.name, err)
		}

		for _, sb := range sp.books {
			book, err := books.CreateBook(ctx, service.CreateBookRequest{
				Title:       sb.title,
				PoetSlug:    poet.Slug,
				Description: sb.description,
			})
			if err != nil {
				return fmt.Errorf("seed book %q: %w", sb.title, err)
			}

			for order, pp := range sb.poems {
				if _, err := poems.CreatePoem(ctx, service.CreatePoemRequest{
					Title:    pp.title,
					BookSlug: book.Slug,
					Content:  pp.content,
					Order:    order + 1,
				}); err != nil {
					return fmt.Errorf("seed poem %q: %w", pp.title, err)
				}
			}
		}

		logger.Info("Seeded poet", "name", poet.Name, "slug", poet.Slug)
	}

	docs, _ := searchService.DocumentCount()
	logger.Info("Seed completed", "search_documents", docs)

	return nil
}
