// Команда seed наполняет каталог товаров образцами и строит для них эмбеддинги.
package main

import (
	"context"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/DRSN-tech/roomscan-backend/internal/app"
	config "github.com/DRSN-tech/roomscan-backend/internal/cfg"
	"github.com/DRSN-tech/roomscan-backend/internal/domain"
	"github.com/DRSN-tech/roomscan-backend/internal/matching"
	"github.com/DRSN-tech/roomscan-backend/internal/usecase"
	"github.com/DRSN-tech/roomscan-backend/pkg/closer"
	"github.com/DRSN-tech/roomscan-backend/pkg/logger"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCommand(logger.NewSlogLogger()).Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCommand(log logger.Logger) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "seed",
		Short:         "Roomscan catalog tools",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(catalogCommand(log), statsCommand(log))
	return rootCmd
}

func catalogCommand(log logger.Logger) *cobra.Command {
	var (
		categories []string
		dryRun     bool
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Insert the sample catalog and upsert product embeddings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, c := range categories {
				if !domain.IsSupportedCategory(c) {
					return fmt.Errorf("unknown category %q", c)
				}
			}

			products, err := buildProducts(sampleCatalog)
			if err != nil {
				return err
			}
			products = filterCategories(products, categories)

			if dryRun {
				printCounts(cmd, countByCategory(products))
				return nil
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			return withCatalog(ctx, log, func(ctx context.Context, uc *usecase.CatalogUseCase) error {
				res, err := uc.SeedCatalog(ctx, products)
				if err != nil {
					return err
				}
				log.Infof("seeded %d products, %d embeddings, categories: %v", res.Products, res.Embeddings, res.Categories)

				stats, err := uc.CategoryStats(ctx)
				if err != nil {
					return err
				}
				printCounts(cmd, stats)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&categories, "category", nil, "seed only these categories")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print what would be seeded without touching storage")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall timeout")
	return cmd
}

func statsCommand(log logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print in-stock product counts per category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			return withCatalog(ctx, log, func(ctx context.Context, uc *usecase.CatalogUseCase) error {
				stats, err := uc.CategoryStats(ctx)
				if err != nil {
					return err
				}
				printCounts(cmd, stats)
				return nil
			})
		},
	}
}

func withCatalog(ctx context.Context, log logger.Logger, fn func(context.Context, *usecase.CatalogUseCase) error) (err error) {
	cfg, err := config.LoadCatalog(log)
	if err != nil {
		return err
	}

	c := closer.NewCloser(5 * time.Second)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if closeErr := c.Close(closeCtx); closeErr != nil {
			log.Warnf("close storage: %v", closeErr)
		}
	}()

	storage, err := app.OpenStorage(ctx, cfg, log, c)
	if err != nil {
		return err
	}

	uc := usecase.NewCatalogUseCase(
		storage.Products,
		storage.Embeddings,
		storage.Cache,
		app.NewEmbedder(cfg.Matching),
		storage.TrManager,
		matching.ModelVersion,
		log,
	)

	return fn(ctx, uc)
}

func countByCategory(products []*domain.Product) map[string]int {
	counts := make(map[string]int)
	for _, p := range products {
		counts[p.Category]++
	}
	return counts
}

func printCounts(cmd *cobra.Command, counts map[string]int) {
	categories := make([]string, 0, len(counts))
	for c := range counts {
		categories = append(categories, c)
	}
	slices.Sort(categories)

	for _, c := range categories {
		fmt.Fprintf(cmd.OutOrStdout(), "%-15s %d\n", c, counts[c])
	}
}
