package main

import (
	"context"
	"fmt"

	"github.com/barekit/shopqa/pkg/catalog"
	"github.com/barekit/shopqa/pkg/catalog/file"
	"github.com/barekit/shopqa/pkg/setup"
	"github.com/spf13/cobra"
)

var seedFrom string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Copy products from a YAML or JSON file into the configured SQL catalog",
	Long: `Seed loads products from a file and writes them into the configured
catalog database (sqlite, postgres, mysql or mssql). Existing rows with the
same id are replaced.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedFrom, "from", "examples/catalog/products.yaml", "product file to seed from")
	rootCmd.AddCommand(seedCmd)
}

type productWriter interface {
	Save(ctx context.Context, products []catalog.Product) error
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	src, err := file.Load(seedFrom)
	if err != nil {
		return err
	}
	products, err := src.Products(ctx)
	if err != nil {
		return err
	}

	dst, err := setup.NewCatalog(ctx, cfg.Catalog)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer closeAll(ctx, dst)

	w, ok := dst.(productWriter)
	if !ok {
		return fmt.Errorf("catalog type %q does not support seeding", cfg.Catalog.Type)
	}
	if err := w.Save(ctx, products); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}

	logger.Info("catalog seeded", "type", cfg.Catalog.Type, "products", len(products))
	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d products\n", len(products))
	return nil
}
