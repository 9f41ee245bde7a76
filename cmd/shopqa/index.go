package main

import (
	"fmt"
	"os"

	"github.com/barekit/shopqa/pkg/knowledge"
	"github.com/barekit/shopqa/pkg/setup"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var noProgress bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Embed every catalog product and upsert it into the vector index",
	Long: `Index reads the configured catalog, creates the vector index if it does
not exist yet (waiting until the service reports it ready), and upserts one
entry per product. Re-running it overwrites entries in place.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable the progress bar")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	source, err := setup.NewCatalog(ctx, cfg.Catalog)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer closeAll(ctx, source)

	index, err := setup.NewVectorIndex(cfg.VectorIndex)
	if err != nil {
		return fmt.Errorf("failed to open vector index: %w", err)
	}
	defer closeAll(ctx, index)

	products, err := source.Products(ctx)
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}
	logger.Info("catalog loaded", "type", cfg.Catalog.Type, "products", len(products))

	opts := []knowledge.IndexerOption{
		knowledge.WithDimension(cfg.Embedding.Dimension),
		knowledge.WithReadyPolling(cfg.VectorIndex.PollInterval, cfg.VectorIndex.ReadyTimeout),
		knowledge.WithIndexerLogger(logger),
	}
	if !noProgress && len(products) > 0 {
		bar := progressbar.NewOptions(len(products),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetDescription("[cyan]Indexing[reset]"),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(os.Stderr)
			}),
		)
		opts = append(opts, knowledge.WithProgress(func(done, total int) {
			_ = bar.Set(done)
		}))
	}

	indexer := knowledge.NewIndexer(setup.NewEmbedder(cfg.Embedding), index, opts...)

	report, err := indexer.Run(ctx, products)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d products into %q\n", report.Indexed, cfg.VectorIndex.Name)
	return nil
}
