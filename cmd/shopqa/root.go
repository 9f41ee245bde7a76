package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/barekit/shopqa/pkg/config"
	"github.com/barekit/shopqa/pkg/setup"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "shopqa",
	Short: "Answer customer questions from the product catalog",
	Long: `shopqa indexes a product catalog into a vector index and answers
customer questions using only the products retrieved for each question.

Example usage:
  shopqa index                              # Embed and upsert every product
  shopqa ask "¿Cuánto cuesta la camiseta?"  # Answer a single question
  shopqa serve                              # Serve POST /api/chat`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = os.Getenv("SHOPQA_CONFIG")
		}
		if path == "" {
			path = "shopqa.yaml"
		}

		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger = setup.NewLogger(cfg.Log, os.Stderr)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./shopqa.yaml or $SHOPQA_CONFIG)")
}

// closeAll releases clients that hold connections.
func closeAll(ctx context.Context, clients ...any) {
	for _, c := range clients {
		switch v := c.(type) {
		case io.Closer:
			_ = v.Close()
		case interface{ Close(context.Context) error }:
			_ = v.Close(ctx)
		}
	}
}
