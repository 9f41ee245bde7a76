package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/barekit/shopqa/pkg/assistant"
	"github.com/barekit/shopqa/pkg/setup"
	"github.com/spf13/cobra"
)

var showContext bool

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a single question from the indexed catalog",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&showContext, "show-context", false, "print the retrieved product context before the answer")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, cleanup, err := newAssistant(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	ex, err := a.Ask(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if showContext {
		fmt.Fprintf(out, "--- context (%d matches) ---\n%s\n---\n", len(ex.Matches), ex.Context)
	}
	fmt.Fprintln(out, ex.Answer)
	return nil
}

// newAssistant wires the query pipeline from the loaded configuration.
func newAssistant(ctx context.Context) (*assistant.Assistant, func(), error) {
	index, err := setup.NewVectorIndex(cfg.VectorIndex)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open vector index: %w", err)
	}

	c, err := setup.NewCache(ctx, cfg.Cache)
	if err != nil {
		closeAll(ctx, index)
		return nil, nil, fmt.Errorf("failed to open cache: %w", err)
	}

	opts := []assistant.Option{
		assistant.WithTopK(cfg.Retrieval.TopK),
		assistant.WithDimension(cfg.Embedding.Dimension),
		assistant.WithGeneration(cfg.Generation.Temperature, cfg.Generation.MaxTokens),
		assistant.WithLogger(logger),
	}
	if c != nil {
		opts = append(opts, assistant.WithCache(c))
	}

	a := assistant.New(
		setup.NewEmbedder(cfg.Embedding),
		index,
		setup.NewProvider(cfg.Generation),
		opts...,
	)
	return a, func() { closeAll(context.Background(), index, c) }, nil
}
