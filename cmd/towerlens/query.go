package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/towerlens/towerlens/internal/assistant"
	"github.com/towerlens/towerlens/internal/cli"
	"github.com/towerlens/towerlens/internal/llm"
)

func queryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <question>",
		Short: "Ask a question about the portfolio",
		Long: `Ask a natural-language question about your towers, contracts, and payments.

Answers to similar recent questions are served from a local cache without
calling the model again.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runQuery,
	}

	cmd.Flags().Bool("no-cache", false, "skip the response cache")
	_ = viper.BindPFlag("query.no_cache", cmd.Flags().Lookup("no-cache"))

	return cmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	question := strings.Join(args, " ")

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	client, err := initLLMClient()
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}

	var cache *llm.ResponseCache
	if !viper.GetBool("query.no_cache") {
		cache = llm.NewResponseCache(ctx, store, llm.DefaultResponseTTL, llm.DefaultResponseEntries)
	}

	engine := assistant.New(store, client, cache)
	result := engine.Ask(ctx, question)
	if !result.Success {
		return fmt.Errorf("query failed: %s", result.Error)
	}

	fmt.Println(cli.RenderBox(cli.TowerIcon+" Answer", result.Answer))
	if result.FromCache {
		slog.Debug("Answer served from cache")
	} else {
		slog.Debug("Answer from model", "model", result.Model, "tokens", result.TokensUsed)
	}

	return nil
}
