package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/towerlens/towerlens/internal/common"
	"github.com/towerlens/towerlens/internal/config"
	"github.com/towerlens/towerlens/internal/llm"
	"github.com/towerlens/towerlens/internal/storage"
)

// initStorage opens the database named in config and brings the schema up to
// date.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("could not open database at %s", dbPath), err)
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initLLMClient builds the provider client from config.
func initLLMClient() (llm.Client, error) {
	cfg := llm.Config{
		Provider:          viper.GetString("llm.provider"),
		APIKey:            viper.GetString("llm.api_key"),
		Model:             viper.GetString("llm.model"),
		Temperature:       viper.GetFloat64("llm.temperature"),
		MaxTokens:         viper.GetInt("llm.max_tokens"),
		RequestsPerMinute: viper.GetInt("llm.requests_per_minute"),
	}
	return llm.NewClient(cfg)
}
