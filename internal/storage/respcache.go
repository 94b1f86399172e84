package storage

import (
	"context"
	"fmt"

	"github.com/towerlens/towerlens/internal/llm"
)

// LoadResponses reads the persisted assistant response cache, newest first.
func (s *SQLiteStorage) LoadResponses(ctx context.Context) ([]llm.CachedResponse, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT prompt, model, response, tokens_used, cached_at
		FROM response_cache ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query response cache: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var responses []llm.CachedResponse
	for rows.Next() {
		var r llm.CachedResponse
		if err := rows.Scan(&r.Prompt, &r.Model, &r.Response, &r.TokensUsed, &r.CachedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cached response: %w", err)
		}
		responses = append(responses, r)
	}
	return responses, rows.Err()
}

// SaveResponses replaces the persisted response cache with the given
// snapshot, preserving its order.
func (s *SQLiteStorage) SaveResponses(ctx context.Context, responses []llm.CachedResponse) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM response_cache"); err != nil {
		return fmt.Errorf("failed to clear response cache: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO response_cache (position, prompt, model, response, tokens_used, cached_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, r := range responses {
		if _, err := stmt.ExecContext(ctx, i, r.Prompt, r.Model, r.Response, r.TokensUsed, r.CachedAt); err != nil {
			return fmt.Errorf("failed to save cached response: %w", err)
		}
	}

	return tx.Commit()
}
