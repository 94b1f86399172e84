// Package assistant answers natural-language questions about the portfolio
// by combining stored data context with an LLM backend.
package assistant

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/towerlens/towerlens/internal/common"
	"github.com/towerlens/towerlens/internal/llm"
	"github.com/towerlens/towerlens/internal/service"
)

// maxHistoryMessages bounds how much conversation history feeds the prompt.
const maxHistoryMessages = 5

// Message is one turn of the running conversation.
type Message struct {
	Timestamp time.Time
	Role      string
	Content   string
}

// QueryResult is the outcome of a single question. Failures are reported in
// the result rather than as an error so callers can render them uniformly.
type QueryResult struct {
	Answer     string
	Error      string
	Model      string
	TokensUsed int
	FromCache  bool
	Success    bool
}

// Engine routes questions through the response cache and the LLM client,
// carrying recent conversation history for follow-up questions.
type Engine struct {
	store   service.Storage
	client  llm.Client
	cache   *llm.ResponseCache
	retry   service.RetryOptions
	mu      sync.Mutex
	history []Message
}

// New creates an engine. The cache may be nil, which disables response reuse.
func New(store service.Storage, client llm.Client, cache *llm.ResponseCache) *Engine {
	return &Engine{
		store:  store,
		client: client,
		cache:  cache,
		retry: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: time.Second,
			MaxDelay:     10 * time.Second,
			Multiplier:   2.0,
		},
	}
}

// Ask answers a question about the portfolio. Similar recent questions are
// served from the cache without touching the model; fresh answers are cached
// only when the call succeeds.
func (e *Engine) Ask(ctx context.Context, question string) QueryResult {
	model := llm.SelectModel(question, llm.TaskQuery)

	if e.cache != nil {
		if answer, ok := e.cache.Find(question, model); ok {
			e.remember(question, answer)
			return QueryResult{
				Answer:    answer,
				Model:     model,
				FromCache: true,
				Success:   true,
			}
		}
	}

	prompt := e.buildPrompt(ctx, question)

	var resp llm.QueryResponse
	err := common.WithRetry(ctx, func() error {
		var qerr error
		resp, qerr = e.client.Query(ctx, prompt, llm.QueryOptions{Model: model})
		return qerr
	}, e.retry)
	if err != nil {
		slog.Error("Query failed", "model", model, "error", err)
		return QueryResult{
			Error:   err.Error(),
			Model:   model,
			Success: false,
		}
	}

	if e.cache != nil {
		e.cache.Cache(ctx, question, model, resp.Content, resp.TokensUsed)
	}
	e.remember(question, resp.Content)

	return QueryResult{
		Answer:     resp.Content,
		Model:      model,
		TokensUsed: resp.TokensUsed,
		Success:    true,
	}
}

// ClearHistory drops the running conversation.
func (e *Engine) ClearHistory() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history = nil
}

// remember appends a question/answer pair, keeping only the most recent
// turns.
func (e *Engine) remember(question, answer string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.history = append(e.history,
		Message{Role: "user", Content: question, Timestamp: time.Now()},
		Message{Role: "assistant", Content: answer, Timestamp: time.Now()},
	)
	if len(e.history) > maxHistoryMessages {
		e.history = e.history[len(e.history)-maxHistoryMessages:]
	}
}

func (e *Engine) recentHistory() []Message {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Message, len(e.history))
	copy(out, e.history)
	return out
}
