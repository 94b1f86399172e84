package llm

import (
	"math"
	"strings"
)

// Model tiers used by the selection policy. The fast tier handles cheap
// validation passes, the top tier handles full report generation, and
// standard queries are routed by complexity.
const (
	fastModel    = "claude-3-5-haiku"
	defaultModel = "claude-3-7-sonnet"
	topModel     = "claude-3-opus"
)

// TaskType describes what a prompt is for, which biases model selection.
type TaskType string

// Supported task types.
const (
	TaskValidation TaskType = "validation"
	TaskQuery      TaskType = "query"
	TaskReport     TaskType = "report"
)

// SelectModel picks a model identifier for a query. This is a synchronous
// policy with no I/O, kept separate from dispatch so callers can test
// routing without a network.
func SelectModel(query string, task TaskType) string {
	if task == TaskValidation {
		return fastModel
	}
	if task == TaskReport {
		return topModel
	}

	complexity := AssessComplexity(query)
	switch {
	case complexity > 7:
		return topModel
	case complexity > 3:
		return defaultModel
	default:
		return fastModel
	}
}

// complexityKeywords mark analytical intent that warrants a stronger model.
var complexityKeywords = []string{
	"compare", "analysis", "trend", "forecast", "risk",
	"correlation", "calculate", "optimize", "recommend", "strategy",
}

// AssessComplexity scores a query's complexity on a 1-10 scale using cheap
// lexical heuristics: length, analytical keywords, time-comparison phrases,
// and geographic references.
func AssessComplexity(query string) float64 {
	lower := strings.ToLower(query)

	complexity := math.Min(3, float64(len(query))/100)

	for _, keyword := range complexityKeywords {
		if strings.Contains(lower, keyword) {
			complexity += 0.5
		}
	}

	if strings.Contains(lower, "year over year") ||
		strings.Contains(lower, "month over month") ||
		strings.Contains(lower, "trend") {
		complexity += 2
	}

	if strings.Contains(lower, "region") ||
		strings.Contains(lower, "location") ||
		strings.Contains(lower, "map") {
		complexity++
	}

	return math.Min(10, complexity)
}
