package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	t.Run("identical strings score one", func(t *testing.T) {
		for _, s := range []string{
			"How many towers in Texas?",
			"x",
			"",
			"  padded   whitespace  ",
		} {
			assert.InDelta(t, 1.0, Similarity(s, s), 1e-9, "s=%q", s)
		}
	})

	t.Run("whitespace differences still match exactly", func(t *testing.T) {
		assert.InDelta(t, 1.0, Similarity("how  many towers", "how many towers"), 1e-9)
	})

	t.Run("abbreviation expansion", func(t *testing.T) {
		score := Similarity(
			"How many towers do we have in TX?",
			"How many towers in Texas?",
		)
		assert.Greater(t, score, 0.6)
	})

	t.Run("containment scores 0.9", func(t *testing.T) {
		score := Similarity(
			"monthly revenue by landlord",
			"show monthly revenue by landlord please",
		)
		assert.InDelta(t, 0.9, score, 1e-9)
	})

	t.Run("unrelated prompts stay below the threshold", func(t *testing.T) {
		score := Similarity(
			"zebra quantum flute marble",
			"bicycle onion harbor twelve",
		)
		assert.Less(t, score, 0.6)
	})

	t.Run("longer shared words weigh more", func(t *testing.T) {
		strong := Similarity("contract expiration schedule", "contract expiration timeline")
		weak := Similarity("is it up", "is it on")
		assert.Greater(t, strong, weak)
	})
}

func TestSelectModel(t *testing.T) {
	t.Run("validation always uses the fast model", func(t *testing.T) {
		assert.Equal(t, fastModel, SelectModel("deeply complex correlation forecast analysis", TaskValidation))
	})

	t.Run("reports always use the top model", func(t *testing.T) {
		assert.Equal(t, topModel, SelectModel("hi", TaskReport))
	})

	t.Run("simple queries route to the fast model", func(t *testing.T) {
		assert.Equal(t, fastModel, SelectModel("how many towers?", TaskQuery))
	})

	t.Run("moderate queries route to the default model", func(t *testing.T) {
		model := SelectModel(
			"Compare the year over year revenue trend by region for our contracts",
			TaskQuery,
		)
		assert.Equal(t, defaultModel, model)
	})

	t.Run("heavy analysis routes to the top model", func(t *testing.T) {
		model := SelectModel(
			"Run a correlation analysis between tower height and monthly rate, compare the year over year revenue trend by region, forecast renewal risk, and recommend an optimized negotiation strategy",
			TaskQuery,
		)
		assert.Equal(t, topModel, model)
	})
}

func TestAssessComplexity(t *testing.T) {
	assert.LessOrEqual(t, AssessComplexity("short"), 1.0)

	trend := AssessComplexity("what is the trend here")
	simple := AssessComplexity("what is the total here")
	assert.Greater(t, trend, simple)

	// Capped at 10 no matter how loaded the query is.
	loaded := "compare analysis trend forecast risk correlation calculate optimize recommend strategy year over year region location map"
	assert.LessOrEqual(t, AssessComplexity(loaded), 10.0)
}
