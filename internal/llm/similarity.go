package llm

import (
	"strings"
)

// fillerWords carry no meaning for matching and are stripped before
// comparison.
var fillerWords = map[string]struct{}{
	"do": {}, "we": {}, "have": {}, "the": {}, "a": {},
	"an": {}, "in": {}, "i": {}, "my": {}, "our": {},
}

// stateAbbreviations expands the US-state shorthand users mix freely into
// portfolio questions ("towers in TX" vs "towers in Texas").
var stateAbbreviations = map[string]string{
	"tx": "texas",
	"ny": "new york",
	"ca": "california",
	"fl": "florida",
	"il": "illinois",
}

// collapseWhitespace trims a string and folds internal whitespace runs into
// single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// normalizePrompt lowercases a prompt, drops filler words, expands state
// abbreviations, and removes punctuation, leaving only the words that carry
// the question's meaning.
func normalizePrompt(s string) string {
	words := strings.Fields(strings.ToLower(s))
	out := make([]string, 0, len(words))

	for _, word := range words {
		word = strings.Trim(word, ".,?!;:")
		if word == "" {
			continue
		}
		if _, filler := fillerWords[word]; filler {
			continue
		}
		if full, ok := stateAbbreviations[word]; ok {
			word = full
		}
		out = append(out, word)
	}
	return strings.Join(out, " ")
}

// Similarity scores how alike two prompts are, from 0 to 1. Identical
// prompts (after whitespace collapse) score 1.0; containment after
// normalization scores 0.9; otherwise the score is a length-weighted word
// overlap (longer shared words count more) blended 80/20 with a word-count
// ratio that mildly penalizes prompts of very different length.
func Similarity(a, b string) float64 {
	a = collapseWhitespace(a)
	b = collapseWhitespace(b)
	if a == b {
		return 1.0
	}

	normA := normalizePrompt(a)
	normB := normalizePrompt(b)
	if normA != "" && normB != "" &&
		(strings.Contains(normA, normB) || strings.Contains(normB, normA)) {
		return 0.9
	}

	wordsA := strings.Fields(normA)
	wordsB := strings.Fields(normB)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		if len(wordsA) == len(wordsB) {
			return 1.0
		}
		return 0.0
	}

	remaining := make(map[string]int, len(wordsB))
	for _, word := range wordsB {
		remaining[word]++
	}

	var matched, possible float64
	for _, word := range wordsA {
		weight := float64(len(word)) / 3
		if weight < 1 {
			weight = 1
		}
		possible += weight

		if remaining[word] > 0 {
			matched += weight
			remaining[word]--
		}
	}

	shorter, longer := len(wordsA), len(wordsB)
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	lengthRatio := float64(shorter) / float64(longer)

	return (matched/possible)*0.8 + lengthRatio*0.2
}
