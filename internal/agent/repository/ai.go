package repository

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go-news-agent/pkg/utils"
)

// AIRepository is the inference surface shared by all providers.
type AIRepository interface {
	// ModelName reports the model the provider actually runs with, which
	// may differ from the configured one after a startup fallback.
	ModelName() string
	// Generate returns the model output for the prompt. A per-call failure
	// (timeout, non-success status, malformed response) comes back as
	// sentinel error text (see IsErrorText), never as a propagated error,
	// so one bad article cannot abort a batch.
	Generate(ctx context.Context, prompt string, maxTokens int) string
	// Summarize produces a short summary of text, capped at 150 runes.
	// Inputs under 50 runes are returned unchanged without a model call.
	Summarize(ctx context.Context, text string) string
	// ExtractKeywords asks the model for up to five comma-separated
	// keywords. Inputs under 20 runes yield nil without a model call.
	ExtractKeywords(ctx context.Context, text string) []string
}

const errorTextPrefix = "[error:"

const (
	summaryMinInput  = 50
	summaryMaxTokens = 100
	summaryMaxLen    = 150

	keywordMinInput  = 20
	keywordMaxTokens = 100
	maxKeywords      = 5
)

// ErrorText renders a failed generate call as sentinel text.
func ErrorText(err error) string {
	return fmt.Sprintf("%s %v]", errorTextPrefix, err)
}

// IsErrorText reports whether s is the sentinel produced by a failed
// generate call.
func IsErrorText(s string) bool {
	return strings.HasPrefix(s, errorTextPrefix)
}

// ParseKeywords splits a comma-separated model response into a cleaned
// keyword list: tokens are trimmed, empty and single-character tokens are
// dropped, and the list is capped at max.
func ParseKeywords(response string, max int) []string {
	var keywords []string
	for _, item := range strings.Split(response, ",") {
		item = strings.TrimSpace(item)
		if utf8.RuneCountInString(item) > 1 {
			keywords = append(keywords, item)
		}
		if len(keywords) == max {
			break
		}
	}
	return keywords
}

// summarizeText is the provider-independent summarization flow.
func summarizeText(ctx context.Context, r AIRepository, text string) string {
	if utf8.RuneCountInString(text) < summaryMinInput {
		return text
	}
	summary := r.Generate(ctx, BuildSummarizePrompt(text), summaryMaxTokens)
	return utils.TruncateRunes(summary, summaryMaxLen)
}

// extractKeywords is the provider-independent keyword extraction flow.
func extractKeywords(ctx context.Context, r AIRepository, text string) []string {
	if utf8.RuneCountInString(text) < keywordMinInput {
		return nil
	}
	response := r.Generate(ctx, BuildKeywordsPrompt(text, maxKeywords), keywordMaxTokens)
	if IsErrorText(response) {
		return nil
	}
	return ParseKeywords(response, maxKeywords)
}
