package repository

import (
	"fmt"
	"strings"

	"go-news-agent/internal/entity"
	"go-news-agent/pkg/utils"
)

// NoContextMarker is embedded into the topic analysis prompt when retrieval
// found nothing. The prompt must always state this explicitly so the model
// does not fabricate context.
const NoContextMarker = "No relevant articles in the database"

const (
	summaryContextWindow = 800
	keywordContextWindow = 500
	contextArticleCount  = 3
)

// BuildSummarizePrompt asks for a one-to-two-sentence summary. The source
// text is bounded to a fixed window to keep prompt size predictable.
func BuildSummarizePrompt(text string) string {
	return fmt.Sprintf(`Write a short summary of the text (1-2 sentences):

TEXT:
%s

SUMMARY:`, utils.TruncateRunes(text, summaryContextWindow))
}

// BuildKeywordsPrompt asks for exactly max comma-separated keywords.
func BuildKeywordsPrompt(text string, max int) string {
	return fmt.Sprintf(`Extract %d keywords or key phrases from the text.
Return only the words separated by commas, without explanations.

TEXT:
%s

KEYWORDS:`, max, utils.TruncateRunes(text, keywordContextWindow))
}

// BuildContextBlock renders the top retrieved articles as numbered context
// lines, each followed by its summary when one exists. Returns the empty
// string when there are no articles.
func BuildContextBlock(articles []entity.Article) string {
	if len(articles) == 0 {
		return ""
	}
	if len(articles) > contextArticleCount {
		articles = articles[:contextArticleCount]
	}

	var b strings.Builder
	for i, article := range articles {
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, article.Title, article.SourceName)
		if article.Summary != "" {
			fmt.Fprintf(&b, "   %s\n", article.Summary)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// BuildTopicAnalysisPrompt constructs the fixed five-section analysis
// prompt around the topic and its retrieved context.
func BuildTopicAnalysisPrompt(topic, contextBlock string) string {
	if contextBlock == "" {
		contextBlock = NoContextMarker
	}

	return fmt.Sprintf(`Perform a deep analysis of the topic based on the provided context.

TOPIC: %s

CONTEXT FROM NEWS:
%s

ANALYSIS STRUCTURE:
1. KEY ASPECTS OF THE TOPIC
2. MAIN FACTS AND TRENDS
3. POSSIBLE CAUSES AND EFFECTS
4. OUTLOOK AND FORECASTS
5. CONCLUSIONS AND RECOMMENDATIONS

ANALYSIS:`, topic, contextBlock)
}
