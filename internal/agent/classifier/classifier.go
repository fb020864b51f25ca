// Package classifier assigns a category and an importance score to an
// article from static rule tables. It is pure: no I/O, no clock, identical
// input always yields identical output.
package classifier

import (
	"strings"
)

// CategoryRule maps one category name to the keywords that select it.
type CategoryRule struct {
	Name     string   `mapstructure:"name"`
	Keywords []string `mapstructure:"keywords"`
}

// Rules is the full rule set. It is configuration data, loaded from the
// config file when present and falling back to DefaultRules.
type Rules struct {
	// Categories are evaluated in order; the first rule with a matching
	// keyword wins.
	Categories      []CategoryRule     `mapstructure:"categories"`
	SourceWeights   map[string]float64 `mapstructure:"source_weights"`
	HighImpactTerms []string           `mapstructure:"high_impact_terms"`
	CategoryWeights map[string]float64 `mapstructure:"category_weights"`
}

const (
	// DefaultCategory is returned when no keyword matches.
	DefaultCategory = "misc"

	defaultSourceWeight = 0.5
	titleBonus          = 0.2
)

// Classifier evaluates articles against a rule set.
type Classifier struct {
	rules Rules
}

// New creates a Classifier. Empty rule sections fall back to the defaults
// so a partial config stays usable.
func New(rules Rules) *Classifier {
	defaults := DefaultRules()
	if len(rules.Categories) == 0 {
		rules.Categories = defaults.Categories
	}
	if len(rules.SourceWeights) == 0 {
		rules.SourceWeights = defaults.SourceWeights
	}
	if len(rules.HighImpactTerms) == 0 {
		rules.HighImpactTerms = defaults.HighImpactTerms
	}
	if len(rules.CategoryWeights) == 0 {
		rules.CategoryWeights = defaults.CategoryWeights
	}
	return &Classifier{rules: rules}
}

// Categorize returns the first category whose keyword list has a substring
// match against the lower-cased text, or DefaultCategory when nothing
// matches. Matching is deliberately substring-based (a keyword inside an
// unrelated word still matches) to stay compatible with historical output.
func (c *Classifier) Categorize(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range c.rules.Categories {
		for _, keyword := range rule.Keywords {
			if strings.Contains(lower, keyword) {
				return rule.Name
			}
		}
	}
	return DefaultCategory
}

// ScoreImportance computes the additive triage score: the source weight
// (0.5 for unknown sources), at most one +0.2 bonus when the title contains
// a high-impact term, and the category weight (0 for unlisted categories).
// The result is clamped to [0, 1].
func (c *Classifier) ScoreImportance(title, sourceName, category string) float64 {
	score, ok := c.rules.SourceWeights[sourceName]
	if !ok {
		score = defaultSourceWeight
	}

	titleLower := strings.ToLower(title)
	for _, term := range c.rules.HighImpactTerms {
		if strings.Contains(titleLower, term) {
			score += titleBonus
			break
		}
	}

	score += c.rules.CategoryWeights[category]

	if score > 1.0 {
		score = 1.0
	}
	if score < 0.0 {
		score = 0.0
	}
	return score
}

// DefaultRules returns the built-in rule tables.
func DefaultRules() Rules {
	return Rules{
		Categories: []CategoryRule{
			{Name: "technology", Keywords: []string{"ai", "artificial intelligence", "neural network", "chatbot", "gpt", "software", "programming", "startup", " it "}},
			{Name: "politics", Keywords: []string{"president", "government", "election", "sanction", "parliament", "minister", "politic"}},
			{Name: "economy", Keywords: []string{"dollar", "inflation", "market", "economy", "stock", "crisis", "trade", "bank"}},
			{Name: "science", Keywords: []string{"science", "research", "discovery", "scientists", "space", "medicine", "study"}},
			{Name: "sports", Keywords: []string{"sport", "football", "hockey", "championship", "olympic", "tournament"}},
		},
		SourceWeights: map[string]float64{
			"Reuters":          0.8,
			"BBC News":         0.8,
			"Associated Press": 0.7,
			"The Guardian":     0.6,
		},
		HighImpactTerms: []string{
			"war", "crisis", "breakthrough", "revolution", "catastrophe",
			"attack", "emergency", "record", "collapse",
		},
		CategoryWeights: map[string]float64{
			"politics":   0.3,
			"economy":    0.2,
			"technology": 0.2,
			"science":    0.1,
		},
	}
}
