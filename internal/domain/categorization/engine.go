// Package categorization assigns spending categories to extracted statement
// rows. Matching is two-tier: an Aho-Corasick pass over known merchant
// keywords, then a fuzzy fallback for noisy descriptions.
package categorization

import (
	"strings"
	"sync"

	"github.com/cloudflare/ahocorasick"
)

// Pattern maps a merchant keyword to a category.
type Pattern struct {
	Keyword  string
	Category string
}

// Engine matches transaction descriptions against a keyword set in a single
// pass. It is safe for concurrent use; Build may be called to swap the
// pattern set at runtime.
type Engine struct {
	mu         sync.RWMutex
	matcher    *ahocorasick.Matcher
	categories []string // category per pattern, same order as the matcher
	keywords   []string // normalized keywords, same order as the matcher
}

// NewEngine creates an engine from the given patterns. Pass DefaultPatterns()
// for the built-in merchant set.
func NewEngine(patterns []Pattern) *Engine {
	e := &Engine{}
	e.Build(patterns)
	return e
}

// Build constructs the Aho-Corasick matcher. Empty keywords are skipped and
// duplicates keep the first category seen.
func (e *Engine) Build(patterns []Pattern) {
	e.mu.Lock()
	defer e.mu.Unlock()

	seen := make(map[string]struct{}, len(patterns))
	keywords := make([]string, 0, len(patterns))
	categories := make([]string, 0, len(patterns))

	for _, p := range patterns {
		kw := strings.ToUpper(strings.TrimSpace(p.Keyword))
		if kw == "" {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		keywords = append(keywords, kw)
		categories = append(categories, p.Category)
	}

	e.keywords = keywords
	e.categories = categories

	if len(keywords) == 0 {
		e.matcher = nil
		return
	}

	byteKeywords := make([][]byte, len(keywords))
	for i, kw := range keywords {
		byteKeywords[i] = []byte(kw)
	}
	e.matcher = ahocorasick.NewMatcher(byteKeywords)
}

// Match returns the category for a description, preferring the longest
// matching keyword, with a fuzzy fallback. Empty string means uncategorized.
func (e *Engine) Match(description string) string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.matcher == nil {
		return ""
	}

	normalized := strings.ToUpper(description)

	matches := e.matcher.Match([]byte(normalized))
	if len(matches) > 0 {
		// Longest keyword wins: "AMAZON PRIME" beats "AMAZON".
		best := -1
		for _, idx := range matches {
			if idx < 0 || idx >= len(e.keywords) {
				continue
			}
			if best < 0 || len(e.keywords[idx]) > len(e.keywords[best]) {
				best = idx
			}
		}
		if best >= 0 {
			return e.categories[best]
		}
	}

	return e.fuzzyMatch(normalized)
}

// MatchBatch categorizes descriptions in bulk.
func (e *Engine) MatchBatch(descriptions []string) []string {
	results := make([]string, len(descriptions))
	for i, desc := range descriptions {
		results[i] = e.Match(desc)
	}
	return results
}

// PatternCount reports the number of loaded keywords.
func (e *Engine) PatternCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.keywords)
}
