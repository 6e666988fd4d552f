package categorization

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// fuzzyThreshold is the minimum similarity score (0-100) for a fuzzy match.
// Tuned so that typo-level noise ("STARBCKS") still resolves while unrelated
// descriptions stay uncategorized.
const fuzzyThreshold = 78

// fuzzyMatch scores each keyword against the description and its tokens and
// returns the best category at or above the threshold. Called with the read
// lock held; only runs when the exact matcher found nothing.
func (e *Engine) fuzzyMatch(normalized string) string {
	tokens := strings.Fields(normalized)
	if len(tokens) == 0 {
		return ""
	}

	best := -1
	bestScore := fuzzyThreshold - 1

	for i, kw := range e.keywords {
		score := similarity(normalized, kw)
		// Single-word keywords usually hide inside one token of a longer
		// description; score per token too.
		if !strings.ContainsRune(kw, ' ') {
			for _, tok := range tokens {
				if s := similarity(tok, kw); s > score {
					score = s
				}
			}
		}
		if score > bestScore {
			bestScore = score
			best = i
		}
	}

	if best < 0 {
		return ""
	}
	return e.categories[best]
}

// similarity combines edit distance and subsequence ranking into a 0-100
// score.
func similarity(text, keyword string) int {
	if text == keyword {
		return 100
	}

	maxLen := len(text)
	if len(keyword) > maxLen {
		maxLen = len(keyword)
	}
	if maxLen == 0 {
		return 0
	}

	distance := fuzzy.LevenshteinDistance(text, keyword)
	levScore := 100 * (maxLen - distance) / maxLen

	// Subsequence rank: the keyword's letters appear in order with little
	// padding, e.g. "NETFLIX" inside "N E T F L I X COM".
	rankScore := 0
	if rank := fuzzy.RankMatch(keyword, text); rank >= 0 && rank < len(text) {
		rankScore = 85 - rank*40/len(text)
	}

	if levScore > rankScore {
		return levScore
	}
	return rankScore
}
