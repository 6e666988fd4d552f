package categorization

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/statementkit/statement-intake/internal/domain/transactions"
)

func testPatterns() []Pattern {
	return []Pattern{
		{Keyword: "TESCO", Category: "Groceries"},
		{Keyword: "AMAZON", Category: "Shopping"},
		{Keyword: "AMAZON PRIME", Category: "Subscriptions"},
		{Keyword: "STARBUCKS", Category: "Dining"},
		{Keyword: "SALARY", Category: "Income"},
	}
}

func TestMatchExact(t *testing.T) {
	e := NewEngine(testPatterns())

	assert.Equal(t, "Groceries", e.Match("TESCO STORES 2214 LONDON"))
	assert.Equal(t, "Income", e.Match("acme ltd salary jan"))
}

func TestMatchLongestKeywordWins(t *testing.T) {
	e := NewEngine(testPatterns())

	assert.Equal(t, "Subscriptions", e.Match("AMAZON PRIME MEMBERSHIP"))
	assert.Equal(t, "Shopping", e.Match("AMAZON MARKETPLACE"))
}

func TestMatchFuzzyFallback(t *testing.T) {
	e := NewEngine(testPatterns())

	// No substring hit: "#0117" breaks nothing, but a missing letter does.
	assert.Equal(t, "Dining", e.Match("STARBCKS LONDON"))
}

func TestMatchNoHit(t *testing.T) {
	e := NewEngine(testPatterns())

	assert.Empty(t, e.Match("ACME WIDGETS INVOICE 17"))
	assert.Empty(t, e.Match(""))
}

func TestMatchEmptyEngine(t *testing.T) {
	e := NewEngine(nil)

	assert.Empty(t, e.Match("TESCO STORES"))
	assert.Zero(t, e.PatternCount())
}

func TestBuildNormalizesAndDeduplicates(t *testing.T) {
	e := NewEngine([]Pattern{
		{Keyword: "  tesco ", Category: "Groceries"},
		{Keyword: "TESCO", Category: "ShouldNotWin"},
		{Keyword: "", Category: "Ignored"},
	})

	assert.Equal(t, 1, e.PatternCount())
	assert.Equal(t, "Groceries", e.Match("TESCO EXPRESS"))
}

func TestBuildSwapsPatternSet(t *testing.T) {
	e := NewEngine(testPatterns())
	e.Build([]Pattern{{Keyword: "NETFLIX", Category: "Subscriptions"}})

	assert.Empty(t, e.Match("TESCO STORES"))
	assert.Equal(t, "Subscriptions", e.Match("NETFLIX.COM"))
}

func TestMatchBatch(t *testing.T) {
	e := NewEngine(testPatterns())

	got := e.MatchBatch([]string{"TESCO EXPRESS", "UNKNOWN VENDOR", "STARBUCKS 12"})
	assert.Equal(t, []string{"Groceries", "", "Dining"}, got)
}

func TestMatchBatchGeneratedDescriptions(t *testing.T) {
	e := NewEngine(DefaultPatterns())

	rows := transactions.NewTestDataGenerator(7).Rows(100)
	descriptions := make([]string, len(rows))
	for i, row := range rows {
		descriptions[i] = row.Description
	}

	got := e.MatchBatch(descriptions)
	assert.Len(t, got, len(descriptions))
}

func TestDefaultPatternsLoad(t *testing.T) {
	e := NewEngine(DefaultPatterns())

	assert.Greater(t, e.PatternCount(), 50)
	assert.Equal(t, "Groceries", e.Match("TESCO STORES 2214"))
	assert.Equal(t, "Cash", e.Match("ATM WITHDRAWAL 05JAN"))
}
