package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var filterTitles = []string{"The Grand Tour", "Grande École", "Night Watch", "Watchmen"}

func TestFilterEmptyQueryMatchesAll(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2, 3}, filterIndexes("", filterTitles))
	assert.Equal(t, []int{0, 1, 2, 3}, filterIndexes("   ", filterTitles))
}

func TestFilterFuzzyMatch(t *testing.T) {
	got := filterIndexes("watch", filterTitles)
	assert.ElementsMatch(t, []int{2, 3}, got)
}

func TestFilterNormalizedFallback(t *testing.T) {
	// "école" only matches via the diacritic-insensitive fallback.
	got := filterIndexes("ecole", filterTitles)
	assert.Contains(t, got, 1)
}

func TestFilterNoMatches(t *testing.T) {
	assert.Empty(t, filterIndexes("zzzzzz", filterTitles))
}
