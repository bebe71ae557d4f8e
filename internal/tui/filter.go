package tui

import (
	"sort"
	"strings"

	lfuzzy "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sahilm/fuzzy"
)

// filterIndexes returns the indexes of titles matching query, best first.
// An empty query matches everything in original order. Character-level
// fuzzy matching runs first; when it finds nothing, a normalized fold
// match catches accented titles the strict matcher misses.
func filterIndexes(query string, titles []string) []int {
	query = strings.TrimSpace(query)
	if query == "" {
		all := make([]int, len(titles))
		for i := range titles {
			all[i] = i
		}
		return all
	}

	matches := fuzzy.Find(query, titles)
	if len(matches) > 0 {
		out := make([]int, len(matches))
		for i, m := range matches {
			out[i] = m.Index
		}
		return out
	}

	ranks := lfuzzy.RankFindNormalizedFold(query, titles)
	sort.Sort(ranks)
	out := make([]int, len(ranks))
	for i, r := range ranks {
		out[i] = r.OriginalIndex
	}
	return out
}
