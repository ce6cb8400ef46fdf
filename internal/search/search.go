package search

import (
	"strings"

	lfuzzy "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/stitchsync/internal/domain"
)

// Result represents a ranked match with metadata for highlighting
type Result struct {
	Screen         domain.Screen
	Title          string // The string that was matched
	MatchedIndexes []int  // Character positions that matched
	Score          int    // Match score (higher is better)
}

// ScreenIndex implements sahilm/fuzzy.Source over screen display titles
type ScreenIndex struct {
	screens     []domain.Screen
	lowerTitles []string // Pre-computed lowercase titles
}

// NewScreenIndex builds an index over screens
func NewScreenIndex(screens []domain.Screen) *ScreenIndex {
	idx := &ScreenIndex{
		screens:     screens,
		lowerTitles: make([]string, len(screens)),
	}
	for i, s := range screens {
		idx.lowerTitles[i] = strings.ToLower(s.DisplayTitle())
	}
	return idx
}

// String returns the lowercase title at index i (implements fuzzy.Source)
func (idx *ScreenIndex) String(i int) string { return idx.lowerTitles[i] }

// Len returns the number of screens (implements fuzzy.Source)
func (idx *ScreenIndex) Len() int { return len(idx.screens) }

// Match ranks screens whose display title fuzzy-matches query, best first.
// An empty query returns nil.
func Match(query string, screens []domain.Screen) []Result {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || len(screens) == 0 {
		return nil
	}

	idx := NewScreenIndex(screens)
	matches := fuzzy.FindFrom(query, idx)

	results := make([]Result, len(matches))
	for i, m := range matches {
		s := idx.screens[m.Index]
		results[i] = Result{
			Screen:         s,
			Title:          s.DisplayTitle(),
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return results
}

// Only keeps the screens whose derived name or ID contains the query's
// characters in order, ignoring case. Listing order is preserved and an
// empty query keeps everything.
func Only(query string, screens []domain.Screen) []domain.Screen {
	query = strings.TrimSpace(query)
	if query == "" {
		return screens
	}

	kept := make([]domain.Screen, 0, len(screens))
	for _, s := range screens {
		if lfuzzy.MatchFold(query, s.DerivedName()) || lfuzzy.MatchFold(query, s.ID) {
			kept = append(kept, s)
		}
	}
	return kept
}
