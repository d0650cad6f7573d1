package scan

import "sort"

// Rank orders matches newest first. Ties go to source name ascending, then
// title ascending, keeping output deterministic for equal timestamps.
func Rank(matches []Match) []Match {
	out := make([]Match, len(matches))
	copy(out, matches)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Item, out[j].Item
		if !a.EffectiveAt.Equal(b.EffectiveAt) {
			return a.EffectiveAt.After(b.EffectiveAt)
		}
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		return a.Title < b.Title
	})
	return out
}
