package scan

import "time"

// Filter decides whether an item is in scope at the given instant. The
// clock is injected so runs are replayable.
//
// An item passes when its effective timestamp lies in
// [now-window, min(now, cutoff)] (both bounds inclusive) and its search
// text contains at least one keyword and one location. An empty keyword or
// location set rejects everything, as does a cutoff that already passed:
// a manual re-run after the cutoff yields an empty result, not stale output.
func Filter(it Item, scope Scope, now time.Time) (Match, bool) {
	if len(scope.Keywords) == 0 || len(scope.Locations) == 0 {
		return Match{}, false
	}
	if !scope.Cutoff.IsZero() && now.After(scope.Cutoff) {
		return Match{}, false
	}

	upper := now
	if !scope.Cutoff.IsZero() && scope.Cutoff.Before(upper) {
		upper = scope.Cutoff
	}
	lower := now.Add(-scope.Window)
	if it.EffectiveAt.Before(lower) || it.EffectiveAt.After(upper) {
		return Match{}, false
	}

	keywords := MatchTerms(it.SearchText, scope.Keywords)
	if len(keywords) == 0 {
		return Match{}, false
	}
	locations := MatchTerms(it.SearchText, scope.Locations)
	if len(locations) == 0 {
		return Match{}, false
	}

	return Match{Item: it, Keywords: keywords, Locations: locations}, true
}
