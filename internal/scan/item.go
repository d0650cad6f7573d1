// Package scan holds the core pipeline: normalize, filter, dedupe, rank.
// Every function is pure and takes its inputs (including the clock)
// explicitly, so runs can be replayed and tested with arbitrary configs.
package scan

import "time"

// RawItem is one already-parsed feed entry handed over by a fetch
// collaborator (RSS item / Atom entry semantics). Raw entries live for a
// single run only.
type RawItem struct {
	Title       string
	Summary     string
	Link        string
	Published   string     // raw published/updated string from the feed
	PublishedAt *time.Time // parsed publication time, when the parser had one
	Source      string
	FetchedAt   time.Time
}

// Item is the normalized, immutable form the pipeline works on.
type Item struct {
	Title   string
	Summary string
	Link    string
	Source  string

	// EffectiveAt is the published time, or FetchedAt when the feed did
	// not carry a usable one. UsedFetchTime records which one it was,
	// since the time-window check depends on it.
	EffectiveAt   time.Time
	UsedFetchTime bool

	// SearchText is the case-folded title+summary used for matching only,
	// never shown in place of the original title.
	SearchText string
}

// Match is an in-scope item together with the terms that put it in scope.
type Match struct {
	Item      Item
	Keywords  []string
	Locations []string
}

// Scope is the operator-editable filter configuration. A zero Cutoff means
// no hard cutoff is configured.
type Scope struct {
	Keywords  []string
	Locations []string
	Window    time.Duration
	Cutoff    time.Time
}
