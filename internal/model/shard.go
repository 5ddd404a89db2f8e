package model

import "regexp"

// ShardMetric is a single cat-shards row. No joining happens at fetch time;
// consumers join against IndexMetric rates on demand.
type ShardMetric struct {
	Index   string  `json:"index"`
	Shard   int     `json:"shard"`
	Primary bool    `json:"primary"`
	State   string  `json:"state"`
	Docs    int64   `json:"docs"`
	StoreMB float64 `json:"store_mb"`
	IP      string  `json:"ip"`
	Node    string  `json:"node"`
}

// Shard states as reported by _cat/shards.
const (
	ShardStateStarted    = "STARTED"
	ShardStateUnassigned = "UNASSIGNED"
)

// patternRe matches the date (YYYY-MM-DD / YYYY.MM.DD) and rollover-sequence
// (-NNNNNN) suffixes that index lifecycle tooling appends to index names. The
// date alternative swallows a leading dash when present so the replacement
// never produces a doubled dash.
var patternRe = regexp.MustCompile(`-?\d{4}[-.]\d{2}[-.]\d{2}|-\d{6}`)

// PatternFor collapses date or rollover-sequence suffixes in an index name to
// "-*", so every member of a rollover/datastream family maps to one logical
// pattern. Names without such a suffix are returned unchanged.
//
//	logs-2024-01-15  -> logs-*
//	logs-2024.02.20  -> logs-*
//	metrics-000123   -> metrics-*
//	plain-index      -> plain-index
func PatternFor(index string) string {
	return patternRe.ReplaceAllString(index, "-*")
}

// NodeShardCount is one node's primary-shard count within a pattern.
type NodeShardCount struct {
	Node  string `json:"node"`
	Count int    `json:"shard_count"`
}

// PatternSkew describes how unevenly one index pattern's primary shards are
// spread across the nodes hosting them. StdDev is the population standard
// deviation of the per-node counts. Patterns hosted by a single node are never
// reported (a spread of one sample has no meaningful deviation).
type PatternSkew struct {
	Pattern    string           `json:"pattern"`
	StdDev     float64          `json:"std_dev"`
	Primaries  int              `json:"primaries"`
	NodeCounts []NodeShardCount `json:"nodes"`
	WriteRate  float64          `json:"write_rate"`
	SearchRate float64          `json:"search_rate"`
}
