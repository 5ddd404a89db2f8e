package model

import "fmt"

// Severity indicates the urgency level of a finding.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityCritical
)

// String returns the lowercase wire name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	default:
		return "info"
	}
}

// MarshalJSON renders the severity as its wire name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", s.String())), nil
}

// FindingKind identifies the rule that produced a finding.
type FindingKind int

const (
	FindingHeapOldGenHigh FindingKind = iota
	FindingCpuHigh
	FindingGcExcessive
	FindingWriteRejections
	FindingCircuitBreakerTripped
	FindingUnassignedShards
	FindingShardImbalance
	FindingDustyShard
	FindingEmptyShard
	FindingMappingExplosion
	FindingConfigDrift
	FindingSlowTask
	FindingTemplateNoILM
	FindingTemplateHighShards
	FindingTemplateWildcard
)

var findingKindNames = map[FindingKind]string{
	FindingHeapOldGenHigh:        "heap_old_gen_high",
	FindingCpuHigh:               "cpu_high",
	FindingGcExcessive:           "gc_excessive",
	FindingWriteRejections:       "write_rejections",
	FindingCircuitBreakerTripped: "circuit_breaker_tripped",
	FindingUnassignedShards:      "unassigned_shards",
	FindingShardImbalance:        "shard_imbalance",
	FindingDustyShard:            "dusty_shard",
	FindingEmptyShard:            "empty_shard",
	FindingMappingExplosion:      "mapping_explosion",
	FindingConfigDrift:           "config_drift",
	FindingSlowTask:              "slow_task",
	FindingTemplateNoILM:         "template_no_ilm",
	FindingTemplateHighShards:    "template_high_shards",
	FindingTemplateWildcard:      "template_wildcard",
}

// String returns the snake_case wire name of the kind.
func (k FindingKind) String() string {
	if name, ok := findingKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// MarshalJSON renders the kind as its wire name.
func (k FindingKind) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", k.String())), nil
}

// Finding is a single diagnosed condition. Entity names the affected node,
// index, shard, pattern, template, or setting; Value carries the primary
// numeric evidence (percentage, count, MB, minutes) behind the diagnosis.
// Findings are immutable; the full set is regenerated on every evaluation and
// never accumulated across cycles.
type Finding struct {
	Kind     FindingKind `json:"kind"`
	Severity Severity    `json:"severity"`
	Entity   string      `json:"entity"`
	Value    float64     `json:"value"`
	Message  string      `json:"message"`
}
