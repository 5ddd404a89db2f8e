package model

// TaskMetric is one in-flight search task flattened from the per-node _tasks
// grouping, with the hosting node's name resolved.
type TaskMetric struct {
	Node               string `json:"node"`
	Action             string `json:"action"`
	Description        string `json:"description"`
	RunningTimeInNanos int64  `json:"running_time_in_nanos"`
}

// RunningMinutes converts the cumulative runtime to minutes.
func (t TaskMetric) RunningMinutes() float64 {
	return float64(t.RunningTimeInNanos) / 60e9
}

// RunningSeconds converts the cumulative runtime to seconds.
func (t TaskMetric) RunningSeconds() float64 {
	return float64(t.RunningTimeInNanos) / 1e9
}

// SlowTask is a task over the slow threshold, resolved for rendering.
type SlowTask struct {
	Node        string  `json:"node"`
	TimeMin     float64 `json:"time_min"`
	Description string  `json:"description"`
}

// ToxicTenant annotates a long-running search task with the tenant the query
// appears to belong to. TenantID is a best-effort extraction from the task
// description and may be "unknown"; nothing else depends on it.
type ToxicTenant struct {
	NodeName     string  `json:"node_name"`
	CPU          float64 `json:"cpu"`
	TenantID     string  `json:"tenant_id"`
	RunningTimeS float64 `json:"running_time_s"`
	Description  string  `json:"description"`
}
