package model

import "time"

const defaultSparklineCap = 60

// SparklinePoint is one poll cycle's worth of sparkline data: the
// cluster-wide write and search rates plus the worst per-node old-gen heap
// occupancy seen that cycle.
type SparklinePoint struct {
	Timestamp        time.Time
	WriteRate        float64
	SearchRate       float64
	MaxOldGenPercent float64
}

// SparklineHistory keeps the most recent points in a fixed-capacity ring.
// Once full, each Push displaces the oldest point.
type SparklineHistory struct {
	buf   []SparklinePoint
	total int // points pushed since creation or Clear
}

// NewSparklineHistory creates a ring holding capacity points, or
// defaultSparklineCap when capacity is not positive.
func NewSparklineHistory(capacity int) *SparklineHistory {
	if capacity <= 0 {
		capacity = defaultSparklineCap
	}
	return &SparklineHistory{buf: make([]SparklinePoint, capacity)}
}

// Push records p, displacing the oldest point when the ring is full.
func (h *SparklineHistory) Push(p SparklinePoint) {
	h.buf[h.total%len(h.buf)] = p
	h.total++
}

// Len reports how many points the ring currently holds.
func (h *SparklineHistory) Len() int {
	if h.total > len(h.buf) {
		return len(h.buf)
	}
	return h.total
}

// Clear empties the ring.
func (h *SparklineHistory) Clear() {
	h.total = 0
}

// Values returns the named series oldest-first. Valid names: "writeRate",
// "searchRate", "maxOldGen"; anything else yields zeros.
func (h *SparklineHistory) Values(field string) []float64 {
	n := h.Len()
	out := make([]float64, n)
	first := h.total - n
	for i := range out {
		out[i] = series(h.buf[(first+i)%len(h.buf)], field)
	}
	return out
}

func series(p SparklinePoint, field string) float64 {
	switch field {
	case "writeRate":
		return p.WriteRate
	case "searchRate":
		return p.SearchRate
	case "maxOldGen":
		return p.MaxOldGenPercent
	}
	return 0
}
