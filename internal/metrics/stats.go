package metrics

import (
	"math"
	"sort"
)

// Summary is a basic statistics snapshot over RTT samples.
type Summary struct {
	Count    int
	AvgRTTMs float64
	P95RTTMs float64
	MinRTTMs float64
	MaxRTTMs float64
}

// Summarize computes summary statistics for RTT samples in milliseconds.
func Summarize(samples []float64) Summary {
	if len(samples) == 0 {
		return Summary{Count: 0}
	}

	values := append([]float64(nil), samples...)
	var sum float64
	minRTT := math.MaxFloat64
	maxRTT := 0.0

	for _, v := range values {
		sum += v
		if v < minRTT {
			minRTT = v
		}
		if v > maxRTT {
			maxRTT = v
		}
	}

	sort.Float64s(values)

	return Summary{
		Count:    len(values),
		AvgRTTMs: sum / float64(len(values)),
		P95RTTMs: percentile(values, 0.95),
		MinRTTMs: minRTT,
		MaxRTTMs: maxRTT,
	}
}

// LossPercent returns the share of probes that got no reply.
func LossPercent(sent, received int) float64 {
	if sent <= 0 {
		return 0
	}
	if received > sent {
		received = sent
	}
	return float64(sent-received) / float64(sent) * 100
}

func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	if p <= 0 {
		return values[0]
	}
	if p >= 1 {
		return values[len(values)-1]
	}
	idx := int(math.Ceil(p*float64(len(values)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(values) {
		idx = len(values) - 1
	}
	return values[idx]
}
