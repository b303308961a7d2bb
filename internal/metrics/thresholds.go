package metrics

// Metric names a numeric measurement the evaluator knows how to classify.
type Metric string

const (
	RSSI               Metric = "RSSI"
	SNR                Metric = "SNR"
	RetryRate          Metric = "Retries"
	PacketLoss         Metric = "Packet Loss"
	Latency            Metric = "Latency"
	AvgLatency         Metric = "Average Latency"
	CPU                Metric = "AP CPU"
	Memory             Metric = "AP Memory"
	Temperature        Metric = "AP Temperature"
	ChannelUtilization Metric = "Channel Utilization"
	NoiseFloor         Metric = "Noise Floor"
	Uptime             Metric = "AP Uptime"
)

// Threshold describes the boundaries for one metric.
//
// Flag is where a Finding starts and Critical is where it becomes HIGH. Floor
// is only set for metrics that are also bad when too low (uptime).
type Threshold struct {
	Unit     string
	Good     string
	Fair     string
	Poor     string
	Flag     float64
	Critical float64
	Floor    float64
}

var table = map[Metric]Threshold{
	RSSI:               {Unit: "dBm", Good: "> -67", Fair: "-67 to -70", Poor: "< -70", Flag: -67, Critical: -80},
	SNR:                {Unit: "dB", Good: "> 25", Fair: "20 to 25", Poor: "< 15", Flag: 15, Critical: 10},
	RetryRate:          {Unit: "%", Good: "< 5", Fair: "5 to 10", Poor: "> 10", Flag: 10, Critical: 20},
	PacketLoss:         {Unit: "%", Good: "<= 5", Poor: "> 5", Flag: 5, Critical: 15},
	Latency:            {Unit: "ms", Good: "<= 100", Poor: "> 100", Flag: 100, Critical: 200},
	AvgLatency:         {Unit: "ms", Good: "<= 100", Poor: "> 100", Flag: 100, Critical: 200},
	CPU:                {Unit: "%", Good: "<= 80", Poor: "> 80", Flag: 80, Critical: 90},
	Memory:             {Unit: "%", Good: "<= 85", Poor: "> 85", Flag: 85, Critical: 95},
	Temperature:        {Unit: "°C", Good: "<= 70", Poor: "> 70", Flag: 70, Critical: 80},
	ChannelUtilization: {Unit: "%", Good: "<= 70", Poor: "> 70", Flag: 70, Critical: 85},
	NoiseFloor:         {Unit: "dBm", Good: "< -85", Poor: ">= -85", Flag: -85, Critical: -80},
	Uptime:             {Unit: "h", Good: "1 to 720", Poor: "< 1 or > 720", Flag: 720, Floor: 1},
}

// Lookup returns the threshold for m. The table is read-only.
func Lookup(m Metric) (Threshold, bool) {
	t, ok := table[m]
	return t, ok
}

// Band is a coarse quality classification used for reporting.
type Band string

const (
	BandGood    Band = "good"
	BandFair    Band = "fair"
	BandPoor    Band = "poor"
	BandUnknown Band = "unknown"
)

// Classify places value into good/fair/poor for display. It never produces
// Findings; use Evaluate for that.
func Classify(m Metric, value *float64) Band {
	if value == nil {
		return BandUnknown
	}
	v := *value
	switch m {
	case RSSI:
		switch {
		case v > -67:
			return BandGood
		case v >= -70:
			return BandFair
		}
		return BandPoor
	case SNR:
		switch {
		case v > 25:
			return BandGood
		case v >= 15:
			return BandFair
		}
		return BandPoor
	case RetryRate:
		switch {
		case v < 5:
			return BandGood
		case v <= 10:
			return BandFair
		}
		return BandPoor
	}

	if _, flagged := Evaluate(m, value); flagged {
		return BandPoor
	}
	if _, ok := table[m]; !ok {
		return BandUnknown
	}
	return BandGood
}
