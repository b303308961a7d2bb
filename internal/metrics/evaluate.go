package metrics

import (
	"fmt"
	"math"
	"strconv"

	"wlandoctor/internal/model"
)

// Evaluate classifies a single metric value. A nil value is unknown, not bad,
// and never produces a Finding.
func Evaluate(m Metric, value *float64) (model.Finding, bool) {
	if value == nil || math.IsNaN(*value) {
		return model.Finding{}, false
	}
	v := *value

	switch m {
	case RSSI:
		return evalRSSI(v)
	case SNR:
		return evalSNR(v)
	case PacketLoss:
		return evalPacketLoss(v)
	case Latency:
		return evalLatency(v)
	case AvgLatency:
		return evalAvgLatency(v)
	case CPU:
		return evalAbove(m, v, "AP CPU utilization high")
	case Memory:
		return evalAbove(m, v, "AP memory utilization high")
	case Temperature:
		return evalAbove(m, v, "AP temperature high")
	case ChannelUtilization:
		return evalAbove(m, v, "Channel utilization high")
	case NoiseFloor:
		return evalNoise(v)
	case Uptime:
		return evalUptime(v)
	}
	return model.Finding{}, false
}

func evalRSSI(v float64) (model.Finding, bool) {
	t := table[RSSI]
	if v > t.Flag {
		return model.Finding{}, false
	}
	sev := model.SeverityMedium
	if v < t.Critical {
		sev = model.SeverityHigh
	}
	label := "Poor signal strength"
	if v >= -70 {
		label = "Marginal signal strength"
	}
	return model.Finding{
		Name:     string(RSSI),
		Value:    num(v) + " dBm",
		Issue:    fmt.Sprintf("%s: %s dBm (should be > %s dBm)", label, num(v), num(t.Flag)),
		Severity: sev,
	}, true
}

func evalSNR(v float64) (model.Finding, bool) {
	t := table[SNR]
	if v >= t.Flag {
		return model.Finding{}, false
	}
	sev := model.SeverityMedium
	if v < t.Critical {
		sev = model.SeverityHigh
	}
	return model.Finding{
		Name:     string(SNR),
		Value:    num(v) + " dB",
		Issue:    fmt.Sprintf("Poor signal quality: %s dB SNR (should be > 20 dB)", num(v)),
		Severity: sev,
	}, true
}

func evalPacketLoss(v float64) (model.Finding, bool) {
	t := table[PacketLoss]
	if v <= t.Flag {
		return model.Finding{}, false
	}
	sev := model.SeverityMedium
	if v > t.Critical {
		sev = model.SeverityHigh
	}
	return model.Finding{
		Name:     string(PacketLoss),
		Value:    num(v) + "%",
		Issue:    fmt.Sprintf("High packet loss: %s%% (should be < %s%%)", num(v), num(t.Flag)),
		Severity: sev,
	}, true
}

func evalLatency(v float64) (model.Finding, bool) {
	t := table[Latency]
	if v <= t.Flag {
		return model.Finding{}, false
	}
	return model.Finding{
		Name:     string(Latency),
		Value:    num(v) + " ms",
		Issue:    fmt.Sprintf("High latency detected: %s ms", num(v)),
		Severity: latencySeverity(v, t),
	}, true
}

func evalAvgLatency(v float64) (model.Finding, bool) {
	t := table[AvgLatency]
	if v <= t.Flag {
		return model.Finding{}, false
	}
	return model.Finding{
		Name:     string(AvgLatency),
		Value:    fmt.Sprintf("%.1fms", v),
		Issue:    fmt.Sprintf("High average latency: %.1fms (should be < %sms)", v, num(t.Flag)),
		Severity: latencySeverity(v, t),
	}, true
}

func latencySeverity(v float64, t Threshold) model.Severity {
	if v >= t.Critical {
		return model.SeverityHigh
	}
	return model.SeverityMedium
}

func evalAbove(m Metric, v float64, label string) (model.Finding, bool) {
	t := table[m]
	if v <= t.Flag {
		return model.Finding{}, false
	}
	sev := model.SeverityMedium
	if v > t.Critical {
		sev = model.SeverityHigh
	}
	return model.Finding{
		Name:     string(m),
		Value:    num(v) + unitSuffix(t.Unit),
		Issue:    fmt.Sprintf("%s: %s%s (should be <= %s%s)", label, num(v), unitSuffix(t.Unit), num(t.Flag), unitSuffix(t.Unit)),
		Severity: sev,
	}, true
}

func evalNoise(v float64) (model.Finding, bool) {
	t := table[NoiseFloor]
	if v < t.Flag {
		return model.Finding{}, false
	}
	sev := model.SeverityMedium
	if v >= t.Critical {
		sev = model.SeverityHigh
	}
	return model.Finding{
		Name:     string(NoiseFloor),
		Value:    num(v) + " dBm",
		Issue:    fmt.Sprintf("Elevated noise floor: %s dBm (should be < %s dBm)", num(v), num(t.Flag)),
		Severity: sev,
	}, true
}

// evalUptime takes hours.
func evalUptime(hours float64) (model.Finding, bool) {
	t := table[Uptime]
	var reason string
	switch {
	case hours > t.Flag:
		reason = "High uptime - consider scheduled reboot"
	case hours < t.Floor:
		reason = "Recent restart detected - may indicate stability issues"
	default:
		return model.Finding{}, false
	}
	return model.Finding{
		Name:     string(Uptime),
		Value:    fmt.Sprintf("%.1f days", hours/24),
		Issue:    reason,
		Severity: model.SeverityMedium,
	}, true
}

// RetryCounters holds raw retransmission counters for one client.
type RetryCounters struct {
	TxRetries int64
	TxPackets int64
	RxRetries int64
	RxPackets int64
}

// retryRate returns retries as a percentage of packets, 0 when no packets were counted.
func retryRate(retries, packets int64) float64 {
	if packets <= 0 {
		return 0
	}
	return float64(retries) / float64(packets) * 100
}

// Rates returns the TX and RX retry percentages.
func (c RetryCounters) Rates() (tx, rx float64) {
	return retryRate(c.TxRetries, c.TxPackets), retryRate(c.RxRetries, c.RxPackets)
}

// EvaluateRetries flags retry rates above 10% in either direction.
func EvaluateRetries(c RetryCounters) (model.Finding, bool) {
	t := table[RetryRate]
	tx, rx := c.Rates()
	if tx <= t.Flag && rx <= t.Flag {
		return model.Finding{}, false
	}
	sev := model.SeverityMedium
	if math.Max(tx, rx) > t.Critical {
		sev = model.SeverityHigh
	}
	return model.Finding{
		Name: string(RetryRate),
		Value: fmt.Sprintf("TX: %.1f%% (%d/%d), RX: %.1f%% (%d/%d)",
			tx, c.TxRetries, c.TxPackets, rx, c.RxRetries, c.RxPackets),
		Issue:    fmt.Sprintf("High retry rates detected - TX: %.1f%%, RX: %.1f%% (should be < %s%%)", tx, rx, num(t.Flag)),
		Severity: sev,
	}, true
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func unitSuffix(unit string) string {
	if unit == "%" {
		return unit
	}
	return " " + unit
}
