package probe

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"wlandoctor/internal/metrics"
)

// PingResult summarizes one ping run. AvgLatencyMs is nil when no reply came back.
type PingResult struct {
	Target       string
	Sent         int
	Received     int
	LossPercent  float64
	AvgLatencyMs *float64
	Samples      metrics.Summary
}

var ErrUnparsable = errors.New("unrecognized ping output")

var (
	lossRe      = regexp.MustCompile(`([\d.]+)% (?:packet )?loss`)
	unixCountRe = regexp.MustCompile(`(\d+) packets transmitted, (\d+) (?:packets )?received`)
	winCountRe  = regexp.MustCompile(`Sent = (\d+), Received = (\d+)`)
	unixAvgRe   = regexp.MustCompile(`= [\d.]+/([\d.]+)/[\d.]+`)
	winAvgRe    = regexp.MustCompile(`Average = (\d+)ms`)
	sampleRe    = regexp.MustCompile(`time[=<]([\d.]+) ?ms`)
)

// PingArgs builds the system ping command line for goos.
func PingArgs(goos, target string, count int, interval, wait time.Duration) []string {
	if count <= 0 {
		count = 1
	}
	if goos == "windows" {
		return []string{"-n", strconv.Itoa(count), "-w", strconv.FormatInt(wait.Milliseconds(), 10), target}
	}

	args := []string{"-c", strconv.Itoa(count)}
	if interval > 0 && count > 1 {
		args = append(args, "-i", strconv.FormatFloat(interval.Seconds(), 'f', -1, 64))
	}
	switch goos {
	case "darwin", "freebsd", "openbsd", "netbsd":
		args = append(args, "-W", strconv.FormatInt(wait.Milliseconds(), 10))
	default:
		args = append(args, "-W", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
	}
	return append(args, target)
}

// Ping runs the system ping and parses its summary.
func (l *Local) Ping(ctx context.Context, target string, count int, interval time.Duration) (PingResult, error) {
	budget := l.timeout + time.Duration(count)*interval
	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	args := PingArgs(l.goos, target, count, interval, 2*time.Second)
	res, err := l.runner.Output(ctx, "ping", args...)
	if err != nil {
		return PingResult{Target: target}, fmt.Errorf("ping %s: %w", target, err)
	}

	out, ok := ParsePing(res.Stdout)
	out.Target = target
	if !ok {
		if res.ExitCode != 0 {
			return out, fmt.Errorf("ping %s: exit status %d", target, res.ExitCode)
		}
		return out, fmt.Errorf("ping %s: %w", target, ErrUnparsable)
	}

	ev := l.log.Debug().Str("target", target).Float64("loss", out.LossPercent)
	if out.AvgLatencyMs != nil {
		ev = ev.Float64("avg_ms", *out.AvgLatencyMs)
	}
	ev.Msg("Ping finished")
	return out, nil
}

// ParsePing extracts loss and average latency from Linux, BSD/macOS or
// Windows ping output. ok is false when no summary could be found.
func ParsePing(output string) (PingResult, bool) {
	var res PingResult

	var samples []float64
	for _, m := range sampleRe.FindAllStringSubmatch(output, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			samples = append(samples, v)
		}
	}
	res.Samples = metrics.Summarize(samples)

	counted := false
	if m := unixCountRe.FindStringSubmatch(output); m != nil {
		res.Sent, _ = strconv.Atoi(m[1])
		res.Received, _ = strconv.Atoi(m[2])
		counted = true
	} else if m := winCountRe.FindStringSubmatch(output); m != nil {
		res.Sent, _ = strconv.Atoi(m[1])
		res.Received, _ = strconv.Atoi(m[2])
		counted = true
	}

	if m := lossRe.FindStringSubmatch(output); m != nil {
		res.LossPercent, _ = strconv.ParseFloat(m[1], 64)
	} else if counted {
		res.LossPercent = metrics.LossPercent(res.Sent, res.Received)
	} else {
		return res, false
	}

	if m := unixAvgRe.FindStringSubmatch(output); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			res.AvgLatencyMs = &v
		}
	} else if m := winAvgRe.FindStringSubmatch(output); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			res.AvgLatencyMs = &v
		}
	}
	if res.AvgLatencyMs == nil && res.Samples.Count > 0 {
		avg := res.Samples.AvgRTTMs
		res.AvgLatencyMs = &avg
	}
	return res, true
}

// Reachable reports whether at least one reply came back.
func (r PingResult) Reachable() bool {
	if r.Sent > 0 {
		return r.Received > 0
	}
	return r.LossPercent < 100
}

// String renders the result for logs and report values.
func (r PingResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %.0f%% loss", r.Target, r.LossPercent)
	if r.AvgLatencyMs != nil {
		fmt.Fprintf(&b, ", avg %.1fms", *r.AvgLatencyMs)
	}
	return b.String()
}
