// Package analyze holds the stage analyzers. Every function here is pure: it
// looks at already fetched data or probe outcomes and returns Findings.
package analyze

import (
	"fmt"
	"strings"
	"time"

	"wlandoctor/internal/metrics"
	"wlandoctor/internal/model"
)

// Stage names stamped on Findings.
const (
	StageAuthentication = "authentication"
	StageDHCPDNS        = "dhcp_dns"
	StageInfrastructure = "infrastructure"
	StageHealth         = "health"
	StageDisconnection  = "disconnection"
	StagePing           = "ping"
	StageAPUptime       = "ap_uptime"
	StageAPHardware     = "ap_hardware"
	StageRFEnvironment  = "rf_environment"
)

// DisconnectThreshold is the number of disconnects in the window that is
// considered a pattern.
const DisconnectThreshold = 7

var (
	authKeywords = []string{
		"auth_failed", "assoc_failed", "eap_failure",
		"radius_failure", "802_1x_failure", "psk_failure",
	}
	dhcpDNSKeywords = []string{
		"dhcp_failure", "dhcp_timeout", "no_dhcp_response",
		"dns_failure", "dns_timeout", "ip_conflict",
	}
)

// Association reports whether the client was found at all.
func Association(client *model.ClientRecord) bool {
	return client != nil
}

// Authentication flags every event whose type names an authentication or
// association failure.
func Authentication(events []model.EventRecord) []model.Finding {
	var out []model.Finding
	for _, e := range events {
		if !containsAny(strings.ToLower(e.Type), authKeywords) {
			continue
		}
		reason := e.Reason
		if reason == "" {
			reason = "Unknown"
		}
		issue := e.Text
		if issue == "" {
			issue = "Authentication failure reported"
		}
		out = append(out, model.Finding{
			Stage:    StageAuthentication,
			Name:     e.Type,
			Value:    reason,
			Issue:    issue,
			Severity: model.SeverityHigh,
		})
	}
	return out
}

// DHCPDNS flags events mentioning DHCP or DNS failures in type or text.
func DHCPDNS(events []model.EventRecord) []model.Finding {
	var out []model.Finding
	for _, e := range events {
		if !containsAny(strings.ToLower(e.Type), dhcpDNSKeywords) &&
			!containsAny(strings.ToLower(e.Text), dhcpDNSKeywords) {
			continue
		}
		issue := e.Text
		if issue == "" {
			issue = "DHCP/DNS failure reported"
		}
		out = append(out, model.Finding{
			Stage:    StageDHCPDNS,
			Name:     e.Type,
			Value:    "DHCP/DNS",
			Issue:    issue,
			Severity: model.SeverityHigh,
		})
	}
	return out
}

// ClientHealth evaluates the client's signal, retry and latency telemetry.
func ClientHealth(c *model.ClientRecord) []model.Finding {
	if c == nil {
		return nil
	}
	var out []model.Finding
	add := func(f model.Finding, ok bool) {
		if ok {
			f.Stage = StageHealth
			out = append(out, f)
		}
	}
	add(metrics.Evaluate(metrics.RSSI, c.RSSI))
	add(metrics.Evaluate(metrics.SNR, c.SNR))
	add(metrics.EvaluateRetries(Retries(c)))
	add(metrics.Evaluate(metrics.Latency, c.LatencyMs))
	return out
}

// Retries extracts the client's retry counters.
func Retries(c *model.ClientRecord) metrics.RetryCounters {
	return metrics.RetryCounters{
		TxRetries: c.TxRetries,
		TxPackets: c.TxPackets,
		RxRetries: c.RxRetries,
		RxPackets: c.RxPackets,
	}
}

// CountDisconnects counts disconnect and disassociation events at or after
// now-window. Events without a timestamp are counted: the caller already
// bounded the query to the window.
func CountDisconnects(events []model.EventRecord, now time.Time, window time.Duration) int {
	since := now.Add(-window)
	n := 0
	for _, e := range events {
		t := strings.ToLower(e.Type)
		if !strings.Contains(t, "disconnect") && !strings.Contains(t, "disassoc") {
			continue
		}
		if !e.Timestamp.IsZero() && e.Timestamp.Before(since) {
			continue
		}
		n++
	}
	return n
}

// DisconnectionPattern flags DisconnectThreshold or more disconnects in the window.
func DisconnectionPattern(events []model.EventRecord, now time.Time, window time.Duration) []model.Finding {
	n := CountDisconnects(events, now, window)
	if n < DisconnectThreshold {
		return nil
	}
	mins := int(window.Minutes())
	return []model.Finding{{
		Stage:    StageDisconnection,
		Name:     "Disconnection Pattern",
		Value:    fmt.Sprintf("%d disconnects in %dmin", n, mins),
		Issue:    fmt.Sprintf("Frequent disconnections detected: %d in the last %d minutes (threshold: >=%d)", n, mins, DisconnectThreshold),
		Severity: model.SeverityHigh,
	}}
}

// APUptime flags access points that restarted recently or have run too long.
func APUptime(s *model.APStats) []model.Finding {
	if s == nil || s.UptimeSeconds == nil {
		return nil
	}
	f, ok := metrics.Evaluate(metrics.Uptime, model.Float(*s.UptimeSeconds/3600))
	if !ok {
		return nil
	}
	f.Stage = StageAPUptime
	return []model.Finding{f}
}

// APHardware checks CPU, memory and temperature of the serving access point.
func APHardware(s *model.APStats) []model.Finding {
	if s == nil {
		return nil
	}
	var out []model.Finding
	for _, m := range []struct {
		metric metrics.Metric
		value  *float64
	}{
		{metrics.CPU, s.CPUPercent},
		{metrics.Memory, s.MemoryPercent},
		{metrics.Temperature, s.TemperatureC},
	} {
		if f, ok := metrics.Evaluate(m.metric, m.value); ok {
			f.Stage = StageAPHardware
			out = append(out, f)
		}
	}
	return out
}

// RFEnvironment checks utilization and noise on the radio serving band.
func RFEnvironment(s *model.APStats, band string) []model.Finding {
	radio, ok := s.Radio(band)
	if !ok {
		return nil
	}
	where := fmt.Sprintf(" on channel %d (%s)", radio.Channel, bandLabel(band))

	var out []model.Finding
	for _, m := range []struct {
		metric metrics.Metric
		value  *float64
	}{
		{metrics.ChannelUtilization, radio.Utilization},
		{metrics.NoiseFloor, radio.NoiseFloor},
	} {
		if f, ok := metrics.Evaluate(m.metric, m.value); ok {
			f.Stage = StageRFEnvironment
			f.Issue += where
			out = append(out, f)
		}
	}
	return out
}

func bandLabel(band string) string {
	switch band {
	case "24":
		return "2.4 GHz"
	case "5", "6":
		return band + " GHz"
	}
	return band
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
