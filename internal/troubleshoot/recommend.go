package troubleshoot

import (
	"fmt"

	"wlandoctor/internal/analyze"
	"wlandoctor/internal/metrics"
)

func notFoundRecommendations() []string {
	return []string{
		"Verify client MAC address format",
		"Check if client is connected to this organization",
		"Ensure API token has proper permissions",
		"Increase the search window with --hours-back",
	}
}

func authRecommendations() []string {
	return []string{
		"Check RADIUS server connectivity",
		"Verify user credentials and certificates",
		"Review ISE authorization policies",
		"Check 802.1X supplicant configuration",
	}
}

func infraRecommendations() []string {
	return []string{
		"Check DHCP server configuration and availability",
		"Verify DHCP pool has available addresses",
		"Test DNS server connectivity and resolution",
		"Check LAN/WAN connectivity",
		"Verify VLAN configuration",
	}
}

func allGoodRecommendations() []string {
	return []string{
		"All automated checks look good; proceed with manual troubleshooting steps as needed.",
	}
}

func healthRecommendations(run *Run) []string {
	c := run.client
	recs := []string{
		"Manual troubleshooting steps for engineer:",
		"  1. Perform LAN/WAN/DHCP/DNS checks based on client metrics",
		"  2. Assess AP and radio performance (client load, channel utilization, noise)",
		"  3. Evaluate AP hardware health if needed",
		"  4. Analyze the full RF environment for interference and coverage",
		"",
		"Metrics for assessment:",
		metricLine("RSSI", metrics.RSSI, c.RSSI),
		metricLine("SNR", metrics.SNR, c.SNR),
	}

	tx, rx := analyze.Retries(c).Rates()
	recs = append(recs,
		fmt.Sprintf("  • TX Retry Rate: %.1f%% (Good: < 5%%, Concern: 10%%+, Critical: 20%%+)", tx),
		fmt.Sprintf("  • RX Retry Rate: %.1f%% (Good: < 5%%, Concern: 10%%+, Critical: 20%%+)", rx),
	)
	if run.ping != nil && run.ping.avgMs != nil {
		recs = append(recs, fmt.Sprintf("  • Latency to %s: %.1fms, loss %.0f%% (Good: < 50ms, Fair: 50-100ms, Poor: 100ms+)",
			run.ping.target, *run.ping.avgMs, run.ping.loss))
	}
	if s := run.apStats; s != nil {
		if r, ok := s.Radio(c.Band); ok {
			recs = append(recs, fmt.Sprintf("  • AP radio: channel %d, %d clients, utilization %s, noise floor %s",
				r.Channel, r.NumClients, optional(r.Utilization, "%"), optional(r.NoiseFloor, " dBm")))
		}
	}

	actions := suggestedActions(run)
	if len(actions) > 0 {
		recs = append(recs, "", "Suggested actions based on metrics:")
		recs = append(recs, actions...)
	}
	return recs
}

func metricLine(label string, m metrics.Metric, v *float64) string {
	t, _ := metrics.Lookup(m)
	return fmt.Sprintf("  • %s: %s [%s] (Good: %s %s, Fair: %s, Poor: %s)",
		label, optional(v, " "+t.Unit), metrics.Classify(m, v), t.Good, t.Unit, t.Fair, t.Poor)
}

func optional(v *float64, unit string) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%g%s", *v, unit)
}

func suggestedActions(run *Run) []string {
	seen := make(map[string]bool)
	for _, f := range run.report.Findings {
		seen[f.Name] = true
		seen[f.Stage] = true
	}

	var out []string
	if seen[string(metrics.RSSI)] {
		out = append(out, "  • Low RSSI: Check AP placement, adjust power, or add AP coverage")
	}
	if seen[string(metrics.SNR)] {
		out = append(out, "  • Low SNR: Investigate RF interference, check for non-WiFi devices")
	}
	if seen[string(metrics.RetryRate)] {
		out = append(out, "  • High Retries: Check for channel congestion, co-channel interference, or RF obstacles")
	}
	if seen[analyze.StageDisconnection] {
		out = append(out, "  • Frequent Disconnects: Review roaming thresholds, client drivers and AP stability")
	}
	if seen[string(metrics.PacketLoss)] || seen[string(metrics.AvgLatency)] || seen[string(metrics.Latency)] {
		out = append(out, "  • Loss/Latency: Check uplink utilization and the client's power-save behavior")
	}
	if seen[analyze.StageAPUptime] {
		out = append(out, "  • AP Uptime: Schedule a maintenance reboot or investigate recent restarts")
	}
	if seen[analyze.StageAPHardware] {
		out = append(out, "  • AP Hardware: Check AP load, firmware and mounting environment")
	}
	if seen[analyze.StageRFEnvironment] {
		out = append(out, "  • RF Environment: Consider a channel change, lower channel width or band steering")
	}
	return out
}
