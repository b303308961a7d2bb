package analyze

import (
	"fmt"

	"wlandoctor/internal/metrics"
	"wlandoctor/internal/model"
	"wlandoctor/internal/probe"
	"wlandoctor/internal/stunutil"
)

// DNSCheck is the outcome of resolving one reference name.
type DNSCheck struct {
	Host string
	Err  error
}

// InfraResults carries the outcome of the infrastructure probes. Zero-value
// fields mean the check was not run.
type InfraResults struct {
	DNS []DNSCheck

	WANTarget  string
	WANChecked bool
	WANErr     error

	UDPChecked bool
	UDP        stunutil.Mapping
	UDPErr     error

	Gateway        string
	GatewayChecked bool
	GatewayPing    probe.PingResult
	GatewayErr     error
}

// Infrastructure turns probe outcomes into Findings.
func Infrastructure(r InfraResults) []model.Finding {
	var out []model.Finding

	failed := 0
	for _, c := range r.DNS {
		if c.Err != nil {
			failed++
		}
	}
	if len(r.DNS) > 0 && float64(failed) > float64(len(r.DNS))/2 {
		out = append(out, model.Finding{
			Stage:    StageInfrastructure,
			Name:     "DNS",
			Value:    fmt.Sprintf("%d/%d failed", failed, len(r.DNS)),
			Issue:    fmt.Sprintf("DNS resolution failing for %d/%d test domains", failed, len(r.DNS)),
			Severity: model.SeverityHigh,
		})
	}

	if r.WANChecked && r.WANErr != nil {
		out = append(out, model.Finding{
			Stage:    StageInfrastructure,
			Name:     "WAN",
			Value:    r.WANTarget,
			Issue:    "Unable to reach internet",
			Severity: model.SeverityHigh,
		})
	}

	if r.UDPChecked && r.UDPErr != nil {
		out = append(out, model.Finding{
			Stage:    StageInfrastructure,
			Name:     "UDP",
			Value:    "STUN",
			Issue:    fmt.Sprintf("Outbound UDP binding failed: %v", r.UDPErr),
			Severity: model.SeverityMedium,
		})
	}

	if r.GatewayChecked && (r.GatewayErr != nil || !r.GatewayPing.Reachable()) {
		out = append(out, model.Finding{
			Stage:    StageInfrastructure,
			Name:     "LAN",
			Value:    r.Gateway,
			Issue:    fmt.Sprintf("Gateway %s unreachable", r.Gateway),
			Severity: model.SeverityHigh,
		})
	}
	return out
}

// Connectivity evaluates the ping probe against the client. An empty clientIP
// means the probe could not run.
func Connectivity(clientIP string, res probe.PingResult, err error) []model.Finding {
	if clientIP == "" {
		return []model.Finding{{
			Stage:    StagePing,
			Name:     "IP Address",
			Value:    "Unknown",
			Issue:    "Client IP address not provided - skipping ping tests",
			Severity: model.SeverityMedium,
		}}
	}
	if err != nil {
		return []model.Finding{{
			Stage:    StagePing,
			Name:     "Connectivity Test",
			Value:    "Error",
			Issue:    fmt.Sprintf("Failed to test connectivity: %v", err),
			Severity: model.SeverityMedium,
		}}
	}

	var out []model.Finding
	lossPct := res.LossPercent
	if f, ok := metrics.Evaluate(metrics.PacketLoss, &lossPct); ok {
		f.Stage = StagePing
		out = append(out, f)
	}
	if f, ok := metrics.Evaluate(metrics.AvgLatency, res.AvgLatencyMs); ok {
		f.Stage = StagePing
		out = append(out, f)
	}
	return out
}
