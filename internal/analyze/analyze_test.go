package analyze

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wlandoctor/internal/model"
	"wlandoctor/internal/probe"
)

func TestAuthentication_MatchesKeywordsInType(t *testing.T) {
	t.Parallel()

	events := []model.EventRecord{
		{Type: "CLIENT_EAP_FAILURE", Reason: "timeout", Text: "EAP timed out"},
		{Type: "CLIENT_ASSOCIATION"},
		{Type: "info", Text: "psk_failure mentioned only in text"},
		{Type: "MARVIS_PSK_FAILURE"},
	}

	findings := Authentication(events)
	require.Len(t, findings, 2)
	assert.Equal(t, model.Finding{
		Stage:    StageAuthentication,
		Name:     "CLIENT_EAP_FAILURE",
		Value:    "timeout",
		Issue:    "EAP timed out",
		Severity: model.SeverityHigh,
	}, findings[0])
	assert.Equal(t, "Unknown", findings[1].Value)
}

func TestDHCPDNS_MatchesTypeOrText(t *testing.T) {
	t.Parallel()

	events := []model.EventRecord{
		{Type: "CLIENT_DHCP_TIMEOUT"},
		{Type: "CLIENT_INFO", Text: "detected ip_conflict with 10.0.0.4"},
		{Type: "CLIENT_AUTH_FAILED"},
	}

	findings := DHCPDNS(events)
	require.Len(t, findings, 2)
	for _, f := range findings {
		assert.Equal(t, model.SeverityHigh, f.Severity)
		assert.Equal(t, StageDHCPDNS, f.Stage)
	}
}

func TestClientHealth_RSSIScenario(t *testing.T) {
	t.Parallel()

	c := &model.ClientRecord{RSSI: model.Float(-75), SNR: model.Float(22)}
	findings := ClientHealth(c)
	require.Len(t, findings, 1)
	assert.Equal(t, "RSSI", findings[0].Name)
	assert.Equal(t, model.SeverityMedium, findings[0].Severity)
	assert.Equal(t, StageHealth, findings[0].Stage)
}

func TestClientHealth_MissingTelemetryIsClean(t *testing.T) {
	t.Parallel()

	assert.Empty(t, ClientHealth(&model.ClientRecord{}))
	assert.Empty(t, ClientHealth(nil))
}

func TestClientHealth_AllSignals(t *testing.T) {
	t.Parallel()

	c := &model.ClientRecord{
		RSSI:      model.Float(-85),
		SNR:       model.Float(8),
		TxRetries: 30, TxPackets: 100,
		LatencyMs: model.Float(250),
	}
	findings := ClientHealth(c)
	require.Len(t, findings, 4)
	for _, f := range findings {
		assert.Equal(t, model.SeverityHigh, f.Severity, f.Name)
	}
}

func disconnects(n int, at time.Time) []model.EventRecord {
	out := make([]model.EventRecord, 0, n)
	for i := 0; i < n; i++ {
		typ := "CLIENT_DISCONNECTED"
		if i%2 == 1 {
			typ = "CLIENT_DISASSOCIATION"
		}
		out = append(out, model.EventRecord{Type: typ, Timestamp: at.Add(-time.Duration(i) * 10 * time.Second)})
	}
	return out
}

func TestDisconnectionPattern_Threshold(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	window := 5 * time.Minute

	assert.Empty(t, DisconnectionPattern(disconnects(6, now), now, window))

	findings := DisconnectionPattern(disconnects(7, now), now, window)
	require.Len(t, findings, 1)
	assert.Equal(t, model.SeverityHigh, findings[0].Severity)
	assert.Equal(t, "7 disconnects in 5min", findings[0].Value)
}

func TestCountDisconnects_IgnoresOldAndUnrelated(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	events := append(disconnects(6, now),
		model.EventRecord{Type: "CLIENT_DISCONNECTED", Timestamp: now.Add(-10 * time.Minute)},
		model.EventRecord{Type: "CLIENT_ROAMED", Timestamp: now},
		model.EventRecord{Type: "client_disassoc"},
	)
	assert.Equal(t, 7, CountDisconnects(events, now, 5*time.Minute))
}

func TestAPUptime(t *testing.T) {
	t.Parallel()

	assert.Empty(t, APUptime(nil))
	assert.Empty(t, APUptime(&model.APStats{}))
	assert.Empty(t, APUptime(&model.APStats{UptimeSeconds: model.Float(5 * 24 * 3600)}))

	f := APUptime(&model.APStats{UptimeSeconds: model.Float(40 * 24 * 3600)})
	require.Len(t, f, 1)
	assert.Equal(t, "40.0 days", f[0].Value)
	assert.Equal(t, StageAPUptime, f[0].Stage)
}

func TestAPHardwareAndRF(t *testing.T) {
	t.Parallel()

	s := &model.APStats{
		CPUPercent:    model.Float(92),
		MemoryPercent: model.Float(50),
		TemperatureC:  model.Float(75),
		Radios: []model.RadioStats{
			{Band: "5", Channel: 36, Utilization: model.Float(88), NoiseFloor: model.Float(-95)},
			{Band: "24", Channel: 6, Utilization: model.Float(10), NoiseFloor: model.Float(-82)},
		},
	}

	hw := APHardware(s)
	require.Len(t, hw, 2)
	assert.Equal(t, "AP CPU", hw[0].Name)
	assert.Equal(t, model.SeverityHigh, hw[0].Severity)
	assert.Equal(t, "AP Temperature", hw[1].Name)
	assert.Equal(t, model.SeverityMedium, hw[1].Severity)

	rf := RFEnvironment(s, "5")
	require.Len(t, rf, 1)
	assert.Equal(t, "Channel Utilization", rf[0].Name)
	assert.Contains(t, rf[0].Issue, "channel 36 (5 GHz)")

	rf = RFEnvironment(s, "24")
	require.Len(t, rf, 1)
	assert.Equal(t, "Noise Floor", rf[0].Name)

	assert.Empty(t, RFEnvironment(s, "6"))
	assert.Empty(t, RFEnvironment(nil, "5"))
}

func TestInfrastructure(t *testing.T) {
	t.Parallel()

	fail := errors.New("no such host")
	clean := InfraResults{
		DNS:            []DNSCheck{{Host: "google.com"}, {Host: "cloudflare.com", Err: fail}, {Host: "one.one.one.one"}},
		WANChecked:     true,
		UDPChecked:     true,
		Gateway:        "10.0.0.1",
		GatewayChecked: true,
		GatewayPing:    probe.PingResult{Sent: 1, Received: 1},
	}
	assert.Empty(t, Infrastructure(clean), "one DNS failure out of three is tolerated")

	bad := clean
	bad.DNS = []DNSCheck{{Host: "google.com", Err: fail}, {Host: "cloudflare.com", Err: fail}, {Host: "one.one.one.one"}}
	bad.WANErr = fail
	bad.UDPErr = fail
	bad.GatewayPing = probe.PingResult{Sent: 1, Received: 0, LossPercent: 100}

	findings := Infrastructure(bad)
	require.Len(t, findings, 4)
	names := []string{findings[0].Name, findings[1].Name, findings[2].Name, findings[3].Name}
	assert.Equal(t, []string{"DNS", "WAN", "UDP", "LAN"}, names)
	assert.Equal(t, model.SeverityMedium, findings[2].Severity)
	assert.Equal(t, "Gateway 10.0.0.1 unreachable", findings[3].Issue)
}

func TestConnectivity(t *testing.T) {
	t.Parallel()

	f := Connectivity("", probe.PingResult{}, nil)
	require.Len(t, f, 1)
	assert.Equal(t, "IP Address", f[0].Name)
	assert.Equal(t, model.SeverityMedium, f[0].Severity)

	f = Connectivity("10.0.0.5", probe.PingResult{}, errors.New("ping: permission denied"))
	require.Len(t, f, 1)
	assert.Equal(t, "Connectivity Test", f[0].Name)

	assert.Empty(t, Connectivity("10.0.0.5", probe.PingResult{Sent: 10, Received: 10, AvgLatencyMs: model.Float(4)}, nil))

	f = Connectivity("10.0.0.5", probe.PingResult{Sent: 10, Received: 8, LossPercent: 20, AvgLatencyMs: model.Float(210)}, nil)
	require.Len(t, f, 2)
	assert.Equal(t, "Packet Loss", f[0].Name)
	assert.Equal(t, model.SeverityHigh, f[0].Severity)
	assert.Equal(t, "Average Latency", f[1].Name)
	assert.Equal(t, model.SeverityHigh, f[1].Severity)
}
