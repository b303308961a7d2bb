package troubleshoot

import (
	"context"
	"errors"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"wlandoctor/internal/api"
	"wlandoctor/internal/fetch"
	"wlandoctor/internal/logging"
	"wlandoctor/internal/model"
	"wlandoctor/internal/probe"
	"wlandoctor/internal/stunutil"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

const clientMAC = model.MAC("aa:bb:cc:dd:ee:ff")

type recordingSink struct {
	events []StageEvent
}

func (s *recordingSink) StageDone(ev StageEvent) { s.events = append(s.events, ev) }

func (s *recordingSink) stages() []string {
	out := make([]string, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, ev.Stage)
	}
	return out
}

type harness struct {
	gw     *fetch.MockGateway
	prober *probe.MockProber
	sink   *recordingSink
	engine *Engine
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	h := &harness{
		gw:     fetch.NewMockGateway(ctrl),
		prober: probe.NewMockProber(ctrl),
		sink:   &recordingSink{},
	}
	h.engine = New(h.gw, h.prober, Config{OrgID: "org-1"}, logging.NewTestLogger(),
		WithTraceSink(h.sink),
		WithClock(func() time.Time { return fixedNow }))
	return h
}

// liveClient makes the client visible in the single site s1.
func (h *harness) liveClient(stat api.ClientStat) {
	stat.MAC = "aabbccddeeff"
	h.gw.EXPECT().Sites(gomock.Any(), "org-1").Return([]api.Site{{ID: "s1", Name: "HQ"}}, nil)
	h.gw.EXPECT().SiteClientStats(gomock.Any(), "s1", "aabbccddeeff").Return([]api.ClientStat{stat}, nil)
}

func (h *harness) events(window time.Duration, events ...api.Event) *gomock.Call {
	return h.gw.EXPECT().ClientEvents(gomock.Any(), "org-1", "aabbccddeeff", api.EventQuery{
		Start: fixedNow.Add(-window),
		End:   fixedNow,
		Limit: 100,
	}).Return(api.EventsResponse{Results: events}, nil)
}

func (h *harness) run(t *testing.T, req Request) *model.Report {
	t.Helper()
	if req.ClientMAC == "" {
		req.ClientMAC = clientMAC
	}
	rep, err := h.engine.Troubleshoot(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, rep)
	return rep
}

func TestTroubleshoot_ClientNotFound(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.gw.EXPECT().Sites(gomock.Any(), "org-1").Return([]api.Site{{ID: "s1"}}, nil)
	h.gw.EXPECT().SiteClientStats(gomock.Any(), "s1", gomock.Any()).Return(nil, nil)
	h.gw.EXPECT().SearchClients(gomock.Any(), "org-1", gomock.Any()).Return(api.ClientSearchResponse{}, nil)

	rep := h.run(t, Request{})
	assert.Equal(t, model.StatusError, rep.Status)
	assert.Equal(t, model.EscalationNone, rep.EscalationPath)
	assert.Nil(t, rep.Client)
	assert.Empty(t, rep.StepsCompleted)
	assert.Empty(t, rep.Findings)
	assert.Contains(t, rep.Recommendations, "Verify client MAC address format")
	assert.Contains(t, rep.Error, "aa:bb:cc:dd:ee:ff")
	assert.Equal(t, []string{"association"}, h.sink.stages())
	assert.Equal(t, OutcomeTerminal, h.sink.events[0].Outcome)
}

func TestTroubleshoot_AuthenticationShortCircuits(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.liveClient(api.ClientStat{RSSI: model.Float(-85), SNR: model.Float(5), APMAC: "001122334455"})
	h.gw.EXPECT().SiteDevices(gomock.Any(), "s1").Return([]api.Device{
		{ID: "ap-1", MAC: "00:11:22:33:44:55", Name: "AP-Lobby", Type: "ap"},
	}, nil)
	h.events(24*time.Hour,
		api.Event{Type: "eap_failure", Reason: "bad certificate", Text: "EAP-TLS handshake failed"},
		api.Event{Type: "CLIENT_DHCP_FAILURE"},
	).Times(1)
	h.gw.EXPECT().DeviceStats(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	rep := h.run(t, Request{ClientIP: "10.0.0.5"})
	assert.Equal(t, model.StatusAuthenticationIssues, rep.Status)
	assert.Equal(t, model.EscalationIdentity, rep.EscalationPath)
	assert.Equal(t, []string{StepAssociation, StepAuthentication}, rep.StepsCompleted)
	require.Len(t, rep.Findings, 1)
	assert.Equal(t, "eap_failure", rep.Findings[0].Name)
	assert.Equal(t, model.SeverityHigh, rep.Findings[0].Severity)
	require.NotNil(t, rep.Client)
	assert.Equal(t, "AP-Lobby", rep.Client.APName)
	assert.Equal(t, []string{"association", "authentication"}, h.sink.stages())
}

func TestTroubleshoot_DHCPRunsInfrastructureChecks(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.liveClient(api.ClientStat{IP: "10.20.30.40", RSSI: model.Float(-50)})
	h.events(24*time.Hour, api.Event{Type: "CLIENT_INFO", Text: "dhcp_timeout after 3 discovers"})

	notFound := errors.New("no such host")
	h.prober.EXPECT().Resolve(gomock.Any(), "google.com").Return(nil, notFound)
	h.prober.EXPECT().Resolve(gomock.Any(), "cloudflare.com").Return(nil, notFound)
	h.prober.EXPECT().Resolve(gomock.Any(), "one.one.one.one").Return([]string{"1.1.1.1"}, nil)
	h.prober.EXPECT().Dial(gomock.Any(), "8.8.8.8:443").Return(20*time.Millisecond, nil)
	h.prober.EXPECT().MappedAddress(gomock.Any(), gomock.Any()).Return(stunutil.Mapping{Addr: "1.2.3.4:5000"}, nil)
	h.prober.EXPECT().Ping(gomock.Any(), "10.20.30.1", 1, time.Duration(0)).
		Return(probe.PingResult{Target: "10.20.30.1", Sent: 1, Received: 0, LossPercent: 100}, nil)

	rep := h.run(t, Request{})
	assert.Equal(t, model.StatusInfrastructureIssues, rep.Status)
	assert.Equal(t, model.EscalationInfrastructure, rep.EscalationPath)
	assert.Equal(t, []string{StepAssociation, StepAuthentication, StepDHCPDNS, StepInfrastructure}, rep.StepsCompleted)

	var names []string
	for _, f := range rep.Findings {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"CLIENT_INFO", "DNS", "LAN"}, names)
}

func TestDefaultDNSTargetsNeedResolution(t *testing.T) {
	t.Parallel()

	require.NotEmpty(t, DefaultDNSTargets)
	for _, host := range DefaultDNSTargets {
		_, err := netip.ParseAddr(host)
		assert.Error(t, err, "%s is an address literal and resolves without a query", host)
	}
}

func TestTroubleshoot_RSSIScenario(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.liveClient(api.ClientStat{RSSI: model.Float(-75), SNR: model.Float(22), TxPkts: 1000, RxPkts: 1000})
	h.events(24 * time.Hour)
	h.events(5 * time.Minute)
	h.prober.EXPECT().Ping(gomock.Any(), "10.0.0.5", 10, 200*time.Millisecond).
		Return(probe.PingResult{Target: "10.0.0.5", Sent: 10, Received: 10, AvgLatencyMs: model.Float(3)}, nil)

	rep := h.run(t, Request{ClientIP: "10.0.0.5"})
	assert.Equal(t, model.StatusClientHealthIssues, rep.Status)
	assert.Equal(t, model.EscalationManual, rep.EscalationPath)

	require.Len(t, rep.Findings, 1)
	assert.Equal(t, "RSSI", rep.Findings[0].Name)
	assert.Equal(t, model.SeverityMedium, rep.Findings[0].Severity)
	high, medium := rep.CountBySeverity()
	assert.Equal(t, 0, high)
	assert.Equal(t, 1, medium)

	assert.Equal(t, []string{
		StepAssociation, StepAuthentication, StepDHCPDNS, StepHealth,
		StepDisconnection, StepPing, StepAPUptime, StepAPHardware, StepRFEnvironment,
	}, rep.StepsCompleted)
	assert.Contains(t, rep.Recommendations, "  • RSSI: -75 dBm [poor] (Good: > -67 dBm, Fair: -67 to -70, Poor: < -70)")
	assert.Contains(t, rep.Recommendations, "  • Low RSSI: Check AP placement, adjust power, or add AP coverage")
	assert.Equal(t, []string{
		"association", "authentication", "dhcp_dns", "health",
		"disconnection", "ping", "ap_uptime", "ap_hardware", "rf_environment",
	}, h.sink.stages())
}

func TestTroubleshoot_DisconnectionThreshold(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		n    int
		want bool
	}{{6, false}, {7, true}} {
		h := newHarness(t)
		h.liveClient(api.ClientStat{RSSI: model.Float(-75)})
		h.events(24 * time.Hour)

		var recent []api.Event
		for i := 0; i < tc.n; i++ {
			ts := float64(fixedNow.Add(-time.Duration(i) * 20 * time.Second).Unix())
			recent = append(recent, api.Event{Type: "CLIENT_DISCONNECTED", Timestamp: ts})
		}
		h.events(5*time.Minute, recent...)

		rep := h.run(t, Request{})

		found := false
		for _, f := range rep.Findings {
			if f.Name == "Disconnection Pattern" {
				found = true
				assert.Equal(t, model.SeverityHigh, f.Severity)
			}
		}
		assert.Equal(t, tc.want, found, "%d disconnects", tc.n)
		assert.Contains(t, rep.Findings, model.Finding{
			Stage:    "ping",
			Name:     "IP Address",
			Value:    "Unknown",
			Issue:    "Client IP address not provided - skipping ping tests",
			Severity: model.SeverityMedium,
		})
	}
}

func TestTroubleshoot_HealthBranchUsesAPStats(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.liveClient(api.ClientStat{
		IP: "10.0.0.5", RSSI: model.Float(-72), SNR: model.Float(30), Band: "5",
		APMAC: "001122334455", APID: "ap-1",
	})
	h.gw.EXPECT().SiteDevices(gomock.Any(), "s1").Return([]api.Device{
		{ID: "ap-1", MAC: "001122334455", Name: "AP-2F", Type: "ap"},
	}, nil)
	h.events(24 * time.Hour)
	h.events(5 * time.Minute)
	h.prober.EXPECT().Ping(gomock.Any(), "10.0.0.5", 10, 200*time.Millisecond).
		Return(probe.PingResult{Sent: 10, Received: 10, AvgLatencyMs: model.Float(150)}, nil)
	h.gw.EXPECT().DeviceStats(gomock.Any(), "s1", "ap-1").Return(api.DeviceStats{
		Uptime:  model.Float(1800),
		CPUUtil: model.Float(95),
		RadioStat: map[string]api.RadioStat{
			"band_5": {Channel: 36, UtilAll: model.Float(90), NoiseFloor: model.Float(-90)},
		},
	}, nil)

	rep := h.run(t, Request{})
	assert.Equal(t, model.StatusClientHealthIssues, rep.Status)

	var names []string
	for _, f := range rep.Findings {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"RSSI", "Average Latency", "AP Uptime", "AP CPU", "Channel Utilization"}, names)
	assert.Empty(t, rep.DataGaps)
}

func TestTroubleshoot_AllGood(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.liveClient(api.ClientStat{RSSI: model.Float(-55), SNR: model.Float(35), TxPkts: 100, TxRetries: 2})
	h.events(24 * time.Hour)

	rep := h.run(t, Request{ClientIP: "10.0.0.5"})
	assert.Equal(t, model.StatusAllGood, rep.Status)
	assert.Equal(t, model.EscalationManualIfNeeded, rep.EscalationPath)
	assert.Empty(t, rep.Findings)
	assert.Equal(t, []string{StepAssociation, StepAuthentication, StepDHCPDNS, StepHealth, StepAllComplete}, rep.StepsCompleted)
}

func TestTroubleshoot_GatewayFailuresBecomeGaps(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.liveClient(api.ClientStat{RSSI: model.Float(-55)})
	h.gw.EXPECT().ClientEvents(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(api.EventsResponse{}, &api.APIError{Err: api.ErrRateLimited})

	rep := h.run(t, Request{})
	assert.Equal(t, model.StatusAllGood, rep.Status)
	assert.Equal(t, []string{"client events"}, rep.DataGaps)
}

func TestTroubleshoot_PanicBecomesErrorStatus(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.gw.EXPECT().Sites(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, string) ([]api.Site, error) {
		panic("boom")
	})

	rep := h.run(t, Request{})
	assert.Equal(t, model.StatusError, rep.Status)
	assert.Equal(t, "internal error: boom", rep.Error)
}

func TestTroubleshoot_CanceledBeforeStart(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep, err := h.engine.Troubleshoot(ctx, Request{ClientMAC: clientMAC})
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, rep)
}

func TestTroubleshoot_InvalidRequest(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	_, err := h.engine.Troubleshoot(context.Background(), Request{})
	require.ErrorIs(t, err, ErrMissingMAC)

	e := New(h.gw, h.prober, Config{}, logging.NewTestLogger())
	_, err = e.Troubleshoot(context.Background(), Request{ClientMAC: clientMAC})
	require.ErrorIs(t, err, ErrMissingOrg)
}
