package troubleshoot

import (
	"context"
	"fmt"

	"wlandoctor/internal/addrutil"
	"wlandoctor/internal/analyze"
	"wlandoctor/internal/model"
	"wlandoctor/internal/probe"
)

type state int

const (
	stateAssociation state = iota
	stateAuthentication
	stateDHCPDNS
	stateHealth
	stateDisconnection
	statePing
	stateAPUptime
	stateAPHardware
	stateRFEnvironment
	stateDone
)

var stateNames = [...]string{
	stateAssociation:    "association",
	stateAuthentication: "authentication",
	stateDHCPDNS:        "dhcp_dns",
	stateHealth:         "health",
	stateDisconnection:  "disconnection",
	statePing:           "ping",
	stateAPUptime:       "ap_uptime",
	stateAPHardware:     "ap_hardware",
	stateRFEnvironment:  "rf_environment",
	stateDone:           "done",
}

func (s state) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Completed step names recorded on the report.
const (
	StepAssociation    = "client_association_check"
	StepAuthentication = "authentication_check"
	StepDHCPDNS        = "dhcp_dns_check"
	StepInfrastructure = "infrastructure_check"
	StepHealth         = "health_check"
	StepDisconnection  = "disconnection_analysis"
	StepPing           = "ping_check"
	StepAPUptime       = "ap_uptime_check"
	StepAPHardware     = "ap_hardware_check"
	StepRFEnvironment  = "rf_environment_check"
	StepAllComplete    = "all_checks_complete"
)

func (e *Engine) step(ctx context.Context, run *Run, st state) state {
	switch st {
	case stateAssociation:
		return e.association(ctx, run)
	case stateAuthentication:
		return e.authentication(run)
	case stateDHCPDNS:
		return e.dhcpDNS(ctx, run)
	case stateHealth:
		return e.health(run)
	case stateDisconnection:
		return e.disconnection(ctx, run)
	case statePing:
		return e.ping(ctx, run)
	case stateAPUptime:
		return e.apUptime(ctx, run)
	case stateAPHardware:
		return e.apHardware(run)
	case stateRFEnvironment:
		return e.rfEnvironment(run)
	}
	panic(fmt.Sprintf("troubleshoot: unknown state %v", st))
}

func (e *Engine) association(ctx context.Context, run *Run) state {
	client := run.Fetcher.ClientInfo(ctx, run.Target, run.Lookback)
	if !analyze.Association(client) {
		if ctx.Err() != nil {
			return stateDone
		}
		run.Log.Error().Msg("Client not found")
		run.fail(fmt.Sprintf("client %s not found in organization %s", run.Target, run.OrgID), notFoundRecommendations())
		return stateDone
	}

	run.client = client
	run.SiteID = client.SiteID
	run.summarize()
	if client.RSSI == nil || client.SNR == nil || client.APMAC == "" {
		run.Log.Warn().
			Str("source", string(client.Source)).
			Msg("Incomplete client data, client may not be currently connected")
	}
	run.Log.Info().
		Str("client", client.DisplayName()).
		Str("ap", client.APName).
		Str("ssid", client.SSID).
		Str("site", client.SiteName).
		Msg("Client found")
	run.complete(StepAssociation)

	run.events = run.Fetcher.ClientEvents(ctx, run.Target, run.Lookback)
	return stateAuthentication
}

func (e *Engine) authentication(run *Run) state {
	findings := analyze.Authentication(run.events)
	run.complete(StepAuthentication)
	if len(findings) == 0 {
		return stateDHCPDNS
	}

	run.add(findings)
	run.conclude(model.StatusAuthenticationIssues, model.EscalationIdentity, authRecommendations())
	return stateDone
}

func (e *Engine) dhcpDNS(ctx context.Context, run *Run) state {
	findings := analyze.DHCPDNS(run.events)
	if len(findings) == 0 {
		run.complete(StepDHCPDNS)
		return stateHealth
	}

	run.add(findings)
	run.add(analyze.Infrastructure(e.probeInfrastructure(ctx, run)))
	run.complete(StepDHCPDNS, StepInfrastructure)
	run.conclude(model.StatusInfrastructureIssues, model.EscalationInfrastructure, infraRecommendations())
	return stateDone
}

func (e *Engine) probeInfrastructure(ctx context.Context, run *Run) analyze.InfraResults {
	var r analyze.InfraResults
	for _, host := range e.cfg.DNSTargets {
		_, err := e.prober.Resolve(ctx, host)
		r.DNS = append(r.DNS, analyze.DNSCheck{Host: host, Err: err})
	}

	r.WANChecked = true
	r.WANTarget = e.cfg.WANTarget
	_, r.WANErr = e.prober.Dial(ctx, e.cfg.WANTarget)

	if !e.cfg.SkipUDPCheck {
		r.UDPChecked = true
		r.UDP, r.UDPErr = e.prober.MappedAddress(ctx, e.cfg.STUNServers)
	}

	ip := run.targetIP()
	if ip == "" {
		return r
	}
	gw, err := addrutil.GatewayFor(ip)
	if err != nil {
		run.Log.Debug().Err(err).Msg("Skipping gateway check")
		return r
	}
	r.Gateway = gw
	r.GatewayChecked = true
	r.GatewayPing, r.GatewayErr = e.prober.Ping(ctx, gw, 1, 0)
	return r
}

func (e *Engine) health(run *Run) state {
	findings := analyze.ClientHealth(run.client)
	run.complete(StepHealth)
	if len(findings) == 0 {
		run.complete(StepAllComplete)
		run.conclude(model.StatusAllGood, model.EscalationManualIfNeeded, allGoodRecommendations())
		return stateDone
	}
	run.add(findings)
	return stateDisconnection
}

func (e *Engine) disconnection(ctx context.Context, run *Run) state {
	events := run.Fetcher.ClientEvents(ctx, run.Target, e.cfg.DisconnectWindow)
	run.add(analyze.DisconnectionPattern(events, e.now(), e.cfg.DisconnectWindow))
	run.complete(StepDisconnection)
	return statePing
}

func (e *Engine) ping(ctx context.Context, run *Run) state {
	ip := run.targetIP()
	if ip == "" {
		run.add(analyze.Connectivity("", probe.PingResult{}, nil))
		run.complete(StepPing)
		return stateAPUptime
	}

	res, err := e.prober.Ping(ctx, ip, e.cfg.PingCount, e.cfg.PingInterval)
	if err == nil {
		run.ping = &pingSummary{target: ip, avgMs: res.AvgLatencyMs, loss: res.LossPercent}
	}
	run.add(analyze.Connectivity(ip, res, err))
	run.complete(StepPing)
	return stateAPUptime
}

func (e *Engine) apUptime(ctx context.Context, run *Run) state {
	c := run.client
	deviceID := c.APID
	if deviceID == "" && c.SiteID != "" && c.APMAC != "" {
		_, deviceID, _ = run.Fetcher.ResolveAP(ctx, c.SiteID, c.APMAC)
	}
	if c.SiteID != "" && deviceID != "" {
		run.apStats = run.Fetcher.APStats(ctx, c.SiteID, deviceID)
	} else {
		run.Log.Info().Msg("AP stats unavailable: no site or AP device id")
	}
	run.add(analyze.APUptime(run.apStats))
	run.complete(StepAPUptime)
	return stateAPHardware
}

func (e *Engine) apHardware(run *Run) state {
	run.add(analyze.APHardware(run.apStats))
	run.complete(StepAPHardware)
	return stateRFEnvironment
}

func (e *Engine) rfEnvironment(run *Run) state {
	run.add(analyze.RFEnvironment(run.apStats, run.client.Band))
	run.complete(StepRFEnvironment)
	run.conclude(model.StatusClientHealthIssues, model.EscalationManual, healthRecommendations(run))
	return stateDone
}
