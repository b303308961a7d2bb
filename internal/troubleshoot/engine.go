// Package troubleshoot is the diagnostic decision engine. It walks a fixed
// sequence of stages and stops at the first one that reports issues, except
// inside the health branch where every sub-stage runs and its Findings are
// concatenated.
package troubleshoot

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"

	"wlandoctor/internal/fetch"
	"wlandoctor/internal/model"
	"wlandoctor/internal/probe"
	"wlandoctor/internal/stunutil"
)

var (
	ErrMissingMAC = errors.New("client MAC address is required")
	ErrMissingOrg = errors.New("organization id is required")
)

// Defaults for Config.
const (
	DefaultLookback         = 24 * time.Hour
	DefaultDisconnectWindow = 5 * time.Minute
	DefaultPingCount        = 10
	DefaultPingInterval     = 200 * time.Millisecond
	DefaultWANTarget        = "8.8.8.8:443"
)

// DefaultDNSTargets are resolved during the infrastructure check.
var DefaultDNSTargets = []string{"google.com", "cloudflare.com", "one.one.one.one"}

// Config tunes an Engine. Zero values pick the defaults above.
type Config struct {
	OrgID            string
	CallTimeout      time.Duration
	DisconnectWindow time.Duration
	PingCount        int
	PingInterval     time.Duration
	DNSTargets       []string
	WANTarget        string
	STUNServers      []string
	SkipUDPCheck     bool
}

func (c *Config) applyDefaults() {
	if c.CallTimeout <= 0 {
		c.CallTimeout = fetch.DefaultCallTimeout
	}
	if c.DisconnectWindow <= 0 {
		c.DisconnectWindow = DefaultDisconnectWindow
	}
	if c.PingCount <= 0 {
		c.PingCount = DefaultPingCount
	}
	if c.PingInterval <= 0 {
		c.PingInterval = DefaultPingInterval
	}
	if len(c.DNSTargets) == 0 {
		c.DNSTargets = DefaultDNSTargets
	}
	if c.WANTarget == "" {
		c.WANTarget = DefaultWANTarget
	}
	if len(c.STUNServers) == 0 {
		c.STUNServers = stunutil.DefaultServers
	}
}

// Request identifies the client to diagnose.
type Request struct {
	ClientMAC model.MAC
	ClientIP  string
	Lookback  time.Duration
}

// Engine runs troubleshooting sessions. It holds no per-run state and may be
// used for concurrent runs.
type Engine struct {
	gw     fetch.Gateway
	prober probe.Prober
	cfg    Config
	sink   TraceSink
	now    func() time.Time
	log    zerolog.Logger
}

// Option customizes an Engine.
type Option func(*Engine)

func WithTraceSink(s TraceSink) Option { return func(e *Engine) { e.sink = s } }

func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

func New(gw fetch.Gateway, prober probe.Prober, cfg Config, log zerolog.Logger, opts ...Option) *Engine {
	cfg.applyDefaults()
	e := &Engine{
		gw:     gw,
		prober: prober,
		cfg:    cfg,
		now:    time.Now,
		log:    log.With().Str("component", "troubleshoot").Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.sink == nil {
		e.sink = nopSink{}
	}
	return e
}

// Troubleshoot diagnoses one client. The returned error is non-nil only for
// invalid requests and cancellation; every other failure is reported through
// the report's status.
func (e *Engine) Troubleshoot(ctx context.Context, req Request) (report *model.Report, err error) {
	if req.ClientMAC == "" {
		return nil, ErrMissingMAC
	}
	if e.cfg.OrgID == "" {
		return nil, ErrMissingOrg
	}
	if req.Lookback <= 0 {
		req.Lookback = DefaultLookback
	}

	now := e.now()
	f := fetch.New(e.gw, e.cfg.OrgID, e.log, fetch.WithCallTimeout(e.cfg.CallTimeout), fetch.WithClock(e.now))
	run := newRun(req, e.cfg.OrgID, now, f, e.sink, e.log)
	run.Log.Info().Str("client_ip", req.ClientIP).Dur("lookback", req.Lookback).Msg("Troubleshooting session started")

	defer func() {
		if r := recover(); r != nil {
			run.Log.Error().
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("Troubleshooting aborted by internal error")
			run.fail(fmt.Sprintf("internal error: %v", r), nil)
			report, err = run.report, nil
		}
		if report != nil {
			report.DataGaps = f.Gaps()
		}
	}()

	st := stateAssociation
	for st != stateDone {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		before := len(run.report.Findings)

		next := e.step(ctx, run, st)

		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n := len(run.report.Findings) - before
		run.Trace.StageDone(StageEvent{
			RunID:    run.ID,
			Stage:    st.String(),
			Outcome:  outcome(n, run.report.Status),
			Findings: n,
			Elapsed:  time.Since(start),
		})
		st = next
	}

	high, medium := run.report.CountBySeverity()
	run.Log.Info().
		Str("status", string(run.report.Status)).
		Str("escalation", string(run.report.EscalationPath)).
		Int("high", high).
		Int("medium", medium).
		Strs("steps", run.report.StepsCompleted).
		Msg("Troubleshooting session finished")
	return run.report, nil
}

func outcome(findings int, status model.Status) Outcome {
	switch {
	case status == model.StatusError:
		return OutcomeTerminal
	case findings > 0:
		return OutcomeIssues
	}
	return OutcomePassed
}
