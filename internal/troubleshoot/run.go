package troubleshoot

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"wlandoctor/internal/fetch"
	"wlandoctor/internal/model"
)

// Run is the per-run context handed to every stage. Nothing in it is shared
// between runs.
type Run struct {
	ID       string
	Target   model.MAC
	ClientIP string
	OrgID    string
	SiteID   string
	Lookback time.Duration
	Started  time.Time

	Fetcher *fetch.Fetcher
	Trace   TraceSink
	Log     zerolog.Logger

	client  *model.ClientRecord
	events  []model.EventRecord
	apStats *model.APStats
	ping    *pingSummary
	report  *model.Report
}

type pingSummary struct {
	target string
	avgMs  *float64
	loss   float64
}

func newRun(req Request, orgID string, now time.Time, f *fetch.Fetcher, sink TraceSink, log zerolog.Logger) *Run {
	id := uuid.NewString()
	r := &Run{
		ID:       id,
		Target:   req.ClientMAC,
		ClientIP: req.ClientIP,
		OrgID:    orgID,
		Lookback: req.Lookback,
		Started:  now,
		Fetcher:  f,
		Trace:    sink,
		Log:      log.With().Str("run_id", id).Str("client_mac", req.ClientMAC.String()).Logger(),
	}
	r.report = &model.Report{
		RunID:           id,
		ClientMAC:       req.ClientMAC.String(),
		ClientIP:        req.ClientIP,
		OrgID:           orgID,
		Timestamp:       now,
		StepsCompleted:  []string{},
		Findings:        []model.Finding{},
		Recommendations: []string{},
	}
	return r
}

// targetIP is the address probes aim at: the one given by the caller, else
// the one the backend reported.
func (r *Run) targetIP() string {
	if r.ClientIP != "" {
		return r.ClientIP
	}
	if r.client != nil {
		return r.client.IP
	}
	return ""
}

func (r *Run) complete(steps ...string) {
	r.report.StepsCompleted = append(r.report.StepsCompleted, steps...)
}

func (r *Run) add(findings []model.Finding) {
	r.report.Findings = append(r.report.Findings, findings...)
}

func (r *Run) conclude(status model.Status, path model.EscalationPath, recs []string) {
	r.report.Status = status
	r.report.EscalationPath = path
	r.report.Recommendations = recs
}

func (r *Run) fail(msg string, recs []string) {
	r.report.Status = model.StatusError
	r.report.EscalationPath = model.EscalationNone
	r.report.Error = msg
	if recs != nil {
		r.report.Recommendations = recs
	}
}

func (r *Run) summarize() {
	c := r.client
	if c == nil {
		return
	}
	r.report.Client = &model.ClientSummary{
		Name:     c.DisplayName(),
		IP:       c.IP,
		SSID:     c.SSID,
		Band:     c.Band,
		APMAC:    c.APMAC.String(),
		APName:   c.APName,
		SiteName: c.SiteName,
		RSSI:     c.RSSI,
		SNR:      c.SNR,
		Source:   c.Source,
	}
	if r.report.ClientIP == "" {
		r.report.ClientIP = c.IP
	}
}
