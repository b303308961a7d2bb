package model

import "time"

// Severity tags a Finding.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
)

// Finding is one diagnosed abnormality.
type Finding struct {
	Stage    string   `json:"stage,omitempty"`
	Name     string   `json:"name"`
	Value    string   `json:"value"`
	Issue    string   `json:"issue"`
	Severity Severity `json:"severity"`
}

// Status is the terminal outcome of a troubleshooting run.
type Status string

const (
	StatusError                Status = "error"
	StatusAuthenticationIssues Status = "authentication_issues"
	StatusInfrastructureIssues Status = "network_infrastructure_issues"
	StatusClientHealthIssues   Status = "client_health_issues"
	StatusAllGood              Status = "all_good"
)

// IssuesFound reports whether the status represents a diagnosed problem.
func (s Status) IssuesFound() bool {
	switch s {
	case StatusAuthenticationIssues, StatusInfrastructureIssues, StatusClientHealthIssues:
		return true
	}
	return false
}

// EscalationPath names the workflow a diagnosis should be routed to.
type EscalationPath string

const (
	EscalationNone           EscalationPath = ""
	EscalationIdentity       EscalationPath = "troubleshoot_on_ise"
	EscalationInfrastructure EscalationPath = "check_lan_wan_dhcp_dns"
	EscalationManual         EscalationPath = "manual_troubleshooting"
	EscalationManualIfNeeded EscalationPath = "manual_steps_if_needed"
)

// ClientSummary is the report-facing identity of the diagnosed client.
type ClientSummary struct {
	Name     string   `json:"name"`
	IP       string   `json:"ip,omitempty"`
	SSID     string   `json:"ssid,omitempty"`
	Band     string   `json:"band,omitempty"`
	APMAC    string   `json:"ap_mac,omitempty"`
	APName   string   `json:"ap_name,omitempty"`
	SiteName string   `json:"site_name,omitempty"`
	RSSI     *float64 `json:"rssi,omitempty"`
	SNR      *float64 `json:"snr,omitempty"`
	Source   Source   `json:"source"`
}

// Report is the terminal output of one troubleshooting run.
type Report struct {
	RunID           string         `json:"run_id"`
	ClientMAC       string         `json:"client_mac"`
	ClientIP        string         `json:"client_ip,omitempty"`
	OrgID           string         `json:"org_id,omitempty"`
	Timestamp       time.Time      `json:"analysis_time"`
	Client          *ClientSummary `json:"client,omitempty"`
	StepsCompleted  []string       `json:"steps_completed"`
	Findings        []Finding      `json:"issues_found"`
	Recommendations []string       `json:"recommendations"`
	EscalationPath  EscalationPath `json:"escalation_path,omitempty"`
	Status          Status         `json:"status"`
	Error           string         `json:"error,omitempty"`
	DataGaps        []string       `json:"data_gaps,omitempty"`
}

// CountBySeverity returns the number of HIGH and MEDIUM findings.
func (r *Report) CountBySeverity() (high, medium int) {
	for _, f := range r.Findings {
		switch f.Severity {
		case SeverityHigh:
			high++
		case SeverityMedium:
			medium++
		}
	}
	return high, medium
}
