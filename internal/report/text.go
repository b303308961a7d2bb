package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"wlandoctor/internal/model"
)

const ruleWidth = 70

type styles struct {
	title, ok, high, medium, muted, label lipgloss.Style
}

func newStyles(w io.Writer, noColor bool) styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return styles{plain, plain, plain, plain, plain, plain}
	}
	r := lipgloss.NewRenderer(w)
	return styles{
		title:  r.NewStyle().Foreground(lipgloss.Color("#8BE9FD")).Bold(true),
		ok:     r.NewStyle().Foreground(lipgloss.Color("#50FA7B")),
		high:   r.NewStyle().Foreground(lipgloss.Color("#FF5555")).Bold(true),
		medium: r.NewStyle().Foreground(lipgloss.Color("#F1FA8C")),
		muted:  r.NewStyle().Foreground(lipgloss.Color("#6272A4")),
		label:  r.NewStyle().Bold(true),
	}
}

func (s styles) severity(sev model.Severity) lipgloss.Style {
	if sev == model.SeverityHigh {
		return s.high
	}
	return s.medium
}

// WriteText writes the human readable report.
func WriteText(w io.Writer, rep *model.Report, opts Options) error {
	st := newStyles(w, opts.NoColor)
	var b strings.Builder
	rule := strings.Repeat("=", ruleWidth)

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, st.title.Render("WIRELESS CLIENT TROUBLESHOOTER"))
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Client MAC: %s\n", rep.ClientMAC)
	fmt.Fprintf(&b, "Client IP: %s\n", orDash(rep.ClientIP))
	fmt.Fprintf(&b, "Organization: %s\n", orDash(rep.OrgID))
	fmt.Fprintf(&b, "Analysis Time: %s\n", rep.Timestamp.Format("2006-01-02 15:04:05"))
	if opts.Verbose && rep.RunID != "" {
		fmt.Fprintf(&b, "Run ID: %s\n", rep.RunID)
	}

	if c := rep.Client; c != nil {
		fmt.Fprintln(&b)
		if c.APMAC != "" {
			fmt.Fprintf(&b, "%s Client found: %s connected to AP %s (%s)\n",
				st.ok.Render("[OK]"), c.Name, orDash(c.APName), c.APMAC)
		} else {
			fmt.Fprintf(&b, "%s Client found: %s (not currently connected to any AP)\n",
				st.ok.Render("[OK]"), c.Name)
		}
		fmt.Fprintf(&b, "   SSID: %s  Band: %s  Site: %s\n", orDash(c.SSID), orDash(c.Band), orDash(c.SiteName))
		fmt.Fprintf(&b, "   RSSI: %s  SNR: %s  Source: %s\n", num(c.RSSI, " dBm"), num(c.SNR, " dB"), c.Source)
	}

	if len(rep.StepsCompleted) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, st.label.Render("Steps:"))
		for _, s := range rep.StepsCompleted {
			fmt.Fprintf(&b, "  %s %s\n", st.ok.Render("[done]"), s)
		}
	}

	if len(rep.Findings) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, st.label.Render("Issues:"))
		for _, f := range rep.Findings {
			marker := st.severity(f.Severity).Render("[" + string(f.Severity) + "]")
			fmt.Fprintf(&b, "  %s %s: %s (%s)\n", marker, f.Name, f.Issue, f.Value)
		}
	}

	high, medium := rep.CountBySeverity()
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, st.title.Render("TROUBLESHOOTING SUMMARY"))
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Status: %s\n", statusStyle(st, rep.Status).Render(string(rep.Status)))
	if rep.Error != "" {
		fmt.Fprintf(&b, "Error: %s\n", rep.Error)
	}
	fmt.Fprintf(&b, "Steps Completed: %d\n", len(rep.StepsCompleted))
	fmt.Fprintf(&b, "Issues Found: %d (%d HIGH, %d MEDIUM)\n", len(rep.Findings), high, medium)
	escalation := string(rep.EscalationPath)
	if escalation == "" {
		escalation = "None"
	}
	fmt.Fprintf(&b, "Escalation Path: %s\n", escalation)
	if len(rep.DataGaps) > 0 {
		fmt.Fprintf(&b, "%s %s\n", st.muted.Render("Data unavailable:"), strings.Join(rep.DataGaps, ", "))
	}

	if len(rep.Recommendations) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, st.label.Render("Recommendations:"))
		n := 0
		for _, r := range rep.Recommendations {
			// Pre-formatted lines keep their own layout.
			if r == "" || strings.HasPrefix(r, " ") || strings.HasSuffix(r, ":") {
				fmt.Fprintf(&b, "  %s\n", r)
				continue
			}
			n++
			fmt.Fprintf(&b, "  %d. %s\n", n, r)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func statusStyle(st styles, s model.Status) lipgloss.Style {
	switch {
	case s == model.StatusAllGood:
		return st.ok
	case s == model.StatusError:
		return st.high
	case s.IssuesFound():
		return st.medium
	}
	return st.label
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func num(v *float64, unit string) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%g%s", *v, unit)
}
