package main

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"wlandoctor/internal/api"
	"wlandoctor/internal/config"
	"wlandoctor/internal/model"
	"wlandoctor/internal/probe"
	"wlandoctor/internal/report"
	"wlandoctor/internal/troubleshoot"
)

type troubleshootFlags struct {
	clientMAC string
	clientIP  string
	hoursBack int
	verbose   bool
	output    string
	csvPath   string
	noColor   bool
	skipUDP   bool
}

func (a *app) troubleshootCmd() *cobra.Command {
	var f troubleshootFlags
	cmd := &cobra.Command{
		Use:   "troubleshoot",
		Short: "Diagnose a wireless client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.troubleshoot(cmd.Context(), f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.clientMAC, "client-mac", "", "client MAC address (required)")
	fl.StringVar(&f.clientIP, "client-ip", "", "client IP address for ping tests")
	fl.IntVar(&f.hoursBack, "hours-back", 24, "hours of history to search")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging and extra report detail")
	fl.StringVarP(&f.output, "output", "o", "text", "report format: text or json")
	fl.StringVar(&f.csvPath, "csv", "", "also write findings to this CSV file")
	fl.BoolVar(&f.noColor, "no-color", false, "disable colored output")
	fl.BoolVar(&f.skipUDP, "skip-udp-check", false, "skip the STUN probe during infrastructure checks")
	_ = cmd.MarkFlagRequired("client-mac")
	return cmd
}

func (a *app) troubleshoot(ctx context.Context, f troubleshootFlags) error {
	mac, err := model.ParseMAC(f.clientMAC)
	if err != nil {
		return &exitCodeError{code: exitError, err: fmt.Errorf("--client-mac %q: %w", f.clientMAC, err)}
	}
	if f.clientIP != "" {
		if _, err := netip.ParseAddr(f.clientIP); err != nil {
			return &exitCodeError{code: exitError, err: fmt.Errorf("--client-ip %q is not an IP address", f.clientIP)}
		}
	}
	if f.hoursBack <= 0 {
		return &exitCodeError{code: exitError, err: errors.New("--hours-back must be positive")}
	}
	format, err := report.ParseFormat(f.output)
	if err != nil {
		return &exitCodeError{code: exitError, err: err}
	}

	if err := a.setup(f.verbose); err != nil {
		return err
	}
	log := a.log.Logger
	if f.clientIP == "" {
		fmt.Fprintln(a.stderr, "WARNING: Client IP not provided. Some connectivity tests will be skipped.")
	}

	client := a.apiClient()
	orgID, err := a.selectOrg(ctx, client)
	if err != nil {
		return err
	}
	log.Debug().
		Str("token", maskToken(a.cfg.API.Token)).
		Str("org_id", orgID).
		Str("base_url", client.BaseURL()).
		Msg("Configuration resolved")

	cfg := engineConfig(a.cfg, orgID)
	cfg.SkipUDPCheck = cfg.SkipUDPCheck || f.skipUDP
	engine := troubleshoot.New(client, probe.NewLocal(log), cfg, log,
		troubleshoot.WithTraceSink(troubleshoot.NewLogSink(log)))

	rep, err := engine.Troubleshoot(ctx, troubleshoot.Request{
		ClientMAC: mac,
		ClientIP:  f.clientIP,
		Lookback:  time.Duration(f.hoursBack) * time.Hour,
	})
	if err != nil {
		return err
	}

	if err := report.Write(a.stdout, rep, report.Options{Format: format, NoColor: f.noColor, Verbose: f.verbose}); err != nil {
		return err
	}
	if f.csvPath != "" {
		if err := writeCSV(f.csvPath, rep); err != nil {
			return &exitCodeError{code: exitError, err: err}
		}
	}
	return statusExit(rep.Status)
}

func engineConfig(cfg config.Config, orgID string) troubleshoot.Config {
	return troubleshoot.Config{
		OrgID:            orgID,
		CallTimeout:      cfg.API.CallTimeoutDuration(),
		DisconnectWindow: cfg.Probe.DisconnectWindow(),
		PingCount:        cfg.Probe.PingCount,
		PingInterval:     cfg.Probe.PingInterval(),
		DNSTargets:       cfg.Probe.DNSTargets,
		WANTarget:        cfg.Probe.WANTarget,
		STUNServers:      cfg.Probe.STUNServers,
		SkipUDPCheck:     cfg.Probe.SkipUDPCheck,
	}
}

func statusExit(s model.Status) error {
	switch {
	case s == model.StatusError:
		return &exitCodeError{code: exitError}
	case s.IssuesFound():
		return &exitCodeError{code: exitIssues}
	}
	return nil
}

func writeCSV(path string, rep *model.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteCSV(f, rep); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// selectOrg returns the configured organization or, when the token can see
// exactly one, that one.
func (a *app) selectOrg(ctx context.Context, client *api.Client) (string, error) {
	if a.cfg.API.OrgID != "" {
		return a.cfg.API.OrgID, nil
	}
	self, err := client.Self(ctx)
	if err != nil {
		return "", fmt.Errorf("list organizations: %w", err)
	}
	orgs := self.Orgs()
	switch len(orgs) {
	case 0:
		return "", &exitCodeError{code: exitError, err: errors.New("no organizations found for this API token")}
	case 1:
		a.log.Info().Str("org", orgs[0].Name).Str("org_id", orgs[0].ID).Msg("Auto-selected organization")
		return orgs[0].ID, nil
	}

	var b strings.Builder
	b.WriteString("multiple organizations found, set MIST_ORG_ID or --org-id:")
	for _, o := range orgs {
		fmt.Fprintf(&b, "\n  %s (%s)", o.Name, o.ID)
	}
	return "", &exitCodeError{code: exitError, err: errors.New(b.String())}
}

func (a *app) authTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Verify the API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.setup(false); err != nil {
				return err
			}
			ctx := cmd.Context()
			client := a.apiClient()
			fmt.Fprintf(a.stdout, "Testing API authentication against %s\n", client.BaseURL())
			fmt.Fprintf(a.stdout, "   API Token: %s\n", maskToken(a.cfg.API.Token))

			self, err := client.Self(ctx)
			if err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}
			fmt.Fprintln(a.stdout, "Authentication successful")
			fmt.Fprintf(a.stdout, "   User: %s %s\n", self.FirstName, self.LastName)
			fmt.Fprintf(a.stdout, "   Email: %s\n", self.Email)

			if id := a.cfg.API.OrgID; id != "" {
				org, err := client.Org(ctx, id)
				if err != nil {
					return fmt.Errorf("organization %s: %w", id, err)
				}
				fmt.Fprintf(a.stdout, "   Organization: %s\n", org.Name)
				fmt.Fprintf(a.stdout, "   Org ID: %s\n", org.ID)
			}
			return nil
		},
	}
}

func (a *app) orgsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List organizations visible to the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.setup(false); err != nil {
				return err
			}
			self, err := a.apiClient().Self(cmd.Context())
			if err != nil {
				return err
			}
			orgs := self.Orgs()
			if len(orgs) == 0 {
				return &exitCodeError{code: exitError, err: errors.New("no organizations found for this API token")}
			}
			fmt.Fprintf(a.stdout, "%-36s  %-30s  %-10s  %-6s\n", "ID", "NAME", "ROLE", "SCOPE")
			for _, o := range orgs {
				fmt.Fprintf(a.stdout, "%-36s  %-30s  %-10s  %-6s\n", o.ID, o.Name, o.Role, o.Scope)
			}
			return nil
		},
	}
}

func (a *app) configInitCmd() *cobra.Command {
	var (
		env   bool
		force bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a template config file",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if env {
				if err := config.WriteEnvTemplate(a.flags.envFile, force); err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "Wrote %s\n", a.flags.envFile)
				return nil
			}
			path := a.flags.configPath
			if path == "" {
				path = "wlandoctor.yaml"
			}
			if err := config.WriteTemplate(path, force); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&env, "env", false, "write a dotenv template to --env-file instead")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
