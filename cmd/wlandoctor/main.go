package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"wlandoctor/internal/api"
	"wlandoctor/internal/config"
	"wlandoctor/internal/logging"
)

var version = "dev"

// Exit codes.
const (
	exitOK          = 0
	exitError       = 1
	exitIssues      = 2
	exitInterrupted = 130
)

// exitCodeError carries a specific exit status. A nil err exits silently.
type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitCodeError) Unwrap() error { return e.err }

func main() {
	ctx, cancel := signalContext()
	defer cancel()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if a.log != nil {
		_ = a.log.Close()
	}
	return exitCode(ctx, err, stderr)
}

func exitCode(ctx context.Context, err error, stderr io.Writer) int {
	if err == nil {
		return exitOK
	}
	if errors.Is(err, context.Canceled) || ctx.Err() != nil {
		fmt.Fprintln(stderr, "\nAnalysis interrupted by user")
		return exitInterrupted
	}
	var ec *exitCodeError
	if errors.As(err, &ec) {
		if ec.err != nil {
			fmt.Fprintf(stderr, "ERROR: %v\n", ec.err)
		}
		return ec.code
	}
	fmt.Fprintf(stderr, "ERROR: %v\n", err)
	return exitError
}

type globalFlags struct {
	configPath string
	envFile    string
	token      string
	orgID      string
	logLevel   string
	logFile    string
}

// app holds what the commands share after setup.
type app struct {
	flags  globalFlags
	stdout io.Writer
	stderr io.Writer

	cfg config.Config
	log *logging.Logger
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "wlandoctor",
		Short:         "Wireless client troubleshooting against the Mist cloud API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "path to YAML config")
	pf.StringVar(&a.flags.envFile, "env-file", ".env", "dotenv file with MIST_* settings")
	pf.StringVar(&a.flags.token, "token", "", "API token (overrides MIST_API_TOKEN)")
	pf.StringVar(&a.flags.orgID, "org-id", "", "organization id (overrides MIST_ORG_ID)")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&a.flags.logFile, "log-file", "", `session log file, "auto" for logs/troubleshooting-<time>.log`)

	authCmd := &cobra.Command{Use: "auth", Short: "Authentication helpers"}
	authCmd.AddCommand(a.authTestCmd())

	orgsCmd := &cobra.Command{Use: "orgs", Short: "Organization helpers"}
	orgsCmd.AddCommand(a.orgsListCmd())

	configCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	configCmd.AddCommand(a.configInitCmd())

	root.AddCommand(
		a.troubleshootCmd(),
		authCmd,
		orgsCmd,
		configCmd,
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Run: func(*cobra.Command, []string) {
				fmt.Fprintln(a.stdout, "wlandoctor", version)
			},
		},
	)
	return root
}

// setup resolves configuration (file, then environment, then flags) and
// builds the logger.
func (a *app) setup(debug bool) error {
	var cfg config.Config
	if a.flags.configPath != "" {
		var err error
		cfg, err = config.Load(a.flags.configPath)
		if err != nil {
			return &exitCodeError{code: exitError, err: err}
		}
	}
	if err := config.ApplyEnv(&cfg, a.flags.envFile); err != nil {
		return &exitCodeError{code: exitError, err: err}
	}
	if a.flags.token != "" {
		cfg.API.Token = a.flags.token
	}
	if a.flags.orgID != "" {
		cfg.API.OrgID = a.flags.orgID
	}
	if a.flags.logLevel != "" {
		cfg.Log.Level = a.flags.logLevel
	}
	if a.flags.logFile != "" {
		cfg.Log.File = a.flags.logFile
	}
	config.ApplyDefaults(&cfg)
	if err := config.Validate(cfg); err != nil {
		return &exitCodeError{code: exitError, err: err}
	}

	l, err := logging.New(logging.Config{
		Level:   cfg.Log.Level,
		Debug:   debug,
		Writer:  a.stderr,
		Console: true,
		File:    cfg.Log.File,
	})
	if err != nil {
		return &exitCodeError{code: exitError, err: err}
	}
	a.cfg = cfg
	a.log = l
	if l.Path != "" {
		fmt.Fprintf(a.stderr, "Log file: %s\n", l.Path)
	}
	return nil
}

func (a *app) apiClient() *api.Client {
	return api.NewClient(api.Options{
		BaseURL:       a.cfg.API.BaseURL,
		Token:         a.cfg.API.Token,
		Timeout:       a.cfg.API.Timeout(),
		MaxRetries:    a.cfg.API.MaxRetries,
		BackoffFactor: a.cfg.API.Backoff(),
		RateLimit:     a.cfg.API.RateLimit,
		Logger:        a.log.Logger,
	})
}

// maskToken shows enough of a token to tell tokens apart.
func maskToken(tok string) string {
	if len(tok) <= 12 {
		return strings.Repeat("*", len(tok))
	}
	return tok[:8] + "..." + tok[len(tok)-4:]
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(signals)
	}()
	return ctx, cancel
}
