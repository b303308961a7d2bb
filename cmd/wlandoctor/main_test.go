package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wlandoctor/internal/config"
	"wlandoctor/internal/model"
)

// isolate keeps the caller's environment and working directory out of the run.
func isolate(t *testing.T) string {
	t.Helper()
	for _, k := range []string{
		config.EnvToken, config.EnvOrgID, config.EnvBaseURL, config.EnvHost,
		config.EnvTimeout, config.EnvMaxRetries, config.EnvBackoffFactor, config.EnvRateLimit,
	} {
		t.Setenv(k, "")
	}
	return t.TempDir()
}

func fakeAPI(t *testing.T, orgs int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/self", func(w http.ResponseWriter, r *http.Request) {
		var privs []map[string]string
		for i := 0; i < orgs; i++ {
			privs = append(privs, map[string]string{
				"scope": "org", "role": "admin",
				"org_id": []string{"org-1", "org-2"}[i], "name": []string{"Acme", "Globex"}[i],
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"email": "ops@example.com", "first_name": "Op", "privileges": privs})
	})
	mux.HandleFunc("/orgs/org-1/sites", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"s1","name":"HQ"}]`))
	})
	mux.HandleFunc("/sites/s1/stats/clients", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"mac":"aabbccddeeff","hostname":"laptop","rssi":-55,"snr":35,"ssid":"corp"}]`))
	})
	mux.HandleFunc("/orgs/org-1/clients/aabbccddeeff/events", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	})
	s := httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_TroubleshootAllGood(t *testing.T) {
	dir := isolate(t)
	s := fakeAPI(t, 1)

	csvPath := filepath.Join(dir, "findings.csv")
	code, out, errOut := runCLI(t, "troubleshoot",
		"--env-file", filepath.Join(dir, "none.env"),
		"--token", "secret-token-value",
		"--client-mac", "AA-BB-CC-DD-EE-FF",
		"--client-ip", "10.0.0.5",
		"--output", "json",
		"--csv", csvPath,
		"--log-level", "error",
		"--config", writeConfig(t, dir, s.URL),
	)
	require.Equal(t, exitOK, code, errOut)

	var rep model.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, model.StatusAllGood, rep.Status)
	assert.Equal(t, "org-1", rep.OrgID)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", rep.ClientMAC)

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "analysis_time,run_id")
}

func TestRun_TroubleshootClientNotFoundExitsOne(t *testing.T) {
	dir := isolate(t)
	s := fakeAPI(t, 1)

	code, out, _ := runCLI(t, "troubleshoot",
		"--env-file", filepath.Join(dir, "none.env"),
		"--token", "secret-token-value",
		"--client-mac", "00:00:00:00:00:01",
		"--no-color",
		"--log-level", "error",
		"--config", writeConfig(t, dir, s.URL),
	)
	assert.Equal(t, exitError, code)
	assert.Contains(t, out, "Status: error")
	assert.Contains(t, out, "Verify client MAC address format")
}

func TestRun_MultipleOrgsNeedsSelection(t *testing.T) {
	dir := isolate(t)
	s := fakeAPI(t, 2)

	code, _, errOut := runCLI(t, "troubleshoot",
		"--env-file", filepath.Join(dir, "none.env"),
		"--token", "secret-token-value",
		"--client-mac", "aabbccddeeff",
		"--log-level", "error",
		"--config", writeConfig(t, dir, s.URL),
	)
	assert.Equal(t, exitError, code)
	assert.Contains(t, errOut, "multiple organizations found")
	assert.Contains(t, errOut, "Globex (org-2)")
}

func TestRun_InputErrors(t *testing.T) {
	isolate(t)

	code, _, errOut := runCLI(t, "troubleshoot", "--client-mac", "not-a-mac")
	assert.Equal(t, exitError, code)
	assert.Contains(t, errOut, "invalid MAC address")

	code, _, errOut = runCLI(t, "troubleshoot")
	assert.Equal(t, exitError, code)
	assert.Contains(t, errOut, "client-mac")

	code, _, errOut = runCLI(t, "troubleshoot", "--client-mac", "aabbccddeeff", "--env-file", "")
	assert.Equal(t, exitError, code)
	assert.Contains(t, errOut, "api token is required")
}

func TestRun_OrgsList(t *testing.T) {
	dir := isolate(t)
	s := fakeAPI(t, 2)

	code, out, errOut := runCLI(t, "orgs", "list",
		"--env-file", filepath.Join(dir, "none.env"),
		"--token", "secret-token-value",
		"--log-level", "error",
		"--config", writeConfig(t, dir, s.URL),
	)
	require.Equal(t, exitOK, code, errOut)
	assert.Contains(t, out, "org-1")
	assert.Contains(t, out, "Globex")
}

func TestRun_ConfigInit(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "wlandoctor.yaml")

	code, out, _ := runCLI(t, "config", "init", "--config", path)
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, path)

	code, _, errOut := runCLI(t, "config", "init", "--config", path)
	assert.Equal(t, exitError, code)
	assert.Contains(t, errOut, "already exists")
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := context.Background()
	assert.Equal(t, exitOK, exitCode(ctx, nil, &buf))
	assert.Equal(t, exitIssues, exitCode(ctx, statusExit(model.StatusClientHealthIssues), &buf))
	assert.Equal(t, exitError, exitCode(ctx, statusExit(model.StatusError), &buf))
	assert.Nil(t, statusExit(model.StatusAllGood))
	assert.Equal(t, exitError, exitCode(ctx, errors.New("boom"), &buf))
	assert.Equal(t, exitInterrupted, exitCode(ctx, context.Canceled, &buf))

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	assert.Equal(t, exitInterrupted, exitCode(canceled, errors.New("read: closed"), &buf))
}

func TestMaskToken(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abcdefgh...wxyz", maskToken("abcdefghijklmnopqrstuvwxyz"))
	assert.Equal(t, "*****", maskToken("short"))
}

func writeConfig(t *testing.T, dir, baseURL string) string {
	t.Helper()
	path := filepath.Join(dir, "wlandoctor.yaml")
	cfg := config.Config{API: config.APIConfig{BaseURL: baseURL, MaxRetries: 1, BackoffFactor: 0.001}}
	require.NoError(t, config.Save(path, cfg))
	return path
}
