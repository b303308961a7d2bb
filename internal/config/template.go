package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const envTemplate = `# Mist API configuration
MIST_API_TOKEN=your_api_token_here
MIST_ORG_ID=your_organization_id_here
MIST_BASE_URL=https://api.mist.com/api/v1
MIST_TIMEOUT=30
MIST_MAX_RETRIES=3
MIST_BACKOFF_FACTOR=1.0
MIST_RATE_LIMIT=5
`

// Template is the config written by "config init".
func Template() Config {
	cfg := Config{
		API: APIConfig{
			Token: "your_api_token_here",
			OrgID: "your_organization_id_here",
		},
	}
	ApplyDefaults(&cfg)
	return cfg
}

// WriteTemplate writes a YAML template to path. It refuses to replace an
// existing file unless force is set.
func WriteTemplate(path string, force bool) error {
	if err := refuseExisting(path, force); err != nil {
		return err
	}
	return Save(path, Template())
}

// WriteEnvTemplate writes a dotenv template to path.
func WriteEnvTemplate(path string, force bool) error {
	if err := refuseExisting(path, force); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(envTemplate), 0o600)
}

func refuseExisting(path string, force bool) error {
	if force {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	return nil
}
