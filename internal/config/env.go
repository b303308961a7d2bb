package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/spf13/viper"
)

// Environment variables read by ApplyEnv.
const (
	EnvToken         = "MIST_API_TOKEN"
	EnvOrgID         = "MIST_ORG_ID"
	EnvBaseURL       = "MIST_BASE_URL"
	EnvHost          = "MIST_HOST"
	EnvTimeout       = "MIST_TIMEOUT"
	EnvMaxRetries    = "MIST_MAX_RETRIES"
	EnvBackoffFactor = "MIST_BACKOFF_FACTOR"
	EnvRateLimit     = "MIST_RATE_LIMIT"
)

var envKeys = []string{
	EnvToken, EnvOrgID, EnvBaseURL, EnvHost,
	EnvTimeout, EnvMaxRetries, EnvBackoffFactor, EnvRateLimit,
}

// ApplyEnv overlays MIST_* settings onto cfg. Values come from the process
// environment and, with lower priority, from envFile in dotenv format. A
// missing envFile is not an error.
func ApplyEnv(cfg *Config, envFile string) error {
	v := viper.New()
	v.SetConfigType("env")
	if envFile != "" {
		data, err := os.ReadFile(envFile)
		switch {
		case err == nil:
			if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
				return fmt.Errorf("parse %s: %w", envFile, err)
			}
		case !errors.Is(err, fs.ErrNotExist):
			return err
		}
	}
	for _, k := range envKeys {
		if err := v.BindEnv(k); err != nil {
			return err
		}
	}

	str := func(key string, dst *string) {
		if s := v.GetString(key); s != "" {
			*dst = s
		}
	}
	str(EnvToken, &cfg.API.Token)
	str(EnvOrgID, &cfg.API.OrgID)
	str(EnvBaseURL, &cfg.API.BaseURL)
	str(EnvHost, &cfg.API.Host)

	var errs []error
	integer := func(key string, dst *int) {
		s := v.GetString(key)
		if s == "" {
			return
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %q is not an integer", key, s))
			return
		}
		*dst = n
	}
	float := func(key string, dst *float64) {
		s := v.GetString(key)
		if s == "" {
			return
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %q is not a number", key, s))
			return
		}
		*dst = f
	}
	integer(EnvTimeout, &cfg.API.TimeoutSec)
	integer(EnvMaxRetries, &cfg.API.MaxRetries)
	float(EnvBackoffFactor, &cfg.API.BackoffFactor)
	float(EnvRateLimit, &cfg.API.RateLimit)

	return errors.Join(errs...)
}
