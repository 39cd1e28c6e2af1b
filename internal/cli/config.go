package cli

import (
	"fmt"
	"os"

	"github.com/vnykmshr/geoaudit/internal/config"
	"github.com/vnykmshr/geoaudit/internal/domain"
)

// URLEnvVar names the environment variable consulted when no target URL
// was given on the command line or in the config file.
const URLEnvVar = "GEOAUDIT_URL"

// LoadConfiguration loads configuration from file (if provided) and merges with CLI options.
// CLI flags override file configuration values.
func LoadConfiguration(configPath string, opts *ConfigOptions) (*domain.Config, error) {
	loader := config.NewLoader()

	var cfg *domain.Config

	if configPath != "" {
		loadedCfg, err := loader.LoadFromFile(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loadedCfg
	} else {
		defaultCfg := domain.DefaultConfig()
		cfg = &defaultCfg
	}

	if opts.URL != "" {
		cfg.URL = opts.URL
	}
	if opts.Timeout != "" {
		cfg.Timeout = opts.Timeout
	}
	cfg.Timeout = NormalizeTimeout(cfg.Timeout)
	if opts.UserAgent != "" {
		cfg.UserAgent = opts.UserAgent
	}
	if opts.OutputFile != "" {
		cfg.OutputFile = opts.OutputFile
	}
	if rules := ParseRuleList(opts.Rules); len(rules) > 0 {
		cfg.Rules = rules
	}
	if opts.Rate != 0 {
		cfg.Rate = opts.Rate
	}
	if opts.Concurrency != 0 {
		cfg.Concurrency = opts.Concurrency
	}
	if opts.FailUnder != 0 {
		cfg.FailUnder = opts.FailUnder
	}
	// Boolean flags can only switch a file setting on.
	cfg.InsecureSkipVerify = cfg.InsecureSkipVerify || opts.InsecureSkipVerify
	cfg.AllowPrivateHosts = cfg.AllowPrivateHosts || opts.AllowPrivateHosts
	cfg.Verbose = cfg.Verbose || opts.Verbose

	if cfg.URL == "" {
		cfg.URL = os.Getenv(URLEnvVar)
	}

	cfg = loader.MergeWithDefaults(cfg)

	if err := loader.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
