// Package config handles loading and saving audit configuration files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	json5 "github.com/yosuke-furukawa/json5/encoding/json5"
	"gopkg.in/yaml.v3"

	"github.com/vnykmshr/geoaudit/internal/domain"
)

// envVarPattern matches ${VAR_NAME} or ${VAR_NAME:-default} syntax
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

var ruleIDPattern = regexp.MustCompile(`^R\d{2}$`)

// Loader handles loading configuration from various sources
type Loader struct{}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{}
}

// isYAML reports whether path names a YAML document.
func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func isJSON5(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json5")
}

// LoadFromFile loads configuration from a JSON, JSON5, or YAML file, chosen
// by extension. JSON5 strings must be double-quoted. Supports environment
// variable substitution using ${VAR_NAME} syntax. Optional default values can
// be specified with ${VAR_NAME:-default}.
func (l *Loader) LoadFromFile(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w\nCheck if file exists and has read permissions", path, err)
	}

	// Substitute environment variables before parsing
	expandedData, err := substituteEnvVars(string(data))
	if err != nil {
		return nil, fmt.Errorf("environment variable substitution failed: %w", err)
	}

	var config domain.Config
	if isYAML(path) {
		if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
			return nil, fmt.Errorf("invalid YAML in config file: %w\nVerify YAML syntax at %s", err, path)
		}
		return &config, nil
	}
	if isJSON5(path) {
		if err := json5.Unmarshal([]byte(expandedData), &config); err != nil {
			return nil, fmt.Errorf("invalid JSON5 in config file: %w\nVerify JSON5 syntax at %s", err, path)
		}
		return &config, nil
	}

	err = json.Unmarshal([]byte(expandedData), &config)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON in config file: %w\nVerify JSON syntax at %s", err, path)
	}

	return &config, nil
}

// substituteEnvVars replaces ${VAR_NAME} patterns with environment variable values.
// Supports ${VAR_NAME:-default} syntax for default values when env var is not set.
// Returns an error if a required env var (no default) is not set.
// Note: ${VAR:-} with empty default is valid and means "use empty string if VAR is unset".
func substituteEnvVars(content string) (string, error) {
	var missingVars []string

	result := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := strings.Contains(match, ":-")
		defaultValue := ""
		if hasDefault && len(submatches) > 2 {
			defaultValue = submatches[2]
		}

		// Use LookupEnv to distinguish between unset and empty env vars
		value, isSet := os.LookupEnv(varName)
		if !isSet {
			if hasDefault {
				return defaultValue
			}
			missingVars = append(missingVars, varName)
			return match
		}
		return value
	})

	if len(missingVars) > 0 {
		return "", fmt.Errorf("missing required environment variables: %v\nSet these variables or provide defaults using ${VAR:-default} syntax", missingVars)
	}

	return result, nil
}

// SaveToFile saves configuration as JSON, or YAML for .yaml/.yml paths.
func (l *Loader) SaveToFile(config *domain.Config, path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(config)
	} else {
		data, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	err = os.WriteFile(path, data, 0o600)
	if err != nil {
		return fmt.Errorf("cannot write config file %s: %w\nCheck directory exists and has write permissions", path, err)
	}

	return nil
}

// MergeWithDefaults merges provided config with defaults
func (l *Loader) MergeWithDefaults(config *domain.Config) *domain.Config {
	defaults := domain.DefaultConfig()

	if config.Timeout == "" {
		config.Timeout = defaults.Timeout
	}
	if config.UserAgent == "" {
		config.UserAgent = defaults.UserAgent
	}
	if config.Concurrency == 0 {
		config.Concurrency = defaults.Concurrency
	}

	return config
}

// Validate checks a merged configuration for values the audit cannot use.
func (l *Loader) Validate(config *domain.Config) error {
	var errs []error

	if config.Timeout != "" {
		d, err := time.ParseDuration(config.Timeout)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("invalid timeout %q: %w", config.Timeout, err))
		case d <= 0:
			errs = append(errs, fmt.Errorf("timeout must be positive, got %s", config.Timeout))
		}
	}
	if config.Rate < 0 {
		errs = append(errs, fmt.Errorf("rate must not be negative, got %g", config.Rate))
	}
	if config.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("concurrency must not be negative, got %d", config.Concurrency))
	}
	if config.FailUnder < 0 || config.FailUnder > 100 {
		errs = append(errs, fmt.Errorf("fail_under must be between 0 and 100, got %d", config.FailUnder))
	}
	for _, id := range config.Rules {
		if !ruleIDPattern.MatchString(strings.ToUpper(strings.TrimSpace(id))) {
			errs = append(errs, fmt.Errorf("invalid rule id %q", id))
		}
	}

	return errors.Join(errs...)
}
