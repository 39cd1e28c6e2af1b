package domain

// DefaultUserAgent identifies the auditor to the sites it fetches.
const DefaultUserAgent = "GeoAudit/0.1.0 (+https://github.com/vnykmshr/geoaudit; AI-readiness audit)"

// Config represents the complete audit configuration
type Config struct {
	URL                string   `json:"url" yaml:"url"`
	Timeout            string   `json:"timeout" yaml:"timeout"`
	UserAgent          string   `json:"user_agent" yaml:"user_agent"`
	OutputFile         string   `json:"output_file" yaml:"output_file"`
	Rules              []string `json:"rules,omitempty" yaml:"rules,omitempty"`
	Rate               float64  `json:"rate" yaml:"rate"`
	Concurrency        int      `json:"concurrency" yaml:"concurrency"`
	FailUnder          int      `json:"fail_under" yaml:"fail_under"`
	InsecureSkipVerify bool     `json:"insecure_skip_verify" yaml:"insecure_skip_verify"`
	AllowPrivateHosts  bool     `json:"allow_private_hosts" yaml:"allow_private_hosts"`
	Verbose            bool     `json:"verbose" yaml:"verbose"`
}

// DefaultConfig returns a sensible default configuration
func DefaultConfig() Config {
	return Config{
		URL:         "",
		Timeout:     "10s",
		UserAgent:   DefaultUserAgent,
		Rate:        0,
		Concurrency: 4,
		FailUnder:   0,
		Verbose:     false,
	}
}
