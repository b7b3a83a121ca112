package core

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultDomain   = "https://dashboard.situm.com"
	DefaultLanguage = "en"
	DefaultTimeout  = "default"
)

type PreIssuedTokenPolicy string

const (
	// PreIssuedTokenTrust keeps using an expired pre-issued token and lets
	// the server decide.
	PreIssuedTokenTrust PreIssuedTokenPolicy = "trust"
	// PreIssuedTokenFail rejects an expired pre-issued token before sending.
	PreIssuedTokenFail PreIssuedTokenPolicy = "fail"
)

type Config struct {
	Domain               string               `koanf:"domain" mapstructure:"domain"`
	Lang                 string               `koanf:"lang" mapstructure:"lang"`
	Timeouts             map[string]int       `koanf:"timeouts" mapstructure:"timeouts"`
	ExpiryMarginSeconds  *int                 `koanf:"expiry_margin_seconds" mapstructure:"expiry_margin_seconds"`
	PreIssuedTokenPolicy PreIssuedTokenPolicy `koanf:"pre_issued_token_policy" mapstructure:"pre_issued_token_policy"`
	Compact              bool                 `koanf:"compact" mapstructure:"compact"`
}

func DefaultConfig() Config {
	return Config{
		Domain:               DefaultDomain,
		Lang:                 DefaultLanguage,
		Timeouts:             map[string]int{DefaultTimeout: 0},
		ExpiryMarginSeconds:  MarginSeconds(int(DefaultExpiryMargin / time.Second)),
		PreIssuedTokenPolicy: PreIssuedTokenTrust,
	}
}

func (c Config) Validate() error {
	domain := strings.TrimSpace(c.Domain)
	if domain == "" {
		return fmt.Errorf("core: domain is required")
	}
	parsed, err := url.Parse(domain)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("core: domain %q must be an absolute url", domain)
	}
	if c.ExpiryMarginSeconds != nil && *c.ExpiryMarginSeconds < 0 {
		return fmt.Errorf("core: expiry_margin_seconds must not be negative")
	}
	for path, ms := range c.Timeouts {
		if ms < 0 {
			return fmt.Errorf("core: timeout for %q must not be negative", path)
		}
	}
	switch c.PreIssuedTokenPolicy {
	case "", PreIssuedTokenTrust, PreIssuedTokenFail:
	default:
		return fmt.Errorf("core: invalid pre_issued_token_policy %q", c.PreIssuedTokenPolicy)
	}
	return nil
}

// TimeoutFor resolves the timeout of a path: exact match, then the default
// entry, then none. Zero means no timeout.
func (c Config) TimeoutFor(path string) time.Duration {
	if len(c.Timeouts) == 0 {
		return 0
	}
	if ms, ok := c.Timeouts[path]; ok {
		return time.Duration(ms) * time.Millisecond
	}
	if ms, ok := c.Timeouts[DefaultTimeout]; ok {
		return time.Duration(ms) * time.Millisecond
	}
	return 0
}

// ExpiryMargin falls back to DefaultExpiryMargin only when no margin is set;
// an explicit 0 disables the margin.
func (c Config) ExpiryMargin() time.Duration {
	if c.ExpiryMarginSeconds == nil {
		return DefaultExpiryMargin
	}
	return time.Duration(*c.ExpiryMarginSeconds) * time.Second
}

// MarginSeconds builds an explicit ExpiryMarginSeconds value.
func MarginSeconds(seconds int) *int {
	return &seconds
}

func (c Config) Language() string {
	if lang := strings.TrimSpace(c.Lang); lang != "" {
		return lang
	}
	return DefaultLanguage
}

func (c Config) BaseURL() string {
	return strings.TrimRight(strings.TrimSpace(c.Domain), "/")
}
