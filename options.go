package lexpdf

import "github.com/lvillar/lexpdf/check"

// Option configures a validation run.
type Option func(*validateConfig)

type validateConfig struct {
	checks []check.Check
	strict bool
}

// WithChecks replaces the default check list. Checks run in the given
// order in the report; the orchestrator's aggregation logic is
// unchanged, so new checks integrate without further wiring.
func WithChecks(checks ...check.Check) Option {
	return func(c *validateConfig) {
		c.checks = checks
	}
}

// WithStrictChecks promotes every failing check to error class.
//
// By default only blocking checks (margins) can invalidate a document;
// font and page-standard findings stay warnings even when the check
// itself failed. Strict mode makes any failed check set IsValid to
// false and route its issues to Errors.
func WithStrictChecks() Option {
	return func(c *validateConfig) {
		c.strict = true
	}
}

func newValidateConfig(opts []Option) *validateConfig {
	cfg := &validateConfig{
		checks: check.Defaults(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
