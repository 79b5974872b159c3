package lexpdf

import (
	"errors"
	"sync"

	"github.com/lvillar/lexpdf/bates"
	"github.com/lvillar/lexpdf/check"
	"github.com/lvillar/lexpdf/document"
)

// ValidationResult is the aggregate outcome of a validation run.
// IsValid is false exactly when Errors is non-empty.
type ValidationResult struct {
	IsValid  bool                     `json:"isValid"`
	Errors   []string                 `json:"errors"`
	Warnings []string                 `json:"warnings"`
	Details  map[string]*check.Result `json:"details"`

	// checks preserves the configured order so report rendering is
	// deterministic regardless of map iteration.
	checks []check.Check
}

// Validate loads a PDF from a raw byte buffer and evaluates it against
// the compliance checks.
//
// A buffer that is not a document at all (empty, or without a PDF
// header) fails with a typed error. Any other load failure produces a
// degenerate result carrying the load error, with no checks run.
func Validate(data []byte, opts ...Option) (*ValidationResult, error) {
	cfg := newValidateConfig(opts)

	doc, err := document.Load(data)
	if err != nil {
		if errors.Is(err, document.ErrEmpty) || errors.Is(err, document.ErrNotPDF) {
			return nil, opError("Validate", err)
		}
		return &ValidationResult{
			IsValid: false,
			Errors:  []string{err.Error()},
			Details: map[string]*check.Result{},
			checks:  cfg.checks,
		}, nil
	}

	return runChecks(doc, cfg), nil
}

// runChecks fans the configured checks out over the loaded document
// and aggregates their results. Checks are pure and read-only, so they
// run concurrently and join before aggregation.
func runChecks(doc check.Document, cfg *validateConfig) *ValidationResult {
	results := make([]*check.Result, len(cfg.checks))

	var wg sync.WaitGroup
	for i, c := range cfg.checks {
		wg.Add(1)
		go func(i int, c check.Check) {
			defer wg.Done()
			results[i] = c.Run(doc)
		}(i, c)
	}
	wg.Wait()

	out := &ValidationResult{
		IsValid: true,
		Details: make(map[string]*check.Result, len(cfg.checks)),
		checks:  cfg.checks,
	}
	for i, c := range cfg.checks {
		r := results[i]
		out.Details[c.Key()] = r

		if (c.Blocking() || cfg.strict) && !r.Passed {
			out.IsValid = false
			out.Errors = append(out.Errors, r.Issues...)
		} else {
			out.Warnings = append(out.Warnings, r.Issues...)
		}
	}
	return out
}

// Annotate stamps every page of the document with a sequential Bates
// number and returns the new document buffer. The input buffer is not
// modified; page order and pre-existing content are preserved.
func Annotate(data []byte, opts bates.Options) ([]byte, error) {
	out, err := bates.Apply(data, opts)
	if err != nil {
		return nil, opError("Annotate", err)
	}
	return out, nil
}
