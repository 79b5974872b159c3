// Package check implements the formatting-compliance rules applied to
// court filings: content margins, text and font readability, and page
// standards (canonical size, consistency, orientation).
//
// Checks are stateless and read-only over a loaded document. They never
// fail structurally; every finding is reported as data in a Result. The
// orchestrator alone decides how a check's findings map to errors
// versus warnings.
package check

// Document is the page-addressable view a check inspects. Page indices
// are 1-based. *document.Document satisfies it; tests use synthetic
// implementations.
type Document interface {
	NumPages() int
	PageSize(n int) (w, h float64)
	PageText(n int) string
	PageFonts(n int) []string
}

// Check is one compliance rule set. Blocking reports whether the
// check's failures invalidate the document outright; non-blocking
// checks are advisory regardless of their own pass flag.
type Check interface {
	// Key identifies the check in ValidationResult.Details.
	Key() string
	// Name is the human-readable title used in reports.
	Name() string
	// Blocking reports whether a failed run invalidates the document.
	Blocking() bool
	// Run evaluates the check. It must not fail for structural
	// reasons; a document that cannot be measured is a compliance
	// problem, not an error.
	Run(doc Document) *Result
}

// Result is the outcome shared by all checks.
type Result struct {
	Passed bool     `json:"passed"`
	Issues []string `json:"issues"`

	// Margins holds the estimated content margins, set only by the
	// margin check.
	Margins *Margins `json:"margins,omitempty"`
}

// Margins are estimated content margins in points.
type Margins struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Defaults returns the standard check list in report order.
func Defaults() []Check {
	return []Check{
		MarginCheck{},
		FontCheck{},
		StandardsCheck{},
	}
}
