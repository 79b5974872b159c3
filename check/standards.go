package check

import "fmt"

// MaxRecommendedPages is the page count above which splitting into
// volumes is recommended.
const MaxRecommendedPages = 500

// StandardsCheck verifies page standards: canonical size (A4 or US
// Letter), size consistency across the document, and portrait
// orientation. Apart from the degenerate zero-page case every finding
// is advisory.
type StandardsCheck struct{}

func (StandardsCheck) Key() string    { return "standards" }
func (StandardsCheck) Name() string   { return "Page standards" }
func (StandardsCheck) Blocking() bool { return false }

func (StandardsCheck) Run(doc Document) *Result {
	if doc.NumPages() == 0 {
		return &Result{
			Passed: false,
			Issues: []string{"document has no pages"},
		}
	}

	res := &Result{Passed: true}

	if doc.NumPages() > MaxRecommendedPages {
		res.Issues = append(res.Issues, fmt.Sprintf(
			"document has %d pages; filings over %d pages should be split into volumes",
			doc.NumPages(), MaxRecommendedPages))
	}

	w, h := doc.PageSize(1)
	if !SizeA4.Matches(w, h) && !SizeLetter.Matches(w, h) {
		res.Issues = append(res.Issues, fmt.Sprintf(
			"page size %.0fx%.0fpt matches neither A4 (%.0fx%.0fpt) nor US Letter (%.0fx%.0fpt)",
			w, h, SizeA4.Width, SizeA4.Height, SizeLetter.Width, SizeLetter.Height))
	}

	first := PageSize{Width: w, Height: h}
	for n := 2; n <= doc.NumPages(); n++ {
		pw, ph := doc.PageSize(n)
		if !first.Matches(pw, ph) {
			res.Issues = append(res.Issues, fmt.Sprintf(
				"page %d size %.0fx%.0fpt differs from page 1 (%.0fx%.0fpt)",
				n, pw, ph, w, h))
		}
	}

	if h <= w {
		res.Issues = append(res.Issues,
			"pages are landscape or square; portrait orientation is required")
	}

	return res
}
