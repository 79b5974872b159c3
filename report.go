package lexpdf

import (
	"fmt"
	"strings"

	"github.com/lvillar/lexpdf/check"
)

// RenderReport formats a ValidationResult as a plain-text compliance
// report. The layout is deterministic: the same result always renders
// to identical text.
func RenderReport(res *ValidationResult) string {
	var b strings.Builder

	b.WriteString("DOCUMENT COMPLIANCE REPORT\n")
	b.WriteString("==========================\n\n")

	if res.IsValid {
		b.WriteString("Status: PASSED\n")
	} else {
		b.WriteString("Status: FAILED\n")
	}

	if len(res.Errors) > 0 {
		fmt.Fprintf(&b, "\nErrors (%d):\n", len(res.Errors))
		for i, e := range res.Errors {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, e)
		}
	}
	if len(res.Warnings) > 0 {
		fmt.Fprintf(&b, "\nWarnings (%d):\n", len(res.Warnings))
		for i, w := range res.Warnings {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, w)
		}
	}

	for _, c := range reportOrder(res) {
		r, ok := res.Details[c.Key()]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "\n%s: %s\n", c.Name(), passedWord(r.Passed))
		if r.Margins != nil {
			fmt.Fprintf(&b, "  Estimated margins: top %.2fin, right %.2fin, bottom %.2fin, left %.2fin\n",
				check.ToInches(r.Margins.Top),
				check.ToInches(r.Margins.Right),
				check.ToInches(r.Margins.Bottom),
				check.ToInches(r.Margins.Left))
		}
	}

	b.WriteString("\nGoverning Rules\n")
	b.WriteString("---------------\n")
	fmt.Fprintf(&b, "- Margins: minimum %.2fin on all sides; %.2fin left margin recommended for binding\n",
		check.ToInches(check.MinMargin), check.ToInches(check.RecommendedLeftMargin))
	fmt.Fprintf(&b, "- Fonts: %d-%dpt body text in %s\n",
		check.MinFontSize, check.MaxFontSize, strings.Join(check.AcceptedFontFamilies, ", "))
	fmt.Fprintf(&b, "- Page size: A4 (%.0fx%.0fpt) or US Letter (%.0fx%.0fpt), within %.0fpt\n",
		check.SizeA4.Width, check.SizeA4.Height,
		check.SizeLetter.Width, check.SizeLetter.Height, check.SizeTolerance)
	b.WriteString("- Orientation: portrait required\n")
	b.WriteString("- Numbering: every page must carry a sequential Bates stamp\n")

	return b.String()
}

// reportOrder returns the check order the result was produced with,
// falling back to the default list for results built elsewhere.
func reportOrder(res *ValidationResult) []check.Check {
	if len(res.checks) > 0 {
		return res.checks
	}
	return check.Defaults()
}

func passedWord(passed bool) string {
	if passed {
		return "passed"
	}
	return "failed"
}
