package check

import "fmt"

// Margin thresholds in points.
const (
	// MinMargin is the 1-inch minimum required on every side.
	MinMargin = 72.0
	// RecommendedLeftMargin is the 1.5-inch binding allowance
	// recommended for the left edge.
	RecommendedLeftMargin = 108.0
)

// marginRatio is the share of each page dimension assumed to be blank.
// Margins are estimated, not measured: true content bounding boxes
// would require laying out every content stream.
const marginRatio = 0.10

// MarginCheck estimates per-page content margins and enforces the
// 1-inch minimum. It is the only blocking check.
type MarginCheck struct{}

func (MarginCheck) Key() string    { return "margins" }
func (MarginCheck) Name() string   { return "Margin compliance" }
func (MarginCheck) Blocking() bool { return true }

func (MarginCheck) Run(doc Document) *Result {
	res := &Result{Passed: true}

	for n := 1; n <= doc.NumPages(); n++ {
		w, h := doc.PageSize(n)
		m := Margins{
			Top:    h * marginRatio,
			Bottom: h * marginRatio,
			Left:   w * marginRatio,
			Right:  w * marginRatio,
		}

		for _, side := range []struct {
			name  string
			value float64
		}{
			{"top", m.Top},
			{"right", m.Right},
			{"bottom", m.Bottom},
			{"left", m.Left},
		} {
			if side.value < MinMargin {
				res.Passed = false
				res.Issues = append(res.Issues, fmt.Sprintf(
					"page %d: %s margin %.1fpt is below the %.0fpt (1 inch) minimum",
					n, side.name, side.value, MinMargin))
			}
		}

		if m.Left < RecommendedLeftMargin {
			res.Issues = append(res.Issues, fmt.Sprintf(
				"page %d: left margin %.1fpt is below the recommended %.0fpt (1.5 inch) binding allowance",
				n, m.Left, RecommendedLeftMargin))
		}

		// Last page wins; per-page history lives in the issue list.
		res.Margins = &m
	}

	return res
}
