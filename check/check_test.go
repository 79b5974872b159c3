package check

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fakeDoc is a synthetic document for exercising checks without a real
// PDF, including shapes Load would reject (zero pages).
type fakeDoc struct {
	sizes [][2]float64
	texts []string
	fonts [][]string
}

func (d *fakeDoc) NumPages() int { return len(d.sizes) }

func (d *fakeDoc) PageSize(n int) (float64, float64) {
	if n < 1 || n > len(d.sizes) {
		return 0, 0
	}
	return d.sizes[n-1][0], d.sizes[n-1][1]
}

func (d *fakeDoc) PageText(n int) string {
	if n < 1 || n > len(d.texts) {
		return ""
	}
	return d.texts[n-1]
}

func (d *fakeDoc) PageFonts(n int) []string {
	if n < 1 || n > len(d.fonts) {
		return nil
	}
	return d.fonts[n-1]
}

// a4Doc builds an n-page A4 document with the given per-page text.
func a4Doc(n int, text string) *fakeDoc {
	d := &fakeDoc{}
	for i := 0; i < n; i++ {
		d.sizes = append(d.sizes, [2]float64{595, 842})
		d.texts = append(d.texts, text)
	}
	return d
}

func countContaining(issues []string, substr string) int {
	n := 0
	for _, s := range issues {
		if strings.Contains(s, substr) {
			n++
		}
	}
	return n
}

func TestDefaults(t *testing.T) {
	checks := Defaults()
	if len(checks) != 3 {
		t.Fatalf("expected 3 default checks, got %d", len(checks))
	}

	keys := []string{checks[0].Key(), checks[1].Key(), checks[2].Key()}
	want := []string{"margins", "fonts", "standards"}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("check keys mismatch (-want +got):\n%s", diff)
	}

	for _, c := range checks {
		blocking := c.Key() == "margins"
		if c.Blocking() != blocking {
			t.Errorf("check %q: Blocking() = %v, want %v", c.Key(), c.Blocking(), blocking)
		}
	}
}

func TestMarginCheckSmallPage(t *testing.T) {
	doc := &fakeDoc{sizes: [][2]float64{{100, 100}}}

	res := MarginCheck{}.Run(doc)
	if res.Passed {
		t.Error("expected Passed = false for 100x100 page")
	}

	// Four sides below the minimum plus one binding recommendation.
	if len(res.Issues) != 5 {
		t.Fatalf("expected 5 issues, got %d: %v", len(res.Issues), res.Issues)
	}
	if n := countContaining(res.Issues, "below the 72pt"); n != 4 {
		t.Errorf("expected 4 minimum violations, got %d", n)
	}
	if n := countContaining(res.Issues, "binding allowance"); n != 1 {
		t.Errorf("expected 1 recommendation, got %d", n)
	}

	want := &Margins{Top: 10, Right: 10, Bottom: 10, Left: 10}
	if diff := cmp.Diff(want, res.Margins); diff != "" {
		t.Errorf("margins mismatch (-want +got):\n%s", diff)
	}
}

func TestMarginCheckLargePage(t *testing.T) {
	// 10% of 1000pt is 100pt, above the 72pt minimum but under the
	// 108pt left recommendation.
	doc := &fakeDoc{sizes: [][2]float64{{1000, 1000}}}

	res := MarginCheck{}.Run(doc)
	if !res.Passed {
		t.Errorf("expected Passed = true, issues: %v", res.Issues)
	}
	if len(res.Issues) != 1 || !strings.Contains(res.Issues[0], "binding allowance") {
		t.Errorf("expected only the recommendation issue, got %v", res.Issues)
	}
}

func TestMarginCheckNoIssues(t *testing.T) {
	doc := &fakeDoc{sizes: [][2]float64{{1100, 1000}}}

	res := MarginCheck{}.Run(doc)
	if !res.Passed {
		t.Errorf("expected Passed = true, issues: %v", res.Issues)
	}
	if len(res.Issues) != 0 {
		t.Errorf("expected no issues, got %v", res.Issues)
	}
}

func TestMarginCheckReportsLastPage(t *testing.T) {
	doc := &fakeDoc{sizes: [][2]float64{{1000, 1000}, {2000, 2000}}}

	res := MarginCheck{}.Run(doc)
	want := &Margins{Top: 200, Right: 200, Bottom: 200, Left: 200}
	if diff := cmp.Diff(want, res.Margins); diff != "" {
		t.Errorf("margins mismatch (-want +got):\n%s", diff)
	}
}

func TestFontCheckEmptyText(t *testing.T) {
	doc := a4Doc(2, "")

	res := FontCheck{}.Run(doc)
	if res.Passed {
		t.Error("expected Passed = false for empty text")
	}
	if len(res.Issues) != 1 || !strings.Contains(res.Issues[0], "image-only") {
		t.Errorf("expected the image-only issue, got %v", res.Issues)
	}
}

func TestFontCheckAdvisories(t *testing.T) {
	doc := a4Doc(3, "Some filing text\nSecond line")
	doc.fonts = [][]string{{"Helvetica"}, {"Times-Roman"}, {"Helvetica"}}

	res := FontCheck{}.Run(doc)
	if !res.Passed {
		t.Errorf("expected Passed = true, issues: %v", res.Issues)
	}

	for _, want := range []string{
		"recommended body text size is 12-14pt",
		"accepted font families",
		"6 non-empty lines of extractable text across 3 pages",
		"embedded fonts referenced: Helvetica, Times-Roman",
	} {
		if countContaining(res.Issues, want) != 1 {
			t.Errorf("missing advisory %q in %v", want, res.Issues)
		}
	}
}

func TestStandardsCheckZeroPages(t *testing.T) {
	res := StandardsCheck{}.Run(&fakeDoc{})
	if res.Passed {
		t.Error("expected Passed = false for zero pages")
	}
	want := []string{"document has no pages"}
	if diff := cmp.Diff(want, res.Issues); diff != "" {
		t.Errorf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestStandardsCheckPageSizes(t *testing.T) {
	tests := []struct {
		name      string
		w, h      float64
		wantIssue bool
	}{
		{"exact A4", 595, 842, false},
		{"exact Letter", 612, 792, false},
		{"A4 within tolerance", 590, 845, false},
		// 600x800 is sometimes cited as near-A4, but under the
		// per-axis rule it is 42pt off A4's height and 12pt off
		// Letter's width, so it matches neither.
		{"between the standards", 600, 800, true},
		{"oversized", 700, 900, true},
		{"undersized", 500, 700, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &fakeDoc{sizes: [][2]float64{{tt.w, tt.h}}}
			res := StandardsCheck{}.Run(doc)
			got := countContaining(res.Issues, "matches neither") > 0
			if got != tt.wantIssue {
				t.Errorf("size issue = %v, want %v (issues: %v)", got, tt.wantIssue, res.Issues)
			}
			if !res.Passed {
				t.Error("size findings must stay advisory")
			}
		})
	}
}

func TestStandardsCheckInconsistentSizes(t *testing.T) {
	doc := &fakeDoc{sizes: [][2]float64{{595, 842}, {595, 842}, {612, 792}}}

	res := StandardsCheck{}.Run(doc)
	if !res.Passed {
		t.Error("consistency findings must stay advisory")
	}
	if n := countContaining(res.Issues, "differs from page 1"); n != 1 {
		t.Errorf("expected 1 consistency issue, got %d: %v", n, res.Issues)
	}
	if countContaining(res.Issues, "page 3 size") != 1 {
		t.Errorf("issue should name page 3: %v", res.Issues)
	}
}

func TestStandardsCheckOrientation(t *testing.T) {
	doc := &fakeDoc{sizes: [][2]float64{{842, 595}}}

	res := StandardsCheck{}.Run(doc)
	if !res.Passed {
		t.Error("orientation findings must stay advisory")
	}
	if countContaining(res.Issues, "portrait orientation is required") != 1 {
		t.Errorf("expected orientation issue, got %v", res.Issues)
	}
}

func TestStandardsCheckVolumeAdvisory(t *testing.T) {
	doc := a4Doc(501, "x")

	res := StandardsCheck{}.Run(doc)
	if countContaining(res.Issues, "split into volumes") != 1 {
		t.Errorf("expected volume advisory, got %v", res.Issues)
	}

	res = StandardsCheck{}.Run(a4Doc(500, "x"))
	if countContaining(res.Issues, "split into volumes") != 0 {
		t.Errorf("500 pages should not trigger the advisory: %v", res.Issues)
	}
}

func TestGeometry(t *testing.T) {
	if got := ToInches(72); got != 1 {
		t.Errorf("ToInches(72) = %v", got)
	}
	if got := ToPoints(1.5); got != 108 {
		t.Errorf("ToPoints(1.5) = %v", got)
	}

	if !SizeA4.Matches(595, 842) {
		t.Error("A4 must match itself")
	}
	if !SizeA4.Matches(605, 832) {
		t.Error("10pt deviation is within tolerance")
	}
	if SizeA4.Matches(606, 842) {
		t.Error("11pt deviation is out of tolerance")
	}
	if SizeLetter.Matches(595, 842) {
		t.Error("A4 dimensions must not match Letter")
	}
}
