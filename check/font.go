package check

import (
	"fmt"
	"sort"
	"strings"
)

// Recommended body text bounds in points.
const (
	MinFontSize = 12
	MaxFontSize = 14
)

// AcceptedFontFamilies are the typefaces conventionally accepted for
// filings.
var AcceptedFontFamilies = []string{
	"Times New Roman",
	"Century Schoolbook",
	"Arial",
	"Helvetica",
}

// FontCheck verifies that the document carries a text layer and issues
// the standing readability advisories. Font size cannot be verified
// from text statistics alone, so the check is advisory except for the
// no-text case, which marks a scanned document without OCR.
type FontCheck struct{}

func (FontCheck) Key() string    { return "fonts" }
func (FontCheck) Name() string   { return "Text and font readability" }
func (FontCheck) Blocking() bool { return false }

func (FontCheck) Run(doc Document) *Result {
	var text strings.Builder
	fonts := make(map[string]bool)
	for n := 1; n <= doc.NumPages(); n++ {
		text.WriteString(doc.PageText(n))
		text.WriteByte('\n')
		for _, f := range doc.PageFonts(n) {
			fonts[f] = true
		}
	}

	if strings.TrimSpace(text.String()) == "" {
		return &Result{
			Passed: false,
			Issues: []string{
				"document appears to be image-only or has no extractable text layer; scanned filings must include OCR text",
			},
		}
	}

	lines := 0
	for _, line := range strings.Split(text.String(), "\n") {
		if strings.TrimSpace(line) != "" {
			lines++
		}
	}

	res := &Result{Passed: true}
	res.Issues = append(res.Issues, fmt.Sprintf(
		"recommended body text size is %d-%dpt", MinFontSize, MaxFontSize))
	res.Issues = append(res.Issues, fmt.Sprintf(
		"accepted font families: %s", strings.Join(AcceptedFontFamilies, ", ")))
	res.Issues = append(res.Issues, fmt.Sprintf(
		"document contains %d non-empty lines of extractable text across %d pages",
		lines, doc.NumPages()))

	if len(fonts) > 0 {
		names := make([]string, 0, len(fonts))
		for f := range fonts {
			names = append(names, f)
		}
		sort.Strings(names)
		res.Issues = append(res.Issues, fmt.Sprintf(
			"embedded fonts referenced: %s", strings.Join(names, ", ")))
	}
	return res
}
