// Package bates stamps sequential Bates numbers onto existing PDF
// documents for legal page tracking.
//
// Stamping rebuilds the document page by page: each original page is
// imported as a template into a fresh PDF and the stamp text is drawn
// on top, so pre-existing content is preserved unchanged. Numbering is
// strictly sequential with no gaps, and output page order equals input
// page order.
package bates

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/phpdave11/gofpdf/contrib/gofpdi"

	"github.com/lvillar/lexpdf/document"
)

// epoch pins the output's CreationDate and ModDate. gofpdf falls back
// to the wall clock for unset dates, which would make two runs over
// identical input differ.
var epoch = time.Unix(0, 0).UTC()

// Position specifies where the stamp is placed on each page.
type Position int

const (
	BottomRight Position = iota
	BottomCenter
	BottomLeft
	TopRight
	TopCenter
	TopLeft
)

var positionNames = map[Position]string{
	BottomRight:  "bottom-right",
	BottomCenter: "bottom-center",
	BottomLeft:   "bottom-left",
	TopRight:     "top-right",
	TopCenter:    "top-center",
	TopLeft:      "top-left",
}

func (p Position) String() string {
	if name, ok := positionNames[p]; ok {
		return name
	}
	return "bottom-right"
}

// ParsePosition maps a position name like "bottom-right" or "topLeft"
// to its Position. Unknown names report false.
func ParsePosition(s string) (Position, bool) {
	norm := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '-' || c == '_' || c == ' ':
		case c >= 'A' && c <= 'Z':
			norm = append(norm, c+('a'-'A'))
		default:
			norm = append(norm, c)
		}
	}
	switch string(norm) {
	case "bottomright":
		return BottomRight, true
	case "bottomcenter":
		return BottomCenter, true
	case "bottomleft":
		return BottomLeft, true
	case "topright":
		return TopRight, true
	case "topcenter":
		return TopCenter, true
	case "topleft":
		return TopLeft, true
	}
	return BottomRight, false
}

// Options configures one stamping run. The zero value stamps
// "000001", "000002", ... bottom-right at 10pt.
type Options struct {
	Prefix   string   // text before the number, e.g. "DOC-"
	Start    int      // first number; 0 means 1. Negative values are not clamped.
	Suffix   string   // text after the number
	Position Position // stamp placement (default: BottomRight)
	FontSize float64  // stamp size in points (default: 10)
}

func (o Options) withDefaults() Options {
	if o.Start == 0 {
		o.Start = 1
	}
	if o.FontSize == 0 {
		o.FontSize = 10
	}
	return o
}

// Stamp is the computed overlay for one page. X and Y are in PDF user
// space (origin at the bottom-left corner of the page).
type Stamp struct {
	Text string
	X, Y float64
}

// Plan computes the stamp for every page of the document without
// drawing anything. Page i (0-based) receives Start+i, zero-padded to
// six digits, between Prefix and Suffix.
func Plan(doc *document.Document, o Options) []Stamp {
	o = o.withDefaults()
	stamps := make([]Stamp, 0, doc.NumPages())
	for n, page := range doc.Pages() {
		x, y := placeStamp(o.Position, page.Width(), page.Height())
		stamps = append(stamps, Stamp{
			Text: fmt.Sprintf("%s%06d%s", o.Prefix, o.Start+n-1, o.Suffix),
			X:    x,
			Y:    y,
		})
	}
	return stamps
}

// placeStamp resolves a position to coordinates on a page of the given
// size. The stamp box is approximated as 100pt wide.
func placeStamp(pos Position, w, h float64) (x, y float64) {
	switch pos {
	case BottomCenter:
		return w/2 - 40, 20
	case BottomLeft:
		return 50, 20
	case TopRight:
		return w - 100, h - 30
	case TopCenter:
		return w/2 - 40, h - 30
	case TopLeft:
		return 50, h - 30
	default: // BottomRight
		return w - 100, 20
	}
}

// Apply stamps every page of the document and returns the new PDF
// buffer. It fails only when the input cannot be loaded or the output
// cannot be serialized; drawing itself has no failure mode.
func Apply(data []byte, o Options) ([]byte, error) {
	doc, err := document.Load(data)
	if err != nil {
		return nil, err
	}
	o = o.withDefaults()
	stamps := Plan(doc, o)

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetCreationDate(epoch)
	pdf.SetModificationDate(epoch)
	pdf.SetCatalogSort(true)
	pdf.SetAutoPageBreak(false, 0)
	imp := gofpdi.NewImporter()
	rs := io.ReadSeeker(bytes.NewReader(doc.Raw()))

	for n, page := range doc.Pages() {
		w, h := page.Width(), page.Height()
		if w == 0 || h == 0 {
			w, h = 595.28, 841.89
		}

		tplID := imp.ImportPageFromStream(pdf, &rs, n, "/MediaBox")
		pdf.AddPageFormat("P", gofpdf.SizeType{Wd: w, Ht: h})
		imp.UseImportedTemplate(pdf, tplID, 0, 0, w, h)

		// Stamp coordinates are in PDF user space; gofpdf draws with
		// the origin at the top-left corner.
		s := stamps[n-1]
		pdf.SetFont("Helvetica", "", o.FontSize)
		pdf.SetTextColor(0, 0, 0)
		pdf.Text(s.X, h-s.Y, s.Text)
	}

	if pdf.Err() {
		return nil, fmt.Errorf("bates: stamping: %w", pdf.Error())
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("bates: writing output: %w", err)
	}
	return buf.Bytes(), nil
}
