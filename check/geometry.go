package check

import "math"

// PointsPerInch is the typographic point density: 1pt = 1/72in.
const PointsPerInch = 72.0

// SizeTolerance is the slack allowed when comparing page dimensions,
// in points. Real-world scans and re-exports rarely hit canonical
// sizes exactly.
const SizeTolerance = 10.0

// Canonical portrait page sizes in points.
var (
	SizeA4     = PageSize{Width: 595, Height: 842}
	SizeLetter = PageSize{Width: 612, Height: 792}
)

// PageSize is a page extent in points.
type PageSize struct {
	Width, Height float64
}

// Matches reports whether (w, h) equals the size within SizeTolerance
// on both axes.
func (s PageSize) Matches(w, h float64) bool {
	return math.Abs(w-s.Width) <= SizeTolerance && math.Abs(h-s.Height) <= SizeTolerance
}

// ToInches converts points to inches.
func ToInches(pt float64) float64 {
	return pt / PointsPerInch
}

// ToPoints converts inches to points.
func ToPoints(in float64) float64 {
	return in * PointsPerInch
}
