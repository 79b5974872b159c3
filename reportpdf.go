package lexpdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/lvillar/lexpdf/check"
)

// RenderReportPDF renders a ValidationResult as a one-document PDF
// compliance certificate, suitable for attaching to a filing.
func RenderReportPDF(res *ValidationResult) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	// Pin the metadata dates: rendering the same result twice must
	// yield identical bytes.
	pdf.SetCreationDate(time.Unix(0, 0).UTC())
	pdf.SetModificationDate(time.Unix(0, 0).UTC())
	pdf.SetCatalogSort(true)
	pdf.SetTitle("Document Compliance Report", true)
	pdf.SetMargins(54, 54, 54)
	pdf.SetAutoPageBreak(true, 54)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 24, "Document Compliance Report", "", 1, "L", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	if res.IsValid {
		pdf.SetTextColor(0, 110, 0)
		pdf.CellFormat(0, 16, "Status: PASSED", "", 1, "L", false, 0, "")
	} else {
		pdf.SetTextColor(170, 0, 0)
		pdf.CellFormat(0, 16, "Status: FAILED", "", 1, "L", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(8)

	writeIssueList(pdf, fmt.Sprintf("Errors (%d)", len(res.Errors)), res.Errors)
	writeIssueList(pdf, fmt.Sprintf("Warnings (%d)", len(res.Warnings)), res.Warnings)

	for _, c := range reportOrder(res) {
		r, ok := res.Details[c.Key()]
		if !ok {
			continue
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 15, fmt.Sprintf("%s: %s", c.Name(), passedWord(r.Passed)), "", 1, "L", false, 0, "")
		if r.Margins != nil {
			pdf.SetFont("Helvetica", "", 10)
			pdf.CellFormat(0, 13, fmt.Sprintf(
				"Estimated margins: top %.2fin, right %.2fin, bottom %.2fin, left %.2fin",
				check.ToInches(r.Margins.Top), check.ToInches(r.Margins.Right),
				check.ToInches(r.Margins.Bottom), check.ToInches(r.Margins.Left)),
				"", 1, "L", false, 0, "")
		}
		pdf.Ln(4)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 15, "Governing Rules", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, rule := range []string{
		fmt.Sprintf("Margins: minimum %.2fin on all sides; %.2fin left margin recommended for binding",
			check.ToInches(check.MinMargin), check.ToInches(check.RecommendedLeftMargin)),
		fmt.Sprintf("Fonts: %d-%dpt body text in %s",
			check.MinFontSize, check.MaxFontSize, strings.Join(check.AcceptedFontFamilies, ", ")),
		fmt.Sprintf("Page size: A4 (%.0fx%.0fpt) or US Letter (%.0fx%.0fpt), within %.0fpt",
			check.SizeA4.Width, check.SizeA4.Height,
			check.SizeLetter.Width, check.SizeLetter.Height, check.SizeTolerance),
		"Orientation: portrait required",
		"Numbering: every page must carry a sequential Bates stamp",
	} {
		pdf.MultiCell(0, 13, "- "+rule, "", "L", false)
	}

	if pdf.Err() {
		return nil, opError("RenderReportPDF", pdf.Error())
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, opError("RenderReportPDF", err)
	}
	return buf.Bytes(), nil
}

func writeIssueList(pdf *gofpdf.Fpdf, title string, issues []string) {
	if len(issues) == 0 {
		return
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 15, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for i, issue := range issues {
		pdf.MultiCell(0, 13, fmt.Sprintf("%d. %s", i+1, issue), "", "L", false)
	}
	pdf.Ln(4)
}
