package bates

import (
	"bytes"
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"
	"github.com/phpdave11/gofpdf/contrib/gofpdi"

	"github.com/lvillar/lexpdf/document"
)

// SplitVolumes splits a document into consecutive volumes of at most
// pagesPerVolume pages each. Page order is preserved; the last volume
// holds the remainder. Stamp a document before splitting so Bates
// numbers stay continuous across volumes.
func SplitVolumes(data []byte, pagesPerVolume int) ([][]byte, error) {
	if pagesPerVolume < 1 {
		return nil, fmt.Errorf("bates: pages per volume must be positive, got %d", pagesPerVolume)
	}

	doc, err := document.Load(data)
	if err != nil {
		return nil, err
	}

	var volumes [][]byte
	for start := 1; start <= doc.NumPages(); start += pagesPerVolume {
		end := start + pagesPerVolume - 1
		if end > doc.NumPages() {
			end = doc.NumPages()
		}
		vol, err := extractRange(doc, start, end)
		if err != nil {
			return nil, fmt.Errorf("bates: volume starting at page %d: %w", start, err)
		}
		volumes = append(volumes, vol)
	}
	return volumes, nil
}

// extractRange copies pages [start, end] (1-based, inclusive) into a
// new PDF buffer.
func extractRange(doc *document.Document, start, end int) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetCreationDate(epoch)
	pdf.SetModificationDate(epoch)
	pdf.SetCatalogSort(true)
	pdf.SetAutoPageBreak(false, 0)
	imp := gofpdi.NewImporter()
	rs := io.ReadSeeker(bytes.NewReader(doc.Raw()))

	for n := start; n <= end; n++ {
		w, h := doc.PageSize(n)
		if w == 0 || h == 0 {
			w, h = 595.28, 841.89
		}
		tplID := imp.ImportPageFromStream(pdf, &rs, n, "/MediaBox")
		pdf.AddPageFormat("P", gofpdf.SizeType{Wd: w, Ht: h})
		imp.UseImportedTemplate(pdf, tplID, 0, 0, w, h)
	}

	if pdf.Err() {
		return nil, pdf.Error()
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
