package document_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/phpdave11/gofpdf"

	"github.com/lvillar/lexpdf/document"
)

// generateTestPDF creates a simple PDF with one page per text entry.
func generateTestPDF(t *testing.T, texts ...string) []byte {
	t.Helper()
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetFont("Helvetica", "", 12)

	for _, text := range texts {
		pdf.AddPage()
		pdf.Text(100, 100, text)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("generating test PDF: %v", err)
	}
	return buf.Bytes()
}

func TestLoadRoundTrip(t *testing.T) {
	data := generateTestPDF(t, "Hello World", "Page Two")

	doc, err := document.Load(data)
	if err != nil {
		t.Fatalf("loading PDF: %v", err)
	}

	if doc.NumPages() != 2 {
		t.Errorf("expected 2 pages, got %d", doc.NumPages())
	}
	if doc.Version() == "" {
		t.Error("expected non-empty PDF version")
	}
	if !bytes.Equal(doc.Raw(), data) {
		t.Error("Raw() does not match the input buffer")
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty buffer", nil, document.ErrEmpty},
		{"zero length", []byte{}, document.ErrEmpty},
		{"plain text", []byte("this is not a pdf document at all"), document.ErrNotPDF},
		{"binary junk", bytes.Repeat([]byte{0xde, 0xad, 0xbe, 0xef}, 64), document.ErrNotPDF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := document.Load(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("Load() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadEncrypted(t *testing.T) {
	data := generateTestPDF(t, "secret")

	// Injecting /Encrypt into the trailer is offset-safe: the trailer
	// sits after every byte position the xref table references.
	tampered := bytes.Replace(data, []byte("trailer\n<<"), []byte("trailer\n<</Encrypt 9 0 R"), 1)
	if bytes.Equal(tampered, data) {
		t.Fatal("trailer marker not found in fixture")
	}

	if _, err := document.Load(tampered); !errors.Is(err, document.ErrEncrypted) {
		t.Errorf("Load() error = %v, want ErrEncrypted", err)
	}
}

func TestLoadTruncated(t *testing.T) {
	data := generateTestPDF(t, "content")

	// Cutting off the xref and trailer must fail, not panic.
	if _, err := document.Load(data[:len(data)/2]); err == nil {
		t.Error("expected error for truncated PDF")
	}
}

func TestPageAccess(t *testing.T) {
	data := generateTestPDF(t, "First", "Second", "Third")

	doc, err := document.Load(data)
	if err != nil {
		t.Fatalf("loading PDF: %v", err)
	}

	for i := 1; i <= 3; i++ {
		page, err := doc.Page(i)
		if err != nil {
			t.Errorf("page %d: %v", i, err)
			continue
		}
		if page.Number() != i {
			t.Errorf("page %d: Number() = %d", i, page.Number())
		}
		// A4 in points is approximately 595 x 842.
		if page.Width() < 590 || page.Width() > 600 {
			t.Errorf("page %d: width = %.2f", i, page.Width())
		}
		if page.Height() < 835 || page.Height() > 848 {
			t.Errorf("page %d: height = %.2f", i, page.Height())
		}
	}

	if _, err := doc.Page(0); err == nil {
		t.Error("expected error for page 0")
	}
	if _, err := doc.Page(4); err == nil {
		t.Error("expected error for page 4")
	}
}

func TestPagesIterator(t *testing.T) {
	data := generateTestPDF(t, "A", "B")

	doc, err := document.Load(data)
	if err != nil {
		t.Fatalf("loading PDF: %v", err)
	}

	count := 0
	for num, page := range doc.Pages() {
		count++
		if page.Number() != num {
			t.Errorf("iterator: page.Number()=%d, num=%d", page.Number(), num)
		}
	}
	if count != 2 {
		t.Errorf("iterator: expected 2 iterations, got %d", count)
	}
}

func TestTextExtraction(t *testing.T) {
	data := generateTestPDF(t, "Hello PDF Reader")

	doc, err := document.Load(data)
	if err != nil {
		t.Fatalf("loading PDF: %v", err)
	}

	page, err := doc.Page(1)
	if err != nil {
		t.Fatalf("getting page 1: %v", err)
	}

	text := page.Text()
	if text == "" {
		t.Fatal("expected non-empty text extraction")
	}
	if !strings.Contains(text, "Hello") {
		t.Errorf("extracted text %q does not contain input", text)
	}
}

func TestPageSizeTextFonts(t *testing.T) {
	data := generateTestPDF(t, "Measured content")

	doc, err := document.Load(data)
	if err != nil {
		t.Fatalf("loading PDF: %v", err)
	}

	w, h := doc.PageSize(1)
	if w <= 0 || h <= 0 {
		t.Errorf("PageSize(1) = %.2f x %.2f", w, h)
	}

	if doc.PageText(1) == "" {
		t.Error("PageText(1) is empty")
	}

	fonts := doc.PageFonts(1)
	found := false
	for _, f := range fonts {
		if strings.Contains(f, "Helvetica") {
			found = true
		}
	}
	if !found {
		t.Errorf("PageFonts(1) = %v, expected Helvetica", fonts)
	}

	// Out-of-range access returns zero values, never panics.
	if w, h := doc.PageSize(0); w != 0 || h != 0 {
		t.Errorf("PageSize(0) = %.2f x %.2f, want zeros", w, h)
	}
	if doc.PageText(99) != "" {
		t.Error("PageText(99) should be empty")
	}
	if doc.PageFonts(99) != nil {
		t.Error("PageFonts(99) should be nil")
	}
}

func TestMetadata(t *testing.T) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetTitle("Filing Exhibit A", false)
	pdf.SetAuthor("Test Author", false)
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPage()
	pdf.Text(100, 100, "Metadata test")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("generating PDF: %v", err)
	}

	doc, err := document.Load(buf.Bytes())
	if err != nil {
		t.Fatalf("loading PDF: %v", err)
	}

	meta := doc.Metadata()
	if meta["Title"] != "Filing Exhibit A" {
		t.Errorf("Title = %q, want %q", meta["Title"], "Filing Exhibit A")
	}
	if meta["Author"] != "Test Author" {
		t.Errorf("Author = %q, want %q", meta["Author"], "Test Author")
	}
}

func TestCustomPageSize(t *testing.T) {
	pdf := gofpdf.New("L", "pt", "Letter", "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPage()
	pdf.Text(100, 100, "landscape letter")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("generating PDF: %v", err)
	}

	doc, err := document.Load(buf.Bytes())
	if err != nil {
		t.Fatalf("loading PDF: %v", err)
	}

	w, h := doc.PageSize(1)
	// Landscape Letter is 792 x 612 points.
	if w < 787 || w > 797 {
		t.Errorf("width = %.2f, want ~792", w)
	}
	if h < 607 || h > 617 {
		t.Errorf("height = %.2f, want ~612", h)
	}
}
