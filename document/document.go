// Package document loads a PDF byte buffer into a page-addressable
// in-memory model: page count, per-page geometry, extractable text
// content, and font resources.
//
// Loading is the only point where catastrophic failure is expected. A
// buffer that is empty, not a PDF, encrypted, or without any pages is
// rejected outright; downstream consumers may assume a well-formed,
// non-empty page list and must not fail for structural reasons.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"iter"
	"os"
)

// Load failure sentinels. Callers distinguish "not a document at all"
// from structural parse failures with errors.Is.
var (
	ErrEmpty     = errors.New("document: empty input buffer")
	ErrNotPDF    = errors.New("document: missing %PDF header")
	ErrEncrypted = errors.New("document: encrypted documents are not supported")
	ErrNoPages   = errors.New("document: document has no pages")
)

// Document is a parsed PDF held entirely in memory. A Document is owned
// by a single validation or annotation call; it is never shared across
// concurrent operations and is discarded after the call produces its
// output.
type Document struct {
	version string
	data    []byte
	xref    xrefTable
	trailer Dict
	pages   []*Page
}

// Load parses a PDF document from a raw byte buffer.
func Load(data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if !bytes.Contains(data[:min(1024, len(data))], []byte("%PDF-")) {
		return nil, ErrNotPDF
	}

	d := &Document{
		version: headerVersion(data),
		data:    data,
	}

	start, err := findStartXref(data)
	if err != nil {
		return nil, err
	}
	d.xref, d.trailer, err = loadXref(data, start)
	if err != nil {
		return nil, err
	}

	if _, ok := d.trailer["Encrypt"]; ok {
		return nil, ErrEncrypted
	}

	if err := d.loadPages(); err != nil {
		return nil, err
	}
	if len(d.pages) == 0 {
		return nil, ErrNoPages
	}
	return d, nil
}

// Open reads and parses a PDF file from disk.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("document: opening %s: %w", path, err)
	}
	return Load(data)
}

// headerVersion extracts the version from the "%PDF-1.x" file header.
func headerVersion(data []byte) string {
	head := data[:min(20, len(data))]
	idx := bytes.Index(head, []byte("%PDF-"))
	if idx < 0 {
		return ""
	}
	end := idx + 5
	for end < len(head) && head[end] != '\r' && head[end] != '\n' {
		end++
	}
	return string(head[idx+5 : end])
}

// Version returns the PDF version from the file header, e.g. "1.7".
func (d *Document) Version() string { return d.version }

// Raw returns the original byte buffer the document was loaded from.
func (d *Document) Raw() []byte { return d.data }

// NumPages returns the total number of pages.
func (d *Document) NumPages() int { return len(d.pages) }

// Page returns the page at the given 1-based index.
func (d *Document) Page(n int) (*Page, error) {
	if n < 1 || n > len(d.pages) {
		return nil, fmt.Errorf("document: page %d out of range [1, %d]", n, len(d.pages))
	}
	return d.pages[n-1], nil
}

// Pages returns an iterator over all pages. The index is 1-based.
func (d *Document) Pages() iter.Seq2[int, *Page] {
	return func(yield func(int, *Page) bool) {
		for i, p := range d.pages {
			if !yield(i+1, p) {
				return
			}
		}
	}
}

// PageSize returns the width and height in points of the page at the
// given 1-based index, or zeros if the index is out of range.
func (d *Document) PageSize(n int) (w, h float64) {
	if n < 1 || n > len(d.pages) {
		return 0, 0
	}
	p := d.pages[n-1]
	return p.Width(), p.Height()
}

// PageText returns the extractable text of the page at the given
// 1-based index. Extraction failures read as empty text: a page whose
// content cannot be decoded is indistinguishable from a page without a
// text layer, which is a compliance issue rather than a load failure.
func (d *Document) PageText(n int) string {
	if n < 1 || n > len(d.pages) {
		return ""
	}
	return d.pages[n-1].Text()
}

// PageFonts returns the base font names referenced by the page at the
// given 1-based index.
func (d *Document) PageFonts(n int) []string {
	if n < 1 || n > len(d.pages) {
		return nil
	}
	return d.pages[n-1].Fonts()
}

// Metadata returns the entries of the /Info dictionary, if present.
func (d *Document) Metadata() map[string]string {
	meta := make(map[string]string)
	info, ok := d.trailer["Info"]
	if !ok {
		return meta
	}
	resolved, err := d.deref(info)
	if err != nil {
		return meta
	}
	dict, ok := resolved.(Dict)
	if !ok {
		return meta
	}
	for _, key := range []Name{"Title", "Author", "Subject", "Keywords", "Creator", "Producer"} {
		if s, ok := dict[key].(Str); ok {
			meta[string(key)] = decodeText(s)
		}
	}
	return meta
}

// resolve loads the object behind an indirect reference.
func (d *Document) resolve(ref Ref) (Object, error) {
	e, ok := d.xref[ref.Num]
	if !ok || e.kind == xrefFree {
		return Null{}, nil
	}
	switch e.kind {
	case xrefInStream:
		return d.resolveCompressed(e)
	default:
		if e.off < 0 || e.off >= int64(len(d.data)) {
			return nil, fmt.Errorf("document: object %d offset %d out of bounds", ref.Num, e.off)
		}
		s := newScanner(d.data[e.off:])
		_, obj, err := s.indirect()
		if err != nil {
			return nil, fmt.Errorf("document: object %d: %w", ref.Num, err)
		}
		return obj, nil
	}
}

// resolveCompressed loads an object stored inside an object stream
// (xref entry type 2, PDF 1.5+).
func (d *Document) resolveCompressed(e xrefEntry) (Object, error) {
	container, err := d.resolve(Ref{Num: e.stm})
	if err != nil {
		return nil, err
	}
	stm, ok := container.(Stream)
	if !ok {
		return nil, fmt.Errorf("document: object stream %d is not a stream", e.stm)
	}
	data, err := decodeStream(stm)
	if err != nil {
		return nil, fmt.Errorf("document: decoding object stream %d: %w", e.stm, err)
	}

	n, _ := stm.Dict.Int("N")
	first, _ := stm.Dict.Int("First")
	if int64(e.idx) >= n {
		return nil, fmt.Errorf("document: object index %d out of range in stream %d", e.idx, e.stm)
	}

	// Header: N pairs of "objnum offset" relative to /First.
	s := newScanner(data)
	var objOff int64
	for i := int64(0); i <= int64(e.idx); i++ {
		s.token() // object number, unused
		tok := s.token()
		off, err := parseInt(tok)
		if err != nil {
			return nil, fmt.Errorf("document: object stream %d header: %w", e.stm, err)
		}
		objOff = off
	}

	pos := first + objOff
	if pos < 0 || pos >= int64(len(data)) {
		return nil, fmt.Errorf("document: object offset %d out of range in stream %d", pos, e.stm)
	}
	return newScanner(data[pos:]).next()
}

// deref resolves an object if it is an indirect reference, otherwise
// returns it unchanged.
func (d *Document) deref(obj Object) (Object, error) {
	if ref, ok := obj.(Ref); ok {
		return d.resolve(ref)
	}
	return obj, nil
}
