package document

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Page is a single page of a loaded document. Pages are read-only;
// text extraction is computed once and cached, so a Page may be read
// from several goroutines at once.
type Page struct {
	num       int
	mediaBox  rect
	resources Dict
	contents  []Stream
	rotate    int
	doc       *Document

	textOnce sync.Once
	text     string
}

// rect is a PDF rectangle [llx lly urx ury].
type rect struct {
	llx, lly, urx, ury float64
}

func (r rect) width() float64  { return r.urx - r.llx }
func (r rect) height() float64 { return r.ury - r.lly }

// Number returns the 1-based page index.
func (p *Page) Number() int { return p.num }

// Width returns the MediaBox width in points.
func (p *Page) Width() float64 { return p.mediaBox.width() }

// Height returns the MediaBox height in points.
func (p *Page) Height() float64 { return p.mediaBox.height() }

// Rotation returns the page /Rotate value in degrees.
func (p *Page) Rotation() int { return p.rotate }

// Text returns the extractable text content of the page: the page's
// own content stream plus any form XObjects it references, so text that
// an overlay rebuild moved into an imported template stays visible. The
// result is computed on first use and cached. Pages whose content
// cannot be decoded read as empty.
func (p *Page) Text() string {
	p.textOnce.Do(func() {
		var out strings.Builder
		if data, err := p.contentData(); err == nil {
			out.WriteString(extractText(data))
		}
		p.appendFormText(&out, p.resources, 0)
		p.text = strings.TrimSpace(out.String())
	})
	return p.text
}

// appendFormText extracts text from the form XObjects in a resource
// dictionary, recursing into each form's own resources. Forms nest one
// level per overlay rebuild; the depth cap guards against reference
// cycles.
func (p *Page) appendFormText(out *strings.Builder, res Dict, depth int) {
	if res == nil || depth > 16 {
		return
	}
	xobjObj, err := p.doc.deref(res["XObject"])
	if err != nil {
		return
	}
	xobjs, ok := xobjObj.(Dict)
	if !ok {
		return
	}

	names := make([]Name, 0, len(xobjs))
	for name := range xobjs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	for _, name := range names {
		obj, err := p.doc.deref(xobjs[name])
		if err != nil {
			continue
		}
		stm, ok := obj.(Stream)
		if !ok {
			continue
		}
		if sub, _ := stm.Dict.Name("Subtype"); sub != "Form" {
			continue
		}
		data, err := decodeStream(stm)
		if err != nil {
			continue
		}
		if text := extractText(data); text != "" {
			out.WriteByte(' ')
			out.WriteString(text)
		}
		if inner, err := p.doc.deref(stm.Dict["Resources"]); err == nil {
			if innerDict, ok := inner.(Dict); ok {
				p.appendFormText(out, innerDict, depth+1)
			}
		}
	}
}

// Fonts returns the base font names referenced by the page's /Font
// resources, sorted, with subset prefixes ("ABCDEF+") removed.
func (p *Page) Fonts() []string {
	fontsObj, ok := p.resources["Font"]
	if !ok {
		return nil
	}
	resolved, err := p.doc.deref(fontsObj)
	if err != nil {
		return nil
	}
	fonts, ok := resolved.(Dict)
	if !ok {
		return nil
	}

	seen := make(map[string]bool)
	for _, v := range fonts {
		fd, err := p.doc.deref(v)
		if err != nil {
			continue
		}
		dict, ok := fd.(Dict)
		if !ok {
			continue
		}
		base, ok := dict.Name("BaseFont")
		if !ok {
			continue
		}
		name := string(base)
		if i := strings.IndexByte(name, '+'); i == 6 {
			name = name[7:]
		}
		seen[name] = true
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// contentData returns the concatenated, decoded content streams.
func (p *Page) contentData() ([]byte, error) {
	var out []byte
	for _, s := range p.contents {
		decoded, err := decodeStream(s)
		if err != nil {
			return nil, fmt.Errorf("document: page %d content: %w", p.num, err)
		}
		out = append(out, decoded...)
		out = append(out, '\n')
	}
	return out, nil
}

// loadPages walks the page tree under the catalog and builds the flat
// page list.
func (d *Document) loadPages() error {
	rootObj, ok := d.trailer["Root"]
	if !ok {
		return fmt.Errorf("document: missing /Root in trailer")
	}
	resolved, err := d.deref(rootObj)
	if err != nil {
		return fmt.Errorf("document: resolving catalog: %w", err)
	}
	catalog, ok := resolved.(Dict)
	if !ok {
		return fmt.Errorf("document: catalog is not a dictionary")
	}

	pagesObj, err := d.deref(catalog["Pages"])
	if err != nil {
		return fmt.Errorf("document: resolving page tree root: %w", err)
	}
	root, ok := pagesObj.(Dict)
	if !ok {
		return fmt.Errorf("document: page tree root is not a dictionary")
	}

	d.pages = nil
	return d.walkPageTree(root, nil, 0)
}

// inheritable page tree attributes (ISO 32000-1 table 29).
var inheritable = []Name{"MediaBox", "CropBox", "Resources", "Rotate"}

func (d *Document) walkPageTree(node Dict, inherited Dict, depth int) error {
	if depth > 64 {
		return fmt.Errorf("document: page tree nesting too deep")
	}

	merged := make(Dict, len(inherited)+len(node))
	for k, v := range inherited {
		merged[k] = v
	}
	for _, key := range inheritable {
		if v, ok := node[key]; ok {
			merged[key] = v
		}
	}

	if typ, _ := node.Name("Type"); typ == "Page" {
		d.pages = append(d.pages, d.buildPage(node, merged))
		return nil
	}

	kidsObj, err := d.deref(node["Kids"])
	if err != nil {
		return fmt.Errorf("document: resolving /Kids: %w", err)
	}
	kids, _ := kidsObj.(Array)
	for _, kid := range kids {
		kidObj, err := d.deref(kid)
		if err != nil {
			return fmt.Errorf("document: resolving page tree node: %w", err)
		}
		kidDict, ok := kidObj.(Dict)
		if !ok {
			continue
		}
		if err := d.walkPageTree(kidDict, merged, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// buildPage assembles a Page from a leaf node and its merged inherited
// attributes. Attribute-level damage is tolerated; only the page's
// existence matters at load time.
func (d *Document) buildPage(node, merged Dict) *Page {
	p := &Page{
		num: len(d.pages) + 1,
		doc: d,
	}

	if mb, err := d.deref(merged["MediaBox"]); err == nil {
		if r, ok := parseRect(mb); ok {
			p.mediaBox = r
		}
	}
	if res, err := d.deref(merged["Resources"]); err == nil {
		if dict, ok := res.(Dict); ok {
			p.resources = dict
		}
	}
	if rot, err := d.deref(merged["Rotate"]); err == nil {
		if v, ok := rot.(Int); ok {
			p.rotate = int(v)
		}
	}

	if contents, err := d.deref(node["Contents"]); err == nil {
		switch c := contents.(type) {
		case Stream:
			p.contents = []Stream{c}
		case Array:
			for _, item := range c {
				obj, err := d.deref(item)
				if err != nil {
					continue
				}
				if s, ok := obj.(Stream); ok {
					p.contents = append(p.contents, s)
				}
			}
		}
	}
	return p
}

func parseRect(obj Object) (rect, bool) {
	arr, ok := obj.(Array)
	if !ok || len(arr) != 4 {
		return rect{}, false
	}
	var v [4]float64
	for i, o := range arr {
		f, ok := toFloat(o)
		if !ok {
			return rect{}, false
		}
		v[i] = f
	}
	return rect{llx: v[0], lly: v[1], urx: v[2], ury: v[3]}, true
}
