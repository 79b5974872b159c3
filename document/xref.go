package document

import (
	"bytes"
	"fmt"
)

type xrefKind uint8

const (
	xrefFree xrefKind = iota
	xrefInFile
	xrefInStream
)

// xrefEntry locates one indirect object: either a byte offset into the
// file, or a slot inside an object stream.
type xrefEntry struct {
	kind xrefKind
	off  int64 // byte offset (xrefInFile)
	gen  int
	stm  int // containing object stream number (xrefInStream)
	idx  int // index within that stream (xrefInStream)
}

type xrefTable map[int]xrefEntry

// findStartXref locates the startxref offset near the end of the file.
func findStartXref(data []byte) (int64, error) {
	tail := data[len(data)-min(1024, len(data)):]
	idx := bytes.LastIndex(tail, []byte("startxref"))
	if idx < 0 {
		return 0, fmt.Errorf("document: startxref not found")
	}
	s := newScanner(tail[idx+len("startxref"):])
	off, err := parseInt(s.token())
	if err != nil {
		return 0, fmt.Errorf("document: invalid startxref offset: %w", err)
	}
	return off, nil
}

// loadXref reads the cross-reference section at offset and follows the
// /Prev chain of incremental updates. Newer entries win; the visited
// set guards against reference cycles in damaged files.
func loadXref(data []byte, offset int64) (xrefTable, Dict, error) {
	table := make(xrefTable)
	var trailer Dict
	visited := make(map[int64]bool)

	for {
		if visited[offset] {
			break
		}
		visited[offset] = true

		section, sectionTrailer, err := parseXrefSection(data, offset)
		if err != nil {
			return nil, nil, err
		}
		for num, e := range section {
			if _, exists := table[num]; !exists {
				table[num] = e
			}
		}
		if trailer == nil {
			trailer = sectionTrailer
		}

		prev, ok := sectionTrailer.Int("Prev")
		if !ok {
			break
		}
		offset = prev
	}

	if trailer == nil {
		return nil, nil, fmt.Errorf("document: missing trailer")
	}
	return table, trailer, nil
}

// parseXrefSection parses a single cross-reference section, which is
// either a classic table ("xref" keyword) or, from PDF 1.5 on, a
// cross-reference stream.
func parseXrefSection(data []byte, offset int64) (xrefTable, Dict, error) {
	if offset < 0 || offset >= int64(len(data)) {
		return nil, nil, fmt.Errorf("document: xref offset %d out of bounds", offset)
	}

	s := newScanner(data[offset:])
	start := s.pos
	if tok := s.token(); tok != "xref" {
		s.pos = start
		return parseXrefStream(s)
	}

	table := make(xrefTable)
	for {
		s.skipSpace()
		if s.pos >= len(s.buf) {
			return nil, nil, fmt.Errorf("document: truncated xref table")
		}

		mark := s.pos
		tok := s.token()
		if tok == "trailer" {
			break
		}
		s.pos = mark

		first, err := parseInt(s.token())
		if err != nil {
			return nil, nil, fmt.Errorf("document: xref subsection start: %w", err)
		}
		count, err := parseInt(s.token())
		if err != nil {
			return nil, nil, fmt.Errorf("document: xref subsection count: %w", err)
		}

		for i := int64(0); i < count; i++ {
			off, err := parseInt(s.token())
			if err != nil {
				return nil, nil, fmt.Errorf("document: xref entry offset: %w", err)
			}
			gen, err := parseInt(s.token())
			if err != nil {
				return nil, nil, fmt.Errorf("document: xref entry generation: %w", err)
			}
			kind := xrefFree
			if s.token() == "n" {
				kind = xrefInFile
			}
			num := int(first + i)
			if _, exists := table[num]; !exists {
				table[num] = xrefEntry{kind: kind, off: off, gen: int(gen)}
			}
		}
	}

	obj, err := s.next()
	if err != nil {
		return nil, nil, fmt.Errorf("document: trailer: %w", err)
	}
	trailer, ok := obj.(Dict)
	if !ok {
		return nil, nil, fmt.Errorf("document: trailer is not a dictionary")
	}
	return table, trailer, nil
}

// parseXrefStream parses a cross-reference stream object.
func parseXrefStream(s *scanner) (xrefTable, Dict, error) {
	_, obj, err := s.indirect()
	if err != nil {
		return nil, nil, fmt.Errorf("document: xref stream: %w", err)
	}
	stm, ok := obj.(Stream)
	if !ok {
		return nil, nil, fmt.Errorf("document: xref section is neither a table nor a stream")
	}

	decoded, err := decodeStream(stm)
	if err != nil {
		return nil, nil, fmt.Errorf("document: decoding xref stream: %w", err)
	}

	wArr, _ := stm.Dict.Array("W")
	if len(wArr) != 3 {
		return nil, nil, fmt.Errorf("document: xref stream /W must have 3 elements")
	}
	var w [3]int
	for i, o := range wArr {
		if v, ok := o.(Int); ok {
			w[i] = int(v)
		}
	}
	rowLen := w[0] + w[1] + w[2]
	if rowLen <= 0 {
		return nil, nil, fmt.Errorf("document: xref stream has empty rows")
	}

	// /Index defaults to [0 Size].
	var index []int64
	if arr, ok := stm.Dict.Array("Index"); ok {
		for _, o := range arr {
			if v, ok := o.(Int); ok {
				index = append(index, int64(v))
			}
		}
	} else {
		size, _ := stm.Dict.Int("Size")
		index = []int64{0, size}
	}

	table := make(xrefTable)
	pos := 0
	for i := 0; i+1 < len(index); i += 2 {
		first, count := index[i], index[i+1]
		for j := int64(0); j < count; j++ {
			if pos+rowLen > len(decoded) {
				break
			}
			var f [3]int64
			for k := 0; k < 3; k++ {
				for b := 0; b < w[k]; b++ {
					f[k] = f[k]<<8 | int64(decoded[pos])
					pos++
				}
			}
			// A zero-width first field defaults to type 1.
			if w[0] == 0 {
				f[0] = 1
			}

			num := int(first + j)
			switch f[0] {
			case 0:
				table[num] = xrefEntry{kind: xrefFree, gen: int(f[2])}
			case 1:
				table[num] = xrefEntry{kind: xrefInFile, off: f[1], gen: int(f[2])}
			case 2:
				table[num] = xrefEntry{kind: xrefInStream, stm: int(f[1]), idx: int(f[2])}
			}
		}
	}
	return table, stm.Dict, nil
}
