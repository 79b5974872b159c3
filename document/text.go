package document

import (
	"bytes"
	"strings"
	"unicode/utf16"
)

// extractText pulls the text shown by a content stream: strings drawn
// with Tj, TJ, ' and " inside BT/ET blocks. Positioning operators that
// start a new line or cell emit a separating space. Custom encodings
// and CID fonts are decoded best-effort; the result is meant for
// emptiness and line statistics, not faithful reading order.
func extractText(data []byte) string {
	var out strings.Builder
	s := newScanner(data)
	inText := false

	for {
		s.skipSpace()
		if s.pos >= len(s.buf) {
			break
		}

		switch b := s.buf[s.pos]; {
		case b == '(':
			str, err := s.literalString()
			if err != nil {
				return strings.TrimSpace(out.String())
			}
			if inText {
				out.WriteString(decodeText(str))
			}

		case b == '<' && s.pos+1 < len(s.buf) && s.buf[s.pos+1] == '<':
			if _, err := s.dict(); err != nil {
				return strings.TrimSpace(out.String())
			}

		case b == '<':
			str, err := s.hexString()
			if err != nil {
				return strings.TrimSpace(out.String())
			}
			if inText {
				out.WriteString(decodeText(str))
			}

		case b == '[':
			arr, err := s.array()
			if err != nil {
				return strings.TrimSpace(out.String())
			}
			if inText {
				for _, o := range arr {
					if str, ok := o.(Str); ok {
						out.WriteString(decodeText(str))
					}
				}
			}

		case b == '/':
			if _, err := s.name(); err != nil {
				return strings.TrimSpace(out.String())
			}

		case b == ')' || b == ']' || b == '>' || b == '{' || b == '}':
			// Stray delimiter in a damaged stream.
			s.pos++

		default:
			op := s.token()
			if op == "" {
				s.pos++
				continue
			}
			switch op {
			case "BT":
				inText = true
			case "ET":
				inText = false
				out.WriteByte(' ')
			case "Td", "TD", "T*", "'", "\"":
				out.WriteByte(' ')
			case "BI":
				// Inline image: skip opaque binary up to EI.
				end := bytes.Index(s.buf[s.pos:], []byte("EI"))
				if end < 0 {
					return strings.TrimSpace(out.String())
				}
				s.pos += end + 2
			}
		}
	}
	return strings.TrimSpace(out.String())
}

// decodeText converts PDF string bytes to a Go string: UTF-16BE when
// the BOM is present, otherwise byte-per-rune (PDFDocEncoding overlaps
// Latin-1 for the printable range).
func decodeText(data []byte) string {
	if len(data) >= 2 && data[0] == 0xFE && data[1] == 0xFF {
		data = data[2:]
		if len(data)%2 != 0 {
			data = append(data, 0)
		}
		u16 := make([]uint16, len(data)/2)
		for i := range u16 {
			u16[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
		}
		return string(utf16.Decode(u16))
	}

	var out strings.Builder
	for _, b := range data {
		out.WriteRune(rune(b))
	}
	return out.String()
}
