package document

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// scanner is a recursive descent parser over PDF syntax.
type scanner struct {
	buf []byte
	pos int
}

func newScanner(buf []byte) *scanner {
	return &scanner{buf: buf}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n' || b == '\f' || b == 0
}

func isDelim(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isRegular(b byte) bool {
	return !isSpace(b) && !isDelim(b)
}

// skipSpace advances past whitespace and comments.
func (s *scanner) skipSpace() {
	for s.pos < len(s.buf) {
		switch b := s.buf[s.pos]; {
		case isSpace(b):
			s.pos++
		case b == '%':
			for s.pos < len(s.buf) && s.buf[s.pos] != '\r' && s.buf[s.pos] != '\n' {
				s.pos++
			}
		default:
			return
		}
	}
}

// token reads the next run of regular characters (a keyword or number).
func (s *scanner) token() string {
	s.skipSpace()
	start := s.pos
	for s.pos < len(s.buf) && isRegular(s.buf[s.pos]) {
		s.pos++
	}
	return string(s.buf[start:s.pos])
}

func parseInt(tok string) (int64, error) {
	return strconv.ParseInt(tok, 10, 64)
}

// next parses the next object at the current position.
func (s *scanner) next() (Object, error) {
	s.skipSpace()
	if s.pos >= len(s.buf) {
		return nil, io.ErrUnexpectedEOF
	}

	switch b := s.buf[s.pos]; {
	case b == '<' && s.pos+1 < len(s.buf) && s.buf[s.pos+1] == '<':
		return s.dict()
	case b == '<':
		return s.hexString()
	case b == '(':
		return s.literalString()
	case b == '/':
		return s.name()
	case b == '[':
		return s.array()
	case b == 't', b == 'f':
		return s.boolean()
	case b == 'n':
		if tok := s.token(); tok != "null" {
			return nil, fmt.Errorf("unexpected keyword %q", tok)
		}
		return Null{}, nil
	case b >= '0' && b <= '9', b == '+', b == '-', b == '.':
		return s.numberOrRef()
	default:
		return nil, fmt.Errorf("unexpected character %q at offset %d", b, s.pos)
	}
}

func (s *scanner) boolean() (Object, error) {
	switch tok := s.token(); tok {
	case "true":
		return Bool(true), nil
	case "false":
		return Bool(false), nil
	default:
		return nil, fmt.Errorf("expected boolean, got %q", tok)
	}
}

// name parses /Name, decoding #xx escapes.
func (s *scanner) name() (Name, error) {
	if s.buf[s.pos] != '/' {
		return "", fmt.Errorf("expected '/' at offset %d", s.pos)
	}
	s.pos++

	var out bytes.Buffer
	for s.pos < len(s.buf) && isRegular(s.buf[s.pos]) {
		b := s.buf[s.pos]
		if b == '#' && s.pos+2 < len(s.buf) {
			hi, lo := unhex(s.buf[s.pos+1]), unhex(s.buf[s.pos+2])
			if hi >= 0 && lo >= 0 {
				out.WriteByte(byte(hi<<4 | lo))
				s.pos += 3
				continue
			}
		}
		out.WriteByte(b)
		s.pos++
	}
	return Name(out.String()), nil
}

// numberOrRef parses an integer, a real, or an indirect reference
// ("N G R"). References require backtracking: the generation number and
// the R keyword are only committed if all three tokens line up.
func (s *scanner) numberOrRef() (Object, error) {
	start := s.pos
	tok := s.token()

	n, err := parseInt(tok)
	if err != nil {
		f, ferr := strconv.ParseFloat(tok, 64)
		if ferr != nil {
			return nil, fmt.Errorf("invalid number %q at offset %d", tok, start)
		}
		return Float(f), nil
	}

	afterNum := s.pos
	s.skipSpace()
	if s.pos < len(s.buf) && s.buf[s.pos] >= '0' && s.buf[s.pos] <= '9' {
		gen, gerr := parseInt(s.token())
		if gerr == nil {
			s.skipSpace()
			if s.pos < len(s.buf) && s.buf[s.pos] == 'R' &&
				(s.pos+1 >= len(s.buf) || !isRegular(s.buf[s.pos+1])) {
				s.pos++
				return Ref{Num: int(n), Gen: int(gen)}, nil
			}
		}
	}
	s.pos = afterNum
	return Int(n), nil
}

// literalString parses (text), handling nesting, escapes, and octal
// codes.
func (s *scanner) literalString() (Str, error) {
	if s.buf[s.pos] != '(' {
		return nil, fmt.Errorf("expected '(' at offset %d", s.pos)
	}
	s.pos++

	var out bytes.Buffer
	depth := 1
	for s.pos < len(s.buf) && depth > 0 {
		b := s.buf[s.pos]
		s.pos++
		switch b {
		case '(':
			depth++
			out.WriteByte(b)
		case ')':
			depth--
			if depth > 0 {
				out.WriteByte(b)
			}
		case '\\':
			if s.pos >= len(s.buf) {
				return nil, fmt.Errorf("string escape at end of input")
			}
			esc := s.buf[s.pos]
			s.pos++
			switch esc {
			case 'n':
				out.WriteByte('\n')
			case 'r':
				out.WriteByte('\r')
			case 't':
				out.WriteByte('\t')
			case 'b':
				out.WriteByte('\b')
			case 'f':
				out.WriteByte('\f')
			case '\n': // line continuation
			case '\r':
				if s.pos < len(s.buf) && s.buf[s.pos] == '\n' {
					s.pos++
				}
			default:
				if esc >= '0' && esc <= '7' {
					code := int(esc - '0')
					for i := 0; i < 2 && s.pos < len(s.buf) && s.buf[s.pos] >= '0' && s.buf[s.pos] <= '7'; i++ {
						code = code*8 + int(s.buf[s.pos]-'0')
						s.pos++
					}
					out.WriteByte(byte(code))
				} else {
					out.WriteByte(esc)
				}
			}
		default:
			out.WriteByte(b)
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unterminated literal string")
	}
	return Str(out.Bytes()), nil
}

// hexString parses <hex digits>, ignoring interior whitespace. An odd
// trailing nibble reads as if followed by zero.
func (s *scanner) hexString() (Str, error) {
	if s.buf[s.pos] != '<' {
		return nil, fmt.Errorf("expected '<' at offset %d", s.pos)
	}
	s.pos++

	var out bytes.Buffer
	hi := -1
	for s.pos < len(s.buf) {
		b := s.buf[s.pos]
		s.pos++
		switch {
		case b == '>':
			if hi >= 0 {
				out.WriteByte(byte(hi << 4))
			}
			return Str(out.Bytes()), nil
		case isSpace(b):
		default:
			v := unhex(b)
			if v < 0 {
				return nil, fmt.Errorf("invalid hex digit %q", b)
			}
			if hi < 0 {
				hi = v
			} else {
				out.WriteByte(byte(hi<<4 | v))
				hi = -1
			}
		}
	}
	return nil, fmt.Errorf("unterminated hex string")
}

func (s *scanner) array() (Array, error) {
	s.pos++ // '['
	var arr Array
	for {
		s.skipSpace()
		if s.pos >= len(s.buf) {
			return nil, fmt.Errorf("unterminated array")
		}
		if s.buf[s.pos] == ']' {
			s.pos++
			return arr, nil
		}
		obj, err := s.next()
		if err != nil {
			return nil, fmt.Errorf("in array: %w", err)
		}
		arr = append(arr, obj)
	}
}

func (s *scanner) dict() (Dict, error) {
	s.pos += 2 // '<<'
	d := make(Dict)
	for {
		s.skipSpace()
		if s.pos >= len(s.buf) {
			return nil, fmt.Errorf("unterminated dictionary")
		}
		if s.pos+1 < len(s.buf) && s.buf[s.pos] == '>' && s.buf[s.pos+1] == '>' {
			s.pos += 2
			return d, nil
		}
		key, err := s.name()
		if err != nil {
			return nil, fmt.Errorf("dict key: %w", err)
		}
		val, err := s.next()
		if err != nil {
			return nil, fmt.Errorf("dict value for /%s: %w", key, err)
		}
		d[key] = val
	}
}

// indirect parses "N G obj ... endobj", promoting dictionaries followed
// by a stream keyword to Stream objects. The stream extent comes from
// /Length when it is a direct integer; otherwise the endstream keyword
// is located by scanning.
func (s *scanner) indirect() (Ref, Object, error) {
	num, err := parseInt(s.token())
	if err != nil {
		return Ref{}, nil, fmt.Errorf("expected object number: %w", err)
	}
	gen, err := parseInt(s.token())
	if err != nil {
		return Ref{}, nil, fmt.Errorf("expected generation number: %w", err)
	}
	if tok := s.token(); tok != "obj" {
		return Ref{}, nil, fmt.Errorf("expected 'obj', got %q", tok)
	}

	ref := Ref{Num: int(num), Gen: int(gen)}
	val, err := s.next()
	if err != nil {
		return ref, nil, fmt.Errorf("object %d %d: %w", num, gen, err)
	}

	s.skipSpace()
	if bytes.HasPrefix(s.buf[s.pos:], []byte("stream")) {
		dict, ok := val.(Dict)
		if !ok {
			return ref, nil, fmt.Errorf("stream header of object %d %d is not a dictionary", num, gen)
		}
		s.pos += len("stream")
		if s.pos < len(s.buf) && s.buf[s.pos] == '\r' {
			s.pos++
		}
		if s.pos < len(s.buf) && s.buf[s.pos] == '\n' {
			s.pos++
		}

		var raw []byte
		if length, ok := dict.Int("Length"); ok && s.pos+int(length) <= len(s.buf) {
			raw = s.buf[s.pos : s.pos+int(length)]
			s.pos += int(length)
		} else {
			// /Length missing, indirect, or out of bounds: scan.
			end := bytes.Index(s.buf[s.pos:], []byte("endstream"))
			if end < 0 {
				return ref, nil, fmt.Errorf("object %d %d: endstream not found", num, gen)
			}
			raw = bytes.TrimRight(s.buf[s.pos:s.pos+end], "\r\n")
			s.pos += end
		}
		val = Stream{Dict: dict, Raw: raw}

		s.skipSpace()
		if bytes.HasPrefix(s.buf[s.pos:], []byte("endstream")) {
			s.pos += len("endstream")
		}
	}

	s.skipSpace()
	if bytes.HasPrefix(s.buf[s.pos:], []byte("endobj")) {
		s.pos += len("endobj")
	}
	return ref, val, nil
}

// unhex returns the value of a hex digit, or -1.
func unhex(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10
	}
	return -1
}
