package document

import (
	"bytes"
	"compress/zlib"
	"encoding/ascii85"
	"encoding/hex"
	"fmt"
	"io"
)

// decodeStream applies the stream's filter chain and, where present,
// the PNG predictor named in /DecodeParms.
func decodeStream(s Stream) ([]byte, error) {
	filters, parms, err := filterChain(s.Dict)
	if err != nil {
		return nil, err
	}

	data := s.Raw
	for i, f := range filters {
		data, err = applyFilter(f, data)
		if err != nil {
			return nil, fmt.Errorf("document: filter %s: %w", f, err)
		}
		if i < len(parms) && parms[i] != nil {
			data, err = applyPredictor(parms[i], data)
			if err != nil {
				return nil, fmt.Errorf("document: filter %s predictor: %w", f, err)
			}
		}
	}
	return data, nil
}

// filterChain normalizes /Filter and /DecodeParms, which may each be a
// single value or an array.
func filterChain(d Dict) ([]Name, []Dict, error) {
	var filters []Name
	switch f := d["Filter"].(type) {
	case nil:
	case Name:
		filters = []Name{f}
	case Array:
		for _, o := range f {
			n, ok := o.(Name)
			if !ok {
				return nil, nil, fmt.Errorf("document: filter array holds %T", o)
			}
			filters = append(filters, n)
		}
	default:
		return nil, nil, fmt.Errorf("document: unexpected /Filter type %T", f)
	}

	parms := make([]Dict, len(filters))
	switch p := d["DecodeParms"].(type) {
	case Dict:
		if len(parms) > 0 {
			parms[0] = p
		}
	case Array:
		for i, o := range p {
			if i >= len(parms) {
				break
			}
			if pd, ok := o.(Dict); ok {
				parms[i] = pd
			}
		}
	}
	return filters, parms, nil
}

func applyFilter(name Name, data []byte) ([]byte, error) {
	switch name {
	case "FlateDecode":
		r, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		var out bytes.Buffer
		if _, err := io.Copy(&out, r); err != nil {
			return nil, err
		}
		return out.Bytes(), nil

	case "ASCIIHexDecode":
		var clean []byte
		for _, b := range data {
			if b == '>' {
				break
			}
			if !isSpace(b) {
				clean = append(clean, b)
			}
		}
		if len(clean)%2 != 0 {
			clean = append(clean, '0')
		}
		out := make([]byte, hex.DecodedLen(len(clean)))
		if _, err := hex.Decode(out, clean); err != nil {
			return nil, err
		}
		return out, nil

	case "ASCII85Decode":
		if end := bytes.Index(data, []byte("~>")); end >= 0 {
			data = data[:end]
		}
		var out bytes.Buffer
		dec := ascii85.NewDecoder(bytes.NewReader(data))
		if _, err := io.Copy(&out, dec); err != nil {
			return nil, err
		}
		return out.Bytes(), nil

	default:
		return nil, fmt.Errorf("unsupported filter")
	}
}

// applyPredictor undoes PNG row prediction (predictor >= 10), which
// cross-reference streams use almost universally. TIFF prediction is
// not supported.
func applyPredictor(parms Dict, data []byte) ([]byte, error) {
	predictor, ok := parms.Int("Predictor")
	if !ok || predictor <= 1 {
		return data, nil
	}
	if predictor < 10 {
		return nil, fmt.Errorf("unsupported predictor %d", predictor)
	}

	columns := int64(1)
	if c, ok := parms.Int("Columns"); ok {
		columns = c
	}
	colors := int64(1)
	if c, ok := parms.Int("Colors"); ok {
		colors = c
	}
	bpc := int64(8)
	if b, ok := parms.Int("BitsPerComponent"); ok {
		bpc = b
	}

	bpp := int((colors*bpc + 7) / 8)
	rowLen := int((colors*bpc*columns + 7) / 8)
	if rowLen <= 0 {
		return nil, fmt.Errorf("invalid predictor row length")
	}

	var out bytes.Buffer
	prev := make([]byte, rowLen)
	for pos := 0; pos < len(data); pos += 1 + rowLen {
		ft := data[pos]
		end := pos + 1 + rowLen
		if end > len(data) {
			end = len(data)
		}
		row := make([]byte, rowLen)
		copy(row, data[pos+1:end])

		switch ft {
		case 0: // None
		case 1: // Sub
			for i := bpp; i < rowLen; i++ {
				row[i] += row[i-bpp]
			}
		case 2: // Up
			for i := 0; i < rowLen; i++ {
				row[i] += prev[i]
			}
		case 3: // Average
			for i := 0; i < rowLen; i++ {
				left := 0
				if i >= bpp {
					left = int(row[i-bpp])
				}
				row[i] += byte((left + int(prev[i])) / 2)
			}
		case 4: // Paeth
			for i := 0; i < rowLen; i++ {
				left, upLeft := 0, 0
				if i >= bpp {
					left = int(row[i-bpp])
					upLeft = int(prev[i-bpp])
				}
				row[i] += paeth(left, int(prev[i]), upLeft)
			}
		default:
			return nil, fmt.Errorf("invalid row filter %d", ft)
		}

		out.Write(row)
		prev = row
	}
	return out.Bytes(), nil
}

func paeth(a, b, c int) byte {
	p := a + b - c
	pa, pb, pc := abs(p-a), abs(p-b), abs(p-c)
	switch {
	case pa <= pb && pa <= pc:
		return byte(a)
	case pb <= pc:
		return byte(b)
	default:
		return byte(c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
