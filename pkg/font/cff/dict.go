package cff

import (
	"encoding/binary"
	"fmt"
)

// dict maps a (possibly two-byte, 12-prefixed) DICT operator to its operand
// list. Two-byte operators are stored as 1200+b1 to keep the key space flat.
type dict map[int][]float64

const (
	opCharset       = 15
	opCharStrings   = 17
	opPrivate       = 18
	opSubrs         = 19
	opFontMatrix    = 1207
	opROS           = 1230
	opFDArray       = 1236
	opFDSelect      = 1237
	opNominalWidthX = 21
	opDefaultWidthX = 20
)

// parseDict parses a CFF DICT structure (Top DICT, Private DICT, or an
// FDArray entry all share this encoding).
func parseDict(data []byte) (dict, error) {
	d := make(dict)
	var operands []float64
	i := 0
	for i < len(data) {
		b0 := data[i]
		switch {
		case b0 <= 21:
			op := int(b0)
			i++
			if b0 == 12 {
				if i >= len(data) {
					return nil, fmt.Errorf("cff: truncated two-byte operator")
				}
				op = 1200 + int(data[i])
				i++
			}
			d[op] = operands
			operands = nil
		case b0 == 28:
			if i+3 > len(data) {
				return nil, fmt.Errorf("cff: truncated int16 operand")
			}
			v := int16(binary.BigEndian.Uint16(data[i+1 : i+3]))
			operands = append(operands, float64(v))
			i += 3
		case b0 == 29:
			if i+5 > len(data) {
				return nil, fmt.Errorf("cff: truncated int32 operand")
			}
			v := int32(binary.BigEndian.Uint32(data[i+1 : i+5]))
			operands = append(operands, float64(v))
			i += 5
		case b0 == 30:
			v, n := parseReal(data[i+1:])
			operands = append(operands, v)
			i += 1 + n
		case b0 >= 32 && b0 <= 246:
			operands = append(operands, float64(int(b0)-139))
			i++
		case b0 >= 247 && b0 <= 250:
			if i+2 > len(data) {
				return nil, fmt.Errorf("cff: truncated operand")
			}
			v := (int(b0)-247)*256 + int(data[i+1]) + 108
			operands = append(operands, float64(v))
			i += 2
		case b0 >= 251 && b0 <= 254:
			if i+2 > len(data) {
				return nil, fmt.Errorf("cff: truncated operand")
			}
			v := -(int(b0)-251)*256 - int(data[i+1]) - 108
			operands = append(operands, float64(v))
			i += 2
		default:
			return nil, fmt.Errorf("cff: reserved DICT byte 0x%02x", b0)
		}
	}
	return d, nil
}

// parseReal decodes a CFF real-number operand (nibble-packed BCD with a few
// special codes), returning the value and the number of bytes consumed
// (not counting the leading 0x1e opcode byte).
func parseReal(data []byte) (float64, int) {
	s := make([]byte, 0, 16)
	n := 0
loop:
	for n < len(data) {
		b := data[n]
		n++
		for _, nib := range []byte{b >> 4, b & 0xf} {
			switch {
			case nib <= 9:
				s = append(s, '0'+nib)
			case nib == 0xa:
				s = append(s, '.')
			case nib == 0xb:
				s = append(s, 'E')
			case nib == 0xc:
				s = append(s, 'E', '-')
			case nib == 0xe:
				s = append(s, '-')
			case nib == 0xf:
				break loop
			}
		}
	}
	var v float64
	fmt.Sscanf(string(s), "%g", &v)
	return v, n
}

// readIndex parses a CFF INDEX structure at offset off and returns its
// entries plus the offset immediately following the structure.
func readIndex(data []byte, off int) ([][]byte, int, error) {
	if off+2 > len(data) {
		return nil, 0, fmt.Errorf("cff: INDEX header out of range")
	}
	count := int(binary.BigEndian.Uint16(data[off : off+2]))
	if count == 0 {
		return nil, off + 2, nil
	}
	if off+3 > len(data) {
		return nil, 0, fmt.Errorf("cff: INDEX offSize out of range")
	}
	offSize := int(data[off+2])
	if offSize < 1 || offSize > 4 {
		return nil, 0, fmt.Errorf("cff: invalid INDEX offSize %d", offSize)
	}

	offArrayStart := off + 3
	readOffset := func(idx int) (int, error) {
		p := offArrayStart + idx*offSize
		if p+offSize > len(data) {
			return 0, fmt.Errorf("cff: INDEX offset array out of range")
		}
		var v int
		for k := 0; k < offSize; k++ {
			v = v<<8 | int(data[p+k])
		}
		return v, nil
	}

	dataStart := offArrayStart + (count+1)*offSize - 1
	entries := make([][]byte, count)
	for i := 0; i < count; i++ {
		o1, err := readOffset(i)
		if err != nil {
			return nil, 0, err
		}
		o2, err := readOffset(i + 1)
		if err != nil {
			return nil, 0, err
		}
		start, end := dataStart+o1, dataStart+o2
		if start < 0 || end > len(data) || start > end {
			return nil, 0, fmt.Errorf("cff: INDEX entry out of range")
		}
		entries[i] = data[start:end]
	}
	return entries, dataStart + mustLastOffset(data, offArrayStart, offSize, count), nil
}

func mustLastOffset(data []byte, offArrayStart, offSize, count int) int {
	p := offArrayStart + count*offSize
	var v int
	for k := 0; k < offSize; k++ {
		v = v<<8 | int(data[p+k])
	}
	return v
}

// parseCharset resolves the charset table (custom or predefined) into a
// GID-indexed slice of SIDs (or CIDs, for CID-keyed fonts).
func parseCharset(data []byte, top dict, nGlyphs int) []SID {
	out := make([]SID, nGlyphs)
	csOff, ok := top[opCharset]
	if !ok || len(csOff) == 0 || csOff[0] == 0 {
		for i := range out {
			out[i] = SID(i) // ISOAdobe: SID == GID for the first nGlyphs
		}
		return out
	}
	off := int(csOff[0])
	if off == 1 || off == 2 {
		// Expert / ExpertSubset predefined charsets: approximate with
		// identity, since PDFs embedding those are effectively unseen in
		// practice and the exact mapping needs the fixed Expert SID table.
		for i := range out {
			out[i] = SID(i)
		}
		return out
	}
	if off >= len(data) {
		return out
	}
	format := data[off]
	gid := 1
	out[0] = 0 // .notdef
	p := off + 1
	switch format {
	case 0:
		for gid < nGlyphs && p+2 <= len(data) {
			out[gid] = SID(binary.BigEndian.Uint16(data[p : p+2]))
			p += 2
			gid++
		}
	case 1:
		for gid < nGlyphs && p+3 <= len(data) {
			first := SID(binary.BigEndian.Uint16(data[p : p+2]))
			nLeft := int(data[p+2])
			p += 3
			for k := 0; k <= nLeft && gid < nGlyphs; k++ {
				out[gid] = first + SID(k)
				gid++
			}
		}
	case 2:
		for gid < nGlyphs && p+4 <= len(data) {
			first := SID(binary.BigEndian.Uint16(data[p : p+2]))
			nLeft := int(binary.BigEndian.Uint16(data[p+2 : p+4]))
			p += 4
			for k := 0; k <= nLeft && gid < nGlyphs; k++ {
				out[gid] = first + SID(k)
				gid++
			}
		}
	}
	return out
}

// parseFDSelect resolves the FDSelect table (format 0 or 3) into a
// GID-indexed slice of FD indices.
func parseFDSelect(data []byte, off, nGlyphs int) []uint8 {
	out := make([]uint8, nGlyphs)
	if off >= len(data) {
		return out
	}
	format := data[off]
	switch format {
	case 0:
		p := off + 1
		for gid := 0; gid < nGlyphs && p+gid < len(data); gid++ {
			out[gid] = data[p+gid]
		}
	case 3:
		if off+3 > len(data) {
			return out
		}
		nRanges := int(binary.BigEndian.Uint16(data[off+1 : off+3]))
		p := off + 3
		for r := 0; r < nRanges; r++ {
			if p+3 > len(data) {
				break
			}
			first := int(binary.BigEndian.Uint16(data[p : p+2]))
			fd := data[p+2]
			next := nGlyphs
			if p+5 <= len(data) {
				next = int(binary.BigEndian.Uint16(data[p+3 : p+5]))
			}
			for gid := first; gid < next && gid < nGlyphs; gid++ {
				out[gid] = fd
			}
			p += 3
		}
	}
	return out
}

// sidToString resolves a SID to a glyph name using the standard strings
// table for SID < 391 and the font's String INDEX beyond that.
func sidToString(sid SID, strings [][]byte) string {
	if int(sid) < len(standardStrings) {
		return standardStrings[sid]
	}
	idx := int(sid) - len(standardStrings)
	if idx >= 0 && idx < len(strings) {
		return string(strings[idx])
	}
	return fmt.Sprintf("sid%d", sid)
}
