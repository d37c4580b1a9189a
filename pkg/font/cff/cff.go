// Package cff parses Compact Font Format programs (bare CFF tables, as
// embedded in a PDF FontFile3 stream) and converts their charstrings to
// graphics paths. It follows the same from-scratch, table-walking style as
// sibling package ttf, since this module has no CFF support of its own to
// build from.
package cff

import (
	"fmt"

	"gumgum/pkg/graphics"
)

// Font holds a parsed CFF program: enough of the Top DICT, the CharStrings
// INDEX, the charset, and the (possibly per-FD, for CID-keyed fonts) local
// subroutine INDEXes to walk any glyph's outline.
type Font struct {
	CharStrings  [][]byte
	GlobalSubrs  [][]byte
	LocalSubrs   [][]byte // simple fonts: one set shared by all glyphs
	Charset      []SID    // Charset[gid] = SID (or CID, for CID-keyed fonts)
	NameToGID    map[string]uint16
	FontMatrix   [6]float64
	IsCIDKeyed   bool
	FDSelect     []uint8 // FDSelect[gid] = FD index, CID-keyed fonts only
	FDLocalSubrs [][][]byte
	nominalWidth float64
	defaultWidth float64
	fdWidths     []fdWidths
}

type fdWidths struct {
	nominal, defaultW float64
}

// SID is a CFF string identifier (or, in a CID-keyed font, a CID).
type SID uint16

// Parse reads a bare CFF table (the contents of a PDF FontFile3 stream with
// Subtype /Type1C or /CIDFontType0C).
func Parse(data []byte) (*Font, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("cff: data too short")
	}
	hdrSize := int(data[2])
	pos := hdrSize

	nameIdx, pos, err := readIndex(data, pos)
	if err != nil {
		return nil, fmt.Errorf("cff: name index: %w", err)
	}
	_ = nameIdx

	topDictIdx, pos, err := readIndex(data, pos)
	if err != nil {
		return nil, fmt.Errorf("cff: top dict index: %w", err)
	}
	if len(topDictIdx) == 0 {
		return nil, fmt.Errorf("cff: no top dict")
	}

	stringIdx, pos, err := readIndex(data, pos)
	if err != nil {
		return nil, fmt.Errorf("cff: string index: %w", err)
	}

	globalSubrIdx, _, err := readIndex(data, pos)
	if err != nil {
		return nil, fmt.Errorf("cff: global subr index: %w", err)
	}

	top, err := parseDict(topDictIdx[0])
	if err != nil {
		return nil, fmt.Errorf("cff: top dict: %w", err)
	}

	f := &Font{
		GlobalSubrs: globalSubrIdx,
		FontMatrix:  [6]float64{0.001, 0, 0, 0.001, 0, 0},
	}

	if fm, ok := top[opFontMatrix]; ok && len(fm) == 6 {
		copy(f.FontMatrix[:], fm)
	}

	if _, ok := top[opROS]; ok {
		f.IsCIDKeyed = true
	}

	csOffset, ok := top[opCharStrings]
	if !ok || len(csOffset) == 0 {
		return nil, fmt.Errorf("cff: missing CharStrings offset")
	}
	charStrings, _, err := readIndex(data, int(csOffset[0]))
	if err != nil {
		return nil, fmt.Errorf("cff: charstrings index: %w", err)
	}
	f.CharStrings = charStrings
	nGlyphs := len(charStrings)

	if priv, ok := top[opPrivate]; ok && len(priv) == 2 {
		size, offset := int(priv[0]), int(priv[1])
		if offset >= 0 && offset+size <= len(data) {
			pd, err := parseDict(data[offset : offset+size])
			if err == nil {
				if v, ok := pd[opNominalWidthX]; ok && len(v) == 1 {
					f.nominalWidth = v[0]
				}
				if v, ok := pd[opDefaultWidthX]; ok && len(v) == 1 {
					f.defaultWidth = v[0]
				}
				if v, ok := pd[opSubrs]; ok && len(v) == 1 {
					subrs, _, err := readIndex(data, offset+int(v[0]))
					if err == nil {
						f.LocalSubrs = subrs
					}
				}
			}
		}
	}

	if f.IsCIDKeyed {
		if err := f.parseCIDKeyed(data, top, nGlyphs); err != nil {
			return nil, err
		}
	}

	f.Charset = parseCharset(data, top, nGlyphs)

	if !f.IsCIDKeyed {
		f.NameToGID = make(map[string]uint16, nGlyphs)
		for gid, sid := range f.Charset {
			f.NameToGID[sidToString(sid, stringIdx)] = uint16(gid)
		}
	}

	return f, nil
}

// parseCIDKeyed reads the FDArray and FDSelect structures for a CID-keyed
// (Subtype /CIDFontType0C) program.
func (f *Font) parseCIDKeyed(data []byte, top dict, nGlyphs int) error {
	fdaOff, ok := top[opFDArray]
	if !ok || len(fdaOff) == 0 {
		return fmt.Errorf("cff: CID-keyed font missing FDArray")
	}
	fdArray, _, err := readIndex(data, int(fdaOff[0]))
	if err != nil {
		return fmt.Errorf("cff: FDArray: %w", err)
	}
	f.FDLocalSubrs = make([][][]byte, len(fdArray))
	f.fdWidths = make([]fdWidths, len(fdArray))
	for i, fdBytes := range fdArray {
		fd, err := parseDict(fdBytes)
		if err != nil {
			continue
		}
		if priv, ok := fd[opPrivate]; ok && len(priv) == 2 {
			size, offset := int(priv[0]), int(priv[1])
			if offset >= 0 && offset+size <= len(data) {
				pd, err := parseDict(data[offset : offset+size])
				if err == nil {
					if v, ok := pd[opNominalWidthX]; ok && len(v) == 1 {
						f.fdWidths[i].nominal = v[0]
					}
					if v, ok := pd[opDefaultWidthX]; ok && len(v) == 1 {
						f.fdWidths[i].defaultW = v[0]
					}
					if v, ok := pd[opSubrs]; ok && len(v) == 1 {
						subrs, _, err := readIndex(data, offset+int(v[0]))
						if err == nil {
							f.FDLocalSubrs[i] = subrs
						}
					}
				}
			}
		}
	}

	fdsOff, ok := top[opFDSelect]
	if !ok || len(fdsOff) == 0 {
		return fmt.Errorf("cff: CID-keyed font missing FDSelect")
	}
	f.FDSelect = parseFDSelect(data, int(fdsOff[0]), nGlyphs)
	return nil
}

// NumGlyphs returns the number of glyphs in the font.
func (f *Font) NumGlyphs() int {
	return len(f.CharStrings)
}

// GIDForCID resolves a CID to a GID for a CID-keyed font; the charset holds
// the CID for each GID, so this is a linear reverse lookup (CID-keyed fonts
// in PDFs are typically walked in GID order via the CIDToGIDMap instead, so
// this is only a fallback).
func (f *Font) GIDForCID(cid SID) uint16 {
	for gid, c := range f.Charset {
		if c == cid {
			return uint16(gid)
		}
	}
	return 0
}

// localSubrsForGID returns the local subroutine INDEX in effect for gid,
// selecting per-FD subrs for CID-keyed fonts.
func (f *Font) localSubrsForGID(gid uint16) [][]byte {
	if !f.IsCIDKeyed {
		return f.LocalSubrs
	}
	if int(gid) >= len(f.FDSelect) {
		return nil
	}
	fd := f.FDSelect[gid]
	if int(fd) >= len(f.FDLocalSubrs) {
		return nil
	}
	return f.FDLocalSubrs[fd]
}

// GlyphPath executes the Type 2 CharString for gid and returns its outline
// in font design-space units (not yet scaled by FontMatrix).
func (f *Font) GlyphPath(gid uint16) (*graphics.Path, error) {
	if int(gid) >= len(f.CharStrings) {
		return nil, fmt.Errorf("cff: glyph index %d out of range", gid)
	}
	interp := newCharStringInterp(f.GlobalSubrs, f.localSubrsForGID(gid))
	return interp.run(f.CharStrings[gid])
}

// AdvanceWidth returns the glyph's advance width in font design-space
// units, resolved from the CharString's optional leading width operand.
func (f *Font) AdvanceWidth(gid uint16) float64 {
	if int(gid) >= len(f.CharStrings) {
		return 0
	}
	nominal, defaultW := f.nominalWidth, f.defaultWidth
	if f.IsCIDKeyed && int(gid) < len(f.FDSelect) {
		fd := f.FDSelect[gid]
		if int(fd) < len(f.fdWidths) {
			nominal, defaultW = f.fdWidths[fd].nominal, f.fdWidths[fd].defaultW
		}
	}
	interp := newCharStringInterp(f.GlobalSubrs, f.localSubrsForGID(gid))
	interp.nominalWidthX = nominal
	interp.defaultWidthX = defaultW
	if _, err := interp.run(f.CharStrings[gid]); err != nil {
		return defaultW
	}
	return interp.width
}
