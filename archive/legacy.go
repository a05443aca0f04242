package archive

import (
	"bytes"
	"encoding/binary"
)

const (
	paclTOCStart   = 0x20
	paclRecordSize = 0x20
)

// PACLEntry is one record of a legacy PACL archive's table of contents.
type PACLEntry struct {
	Name     string
	Offset   uint32
	ArcSize  uint32
	FileSize uint32
}

// PACLArchive is the secondary, read-only legacy container format noted in
// spec.md §4.1. It is supported for completeness; RLVM never writes PACL
// files.
type PACLArchive struct {
	data    []byte
	entries []PACLEntry
	byName  map[string]int
}

// OpenPACL parses a legacy PACL archive out of data (already loaded or
// mapped into memory by the caller).
func OpenPACL(data []byte) (*PACLArchive, error) {
	a := &PACLArchive{data: data, byName: make(map[string]int)}
	off := paclTOCStart
	for off+paclRecordSize <= len(data) {
		rec := data[off : off+paclRecordSize]
		name := rec[:0x10]
		if bytes.Equal(name, make([]byte, 0x10)) {
			break
		}
		nul := bytes.IndexByte(name, 0)
		nameStr := string(name)
		if nul >= 0 {
			nameStr = string(name[:nul])
		}
		entry := PACLEntry{
			Name:     nameStr,
			Offset:   binary.LittleEndian.Uint32(rec[0x10:0x14]),
			ArcSize:  binary.LittleEndian.Uint32(rec[0x14:0x18]),
			FileSize: binary.LittleEndian.Uint32(rec[0x18:0x1c]),
		}
		a.byName[entry.Name] = len(a.entries)
		a.entries = append(a.entries, entry)
		off += paclRecordSize
	}
	return a, nil
}

// Entries returns every record in the PACL table of contents.
func (a *PACLArchive) Entries() []PACLEntry {
	return a.entries
}

// ReadRaw returns the raw (possibly still-compressed) bytes for the named
// entry, or false if no such entry exists.
func (a *PACLArchive) ReadRaw(name string) ([]byte, bool) {
	i, ok := a.byName[name]
	if !ok {
		return nil, false
	}
	e := a.entries[i]
	if int(e.Offset+e.ArcSize) > len(a.data) {
		return nil, false
	}
	return a.data[e.Offset : e.Offset+e.ArcSize], true
}

// decompressPACL decodes a PACL LZSS stream, whose flag byte convention is
// bit-reversed relative to the primary format's: a *clear* bit signals a
// literal byte and a *set* bit signals a back-reference, per spec.md
// §4.1's "rev-bit flag" note.
func decompressPACL(src []byte, dstLen int) ([]byte, error) {
	dst := make([]byte, 0, dstLen)
	i := 0
	for i < len(src) && len(dst) < dstLen {
		flags := src[i]
		i++
		for bit := 0; bit < 8 && i < len(src) && len(dst) < dstLen; bit++ {
			isLiteral := flags&(1<<uint(bit)) == 0
			if isLiteral {
				dst = append(dst, src[i])
				i++
				continue
			}
			if i+1 >= len(src) {
				return nil, ErrBadCompression
			}
			word := uint16(src[i]) | uint16(src[i+1])<<8
			i += 2
			offset := int(word & 0x0fff)
			length := int(word>>12) + 2
			start := len(dst) - offset - 1
			if start < 0 {
				return nil, ErrBadCompression
			}
			for k := 0; k < length; k++ {
				dst = append(dst, dst[start+k])
			}
		}
	}
	if len(dst) < dstLen {
		return nil, ErrBadCompression
	}
	return dst[:dstLen], nil
}
