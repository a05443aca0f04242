package archive

import "encoding/binary"

// Compiler-version tags found at Header offset 0x04. Tag 10002 predates the
// second XOR layer; 110002 and 1110002 are later compilers whose scenario
// payloads carry the additional per-game obfuscation.
const (
	compilerTagBase       = 10002
	compilerTagXor2A      = 110002
	compilerTagXor2B      = 1110002
	minHeaderSize         = 0x1d0
	savepointPolicyOffset = 0x1c4
)

// Header is the fixed-layout preamble that precedes every scenario's
// compressed payload, decoded per the byte offsets in spec.md §4.1.
type Header struct {
	TotalLength        uint32
	CompilerTag        uint32
	KidokuTableOffset  uint32
	KidokuTableLength  uint32
	DramatisOffset     uint32
	DramatisCount      uint32
	DramatisByteLength uint32
	PayloadOffset      uint32
	PayloadLenRaw      uint32
	PayloadLenComp     uint32
	DebugEntryA        uint32
	DebugEntryB        uint32

	SavepointMessagePolicy uint32
	SavepointSelcomPolicy  uint32
	SavepointSeentopPolicy uint32

	// MetaEncoding is the text-encoding tag from the trailing RLdev
	// metadata block, or 0 if no such block is present.
	MetaEncoding byte
}

// RequiresSecondXorLayer reports whether scenario_bytes must XOR the
// compressed region against the per-game key in addition to the fixed
// second-layer table.
func (h *Header) RequiresSecondXorLayer() bool {
	return h.CompilerTag == compilerTagXor2A || h.CompilerTag == compilerTagXor2B
}

func le32(b []byte, off uint32) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}

// decodeHeader parses a Header out of buf, which must be the scenario's
// full header region (at least minHeaderSize bytes).
func decodeHeader(buf []byte) (*Header, error) {
	if len(buf) < minHeaderSize {
		return nil, ErrBadHeader
	}

	h := &Header{
		TotalLength:        le32(buf, 0x00),
		CompilerTag:        le32(buf, 0x04),
		KidokuTableOffset:  le32(buf, 0x08),
		KidokuTableLength:  le32(buf, 0x0c),
		DramatisOffset:     le32(buf, 0x14),
		DramatisCount:      le32(buf, 0x18),
		DramatisByteLength: le32(buf, 0x1c),
		PayloadOffset:      le32(buf, 0x20),
		PayloadLenRaw:      le32(buf, 0x24),
		PayloadLenComp:     le32(buf, 0x28),
		DebugEntryA:        le32(buf, 0x2c),
		DebugEntryB:        le32(buf, 0x30),

		SavepointMessagePolicy: le32(buf, savepointPolicyOffset),
		SavepointSelcomPolicy:  le32(buf, savepointPolicyOffset+4),
		SavepointSeentopPolicy: le32(buf, savepointPolicyOffset+8),
	}

	trailerStart := h.DramatisOffset + h.DramatisByteLength
	if trailerStart != h.PayloadOffset && trailerStart < h.PayloadOffset {
		if trailerStart+8 <= uint32(len(buf)) {
			metaLen := le32(buf, trailerStart)
			idLen := le32(buf, trailerStart+4) + 1
			if metaLen >= idLen+17 {
				encOff := trailerStart + idLen + 16
				if encOff < uint32(len(buf)) {
					h.MetaEncoding = buf[encOff]
				}
			}
		}
	}

	return h, nil
}

// KidokuTable decodes the kidoku table (one u32 per entry) from the
// scenario's header region.
func (h *Header) KidokuTable(buf []byte) []uint32 {
	out := make([]uint32, h.KidokuTableLength)
	off := h.KidokuTableOffset
	for i := range out {
		if int(off)+4 > len(buf) {
			break
		}
		out[i] = le32(buf, off)
		off += 4
	}
	return out
}
