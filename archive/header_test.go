package archive

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildHeaderWithTrailer assembles a minimal header whose Dramatis region
// ends before PayloadOffset, leaving room for an RLdev metadata trailer
// block (id_len field, then 16 bytes, then the encoding byte), mirroring
// libReallive's Metadata::assign layout.
func buildHeaderWithTrailer(t *testing.T, metaLen, rawIDLen uint32, encoding byte, includeEncodingByte bool) []byte {
	t.Helper()

	const dramatisOffset = minHeaderSize
	const dramatisByteLength = 0
	trailerStart := uint32(dramatisOffset + dramatisByteLength)

	idLen := rawIDLen + 1
	encOff := trailerStart + idLen + 16

	bufLen := encOff + 1
	if !includeEncodingByte {
		bufLen = encOff
	}
	payloadOffset := bufLen + 8

	buf := make([]byte, payloadOffset+8)
	binary.LittleEndian.PutUint32(buf[0x00:], minHeaderSize)
	binary.LittleEndian.PutUint32(buf[0x04:], compilerTagBase)
	binary.LittleEndian.PutUint32(buf[0x14:], dramatisOffset)
	binary.LittleEndian.PutUint32(buf[0x1c:], dramatisByteLength)
	binary.LittleEndian.PutUint32(buf[0x20:], payloadOffset)

	binary.LittleEndian.PutUint32(buf[trailerStart:], metaLen)
	binary.LittleEndian.PutUint32(buf[trailerStart+4:], rawIDLen)
	if includeEncodingByte {
		buf[encOff] = encoding
	}

	return buf
}

func TestDecodeHeaderParsesTrailerMetaEncoding(t *testing.T) {
	const rawIDLen = 3
	idLen := uint32(rawIDLen + 1)
	metaLen := idLen + 17 // satisfies the "meta_len >= id_len+17" guard exactly

	buf := buildHeaderWithTrailer(t, metaLen, rawIDLen, 0x02, true)
	h, err := decodeHeader(buf)
	require.NoError(t, err)
	require.Equal(t, byte(0x02), h.MetaEncoding)
}

func TestDecodeHeaderRejectsMalformedTrailer(t *testing.T) {
	const rawIDLen = 3
	idLen := uint32(rawIDLen + 1)
	metaLen := idLen + 16 // one short of the guard: malformed, must be ignored

	buf := buildHeaderWithTrailer(t, metaLen, rawIDLen, 0x02, true)
	h, err := decodeHeader(buf)
	require.NoError(t, err)
	require.Equal(t, byte(0), h.MetaEncoding)
}
