package archive

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecompressAllLiteral(t *testing.T) {
	payload := []byte("hello, world!!!")
	var compressed []byte
	for i := 0; i < len(payload); i += 8 {
		end := i + 8
		if end > len(payload) {
			end = len(payload)
		}
		chunk := payload[i:end]
		compressed = append(compressed, 0xff) // all 8 bits literal
		compressed = append(compressed, chunk...)
	}
	out, err := decompress(compressed, len(payload))
	require.NoError(t, err)
	require.Equal(t, payload, out)
}

func TestDecompressBackReference(t *testing.T) {
	// Literal "ab", then a back-reference copying 4 bytes starting 2 back
	// (offset=1, length field = 4-2 = 2), producing "ababab".
	var compressed []byte
	compressed = append(compressed, 0x03) // bits 0,1 literal, rest back-ref
	compressed = append(compressed, 'a', 'b')
	word := uint16(1) | uint16(2)<<12 // offset=1, length=2+2=4
	compressed = append(compressed, byte(word), byte(word>>8))

	out, err := decompress(compressed, 6)
	require.NoError(t, err)
	require.Equal(t, []byte("ababab"), out)
}

func TestSecondXorLayerRoundTrips(t *testing.T) {
	key := &XorKey{Name: "test"}
	for i := range key.Mask {
		key.Mask[i] = byte(i)
	}
	buf := []byte{1, 2, 3, 4, 5}
	orig := append([]byte(nil), buf...)
	applySecondXorLayer(buf, key)
	require.NotEqual(t, orig, buf)
	applySecondXorLayer(buf, key)
	require.Equal(t, orig, buf)
}

func TestDecodeHeaderRejectsShortBuffer(t *testing.T) {
	_, err := decodeHeader(make([]byte, 16))
	require.ErrorIs(t, err, ErrBadHeader)
}

// buildScenario assembles a minimal valid header+payload region for
// synthetic archive tests: an all-literal LZSS stream under compiler tag
// 10002 (no second XOR layer).
func buildScenario(payload []byte) []byte {
	header := make([]byte, minHeaderSize)
	binary.LittleEndian.PutUint32(header[0x00:], minHeaderSize)
	binary.LittleEndian.PutUint32(header[0x04:], compilerTagBase)
	binary.LittleEndian.PutUint32(header[0x20:], minHeaderSize) // payload offset

	var compressed []byte
	for i := 0; i < len(payload); i += 8 {
		end := i + 8
		if end > len(payload) {
			end = len(payload)
		}
		compressed = append(compressed, 0xff)
		compressed = append(compressed, payload[i:end]...)
	}
	binary.LittleEndian.PutUint32(header[0x24:], uint32(len(payload)))
	binary.LittleEndian.PutUint32(header[0x28:], uint32(len(compressed)))

	return append(header, compressed...)
}

func TestOpenAndScenarioBytes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.dat")

	toc := make([]byte, tocLen)
	scenario := buildScenario([]byte("\x00#\x01\x04\x00\x00\x00\x01"))
	binary.LittleEndian.PutUint32(toc[0:4], uint32(tocLen))
	binary.LittleEndian.PutUint32(toc[4:8], uint32(len(scenario)))

	full := append(toc, scenario...)
	require.NoError(t, os.WriteFile(path, full, 0o644))

	a, err := Open(path, Options{})
	require.NoError(t, err)
	defer a.Close()

	require.True(t, a.HasScenario(0))
	require.False(t, a.HasScenario(1))

	out, err := a.ScenarioBytes(0)
	require.NoError(t, err)
	require.True(t, len(out) >= minHeaderSize)

	// Cached path returns the identical slice contents.
	out2, err := a.ScenarioBytes(0)
	require.NoError(t, err)
	require.Equal(t, out, out2)
}

func TestOpenRejectsTruncated(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "short.dat")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0o644))
	_, err := Open(path, Options{})
	require.Error(t, err)
}
