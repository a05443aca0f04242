// Package archive implements RLVM's Container & Compression component
// (SPEC_FULL.md C1): parsing the fixed-size table of contents at the head
// of a RealLive archive file, decompressing and deobfuscating individual
// scenario payloads, and resolving loose-file scenario overrides.
package archive

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	mmap "github.com/edsrzf/mmap-go"
)

const (
	tocSlots   = 10000
	tocSlotLen = 8
	tocLen     = tocSlots * tocSlotLen
)

var overridePattern = regexp.MustCompile(`(?i)^seen(\d{4})\.txt$`)

// filePos is the offset/length pair for one scenario's data within the
// archive, or within a loose override file (in which case Offset is always
// 0 and the bytes are read from Override instead of the mapped archive).
type filePos struct {
	Offset   uint32
	Length   uint32
	Override string // non-empty iff this scenario is a loose-file override
}

// Archive is a parsed RealLive container: an index-keyed mapping from
// scenario id to its location, backed by one memory-mapped file.
type Archive struct {
	path    string
	mmap    mmap.MMap
	data    []byte
	slots   map[int]filePos
	cache   *scenarioCache
	keys    map[string]*XorKey
	gameKey string // selects which registered XorKey applies, if any
}

// Options configures Open.
type Options struct {
	// GameKey names the registered XorKey to use for this title's second
	// XOR layer, if one is needed. Leave empty if the title's scenarios
	// never require the second layer.
	GameKey string

	// Keys is the XorKey registry consulted by GameKey.
	Keys map[string]*XorKey

	// CacheSize bounds the decompressed-scenario LRU; 0 selects a default.
	CacheSize int
}

// Open memory-maps the archive at path, validates its table of contents,
// and scans the archive's directory for seenNNNN.txt overrides.
func Open(path string, opts Options) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if info.Size() < tocLen {
		return nil, &LoadError{Path: path, Err: ErrTruncated}
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	a := &Archive{
		path:  path,
		mmap:  m,
		data:  []byte(m),
		slots: make(map[int]filePos),
		keys:  opts.Keys,
	}
	a.gameKey = opts.GameKey
	a.cache = newScenarioCache(opts.CacheSize)

	for i := 0; i < tocSlots; i++ {
		off := i * tocSlotLen
		offset := binary.LittleEndian.Uint32(a.data[off : off+4])
		length := binary.LittleEndian.Uint32(a.data[off+4 : off+8])
		if offset == 0 {
			continue
		}
		a.slots[i] = filePos{Offset: offset, Length: length}
	}

	if err := a.scanOverrides(filepath.Dir(path)); err != nil {
		m.Unmap()
		return nil, &LoadError{Path: path, Err: err}
	}

	return a, nil
}

// Close unmaps the backing file.
func (a *Archive) Close() error {
	return a.mmap.Unmap()
}

func (a *Archive) scanOverrides(dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		m := overridePattern.FindStringSubmatch(ent.Name())
		if m == nil {
			continue
		}
		id, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		pos := a.slots[id]
		pos.Override = filepath.Join(dir, ent.Name())
		a.slots[id] = pos
	}
	return nil
}

// HasScenario reports whether a scenario id has a populated slot (either in
// the archive TOC or via a loose-file override).
func (a *Archive) HasScenario(id int) bool {
	_, ok := a.slots[id]
	return ok
}

// ScenarioIDs returns every populated scenario id, in ascending order.
func (a *Archive) ScenarioIDs() []int {
	ids := make([]int, 0, len(a.slots))
	for id := range a.slots {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	return ids
}

// ScenarioBytes seeks to the scenario, reads its header, decompresses the
// payload, and returns header ++ decompressed_payload, per spec.md §4.1.
func (a *Archive) ScenarioBytes(id int) ([]byte, error) {
	if cached, ok := a.cache.get(id); ok {
		return cached, nil
	}

	pos, ok := a.slots[id]
	if !ok {
		return nil, &LoadError{Path: a.path, ScenarioID: id, HasID: true, Err: ErrNoScenario}
	}

	var raw []byte
	if pos.Override != "" {
		b, err := os.ReadFile(pos.Override)
		if err != nil {
			return nil, &LoadError{Path: a.path, ScenarioID: id, HasID: true, Err: err}
		}
		raw = b
	} else {
		if int(pos.Offset+pos.Length) > len(a.data) || pos.Length < minHeaderSize {
			return nil, &LoadError{Path: a.path, ScenarioID: id, HasID: true, Err: ErrBadHeader}
		}
		raw = a.data[pos.Offset : pos.Offset+pos.Length]
	}

	h, err := decodeHeader(raw)
	if err != nil {
		return nil, &LoadError{Path: a.path, ScenarioID: id, HasID: true, Err: err}
	}

	if int(h.PayloadOffset+h.PayloadLenComp) > len(raw) {
		return nil, &LoadError{Path: a.path, ScenarioID: id, HasID: true, Err: ErrBadHeader}
	}
	compressed := raw[h.PayloadOffset : h.PayloadOffset+h.PayloadLenComp]

	var key *XorKey
	if a.gameKey != "" {
		key = a.keys[a.gameKey]
	}

	payload, err := decompressPayload(compressed, int(h.PayloadLenRaw), h, key)
	if err != nil {
		return nil, &LoadError{Path: a.path, ScenarioID: id, HasID: true, Err: err}
	}

	out := make([]byte, 0, len(raw[:h.PayloadOffset])+len(payload))
	out = append(out, raw[:h.PayloadOffset]...)
	out = append(out, payload...)

	a.cache.put(id, out)
	return out, nil
}

// Header returns the decoded header for a scenario without decompressing
// its payload.
func (a *Archive) Header(id int) (*Header, error) {
	pos, ok := a.slots[id]
	if !ok {
		return nil, &LoadError{Path: a.path, ScenarioID: id, HasID: true, Err: ErrNoScenario}
	}
	var raw []byte
	if pos.Override != "" {
		b, err := os.ReadFile(pos.Override)
		if err != nil {
			return nil, &LoadError{Path: a.path, ScenarioID: id, HasID: true, Err: err}
		}
		raw = b
	} else {
		raw = a.data[pos.Offset : pos.Offset+pos.Length]
	}
	return decodeHeader(raw)
}

// ProbableEncoding scans every scenario's RLdev metadata block and returns
// the first non-zero encoding tag found, or 0 if none is present.
func (a *Archive) ProbableEncoding() byte {
	for _, id := range a.ScenarioIDs() {
		h, err := a.Header(id)
		if err != nil {
			continue
		}
		if h.MetaEncoding != 0 {
			return h.MetaEncoding
		}
	}
	return 0
}

// String renders a one-line summary, following the teacher's convention of
// a cheap debug String() method on the top-level value type.
func (a *Archive) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Archive{%s, %d scenarios}", a.path, len(a.slots))
	return b.String()
}
