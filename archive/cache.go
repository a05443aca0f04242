package archive

import lru "github.com/hashicorp/golang-lru"

const defaultScenarioCacheSize = 64

// scenarioCache memoizes decompressed scenario payloads by scenario id, so
// repeated farcalls/gosubs into the same scenario within one playthrough
// don't pay the LZSS decode cost again.
type scenarioCache struct {
	cache *lru.Cache
}

func newScenarioCache(size int) *scenarioCache {
	if size <= 0 {
		size = defaultScenarioCacheSize
	}
	c, err := lru.New(size)
	if err != nil {
		// Only returns an error for size <= 0, already guarded above.
		panic(err)
	}
	return &scenarioCache{cache: c}
}

func (c *scenarioCache) get(id int) ([]byte, bool) {
	v, ok := c.cache.Get(id)
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}

func (c *scenarioCache) put(id int, data []byte) {
	c.cache.Add(id, data)
}
