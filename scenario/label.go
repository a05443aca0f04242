package scenario

import "sort"

// EntrypointLabel is one entry in a Script's entry-point index.
type EntrypointLabel struct {
	ID     int
	Handle ElementHandle
}

// EntrypointLabels implements sort.Interface for stable debug dumps,
// mirroring the teacher's Labels/Label pair.
type EntrypointLabels []EntrypointLabel

var _ sort.Interface = (EntrypointLabels)(nil)

func (x EntrypointLabels) Len() int           { return len(x) }
func (x EntrypointLabels) Less(i, j int) bool { return x[i].ID < x[j].ID }
func (x EntrypointLabels) Swap(i, j int)      { x[i], x[j] = x[j], x[i] }
