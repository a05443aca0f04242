package expr

// ScanLength reports how many bytes an expression starting at data[0]
// occupies, without retaining the parsed tree. It is the separate
// "length-only" pass (scenario parsing needs
// to size a Function's parameters before committing to lazily parsing
// them); it shares the same grammar as Build; only the caller discards
// the tree.
func ScanLength(data []byte) (int, error) {
	_, n, err := Build(data)
	if err != nil {
		return 0, err
	}
	return n, nil
}
