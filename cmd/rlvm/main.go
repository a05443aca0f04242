// Command rlvm is a headless runner for the core: it opens an archive,
// loads one scenario, and steps a machine.Machine to completion, printing
// the text the scenario produces and a final run summary.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
