package machine

// Result summarises a Run call: how many steps executed, whether the
// machine ended halted, and every non-fatal error encountered along the
// way (lenient mode logs and continues rather than aborting). This
// replaces the teacher's match-oriented Result{Success, Captures} with a
// run-summary shape suited to a cooperative execution loop instead of a
// single pass/fail match.
type Result struct {
	Steps  int
	Halted bool
	Errors []error
}
