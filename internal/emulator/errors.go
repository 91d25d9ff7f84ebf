package emulator

import "fmt"

// InternalInvariantViolation reports a core invariant that should never be
// observable from outside the emulator (a Loopy register escaping its
// 15-bit range, stack indexing outside page 1, and similar). It exists for
// debug assertions only; normal step_* operation never raises it.
type InternalInvariantViolation struct {
	Invariant string
	Detail    string
}

func (e *InternalInvariantViolation) Error() string {
	return fmt.Sprintf("internal invariant violated (%s): %s", e.Invariant, e.Detail)
}
