package common

import "fmt"

// Assert checks a condition and panics if it is false.
//
// Assertions are reserved for invariants: truths about internal engine state
// that must always hold (e.g., an executor's Init was called before Next, a
// switch default that cannot be reached). Conditions that can legitimately
// occur at runtime, such as unresolved columns or row source failures, are
// returned as EngineError values instead.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
