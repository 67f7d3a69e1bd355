// Package assert provides the checks used inside ntr test bodies.
//
// Every helper returns nil on success and an error describing the mismatch
// otherwise, so a body can simply return the result:
//
//	s.Test("adds", func(logs *ntr.Logs) error {
//		return assert.Equals(2, 1+1)
//	})
//
// Misusing a helper (comparing values it does not support, passing a nil
// function to ShouldFail, ...) returns a *domain.RunnerError instead of a plain
// error, which the runner reports separately from ordinary failures.
package assert
