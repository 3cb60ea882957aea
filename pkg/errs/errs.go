// Package errs defines the error kinds the point-lookup path can
// surface (spec §7), wrapped with github.com/cockroachdb/errors so
// stack traces survive across the layers that propagate them.
package errs

import (
	"github.com/cockroachdb/errors"
)

// Sentinel kinds. Call sites wrap these with errors.Wrap/errors.Mark
// so errors.Is still matches at any point further up the call chain.
var (
	// ErrOutOfMemory is returned when the scratch arena or a tuple
	// allocation is exhausted.
	ErrOutOfMemory = errors.New("errs: out of memory")

	// ErrTxTrackFailure is returned when the transaction manager
	// refuses to register read-intent for a lookup's key.
	ErrTxTrackFailure = errors.New("errs: transaction track failure")

	// ErrIO is returned for run-iterator I/O or decode failures.
	ErrIO = errors.New("errs: io error")

	// ErrUpsertFailure is returned when the upsert applier cannot
	// produce a tuple from a delta and a base.
	ErrUpsertFailure = errors.New("errs: upsert failure")
)

// OutOfMemory reports an out-of-memory failure, tagged with what ran
// out, still matched by errors.Is(err, ErrOutOfMemory).
func OutOfMemory(what string) error {
	return errors.Mark(errors.Newf("arena exhausted: %s", what), ErrOutOfMemory)
}

// TxTrackFailure wraps a transaction manager's refusal to track a
// read-intent, still matched by errors.Is(err, ErrTxTrackFailure).
func TxTrackFailure(cause error) error {
	return errors.Mark(errors.Wrap(cause, "track_point failed"), ErrTxTrackFailure)
}

// IO wraps an underlying I/O or decode error from the run iterator,
// still matched by errors.Is(err, ErrIO).
func IO(cause error) error {
	return errors.Mark(errors.Wrap(cause, "run iterator failed"), ErrIO)
}

// UpsertFailure wraps an applier failure, still matched by
// errors.Is(err, ErrUpsertFailure).
func UpsertFailure(cause error) error {
	return errors.Mark(errors.Wrap(cause, "upsert apply failed"), ErrUpsertFailure)
}

// Is reports whether err is (or wraps) one of the sentinel kinds.
func Is(err, kind error) bool {
	return errors.Is(err, kind)
}
