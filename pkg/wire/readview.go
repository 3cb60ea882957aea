package wire

// MaxVLSN is the read view sentinel denoting "latest committed state"
// (spec §3 "Read view"). It is the only view under which cache
// publication is permitted.
const MaxVLSN uint64 = ^uint64(0)

// ReadView is a snapshot handle carrying a visibility LSN bound. A
// statement is visible under a view iff its LSN <= VLSN.
type ReadView struct {
	VLSN uint64
}

// Latest returns the "latest committed state" view.
func Latest() ReadView { return ReadView{VLSN: MaxVLSN} }

// At returns a view bound to an explicit snapshot LSN.
func At(vlsn uint64) ReadView { return ReadView{VLSN: vlsn} }

// IsLatest reports whether this view is the MAX sentinel.
func (v ReadView) IsLatest() bool { return v.VLSN == MaxVLSN }
