package spinner

import "errors"

// ErrConfigFault and ErrDataFault are the two error classes callers
// can match on with errors.Is: a config fault means the job never
// starts superstep 0, a data fault means one input line was malformed
// and the whole read was aborted. Arithmetic degeneracies (division by
// a zero denominator) are handled locally with the fallback documented
// next to where each one occurs, not surfaced as an error.
var (
	ErrConfigFault = errors.New("configuration fault")
	ErrDataFault   = errors.New("data fault")
)
