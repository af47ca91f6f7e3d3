// Package indicator contains the pure numeric routines the strategy engines
// are built on. Every function operates on an in-memory series ordered by
// time, performs no I/O, and reports too-short inputs via ErrInsufficientData
// instead of guessing.
package indicator

import "errors"

// ErrInsufficientData is returned when a series is shorter than the window an
// indicator needs. Callers recover locally (typically by holding) rather than
// letting this escape a strategy boundary.
var ErrInsufficientData = errors.New("insufficient data")
