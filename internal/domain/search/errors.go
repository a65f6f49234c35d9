package search

import "errors"

// ErrDegenerateSlope is returned by the internal OLS fit when the
// regression slope is exactly zero, which would otherwise divide by zero
// computing the zero-crossing. FindContactProbability catches it and
// substitutes the midpoint of the probed bounds with an infinite stdev.
var ErrDegenerateSlope = errors.New("search: degenerate regression slope")
