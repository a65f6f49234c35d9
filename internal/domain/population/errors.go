package population

import "errors"

// ErrSizeMismatch is returned by CopyFrom when the source and destination
// populations do not have the same number of agents. This is a genuine
// inconsistency (the caller built two populations from different raw
// inputs) rather than a state-machine no-op, so it is fatal.
var ErrSizeMismatch = errors.New("population: size mismatch")
