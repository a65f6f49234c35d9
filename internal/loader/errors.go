package loader

import "errors"

// ErrMissingState is returned when the input record's state_info has no
// entry for the requested state key.
var ErrMissingState = errors.New("loader: missing state entry")

// ErrMissingHistory is returned when a state has no infected_history at
// all, which leaves InitializePopulation with no seeding data.
var ErrMissingHistory = errors.New("loader: missing infected history")

// ErrUnknownMode is returned when options.mode is neither "simulate" nor
// "find_contact_prob".
var ErrUnknownMode = errors.New("loader: unknown run mode")
