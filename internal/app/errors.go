package app

import "errors"

// ErrUnsupportedMode is returned by Run when the input record's mode is
// neither ModeSimulate nor ModeFindContactProb.
var ErrUnsupportedMode = errors.New("app: unsupported run mode")
