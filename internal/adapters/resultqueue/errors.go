package resultqueue

import "errors"

// ErrClosed names the closed-queue condition. No function in this package
// returns it: Enqueue reports a closed queue by returning false.
var ErrClosed = errors.New("resultqueue: closed")
