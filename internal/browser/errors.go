package browser

import "errors"

// ErrClosed is returned by Fetch after Close.
var ErrClosed = errors.New("browser is closed")
