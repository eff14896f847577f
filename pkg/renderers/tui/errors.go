package tui

import "errors"

// ErrAborted signals the user abandoned the session (e.g., Ctrl+C). Survey's
// interrupt error is translated into this before it leaves the package.
var ErrAborted = errors.New("tui: aborted")
