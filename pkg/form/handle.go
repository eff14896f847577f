package form

// Handle is the imperative capability a host holds to reset a form it does
// not otherwise own. The zero Handle is valid and inert, so hosts can store
// one before the form exists and call it safely at any point.
type Handle struct {
	c *Controller
}

// Handle returns the reset capability for this controller.
func (c *Controller) Handle() Handle {
	return Handle{c: c}
}

// Reset restores the form to its initial state. No-op before the form is
// initialized.
func (h Handle) Reset() {
	if h.c == nil {
		return
	}
	h.c.Reset()
}

// Busy reports whether a submission is in flight. False before the form is
// initialized.
func (h Handle) Busy() bool {
	if h.c == nil {
		return false
	}
	return h.c.Busy()
}
