package form

import "errors"

var (
	// ErrSubmitPending is returned when Submit is called while an earlier
	// submission has not settled. Rapid repeat triggers coalesce into the
	// first call; the host callback fires at most once.
	ErrSubmitPending = errors.New("form: submission already in flight")

	// ErrStaleSubmission is returned when a reset lands while a submission
	// awaits the validator or host callback. The in-flight outcome is
	// discarded, never applied to the freshly reset state.
	ErrStaleSubmission = errors.New("form: submission superseded by reset")

	// ErrUnknownField is wrapped into errors returned for names the
	// definition does not declare.
	ErrUnknownField = errors.New("form: unknown field")
)
