package tui

// Theme captures optional formatting prefixes applied when printing messages.
// Kept minimal to avoid coupling runner logic to ANSI specifics.
type Theme struct {
	PromptPrefix string
	InfoPrefix   string
	ErrorPrefix  string
}

// Option configures a Runner.
type Option func(*Runner)

// WithPromptDriver overrides the prompt driver. Nil drivers are ignored.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithPageSize caps the number of visible rows in choice prompts.
func WithPageSize(size int) Option {
	return func(r *Runner) {
		if size > 0 {
			r.pageSize = size
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Runner) {
		r.theme = theme
	}
}
