package model

// Options configures the Builder. Options are assembled by the public
// adapter in pkg/model and passed into New.
type Options struct {
	Labeler   func(string) string
	Sanitizer func(string) string
}

func defaultOptions() Options {
	return Options{
		Labeler:   DefaultLabeler,
		Sanitizer: SanitizeRichText,
	}
}
