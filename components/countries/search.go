package countries

import (
	"sort"
	"strings"

	"github.com/goliatone/go-formflow/pkg/model"
)

// Search filters the list against query, matching case-insensitively on name
// substrings and code prefixes. Prefix matches on either axis sort before
// plain substring matches; ties break alphabetically by name.
func Search(list []Country, query string, limit int, opts Options) []Country {
	limit = clampLimit(limit, opts)
	if limit == 0 {
		return nil
	}

	query = strings.TrimSpace(query)
	if query == "" {
		if opts.EmptySearchMode == EmptySearchTop {
			if len(list) <= limit {
				return append([]Country{}, list...)
			}
			return append([]Country{}, list[:limit]...)
		}
		return nil
	}

	q := strings.ToLower(query)
	matches := make([]matchedCountry, 0, 32)
	for _, country := range list {
		lowerName := strings.ToLower(country.Name)
		lowerCode := strings.ToLower(country.Code)
		if !strings.Contains(lowerName, q) && !strings.HasPrefix(lowerCode, q) {
			continue
		}
		matches = append(matches, matchedCountry{
			country:  country,
			isPrefix: strings.HasPrefix(lowerName, q) || strings.HasPrefix(lowerCode, q),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].isPrefix != matches[j].isPrefix {
			return matches[i].isPrefix
		}
		return matches[i].country.Name < matches[j].country.Name
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]Country, 0, len(matches))
	for _, match := range matches {
		out = append(out, match.country)
	}
	return out
}

// SearchOptions runs Search and maps the results to select options: code as
// the stored value, name as the label.
func SearchOptions(list []Country, query string, limit int, opts Options) []model.Option {
	results := Search(list, query, limit, opts)
	if len(results) == 0 {
		return nil
	}

	out := make([]model.Option, 0, len(results))
	for _, country := range results {
		out = append(out, model.Option{Value: country.Code, Label: country.Name})
	}
	return out
}

type matchedCountry struct {
	country  Country
	isPrefix bool
}
