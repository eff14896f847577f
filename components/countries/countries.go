package countries

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

//go:embed data/countries.txt
var dataFS embed.FS

const defaultListPath = "data/countries.txt"

// Country is one entry in the reference list: an ISO 3166-1 alpha-2 code and
// the English short name.
type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var (
	defaultOnce sync.Once
	defaultList []Country
	defaultErr  error
)

// DefaultCountries returns a copy of the embedded country list, sorted by
// name.
func DefaultCountries() ([]Country, error) {
	defaultOnce.Do(func() {
		f, err := dataFS.Open(defaultListPath)
		if err != nil {
			defaultErr = err
			return
		}
		defer func() { _ = f.Close() }()

		list, err := LoadCountries(f)
		if err != nil {
			defaultErr = err
			return
		}
		defaultList = list
	})

	if defaultErr != nil {
		return nil, defaultErr
	}
	return append([]Country{}, defaultList...), nil
}

// LoadCountries parses a tab-separated code/name list. Blank lines and lines
// starting with # are skipped; repeated codes keep the first entry. The
// result is sorted by name.
func LoadCountries(r io.Reader) ([]Country, error) {
	if r == nil {
		return nil, fmt.Errorf("countries: missing reader")
	}

	scanner := bufio.NewScanner(r)
	list := make([]Country, 0, 256)
	seen := map[string]struct{}{}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}

		code, name, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("countries: malformed line %q", line)
		}
		code = strings.ToUpper(strings.TrimSpace(code))
		name = strings.TrimSpace(name)
		if code == "" || name == "" {
			return nil, fmt.Errorf("countries: malformed line %q", line)
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		list = append(list, Country{Code: code, Name: name})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}
