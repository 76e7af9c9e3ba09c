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

// Country is one entry of the list.
type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var (
	defaultOnce      sync.Once
	defaultCountries []Country
	defaultErr       error
)

// DefaultCountries returns a copy of the embedded list sorted by name.
func DefaultCountries() ([]Country, error) {
	defaultOnce.Do(func() {
		f, err := dataFS.Open(defaultListPath)
		if err != nil {
			defaultErr = err
			return
		}
		defer func() { _ = f.Close() }()

		defaultCountries, defaultErr = LoadCountries(f)
	})

	if defaultErr != nil {
		return nil, defaultErr
	}
	return append([]Country{}, defaultCountries...), nil
}

// LoadCountries parses "CODE|Name" lines. Blank lines and # comments are
// skipped; duplicate codes keep the first entry.
func LoadCountries(r io.Reader) ([]Country, error) {
	if r == nil {
		return nil, fmt.Errorf("countries: missing reader")
	}

	scanner := bufio.NewScanner(r)
	out := make([]Country, 0, 256)
	seen := map[string]struct{}{}

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		code, name, ok := strings.Cut(text, "|")
		code = strings.ToUpper(strings.TrimSpace(code))
		name = strings.TrimSpace(name)
		if !ok || code == "" || name == "" {
			return nil, fmt.Errorf("countries: line %d: expected CODE|Name", line)
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, Country{Code: code, Name: name})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Names returns the country names in list order.
func Names(list []Country) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.Name)
	}
	return out
}
