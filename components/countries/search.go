package countries

import (
	"sort"
	"strings"
)

// Option is one select choice in handler responses. Value is the country
// name, which is what the contact step records.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Code  string `json:"code"`
}

// Search filters list by query. An exact code match ranks first, then name
// prefix matches, then other substring matches, each group by name.
func Search(list []Country, query string, limit int, opts Options) []Country {
	limit = clampLimit(limit, opts)
	if limit == 0 {
		return nil
	}

	query = strings.TrimSpace(query)
	if query == "" {
		if opts.EmptySearchMode != EmptySearchAll {
			return nil
		}
		ordered := preferredFirst(list, opts.Preferred)
		if len(ordered) > limit {
			ordered = ordered[:limit]
		}
		return ordered
	}

	q := strings.ToLower(query)
	matches := make([]match, 0, 16)
	for _, c := range list {
		name := strings.ToLower(c.Name)
		rank := -1
		switch {
		case strings.EqualFold(c.Code, query):
			rank = 0
		case strings.HasPrefix(name, q):
			rank = 1
		case strings.Contains(name, q):
			rank = 2
		}
		if rank < 0 {
			continue
		}
		matches = append(matches, match{country: c, rank: rank})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].rank != matches[j].rank {
			return matches[i].rank < matches[j].rank
		}
		return matches[i].country.Name < matches[j].country.Name
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]Country, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.country)
	}
	return out
}

// SearchOptions is Search rendered as select options.
func SearchOptions(list []Country, query string, limit int, opts Options) []Option {
	results := Search(list, query, limit, opts)
	if len(results) == 0 {
		return nil
	}
	out := make([]Option, 0, len(results))
	for _, c := range results {
		out = append(out, Option{Value: c.Name, Label: c.Name, Code: c.Code})
	}
	return out
}

func preferredFirst(list []Country, preferred []string) []Country {
	out := make([]Country, 0, len(list))
	picked := make(map[string]struct{}, len(preferred))
	for _, code := range preferred {
		code = strings.ToUpper(strings.TrimSpace(code))
		for _, c := range list {
			if c.Code != code {
				continue
			}
			if _, ok := picked[code]; !ok {
				picked[code] = struct{}{}
				out = append(out, c)
			}
			break
		}
	}
	for _, c := range list {
		if _, ok := picked[c.Code]; ok {
			continue
		}
		out = append(out, c)
	}
	return out
}

type match struct {
	country Country
	rank    int
}
