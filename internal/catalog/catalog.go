package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Entry is one remediation service, keyed by the check title it fixes.
type Entry struct {
	Title       string `json:"title" mapstructure:"title"`
	Name        string `json:"name" mapstructure:"name"`
	Price       int64  `json:"price" mapstructure:"price"`
	Description string `json:"description" mapstructure:"description"`
}

// Catalog is an immutable title -> service mapping. The zero value is an
// empty catalog.
type Catalog struct {
	entries map[string]Entry
}

// New builds a catalog from entries. Titles must be unique and non-empty and
// prices must be >= 0.
func New(entries []Entry) (Catalog, error) {
	m := make(map[string]Entry, len(entries))
	for i, e := range entries {
		e.Title = strings.TrimSpace(e.Title)
		if e.Title == "" {
			return Catalog{}, fmt.Errorf("catalog entry %d: title is required", i)
		}
		if strings.TrimSpace(e.Name) == "" {
			return Catalog{}, fmt.Errorf("catalog entry %q: name is required", e.Title)
		}
		if e.Price < 0 {
			return Catalog{}, fmt.Errorf("catalog entry %q: price must be >= 0, got %d", e.Title, e.Price)
		}
		if _, dup := m[e.Title]; dup {
			return Catalog{}, fmt.Errorf("catalog entry %q: duplicate title", e.Title)
		}
		m[e.Title] = e
	}
	return Catalog{entries: m}, nil
}

// MustNew is like New but panics on invalid entries.
func MustNew(entries []Entry) Catalog {
	c, err := New(entries)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the service that remediates the check with the given title.
// Matching is exact.
func (c Catalog) Lookup(title string) (Entry, bool) {
	e, ok := c.entries[title]
	return e, ok
}

func (c Catalog) Len() int {
	return len(c.entries)
}

// Entries returns a copy of all entries sorted by title.
func (c Catalog) Entries() []Entry {
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Title < out[j].Title
	})
	return out
}

// Resolve returns the entries for a comma-separated list of titles, in the
// order given. Empty selector means all entries.
func (c Catalog) Resolve(selector string) ([]Entry, error) {
	if strings.TrimSpace(selector) == "" {
		return c.Entries(), nil
	}
	var out []Entry
	for _, title := range strings.Split(selector, ",") {
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		e, ok := c.Lookup(title)
		if !ok {
			return nil, fmt.Errorf("service not found for check: %s", title)
		}
		out = append(out, e)
	}
	return out, nil
}
