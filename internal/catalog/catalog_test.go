package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault_HasOriginalPriceList(t *testing.T) {
	c := Default()
	if c.Len() != 10 {
		t.Fatalf("Len = %d, want 10", c.Len())
	}

	tests := []struct {
		title string
		name  string
		price int64
	}{
		{"Structured Data (JSON-LD)", "구조화 데이터 심기", 300000},
		{"Meta Description", "AI 매혹 메타 설명 작성", 150000},
		{"Content Volume", "AI 학습용 콘텐츠 보강", 400000},
		{"Sitemap.xml", "사이트지도 제작 및 등록", 100000},
	}
	for _, tt := range tests {
		e, ok := c.Lookup(tt.title)
		if !ok {
			t.Fatalf("missing %q", tt.title)
		}
		if e.Name != tt.name || e.Price != tt.price {
			t.Errorf("%q = %+v", tt.title, e)
		}
	}

	if _, ok := c.Lookup("meta description"); ok {
		t.Errorf("lookup must be exact")
	}
}

func TestEntries_SortedCopy(t *testing.T) {
	c := Default()
	entries := c.Entries()
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Title > entries[i].Title {
			t.Fatalf("entries not sorted at %d: %q > %q", i, entries[i-1].Title, entries[i].Title)
		}
	}

	entries[0].Price = -1
	if e, _ := c.Lookup(entries[0].Title); e.Price < 0 {
		t.Fatalf("mutating Entries() must not affect the catalog")
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		wantErr string
	}{
		{"empty title", []Entry{{Title: " ", Name: "x"}}, "title is required"},
		{"empty name", []Entry{{Title: "A"}}, "name is required"},
		{"negative price", []Entry{{Title: "A", Name: "x", Price: -5}}, "price must be >= 0"},
		{"duplicate", []Entry{{Title: "A", Name: "x"}, {Title: "A", Name: "y"}}, "duplicate title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.entries)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}

	var zero Catalog
	if _, ok := zero.Lookup("A"); ok || zero.Len() != 0 {
		t.Fatalf("zero catalog should be empty")
	}
}

func TestResolve(t *testing.T) {
	c := Default()

	all, err := c.Resolve("")
	if err != nil || len(all) != c.Len() {
		t.Fatalf("Resolve(\"\") = %d entries, err %v", len(all), err)
	}

	got, err := c.Resolve("Sitemap.xml, Meta Description")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if len(got) != 2 || got[0].Title != "Sitemap.xml" || got[1].Title != "Meta Description" {
		t.Fatalf("unexpected: %+v", got)
	}

	if _, err := c.Resolve("Nope"); err == nil {
		t.Fatalf("expected error for unknown title")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoad_EmptyPathReturnsDefault(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if c.Len() != Default().Len() {
		t.Fatalf("Len = %d", c.Len())
	}
}

func TestLoad_OverlaysDefault(t *testing.T) {
	path := writeFile(t, "catalog.yaml", `services:
- title: "Meta Description"
  name: "Meta rewrite"
  price: 180000
  description: "new copy"
- title: "llms.txt"
  name: "llms.txt authoring"
  price: 50000
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if c.Len() != 11 {
		t.Fatalf("Len = %d, want 11", c.Len())
	}
	if e, _ := c.Lookup("Meta Description"); e.Price != 180000 || e.Name != "Meta rewrite" {
		t.Fatalf("override not applied: %+v", e)
	}
	if e, ok := c.Lookup("llms.txt"); !ok || e.Price != 50000 {
		t.Fatalf("new entry missing: %+v", e)
	}
	if e, _ := c.Lookup("Robots.txt"); e.Price != 100000 {
		t.Fatalf("untouched default changed: %+v", e)
	}
}

func TestLoad_Replace(t *testing.T) {
	path := writeFile(t, "catalog.json", `{"replace": true, "services": [{"title": "Only", "name": "only", "price": 1}]}`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}
}

func TestLoad_RejectsNegativePrice(t *testing.T) {
	path := writeFile(t, "catalog.yaml", `services:
- title: "Meta Description"
  name: "x"
  price: -1
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "price must be >= 0") {
		t.Fatalf("expected price error, got %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error")
	}
}
