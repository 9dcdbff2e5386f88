package catalog

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type fileSchema struct {
	// Replace drops the built-in entries instead of overlaying them.
	Replace  bool    `mapstructure:"replace"`
	Services []Entry `mapstructure:"services"`
}

// Load reads a catalog file (YAML, JSON or TOML, by extension) and returns
// the resulting catalog. Entries overlay the built-in catalog by title unless
// the file sets replace: true. An empty path returns Default().
func Load(path string) (Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Catalog{}, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var fs fileSchema
	if err := v.Unmarshal(&fs); err != nil {
		return Catalog{}, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	if len(fs.Services) == 0 && fs.Replace {
		return Catalog{}, fmt.Errorf("catalog file %s: replace requires at least one service", path)
	}

	var entries []Entry
	if !fs.Replace {
		overridden := make(map[string]bool, len(fs.Services))
		for _, e := range fs.Services {
			overridden[strings.TrimSpace(e.Title)] = true
		}
		for _, e := range Default().Entries() {
			if !overridden[e.Title] {
				entries = append(entries, e)
			}
		}
	}
	entries = append(entries, fs.Services...)

	c, err := New(entries)
	if err != nil {
		return Catalog{}, fmt.Errorf("catalog file %s: %w", path, err)
	}
	return c, nil
}
