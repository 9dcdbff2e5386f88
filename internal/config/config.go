package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

type Config struct {
	// MAINTAINER NOTE: If you add/change/remove config fields, keep these in sync:
	// - CLI flags in internal/cli
	// - the key bindings in load.go
	Audit   Audit
	Catalog Catalog
	Output  Output
	Export  Export
	Archive Archive
	Server  Server
	Runtime Runtime
}

type Audit struct {
	// BaseURL is the audit backend origin (see --base-url). Submissions go to
	// BaseURL + /api/audit. It is always explicit; nothing is inferred from
	// the host the tool runs on.
	BaseURL string

	// Token is an optional bearer token for the backend (see --token).
	Token string

	// Timeout bounds a single submission (see --audit-timeout). 0 means no
	// client-side timeout.
	Timeout time.Duration
}

type Catalog struct {
	// Path points to an optional catalog override file (see --catalog).
	Path string

	// Recipient receives the contact mail (see --recipient).
	Recipient string
}

type Output struct {
	// ConsoleFormat controls the human-facing console sink format (see --console-format).
	// Allowed values: text, json, ndjson.
	ConsoleFormat string

	// Report writes a Markdown report to this path (see --report).
	Report string

	// Out writes structured output to this path (see --out).
	Out string

	// OutFormat selects the format for --out (see --out-format).
	// Allowed values: json, ndjson. If empty, it is inferred from the --out file extension.
	OutFormat string

	// Emit writes an additional structured event stream to stdout (see --emit).
	// Allowed values: json, ndjson.
	Emit []string

	// NoConsole suppresses the console sink (see --no-console).
	NoConsole bool

	// NoColor disables ANSI colors in text console output (see --no-color).
	NoColor bool
}

type Export struct {
	// PDF exports the rendered report as a PDF (see --pdf).
	PDF bool

	// Dir is the directory the PDF is written to (see --pdf-dir).
	Dir string

	// ChromePath overrides Chrome/Chromium discovery (see --chrome-path).
	ChromePath string
}

type Archive struct {
	// Bucket enables uploading exported PDFs to S3 (see --archive-bucket).
	Bucket   string
	Prefix   string
	Region   string
	Endpoint string

	// Static credentials, read from the config file or environment only.
	// When empty the default AWS credential chain applies.
	AccessKeyID     string
	SecretAccessKey string
}

// Enabled reports whether archiving is configured.
func (a Archive) Enabled() bool {
	return strings.TrimSpace(a.Bucket) != ""
}

type Server struct {
	// Addr is the listen address for "serve" (see --addr).
	Addr string

	// ShutdownTimeout bounds graceful shutdown (see --shutdown-timeout).
	ShutdownTimeout time.Duration
}

type Runtime struct {
	// Timeout is the global timeout for one run (see --timeout). 0 means
	// none, leaving only --audit-timeout on the submission.
	Timeout time.Duration

	// Verbose enables debug logging, including every backend request.
	Verbose bool
}

func New() *Config {
	return &Config{
		Audit: Audit{
			BaseURL: "http://localhost:8001",
		},
		Catalog: Catalog{
			Recipient: "contact@abel.com",
		},
		Output: Output{
			ConsoleFormat: "text",
		},
		Export: Export{
			Dir: ".",
		},
		Archive: Archive{
			Prefix: "reports",
		},
		Server: Server{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Runtime: Runtime{
			Timeout: 2 * time.Minute,
		},
	}
}

func (c *Config) Validate() error {
	// Audit validation
	c.Audit.BaseURL = strings.TrimSpace(c.Audit.BaseURL)
	if c.Audit.BaseURL == "" {
		return errors.New("--base-url is required")
	}
	u, err := url.Parse(c.Audit.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid --base-url value: %q (must be an http or https URL)", c.Audit.BaseURL)
	}
	if c.Audit.Timeout < 0 {
		return errors.New("--audit-timeout must be >= 0")
	}

	// Output validation
	c.Output.Emit = splitCommaList(c.Output.Emit)
	c.Output.ConsoleFormat = normalizeEnumValue(c.Output.ConsoleFormat)
	if c.Output.ConsoleFormat == "" {
		return errors.New("--console-format must be one of: text, json, ndjson")
	}
	if c.Output.ConsoleFormat != "text" && c.Output.ConsoleFormat != "json" && c.Output.ConsoleFormat != "ndjson" {
		return fmt.Errorf("unsupported --console-format: %s (must be one of: text, json, ndjson)", c.Output.ConsoleFormat)
	}

	for i, emit := range c.Output.Emit {
		v := normalizeEnumValue(emit)
		if v != "json" && v != "ndjson" {
			return fmt.Errorf("unsupported --emit value: %s (must be one of: json, ndjson)", v)
		}
		c.Output.Emit[i] = v
	}

	if c.Output.Out != "" {
		c.Output.OutFormat = normalizeEnumValue(c.Output.OutFormat)
		if c.Output.OutFormat == "" {
			ext := strings.ToLower(filepath.Ext(c.Output.Out))
			switch ext {
			case ".json":
				c.Output.OutFormat = "json"
			case ".ndjson", ".jsonl":
				c.Output.OutFormat = "ndjson"
			default:
				if ext == "" {
					return errors.New("cannot infer output format from file extension (missing extension); use --out-format")
				}
				return fmt.Errorf("cannot infer output format from file extension %q; use --out-format", ext)
			}
		} else if c.Output.OutFormat != "json" && c.Output.OutFormat != "ndjson" {
			return fmt.Errorf("unsupported output format: %s", c.Output.OutFormat)
		}
	}

	// Export / archive validation
	if c.Export.PDF && strings.TrimSpace(c.Export.Dir) == "" {
		c.Export.Dir = "."
	}
	if c.Archive.Enabled() && !c.Export.PDF {
		return errors.New("--archive-bucket requires --pdf")
	}
	c.Archive.Prefix = strings.Trim(strings.TrimSpace(c.Archive.Prefix), "/")
	if c.Archive.Endpoint != "" {
		eu, err := url.Parse(c.Archive.Endpoint)
		if err != nil || eu.Scheme == "" || eu.Host == "" {
			return fmt.Errorf("invalid --archive-endpoint value: %q", c.Archive.Endpoint)
		}
	}

	// Runtime validation
	if c.Runtime.Timeout < 0 {
		return errors.New("--timeout must be >= 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("--shutdown-timeout must be > 0")
	}

	return nil
}

func normalizeEnumValue(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func splitCommaList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			p := strings.TrimSpace(part)
			if p == "" {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}
