package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"aeocheck/internal/flags"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load,
// e.g. AEOCHECK_AUDIT_BASE_URL.
const EnvPrefix = "AEOCHECK"

type binding struct {
	key  string // config-file key; env name is derived from it
	flag string // CLI flag that takes precedence when explicitly set
	set  func(v *viper.Viper, key string, c *Config)
}

func stringBinding(key, flag string, dst func(c *Config) *string) binding {
	return binding{key: key, flag: flag, set: func(v *viper.Viper, key string, c *Config) {
		*dst(c) = v.GetString(key)
	}}
}

func boolBinding(key, flag string, dst func(c *Config) *bool) binding {
	return binding{key: key, flag: flag, set: func(v *viper.Viper, key string, c *Config) {
		*dst(c) = v.GetBool(key)
	}}
}

func durationBinding(key, flag string, dst func(c *Config) *time.Duration) binding {
	return binding{key: key, flag: flag, set: func(v *viper.Viper, key string, c *Config) {
		*dst(c) = v.GetDuration(key)
	}}
}

var bindings = []binding{
	stringBinding("audit.base_url", flags.FlagBaseURL, func(c *Config) *string { return &c.Audit.BaseURL }),
	stringBinding("audit.token", flags.FlagToken, func(c *Config) *string { return &c.Audit.Token }),
	durationBinding("audit.timeout", flags.FlagAuditTimeout, func(c *Config) *time.Duration { return &c.Audit.Timeout }),

	stringBinding("catalog.path", flags.FlagCatalog, func(c *Config) *string { return &c.Catalog.Path }),
	stringBinding("catalog.recipient", flags.FlagRecipient, func(c *Config) *string { return &c.Catalog.Recipient }),

	stringBinding("output.console_format", flags.FlagConsoleFormat, func(c *Config) *string { return &c.Output.ConsoleFormat }),
	stringBinding("output.report", flags.FlagReport, func(c *Config) *string { return &c.Output.Report }),
	stringBinding("output.out", flags.FlagOut, func(c *Config) *string { return &c.Output.Out }),
	stringBinding("output.out_format", flags.FlagOutFormat, func(c *Config) *string { return &c.Output.OutFormat }),
	{key: "output.emit", flag: flags.FlagEmit, set: func(v *viper.Viper, key string, c *Config) {
		c.Output.Emit = v.GetStringSlice(key)
	}},
	boolBinding("output.no_console", flags.FlagNoConsole, func(c *Config) *bool { return &c.Output.NoConsole }),
	boolBinding("output.no_color", flags.FlagNoColor, func(c *Config) *bool { return &c.Output.NoColor }),

	boolBinding("export.pdf", flags.FlagPDF, func(c *Config) *bool { return &c.Export.PDF }),
	stringBinding("export.dir", flags.FlagPDFDir, func(c *Config) *string { return &c.Export.Dir }),
	stringBinding("export.chrome_path", flags.FlagChromePath, func(c *Config) *string { return &c.Export.ChromePath }),

	stringBinding("archive.bucket", flags.FlagArchiveBucket, func(c *Config) *string { return &c.Archive.Bucket }),
	stringBinding("archive.prefix", flags.FlagArchivePrefix, func(c *Config) *string { return &c.Archive.Prefix }),
	stringBinding("archive.region", flags.FlagArchiveRegion, func(c *Config) *string { return &c.Archive.Region }),
	stringBinding("archive.endpoint", flags.FlagArchiveEndpoint, func(c *Config) *string { return &c.Archive.Endpoint }),
	stringBinding("archive.access_key_id", "", func(c *Config) *string { return &c.Archive.AccessKeyID }),
	stringBinding("archive.secret_access_key", "", func(c *Config) *string { return &c.Archive.SecretAccessKey }),

	stringBinding("server.addr", flags.FlagAddr, func(c *Config) *string { return &c.Server.Addr }),
	durationBinding("server.shutdown_timeout", flags.FlagShutdownTimeout, func(c *Config) *time.Duration { return &c.Server.ShutdownTimeout }),

	durationBinding("runtime.timeout", flags.FlagTimeout, func(c *Config) *time.Duration { return &c.Runtime.Timeout }),
	boolBinding("runtime.verbose", flags.FlagVerbose, func(c *Config) *bool { return &c.Runtime.Verbose }),
}

// Load overlays an optional config file and AEOCHECK_* environment variables
// onto c. Precedence (lowest to highest): defaults already in c, config file,
// environment, explicitly set CLI flags. changed reports whether a flag was
// set on the command line; nil means no flag was set.
func Load(c *Config, path string, changed func(flag string) bool) error {
	if c == nil {
		return errors.New("config is nil")
	}
	if changed == nil {
		changed = func(string) bool { return false }
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	for _, b := range bindings {
		if changed(b.flag) {
			continue
		}
		if !v.IsSet(b.key) {
			continue
		}
		b.set(v, b.key, c)
	}
	return nil
}

// LoadDotEnv loads KEY=value pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}
