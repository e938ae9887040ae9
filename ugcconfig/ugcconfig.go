// Package ugcconfig loads collector and introspection tuning from a TOML
// file, the same shape internal/pkg/config.go uses for sola.toml.
package ugcconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// DefaultConfigFileName is the file FindConfigFile looks for.
const DefaultConfigFileName = "ugc.toml"

// CollectorConfig tunes the embedded collector.
type CollectorConfig struct {
	// DebugAssertions enables gc.EnableAssertions at startup.
	DebugAssertions bool `toml:"debug_assertions"`
	// LogLevel selects ugclog's verbosity: "debug" or "warn".
	LogLevel string `toml:"log_level"`
}

// IntrospectionConfig controls the optional ugcrpc endpoint.
type IntrospectionConfig struct {
	Enabled bool   `toml:"enabled"`
	Listen  string `toml:"listen"`
}

// Config is the full ugc.toml schema.
type Config struct {
	Collector     CollectorConfig     `toml:"collector"`
	Introspection IntrospectionConfig `toml:"introspection"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Collector: CollectorConfig{
			DebugAssertions: false,
			LogLevel:        "warn",
		},
		Introspection: IntrospectionConfig{
			Enabled: false,
			Listen:  "127.0.0.1:4747",
		},
	}
}

// Load reads and parses path, applying Default's values for any field the
// file leaves unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Save writes c to path as a small, commented TOML file.
func (c *Config) Save(path string) error {
	content := generateConfigWithComments(c)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func generateConfigWithComments(c *Config) string {
	var sb strings.Builder

	sb.WriteString("[collector]\n")
	sb.WriteString("# enable debug-mode contract assertions (double register, visit outside scan, ...)\n")
	sb.WriteString(fmt.Sprintf("debug_assertions = %v\n\n", c.Collector.DebugAssertions))
	sb.WriteString("# \"debug\" or \"warn\"\n")
	sb.WriteString(fmt.Sprintf("log_level = %q\n\n", c.Collector.LogLevel))

	sb.WriteString("[introspection]\n")
	sb.WriteString("# expose collector stats over JSON-RPC2\n")
	sb.WriteString(fmt.Sprintf("enabled = %v\n", c.Introspection.Enabled))
	sb.WriteString(fmt.Sprintf("listen = %q\n", c.Introspection.Listen))

	return sb.String()
}

// FindConfigFile searches startPath and its ancestors for
// DefaultConfigFileName, returning the full path or "" if none is found.
func FindConfigFile(startPath string) string {
	info, err := os.Stat(startPath)
	if err != nil {
		return ""
	}

	dir := startPath
	if !info.IsDir() {
		dir = filepath.Dir(startPath)
	}

	dir, err = filepath.Abs(dir)
	if err != nil {
		return ""
	}

	for {
		candidate := filepath.Join(dir, DefaultConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
