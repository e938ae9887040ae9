package ugcconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tangzhangming/ugc/ugcconfig"
)

func TestDefaultValues(t *testing.T) {
	c := ugcconfig.Default()
	if c.Collector.DebugAssertions {
		t.Errorf("expected debug_assertions false by default")
	}
	if c.Collector.LogLevel != "warn" {
		t.Errorf("expected log_level \"warn\" by default, got %q", c.Collector.LogLevel)
	}
	if c.Introspection.Enabled {
		t.Errorf("expected introspection disabled by default")
	}
}

func TestLoadParsesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ugc.toml")
	content := "[collector]\ndebug_assertions = true\nlog_level = \"debug\"\n\n[introspection]\nenabled = true\nlisten = \"0.0.0.0:9000\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := ugcconfig.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Collector.DebugAssertions {
		t.Errorf("expected debug_assertions true")
	}
	if cfg.Collector.LogLevel != "debug" {
		t.Errorf("expected log_level \"debug\", got %q", cfg.Collector.LogLevel)
	}
	if !cfg.Introspection.Enabled || cfg.Introspection.Listen != "0.0.0.0:9000" {
		t.Errorf("unexpected introspection config: %+v", cfg.Introspection)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := ugcconfig.Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected an error loading a missing file")
	}
}

func TestSaveRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ugc.toml")

	c := ugcconfig.Default()
	c.Collector.DebugAssertions = true
	if err := c.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := ugcconfig.Load(path)
	if err != nil {
		t.Fatalf("Load after Save: %v", err)
	}
	if !loaded.Collector.DebugAssertions {
		t.Errorf("expected saved debug_assertions to round-trip as true")
	}
}

func TestFindConfigFileWalksUpward(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ugcconfig.DefaultConfigFileName), []byte("[collector]\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	found := ugcconfig.FindConfigFile(nested)
	want := filepath.Join(root, ugcconfig.DefaultConfigFileName)
	if found != want {
		t.Errorf("FindConfigFile: got %q, want %q", found, want)
	}
}

func TestFindConfigFileNotFound(t *testing.T) {
	if got := ugcconfig.FindConfigFile(t.TempDir()); got != "" {
		t.Errorf("expected empty result, got %q", got)
	}
}
