package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nonexistent.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DBPath != "" || cfg.DefaultFormat != "" || len(cfg.Gears) != 0 || cfg.MaxGears != 0 {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "config.toml")
	cfg := &Config{
		DBPath:        "/custom/gears.db",
		Gears:         []string{"1", "8", "24", "40"},
		MinGears:      2,
		MaxGears:      6,
		DefaultFormat: "json",
		LogLevel:      "debug",
	}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.DBPath != cfg.DBPath {
		t.Errorf("db_path: got %q, want %q", loaded.DBPath, cfg.DBPath)
	}
	if loaded.DefaultFormat != cfg.DefaultFormat {
		t.Errorf("default_format: got %q, want %q", loaded.DefaultFormat, cfg.DefaultFormat)
	}
	if loaded.MinGears != 2 || loaded.MaxGears != 6 {
		t.Errorf("gear range: got %d..%d, want 2..6", loaded.MinGears, loaded.MaxGears)
	}
	if loaded.LogLevel != "debug" {
		t.Errorf("log_level: got %q", loaded.LogLevel)
	}
	if !slices.Equal(loaded.Gears, cfg.Gears) {
		t.Errorf("gears: got %v, want %v", loaded.Gears, cfg.Gears)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "max_gears = 6") {
		t.Errorf("expected TOML output, got:\n%s", data)
	}
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"db_path":"/x.db","max_gears":4}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "/x.db" || cfg.MaxGears != 4 {
		t.Errorf("got %+v", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"bad.json": "{invalid",
		"bad.toml": "max_gears = = 4",
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadFrom(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestGetSet(t *testing.T) {
	cfg := &Config{}
	tests := []struct {
		key, value, want string
	}{
		{"db_path", "/tmp/g.db", "/tmp/g.db"},
		{"gears", "1,8,24.0", "1,8,24"},
		{"min_gears", "4", "4"},
		{"max_gears", "8", "8"},
		{"default_format", "json", "json"},
		{"store_mode", "remote", "remote"},
		{"remote_url", "http://localhost:7274", "http://localhost:7274"},
		{"output", "out.json", "out.json"},
		{"log_level", "debug", "debug"},
	}
	for _, tt := range tests {
		if err := cfg.Set(tt.key, tt.value); err != nil {
			t.Fatalf("Set(%q, %q): %v", tt.key, tt.value, err)
		}
		got, err := cfg.Get(tt.key)
		if err != nil {
			t.Fatalf("Get(%q): %v", tt.key, err)
		}
		if got != tt.want {
			t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestSetClears(t *testing.T) {
	cfg := &Config{Gears: []string{"8", "24"}, MaxGears: 6}
	if err := cfg.Set("gears", ""); err != nil {
		t.Fatal(err)
	}
	if err := cfg.Set("max_gears", ""); err != nil {
		t.Fatal(err)
	}
	if cfg.Gears != nil || cfg.MaxGears != 0 {
		t.Errorf("expected cleared config, got %+v", cfg)
	}
	if v, _ := cfg.Get("max_gears"); v != "" {
		t.Errorf("Get(max_gears) = %q, want empty", v)
	}
}

func TestSetInvalid(t *testing.T) {
	cfg := &Config{}
	tests := []struct {
		key, value string
	}{
		{"nope", "x"},
		{"gears", "8,eight"},
		{"gears", "1"},
		{"min_gears", "3"},
		{"max_gears", "0"},
		{"max_gears", "six"},
		{"default_format", "table"},
		{"store_mode", "cloud"},
		{"log_level", "loud"},
	}
	for _, tt := range tests {
		if err := cfg.Set(tt.key, tt.value); err == nil {
			t.Errorf("Set(%q, %q) should fail", tt.key, tt.value)
		}
	}
	if _, err := cfg.Get("nope"); err == nil {
		t.Error("Get(nope) should fail")
	}
}

func TestValidKeysSorted(t *testing.T) {
	keys := ValidKeys()
	if !slices.IsSorted(keys) {
		t.Errorf("ValidKeys not sorted: %v", keys)
	}
	if len(keys) != len(validKeys) {
		t.Errorf("ValidKeys has %d entries, validKeys map has %d", len(keys), len(validKeys))
	}
	for _, k := range keys {
		if !validKeys[k] {
			t.Errorf("%q missing from validKeys", k)
		}
	}
}
