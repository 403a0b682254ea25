package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiscoverFindsNearestConfig(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, FileName), []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	dir, found := Discover(sub)
	if !found {
		t.Fatal("expected to find a config")
	}
	if dir != root {
		t.Errorf("got %q, want %q", dir, root)
	}
}

func TestDiscoverReturnsFalseWhenAbsent(t *testing.T) {
	root := t.TempDir()
	_, found := Discover(root)
	if found {
		t.Fatal("expected no config to be found")
	}
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
	root := t.TempDir()
	cfg, err := Load(filepath.Join(root, FileName), root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.JSON.Enabled || cfg.Python.Enabled {
		t.Error("expected back-ends disabled by default")
	}
	if cfg.Workspace.Root != root {
		t.Errorf("got root %q, want %q", cfg.Workspace.Root, root)
	}
}

func TestLoadParsesTOML(t *testing.T) {
	root := t.TempDir()
	contents := `
[workspace]
root = "` + filepath.ToSlash(root) + `"

[json]
enabled = true

[python]
enabled = true
`
	path := filepath.Join(root, FileName)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.JSON.Enabled || !cfg.Python.Enabled {
		t.Error("expected both back-ends enabled")
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, FileName)
	if err := os.WriteFile(path, []byte("not valid toml [[["), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path, root); err == nil {
		t.Fatal("expected an error for malformed TOML")
	}
}
