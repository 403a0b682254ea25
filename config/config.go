// Package config implements the workspace TOML config file (spec §6):
// upward directory-walk discovery from a requested path, and root
// canonicalization. Ported from the original compiler's config/config.rs,
// using BurntSushi/toml in place of serde+toml (spec's AMBIENT STACK /
// DOMAIN STACK decision, SPEC_FULL.md §5).
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/zwade/ruulang/ruulangerrors"
)

// FileName is the config filename discovery walks upward looking for.
const FileName = "ruulang.toml"

// Workspace holds the resolved workspace root.
type Workspace struct {
	Root string `toml:"root"`
}

// JSONCodegen toggles the JSON back-end.
type JSONCodegen struct {
	Enabled bool `toml:"enabled"`
}

// PythonCodegen toggles the typed-binding (Python) back-end.
type PythonCodegen struct {
	Enabled bool `toml:"enabled"`
}

// Config is the parsed workspace configuration.
type Config struct {
	Workspace Workspace     `toml:"workspace"`
	JSON      JSONCodegen   `toml:"json"`
	Python    PythonCodegen `toml:"python"`
}

// Discover walks upward from startDir looking for FileName, returning the
// directory it was found in, or "" if none was found before reaching the
// filesystem root (spec §6: "walk upward looking for the config filename;
// nearest match wins").
func Discover(startDir string) (dir string, found bool) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return dir, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Load reads and parses the config at file, or returns a zero-value
// Config if it does not exist. workingDir is the fallback workspace root
// when the config doesn't set one. The resulting root is always
// canonicalized (spec §6).
func Load(file, workingDir string) (Config, error) {
	var cfg Config

	if _, err := os.Stat(file); err != nil {
		if !os.IsNotExist(err) {
			return cfg, &ruulangerrors.FileNotFound{Message: err.Error()}
		}
	} else {
		if _, err := toml.DecodeFile(file, &cfg); err != nil {
			return cfg, &ruulangerrors.ConfigParseError{Detail: err.Error()}
		}
	}

	if cfg.Workspace.Root == "" {
		cfg.Workspace.Root = workingDir
	}

	canonical, err := filepath.Abs(cfg.Workspace.Root)
	if err != nil {
		return cfg, &ruulangerrors.Other{Message: err.Error()}
	}
	resolved, err := filepath.EvalSymlinks(canonical)
	if err == nil {
		canonical = resolved
	}
	cfg.Workspace.Root = canonical

	return cfg, nil
}

// LoadFromWorkingDir discovers and loads the nearest config starting from
// workingDir, defaulting workspace.root to workingDir when no config file
// is found anywhere above it.
func LoadFromWorkingDir(workingDir string) (Config, error) {
	dir, found := Discover(workingDir)
	if !found {
		return Load(filepath.Join(workingDir, FileName), workingDir)
	}
	return Load(filepath.Join(dir, FileName), workingDir)
}
