package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/zwade/ruulang/config"
)

func newTestWorkspace(t *testing.T, root string) *Workspace {
	t.Helper()
	cfg := config.Config{Workspace: config.Workspace{Root: root}}
	return New(cfg, root)
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestReloadGathersAndParsesSourceFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.ruulang"), `
entity Organization {
    read.self;
}
`)
	writeFile(t, filepath.Join(root, "nested", "b.ruulang"), `
entity User {
    read.self;
}
`)
	writeFile(t, filepath.Join(root, "ignore.txt"), "not ruulang")

	w := newTestWorkspace(t, root)
	if err := w.Reload(context.Background()); err != nil {
		t.Fatalf("reload error: %v", err)
	}

	if len(w.files) != 2 {
		t.Fatalf("expected 2 parsed files, got %d", len(w.files))
	}
	if len(w.entities) != 2 {
		t.Fatalf("expected 2 entities across files, got %d", len(w.entities))
	}
	if _, ok := w.ResolveFile(filepath.Join(root, "a.ruulang")); !ok {
		t.Error("expected a.ruulang source to be resolvable")
	}
}

func TestReloadRecordsParseErrorsWithoutFailingOtherFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "good.ruulang"), `
entity Organization {
    read.self;
}
`)
	writeFile(t, filepath.Join(root, "bad.ruulang"), `entity {{{ not valid`)

	w := newTestWorkspace(t, root)
	if err := w.Reload(context.Background()); err != nil {
		t.Fatalf("reload error: %v", err)
	}

	badResult, ok := w.ResolveSchema(filepath.Join(root, "bad.ruulang"))
	if !ok {
		t.Fatal("expected bad.ruulang to have a recorded result")
	}
	if badResult.Data.Err == nil {
		t.Error("expected bad.ruulang to carry a parse error")
	}

	goodResult, ok := w.ResolveSchema(filepath.Join(root, "good.ruulang"))
	if !ok || goodResult.Data.Err != nil {
		t.Error("expected good.ruulang to parse successfully despite bad.ruulang failing")
	}
}

func TestPatchFileReplacesOnlyThatFilesContribution(t *testing.T) {
	root := t.TempDir()
	pathA := filepath.Join(root, "a.ruulang")
	pathB := filepath.Join(root, "b.ruulang")
	writeFile(t, pathA, `
entity Organization {
    read.self;
}
`)
	writeFile(t, pathB, `
entity User {
    read.self;
}
`)

	w := newTestWorkspace(t, root)
	if err := w.Reload(context.Background()); err != nil {
		t.Fatalf("reload error: %v", err)
	}

	w.PatchFile(pathA, `
entity Organization {
    read.self;
    write.self;
}
entity Team {
    read.self;
}
`)

	var orgCount, teamCount, userCount int
	for _, e := range w.entities {
		switch e.Data.Data.Name.Value {
		case "Organization":
			orgCount++
		case "Team":
			teamCount++
		case "User":
			userCount++
		}
		if e.Data.Data.Name.Value != "User" && e.Origin != pathA {
			t.Errorf("unexpected origin %q for entity %q", e.Origin, e.Data.Data.Name.Value)
		}
	}
	if orgCount != 1 || teamCount != 1 || userCount != 1 {
		t.Errorf("expected 1 of each entity, got org=%d team=%d user=%d", orgCount, teamCount, userCount)
	}
}

func TestPatchFileWithInvalidSourceRecordsErrorWithoutDroppingOtherFiles(t *testing.T) {
	root := t.TempDir()
	pathA := filepath.Join(root, "a.ruulang")
	writeFile(t, pathA, `
entity Organization {
    read.self;
}
`)

	w := newTestWorkspace(t, root)
	if err := w.Reload(context.Background()); err != nil {
		t.Fatalf("reload error: %v", err)
	}

	w.PatchFile(pathA, `entity {{{`)

	result, ok := w.ResolveSchema(pathA)
	if !ok {
		t.Fatal("expected a result for the patched file")
	}
	if result.Data.Err == nil {
		t.Error("expected a parse error after patching with invalid source")
	}
	for _, e := range w.entities {
		if e.Origin == pathA {
			t.Error("expected the invalid patch to clear prior entities for that origin")
		}
	}
}

func TestTypecheckFileReportsUnknownRelationship(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "a.ruulang")
	writeFile(t, path, `
entity Organization {
    read.self;
}
entity User {
    org: Organization {}
}
@User {
    nonexistent {
        read.self;
    }
}
`)

	w := newTestWorkspace(t, root)
	if err := w.Reload(context.Background()); err != nil {
		t.Fatalf("reload error: %v", err)
	}

	violations := w.TypecheckFile(path)
	if violations.Len() == 0 {
		t.Fatal("expected at least one violation for an unknown relationship")
	}
}

func TestTypecheckFileUnknownPathReturnsFileNotFound(t *testing.T) {
	root := t.TempDir()
	w := newTestWorkspace(t, root)
	if err := w.Reload(context.Background()); err != nil {
		t.Fatalf("reload error: %v", err)
	}

	violations := w.TypecheckFile(filepath.Join(root, "missing.ruulang"))
	if violations.Len() != 1 {
		t.Fatalf("expected exactly one FileNotFound violation, got %d", violations.Len())
	}
}

func TestCompileAllWritesSiblingJSONAndPython(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "a.ruulang")
	writeFile(t, path, `
entity Organization {
    read.self;
}
`)

	cfg := config.Config{
		Workspace: config.Workspace{Root: root},
		JSON:      config.JSONCodegen{Enabled: true},
		Python:    config.PythonCodegen{Enabled: true},
	}
	w := New(cfg, root)
	if err := w.Reload(context.Background()); err != nil {
		t.Fatalf("reload error: %v", err)
	}

	if err := w.CompileAll(); err != nil {
		t.Fatalf("compile error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "a.json")); err != nil {
		t.Errorf("expected a.json to be written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "a.py")); err != nil {
		t.Errorf("expected a.py to be written: %v", err)
	}
}

func TestCompileAllSkipsFilesThatFailedToParse(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "bad.ruulang")
	writeFile(t, path, `entity {{{`)

	cfg := config.Config{
		Workspace: config.Workspace{Root: root},
		JSON:      config.JSONCodegen{Enabled: true},
	}
	w := New(cfg, root)
	if err := w.Reload(context.Background()); err != nil {
		t.Fatalf("reload error: %v", err)
	}
	if err := w.CompileAll(); err != nil {
		t.Fatalf("compile error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "bad.json")); err == nil {
		t.Error("expected no JSON output for a file that failed to parse")
	}
}

func TestContainsFile(t *testing.T) {
	root := t.TempDir()
	w := newTestWorkspace(t, root)

	if !w.ContainsFile(filepath.Join(root, "a.ruulang")) {
		t.Error("expected a file under root to be contained")
	}
	if w.ContainsFile(filepath.Join(filepath.Dir(root), "outside.ruulang")) {
		t.Error("expected a file outside root to not be contained")
	}
}
