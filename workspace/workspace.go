// Package workspace implements the incremental compilation pipeline (spec
// §4.7): loading a tree of source files, patching individual files without
// disturbing the rest, typechecking, and driving the codegen back-ends.
// Ported from the original compiler's workspace/workspace.rs.
package workspace

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/zwade/ruulang/ast"
	"github.com/zwade/ruulang/check"
	"github.com/zwade/ruulang/codegen/jsongen"
	"github.com/zwade/ruulang/codegen/pybind"
	"github.com/zwade/ruulang/config"
	"github.com/zwade/ruulang/parser"
	"github.com/zwade/ruulang/ruulangerrors"
)

// SourceExtension is the ruulang source file extension (spec §6).
const SourceExtension = ".ruulang"

// FileResult is one file's parse outcome: either a SourceFile, or the
// single error that prevented it from being parsed.
type FileResult struct {
	File *ast.SourceFile
	Err  error
}

// Workspace holds the full cross-file view backing the incremental
// pipeline: every loaded file's raw contents, its merged entity
// contributions, and its parse result.
type Workspace struct {
	Config     config.Config
	WorkingDir string

	mu sync.Mutex

	sourceFiles map[string]string
	entities    []ast.WithOrigin[ast.Parsed[ast.Entity]]
	files       []ast.WithOrigin[FileResult]

	sessionID uuid.UUID
	log       *logrus.Entry
}

// New returns an empty Workspace; call Reload to populate it from disk.
func New(cfg config.Config, workingDir string) *Workspace {
	sessionID := uuid.New()
	logger := logrus.StandardLogger()
	return &Workspace{
		Config:      cfg,
		WorkingDir:  workingDir,
		sourceFiles: make(map[string]string),
		sessionID:   sessionID,
		log:         logger.WithField("session", sessionID.String()),
	}
}

type readResult struct {
	path     string
	contents string
	ok       bool
}

// Reload walks the workspace root for every .ruulang file, reads and
// parses each one, and rebuilds the entity index and per-file results
// from scratch. Per-file reads run concurrently; parsing and the merge
// back into workspace state then run sequentially in sorted path order, so
// output never depends on completion order (spec §5).
func (w *Workspace) Reload(ctx context.Context) error {
	paths, err := w.gather()
	if err != nil {
		return &ruulangerrors.FileNotFound{Message: err.Error()}
	}
	sort.Strings(paths)

	results := make([]readResult, len(paths))
	g, _ := errgroup.WithContext(ctx)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			contents, err := os.ReadFile(p)
			if err != nil {
				return nil
			}
			results[i] = readResult{path: p, contents: string(contents), ok: true}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	sourceFiles := make(map[string]string, len(paths))
	var entities []ast.WithOrigin[ast.Parsed[ast.Entity]]
	var files []ast.WithOrigin[FileResult]

	for _, r := range results {
		if !r.ok {
			continue
		}
		sourceFiles[r.path] = r.contents

		stmts, err := parser.Parse([]byte(r.contents))
		if err != nil {
			files = append(files, ast.NewWithOrigin(FileResult{Err: err}, r.path))
			continue
		}
		schema, file := parser.Assemble(stmts)
		for _, e := range schema.Entities {
			entities = append(entities, ast.NewWithOrigin(e, r.path))
		}
		fileCopy := file
		files = append(files, ast.NewWithOrigin(FileResult{File: &fileCopy}, r.path))
	}

	w.mu.Lock()
	w.sourceFiles = sourceFiles
	w.entities = entities
	w.files = files
	w.mu.Unlock()

	w.log.WithField("files", len(files)).Info("reloaded workspace")
	return nil
}

func (w *Workspace) gather() ([]string, error) {
	root := w.Config.Workspace.Root
	if root == "" {
		root = w.WorkingDir
	}

	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) == SourceExtension {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PatchFile updates a single file's contents and reparses just that file,
// surgically replacing its contribution to the entity index and its
// parsed-file entry without disturbing any other file (spec §4.7, §8
// invariant 6).
func (w *Workspace) PatchFile(path, contents string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.sourceFiles[path] = contents

	filtered := make([]ast.WithOrigin[ast.Parsed[ast.Entity]], 0, len(w.entities))
	for _, e := range w.entities {
		if e.Origin != path {
			filtered = append(filtered, e)
		}
	}
	w.entities = filtered

	var result FileResult
	stmts, err := parser.Parse([]byte(contents))
	if err != nil {
		result = FileResult{Err: err}
	} else {
		schema, file := parser.Assemble(stmts)
		for _, e := range schema.Entities {
			w.entities = append(w.entities, ast.NewWithOrigin(e, path))
		}
		result = FileResult{File: &file}
	}

	for i, f := range w.files {
		if f.Origin == path {
			w.files[i] = ast.NewWithOrigin(result, path)
			return
		}
	}
	w.files = append(w.files, ast.NewWithOrigin(result, path))
}

func (w *Workspace) fragments() []ast.WithOrigin[ast.Parsed[ast.Fragment]] {
	var out []ast.WithOrigin[ast.Parsed[ast.Fragment]]
	for _, f := range w.files {
		if f.Data.File == nil {
			continue
		}
		for _, fr := range f.Data.File.Fragments {
			out = append(out, ast.NewWithOrigin(fr, f.Origin))
		}
	}
	return out
}

// TypecheckFile validates just the file at path, using a Typechecker built
// from the whole workspace's current entities and fragments (spec §4.7).
func (w *Workspace) TypecheckFile(path string) ruulangerrors.List {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, f := range w.files {
		if f.Origin != path {
			continue
		}
		if f.Data.Err != nil {
			if asErr, ok := f.Data.Err.(ruulangerrors.Error); ok {
				return ruulangerrors.List{asErr}
			}
			return ruulangerrors.List{&ruulangerrors.Other{Message: f.Data.Err.Error()}}
		}
		tc := check.NewTypechecker(w.entities, w.fragments())
		return tc.ValidateFile(f.Data.File)
	}

	return ruulangerrors.List{&ruulangerrors.FileNotFound{Message: "File not found: " + path}}
}

// Typecheck validates every loaded file and logs a per-file summary (spec
// §4.7, §7's "CLI prints Errors in file: <path>" behavior, ported here as
// structured logging rather than stdout prints per the ambient logging
// stack).
func (w *Workspace) Typecheck() {
	w.mu.Lock()
	defer w.mu.Unlock()

	tc := check.NewTypechecker(w.entities, w.fragments())
	totalErrors := 0

	for _, f := range w.files {
		if f.Data.Err != nil {
			totalErrors++
			w.log.WithField("file", f.Origin).WithError(f.Data.Err).Warn("error parsing file")
			continue
		}

		violations := tc.ValidateFile(f.Data.File)
		totalErrors += len(violations)
		if len(violations) > 0 {
			w.log.WithField("file", f.Origin).WithField("errors", len(violations)).Warn("errors in file")
		}
		for _, v := range violations {
			w.log.WithField("file", f.Origin).WithField("pos", v.Position().String()).Info(v.Error())
		}
	}

	w.log.WithField("total_errors", totalErrors).Info("finished typechecking")
}

// CompileAll runs every enabled codegen back-end over every successfully
// parsed file, skipping files whose parse failed (spec §4.7, §7). It keeps
// going after a failure and returns the last error encountered, matching
// the original's compile_all.
func (w *Workspace) CompileAll() error {
	w.mu.Lock()
	files := append([]ast.WithOrigin[FileResult]{}, w.files...)
	entities := append([]ast.WithOrigin[ast.Parsed[ast.Entity]]{}, w.entities...)
	root := w.Config.Workspace.Root
	jsonEnabled := w.Config.JSON.Enabled
	pythonEnabled := w.Config.Python.Enabled
	w.mu.Unlock()

	var lastErr error
	for _, f := range files {
		if f.Data.Err != nil || f.Data.File == nil {
			continue
		}
		if jsonEnabled {
			if err := compileOneJSON(f.Origin, f.Data.File); err != nil {
				lastErr = err
			}
		}
		if pythonEnabled {
			if err := compileOnePython(f.Origin, root, entities, f.Data.File); err != nil {
				lastErr = err
			}
		}
	}
	return lastErr
}

func withExtension(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

func compileOneJSON(origin string, file *ast.SourceFile) error {
	data, err := jsongen.Marshal(file)
	if err != nil {
		return err
	}
	return os.WriteFile(withExtension(origin, ".json"), data, 0o644)
}

func compileOnePython(origin, root string, entities []ast.WithOrigin[ast.Parsed[ast.Entity]], file *ast.SourceFile) error {
	gen := pybind.New(origin, root, entities, file)
	return os.WriteFile(withExtension(origin, ".py"), []byte(gen.Render()), 0o644)
}

// ResolveFile returns a loaded file's raw source, if any.
func (w *Workspace) ResolveFile(path string) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.sourceFiles[path]
	return s, ok
}

// ResolveSchema returns a loaded file's parse result, if any.
func (w *Workspace) ResolveSchema(path string) (ast.WithOrigin[FileResult], bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, f := range w.files {
		if f.Origin == path {
			return f, true
		}
	}
	return ast.WithOrigin[FileResult]{}, false
}

// ContainsFile reports whether path lies within the workspace root.
func (w *Workspace) ContainsFile(path string) bool {
	root := w.Config.Workspace.Root
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
