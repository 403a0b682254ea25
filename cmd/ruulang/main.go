// Command ruulang drives the workspace pipeline from the command line:
// load the nearest config, reload the source tree, typecheck, and
// optionally run the enabled codegen back-ends. It exists to exercise the
// core library manually; the editor protocol is a separate, unbuilt
// collaborator (spec §6).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/zwade/ruulang/config"
	"github.com/zwade/ruulang/workspace"
)

func main() {
	var (
		dir     = flag.String("dir", ".", "workspace directory to load")
		compile = flag.Bool("compile", false, "run enabled codegen back-ends after typechecking")
		verbose = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if err := run(*dir, *compile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(dir string, compile bool) error {
	cfg, err := config.LoadFromWorkingDir(dir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ws := workspace.New(cfg, dir)
	if err := ws.Reload(context.Background()); err != nil {
		return fmt.Errorf("reloading workspace: %w", err)
	}

	ws.Typecheck()

	if compile {
		if err := ws.CompileAll(); err != nil {
			return fmt.Errorf("compiling: %w", err)
		}
	}

	return nil
}
