// Command simpleormgen generates simpleorm model declarations from a
// yaml definition file.
//
//	simpleormgen -in models.yml -out models_gen.go
//	simpleormgen -in models.yml -out models_gen.go -watch
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/fsnotify/fsnotify"

	"github.com/m-housh/simpleorm/cmd/simpleormgen/internal/gen"
)

func main() {
	var (
		in    = flag.String("in", "models.yml", "Path to the yaml model definition file")
		out   = flag.String("out", "models_gen.go", "Output path for the generated Go file")
		watch = flag.Bool("watch", false, "Regenerate whenever the definition file changes")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := gen.Run(*in, *out); err != nil {
		logger.Error("generate failed", "in", *in, "err", err)
		os.Exit(1)
	}
	logger.Info("generated", "in", *in, "out", *out)

	if !*watch {
		return
	}
	if err := watchAndRun(logger, *in, *out); err != nil {
		logger.Error("watch failed", "err", err)
		os.Exit(1)
	}
}

// watchAndRun regenerates the output whenever the input file is
// rewritten. Editors often replace the file instead of writing in
// place, so Create events count too.
func watchAndRun(logger *slog.Logger, in, out string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(in); err != nil {
		return err
	}
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if err := gen.Run(in, out); err != nil {
				logger.Error("generate failed", "in", in, "err", err)
				continue
			}
			logger.Info("regenerated", "in", in, "out", out)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch error", "err", err)
		}
	}
}
