// cmd/scaffold writes the dashboard source files for one entity config.
//
// Usage:
//
//	scaffold -config posts.json [-out DIR] [-kinds model,form] [-dry-run]
//	scaffold -list-kinds
//
// The config is JSON, or CUE when the file ends in .cue. Files are written
// below -out using the paths of the naming convention's folder layout.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/matthewbaird/admingen/internal/artifact"
	"github.com/matthewbaird/admingen/internal/config"
	"github.com/matthewbaird/admingen/internal/event"
	"github.com/matthewbaird/admingen/internal/eventbus"
	"github.com/matthewbaird/admingen/internal/generate"
	"github.com/matthewbaird/admingen/internal/logger"
	"github.com/matthewbaird/admingen/internal/output"
)

var errUsage = errors.New("usage")

func main() {
	os.Exit(start(os.Args[1:], os.Stdout, os.Stderr))
}

// start returns the exit code instead of exiting so deferred calls, the
// logger flush among them, run first.
func start(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "scaffold: %v\n", err)
		return 1
	}
	if err := logger.Init(cfg.LogLevel, cfg.Env); err != nil {
		fmt.Fprintf(stderr, "scaffold: init logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	if err := run(ctx, cfg, args, stdout); err != nil {
		if errors.Is(err, errUsage) {
			return 2
		}
		logger.Get().Errorw("generation failed", "error", err)
		return 1
	}
	return 0
}

type options struct {
	configPath string
	outDir     string
	kinds      string
	dryRun     bool
	listKinds  bool
}

func parseFlags(args []string, defaultOut string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("scaffold", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "Entity config file (.json or .cue)")
	fs.StringVar(&o.outDir, "out", defaultOut, "Project root the artifacts are written below")
	fs.StringVar(&o.kinds, "kinds", "", "Comma-separated artifact kinds (default: all)")
	fs.BoolVar(&o.dryRun, "dry-run", false, "Show what would be written without creating files")
	fs.BoolVar(&o.listKinds, "list-kinds", false, "List artifact kinds and exit")
	if err := fs.Parse(args); err != nil {
		return o, errUsage
	}
	if !o.listKinds && o.configPath == "" {
		fmt.Fprintln(stderr, "Error: -config flag is required")
		fs.Usage()
		return o, errUsage
	}
	return o, nil
}

func run(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	o, err := parseFlags(args, cfg.OutDir, os.Stderr)
	if err != nil {
		return err
	}
	if o.listKinds {
		for _, k := range artifact.Kinds() {
			fmt.Fprintf(stdout, "%-12s all/%s\n", k, k.RelPath())
		}
		return nil
	}

	kinds, err := artifact.ParseKinds(o.kinds)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(o.configPath)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	bus := eventbus.New(4)
	bus.Subscribe("log", eventbus.NewLogConsumer())
	bus.Start(ctx)
	defer bus.Stop()

	svc := generate.New(artifact.Default(), generate.WithPublisher(bus))
	res, err := svc.Generate(ctx, generate.Request{
		Config: data,
		Name:   o.configPath,
		Kinds:  kinds,
		Source: event.SourceCLI,
	})
	if err != nil {
		return err
	}

	verb := "wrote"
	if o.dryRun {
		verb = "would write"
	}
	log := logger.Get()
	w := output.Writer{
		Root:   o.outDir,
		DryRun: o.dryRun,
		OnWrite: func(path string, size int) {
			log.Infow(verb, "path", path, "bytes", size)
		},
	}
	stats, err := w.Write(res.Files)
	if err != nil {
		return err
	}
	if o.dryRun {
		for _, f := range res.Files {
			fmt.Fprintln(stdout, f.Path)
		}
	}
	fmt.Fprintf(stdout, "%s %s for %s\n", verb, stats, res.Config.Naming.SingularPascal)
	return nil
}
