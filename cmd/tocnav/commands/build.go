package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/tocnav/internal/build"
	"git.home.luguber.info/inful/tocnav/internal/config"
	"git.home.luguber.info/inful/tocnav/internal/foundation/errors"
	"git.home.luguber.info/inful/tocnav/internal/metrics"
	"git.home.luguber.info/inful/tocnav/internal/pipeline"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Src         string `short:"s" help:"Directory containing Markdown sources" default:"./docs" type:"existingdir"`
	Output      string `short:"o" help:"Output directory (defaults to output.directory)"`
	Clean       bool   `help:"Remove the output directory first"`
	Concurrency int    `short:"j" help:"Documents processed in parallel" default:"4"`
}

func (b *BuildCmd) Run(g *Global, _ *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	req := buildRequest(g.Config, b.Src, b.Output, b.Concurrency)
	req.Clean = req.Clean || b.Clean

	svc := newService(g, metrics.NoopRecorder{})
	res, err := svc.Run(ctx, req)
	if err != nil {
		return err
	}
	return reportBuild(g, res)
}

func buildRequest(cfg *config.Config, src, out string, concurrency int) build.Request {
	return build.Request{
		SourceDir:   src,
		OutputDir:   resolveOutputDir(out, cfg),
		Extension:   cfg.Output.Extension,
		Clean:       cfg.Output.Clean,
		Concurrency: concurrency,
	}
}

func newService(g *Global, recorder metrics.Recorder) *build.Service {
	proc := pipeline.NewProcessor(g.Config, pipeline.WithRecorder(recorder), pipeline.WithLogger(g.Logger))
	return build.NewService(proc, recorder, g.Logger)
}

// reportBuild prints a summary and converts failed documents into an error.
// Per-document failures are already logged by the build service.
func reportBuild(g *Global, res *build.Result) error {
	_, _ = fmt.Fprintf(g.Stdout, "Built %d of %d documents (%d unchanged, %d failed) in %s\n",
		len(res.Written), res.Documents, res.Skipped, len(res.Failed), res.Duration.Round(time.Millisecond))
	if len(res.Removed) > 0 {
		_, _ = fmt.Fprintf(g.Stdout, "Removed %d stale pages\n", len(res.Removed))
	}
	if res.Status.IsSuccess() {
		return nil
	}
	return errors.WrapError(res.Err(), errors.CategoryBuild, fmt.Sprintf("build finished with status %s", res.Status)).
		WithContext("run_id", res.RunID).
		WithContext("failed", len(res.Failed)).
		Build()
}
