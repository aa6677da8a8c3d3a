package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/tocnav/internal/build"
	ferrors "git.home.luguber.info/inful/tocnav/internal/foundation/errors"
	"git.home.luguber.info/inful/tocnav/internal/logfields"
	"git.home.luguber.info/inful/tocnav/internal/metrics"
	"git.home.luguber.info/inful/tocnav/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Src         string        `short:"s" help:"Directory containing Markdown sources" default:"./docs" type:"existingdir"`
	Output      string        `short:"o" help:"Output directory (defaults to output.directory)"`
	Concurrency int           `short:"j" help:"Documents processed in parallel" default:"4"`
	Debounce    time.Duration `help:"Quiet period before a rebuild (defaults to watch.debounce)"`
	MetricsAddr string        `name:"metrics-addr" help:"Serve Prometheus metrics on this address (defaults to watch.metrics_addr)"`
}

func (w *WatchCmd) Run(g *Global, _ *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return w.run(ctx, g)
}

func (w *WatchCmd) run(ctx context.Context, g *Global) error {
	var recorder metrics.Recorder = metrics.NoopRecorder{}
	addr := w.MetricsAddr
	if addr == "" {
		addr = g.Config.Watch.MetricsAddr
	}
	if addr != "" {
		reg := prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
		srv := &http.Server{Addr: addr, Handler: metricsMux(reg), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			g.Logger.Info("Serving metrics", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				g.Logger.Error("Metrics server failed", logfields.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = g.Config.Watch.DebounceDuration()
	}

	req := buildRequest(g.Config, w.Src, w.Output, w.Concurrency)
	req.SkipUnchanged = true

	watcher, err := watch.New(newService(g, recorder), req, debounce)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to start watcher").
			WithContext("path", w.Src).Build()
	}
	watcher.OnBuild = func(res *build.Result, err error) {
		if err != nil || res == nil {
			return
		}
		_ = reportBuild(g, res)
	}
	return watcher.Run(ctx)
}

func metricsMux(reg *prom.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(reg))
	return mux
}
