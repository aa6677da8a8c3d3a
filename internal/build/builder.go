package build

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/maruel/natural"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/tocnav/internal/foundation/errors"
	"git.home.luguber.info/inful/tocnav/internal/frontmatter"
	"git.home.luguber.info/inful/tocnav/internal/logfields"
	"git.home.luguber.info/inful/tocnav/internal/metrics"
	"git.home.luguber.info/inful/tocnav/internal/observability"
	"git.home.luguber.info/inful/tocnav/internal/pipeline"
)

// markdownExtensions lists the source extensions picked up by a build.
var markdownExtensions = []string{".md", ".mdx", ".markdown"}

// IsMarkdown reports whether path names a Markdown source.
func IsMarkdown(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range markdownExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Service runs builds with a shared processor. It remembers what each run
// wrote so repeated builds can skip unchanged input and remove
// pages whose source was deleted.
type Service struct {
	processor *pipeline.Processor
	recorder  metrics.Recorder
	logger    *slog.Logger

	mu   sync.Mutex
	seen map[string]written
}

// written remembers what the last successful write of a document produced.
type written struct {
	fingerprint string
	output      string
}

// NewService creates a build service.
func NewService(processor *pipeline.Processor, recorder metrics.Recorder, logger *slog.Logger) *Service {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		processor: processor,
		recorder:  recorder,
		logger:    logger,
		seen:      make(map[string]written),
	}
}

// Run executes a build. Per-document failures are collected in the result;
// the returned error is set for failures that stop the whole build.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	res := &Result{RunID: uuid.NewString(), StartTime: time.Now()}
	log := s.logger.With(logfields.RunID(res.RunID))
	finish := func(status Status) {
		res.Status = status
		res.Duration = time.Since(res.StartTime)
		s.recorder.ObserveBuildDuration(res.Duration)
		s.recorder.IncBuildOutcome(status == StatusSuccess)
	}

	if req.Clean {
		if err := checkClean(req.SourceDir, req.OutputDir); err != nil {
			finish(StatusFailed)
			return res, err
		}
	}

	sources, err := Discover(req.SourceDir)
	if err != nil {
		finish(StatusFailed)
		return res, err
	}
	res.Documents = len(sources)
	log.Info("Starting build",
		logfields.Path(req.SourceDir),
		logfields.Output(req.OutputDir),
		slog.Int("documents", len(sources)))

	if req.Clean {
		if err := os.RemoveAll(req.OutputDir); err != nil {
			finish(StatusFailed)
			return res, errors.WrapError(err, errors.CategoryFileSystem, "failed to clean output directory").
				WithContext("path", req.OutputDir).Build()
		}
		s.forgetAll()
	}

	var resMu sync.Mutex
	// Document-level logs pick the run ID up from the context.
	g, gctx := errgroup.WithContext(observability.WithRunID(ctx, res.RunID))
	if req.Concurrency > 1 {
		g.SetLimit(req.Concurrency)
	} else {
		g.SetLimit(1)
	}
	for _, rel := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, skipped, err := s.buildOne(gctx, req, rel)
			resMu.Lock()
			defer resMu.Unlock()
			switch {
			case err != nil:
				log.Error("Document failed", logfields.Document(rel), logfields.Error(err))
				res.Failed = append(res.Failed, DocumentError{Path: rel, Err: err})
			case skipped:
				res.Skipped++
			default:
				res.Written = append(res.Written, out)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		finish(StatusCancelled)
		return res, err
	}
	if err := ctx.Err(); err != nil {
		finish(StatusCancelled)
		return res, err
	}

	res.Removed = s.prune(log, sources)
	sort.Sort(natural.StringSlice(res.Written))
	sort.Slice(res.Failed, func(i, j int) bool { return res.Failed[i].Path < res.Failed[j].Path })

	switch {
	case len(res.Failed) == 0:
		finish(StatusSuccess)
	case len(res.Failed) < len(sources):
		finish(StatusPartial)
	default:
		finish(StatusFailed)
	}
	log.Info("Build finished",
		logfields.Result(string(res.Status)),
		slog.Int("written", len(res.Written)),
		slog.Int("skipped", res.Skipped),
		slog.Int("removed", len(res.Removed)),
		slog.Int("failed", len(res.Failed)),
		logfields.Duration(res.Duration))
	return res, nil
}

func (s *Service) buildOne(ctx context.Context, req Request, rel string) (string, bool, error) {
	src, err := os.ReadFile(filepath.Join(req.SourceDir, rel))
	if err != nil {
		return "", false, errors.WrapError(err, errors.CategoryFileSystem, "failed to read document").
			WithContext("document", rel).Build()
	}

	out := OutputPath(req.OutputDir, rel, req.Extension)
	if req.SkipUnchanged {
		if doc, perr := frontmatter.Parse(src); perr == nil && s.unchanged(rel, pipeline.Fingerprint(doc)) {
			if _, statErr := os.Stat(out); statErr == nil {
				s.recorder.IncDocumentResult(metrics.ResultSkipped)
				return out, true, nil
			}
		}
	}

	res, err := s.processor.Process(ctx, rel, src)
	if err != nil {
		return "", false, err
	}

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", false, errors.WrapError(err, errors.CategoryFileSystem, "failed to create output directory").
			WithContext("path", filepath.Dir(out)).Build()
	}
	if err := os.WriteFile(out, res.Page, 0o644); err != nil {
		return "", false, errors.WrapError(err, errors.CategoryFileSystem, "failed to write page").
			WithContext("path", out).Build()
	}
	s.remember(rel, written{fingerprint: res.Fingerprint, output: out})
	return out, false, nil
}

func (s *Service) unchanged(rel, fingerprint string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.seen[rel]
	return ok && prev.fingerprint == fingerprint
}

func (s *Service) remember(rel string, w written) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[rel] = w
}

func (s *Service) forgetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.seen)
}

// prune deletes pages written by earlier runs whose source is gone and
// returns their paths in natural order.
func (s *Service) prune(log *slog.Logger, sources []string) []string {
	current := make(map[string]struct{}, len(sources))
	for _, rel := range sources {
		current[rel] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var removed []string
	for rel, w := range s.seen {
		if _, ok := current[rel]; ok {
			continue
		}
		if err := os.Remove(w.output); err != nil && !os.IsNotExist(err) {
			log.Warn("Failed to remove stale page", logfields.Document(rel), logfields.Path(w.output), logfields.Error(err))
			continue
		}
		delete(s.seen, rel)
		removed = append(removed, w.output)
	}
	sort.Sort(natural.StringSlice(removed))
	return removed
}

// checkClean refuses to clean an output directory that is, or contains, the
// source directory.
func checkClean(sourceDir, outputDir string) error {
	src, err := filepath.Abs(sourceDir)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve source directory").
			WithContext("path", sourceDir).Build()
	}
	out, err := filepath.Abs(outputDir)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve output directory").
			WithContext("path", outputDir).Build()
	}
	rel, err := filepath.Rel(out, src)
	if err != nil {
		return nil
	}
	if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
		return errors.ValidationError("refusing to clean an output directory that contains the sources").
			WithContext("source", sourceDir).
			WithContext("output", outputDir).Build()
	}
	return nil
}

// Discover returns the Markdown sources under dir as slash-separated paths
// relative to dir in natural order ("ch2" before "ch10"). Hidden directories
// are skipped.
func Discover(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsMarkdown(path) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to scan source directory").
			WithContext("path", dir).Build()
	}
	sort.Sort(natural.StringSlice(out))
	return out, nil
}

// OutputPath maps a source path relative to the source root onto its page path.
func OutputPath(outputDir, rel, ext string) string {
	base := strings.TrimSuffix(rel, filepath.Ext(rel))
	return filepath.Join(outputDir, filepath.FromSlash(base)+ext)
}
