// Package pipeline turns one Markdown document into an HTML page with its
// table of contents inserted.
package pipeline

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/tocnav/internal/config"
	"git.home.luguber.info/inful/tocnav/internal/foundation/errors"
	"git.home.luguber.info/inful/tocnav/internal/frontmatter"
	"git.home.luguber.info/inful/tocnav/internal/logfields"
	"git.home.luguber.info/inful/tocnav/internal/markdown"
	"git.home.luguber.info/inful/tocnav/internal/metrics"
	"git.home.luguber.info/inful/tocnav/internal/observability"
	"git.home.luguber.info/inful/tocnav/internal/toc"
	"git.home.luguber.info/inful/tocnav/internal/tree"
)

// Result is the outcome of processing one document.
type Result struct {
	Name     string
	Title    string
	Headings []markdown.Heading
	// TOC is the transformed table of contents; nil when the page opted out
	// or has no heading within the configured levels.
	TOC  *tree.Node
	Page []byte
	// Fingerprint identifies the source content (frontmatter and body).
	Fingerprint string
}

// TOCEntries returns the number of list items in the TOC.
func (r *Result) TOCEntries() int {
	return tree.Count(r.TOC, tree.KindListItem)
}

// Processor runs the per-document pipeline. It holds no per-document state and
// may be shared between goroutines.
type Processor struct {
	mdOpts      markdown.Options
	buildOpts   toc.BuildOptions
	transformer *toc.Transformer
	recorder    metrics.Recorder
	logger      *slog.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Processor) {
		if r != nil {
			p.recorder = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewProcessor creates a processor configured from cfg.
func NewProcessor(cfg *config.Config, opts ...Option) *Processor {
	p := &Processor{
		mdOpts:      MarkdownOptions(cfg.Markdown),
		buildOpts:   BuildOptions(cfg.TOC),
		transformer: toc.NewTransformer(TransformOptions(cfg.TOC)),
		recorder:    metrics.NoopRecorder{},
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// MarkdownOptions maps the markdown config section.
func MarkdownOptions(c config.MarkdownConfig) markdown.Options {
	return markdown.Options{GFM: c.GFM, Unsafe: c.Unsafe, SlugIDs: c.SlugIDs}
}

// BuildOptions maps the toc config section onto list building options.
func BuildOptions(c config.TOCConfig) toc.BuildOptions {
	return toc.BuildOptions{
		Levels: c.Levels,
		Nav:    c.Nav,
		CSSClasses: toc.CSSClasses{
			TOC:      c.CSSClasses.TOC,
			List:     c.CSSClasses.List,
			ListItem: c.CSSClasses.ListItem,
			Link:     c.CSSClasses.Link,
		},
	}
}

// TransformOptions maps the toc config section onto container options.
func TransformOptions(c config.TOCConfig) toc.Options {
	return toc.Options{
		ContainerClasses: c.ContainerClasses,
		HeaderClasses:    c.HeaderClasses,
		HeaderText:       c.HeaderText,
	}
}

// TOC returns the transformed table of contents of a Markdown source, or nil
// when it has no qualifying headings or its frontmatter sets toc: false.
func (p *Processor) TOC(src []byte) (*tree.Node, error) {
	doc, err := frontmatter.Parse(src)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryParse, "invalid frontmatter").Build()
	}
	if !doc.Meta.TOCEnabled() {
		return nil, nil
	}
	return p.buildTOC(markdown.ExtractHeadings(doc.Body, p.mdOpts)), nil
}

func (p *Processor) buildTOC(headings []markdown.Heading) *tree.Node {
	list := toc.Build(headings, p.buildOpts)
	if list == nil {
		return nil
	}
	return p.transformer.Transform(list)
}

// Process renders the document name with source src into a full HTML page.
func (p *Processor) Process(ctx context.Context, name string, src []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	res, err := p.process(name, src)
	p.recorder.ObserveDocumentDuration(time.Since(start))
	if err != nil {
		p.recorder.IncDocumentResult(metrics.ResultFailed)
		return nil, err
	}
	p.recorder.IncDocumentResult(metrics.ResultSuccess)
	p.recorder.ObserveTOCEntries(res.TOCEntries())

	p.logger.DebugContext(observability.WithDocument(ctx, name), "Processed document",
		logfields.Headings(len(res.Headings)),
		logfields.TOCEntries(res.TOCEntries()),
		logfields.Duration(time.Since(start)))
	return res, nil
}

func (p *Processor) process(name string, src []byte) (*Result, error) {
	doc, err := frontmatter.Parse(src)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryParse, "invalid frontmatter").
			WithContext("document", name).Build()
	}

	md := markdown.Parse(doc.Body, p.mdOpts)
	res := &Result{
		Name:        name,
		Title:       doc.Meta.Title,
		Headings:    md.Headings(),
		Fingerprint: Fingerprint(doc),
	}
	if res.Title == "" && len(res.Headings) > 0 {
		res.Title = res.Headings[0].Text
	}
	if doc.Meta.TOCEnabled() {
		res.TOC = p.buildTOC(res.Headings)
	}

	body, err := md.RenderString()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "failed to render markdown").
			WithContext("document", name).Build()
	}
	page, err := AssemblePage(res.Title, body, res.TOC)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "failed to assemble page").
			WithContext("document", name).Build()
	}
	res.Page = page
	return res, nil
}

// Fingerprint returns the content fingerprint of a split document.
func Fingerprint(doc *frontmatter.Document) string {
	return mdfp.CalculateFingerprintFromParts(string(bytes.TrimRight(doc.Raw, "\r\n")), string(doc.Body))
}
