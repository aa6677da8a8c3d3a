package commands

import (
	"os"

	"git.home.luguber.info/inful/tocnav/internal/foundation/errors"
	"git.home.luguber.info/inful/tocnav/internal/logfields"
	"git.home.luguber.info/inful/tocnav/internal/pipeline"
)

// TOCCmd implements the 'toc' command.
type TOCCmd struct {
	File   string `arg:"" help:"Markdown document" type:"existingfile"`
	Format string `short:"f" help:"Output format (json|html)" enum:"json,html" default:"html"`
}

func (c *TOCCmd) Run(g *Global, _ *CLI) error {
	src, err := os.ReadFile(c.File)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to read document").
			WithContext("path", c.File).Build()
	}

	nav, err := pipeline.NewProcessor(g.Config, pipeline.WithLogger(g.Logger)).TOC(src)
	if err != nil {
		return err
	}
	if nav == nil {
		g.Logger.Warn("No table of contents for document", logfields.Document(c.File))
		return nil
	}
	return writeTree(g.Stdout, nav, c.Format)
}
