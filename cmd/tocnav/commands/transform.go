package commands

import (
	"encoding/json"
	"io"
	"os"

	"git.home.luguber.info/inful/tocnav/internal/foundation/errors"
	"git.home.luguber.info/inful/tocnav/internal/logfields"
	"git.home.luguber.info/inful/tocnav/internal/pipeline"
	"git.home.luguber.info/inful/tocnav/internal/toc"
	"git.home.luguber.info/inful/tocnav/internal/tree"
)

// TransformCmd implements the 'transform' command.
type TransformCmd struct {
	In     string `short:"i" help:"Read the tree from this file instead of stdin" type:"existingfile"`
	Format string `short:"f" help:"Output format (json|html)" enum:"json,html" default:"json"`
}

func (t *TransformCmd) Run(g *Global, _ *CLI) error {
	var src io.Reader = g.Stdin
	if t.In != "" {
		f, err := os.Open(t.In)
		if err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to open input").
				WithContext("path", t.In).Build()
		}
		defer func() { _ = f.Close() }()
		src = f
	}

	var root *tree.Node
	if err := json.NewDecoder(src).Decode(&root); err != nil {
		return errors.WrapError(err, errors.CategoryParse, "failed to decode hast JSON").Build()
	}

	nav := toc.NewTransformer(pipeline.TransformOptions(g.Config.TOC)).Transform(root)
	g.Logger.Debug("Transformed tree", logfields.TOCEntries(tree.Count(nav, tree.KindListItem)))
	return writeTree(g.Stdout, nav, t.Format)
}
