package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"git.home.luguber.info/inful/tocnav/internal/foundation/errors"
	"git.home.luguber.info/inful/tocnav/internal/tree"
)

const (
	formatJSON = "json"
	formatHTML = "html"
)

// writeTree writes n to w as indented hast JSON or as HTML.
func writeTree(w io.Writer, n *tree.Node, format string) error {
	switch format {
	case formatHTML:
		out, err := tree.RenderString(n)
		if err != nil {
			return errors.WrapError(err, errors.CategoryRender, "failed to render HTML").Build()
		}
		_, err = fmt.Fprintln(w, out)
		return err
	default:
		data, err := json.MarshalIndent(n, "", "  ")
		if err != nil {
			return errors.WrapError(err, errors.CategoryRender, "failed to encode tree").Build()
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
}
