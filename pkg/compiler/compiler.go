// Package compiler turns a parsed document into styled terminal lines.
//
// Compile is the single entry point: it resolves the document's named
// styles, walks the scaffold tree at the requested width and returns every
// line at once. It never writes anything; an error means no output at all.
package compiler

import (
	"github.com/arthur-debert/json2ansi/pkg/errors"
	"github.com/arthur-debert/json2ansi/pkg/layout"
	"github.com/arthur-debert/json2ansi/pkg/logging"
	"github.com/arthur-debert/json2ansi/pkg/style"
	"github.com/arthur-debert/json2ansi/pkg/types"
)

// Compile lays out doc for a terminal width cells wide.
func Compile(doc *types.Document, width int) ([]types.Line, error) {
	return CompileWith(layout.Default, doc, width)
}

// CompileWith is Compile with an explicit layout engine.
func CompileWith(engine layout.Engine, doc *types.Document, width int) ([]types.Line, error) {
	logger := logging.GetLogger("compiler")
	done := logging.LogOperationStart(logger, "compile")
	defer done()

	if doc == nil {
		return nil, errors.New(errors.ErrInvalidDocument, "missing document")
	}
	if width < 1 {
		return nil, errors.Newf(errors.ErrInvalidInput, "width must be at least 1, got %d", width).
			WithDetail(errors.DetailWidth, width)
	}

	reg, err := style.NewRegistry(doc.Styles)
	if err != nil {
		return nil, errors.WithinPath(err, "styles")
	}
	logger.Trace().Strs("styles", reg.Names()).Msg("Resolved named styles")

	lines, err := engine.Walk(doc.Content, width, reg)
	if err != nil {
		logger.Debug().Err(err).Msg("Layout failed")
		return nil, err
	}

	logger.Debug().
		Int("width", width).
		Int("lines", len(lines)).
		Msg("Document compiled")
	return lines, nil
}
