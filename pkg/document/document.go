// Package document loads json2ansi input files into the in-memory document
// model.
//
// Documents are authored as JSON extended with comments and trailing commas
// (JSONC), or as YAML. Both formats decode into the same generic tree, which
// is then checked and converted into types.Document with defaults applied:
//
//  1. Load or Parse: file bytes → generic tree
//  2. decode: generic tree → types.Document, reporting the path of the
//     first invalid fragment (e.g. "content[2].columns[0].size")
//
// Style references may be written as a bare style name, as a JSON pointer
// object {"$ref": "#/styles/name"}, as an inline style object, or as a list
// of any of these.
package document

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/json2ansi/pkg/errors"
	"github.com/arthur-debert/json2ansi/pkg/logging"
	"github.com/arthur-debert/json2ansi/pkg/types"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Format is the serialization of a document file.
type Format int

const (
	// FormatJSON covers plain JSON and JSONC.
	FormatJSON Format = iota
	// FormatYAML is YAML 1.2.
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// FormatFromPath picks the format from the file extension: .yaml and .yml
// are YAML, anything else is read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads and decodes the document at path.
func Load(path string) (*types.Document, error) {
	logger := logging.GetLogger("document")
	done := logging.LogOperationStart(logger, "load")
	defer done()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrDocumentRead, "cannot read %s", path).
			WithDetail("file", path)
	}

	format := FormatFromPath(path)
	logger.Debug().
		Str("file", path).
		Stringer("format", format).
		Int("bytes", len(data)).
		Msg("Read document")

	doc, err := Parse(data, format)
	if err != nil {
		if details := errors.GetErrorDetails(err); details != nil {
			details["file"] = path
		}
		return nil, err
	}
	return doc, nil
}

// Parse decodes data in the given format.
func Parse(data []byte, format Format) (*types.Document, error) {
	var (
		root interface{}
		err  error
	)
	switch format {
	case FormatYAML:
		root, err = parseYAML(data)
	default:
		root, err = parseJSON(data)
	}
	if err != nil {
		return nil, err
	}
	return decodeDocument(root)
}

func parseJSON(data []byte) (interface{}, error) {
	stripped := jsonc.ToJSON(data)

	dec := json.NewDecoder(bytes.NewReader(stripped))
	dec.UseNumber()

	var root interface{}
	if err := dec.Decode(&root); err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidDocument, "malformed JSON")
	}
	return root, nil
}

func parseYAML(data []byte) (interface{}, error) {
	var root interface{}
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidDocument, "malformed YAML")
	}
	return root, nil
}
