package document

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/arthur-debert/json2ansi/pkg/errors"
	"github.com/arthur-debert/json2ansi/pkg/types"
)

// stylePointerPrefix is the only JSON pointer target a $ref may name.
const stylePointerPrefix = "#/styles/"

var pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")

func field(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func index(parent string, i int) string {
	return fmt.Sprintf("%s[%d]", parent, i)
}

func invalid(path, format string, args ...interface{}) *errors.Error {
	return errors.Newf(errors.ErrInvalidDocument, format, args...).
		WithDetail(errors.DetailPath, path)
}

func badText(path, format string, args ...interface{}) *errors.Error {
	return errors.Newf(errors.ErrUnknownTextNode, format, args...).
		WithDetail(errors.DetailPath, path)
}

func object(v interface{}, path string) (map[string]interface{}, error) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, invalid(path, "expected an object, got %s", kind(v))
	}
	return m, nil
}

func array(v interface{}, path string) ([]interface{}, error) {
	a, ok := v.([]interface{})
	if !ok {
		return nil, invalid(path, "expected an array, got %s", kind(v))
	}
	return a, nil
}

func str(v interface{}, path string) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", invalid(path, "expected a string, got %s", kind(v))
	}
	return s, nil
}

func boolean(v interface{}, path string) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, invalid(path, "expected a boolean, got %s", kind(v))
	}
	return b, nil
}

// integer accepts the number types produced by both decoders, as long as the
// value is integral.
func integer(v interface{}, path string) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		if n > math.MaxInt {
			return 0, invalid(path, "number %d is too large", n)
		}
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, invalid(path, "expected an integer, got %v", n)
		}
		if n >= math.MaxInt || n < math.MinInt {
			return 0, invalid(path, "number %v is too large", n)
		}
		return int(n), nil
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), nil
		}
		// exponent forms such as 4e18
		f, err := n.Float64()
		if err != nil {
			return 0, invalid(path, "expected an integer, got %s", n.String())
		}
		return integer(f, path)
	default:
		return 0, invalid(path, "expected an integer, got %s", kind(v))
	}
}

func kind(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]interface{}:
		return "object"
	case []interface{}:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int64, uint64, float64, json.Number:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// typeTag reads the "type" discriminator of a node.
func typeTag(m map[string]interface{}, path string) (string, error) {
	v, ok := m["type"]
	if !ok {
		return "", invalid(path, "missing type")
	}
	return str(v, field(path, "type"))
}

func decodeDocument(root interface{}) (*types.Document, error) {
	m, err := object(root, "")
	if err != nil {
		return nil, err
	}

	doc := &types.Document{Styles: map[string]types.StyleRef{}}

	if raw, ok := m["styles"]; ok && raw != nil {
		defs, err := object(raw, "styles")
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(defs))
		for name := range defs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			ref, err := decodeStyleRef(defs[name], field("styles", name))
			if err != nil {
				return nil, err
			}
			doc.Styles[name] = ref
		}
	}

	raw, ok := m["content"]
	if !ok {
		return nil, invalid("content", "missing content")
	}
	doc.Content, err = decodeContent(raw, "content")
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func decodeContent(v interface{}, path string) ([]types.Scaffold, error) {
	items, err := array(v, path)
	if err != nil {
		return nil, err
	}
	out := make([]types.Scaffold, 0, len(items))
	for i, item := range items {
		node, err := decodeScaffold(item, index(path, i))
		if err != nil {
			return nil, err
		}
		out = append(out, node)
	}
	return out, nil
}

func decodeScaffold(v interface{}, path string) (types.Scaffold, error) {
	m, err := object(v, path)
	if err != nil {
		return nil, err
	}
	tag, err := typeTag(m, path)
	if err != nil {
		return nil, err
	}

	switch tag {
	case "br":
		return types.LineBreak{}, nil
	case "indent":
		return decodeIndent(m, path)
	case "table":
		return decodeTable(m, path)
	default:
		return nil, invalid(field(path, "type"), "unknown scaffold type %q", tag)
	}
}

func decodeIndent(m map[string]interface{}, path string) (types.Indent, error) {
	raw, ok := m["indent"]
	if !ok {
		return types.Indent{}, invalid(path, "missing indent")
	}
	n, err := integer(raw, field(path, "indent"))
	if err != nil {
		return types.Indent{}, err
	}
	if n < 0 {
		return types.Indent{}, invalid(field(path, "indent"), "indent %d is negative", n)
	}

	content, ok := m["content"]
	if !ok {
		return types.Indent{}, invalid(path, "missing content")
	}
	children, err := decodeContent(content, field(path, "content"))
	if err != nil {
		return types.Indent{}, err
	}
	return types.Indent{Indent: n, Content: children}, nil
}

func decodeTable(m map[string]interface{}, path string) (*types.Table, error) {
	t := &types.Table{Properties: types.TableProperties{Align: types.AlignLeft}}

	if raw, ok := m["properties"]; ok && raw != nil {
		props, err := object(raw, field(path, "properties"))
		if err != nil {
			return nil, err
		}
		if a, ok := props["align"]; ok {
			align, err := decodeAlign(a, field(field(path, "properties"), "align"))
			if err != nil {
				return nil, err
			}
			t.Properties.Align = align
		}
	}

	rawCols, ok := m["columns"]
	if !ok {
		return nil, invalid(path, "missing columns")
	}
	cols, err := array(rawCols, field(path, "columns"))
	if err != nil {
		return nil, err
	}
	for i, c := range cols {
		spec, err := decodeColumn(c, index(field(path, "columns"), i))
		if err != nil {
			return nil, err
		}
		t.Columns = append(t.Columns, spec)
	}

	rawRows, ok := m["rows"]
	if !ok {
		return nil, invalid(path, "missing rows")
	}
	rows, err := array(rawRows, field(path, "rows"))
	if err != nil {
		return nil, err
	}
	for r, rawRow := range rows {
		rowPath := index(field(path, "rows"), r)
		cells, err := array(rawRow, rowPath)
		if err != nil {
			return nil, err
		}
		row := make([]types.TextNode, 0, len(cells))
		for c, cell := range cells {
			node, err := decodeText(cell, index(rowPath, c))
			if err != nil {
				return nil, err
			}
			row = append(row, node)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func decodeAlign(v interface{}, path string) (types.Align, error) {
	s, err := str(v, path)
	if err != nil {
		return "", err
	}
	a := types.Align(s)
	if !a.Valid() {
		return "", invalid(path, "align must be one of l, c, r; got %q", s)
	}
	return a, nil
}

func decodeColumn(v interface{}, path string) (types.ColumnSpec, error) {
	spec := types.ColumnSpec{
		Align:    types.AlignLeft,
		Overflow: types.OverflowWrap,
		Size:     types.Flex{Weight: 1},
	}

	m, err := object(v, path)
	if err != nil {
		return spec, err
	}

	if raw, ok := m["align"]; ok {
		if spec.Align, err = decodeAlign(raw, field(path, "align")); err != nil {
			return spec, err
		}
	}
	if raw, ok := m["overflow"]; ok {
		s, err := str(raw, field(path, "overflow"))
		if err != nil {
			return spec, err
		}
		spec.Overflow = types.Overflow(s)
		if !spec.Overflow.Valid() {
			return spec, invalid(field(path, "overflow"), "overflow must be wrap or truncate; got %q", s)
		}
	}
	if raw, ok := m["size"]; ok {
		if spec.Size, err = decodeSize(raw, field(path, "size")); err != nil {
			return spec, err
		}
	}
	return spec, nil
}

func decodeSize(v interface{}, path string) (types.Size, error) {
	m, err := object(v, path)
	if err != nil {
		return nil, err
	}

	mode := "flex"
	if raw, ok := m["mode"]; ok {
		if mode, err = str(raw, field(path, "mode")); err != nil {
			return nil, err
		}
	}
	raw, ok := m["value"]
	if !ok {
		return nil, invalid(path, "missing value")
	}
	n, err := integer(raw, field(path, "value"))
	if err != nil {
		return nil, err
	}

	switch mode {
	case "fixed":
		if n < 0 {
			return nil, invalid(field(path, "value"), "fixed width %d is negative", n)
		}
		return types.Fixed{Width: n}, nil
	case "flex":
		if n < 1 {
			return nil, invalid(field(path, "value"), "flex weight must be at least 1, got %d", n)
		}
		return types.Flex{Weight: n}, nil
	default:
		return nil, invalid(field(path, "mode"), "size mode must be fixed or flex; got %q", mode)
	}
}

func decodeText(v interface{}, path string) (types.TextNode, error) {
	switch n := v.(type) {
	case []interface{}:
		arr := make(types.TextArray, 0, len(n))
		for i, item := range n {
			m, ok := item.(map[string]interface{})
			if !ok {
				return nil, badText(index(path, i), "text array elements must be text objects, got %s", kind(item))
			}
			if tag, _ := m["type"].(string); tag != "text" {
				return nil, badText(index(path, i), "text array elements must have type text")
			}
			p, err := decodePrimitive(m, index(path, i))
			if err != nil {
				return nil, err
			}
			arr = append(arr, p)
		}
		return arr, nil
	case map[string]interface{}:
		tag, _ := n["type"].(string)
		switch tag {
		case "text":
			return decodePrimitive(n, path)
		case "repeat":
			value, styles, err := textFields(n, path)
			if err != nil {
				return nil, err
			}
			return types.RepeatCommand{Value: value, Styles: styles}, nil
		default:
			return nil, badText(path, "unknown text node type %q", tag)
		}
	default:
		return nil, badText(path, "text node must be an object or an array, got %s", kind(v))
	}
}

func decodePrimitive(m map[string]interface{}, path string) (types.PrimitiveText, error) {
	value, styles, err := textFields(m, path)
	if err != nil {
		return types.PrimitiveText{}, err
	}
	p := types.PrimitiveText{Value: value, Styles: styles}
	if raw, ok := m["markdown"]; ok {
		if p.Markdown, err = boolean(raw, field(path, "markdown")); err != nil {
			return types.PrimitiveText{}, err
		}
	}
	return p, nil
}

func textFields(m map[string]interface{}, path string) (string, types.StyleRef, error) {
	raw, ok := m["value"]
	if !ok {
		return "", nil, badText(path, "text node has no value")
	}
	value, ok := raw.(string)
	if !ok {
		return "", nil, badText(field(path, "value"), "value must be a string, got %s", kind(raw))
	}

	var styles types.StyleRef
	if rawStyles, ok := m["styles"]; ok && rawStyles != nil {
		var err error
		if styles, err = decodeStyleRef(rawStyles, field(path, "styles")); err != nil {
			return "", nil, err
		}
	}
	return value, styles, nil
}

func decodeStyleRef(v interface{}, path string) (types.StyleRef, error) {
	switch r := v.(type) {
	case nil:
		return nil, nil
	case string:
		return types.StyleName(r), nil
	case []interface{}:
		list := make(types.StyleList, 0, len(r))
		for i, item := range r {
			ref, err := decodeStyleRef(item, index(path, i))
			if err != nil {
				return nil, err
			}
			list = append(list, ref)
		}
		return list, nil
	case map[string]interface{}:
		if raw, ok := r["$ref"]; ok {
			return decodePointer(raw, field(path, "$ref"))
		}
		s, err := decodeStyle(r, path)
		if err != nil {
			return nil, err
		}
		return types.InlineStyle{Style: s}, nil
	default:
		return nil, invalid(path, "style must be a name, an object or an array, got %s", kind(v))
	}
}

// decodePointer turns {"$ref": "#/styles/name"} into a style name.
func decodePointer(v interface{}, path string) (types.StyleRef, error) {
	ptr, err := str(v, path)
	if err != nil {
		return nil, err
	}
	name := strings.TrimPrefix(ptr, stylePointerPrefix)
	if name == ptr || name == "" || strings.Contains(name, "/") {
		return nil, invalid(path, "$ref must point at a named style (%sname), got %q", stylePointerPrefix, ptr)
	}
	return types.StyleName(pointerUnescaper.Replace(name)), nil
}

func decodeStyle(m map[string]interface{}, path string) (types.Style, error) {
	var s types.Style
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := m[k]
		p := field(path, k)
		var err error
		switch k {
		case "fg":
			s.Fg, err = optStr(v, p)
		case "bg":
			s.Bg, err = optStr(v, p)
		case "link":
			s.Link, err = optStr(v, p)
		case "bold":
			s.Bold, err = flag(v, p)
		case "italic":
			s.Italic, err = flag(v, p)
		case "underline":
			s.Underline, err = flag(v, p)
		case "strike":
			s.Strike, err = flag(v, p)
		default:
			err = invalid(p, "unknown style attribute %q", k)
		}
		if err != nil {
			return types.Style{}, err
		}
	}
	return s, nil
}

// optStr decodes an optional string attribute; null leaves it unset.
func optStr(v interface{}, path string) (string, error) {
	if v == nil {
		return "", nil
	}
	return str(v, path)
}

// flag decodes an optional boolean attribute; null leaves it unset.
func flag(v interface{}, path string) (*bool, error) {
	if v == nil {
		return nil, nil
	}
	b, err := boolean(v, path)
	if err != nil {
		return nil, err
	}
	return types.Bool(b), nil
}
