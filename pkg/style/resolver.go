// Package style resolves the style references found in a document into
// concrete attribute sets.
//
// Named styles live in a Registry built once per document. A named style
// may itself be a list that refers to other names; NewRegistry expands
// every definition up front and rejects undefined names and reference
// cycles, so later lookups cannot fail on a bad definition.
package style

import (
	"sort"
	"strings"

	"github.com/arthur-debert/json2ansi/pkg/errors"
	"github.com/arthur-debert/json2ansi/pkg/types"
)

// expansion tracks where a named style is in the resolution walk.
type expansion int

const (
	unvisited expansion = iota
	pending
	resolved
)

// Registry maps style names to resolved styles. It is immutable once built.
type Registry struct {
	styles map[string]types.Style
}

// NewRegistry resolves every definition in defs. Definitions are visited in
// name order so the reported error is stable when several are broken.
func NewRegistry(defs map[string]types.StyleRef) (*Registry, error) {
	b := &builder{
		defs:     defs,
		state:    make(map[string]expansion, len(defs)),
		resolved: make(map[string]types.Style, len(defs)),
	}

	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, err := b.name(name); err != nil {
			return nil, err
		}
	}
	return &Registry{styles: b.resolved}, nil
}

// Lookup returns the resolved style registered under name.
func (r *Registry) Lookup(name string) (types.Style, bool) {
	if r == nil {
		return types.Style{}, false
	}
	s, ok := r.styles[name]
	return s, ok
}

// Names returns the registered style names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.styles))
	for name := range r.styles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve folds ref into a single style. Name references are looked up in
// reg; for every attribute the last style in the sequence that sets it wins.
// A nil ref resolves to the empty style.
func Resolve(ref types.StyleRef, reg *Registry) (types.Style, error) {
	switch r := ref.(type) {
	case nil:
		return types.Style{}, nil
	case types.InlineStyle:
		return r.Style, nil
	case types.StyleName:
		s, ok := reg.Lookup(string(r))
		if !ok {
			return types.Style{}, errors.Newf(errors.ErrStyleResolution, "undefined style %q", string(r)).
				WithDetail(errors.DetailStyle, string(r))
		}
		return s, nil
	case types.StyleList:
		out := types.Style{}
		for _, item := range r {
			s, err := Resolve(item, reg)
			if err != nil {
				return types.Style{}, err
			}
			out = out.Overlay(s)
		}
		return out, nil
	default:
		return types.Style{}, errors.Newf(errors.ErrStyleResolution, "unsupported style reference %T", ref)
	}
}

// Merge folds styles left to right, later set attributes winning.
func Merge(styles ...types.Style) types.Style {
	out := types.Style{}
	for _, s := range styles {
		out = out.Overlay(s)
	}
	return out
}

type builder struct {
	defs     map[string]types.StyleRef
	state    map[string]expansion
	resolved map[string]types.Style
	// path is the chain of names currently being expanded.
	path []string
}

func (b *builder) name(name string) (types.Style, error) {
	switch b.state[name] {
	case resolved:
		return b.resolved[name], nil
	case pending:
		cycle := append(append([]string{}, b.path...), name)
		return types.Style{}, errors.Newf(errors.ErrStyleResolution,
			"style reference cycle: %s", strings.Join(cycle, " -> ")).
			WithDetail(errors.DetailStyle, name)
	}

	def, ok := b.defs[name]
	if !ok {
		err := errors.Newf(errors.ErrStyleResolution, "undefined style %q", name).
			WithDetail(errors.DetailStyle, name)
		if len(b.path) > 0 {
			err.WithDetail("referenced_by", b.path[len(b.path)-1])
		}
		return types.Style{}, err
	}

	b.state[name] = pending
	b.path = append(b.path, name)
	s, err := b.ref(def)
	b.path = b.path[:len(b.path)-1]
	if err != nil {
		return types.Style{}, err
	}

	b.state[name] = resolved
	b.resolved[name] = s
	return s, nil
}

func (b *builder) ref(ref types.StyleRef) (types.Style, error) {
	switch r := ref.(type) {
	case nil:
		return types.Style{}, nil
	case types.InlineStyle:
		return r.Style, nil
	case types.StyleName:
		return b.name(string(r))
	case types.StyleList:
		out := types.Style{}
		for _, item := range r {
			s, err := b.ref(item)
			if err != nil {
				return types.Style{}, err
			}
			out = out.Overlay(s)
		}
		return out, nil
	default:
		return types.Style{}, errors.Newf(errors.ErrStyleResolution, "unsupported style reference %T", ref)
	}
}
