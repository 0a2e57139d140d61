package types

// Style is a set of text attributes. Empty strings and nil pointers mean the
// attribute is unset, so a style can be overlaid on another without
// clobbering what it does not set.
type Style struct {
	Fg        string
	Bg        string
	Link      string
	Bold      *bool
	Italic    *bool
	Underline *bool
	Strike    *bool
}

// Overlay returns s with every attribute set in top replacing its own.
func (s Style) Overlay(top Style) Style {
	if top.Fg != "" {
		s.Fg = top.Fg
	}
	if top.Bg != "" {
		s.Bg = top.Bg
	}
	if top.Link != "" {
		s.Link = top.Link
	}
	if top.Bold != nil {
		s.Bold = Bool(*top.Bold)
	}
	if top.Italic != nil {
		s.Italic = Bool(*top.Italic)
	}
	if top.Underline != nil {
		s.Underline = Bool(*top.Underline)
	}
	if top.Strike != nil {
		s.Strike = Bool(*top.Strike)
	}
	return s
}

// IsZero reports whether no attribute is set.
func (s Style) IsZero() bool {
	return s.Equal(Style{})
}

// Equal compares attribute values rather than pointer identity.
func (s Style) Equal(o Style) bool {
	return s.Fg == o.Fg &&
		s.Bg == o.Bg &&
		s.Link == o.Link &&
		boolEqual(s.Bold, o.Bold) &&
		boolEqual(s.Italic, o.Italic) &&
		boolEqual(s.Underline, o.Underline) &&
		boolEqual(s.Strike, o.Strike)
}

// IsBold reports whether bold is set and true. The other Is* helpers follow
// the same rule.
func (s Style) IsBold() bool      { return s.Bold != nil && *s.Bold }
func (s Style) IsItalic() bool    { return s.Italic != nil && *s.Italic }
func (s Style) IsUnderline() bool { return s.Underline != nil && *s.Underline }
func (s Style) IsStrike() bool    { return s.Strike != nil && *s.Strike }

// Bool returns a pointer to a fresh copy of v.
func Bool(v bool) *bool {
	return &v
}

func boolEqual(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// StyleRef is anything a document may put in a style position: an inline
// style, the name of a registered style, or an ordered list of either.
type StyleRef interface {
	styleRef()
}

// InlineStyle is a style written out in place.
type InlineStyle struct {
	Style
}

// StyleName refers to an entry of the document's style registry.
type StyleName string

// StyleList is an ordered sequence of references; later entries win per
// attribute.
type StyleList []StyleRef

func (InlineStyle) styleRef() {}
func (StyleName) styleRef()   {}
func (StyleList) styleRef()   {}
