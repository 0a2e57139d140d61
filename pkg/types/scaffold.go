package types

// Scaffold is a structural node of the document content tree.
type Scaffold interface {
	scaffold()
}

// Indent shifts its content right by Indent columns.
type Indent struct {
	Indent  int
	Content []Scaffold
}

// LineBreak emits one empty line.
type LineBreak struct{}

func (Indent) scaffold()    {}
func (*Table) scaffold()    {}
func (LineBreak) scaffold() {}

// Document is a parsed input file: named styles plus the content tree.
type Document struct {
	Styles  map[string]StyleRef
	Content []Scaffold
}
