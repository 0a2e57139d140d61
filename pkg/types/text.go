package types

// TextNode is the content of a table cell.
type TextNode interface {
	textNode()
}

// PrimitiveText is a single string with an optional style. When Markdown is
// set the value is parsed as inline markdown.
type PrimitiveText struct {
	Value    string
	Styles   StyleRef
	Markdown bool
}

// TextArray concatenates its elements in order.
type TextArray []PrimitiveText

// RepeatCommand repeats Value to fill whatever room its cell has left.
type RepeatCommand struct {
	Value  string
	Styles StyleRef
}

func (PrimitiveText) textNode() {}
func (TextArray) textNode()     {}
func (RepeatCommand) textNode() {}
