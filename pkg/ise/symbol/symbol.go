// Package symbol edits ISE schematic symbol files (.sym).
//
// A symbol file holds the symbol's attributes, its I/O pins and a graph
// section with the drawing. Pin labels inside the graph refer to pins by name
// through a text attribute of the form type="pin <name>", so renaming a pin
// must also re-point its labels. All editing happens on the loaded document;
// nothing is written until Save is called.
package symbol

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"

	"github.com/OpenTraceLab/OpenTraceISE/pkg/ise/document"
)

const (
	// LabelAttrName is the attrname of a graph text that displays a pin name.
	LabelAttrName = "PinName"

	// LabelRefPrefix precedes the pin name in a pin label's type attribute.
	LabelRefPrefix = "pin "
)

var (
	// ErrNotFound is returned for missing attributes and pins.
	ErrNotFound = document.ErrNotFound

	// ErrInvalidArgument is returned for out-of-range widths and bounds and
	// for pin handles that do not refer to a pin.
	ErrInvalidArgument = errors.New("symbol: invalid argument")
)

// Symbol is a loaded schematic symbol.
type Symbol struct {
	doc *document.Document
}

// Attribute is a symbol attribute such as BusWidth=8.
type Attribute struct {
	Name  string
	Value string
}

// Parse reads a symbol from r. The filename becomes the default Save target.
func Parse(r io.Reader, filename string) (*Symbol, error) {
	doc, err := document.Parse(r, filename)
	if err != nil {
		return nil, fmt.Errorf("symbol: %w", err)
	}
	return fromDocument(doc)
}

// ParseString reads a symbol from a string.
func ParseString(text, filename string) (*Symbol, error) {
	return Parse(strings.NewReader(text), filename)
}

// LoadFile reads the symbol file at path.
func LoadFile(path string) (*Symbol, error) {
	doc, err := document.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("symbol: %w", err)
	}
	return fromDocument(doc)
}

func fromDocument(doc *document.Document) (*Symbol, error) {
	if tag := doc.Root().Tag; tag != "symbol" {
		return nil, fmt.Errorf("symbol: not an ISE symbol file: expected 'symbol', got '%s'", tag)
	}
	return &Symbol{doc: doc}, nil
}

// Save writes the symbol to path, or back to the file it was loaded from
// when path is empty.
func (s *Symbol) Save(path string) error {
	return s.doc.Save(path)
}

// WriteTo serializes the symbol to w.
func (s *Symbol) WriteTo(w io.Writer) (int64, error) {
	return s.doc.WriteTo(w)
}

// String serializes the symbol.
func (s *Symbol) String() string {
	return s.doc.String()
}

// Filename returns the path the symbol was loaded from.
func (s *Symbol) Filename() string {
	return s.doc.Filename()
}

// Name returns the symbol's name, which is also the component it wraps.
func (s *Symbol) Name() string {
	v, _ := document.Attr(s.doc.Root(), "name")
	return v
}

// SetName renames the symbol.
func (s *Symbol) SetName(name string) {
	s.doc.Root().CreateAttr("name", name)
}

// HasAttribute reports whether the symbol defines the named attribute.
func (s *Symbol) HasAttribute(name string) bool {
	return s.attributeNode(name) != nil
}

// Attribute returns the value of the named symbol attribute.
func (s *Symbol) Attribute(name string) (string, error) {
	node := s.attributeNode(name)
	if node == nil {
		return "", fmt.Errorf("%w: attribute %s", ErrNotFound, name)
	}
	v, _ := document.Attr(node, "value")
	return v, nil
}

// SetAttribute overwrites the value of an existing symbol attribute. Absent
// attributes are not created.
func (s *Symbol) SetAttribute(name, value string) error {
	node := s.attributeNode(name)
	if node == nil {
		return fmt.Errorf("%w: attribute %s", ErrNotFound, name)
	}
	if !document.SetAttr(node, "value", value) {
		node.CreateAttr("value", value)
	}
	return nil
}

// Attributes returns every symbol attribute in document order.
func (s *Symbol) Attributes() []Attribute {
	nodes := s.doc.FindAll(document.All(document.Tag("attr"), document.Within("symbol")))
	attrs := make([]Attribute, 0, len(nodes))
	for _, node := range nodes {
		name, _ := document.Attr(node, "name")
		value, _ := document.Attr(node, "value")
		attrs = append(attrs, Attribute{Name: name, Value: value})
	}
	return attrs
}

func (s *Symbol) attributeNode(name string) *etree.Element {
	return s.doc.FindFirst(document.All(
		document.Tag("attr"),
		document.Within("symbol"),
		document.AttrEquals("name", name),
	))
}
