// Package document wraps an ISE XML artifact (schematic symbol, project file)
// as a mutable element tree.
//
// A Document is loaded once, queried and edited in place, then written back.
// Queries come in two flavours: predicate walks (FindAll, FindFirst) for
// lookups whose values may contain characters that are awkward inside a path
// expression, and etree path expressions (Get, Set) for fixed locations.
package document

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/beevik/etree"
)

// ErrNotFound is returned when a path, element or attribute does not exist.
var ErrNotFound = errors.New("document: not found")

// ParseError reports malformed document text.
type ParseError struct {
	Filename string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Filename == "" {
		return fmt.Sprintf("document: malformed XML: %v", e.Err)
	}
	return fmt.Sprintf("document: malformed XML in %s: %v", e.Filename, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Document is an XML tree together with the file it was loaded from.
type Document struct {
	doc      *etree.Document
	filename string
}

// Parse reads an XML document from r. The filename is remembered as the
// default Save target and may be empty.
func Parse(r io.Reader, filename string) (*Document, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, &ParseError{Filename: filename, Err: err}
	}
	if doc.Root() == nil {
		return nil, &ParseError{Filename: filename, Err: errors.New("no root element")}
	}
	return &Document{doc: doc, filename: filename}, nil
}

// ParseString reads an XML document from a string.
func ParseString(text, filename string) (*Document, error) {
	return Parse(strings.NewReader(text), filename)
}

// LoadFile reads and parses the XML document at path.
func LoadFile(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("document: failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file, path)
}

// Filename returns the path the document was loaded from.
func (d *Document) Filename() string {
	return d.filename
}

// Root returns the document's root element.
func (d *Document) Root() *etree.Element {
	return d.doc.Root()
}

// Save writes the document to path, or to the file it was loaded from when
// path is empty.
func (d *Document) Save(path string) error {
	if path == "" {
		path = d.filename
	}
	if path == "" {
		return errors.New("document: no file name to save to")
	}
	if err := d.doc.WriteToFile(path); err != nil {
		return fmt.Errorf("document: failed to write %s: %w", path, err)
	}
	return nil
}

// WriteTo serializes the document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	return d.doc.WriteTo(w)
}

// String serializes the document.
func (d *Document) String() string {
	s, err := d.doc.WriteToString()
	if err != nil {
		return ""
	}
	return s
}

// FindAll returns every element matching pred, in document order.
// Each call walks the current tree, so results reflect earlier edits.
func (d *Document) FindAll(pred Predicate) []*etree.Element {
	var out []*etree.Element
	walk(&d.doc.Element, func(e *etree.Element) bool {
		if pred(e) {
			out = append(out, e)
		}
		return true
	})
	return out
}

// FindFirst returns the first element matching pred, or nil.
func (d *Document) FindFirst(pred Predicate) *etree.Element {
	var found *etree.Element
	walk(&d.doc.Element, func(e *etree.Element) bool {
		if pred(e) {
			found = e
			return false
		}
		return true
	})
	return found
}

// Get returns the value of attribute attr on the first element selected by
// the etree path expression.
func (d *Document) Get(path, attr string) (string, error) {
	a, err := d.selectAttr(path, attr)
	if err != nil {
		return "", err
	}
	return a.Value, nil
}

// Set overwrites attribute attr on the first element selected by path. The
// attribute must already exist.
func (d *Document) Set(path, attr, value string) error {
	a, err := d.selectAttr(path, attr)
	if err != nil {
		return err
	}
	a.Value = value
	return nil
}

func (d *Document) selectAttr(path, attr string) (*etree.Attr, error) {
	p, err := etree.CompilePath(path)
	if err != nil {
		return nil, fmt.Errorf("document: bad path %q: %w", path, err)
	}
	e := d.doc.FindElementPath(p)
	if e == nil {
		return nil, fmt.Errorf("%w: element %s", ErrNotFound, path)
	}
	a := e.SelectAttr(attr)
	if a == nil {
		return nil, fmt.Errorf("%w: attribute %s on %s", ErrNotFound, attr, path)
	}
	return a, nil
}

// walk visits e's descendants depth-first, stopping when fn returns false.
func walk(e *etree.Element, fn func(*etree.Element) bool) bool {
	for _, child := range e.ChildElements() {
		if !fn(child) {
			return false
		}
		if !walk(child, fn) {
			return false
		}
	}
	return true
}
