// Package project reads and edits ISE project files (.xise).
package project

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"

	"github.com/OpenTraceLab/OpenTraceISE/pkg/ise/document"
)

// Well-known project property names.
const (
	GoalProperty             = "Last Applied Goal"
	ShortNameProperty        = "PROP_DesignName"
	OutputNameProperty       = "Output File Name"
	TopLevelFileProperty     = "Implementation Top File"
	WorkingDirectoryProperty = "Working Directory"
)

// ErrNotFound is returned for properties the project does not define.
var ErrNotFound = document.ErrNotFound

// Project is a loaded ISE project file.
type Project struct {
	doc *document.Document
}

// Parse reads a project from r. The filename anchors relative paths and is
// the default Save target.
func Parse(r io.Reader, filename string) (*Project, error) {
	doc, err := document.Parse(r, filename)
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	return fromDocument(doc)
}

// ParseString reads a project from a string.
func ParseString(text, filename string) (*Project, error) {
	return Parse(strings.NewReader(text), filename)
}

// LoadFile reads the project file at path.
func LoadFile(path string) (*Project, error) {
	doc, err := document.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	return fromDocument(doc)
}

func fromDocument(doc *document.Document) (*Project, error) {
	if tag := doc.Root().Tag; tag != "project" {
		return nil, fmt.Errorf("project: not an ISE project file: expected 'project', got '%s'", tag)
	}
	return &Project{doc: doc}, nil
}

// Filename returns the path the project was loaded from.
func (p *Project) Filename() string {
	return p.doc.Filename()
}

// Save writes the project to path, or back to its own file when path is
// empty.
func (p *Project) Save(path string) error {
	return p.doc.Save(path)
}

// String serializes the project.
func (p *Project) String() string {
	return p.doc.String()
}

// Property returns the value of a project property.
func (p *Project) Property(name string) (string, error) {
	node, err := p.propertyNode(name)
	if err != nil {
		return "", err
	}
	v, _ := document.Attr(node, "value")
	return v, nil
}

// SetProperty changes the value of an existing project property. When
// markNonDefault is set the property's valueState becomes "non-default", so
// ISE keeps the value instead of recomputing it.
func (p *Project) SetProperty(name, value string, markNonDefault bool) error {
	node, err := p.propertyNode(name)
	if err != nil {
		return err
	}
	if !document.SetAttr(node, "value", value) {
		node.CreateAttr("xil_pn:value", value)
	}
	if markNonDefault && !document.SetAttr(node, "valueState", "non-default") {
		node.CreateAttr("xil_pn:valueState", "non-default")
	}
	return nil
}

// Properties returns every property name in document order.
func (p *Project) Properties() []string {
	var names []string
	for _, node := range p.doc.FindAll(document.Tag("property")) {
		if name, ok := document.Attr(node, "name"); ok {
			names = append(names, name)
		}
	}
	return names
}

// MinimizeRuntime points the working directory at a fresh temporary
// directory and sets the implementation goal to "Minimum Runtime". It returns
// the new working directory. Intermediate files placed there do not survive
// a reboot on systems with a RAM-backed temp dir.
func (p *Project) MinimizeRuntime() (string, error) {
	short, err := p.Property(ShortNameProperty)
	if err != nil {
		return "", err
	}

	dir, err := os.MkdirTemp("", url.QueryEscape(short))
	if err != nil {
		return "", fmt.Errorf("project: create working directory: %w", err)
	}

	if err := p.SetProperty(WorkingDirectoryProperty, dir, true); err != nil {
		return "", err
	}
	if err := p.SetProperty(GoalProperty, "Minimum Runtime", true); err != nil {
		return "", err
	}
	return dir, nil
}

// TopLevelFile returns the implementation top file. With absolute set, a
// relative path is resolved against the project's directory.
func (p *Project) TopLevelFile(absolute bool) (string, error) {
	path, err := p.Property(TopLevelFileProperty)
	if err != nil {
		return "", err
	}
	if absolute {
		path = p.resolve(path)
	}
	return path, nil
}

// WorkingDirectory returns the project's working directory, resolved
// against the project's directory.
func (p *Project) WorkingDirectory() (string, error) {
	dir, err := p.Property(WorkingDirectoryProperty)
	if err != nil {
		return "", err
	}
	return p.resolve(dir), nil
}

// BitFile returns the path where the most recent bit file should be and
// whether it exists.
func (p *Project) BitFile() (string, bool, error) {
	dir, err := p.WorkingDirectory()
	if err != nil {
		return "", false, err
	}
	name, err := p.Property(OutputNameProperty)
	if err != nil {
		return "", false, err
	}

	path := filepath.Join(dir, name+".bit")
	if _, err := os.Stat(path); err != nil {
		return path, false, nil
	}
	return path, true, nil
}

func (p *Project) resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	base := "."
	if p.doc.Filename() != "" {
		base = filepath.Dir(p.doc.Filename())
	}
	abs, err := filepath.Abs(filepath.Join(base, path))
	if err != nil {
		return filepath.Join(base, path)
	}
	return abs
}

func (p *Project) propertyNode(name string) (*etree.Element, error) {
	node := p.doc.FindFirst(document.All(
		document.Tag("property"),
		document.AttrEquals("xil_pn:name", name),
	))
	if node == nil {
		return nil, fmt.Errorf("%w: property %s", ErrNotFound, name)
	}
	return node, nil
}
