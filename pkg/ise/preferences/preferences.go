// Package preferences loads the ISE Project Navigator preference file.
//
// ISE stores its preferences in a Qt-style INI file (~/.config/Xilinx/ISE.conf)
// with one section per ISE version. Keys are percent-encoded and use "/" (or
// Qt's "\") to separate groups, e.g.
//
//	[14.7]
//	Project%20Navigator/Recent%20Project%20List1=/path/a.xise, /path/b.xise
//
// A File exposes this as a tree of nested maps addressed by unix-style paths:
// "14.7/Project Navigator/Recent Project List1".
package preferences

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/OpenTraceLab/OpenTraceISE/pkg/ise/document"
)

// ErrNotFound is returned when a path does not lead to a value.
var ErrNotFound = document.ErrNotFound

// ParseError reports a malformed preference file.
type ParseError struct {
	Filename string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("preferences: malformed INI in %s: %v", e.Filename, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// DefaultPath returns the location ISE uses for its preference file.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("preferences: %w", err)
	}
	return filepath.Join(home, ".config", "Xilinx", "ISE.conf"), nil
}

// Qt writes values verbatim: ';' and '#' are data, and a trailing backslash
// (as in a Windows directory) does not continue the line.
var loadOptions = ini.LoadOptions{
	IgnoreInlineComment: true,
	IgnoreContinuation:  true,
	KeyValueDelimiters:  "=",
}

// File is a loaded preference file.
type File struct {
	filename string
	sections []string
	tree     map[string]any
}

// New returns an empty preference file that will be saved to filename.
func New(filename string) *File {
	return &File{filename: filename, tree: make(map[string]any)}
}

// Load reads the preference file at path, or at DefaultPath when path is
// empty.
func Load(path string) (*File, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("preferences: failed to open file: %w", err)
	}
	return parse(data, path)
}

// Parse reads preferences from r. The filename is used for errors and as
// the default Save target.
func Parse(r io.Reader, filename string) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("preferences: read: %w", err)
	}
	return parse(data, filename)
}

func parse(data []byte, filename string) (*File, error) {
	cfg, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return nil, &ParseError{Filename: filename, Err: err}
	}

	f := New(filename)
	for _, sec := range cfg.Sections() {
		if sec.Name() == ini.DefaultSection && len(sec.Keys()) == 0 {
			continue
		}
		section := f.section(sec.Name())
		for _, key := range sec.Keys() {
			setPath(section, splitKey(key.Name()), strings.TrimSpace(key.String()))
		}
	}
	return f, nil
}

// Filename returns the path the file was loaded from.
func (f *File) Filename() string {
	return f.filename
}

// Sections returns the section names in file order. ISE names sections after
// its version, newest first.
func (f *File) Sections() []string {
	return append([]string(nil), f.sections...)
}

// Section returns the tree stored under a section.
func (f *File) Section(name string) (map[string]any, bool) {
	m, ok := f.tree[name].(map[string]any)
	return m, ok
}

// GetByPath returns the value at a slash-separated path whose first element
// is the section name. Interior nodes are returned as map[string]any.
func (f *File) GetByPath(path string) (any, error) {
	var node any = f.tree
	for _, key := range strings.Split(path, "/") {
		m, ok := node.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		if node, ok = m[key]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
	}
	return node, nil
}

// String returns the string value at path.
func (f *File) String(path string) (string, error) {
	v, err := f.GetByPath(path)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("preferences: %s is a group, not a value", path)
	}
	return s, nil
}

// SetByPath stores value at path, creating any missing groups along the way.
// A plain value sitting where a group is needed is replaced by the group.
func (f *File) SetByPath(path string, value any) {
	keys := strings.Split(path, "/")
	if len(keys) == 1 {
		if _, ok := f.tree[keys[0]]; !ok {
			f.sections = append(f.sections, keys[0])
		}
		f.tree[keys[0]] = value
		return
	}
	setPath(f.section(keys[0]), keys[1:], value)
}

// Save writes the preferences to path, or back to the file they were loaded
// from when path is empty.
func (f *File) Save(path string) error {
	if path == "" {
		path = f.filename
	}
	if path == "" {
		return fmt.Errorf("preferences: no file name to save to")
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("preferences: failed to write %s: %w", path, err)
	}
	return nil
}

// WriteTo serializes the preferences as INI. Keys within a section are
// written in sorted order.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	cfg := ini.Empty(loadOptions)
	for _, name := range f.sections {
		tree, ok := f.tree[name].(map[string]any)
		if !ok {
			continue
		}
		sec, err := cfg.NewSection(name)
		if err != nil {
			return 0, fmt.Errorf("preferences: section %s: %w", name, err)
		}

		flat := make(map[string]string)
		flatten(tree, nil, flat)
		keys := make([]string, 0, len(flat))
		for k := range flat {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, err := sec.NewKey(k, flat[k]); err != nil {
				return 0, fmt.Errorf("preferences: key %s: %w", k, err)
			}
		}
	}
	return cfg.WriteTo(w)
}

// section returns the group for a section, creating it if needed.
func (f *File) section(name string) map[string]any {
	if m, ok := f.tree[name].(map[string]any); ok {
		return m
	}
	if _, ok := f.tree[name]; !ok {
		f.sections = append(f.sections, name)
	}
	m := make(map[string]any)
	f.tree[name] = m
	return m
}

func setPath(target map[string]any, keys []string, value any) {
	for len(keys) > 1 {
		next, ok := target[keys[0]].(map[string]any)
		if !ok {
			next = make(map[string]any)
			target[keys[0]] = next
		}
		target = next
		keys = keys[1:]
	}
	target[keys[0]] = value
}

// splitKey decodes an INI key into its path components.
func splitKey(raw string) []string {
	raw = strings.ReplaceAll(raw, `\`, "/")
	parts := strings.Split(raw, "/")
	for i, p := range parts {
		if dec, err := url.PathUnescape(p); err == nil {
			parts[i] = dec
		}
	}
	return parts
}

func escapeKey(parts []string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = strings.ReplaceAll(url.PathEscape(p), "=", "%3D")
	}
	return strings.Join(escaped, "/")
}

func flatten(tree map[string]any, prefix []string, out map[string]string) {
	for k, v := range tree {
		path := append(append([]string(nil), prefix...), k)
		switch val := v.(type) {
		case map[string]any:
			flatten(val, path, out)
		case string:
			out[escapeKey(path)] = val
		default:
			out[escapeKey(path)] = fmt.Sprint(val)
		}
	}
}
