// Package library indexes a directory of ISE schematic symbols by name.
package library

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/OpenTraceLab/OpenTraceISE/pkg/ise/symbol"
)

// BusWidthAttribute is the symbol attribute holding the data bus width of a
// parameterized component.
const BusWidthAttribute = "BusWidth"

// ErrNotFound is returned when no symbol has the requested name.
var ErrNotFound = symbol.ErrNotFound

// Library is an in-memory set of symbols keyed by symbol name. It is safe
// for concurrent lookups; the symbols themselves are not.
type Library struct {
	mu      sync.RWMutex
	symbols map[string]*symbol.Symbol
}

// New creates an empty library.
func New() *Library {
	return &Library{symbols: make(map[string]*symbol.Symbol)}
}

// Add registers sym under its symbol name, replacing any earlier symbol
// with the same name.
func (l *Library) Add(sym *symbol.Symbol) error {
	if sym == nil {
		return fmt.Errorf("library: invalid symbol")
	}
	name := sym.Name()
	if name == "" {
		return fmt.Errorf("library: symbol %s has no name", sym.Filename())
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.symbols[name] = sym
	return nil
}

// Lookup returns the symbol with the given name.
func (l *Library) Lookup(name string) (*symbol.Symbol, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if sym, ok := l.symbols[name]; ok {
		return sym, nil
	}
	return nil, fmt.Errorf("%w: symbol %s", ErrNotFound, name)
}

// Names returns the registered symbol names, sorted.
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.symbols))
	for name := range l.symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadFiles parses the provided symbol files and adds each one.
func (l *Library) LoadFiles(paths ...string) error {
	for _, path := range paths {
		if err := l.loadFile(path); err != nil {
			return err
		}
	}
	return nil
}

// LoadDir recursively loads all .sym files below root.
func (l *Library) LoadDir(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !isSymbolFile(path) {
			return nil
		}
		return l.loadFile(path)
	})
}

func (l *Library) loadFile(path string) error {
	sym, err := symbol.LoadFile(path)
	if err != nil {
		return fmt.Errorf("library: parse %s: %w", path, err)
	}
	if err := l.Add(sym); err != nil {
		return fmt.Errorf("library: add %s: %w", path, err)
	}
	return nil
}

// SetBusWidth changes the BusWidth attribute of every symbol that has one and
// resizes the bus pins whose width matched the old value. Other pins, such
// as a mux's select lines, keep their width. Symbols are edited in memory
// only; call Save to persist them.
func (l *Library) SetBusWidth(width int) error {
	if width <= 0 {
		return fmt.Errorf("%w: width must be positive, got %d", symbol.ErrInvalidArgument, width)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for name, sym := range l.symbols {
		raw, err := sym.Attribute(BusWidthAttribute)
		if err != nil {
			continue
		}
		old, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("library: %s: bad %s %q", name, BusWidthAttribute, raw)
		}

		for _, pin := range sym.Pins() {
			parsed, err := sym.PinBounds(pin)
			if err != nil || !parsed.IsBus() || parsed.Width() != old {
				continue
			}
			if err := sym.SetPinWidth(pin, width); err != nil {
				return fmt.Errorf("library: %s: %w", name, err)
			}
		}
		if err := sym.SetAttribute(BusWidthAttribute, strconv.Itoa(width)); err != nil {
			return fmt.Errorf("library: %s: %w", name, err)
		}
	}
	return nil
}

// Save writes every symbol back to the file it was loaded from.
func (l *Library) Save() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for name, sym := range l.symbols {
		if err := sym.Save(""); err != nil {
			return fmt.Errorf("library: save %s: %w", name, err)
		}
	}
	return nil
}

func isSymbolFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".sym"
}
