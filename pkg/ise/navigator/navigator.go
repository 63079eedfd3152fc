// Package navigator answers questions about the ISE Project Navigator, such
// as which project was opened last, from its preference file.
//
// A Navigator owns one loaded preference file. Load reads it once; Reload
// re-reads it unconditionally. MostRecentProjectPath always reloads, since
// Project Navigator may have written the file since the last call.
package navigator

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/OpenTraceLab/OpenTraceISE/pkg/ise/preferences"
	"github.com/OpenTraceLab/OpenTraceISE/pkg/ise/project"
)

// RecentProjectsPath is the preference holding the recent project list,
// relative to the version section.
const RecentProjectsPath = "Project Navigator/Recent Project List1"

// ErrNotFound is returned when a preference or project does not exist.
var ErrNotFound = preferences.ErrNotFound

// Option configures a Navigator.
type Option func(*Navigator)

// WithLogger sets the logger used for load events.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Navigator) {
		n.logger = logger
	}
}

// Navigator reads Project Navigator state from a preference file.
type Navigator struct {
	path   string
	prefs  *preferences.File
	logger *slog.Logger
}

// New returns a Navigator for the preference file at path. An empty path
// selects the default ISE location. Nothing is read until first use.
func New(path string, opts ...Option) *Navigator {
	n := &Navigator{
		path:   path,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Load reads the preference file if it has not been read yet.
func (n *Navigator) Load() error {
	if n.prefs != nil {
		return nil
	}
	return n.Reload()
}

// Reload re-reads the preference file, discarding any cached state.
func (n *Navigator) Reload() error {
	prefs, err := preferences.Load(n.path)
	if err != nil {
		return fmt.Errorf("navigator: %w", err)
	}
	n.prefs = prefs
	n.logger.Debug("loaded preferences",
		"file", prefs.Filename(),
		"sections", len(prefs.Sections()))
	return nil
}

// Version returns the ISE version the preferences belong to: the first
// section of the file.
func (n *Navigator) Version() (string, error) {
	if err := n.Load(); err != nil {
		return "", err
	}
	sections := n.prefs.Sections()
	if len(sections) == 0 {
		return "", fmt.Errorf("%w: no version section in %s", ErrNotFound, n.prefs.Filename())
	}
	return sections[0], nil
}

// Preferences returns the preference tree of the current version.
func (n *Navigator) Preferences() (map[string]any, error) {
	version, err := n.Version()
	if err != nil {
		return nil, err
	}
	tree, ok := n.prefs.Section(version)
	if !ok {
		return nil, fmt.Errorf("%w: section %s", ErrNotFound, version)
	}
	return tree, nil
}

// Preference returns the value at path within the current version section.
func (n *Navigator) Preference(path string) (any, error) {
	version, err := n.Version()
	if err != nil {
		return nil, err
	}
	return n.prefs.GetByPath(version + "/" + path)
}

// SetPreference stores value at path within the current version section and
// writes the preference file.
func (n *Navigator) SetPreference(path string, value string) error {
	version, err := n.Version()
	if err != nil {
		return err
	}
	n.prefs.SetByPath(version+"/"+path, value)
	if err := n.prefs.Save(""); err != nil {
		return fmt.Errorf("navigator: %w", err)
	}
	n.logger.Debug("saved preference", "path", path, "file", n.prefs.Filename())
	return nil
}

// RecentProjects returns the recent project list, most recent first.
func (n *Navigator) RecentProjects() ([]string, error) {
	v, err := n.Preference(RecentProjectsPath)
	if err != nil {
		return nil, err
	}
	list, ok := v.(string)
	if !ok || list == "" {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, RecentProjectsPath)
	}
	return strings.Split(list, ", "), nil
}

// MostRecentProjectPath re-reads the preferences and returns the project
// Project Navigator opened last. It fails with ErrNotFound when that file no
// longer exists.
func (n *Navigator) MostRecentProjectPath() (string, error) {
	if err := n.Reload(); err != nil {
		return "", err
	}
	projects, err := n.RecentProjects()
	if err != nil {
		return "", err
	}

	path := projects[0]
	if _, err := os.Stat(path); err != nil {
		n.logger.Debug("recent project missing", "path", path, "error", err)
		return "", fmt.Errorf("%w: project %s", ErrNotFound, path)
	}
	return path, nil
}

// MostRecentProject loads the project Project Navigator opened last.
func (n *Navigator) MostRecentProject() (*project.Project, error) {
	path, err := n.MostRecentProjectPath()
	if err != nil {
		return nil, err
	}
	return project.LoadFile(path)
}
