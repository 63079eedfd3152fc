package navigator

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceISE/pkg/ise/project"
)

const minimalProject = `<?xml version="1.0" encoding="UTF-8"?>
<project xmlns:xil_pn="http://www.xilinx.com/XMLSchema">
  <properties>
    <property xil_pn:name="PROP_DesignName" xil_pn:value="Lab3" xil_pn:valueState="non-default"/>
  </properties>
</project>
`

// writeFixture creates a project file and a preference file whose recent
// project list starts with it. It returns the preference file path.
func writeFixture(t *testing.T, recent ...string) string {
	t.Helper()
	dir := t.TempDir()
	proj := filepath.Join(dir, "Lab3.xise")
	require.NoError(t, os.WriteFile(proj, []byte(minimalProject), 0o644))

	if len(recent) == 0 {
		recent = []string{proj, "/nowhere/else.xise"}
	}
	list := recent[0]
	for _, r := range recent[1:] {
		list += ", " + r
	}

	conf := fmt.Sprintf("[14.7]\nProject%%20Navigator/Recent%%20Project%%20List1=%s\n\n[14.6]\nOld=1\n", list)
	path := filepath.Join(dir, "ISE.conf")
	require.NoError(t, os.WriteFile(path, []byte(conf), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	nav := New(writeFixture(t))
	v, err := nav.Version()
	require.NoError(t, err)
	assert.Equal(t, "14.7", v)

	prefs, err := nav.Preferences()
	require.NoError(t, err)
	assert.Contains(t, prefs, "Project Navigator")
}

func TestPreference(t *testing.T) {
	nav := New(writeFixture(t))
	v, err := nav.Preference(RecentProjectsPath)
	require.NoError(t, err)
	assert.Contains(t, v, "Lab3.xise")

	_, err = nav.Preference("Nothing/Here")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMostRecentProjectPath(t *testing.T) {
	conf := writeFixture(t)
	nav := New(conf)

	path, err := nav.MostRecentProjectPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(conf), "Lab3.xise"), path)

	proj, err := nav.MostRecentProject()
	require.NoError(t, err)
	name, err := proj.Property(project.ShortNameProperty)
	require.NoError(t, err)
	assert.Equal(t, "Lab3", name)
}

func TestMostRecentProjectPathMissingFile(t *testing.T) {
	nav := New(writeFixture(t, "/nowhere/gone.xise"))
	_, err := nav.MostRecentProjectPath()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMostRecentProjectPathReloads(t *testing.T) {
	conf := writeFixture(t)
	nav := New(conf)
	require.NoError(t, nav.Load())

	other := filepath.Join(t.TempDir(), "Other.xise")
	require.NoError(t, os.WriteFile(other, []byte(minimalProject), 0o644))
	data := fmt.Sprintf("[14.7]\nProject%%20Navigator/Recent%%20Project%%20List1=%s\n", other)
	require.NoError(t, os.WriteFile(conf, []byte(data), 0o644))

	path, err := nav.MostRecentProjectPath()
	require.NoError(t, err)
	assert.Equal(t, other, path)
}

func TestLoadCachesUntilReload(t *testing.T) {
	conf := writeFixture(t)
	nav := New(conf)
	require.NoError(t, nav.Load())

	require.NoError(t, os.WriteFile(conf, []byte("[15.0]\nA=1\n"), 0o644))
	require.NoError(t, nav.Load())
	v, err := nav.Version()
	require.NoError(t, err)
	assert.Equal(t, "14.7", v)

	require.NoError(t, nav.Reload())
	v, err = nav.Version()
	require.NoError(t, err)
	assert.Equal(t, "15.0", v)
}

func TestSetPreference(t *testing.T) {
	conf := writeFixture(t)
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	nav := New(conf, WithLogger(logger))

	require.NoError(t, nav.SetPreference("Project Navigator/Open Last Project", "false"))
	assert.Contains(t, logs.String(), "saved preference")

	fresh := New(conf)
	v, err := fresh.Preference("Project Navigator/Open Last Project")
	require.NoError(t, err)
	assert.Equal(t, "false", v)
}

func TestLoadMissingPreferenceFile(t *testing.T) {
	nav := New(filepath.Join(t.TempDir(), "missing.conf"))
	_, err := nav.Version()
	assert.Error(t, err)
}
