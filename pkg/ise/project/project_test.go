package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// copySample copies the sample project into a temp dir so tests can save
// and create working directories next to it.
func copySample(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "MSI_Components.xise"))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "MSI_Components.xise")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestProperty(t *testing.T) {
	proj, err := LoadFile(copySample(t))
	require.NoError(t, err)

	v, err := proj.Property(OutputNameProperty)
	require.NoError(t, err)
	assert.Equal(t, "BusMux16", v)

	_, err = proj.Property("No Such Property")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Contains(t, proj.Properties(), TopLevelFileProperty)
	assert.Len(t, proj.Properties(), 6)
}

func TestSetProperty(t *testing.T) {
	proj, err := LoadFile(copySample(t))
	require.NoError(t, err)

	require.NoError(t, proj.SetProperty(GoalProperty, "Timing Performance", false))
	v, err := proj.Property(GoalProperty)
	require.NoError(t, err)
	assert.Equal(t, "Timing Performance", v)
	assert.Contains(t, proj.String(),
		`xil_pn:name="Last Applied Goal" xil_pn:value="Timing Performance" xil_pn:valueState="default"`)

	require.NoError(t, proj.SetProperty(GoalProperty, "Balanced", true))
	assert.Contains(t, proj.String(),
		`xil_pn:name="Last Applied Goal" xil_pn:value="Balanced" xil_pn:valueState="non-default"`)

	assert.ErrorIs(t, proj.SetProperty("No Such Property", "x", true), ErrNotFound)
}

func TestTopLevelFile(t *testing.T) {
	path := copySample(t)
	proj, err := LoadFile(path)
	require.NoError(t, err)

	rel, err := proj.TopLevelFile(false)
	require.NoError(t, err)
	assert.Equal(t, "BusMux16.sch", rel)

	abs, err := proj.TopLevelFile(true)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "BusMux16.sch"), abs)
}

func TestBitFile(t *testing.T) {
	path := copySample(t)
	proj, err := LoadFile(path)
	require.NoError(t, err)

	bit, ok, err := proj.BitFile()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "build", "BusMux16.bit"), bit)

	require.NoError(t, os.MkdirAll(filepath.Dir(bit), 0o755))
	require.NoError(t, os.WriteFile(bit, []byte{0xff}, 0o644))

	_, ok, err = proj.BitFile()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMinimizeRuntime(t *testing.T) {
	path := copySample(t)
	proj, err := LoadFile(path)
	require.NoError(t, err)

	dir, err := proj.MinimizeRuntime()
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.True(t, strings.HasPrefix(filepath.Base(dir), "MSI+Components"))

	wd, err := proj.WorkingDirectory()
	require.NoError(t, err)
	assert.Equal(t, dir, wd)

	goal, err := proj.Property(GoalProperty)
	require.NoError(t, err)
	assert.Equal(t, "Minimum Runtime", goal)

	require.NoError(t, proj.Save(""))
	reloaded, err := LoadFile(path)
	require.NoError(t, err)
	goal, err = reloaded.Property(GoalProperty)
	require.NoError(t, err)
	assert.Equal(t, "Minimum Runtime", goal)
}

func TestNotAProject(t *testing.T) {
	_, err := ParseString(`<symbol name="x"/>`, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an ISE project file")
}
