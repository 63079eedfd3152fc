package library

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceISE/pkg/ise/symbol"
)

const andSymbol = `<?xml version="1.0" encoding="UTF-8"?>
<symbol version="7" name="And2">
    <symboltype>BLOCK</symboltype>
    <pin polarity="Input" x="0" y="-128" name="a" />
    <pin polarity="Input" x="0" y="-64" name="b" />
    <pin polarity="Output" x="256" y="-128" name="y" />
    <graph>
        <attrtext attrname="PinName" type="pin a" />
        <attrtext attrname="PinName" type="pin b" />
        <attrtext attrname="PinName" type="pin y" />
    </graph>
</symbol>
`

func writeLibrary(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	mux, err := os.ReadFile(filepath.Join("..", "symbol", "testdata", "symbol.sym"))
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "msi"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "msi", "BusMux16.sym"), mux, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "And2.SYM"), []byte(andSymbol), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("not a symbol"), 0o644))
	return root
}

func TestLoadDir(t *testing.T) {
	lib := New()
	require.NoError(t, lib.LoadDir(writeLibrary(t)))

	assert.Equal(t, []string{"And2", "BusMux16"}, lib.Names())

	sym, err := lib.Lookup("BusMux16")
	require.NoError(t, err)
	assert.Len(t, sym.Pins(), 18)

	_, err = lib.Lookup("Xor2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadDirReportsBadSymbol(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "broken.sym"), []byte("<symbol"), 0o644))

	err := New().LoadDir(root)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "broken.sym"))
}

func TestLoadFiles(t *testing.T) {
	root := writeLibrary(t)
	lib := New()
	require.NoError(t, lib.LoadFiles(filepath.Join(root, "And2.SYM")))
	assert.Equal(t, []string{"And2"}, lib.Names())
}

func TestAddRejectsUnnamed(t *testing.T) {
	sym, err := symbol.ParseString(`<symbol><pin name="a"/></symbol>`, "")
	require.NoError(t, err)
	assert.Error(t, New().Add(sym))
	assert.Error(t, New().Add(nil))
}

func TestSetBusWidth(t *testing.T) {
	root := writeLibrary(t)
	lib := New()
	require.NoError(t, lib.LoadDir(root))

	require.NoError(t, lib.SetBusWidth(16))
	require.NoError(t, lib.Save())

	reloaded := New()
	require.NoError(t, reloaded.LoadDir(root))

	mux, err := reloaded.Lookup("BusMux16")
	require.NoError(t, err)
	width, err := mux.Attribute(BusWidthAttribute)
	require.NoError(t, err)
	assert.Equal(t, "16", width)

	for _, name := range []string{"i0(15:0)", "i15(15:0)", "o(15:0)", "sel(3:0)"} {
		pin, err := mux.Pin(name)
		require.NoError(t, err, name)
		assert.Len(t, mux.Labels(pin), 1, name)
	}

	and2, err := reloaded.Lookup("And2")
	require.NoError(t, err)
	_, err = and2.Pin("a")
	assert.NoError(t, err)

	assert.ErrorIs(t, lib.SetBusWidth(0), symbol.ErrInvalidArgument)
}
