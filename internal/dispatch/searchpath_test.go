package dispatch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibraryRoots(t *testing.T) {
	roots := LibraryRoots("/opt/tools")
	require.Len(t, roots, 2)
	assert.Equal(t, filepath.Join("/opt/tools", "esptool"), roots[0])
	assert.Equal(t, filepath.Join("/opt/tools", "pyserial"), roots[1])
}

func TestSearchPath_Prepend(t *testing.T) {
	base := SearchPath{"b"}
	got := base.Prepend("a")
	assert.Equal(t, SearchPath{"a", "b"}, got)
	assert.Equal(t, SearchPath{"b"}, base, "Prepend must not modify the receiver")
}

func TestExpandRoot(t *testing.T) {
	home, err := homedir.Dir()
	require.NoError(t, err)

	got, err := ExpandRoot("~/esp8266/tools")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "esp8266/tools"), got)

	got, err = ExpandRoot("/opt/tools")
	require.NoError(t, err)
	assert.Equal(t, "/opt/tools", got)

	got, err = ExpandRoot("~")
	require.NoError(t, err)
	assert.Equal(t, home, got)

	// Only the current user's home is expanded; other tildes are literal.
	for _, literal := range []string{"~arduino/tools", "~tools", "tools/~", ""} {
		got, err = ExpandRoot(literal)
		require.NoError(t, err)
		assert.Equal(t, literal, got)
	}
}

// writeFile creates path and its parents with a trivial body.
func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("# stub\n"), 0o644))
}

func TestSearchPath_Resolve(t *testing.T) {
	root := t.TempDir()
	roots := LibraryRoots(root)

	writeFile(t, filepath.Join(root, "esptool", "esptool.py"))
	writeFile(t, filepath.Join(root, "pyserial", "serial", "__init__.py"))
	// Same name in both libraries: esptool wins.
	writeFile(t, filepath.Join(root, "esptool", "shared.py"))
	writeFile(t, filepath.Join(root, "pyserial", "shared.py"))
	// A directory without __init__.py is not a module.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pyserial", "tools"), 0o755))

	t.Run("plain module", func(t *testing.T) {
		got, err := roots.Resolve("esptool")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "esptool", "esptool.py"), got)
	})

	t.Run("package", func(t *testing.T) {
		got, err := roots.Resolve("serial")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "pyserial", "serial", "__init__.py"), got)
	})

	t.Run("first root shadows second", func(t *testing.T) {
		got, err := roots.Resolve("shared")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "esptool", "shared.py"), got)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := roots.Resolve("tools")
		assert.ErrorIs(t, err, ErrModuleNotFound)
	})

	t.Run("missing roots are not an error", func(t *testing.T) {
		_, err := LibraryRoots(filepath.Join(root, "absent")).Resolve("esptool")
		assert.ErrorIs(t, err, ErrModuleNotFound)
	})
}
