package dispatch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// Bundled library directories under the root, in the order they are prepended.
// The last one prepended is searched first.
var bundledLibraries = []string{"pyserial", "esptool"}

// SearchPath is an ordered list of lookup roots. Earlier entries shadow later ones.
type SearchPath []string

// Prepend returns a copy of p with dir in front.
func (p SearchPath) Prepend(dir string) SearchPath {
	out := make(SearchPath, 0, len(p)+1)
	out = append(out, dir)
	return append(out, p...)
}

// LibraryRoots returns the lookup roots for rootDir: rootDir/esptool, then rootDir/pyserial.
// The directories are not checked for existence.
func LibraryRoots(rootDir string) SearchPath {
	var p SearchPath
	for _, lib := range bundledLibraries {
		p = p.Prepend(filepath.Join(rootDir, lib))
	}
	return p
}

// ExpandRoot replaces a bare "~" or a leading "~/" in rootDir with the user's
// home directory. Any other root, including "~name/...", is returned as given.
func ExpandRoot(rootDir string) (string, error) {
	if rootDir != "~" && !strings.HasPrefix(rootDir, "~/") && !strings.HasPrefix(rootDir, "~"+string(filepath.Separator)) {
		return rootDir, nil
	}
	expanded, err := homedir.Expand(rootDir)
	if err != nil {
		return "", fmt.Errorf("expanding root directory %q: %w", rootDir, err)
	}
	return expanded, nil
}

// Resolve finds the file backing module name, trying <root>/<name>.py and then
// <root>/<name>/__init__.py in each root. The first hit wins.
func (p SearchPath) Resolve(name string) (string, error) {
	for _, root := range p {
		for _, candidate := range []string{
			filepath.Join(root, name+".py"),
			filepath.Join(root, name, "__init__.py"),
		} {
			info, err := os.Stat(candidate)
			if err == nil && !info.IsDir() {
				return candidate, nil
			}
			if err != nil && !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, fs.ErrPermission) {
				return "", fmt.Errorf("checking %s: %w", candidate, err)
			}
		}
	}
	return "", fmt.Errorf("%w: %s", ErrModuleNotFound, name)
}
