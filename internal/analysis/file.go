// ABOUTME: Candidate input files offered to the intake by picker or drop
// ABOUTME: Extension matching is case-insensitive

package analysis

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultExtension is the structured-molecule file extension the backend accepts.
const DefaultExtension = ".mol"

// File is a candidate input file. Name is what the backend sees; Path is where
// the client reads the bytes from.
type File struct {
	Name string
	Path string
	Size int64
}

// HasExtension reports whether name ends with ext, ignoring case.
func HasExtension(name, ext string) bool {
	return strings.HasSuffix(strings.ToLower(name), strings.ToLower(ext))
}

// FileFromPath stats path and builds a File named after its base name.
func FileFromPath(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}
	return File{
		Name: filepath.Base(path),
		Path: path,
		Size: info.Size(),
	}, nil
}

// FilesFromPaths resolves every path. Paths that cannot be read are left
// out and reported together as a joined error; the readable ones are still
// returned in order.
func FilesFromPaths(paths []string) ([]File, error) {
	files := make([]File, 0, len(paths))
	var errs []error
	for _, p := range paths {
		f, err := FileFromPath(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		files = append(files, f)
	}
	return files, errors.Join(errs...)
}

// Names returns the file names in order.
func Names(files []File) []string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	return names
}
