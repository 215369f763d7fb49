package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"pdfrag/internal/domain"
)

// DefaultSourcePattern matches the file names the extractors understand.
const DefaultSourcePattern = "*.{pdf,PDF,txt,md}"

type FileInfo struct {
	Path    string
	ModTime int64
	Size    int64
}

// Resolver turns a path or glob into exactly one source file.
type Resolver struct {
	pattern string
}

func NewResolver(pattern string) *Resolver {
	if pattern == "" {
		pattern = DefaultSourcePattern
	}
	return &Resolver{pattern: pattern}
}

// Resolve expands arg with doublestar glob syntax and requires a single
// matching regular file whose base name matches the resolver pattern.
func (r *Resolver) Resolve(arg string) (FileInfo, error) {
	matches, err := doublestar.FilepathGlob(arg)
	if err != nil {
		return FileInfo{}, fmt.Errorf("invalid source pattern %q: %w", arg, err)
	}

	var files []FileInfo
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		if !r.accepts(path) {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return FileInfo{}, err
		}
		files = append(files, FileInfo{
			Path:    abs,
			ModTime: info.ModTime().Unix(),
			Size:    info.Size(),
		})
	}

	switch len(files) {
	case 0:
		if len(matches) > 0 {
			return FileInfo{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedSource, arg)
		}
		return FileInfo{}, fmt.Errorf("no file matches %s", arg)
	case 1:
		return files[0], nil
	default:
		paths := make([]string, len(files))
		for i, f := range files {
			paths[i] = f.Path
		}
		return FileInfo{}, fmt.Errorf("%s matches %d files, expected one: %s", arg, len(files), strings.Join(paths, ", "))
	}
}

func (r *Resolver) accepts(path string) bool {
	matched, err := doublestar.Match(r.pattern, filepath.Base(path))
	return err == nil && matched
}

func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
