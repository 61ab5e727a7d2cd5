// Package security confines every file the RDO tools touch to the work directory
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideWorkDirectory is returned for paths escaping the work directory
var ErrOutsideWorkDirectory = errors.New("path is outside the work directory")

// Sandbox resolves user supplied paths against the work directory
type Sandbox struct {
	root string
}

// NewSandbox creates a sandbox rooted at dir, creating the directory when missing
func NewSandbox(dir string) (*Sandbox, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("work directory cannot be empty")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve work directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}

	return &Sandbox{root: abs}, nil
}

// Root returns the absolute work directory
func (s *Sandbox) Root() string {
	return s.root
}

// Resolve returns the absolute form of path. Relative paths are taken from the
// work directory; the result, with symlinks followed, must stay inside it.
func (s *Sandbox) Resolve(path string) (string, error) {
	path = strings.ReplaceAll(path, "\x00", "")
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(s.root, path)
	}
	clean := filepath.Clean(path)

	if !s.contains(clean) {
		return "", fmt.Errorf("%w: %s", ErrOutsideWorkDirectory, path)
	}
	if real := realPath(clean); !s.contains(real) {
		return "", fmt.Errorf("%w: %s resolves to %s", ErrOutsideWorkDirectory, path, real)
	}
	return clean, nil
}

// ResolveFile resolves path and checks that it names an existing regular file
func (s *Sandbox) ResolveFile(path string) (string, error) {
	resolved, err := s.Resolve(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(resolved)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return "", fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", path)
	}
	return resolved, nil
}

// ResolveOutput resolves a path that is about to be written, creating its parent
// directory inside the sandbox
func (s *Sandbox) ResolveOutput(path string) (string, error) {
	resolved, err := s.Resolve(path)
	if err != nil {
		return "", err
	}
	if resolved == s.root {
		return "", fmt.Errorf("output path names the work directory itself")
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return resolved, nil
}

func (s *Sandbox) contains(path string) bool {
	if path == s.root {
		return true
	}
	prefix := s.root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}

// realPath follows symlinks on the longest existing prefix of path, so files that
// do not exist yet are checked through their parent directory
func realPath(path string) string {
	existing := path
	var rest []string
	for {
		if resolved, err := filepath.EvalSymlinks(existing); err == nil {
			return filepath.Join(append([]string{resolved}, rest...)...)
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return path
		}
		rest = append([]string{filepath.Base(existing)}, rest...)
		existing = parent
	}
}
