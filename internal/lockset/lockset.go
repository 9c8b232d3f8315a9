// Package lockset answers whether a project-relative path has been locked
// by the project against synchronization.
//
// Paths are compared after resolving them against the project root, so
// "./README.md", "README.md" and "docs/../README.md" are the same lock.
// Matching is exact: locking a directory does not lock what is inside it.
package lockset

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dotsync-labs/dotsync/internal/platform"
)

// Set is an immutable set of locked paths for one project.
type Set struct {
	root  string
	paths map[string]struct{}
}

// New resolves every entry of locks against root.
func New(root string, locks []string) (*Set, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving project root %s: %w", root, err)
	}
	// Resolve symlinks on the root only; the locked files themselves may
	// not exist yet.
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	s := &Set{root: abs, paths: make(map[string]struct{}, len(locks))}
	for _, rel := range locks {
		s.paths[s.resolve(rel)] = struct{}{}
	}
	return s, nil
}

// IsLocked reports whether relPath is locked.
func (s *Set) IsLocked(relPath string) bool {
	if s == nil {
		return false
	}
	_, ok := s.paths[s.resolve(relPath)]
	return ok
}

// Len returns the number of distinct locked paths.
func (s *Set) Len() int { return len(s.paths) }

// Paths returns the resolved locked paths, sorted.
func (s *Set) Paths() []string {
	out := make([]string, 0, len(s.paths))
	for p := range s.paths {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Root returns the resolved project root.
func (s *Set) Root() string { return s.root }

func (s *Set) resolve(rel string) string {
	rel = filepath.FromSlash(rel)
	var p string
	if filepath.IsAbs(rel) {
		p = filepath.Clean(rel)
	} else {
		p = filepath.Join(s.root, rel)
	}
	return normalize(p)
}

// normalize folds case on platforms whose default filesystems are case
// insensitive.
func normalize(p string) string {
	if platform.CaseInsensitive() {
		return strings.ToLower(p)
	}
	return p
}
