// Package adapter contains the infrastructure adapters of the tracklogic CLI:
// files, logic graphs, tracker state, scenarios, reports and file watching.
package adapter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	m "tracklogic.dev/pkg/tracklogic/internal/model"
)

// recursiveSuffix marks a path pattern that includes every subdirectory.
const recursiveSuffix = "..."

// FSAdapter abstracts filesystem access so the domain and the other adapters
// can be tested without touching the disk.
//
//nolint:interfacebloat // A richer interface keeps workflow logic decoupled from os/fs.
type FSAdapter interface {
	// Walk traverses root. When recursive is false only root's direct
	// children are visited.
	Walk(ctx context.Context, root m.Path, recursive bool, fn FilepathWalkFunc) error

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(ctx context.Context, path m.Path) ([]byte, error)

	// WriteFile writes content to a file, creating parent directories.
	WriteFile(ctx context.Context, path m.Path, content []byte, perm os.FileMode) error

	// FileInfo returns metadata for a path.
	FileInfo(ctx context.Context, path m.Path) (os.FileInfo, error)

	// Remove deletes a single file.
	Remove(ctx context.Context, path m.Path) error

	// JoinPath joins path elements into a single path.
	JoinPath(ctx context.Context, elem ...string) m.Path

	// FindFiles expands path patterns (a trailing "/..." means recursive)
	// into the sorted list of files with one of the given extensions whose
	// path matches none of the exclude regexes.
	FindFiles(ctx context.Context, paths []m.Path, extensions []string, exclude ...string) ([]m.Path, error)
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// LocalFSAdapter implements FSAdapter on the local filesystem.
type LocalFSAdapter struct{}

// NewLocalFSAdapter constructs a LocalFSAdapter.
func NewLocalFSAdapter() *LocalFSAdapter {
	return &LocalFSAdapter{}
}

// Walk iterates over files under root, optionally descending into subdirectories.
func (a *LocalFSAdapter) Walk(ctx context.Context, root m.Path, recursive bool, fn FilepathWalkFunc) error {
	rootStr := filepath.Clean(string(root))

	return filepath.Walk(rootStr, func(path string, info os.FileInfo, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			return fn(path, info, err)
		}

		if info.IsDir() && !recursive && path != rootStr {
			return filepath.SkipDir
		}

		return fn(path, info, nil)
	})
}

// ReadFile loads file contents from disk.
func (a *LocalFSAdapter) ReadFile(ctx context.Context, path m.Path) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// #nosec G304 - paths come from the user's own configuration
	return os.ReadFile(string(path))
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalFSAdapter) WriteFile(ctx context.Context, path m.Path, content []byte, perm os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(string(path)), 0o750); err != nil {
		return err
	}

	return os.WriteFile(string(path), content, perm)
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalFSAdapter) FileInfo(ctx context.Context, path m.Path) (os.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return os.Stat(string(path))
}

// Remove deletes a single file.
func (a *LocalFSAdapter) Remove(ctx context.Context, path m.Path) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return os.Remove(string(path))
}

// JoinPath joins path elements into a single path.
func (a *LocalFSAdapter) JoinPath(_ context.Context, elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}

// FindFiles implements FSAdapter.
func (a *LocalFSAdapter) FindFiles(ctx context.Context, paths []m.Path, extensions []string, exclude ...string) ([]m.Path, error) {
	excludes, err := compileExcludes(exclude)
	if err != nil {
		return nil, err
	}

	if len(paths) == 0 {
		paths = []m.Path{m.Path("." + string(filepath.Separator) + recursiveSuffix)}
	}

	seen := make(map[m.Path]bool)

	for _, pattern := range paths {
		root, recursive := splitPattern(pattern)

		info, err := a.FileInfo(ctx, root)
		if err != nil {
			return nil, fmt.Errorf("path %s: %w", pattern, err)
		}

		// Files named explicitly skip the extension filter.
		if !info.IsDir() {
			if matchesFile(string(root), nil, excludes) {
				seen[m.Path(filepath.Clean(string(root)))] = true
			}

			continue
		}

		err = a.Walk(ctx, root, recursive, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if !info.IsDir() && matchesFile(path, extensions, excludes) {
				seen[m.Path(path)] = true
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", pattern, err)
		}
	}

	files := make([]m.Path, 0, len(seen))
	for path := range seen {
		files = append(files, path)
	}

	sort.Slice(files, func(i, j int) bool { return files[i] < files[j] })

	return files, nil
}

func splitPattern(pattern m.Path) (m.Path, bool) {
	p := string(pattern)
	if !strings.HasSuffix(p, recursiveSuffix) {
		return pattern, false
	}

	root := strings.TrimSuffix(strings.TrimSuffix(p, recursiveSuffix), string(filepath.Separator))
	root = strings.TrimSuffix(root, "/")

	if root == "" {
		root = "."
	}

	return m.Path(root), true
}

func compileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	excludes := make([]*regexp.Regexp, 0, len(patterns))

	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", pattern, err)
		}

		excludes = append(excludes, re)
	}

	return excludes, nil
}

func matchesFile(path string, extensions []string, excludes []*regexp.Regexp) bool {
	if len(extensions) > 0 && !hasExtension(path, extensions) {
		return false
	}

	for _, re := range excludes {
		if re.MatchString(path) {
			return false
		}
	}

	return true
}

// hasExtension matches case-insensitive suffixes, so multi-part extensions
// such as .scenarios.yaml work.
func hasExtension(path string, extensions []string) bool {
	lower := strings.ToLower(path)
	for _, candidate := range extensions {
		if strings.HasSuffix(lower, strings.ToLower(candidate)) {
			return true
		}
	}

	return false
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
