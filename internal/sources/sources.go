// Package sources resolves the input arguments of a run into report files.
package sources

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrInputNotFound is matched by the error returned for an input that
// resolves to no file.
var ErrInputNotFound = errors.New("input not found")

// NotFoundError names the input that resolved to nothing.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("input not found: %s", e.Path)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrInputNotFound
}

const wildcards = "*?[]"

// HasWildcard reports whether the last element of path is a glob pattern.
func HasWildcard(path string) bool {
	return strings.ContainsAny(filepath.Base(path), wildcards)
}

// Expand turns paths and glob patterns into the list of files to parse, in
// argument order. A path that exists is used as is. Otherwise, if its base
// name holds a wildcard, it is matched against the entries of its parent
// directory and the matches are added in lexical order. Any input that resolves to nothing
// fails the whole expansion.
func Expand(inputs []string) ([]string, error) {
	var resolved []string
	for _, in := range inputs {
		if _, err := os.Stat(in); err == nil {
			resolved = append(resolved, in)
			continue
		}

		if !HasWildcard(in) {
			return nil, &NotFoundError{Path: in}
		}

		matches, err := matchBase(in)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, &NotFoundError{Path: in}
		}
		resolved = append(resolved, matches...)
	}
	return resolved, nil
}

// matchBase matches the base name of pattern against the entries of its
// parent directory. The directory itself is taken literally, so brackets or
// stars in it are never expanded.
func matchBase(pattern string) ([]string, error) {
	dir, base := filepath.Dir(pattern), filepath.Base(pattern)
	if _, err := filepath.Match(base, ""); err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil
	}

	var matches []string
	for _, e := range entries {
		if ok, _ := filepath.Match(base, e.Name()); ok {
			matches = append(matches, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(matches)
	return matches, nil
}
