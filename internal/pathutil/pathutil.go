// Package pathutil splits and normalizes slash-separated paths into
// component slices, replacing the recursive refcounted cons-list
// (original_source/slist.c) with a plain []string — the idiomatic Go
// equivalent, grounded on the teacher's normalizePath/removeDotsFromSlice
// helpers in drivers/common/basedriver/driver.go.
package pathutil

import (
	posixpath "path"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slices"

	nufserrors "github.com/roadkillsanta/nufs/errors"
)

// Split breaks a path into its non-empty components, cleaning it first
// (resolving "." and ".." segments) the way the teacher's normalizePath
// does with posixpath.Clean + filepath.ToSlash. The root path "/" and ""
// both split to an empty slice.
func Split(path string) []string {
	clean := posixpath.Clean(filepath.ToSlash(path))
	if clean == "." || clean == "/" {
		return []string{}
	}
	clean = strings.TrimPrefix(clean, "/")

	parts := splitNonEmpty(clean)
	return removeDots(parts)
}

func splitNonEmpty(s string) []string {
	var parts []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == '/' {
			if i > start {
				parts = append(parts, s[start:i])
			}
			start = i + 1
		}
	}
	return parts
}

// removeDots strips any remaining "." components, matching the teacher's
// removeDotsFromSlice; empty segments are already dropped by splitNonEmpty. ".." is left to posixpath.Clean, which
// already collapses it against a preceding component.
func removeDots(parts []string) []string {
	for {
		index := slices.Index(parts, ".")
		if index < 0 {
			break
		}
		parts = slices.Delete(parts, index, index+1)
	}
	return slices.Clip(parts)
}

// Basename returns the last component of a path, or "" for the root.
func Basename(path string) string {
	parts := Split(path)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

// ParentAndName splits a path into its parent directory's component list
// and the final component's name. It returns ErrInvalidArgument for the
// root path, which has no parent — a bounds check the original's
// directory_find_parent in original_source/directory.c skipped before
// dereferencing list->next (Open Question 4).
func ParentAndName(path string) ([]string, string, error) {
	parts := Split(path)
	if len(parts) == 0 {
		return nil, "", nufserrors.ErrInvalidArgument.WithMessage("path has no parent")
	}
	return parts[:len(parts)-1], parts[len(parts)-1], nil
}
