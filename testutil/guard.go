// Package testutil holds helpers shared by boundary tests that keep the
// package layering honest.
package testutil

import (
	"go/parser"
	"go/token"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// AssertNoDirectImports parses every non-test .go file in dir and fails the
// test when an import path matches the forbidden predicate. Build tags are
// not evaluated.
func AssertNoDirectImports(t testing.TB, dir string, forbidden func(importPath string) bool, reason string) {
	t.Helper()
	hits, err := scanImports(dir, forbidden)
	if err != nil {
		t.Fatalf("scan %s: %v", dir, err)
	}
	if len(hits) > 0 {
		t.Fatalf("forbidden imports (%s):\n%s", reason, strings.Join(hits, "\n"))
	}
}

// AssertNoTransitiveDependency resolves the full dependency closure of the
// given package pattern via `go list -deps` and fails the test when any path
// in the closure matches the forbidden predicate.
func AssertNoTransitiveDependency(t testing.TB, pattern string, forbidden func(path string) bool, reason string) {
	t.Helper()
	out, err := listDeps(pattern)
	if err != nil {
		t.Fatalf("go list -deps %s: %v\n%s", pattern, err, out)
	}
	var hits []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line != "" && forbidden(line) {
			hits = append(hits, line)
		}
	}
	if len(hits) > 0 {
		t.Fatalf("forbidden transitive dependencies (%s):\n%s", reason, strings.Join(hits, "\n"))
	}
}

// InternalImportForbidden matches import paths that cross into an internal
// tree. Domain packages use it to stay free of implementation detail.
func InternalImportForbidden(path string) bool {
	return strings.Contains(path, "/internal/") || strings.HasSuffix(path, "/internal")
}

// BlobDriverImportForbidden matches the concrete blob driver packages. Only
// the blob facade may import them.
func BlobDriverImportForbidden(path string) bool {
	return strings.Contains(path, "/internal/infra/blob/")
}

// ThirdPartyImportForbidden matches any module-path import, leaving the
// standard library and in-repo packages alone.
func ThirdPartyImportForbidden(path string) bool {
	first, _, _ := strings.Cut(path, "/")
	return strings.Contains(first, ".")
}

// listDeps is swappable so the shelling-out path can be tested without a
// working toolchain.
var listDeps = func(pattern string) ([]byte, error) {
	return exec.Command("go", "list", "-deps", pattern).CombinedOutput()
}

func scanImports(dir string, forbidden func(string) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	fset := token.NewFileSet()
	var hits []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		parsed, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ImportsOnly)
		if err != nil {
			return nil, err
		}
		for _, imp := range parsed.Imports {
			path := strings.Trim(imp.Path.Value, `"`)
			if forbidden(path) {
				hits = append(hits, name+": "+path)
			}
		}
	}
	return hits, nil
}
