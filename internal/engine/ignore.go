package engine

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const codelensIgnoreFile = ".codelensignore"

// ignoreSet accumulates gitignore-style patterns gathered from every
// .gitignore encountered during a walk plus a single project-root
// .codelensignore, and answers whether a given project-relative path
// should be skipped. Patterns are matched with doublestar so "**/"
// prefixes and directory-only suffixes behave the way .gitignore users
// expect, without implementing gitignore's full negation grammar.
type ignoreSet struct {
	patterns []string
}

func newIgnoreSet(rootPath string) *ignoreSet {
	set := &ignoreSet{patterns: defaultIgnorePatterns()}
	set.loadFile(filepath.Join(rootPath, codelensIgnoreFile))
	return set
}

func defaultIgnorePatterns() []string {
	return []string{
		"**/.git/**",
		"**/node_modules/**",
		"**/target/**",
		"**/vendor/**",
		"**/dist/**",
		"**/build/**",
	}
}

// loadDir folds in any .gitignore found directly inside dir (relative to
// the walk root), so nested .gitignore files are honored as they are
// discovered during the walk.
func (s *ignoreSet) loadDir(dir string) {
	s.loadFile(filepath.Join(dir, ".gitignore"))
}

func (s *ignoreSet) loadFile(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		pattern := strings.TrimSuffix(strings.TrimPrefix(line, "/"), "/")
		if !strings.Contains(pattern, "/") {
			pattern = "**/" + pattern
		}
		s.patterns = append(s.patterns, pattern, pattern+"/**")
	}
}

// matches reports whether relPath (slash-separated, relative to the walk
// root) is covered by any accumulated ignore pattern.
func (s *ignoreSet) matches(relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	for _, pattern := range s.patterns {
		if ok, err := doublestar.Match(pattern, relPath); err == nil && ok {
			return true
		}
	}
	return false
}
