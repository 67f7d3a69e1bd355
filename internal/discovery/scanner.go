package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Scanner scans directory trees for test source files
type Scanner struct {
	suffixes []string
	skipDirs map[string]bool
}

// NewScanner creates a new Scanner matching the given file suffixes and
// skipping directories with the given names
func NewScanner(suffixes []string, skipDirs []string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Scanner{
		suffixes: append([]string{}, suffixes...),
		skipDirs: skipMap,
	}
}

// Scan walks every root breadth-first: the directories of the current frontier are
// read together and their subdirectories form the next frontier. Symlinked
// directories are followed without cycle detection.
func (s *Scanner) Scan(roots ...string) ([]string, error) {
	frontier := make(map[string]bool)
	for _, root := range roots {
		// Clean and validate the root path
		root = filepath.Clean(root)
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("test path does not exist: %s", root)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("test path is not a directory: %s", root)
		}
		frontier[root] = true
	}

	files := make(map[string]bool)
	for len(frontier) > 0 {
		next := make(map[string]bool)
		for dir := range frontier {
			subDirs, found, err := s.scanDir(dir)
			if err != nil {
				return nil, err
			}
			for _, d := range subDirs {
				next[d] = true
			}
			for _, f := range found {
				files[f] = true
			}
		}
		frontier = next
	}

	testfiles := make([]string, 0, len(files))
	for f := range files {
		testfiles = append(testfiles, f)
	}
	sort.Strings(testfiles)
	return testfiles, nil
}

// scanDir lists one directory, splitting its entries into traversable
// subdirectories and eligible test files
func (s *Scanner) scanDir(dir string) (subDirs, files []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		info, err := os.Stat(path)
		if err != nil {
			return nil, nil, fmt.Errorf("stat %s: %w", path, err)
		}

		if info.IsDir() {
			name := entry.Name()
			// Skip hidden directories (starting with .)
			if strings.HasPrefix(name, ".") || s.skipDirs[name] {
				continue
			}
			subDirs = append(subDirs, path)
			continue
		}

		if s.IsTestFile(entry.Name()) {
			files = append(files, path)
		}
	}
	return subDirs, files, nil
}

// IsTestFile reports whether name ends with a test suffix and is longer than it
func (s *Scanner) IsTestFile(name string) bool {
	name = filepath.Base(name)
	for _, suffix := range s.suffixes {
		if suffix != "" && strings.HasSuffix(name, suffix) && len(name) > len(suffix) {
			return true
		}
	}
	return false
}
