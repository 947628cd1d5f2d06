// Package discovery implements the Discovery Walker of spec §4.2: a
// deterministic, sorted recursive walk from a base directory that hands
// each recognized manifest candidate to the Manifest Loader.
package discovery

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hochfrequenz/ptr-orchestrator/internal/domain"
	"github.com/hochfrequenz/ptr-orchestrator/internal/manifest"
)

// Result is one discovered candidate: either a Project (the Manifest
// Loader recognized it) or a bare candidate path (it didn't carry the
// tool's section/variable - reported only when --print-non-configured
// is set).
type Result struct {
	Project       *domain.Project
	CandidatePath string
}

// Options configures the walk beyond the base directory.
type Options struct {
	// ExcludePatterns are directory-name globs skipped in addition to
	// dot-directories (supplements spec §4.2 with ptr.py's
	// exclude_patterns default "build* yocto").
	ExcludePatterns []string
}

// DefaultExcludePatterns mirrors ptr.py's _config_default() default.
var DefaultExcludePatterns = []string{"build*", "yocto"}

// Walk performs a sorted recursive walk of baseDir, returning one
// Result per directory that holds at least one recognized candidate
// file, plus the count of such directories (the denominator for
// RunReport.PercentConfigured). Each directory is represented by its
// first programmatic candidate in sorted order, or by its
// DeclarativeFileName when it has no programmatic one; other candidates
// in the same directory are not loaded separately.
func Walk(baseDir string, opts Options) ([]Result, int, error) {
	var results []Result
	candidateCount := 0

	err := walkSorted(baseDir, opts, func(dirPath string, names []string) error {
		sort.Strings(names)
		var declPath, progPath string
		for _, name := range names {
			full := filepath.Join(dirPath, name)
			switch {
			case name == manifest.DeclarativeFileName:
				declPath = full
			case progPath == "" && manifest.IsCandidate(name):
				progPath = full
			}
		}
		representative := progPath
		if representative == "" {
			representative = declPath
		}
		if representative == "" {
			return nil
		}
		candidateCount++

		proj, err := manifest.Load(representative)
		if err != nil {
			return nil // Manifest Loader already warned; skip silently.
		}
		if proj == nil {
			results = append(results, Result{CandidatePath: representative})
			return nil
		}
		results = append(results, Result{Project: proj})
		return nil
	})
	return results, candidateCount, err
}

// walkSorted recurses depth-first, visiting each directory once (with
// the sorted names of its file entries) before descending into its
// sorted subdirectories, skipping dot-directories and any name
// matching opts.ExcludePatterns.
func walkSorted(dir string, opts Options, visit func(dirPath string, fileNames []string) error) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var fileNames []string
	var subdirs []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			if strings.HasPrefix(name, ".") {
				continue
			}
			if matchesAny(opts.ExcludePatterns, name) {
				continue
			}
			subdirs = append(subdirs, name)
			continue
		}
		fileNames = append(fileNames, name)
	}

	if err := visit(dir, fileNames); err != nil {
		return err
	}
	for _, name := range subdirs {
		if err := walkSorted(filepath.Join(dir, name), opts, visit); err != nil {
			return err
		}
	}
	return nil
}

func matchesAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if ok, err := filepath.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}
