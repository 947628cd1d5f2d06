// Package coverage implements the Coverage Analyzer of spec §4.6: it
// parses the coverage tool's per-file report, canonicalizes reported
// paths, and compares reported percentages against a Project's
// required_coverage map.
package coverage

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Line is one row of a coverage report: statement/miss counts, the
// reported percent, and any "Missing" line ranges.
type Line struct {
	Stmts   int
	Miss    int
	Percent float64
	Missing string
}

// Shortfall describes one required_coverage key that was not met.
type Shortfall struct {
	Path     string
	Reported float64
	Required float64
	Missing  string
}

func (s Shortfall) String() string {
	return fmt.Sprintf("%s: %.3g < %.3g - Missing: %s", s.Path, s.Reported, s.Required, s.Missing)
}

// ParseReport parses the `coverage report -m` textual output into a
// path -> Line map, keyed by the path text as printed (canonicalization
// happens separately, see Canonicalize).
func ParseReport(report string) map[string]Line {
	lines := map[string]Line{}
	for _, raw := range strings.Split(report, "\n") {
		raw = strings.TrimRight(raw, "\r")
		if raw == "" || strings.HasPrefix(raw, "-") || strings.HasPrefix(raw, "Name") {
			continue
		}
		fields := strings.Fields(raw)
		if len(fields) < 4 {
			continue
		}
		name := fields[0]
		stmts, err1 := strconv.Atoi(fields[1])
		miss, err2 := strconv.Atoi(fields[2])
		pctStr := strings.TrimSuffix(fields[3], "%")
		pct, err3 := strconv.ParseFloat(pctStr, 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		missing := ""
		if len(fields) > 4 {
			missing = strings.Join(fields[4:], " ")
		}
		lines[name] = Line{Stmts: stmts, Miss: miss, Percent: pct, Missing: missing}
	}
	return lines
}

// Canonicalize resolves a reported path to an absolute path and
// collapses the Darwin /private prefix artifact so that a report path
// like "/private/var/x.py" matches a requirement rooted at "/var/...".
// Preserving this collapse is required per spec §9 or the coverage step
// spuriously fails on macOS.
func Canonicalize(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if strings.HasPrefix(abs, "/private/") {
		abs = strings.TrimPrefix(abs, "/private")
	}
	return abs
}

// Analyze compares reportLines against required (filename -> minimum
// percent, with the special key "TOTAL" for the aggregate) and returns
// every Shortfall found. A required key with no matching report line is
// itself a Shortfall, not an internal error, per spec §4.6.
func Analyze(workingDir string, reportLines map[string]Line, required map[string]float64) []Shortfall {
	// Canonicalize once into a lookup keyed by the canonical path (plus
	// "TOTAL"); findBySuffix matches the working-directory-relative keys
	// in `required` against it.
	canonical := make(map[string]Line, len(reportLines))
	for rawPath, line := range reportLines {
		if rawPath == "TOTAL" {
			canonical["TOTAL"] = line
			continue
		}
		canonical[Canonicalize(rawPath)] = line
	}

	var shortfalls []Shortfall
	keys := make([]string, 0, len(required))
	for k := range required {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		requiredPct := required[key]
		if key == "TOTAL" {
			line, ok := canonical["TOTAL"]
			if !ok {
				shortfalls = append(shortfalls, Shortfall{Path: "TOTAL", Reported: 0, Required: requiredPct, Missing: "no TOTAL line in coverage report"})
				continue
			}
			if line.Percent < requiredPct {
				shortfalls = append(shortfalls, Shortfall{Path: "TOTAL", Reported: line.Percent, Required: requiredPct, Missing: line.Missing})
			}
			continue
		}

		line, ok := findBySuffix(canonical, workingDir, key)
		if !ok {
			shortfalls = append(shortfalls, Shortfall{Path: key, Reported: 0, Required: requiredPct, Missing: "no coverage data for this file"})
			continue
		}
		if line.Percent < requiredPct {
			shortfalls = append(shortfalls, Shortfall{Path: key, Reported: line.Percent, Required: requiredPct, Missing: line.Missing})
		}
	}
	return shortfalls
}

// findBySuffix locates a report line whose canonicalized path ends with
// the working-dir-relative key, or with the bare key as a fallback.
func findBySuffix(canonical map[string]Line, workingDir, key string) (Line, bool) {
	want := Canonicalize(filepath.Join(workingDir, key))
	if line, ok := canonical[want]; ok {
		return line, true
	}
	for path, line := range canonical {
		if strings.HasSuffix(path, string(filepath.Separator)+key) || path == key {
			return line, true
		}
	}
	return Line{}, false
}
