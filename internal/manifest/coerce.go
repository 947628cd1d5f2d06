package manifest

import (
	"fmt"
	"strconv"
	"strings"
)

// coerceBool implements the boolean literal set of spec §4.1:
// {true, false, yes, no, 1, 0}, case-insensitively.
func coerceBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1":
		return true, nil
	case "false", "no", "0":
		return false, nil
	default:
		return false, fmt.Errorf("not a boolean literal: %q", s)
	}
}

// coerceInt parses a decimal integer.
func coerceInt(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

// coerceFloat parses an integer-or-floating-point number.
func coerceFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// coerceList splits on whitespace, per spec §4.1.
func coerceList(s string) []string {
	return strings.Fields(s)
}

// coerceRequiredCoverage parses newline-separated "path = number" pairs.
func coerceRequiredCoverage(s string) (map[string]float64, error) {
	out := map[string]float64{}
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed required_coverage line: %q", line)
		}
		key := strings.TrimSpace(parts[0])
		pct, err := coerceFloat(parts[1])
		if err != nil {
			return nil, fmt.Errorf("malformed required_coverage percent for %q: %w", key, err)
		}
		out[key] = pct
	}
	return out, nil
}
