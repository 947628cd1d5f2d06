package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/hochfrequenz/ptr-orchestrator/internal/domain"
)

// SuiteStats is one entry of the stats artifact's "suites" map, spec §6.
type SuiteStats struct {
	Runtime    int                `json:"runtime"`
	Result     string             `json:"result"`
	FailedStep *string            `json:"failed_step"`
	Coverage   map[string]float64 `json:"coverage"`
}

// Stats is the full statistics artifact, spec §6. Field order and names
// are the schema; DisallowUnknownFields on decode is what makes
// validation strict.
type Stats struct {
	TotalSuites             int                   `json:"total_suites"`
	TotalSeconds            int                   `json:"total_seconds"`
	Pass                    int                   `json:"pass"`
	Fail                    int                   `json:"fail"`
	Timeout                 int                   `json:"timeout"`
	PercentSuitesConfigured float64               `json:"percent_suites_configured"`
	Suites                  map[string]SuiteStats `json:"suites"`
}

// BuildStats turns a RunReport into the Stats artifact shape.
func BuildStats(r *domain.RunReport) *Stats {
	stats := &Stats{
		TotalSuites:             r.Total,
		TotalSeconds:            int(r.Duration.Seconds()),
		Pass:                    r.Pass,
		Fail:                    r.Fail,
		Timeout:                 r.Timeout,
		PercentSuitesConfigured: r.PercentConfigured(),
		Suites:                  make(map[string]SuiteStats, len(r.Outcomes)),
	}
	for _, o := range r.Outcomes {
		stats.Suites[o.Project.ManifestPath] = suiteStatsFrom(o)
	}
	return stats
}

func suiteStatsFrom(o *domain.ProjectOutcome) SuiteStats {
	s := SuiteStats{
		Runtime: int(o.Duration.Seconds()),
		Result:  resultString(o.Terminal),
	}
	if o.FailedStep != "" {
		step := string(o.FailedStep)
		s.FailedStep = &step
	}
	if len(o.CoverageReport) > 0 {
		s.Coverage = o.CoverageReport
	}
	return s
}

// resultString maps the domain's finer-grained Classification onto the
// four values the stats schema recognizes.
func resultString(c domain.Classification) string {
	switch c {
	case domain.Pass:
		return "pass"
	case domain.Timeout:
		return "timeout"
	case domain.SkippedDisabled, domain.SkippedCancelled:
		return "skipped"
	default:
		return "fail"
	}
}

// Validate strict-decodes data against the Stats shape, rejecting
// unknown top-level keys as spec §6 requires.
func Validate(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var s Stats
	if err := dec.Decode(&s); err != nil {
		return fmt.Errorf("stats artifact failed schema validation: %w", err)
	}
	return nil
}

// WriteStatsFile marshals stats to path, validating it against the
// schema first. A validation failure is an internal error (spec §7):
// it is reported but must not change the run's own outcome, so the
// caller decides whether to treat the returned error as fatal.
func WriteStatsFile(path string, stats *Stats) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling stats: %w", err)
	}
	if err := Validate(data); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
