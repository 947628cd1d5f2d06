package report

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/hochfrequenz/ptr-orchestrator/internal/domain"
)

func sampleReport() *domain.RunReport {
	p1 := domain.NewProject("/repo/a/setup.py")
	p2 := domain.NewProject("/repo/b/setup.py")
	r := &domain.RunReport{DiscoveredCandidates: 3}
	r.Add(&domain.ProjectOutcome{Project: p1, Terminal: domain.Pass, Duration: 2 * time.Second})
	r.Add(&domain.ProjectOutcome{Project: p2, Terminal: domain.Fail, FailedStep: domain.StepMypyRun, Duration: time.Second})
	r.Duration = 5 * time.Second
	return r
}

func TestBuildStats_Shape(t *testing.T) {
	stats := BuildStats(sampleReport())
	if stats.TotalSuites != 2 {
		t.Errorf("got total_suites=%d, want 2", stats.TotalSuites)
	}
	if stats.Pass != 1 || stats.Fail != 1 {
		t.Errorf("got pass=%d fail=%d, want 1/1", stats.Pass, stats.Fail)
	}
	if got := stats.PercentSuitesConfigured; got < 66.0 || got > 67.0 {
		t.Errorf("got percent_suites_configured=%v, want ~66.67", got)
	}
	entry, ok := stats.Suites["/repo/b/setup.py"]
	if !ok {
		t.Fatal("missing suite entry for failing project")
	}
	if entry.Result != "fail" || entry.FailedStep == nil || *entry.FailedStep != "mypy_run" {
		t.Errorf("got %+v, want result=fail failed_step=mypy_run", entry)
	}
}

func TestValidate_RejectsUnknownKeys(t *testing.T) {
	data := []byte(`{"total_suites": 1, "bogus_field": true}`)
	if err := Validate(data); err == nil {
		t.Error("expected validation error for unknown field")
	}
}

func TestValidate_AcceptsWellFormedArtifact(t *testing.T) {
	stats := BuildStats(sampleReport())
	data, err := json.Marshal(stats)
	if err != nil {
		t.Fatal(err)
	}
	if err := Validate(data); err != nil {
		t.Errorf("expected valid artifact, got %v", err)
	}
}

func TestWriteStatsFile_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stats.json")
	stats := BuildStats(sampleReport())
	if err := WriteStatsFile(path, stats); err != nil {
		t.Fatalf("WriteStatsFile: %v", err)
	}
}

func TestResultString_SkippedIsNeitherPassNorFail(t *testing.T) {
	if got := resultString(domain.SkippedDisabled); got != "skipped" {
		t.Errorf("got %q, want skipped", got)
	}
	if got := resultString(domain.SkippedCancelled); got != "skipped" {
		t.Errorf("got %q, want skipped", got)
	}
}
