package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/hochfrequenz/ptr-orchestrator/internal/domain"
)

func TestWriteSummary_LineFormat(t *testing.T) {
	var buf bytes.Buffer
	r := sampleReport()
	WriteSummary(&buf, r, nil, Options{})
	first := strings.SplitN(buf.String(), "\n", 2)[0]
	if !strings.HasPrefix(first, "PASS: 1 FAIL: 1 TIMEOUT: 0 TOTAL: 2") {
		t.Errorf("got summary line %q", first)
	}
}

func TestWriteSummary_FailureBlockHeader(t *testing.T) {
	var buf bytes.Buffer
	r := sampleReport()
	WriteSummary(&buf, r, nil, Options{})
	out := buf.String()
	want := "/repo/b/setup.py (failed 'mypy_run' step):"
	if !strings.Contains(out, want) {
		t.Errorf("got %q, want it to contain %q", out, want)
	}
}

func TestWriteSummary_PrintNonConfigured(t *testing.T) {
	var buf bytes.Buffer
	r := sampleReport()
	WriteSummary(&buf, r, []string{"/repo/c/setup.py"}, Options{PrintNonConfigured: true})
	if !strings.Contains(buf.String(), "/repo/c/setup.py") {
		t.Error("expected non-configured path to be listed")
	}
}

func TestWriteSummary_SkippedProjectsOmittedFromFailureBlocks(t *testing.T) {
	var buf bytes.Buffer
	r := &domain.RunReport{}
	p := domain.NewProject("/repo/d/setup.py")
	r.Add(&domain.ProjectOutcome{Project: p, Terminal: domain.SkippedDisabled, Duration: time.Millisecond})
	WriteSummary(&buf, r, nil, Options{})
	if strings.Contains(buf.String(), "/repo/d/setup.py") {
		t.Error("skipped-disabled project should not get a failure block")
	}
}
