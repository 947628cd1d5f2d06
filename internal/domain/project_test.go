package domain

import "testing"

func TestNewProject_WorkingDirIsManifestParent(t *testing.T) {
	p := NewProject("/repo/libfoo/ptrconfig.setup.py")
	if p.WorkingDir != "/repo/libfoo" {
		t.Errorf("got WorkingDir=%q, want /repo/libfoo", p.WorkingDir)
	}
}

func TestProject_HasCoverageRequirement(t *testing.T) {
	p := NewProject("/repo/libfoo/setup.py")
	if p.HasCoverageRequirement() {
		t.Error("empty RequiredCoverage should report false")
	}
	p.RequiredCoverage["TOTAL"] = 90
	if !p.HasCoverageRequirement() {
		t.Error("non-empty RequiredCoverage should report true")
	}
}

func TestStepName_Required(t *testing.T) {
	cases := map[StepName]bool{
		StepPipInstall:      true,
		StepTestsRun:        true,
		StepAnalyzeCoverage: false,
		StepMypyRun:         false,
		StepBlackRun:        false,
		StepFlake8Run:       false,
		StepPylintRun:       false,
		StepPyreRun:         false,
	}
	for name, want := range cases {
		if got := name.Required(); got != want {
			t.Errorf("%s.Required() = %v, want %v", name, got, want)
		}
	}
}

func TestRunReport_ExitOK(t *testing.T) {
	r := &RunReport{}
	r.Add(&ProjectOutcome{Terminal: Pass})
	r.Add(&ProjectOutcome{Terminal: SkippedDisabled})
	if !r.ExitOK() {
		t.Error("pass + skipped should be ExitOK")
	}
	r.Add(&ProjectOutcome{Terminal: Fail})
	if r.ExitOK() {
		t.Error("a fail should not be ExitOK")
	}
}

func TestRunReport_PercentConfigured(t *testing.T) {
	r := &RunReport{DiscoveredCandidates: 4}
	r.Add(&ProjectOutcome{Terminal: Pass})
	r.Add(&ProjectOutcome{Terminal: Pass})
	if got := r.PercentConfigured(); got != 50 {
		t.Errorf("got %v, want 50", got)
	}
}
