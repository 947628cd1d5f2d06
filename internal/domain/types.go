// Package domain holds the core value types shared across the
// orchestrator: Project, Environment, Step and the outcome records
// produced by running a Project's pipeline.
package domain

import "time"

// Classification is the terminal result of a step or a project.
type Classification string

const (
	Pass             Classification = "pass"
	Fail             Classification = "fail"
	Timeout          Classification = "timeout"
	Skipped          Classification = "skipped"
	SkippedDisabled  Classification = "skipped-disabled"
	SkippedCancelled Classification = "skipped-cancelled"
	SetupFailure     Classification = "setup-failure"
)

// StepName is the closed set of pipeline steps, in pipeline order.
type StepName string

const (
	StepPipInstall      StepName = "pip_install"
	StepTestsRun        StepName = "tests_run"
	StepAnalyzeCoverage StepName = "analyze_coverage"
	StepMypyRun         StepName = "mypy_run"
	StepBlackRun        StepName = "black_run"
	StepFlake8Run       StepName = "flake8_run"
	StepPylintRun       StepName = "pylint_run"
	StepPyreRun         StepName = "pyre_run"
)

// OrderedSteps is the normative pipeline order from spec §4.4.
var OrderedSteps = []StepName{
	StepPipInstall,
	StepTestsRun,
	StepAnalyzeCoverage,
	StepMypyRun,
	StepBlackRun,
	StepFlake8Run,
	StepPylintRun,
	StepPyreRun,
}

// Required reports whether a step's failure always halts the pipeline
// (pip_install, tests_run). analyze_coverage reports false here: whether
// it halts depends on the Project and is set in step.BuildPipeline.
func (s StepName) Required() bool {
	switch s {
	case StepPipInstall, StepTestsRun:
		return true
	default:
		return false
	}
}

// StepOutcome is the result of running one Step for one Project.
type StepOutcome struct {
	Step           StepName
	Classification Classification
	Duration       time.Duration
	Output         string
	ExitCode       int
}

// ProjectOutcome is the terminal result of running one Project's pipeline.
type ProjectOutcome struct {
	Project        *Project
	Steps          []StepOutcome
	Terminal       Classification
	FailedStep     StepName // zero value if Terminal == Pass
	Duration       time.Duration
	CoverageReport map[string]float64 // per-file percent, filled by analyze_coverage
}

// Passed reports whether the project's pipeline fully succeeded.
func (o *ProjectOutcome) Passed() bool {
	return o.Terminal == Pass
}
