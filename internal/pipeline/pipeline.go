// Package pipeline implements the Pipeline Runner of spec §4.5: for one
// Project, it sequences the Step Engine calls in the fixed order of
// domain.OrderedSteps, short-circuiting only on a required step's
// failure, and produces a domain.ProjectOutcome.
package pipeline

import (
	"context"
	"log"
	"time"

	"github.com/hochfrequenz/ptr-orchestrator/internal/coverage"
	"github.com/hochfrequenz/ptr-orchestrator/internal/domain"
	"github.com/hochfrequenz/ptr-orchestrator/internal/step"
)

// RunnerConfig carries the shared state a Pipeline Runner needs to
// resolve each step: the provisioned Environment's interpreter/
// installer paths, an optional mypy config, and the per-project
// coverage data file location.
type RunnerConfig struct {
	Env              *domain.Environment
	MypyConfigPath   string
	CoverageDataFile string
	StepEnv          step.Env
	ForceDisabled    bool // --run-disabled
	PrintCov         bool
}

// Run executes one Project's pipeline and returns its terminal outcome.
func Run(ctx context.Context, p *domain.Project, cfg RunnerConfig) *domain.ProjectOutcome {
	start := time.Now()
	outcome := &domain.ProjectOutcome{Project: p}

	if p.Disabled && !cfg.ForceDisabled {
		outcome.Terminal = domain.SkippedDisabled
		outcome.Duration = time.Since(start)
		return outcome
	}

	sctx := domain.StepContext{
		InterpreterPath:  cfg.Env.InterpreterPath,
		InstallerPath:    cfg.Env.InstallerPath,
		CoverageDataFile: cfg.CoverageDataFile,
		MypyConfigPath:   cfg.MypyConfigPath,
	}
	stepEnv := cfg.StepEnv
	stepEnv.CoverageDataFile = cfg.CoverageDataFile

	steps := step.BuildPipeline(p)
	for _, s := range steps {
		if ctx.Err() != nil {
			outcome.Terminal = domain.SkippedCancelled
			outcome.Duration = time.Since(start)
			return outcome
		}
		if !s.RunGuard(p) {
			continue
		}

		so := step.Run(ctx, s, p, sctx, stepEnv)

		if ctx.Err() != nil {
			// Global cancellation interrupted this step's subprocess
			// mid-run; step.Run's own timeout context inherits the
			// cancellation and classifies it as a plain failure, but the
			// Project as a whole is cancelled, not failed (spec §4.7/§7).
			outcome.Steps = append(outcome.Steps, so)
			outcome.Terminal = domain.SkippedCancelled
			outcome.Duration = time.Since(start)
			return outcome
		}

		if s.Name == domain.StepAnalyzeCoverage && (so.Classification == domain.Pass) {
			attachCoverageReport(outcome, p, so)
			if shortfalls := coverage.Analyze(p.WorkingDir, coverage.ParseReport(so.Output), p.RequiredCoverage); len(shortfalls) > 0 {
				so.Classification = domain.Fail
				so.Output = formatShortfalls(shortfalls)
			}
			if cfg.PrintCov {
				log.Printf("[pipeline] coverage for %s:\n%s", p.ManifestPath, so.Output)
			}
		}

		outcome.Steps = append(outcome.Steps, so)

		if so.Classification == domain.Fail || so.Classification == domain.Timeout {
			if s.Required {
				outcome.Terminal = so.Classification
				outcome.FailedStep = s.Name
				outcome.Duration = time.Since(start)
				return outcome
			}
			// Independent step failed: record it, keep going so every
			// independent check still runs (spec §4.4/§4.5).
			if outcome.Terminal == "" {
				outcome.Terminal = domain.Fail
				outcome.FailedStep = s.Name
			}
		}
	}

	if outcome.Terminal == "" {
		outcome.Terminal = domain.Pass
	}
	outcome.Duration = time.Since(start)
	return outcome
}

func attachCoverageReport(outcome *domain.ProjectOutcome, p *domain.Project, so domain.StepOutcome) {
	lines := coverage.ParseReport(so.Output)
	report := make(map[string]float64, len(lines))
	for path, line := range lines {
		report[path] = line.Percent
	}
	outcome.CoverageReport = report
}

func formatShortfalls(shortfalls []coverage.Shortfall) string {
	out := "The following files did not meet coverage requirements:\n"
	for _, s := range shortfalls {
		out += "  " + s.String() + "\n"
	}
	return out
}
