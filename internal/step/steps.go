package step

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/hochfrequenz/ptr-orchestrator/internal/domain"
)

// BuildPipeline returns the fixed, ordered step set of spec §4.4,
// bound to one Project's timeout and enable-flags.
func BuildPipeline(p *domain.Project) []domain.Step {
	testTimeout := time.Duration(p.TestSuiteTimeout) * time.Second

	return []domain.Step{
		{
			Name:     domain.StepPipInstall,
			ArgvFunc: argvPipInstall,
			Timeout:  DefaultStepTimeout,
			Required: true,
			RunGuard: func(*domain.Project) bool { return true },
		},
		{
			Name:     domain.StepTestsRun,
			ArgvFunc: argvTestsRun,
			Timeout:  testTimeout,
			Required: true,
			RunGuard: func(*domain.Project) bool { return true },
		},
		{
			Name:     domain.StepAnalyzeCoverage,
			ArgvFunc: argvCoverageReport,
			Timeout:  DefaultStepTimeout,
			Required: p.HasCoverageRequirement(),
			RunGuard: func(pr *domain.Project) bool { return pr.HasCoverageRequirement() },
		},
		{
			Name:     domain.StepMypyRun,
			ArgvFunc: argvMypy,
			Timeout:  DefaultStepTimeout,
			Required: false,
			RunGuard: func(pr *domain.Project) bool { return pr.Flags.RunMypy },
		},
		{
			Name:     domain.StepBlackRun,
			ArgvFunc: argvBlack,
			Timeout:  DefaultStepTimeout,
			Required: false,
			RunGuard: func(pr *domain.Project) bool { return pr.Flags.RunBlack },
		},
		{
			Name:     domain.StepFlake8Run,
			ArgvFunc: argvFlake8,
			Timeout:  DefaultStepTimeout,
			Required: false,
			RunGuard: func(pr *domain.Project) bool { return pr.Flags.RunFlake8 },
		},
		{
			Name:     domain.StepPylintRun,
			ArgvFunc: argvPylint,
			Timeout:  DefaultStepTimeout,
			Required: false,
			RunGuard: func(pr *domain.Project) bool { return pr.Flags.RunPylint },
		},
		{
			Name:     domain.StepPyreRun,
			ArgvFunc: argvPyre,
			Timeout:  DefaultStepTimeout,
			Required: false,
			RunGuard: func(pr *domain.Project) bool { return pr.Flags.RunPyre },
		},
	}
}

// toolExe resolves a tool executable that lives alongside the
// interpreter/installer in the Environment's bin directory.
func toolExe(sctx domain.StepContext, name string) string {
	return filepath.Join(filepath.Dir(sctx.InstallerPath), name)
}

func argvPipInstall(p *domain.Project, sctx domain.StepContext) ([]string, error) {
	argv := []string{sctx.InstallerPath, "-v", "install", p.WorkingDir}
	if p.Flags.RunPipUpdate {
		argv = append(argv, "--upgrade")
	}
	argv = append(argv, p.ExtraVenvPkgs...)
	return argv, nil
}

func argvTestsRun(p *domain.Project, sctx domain.StepContext) ([]string, error) {
	if p.TestSuite == "" {
		return nil, fmt.Errorf("project has no test_suite")
	}
	coverageExe := toolExe(sctx, "coverage")
	entryPoint := strings.ReplaceAll(p.TestSuite, ".", string(filepath.Separator)) + ".py"
	return []string{coverageExe, "run", filepath.Join(p.WorkingDir, entryPoint)}, nil
}

func argvCoverageReport(p *domain.Project, sctx domain.StepContext) ([]string, error) {
	if !p.HasCoverageRequirement() {
		return nil, nil
	}
	coverageExe := toolExe(sctx, "coverage")
	return []string{coverageExe, "report", "-m"}, nil
}

func argvMypy(p *domain.Project, sctx domain.StepContext) ([]string, error) {
	if !p.Flags.RunMypy {
		return nil, nil
	}
	if override, ok := p.BaseCommandOverrides[domain.StepMypyRun]; ok {
		return override, nil
	}
	mypyExe := toolExe(sctx, "mypy")
	argv := []string{mypyExe}
	if sctx.MypyConfigPath != "" {
		argv = append(argv, "--config", sctx.MypyConfigPath)
	}
	entryPoint := p.EntryPointModule
	if entryPoint == "" {
		entryPoint = p.TestSuite
	}
	argv = append(argv, filepath.Join(p.WorkingDir, entryPoint+".py"))
	return argv, nil
}

func argvBlack(p *domain.Project, sctx domain.StepContext) ([]string, error) {
	if !p.Flags.RunBlack {
		return nil, nil
	}
	blackExe := toolExe(sctx, "black")
	return []string{blackExe, "--check", p.WorkingDir}, nil
}

func argvFlake8(p *domain.Project, sctx domain.StepContext) ([]string, error) {
	if !p.Flags.RunFlake8 {
		return nil, nil
	}
	return []string{toolExe(sctx, "flake8"), p.WorkingDir}, nil
}

func argvPylint(p *domain.Project, sctx domain.StepContext) ([]string, error) {
	if !p.Flags.RunPylint {
		return nil, nil
	}
	return []string{toolExe(sctx, "pylint"), p.WorkingDir}, nil
}

func argvPyre(p *domain.Project, sctx domain.StepContext) ([]string, error) {
	if !p.Flags.RunPyre {
		return nil, nil
	}
	return []string{toolExe(sctx, "pyre"), "check"}, nil
}
