package domain

import "path/filepath"

// EnableFlags toggles the optional, independent QA steps for a Project.
type EnableFlags struct {
	RunBlack     bool
	RunMypy      bool
	RunFlake8    bool
	RunPylint    bool
	RunPyre      bool
	RunPipUpdate bool
}

// Project is one unit of testing, identified by its manifest path.
type Project struct {
	ManifestPath         string
	WorkingDir           string
	EntryPointModule     string
	TestSuite            string
	TestSuiteTimeout     int                // seconds
	RequiredCoverage     map[string]float64 // filename -> min percent, "TOTAL" is special
	Flags                EnableFlags
	Disabled             bool
	ExtraVenvPkgs        []string
	BaseCommandOverrides map[StepName][]string
	Source               ManifestKind
}

// ManifestKind distinguishes which manifest form produced a Project.
type ManifestKind string

const (
	ManifestDeclarative  ManifestKind = "declarative"
	ManifestProgrammatic ManifestKind = "programmatic"
)

// NewProject builds a Project whose WorkingDir is derived from manifestPath,
// satisfying the invariant that a Project's working directory is its
// manifest path's parent.
func NewProject(manifestPath string) *Project {
	return &Project{
		ManifestPath:     manifestPath,
		WorkingDir:       filepath.Dir(manifestPath),
		RequiredCoverage: map[string]float64{},
	}
}

// HasCoverageRequirement reports whether analyze_coverage is a required step.
func (p *Project) HasCoverageRequirement() bool {
	return len(p.RequiredCoverage) > 0
}
