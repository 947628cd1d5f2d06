// Package manifest implements the Manifest Loader of spec §4.1: it
// recognizes two on-disk manifest kinds (declarative INI-style and
// programmatic Python-literal-style), coerces their scalar options into
// a domain.Project, and applies the root-defaults merge and declarative-
// over-programmatic precedence rules.
package manifest

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/hochfrequenz/ptr-orchestrator/internal/domain"
)

// ToolSection / ToolParam are the fixed names the Loader looks for:
// an INI section "[ptr]" in the declarative form, or a top-level
// assignment "ptr_params = {...}" in the programmatic form.
const (
	ToolSection = "ptr"
	ToolParam   = "ptr_params"
)

// DeclarativeFileName is the recognized declarative manifest filename.
// Programmatic manifests are recognized by the "setup.py" and ".ptr.py"
// name suffixes in IsCandidate.
const DeclarativeFileName = "ptrconfig.ini"

// DefaultsFileName is the root-level defaults file name, walked for
// from a project's directory up to filesystem root (spec §4.1).
const DefaultsFileName = ".ptrconfig"

// IsCandidate reports whether a file name matches a recognized manifest kind.
func IsCandidate(name string) bool {
	return name == DeclarativeFileName || strings.HasSuffix(name, "setup.py") || strings.HasSuffix(name, ".ptr.py")
}

// Load parses path (a discovery candidate) and returns a Project, or nil
// if the candidate does not carry the tool's section/variable (not an
// error: discovery skips those silently per spec §4.1).
func Load(path string) (*domain.Project, error) {
	declPath := filepath.Join(filepath.Dir(path), DeclarativeFileName)
	declRaw, declErr := loadDeclarative(declPath)
	if declErr != nil {
		log.Printf("[manifest] warning: malformed declarative manifest %s: %v", declPath, declErr)
		declRaw = nil
	}

	var progRaw rawManifest
	if strings.HasSuffix(path, ".py") {
		raw, err := loadProgrammatic(path)
		if err != nil {
			log.Printf("[manifest] warning: malformed programmatic manifest %s: %v", path, err)
		} else {
			progRaw = raw
		}
	}

	// Precedence: declarative wins when both forms carry the tool's
	// section/variable in the same directory.
	var raw rawManifest
	var kind domain.ManifestKind
	switch {
	case declRaw != nil:
		raw = declRaw
		kind = domain.ManifestDeclarative
	case progRaw != nil:
		raw = progRaw
		kind = domain.ManifestProgrammatic
	default:
		return nil, nil
	}

	defaults := loadDefaults(filepath.Dir(path))
	merged := mergeDefaults(defaults, raw)

	proj, err := buildProject(path, merged)
	if err != nil {
		log.Printf("[manifest] warning: %s: %v", path, err)
		return nil, nil
	}
	proj.Source = kind
	return proj, nil
}

// rawManifest is the coerced but not-yet-validated key/value bag common
// to both manifest forms, after string-to-type coercion.
type rawManifest map[string]interface{}

// mergeDefaults applies root-defaults-then-project-overrides precedence.
func mergeDefaults(defaults, project rawManifest) rawManifest {
	merged := make(rawManifest, len(defaults)+len(project))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range project {
		merged[k] = v
	}
	return merged
}

// loadDefaults walks from dir up to filesystem root looking for the
// first DefaultsFileName file, per spec §4.1. Missing defaults is not
// an error.
func loadDefaults(dir string) rawManifest {
	cur := dir
	for {
		candidate := filepath.Join(cur, DefaultsFileName)
		if _, err := os.Stat(candidate); err == nil {
			raw, err := loadDeclarativeSection(candidate, ToolSection)
			if err != nil {
				log.Printf("[manifest] warning: malformed defaults file %s: %v", candidate, err)
				return nil
			}
			return raw
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return nil
		}
		cur = parent
	}
}

// buildProject turns a coerced key/value bag into a domain.Project,
// applying the closed key set and coercion rules of spec §6.
func buildProject(manifestPath string, raw rawManifest) (*domain.Project, error) {
	p := domain.NewProject(manifestPath)

	if v, ok := raw["entry_point_module"].(string); ok {
		p.EntryPointModule = v
	}
	if v, ok := raw["test_suite"].(string); ok {
		p.TestSuite = v
	}
	if p.TestSuite == "" {
		return nil, fmt.Errorf("missing required key test_suite")
	}

	p.TestSuiteTimeout = 60
	if v, ok := raw["test_suite_timeout"].(int64); ok {
		p.TestSuiteTimeout = int(v)
	}

	if v, ok := raw["required_coverage"].(map[string]float64); ok {
		for k, pct := range v {
			p.RequiredCoverage[k] = pct
		}
	}
	// required_coverage_pct is a back-compat alias that sets the TOTAL
	// requirement only, when required_coverage was not itself given.
	if len(p.RequiredCoverage) == 0 {
		if v, ok := raw["required_coverage_pct"].(float64); ok {
			p.RequiredCoverage["TOTAL"] = v
		}
	}

	p.Flags.RunBlack = boolOf(raw, "run_black")
	p.Flags.RunMypy = boolOf(raw, "run_mypy")
	p.Flags.RunFlake8 = boolOf(raw, "run_flake8")
	p.Flags.RunPylint = boolOf(raw, "run_pylint")
	p.Flags.RunPyre = boolOf(raw, "run_pyre")

	p.Disabled = boolOf(raw, "disabled")

	if v, ok := raw["venv_pkgs"].([]string); ok {
		p.ExtraVenvPkgs = v
	}

	return p, nil
}

func boolOf(raw rawManifest, key string) bool {
	v, ok := raw[key].(bool)
	return ok && v
}
