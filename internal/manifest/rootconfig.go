package manifest

import (
	"fmt"
	"os"

	"github.com/go-ini/ini"
)

// RootConfig carries the orchestrator-wide settings the root defaults
// file (DefaultsFileName, found directly under the base directory) may
// declare, in addition to the per-project defaults loadDefaults already
// merges. These are distinct from the declarative per-project key set:
// they configure the Discovery Walker and Environment Provisioner
// themselves, once, rather than a Project's options.
type RootConfig struct {
	// ExcludePatterns overrides the Discovery Walker's default skip-list
	// (whitespace-separated directory name globs).
	ExcludePatterns []string
	// VenvPkgs overrides the Environment Provisioner's baseline package
	// set installed into every run's shared environment.
	VenvPkgs []string
	// ExtraBuildEnvPrefix, when set, is prepended as <prefix>/bin and
	// <prefix>/sbin to PATH and <prefix>/include to C_INCLUDE_PATH/
	// CPLUS_INCLUDE_PATH for every step subprocess.
	ExtraBuildEnvPrefix string
}

// LoadRootConfig reads baseDir/DefaultsFileName's [ptr] section for the
// orchestrator-wide keys. A missing file is not an error: the caller
// falls back to its own defaults.
func LoadRootConfig(baseDir string) (RootConfig, error) {
	path := baseDir + string(os.PathSeparator) + DefaultsFileName
	if _, err := os.Stat(path); err != nil {
		return RootConfig{}, nil
	}

	cfg, err := ini.LoadSources(ini.LoadOptions{AllowPythonMultilineValues: true}, path)
	if err != nil {
		return RootConfig{}, fmt.Errorf("parsing root config %s: %w", path, err)
	}
	if !cfg.HasSection(ToolSection) {
		return RootConfig{}, nil
	}
	section := cfg.Section(ToolSection)

	var rc RootConfig
	if key, err := section.GetKey("exclude_patterns"); err == nil {
		rc.ExcludePatterns = coerceList(key.Value())
	}
	if key, err := section.GetKey("venv_pkgs"); err == nil {
		rc.VenvPkgs = coerceList(key.Value())
	}
	if key, err := section.GetKey("extra_build_env_prefix"); err == nil {
		rc.ExtraBuildEnvPrefix = key.Value()
	}
	return rc, nil
}
