package manifest

import (
	"fmt"
	"os"

	"github.com/go-ini/ini"
)

// declarativeKeys is the closed key set of spec §6, mapped to how each
// scalar value is coerced.
var declarativeKeys = map[string]string{
	"entry_point_module":    "string",
	"test_suite":            "string",
	"test_suite_timeout":    "int",
	"required_coverage":     "coverage",
	"required_coverage_pct": "float",
	"run_black":             "bool",
	"run_mypy":              "bool",
	"run_flake8":            "bool",
	"run_pylint":            "bool",
	"run_pyre":              "bool",
	"run_usort":             "bool",
	"disabled":              "bool",
	"venv_pkgs":             "list",
}

// loadDeclarative parses the ToolSection from an INI-shaped manifest
// file. It returns (nil, nil) when the file doesn't exist or lacks the
// section - both are "not a Project", not errors, per spec §4.1.
func loadDeclarative(path string) (rawManifest, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}
	return loadDeclarativeSection(path, ToolSection)
}

func loadDeclarativeSection(path, sectionName string) (rawManifest, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{AllowPythonMultilineValues: true}, path)
	if err != nil {
		return nil, fmt.Errorf("parsing ini: %w", err)
	}
	if !cfg.HasSection(sectionName) {
		return nil, nil
	}
	section := cfg.Section(sectionName)

	raw := rawManifest{}
	for _, key := range section.Keys() {
		kind, known := declarativeKeys[key.Name()]
		if !known {
			// Unknown keys are ignored, not fatal - the closed set in
			// §6 is what the Loader understands; extras are for other
			// tools that might share the same section name.
			continue
		}
		val, err := coerceDeclarativeValue(kind, key.Value())
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key.Name(), err)
		}
		raw[key.Name()] = val
	}
	return raw, nil
}

func coerceDeclarativeValue(kind, value string) (interface{}, error) {
	switch kind {
	case "string":
		return value, nil
	case "int":
		return coerceInt(value)
	case "float":
		return coerceFloat(value)
	case "bool":
		return coerceBool(value)
	case "list":
		return coerceList(value), nil
	case "coverage":
		return coerceRequiredCoverage(value)
	default:
		return nil, fmt.Errorf("unknown coercion kind %q", kind)
	}
}
