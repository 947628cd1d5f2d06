package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_DeclarativeOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ptrconfig.ini"), "[ptr]\ntest_suite = tests.test_foo\nrun_mypy = true\n")
	setupPy := filepath.Join(dir, "setup.py")
	writeFile(t, setupPy, "# not a manifest\n")

	proj, err := Load(setupPy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proj == nil {
		t.Fatal("expected a Project")
	}
	if proj.TestSuite != "tests.test_foo" || !proj.Flags.RunMypy {
		t.Errorf("got %+v", proj)
	}
	if proj.Source != "declarative" {
		t.Errorf("got Source=%v", proj.Source)
	}
}

func TestLoad_DeclarativeWinsOverProgrammatic(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ptrconfig.ini"), "[ptr]\ntest_suite = tests.from_ini\n")
	setupPy := filepath.Join(dir, "setup.py")
	writeFile(t, setupPy, `ptr_params = {"test_suite": "tests.from_py"}`+"\n")

	proj, err := Load(setupPy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proj.TestSuite != "tests.from_ini" {
		t.Errorf("got TestSuite=%q, want declarative form to win", proj.TestSuite)
	}
}

func TestLoad_ProgrammaticOnly(t *testing.T) {
	dir := t.TempDir()
	setupPy := filepath.Join(dir, "setup.py")
	writeFile(t, setupPy, `ptr_params = {"test_suite": "tests.from_py", "run_black": True}`+"\n")

	proj, err := Load(setupPy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proj == nil {
		t.Fatal("expected a Project")
	}
	if proj.TestSuite != "tests.from_py" || !proj.Flags.RunBlack {
		t.Errorf("got %+v", proj)
	}
}

func TestLoad_NoToolSection_NotAProject(t *testing.T) {
	dir := t.TempDir()
	setupPy := filepath.Join(dir, "setup.py")
	writeFile(t, setupPy, "print('hello')\n")

	proj, err := Load(setupPy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proj != nil {
		t.Errorf("expected nil Project, got %+v", proj)
	}
}

func TestLoad_RootDefaultsMerge(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".ptrconfig"), "[ptr]\nrun_mypy = true\n")
	projDir := filepath.Join(root, "sub", "libfoo")
	writeFile(t, filepath.Join(projDir, "ptrconfig.ini"), "[ptr]\ntest_suite = tests.test_foo\n")
	setupPy := filepath.Join(projDir, "setup.py")
	writeFile(t, setupPy, "# placeholder\n")

	proj, err := Load(setupPy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proj == nil {
		t.Fatal("expected a Project")
	}
	if !proj.Flags.RunMypy {
		t.Errorf("expected root defaults run_mypy=true to apply, got %+v", proj.Flags)
	}
}

func TestLoad_ProjectOverridesDefaults(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".ptrconfig"), "[ptr]\nrun_mypy = true\n")
	projDir := filepath.Join(root, "libfoo")
	writeFile(t, filepath.Join(projDir, "ptrconfig.ini"), "[ptr]\ntest_suite = tests.test_foo\nrun_mypy = false\n")
	setupPy := filepath.Join(projDir, "setup.py")
	writeFile(t, setupPy, "# placeholder\n")

	proj, err := Load(setupPy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proj.Flags.RunMypy {
		t.Errorf("expected project-level override to win, got RunMypy=true")
	}
}
