package manifest

import (
	"reflect"
	"testing"
)

func TestParsePyLiteral_Mapping(t *testing.T) {
	lit, err := parsePyLiteral(`{
		"test_suite": "tests.test_foo",
		"test_suite_timeout": 30,
		"run_mypy": True,
		"required_coverage": {"foo.py": 90, "TOTAL": 95.5},
		"venv_pkgs": ["requests", "pyyaml"],
	}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, ok := lit.(map[string]interface{})
	if !ok {
		t.Fatalf("expected map, got %T", lit)
	}
	if m["test_suite"] != "tests.test_foo" {
		t.Errorf("got test_suite=%v", m["test_suite"])
	}
	if m["run_mypy"] != true {
		t.Errorf("got run_mypy=%v", m["run_mypy"])
	}
}

func TestParsePyLiteral_RejectsNonLiteral(t *testing.T) {
	_, err := parsePyLiteral(`{"test_suite": some_function_call()}`)
	if err == nil {
		t.Fatal("expected error for non-literal value")
	}
}

func TestFindTopLevelAssignments_IgnoresIndented(t *testing.T) {
	src := "import os\n\ndef f():\n    ptr_params = {}\n\nptr_params = {\"test_suite\": \"a\"}\n"
	matches := findTopLevelAssignments(src, "ptr_params")
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1: %v", len(matches), matches)
	}
}

func TestFindTopLevelAssignments_MultilineDict(t *testing.T) {
	src := "ptr_params = {\n    \"test_suite\": \"a\",\n    \"run_mypy\": True,\n}\n"
	matches := findTopLevelAssignments(src, "ptr_params")
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	lit, err := parsePyLiteral(matches[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := lit.(map[string]interface{})
	if m["test_suite"] != "a" {
		t.Errorf("got %v", m)
	}
}

func TestCoerceRequiredCoverage(t *testing.T) {
	got, err := coerceRequiredCoverage("foo.py = 90\nTOTAL = 95.5\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]float64{"foo.py": 90, "TOTAL": 95.5}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCoerceBool(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want bool
	}{
		{"true", true}, {"Yes", true}, {"1", true},
		{"false", false}, {"NO", false}, {"0", false},
	} {
		got, err := coerceBool(tc.in)
		if err != nil || got != tc.want {
			t.Errorf("coerceBool(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
	}
	if _, err := coerceBool("maybe"); err == nil {
		t.Error("expected error for non-boolean literal")
	}
}
