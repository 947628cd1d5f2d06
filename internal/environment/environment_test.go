package environment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hochfrequenz/ptr-orchestrator/internal/domain"
)

func TestAdopt_MissingInterpreter(t *testing.T) {
	dir := t.TempDir()
	_, err := adopt(dir)
	if err == nil {
		t.Fatal("expected error for adopted path missing interpreter/installer")
	}
}

func TestAdopt_Succeeds(t *testing.T) {
	dir := t.TempDir()
	binDir := filepath.Join(dir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"python3", "pip"} {
		if err := os.WriteFile(filepath.Join(binDir, name), []byte("#!/bin/sh\n"), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	env, err := adopt(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.Ownership != domain.OwnershipAdopted {
		t.Errorf("got Ownership=%v, want adopted", env.Ownership)
	}
	if env.Owned() {
		t.Error("adopted environment should not be Owned()")
	}
}

func TestRelease_AdoptedNeverDeleted(t *testing.T) {
	dir := t.TempDir()
	env := &domain.Environment{Root: dir, Ownership: domain.OwnershipAdopted}
	if err := Release(env, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("adopted root should still exist: %v", err)
	}
}

func TestRelease_OwnedAndKeptIsNotDeleted(t *testing.T) {
	dir := t.TempDir()
	env := &domain.Environment{Root: dir, Ownership: domain.OwnershipCreated}
	if err := Release(env, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("kept root should still exist: %v", err)
	}
}

func TestRelease_OwnedAndNotKeptIsDeleted(t *testing.T) {
	dir := t.TempDir()
	env := &domain.Environment{Root: dir, Ownership: domain.OwnershipCreated}
	if err := Release(env, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("owned root should have been deleted, stat err=%v", err)
	}
}
