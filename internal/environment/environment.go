// Package environment implements the Environment Provisioner of spec
// §4.3: create or adopt one isolated interpreter root shared by every
// Project in a run, install the baseline package set plus any
// user-supplied base requirements, and release it on every exit path
// when owned.
package environment

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hochfrequenz/ptr-orchestrator/internal/domain"
)

// DefaultBasePackages mirrors ptr.py's _config_default venv_pkgs
// default: "black coverage mypy pip setuptools".
var DefaultBasePackages = []string{"black", "coverage", "mypy", "pip", "setuptools"}

const pipConfTemplate = "[global]\nindex-url = %s\ntimeout = %d\n"

// Request carries the Provisioner's inputs, matching the CLI surface of
// spec §6 (--venv, --mirror, --system-site-packages, --venv-timeout).
type Request struct {
	AdoptPath               string
	MirrorURL               string
	AllowSystemSitePackages bool
	// BaseRequirements, when non-empty, overrides DefaultBasePackages as
	// the set installed into the shared environment (root defaults'
	// venv_pkgs key).
	BaseRequirements []string
	Timeout          time.Duration
	Debug            bool
}

// Provision creates or adopts one Environment. On the create path it
// upgrades pip and installs DefaultBasePackages, or BaseRequirements in
// their place when given, bounded by Timeout. Failures are fatal per spec §4.3 and must abort the run
// before any Pipeline Runner starts.
func Provision(ctx context.Context, req Request) (*domain.Environment, error) {
	if req.AdoptPath != "" {
		return adopt(req.AdoptPath)
	}
	return create(ctx, req)
}

func adopt(path string) (*domain.Environment, error) {
	interpreter := filepath.Join(path, "bin", "python3")
	installer := filepath.Join(path, "bin", "pip")
	if _, err := os.Stat(interpreter); err != nil {
		return nil, fmt.Errorf("adopted environment %s: interpreter not found: %w", path, err)
	}
	if _, err := os.Stat(installer); err != nil {
		return nil, fmt.Errorf("adopted environment %s: installer not found: %w", path, err)
	}
	return &domain.Environment{
		Root:            path,
		InterpreterPath: interpreter,
		InstallerPath:   installer,
		Ownership:       domain.OwnershipAdopted,
	}, nil
}

func create(ctx context.Context, req Request) (*domain.Environment, error) {
	root := filepath.Join(os.TempDir(), fmt.Sprintf("ptr-venv-%s", uuid.NewString()))

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	createCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	venvArgs := []string{"-m", "venv"}
	if req.AllowSystemSitePackages {
		venvArgs = append(venvArgs, "--system-site-packages")
	}
	venvArgs = append(venvArgs, root)

	if req.Debug {
		log.Printf("[environment] creating venv at %s", root)
	}
	cmd := exec.CommandContext(createCtx, pythonInterpreter(), venvArgs...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("creating environment: %s: %w", out, err)
	}

	env := &domain.Environment{
		Root:               root,
		InterpreterPath:    filepath.Join(root, "bin", "python3"),
		InstallerPath:      filepath.Join(root, "bin", "pip"),
		Ownership:          domain.OwnershipCreated,
		MirrorURL:          req.MirrorURL,
		SystemSitePackages: req.AllowSystemSitePackages,
	}

	if req.MirrorURL != "" {
		if err := writePipConf(root, req.MirrorURL, timeout); err != nil {
			return nil, fmt.Errorf("writing pip.conf: %w", err)
		}
	}

	// BaseRequirements, when supplied (root defaults' venv_pkgs key),
	// replaces the baseline set rather than extending it; a Project's own
	// venv_pkgs is what merges in, at install time in internal/step.
	pkgs := DefaultBasePackages
	if len(req.BaseRequirements) > 0 {
		pkgs = req.BaseRequirements
	}
	if err := installBase(createCtx, env, pkgs, req.Debug); err != nil {
		return nil, fmt.Errorf("installing base requirements: %w", err)
	}

	return env, nil
}

// writePipConf points the environment's installer at a mirror for every
// subsequent invocation, matching ptr.py's _set_pip_mirror.
func writePipConf(root, mirrorURL string, timeout time.Duration) error {
	content := fmt.Sprintf(pipConfTemplate, mirrorURL, int(timeout.Seconds()))
	return os.WriteFile(filepath.Join(root, "pip.conf"), []byte(content), 0o644)
}

func installBase(ctx context.Context, env *domain.Environment, pkgs []string, debug bool) error {
	upgradeArgs := []string{"install", "--upgrade", "pip"}
	if debug {
		log.Printf("[environment] upgrading installer: %s", strings.Join(upgradeArgs, " "))
	}
	if out, err := exec.CommandContext(ctx, env.InstallerPath, upgradeArgs...).CombinedOutput(); err != nil {
		return fmt.Errorf("upgrading pip: %s: %w", out, err)
	}

	if len(pkgs) == 0 {
		return nil
	}
	installArgs := append([]string{"install"}, pkgs...)
	if debug {
		log.Printf("[environment] installing base packages: %s", strings.Join(installArgs, " "))
	}
	if out, err := exec.CommandContext(ctx, env.InstallerPath, installArgs...).CombinedOutput(); err != nil {
		return fmt.Errorf("installing base packages: %s: %w", out, err)
	}
	return nil
}

func pythonInterpreter() string {
	if p, err := exec.LookPath("python3"); err == nil {
		return p
	}
	return "python3"
}

// Release deletes an owned Environment's root, unless keep is set.
// Adopted environments are never deleted. Callers defer this
// unconditionally so it runs on every exit path, including signal-driven
// cancellation.
func Release(env *domain.Environment, keep bool) error {
	if env == nil || !env.Owned() || keep {
		return nil
	}
	return os.RemoveAll(env.Root)
}
