// Command ptr is the CLI entrypoint for the test orchestrator: it wires
// the Discovery Walker, Environment Provisioner, Scheduler and Reporter
// together behind the flag surface of spec §6.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hochfrequenz/ptr-orchestrator/internal/orcherr"
)

var (
	flagAtOnce             int
	flagBaseDir            string
	flagDebug              bool
	flagErrorOnWarnings    bool
	flagKeepVenv           bool
	flagMirror             string
	flagPrintCov           bool
	flagPrintNonConfigured bool
	flagProgressInterval   int
	flagRunDisabled        bool
	flagStatsFile          string
	flagSystemSitePkgs     bool
	flagVenv               string
	flagVenvTimeout        int

	rootCmd = &cobra.Command{
		Use:   "ptr",
		Short: "Discover and run every project's test suite under one shared environment",
		Long: `ptr walks a source tree for per-project test manifests, provisions one
shared interpreter environment, and runs each project's pipeline of
tests, coverage enforcement, formatting, and lint steps with bounded
parallelism.`,
		RunE: runOrchestrator,
	}
)

func init() {
	flags := rootCmd.Flags()
	flags.IntVar(&flagAtOnce, "atonce", 6, "maximum number of projects to run concurrently")
	flags.StringVar(&flagBaseDir, "base-dir", "", "discovery root (default: current directory)")
	flags.BoolVar(&flagDebug, "debug", false, "verbose diagnostics")
	flags.BoolVar(&flagErrorOnWarnings, "error-on-warnings", false, "promote interpreter deprecation warnings to errors in tests_run")
	flags.BoolVar(&flagKeepVenv, "keep-venv", false, "do not delete an owned environment on exit")
	flags.StringVar(&flagMirror, "mirror", "", "package installer index URL")
	flags.BoolVar(&flagPrintCov, "print-cov", false, "print per-project coverage summary even on pass")
	flags.BoolVar(&flagPrintNonConfigured, "print-non-configured", false, "print discovered manifests that did not yield a project")
	flags.IntVar(&flagProgressInterval, "progress-interval", 10, "heartbeat interval in seconds, 0 disables")
	flags.BoolVar(&flagRunDisabled, "run-disabled", false, "run projects marked disabled")
	flags.StringVar(&flagStatsFile, "stats-file", "", "path to write the JSON statistics artifact (default: a tempfile)")
	flags.BoolVar(&flagSystemSitePkgs, "system-site-packages", false, "allow the created environment to see system site packages")
	flags.StringVar(&flagVenv, "venv", "", "adopt an existing environment instead of creating one")
	flags.IntVar(&flagVenvTimeout, "venv-timeout", 120, "environment provisioning timeout in seconds")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if oe, ok := err.(*orcherr.Error); ok {
			os.Exit(orcherr.ExitCode(oe.Kind))
		}
		os.Exit(orcherr.ExitProjectFailure)
	}
}
