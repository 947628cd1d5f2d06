package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/hochfrequenz/ptr-orchestrator/internal/discovery"
	"github.com/hochfrequenz/ptr-orchestrator/internal/domain"
	"github.com/hochfrequenz/ptr-orchestrator/internal/environment"
	"github.com/hochfrequenz/ptr-orchestrator/internal/manifest"
	"github.com/hochfrequenz/ptr-orchestrator/internal/orcherr"
	"github.com/hochfrequenz/ptr-orchestrator/internal/orchestrator"
	"github.com/hochfrequenz/ptr-orchestrator/internal/pipeline"
	"github.com/hochfrequenz/ptr-orchestrator/internal/report"
	"github.com/hochfrequenz/ptr-orchestrator/internal/step"
)

func runOrchestrator(cmd *cobra.Command, args []string) error {
	baseDir := flagBaseDir
	if baseDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return orcherr.New(orcherr.KindInternal, "resolving current directory", err)
		}
		baseDir = cwd
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Print("[ptr] received interrupt, cancelling in-flight projects")
		cancel()
	}()

	rootCfg, err := manifest.LoadRootConfig(baseDir)
	if err != nil {
		log.Printf("[ptr] warning: %v", err)
	}

	excludePatterns := discovery.DefaultExcludePatterns
	if len(rootCfg.ExcludePatterns) > 0 {
		excludePatterns = rootCfg.ExcludePatterns
	}

	if flagDebug {
		log.Printf("[ptr] discovering manifests under %s", baseDir)
	}
	results, candidateCount, err := discovery.Walk(baseDir, discovery.Options{
		ExcludePatterns: excludePatterns,
	})
	if err != nil {
		return orcherr.New(orcherr.KindInternal, "walking "+baseDir, err)
	}

	var projects []*domain.Project
	var nonConfigured []string
	for _, r := range results {
		if r.Project != nil {
			projects = append(projects, r.Project)
			continue
		}
		nonConfigured = append(nonConfigured, r.CandidatePath)
	}

	if len(projects) == 0 {
		return orcherr.New(orcherr.KindDiscoveryEmpty, fmt.Sprintf("no projects configured under %s (%d candidates seen)", baseDir, candidateCount), nil)
	}

	env, err := environment.Provision(ctx, environment.Request{
		AdoptPath:               flagVenv,
		MirrorURL:               flagMirror,
		AllowSystemSitePackages: flagSystemSitePkgs,
		BaseRequirements:        rootCfg.VenvPkgs,
		Timeout:                 time.Duration(flagVenvTimeout) * time.Second,
		Debug:                   flagDebug,
	})
	if err != nil {
		return orcherr.New(orcherr.KindProvision, "provisioning environment", err)
	}
	defer func() {
		if releaseErr := environment.Release(env, flagKeepVenv); releaseErr != nil {
			log.Printf("[ptr] warning: releasing environment: %v", releaseErr)
		}
	}()

	stepEnv := step.Env{}
	if flagErrorOnWarnings {
		stepEnv.Overrides = map[string]string{"PYTHONWARNINGS": "error"}
	}
	if prefix := rootCfg.ExtraBuildEnvPrefix; prefix != "" {
		stepEnv.ExtraPath = prefix + "/bin:" + prefix + "/sbin"
		stepEnv.ExtraIncludePath = prefix + "/include"
	}

	sched := orchestrator.New(orchestrator.Config{
		AtOnce:           flagAtOnce,
		ProgressInterval: time.Duration(flagProgressInterval) * time.Second,
		RunnerConfig: pipeline.RunnerConfig{
			Env:           env,
			StepEnv:       stepEnv,
			ForceDisabled: flagRunDisabled,
			PrintCov:      flagPrintCov,
		},
	})

	runReport := sched.Run(ctx, projects)
	runReport.DiscoveredCandidates = candidateCount

	report.WriteSummary(os.Stdout, runReport, nonConfigured, report.Options{
		PrintCov:           flagPrintCov,
		PrintNonConfigured: flagPrintNonConfigured,
		Color:              isatty.IsTerminal(os.Stdout.Fd()),
	})

	statsPath := flagStatsFile
	if statsPath == "" {
		statsPath = filepath.Join(os.TempDir(), "ptr-stats.json")
	}
	if err := report.WriteStatsFile(statsPath, report.BuildStats(runReport)); err != nil {
		log.Printf("[ptr] warning: %v", err)
	}

	if ctx.Err() != nil {
		return orcherr.New(orcherr.KindCancelled, "run cancelled", nil)
	}
	if !runReport.ExitOK() {
		return orcherr.New(orcherr.KindStepFailure, fmt.Sprintf("%d project(s) failed or timed out", runReport.Fail+runReport.Timeout), nil)
	}
	return nil
}
