// Package report implements the Reporter / Stats Writer of spec §4.8:
// it prints the human-readable summary, writes the JSON statistics
// artifact, and validates that artifact against the fixed schema of
// spec §6.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hochfrequenz/ptr-orchestrator/internal/domain"
)

var (
	passStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	failStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	timeoutStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	dimmedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Options controls which optional sections the Reporter prints.
type Options struct {
	PrintCov           bool
	PrintNonConfigured bool
	Color              bool // gate lipgloss styling on TTY detection at the call site
}

// WriteSummary prints the one-line PASS/FAIL/TIMEOUT/TOTAL summary
// followed by one block per failed or timed-out Project, in discovery
// order. Skipped (disabled or cancelled) Projects get no block.
func WriteSummary(w io.Writer, report *domain.RunReport, nonConfigured []string, opts Options) {
	fmt.Fprintln(w, summaryLine(report, opts))

	for _, o := range report.Outcomes {
		if o.Terminal == domain.Pass || o.Terminal == domain.SkippedDisabled || o.Terminal == domain.SkippedCancelled {
			if opts.PrintCov && o.Terminal == domain.Pass && len(o.CoverageReport) > 0 {
				fmt.Fprintln(w, coverageBlock(o))
			}
			continue
		}
		fmt.Fprintln(w, failureBlock(o, opts))
	}

	if opts.PrintNonConfigured && len(nonConfigured) > 0 {
		fmt.Fprintln(w, style(opts, headerStyle, "Discovered but not configured:"))
		for _, path := range nonConfigured {
			fmt.Fprintln(w, "  "+path)
		}
	}
}

func summaryLine(report *domain.RunReport, opts Options) string {
	line := fmt.Sprintf("PASS: %d FAIL: %d TIMEOUT: %d TOTAL: %d (%.1fs)",
		report.Pass, report.Fail, report.Timeout, report.Total, report.Duration.Seconds())
	if !opts.Color {
		return line
	}
	return fmt.Sprintf("%s FAIL: %s TIMEOUT: %s TOTAL: %d (%.1fs)",
		passStyle.Render(fmt.Sprintf("PASS: %d", report.Pass)),
		failStyle.Render(fmt.Sprintf("%d", report.Fail)),
		timeoutStyle.Render(fmt.Sprintf("%d", report.Timeout)),
		report.Total, report.Duration.Seconds())
}

func failureBlock(o *domain.ProjectOutcome, opts Options) string {
	var b strings.Builder
	header := fmt.Sprintf("%s (failed '%s' step):", o.Project.ManifestPath, o.FailedStep)
	fmt.Fprintln(&b, style(opts, headerStyle, header))
	for _, so := range o.Steps {
		if so.Classification == domain.Fail || so.Classification == domain.Timeout {
			fmt.Fprintln(&b, so.Output)
		}
	}
	return b.String()
}

func coverageBlock(o *domain.ProjectOutcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s coverage:\n", o.Project.ManifestPath)
	for path, pct := range o.CoverageReport {
		fmt.Fprintf(&b, "  %s: %.1f%%\n", path, pct)
	}
	return b.String()
}

func style(opts Options, s lipgloss.Style, text string) string {
	if !opts.Color {
		return text
	}
	return s.Render(text)
}
