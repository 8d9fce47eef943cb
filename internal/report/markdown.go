package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidymail/tidymail/internal/core"
)

// sectionTitles maps actions to the headings used in the Markdown report
var sectionTitles = []struct {
	action core.Action
	title  string
}{
	{core.ActionKeep, "Kept"},
	{core.ActionArchive, "Archived"},
	{core.ActionTrash, "Trashed"},
	{core.ActionLabel, "Labeled"},
}

// maxSubjectsPerSection bounds the per-action subject samples in the report
const maxSubjectsPerSection = 10

// BuildMarkdown renders a human-friendly Markdown report from a run report
func BuildMarkdown(r *core.RunReport, dryRun bool, modeAction string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Inbox Triage Report – %s\n\n", r.FinishedAt.Format("2006-01-02"))
	fmt.Fprintf(&b, "Duration: %.1fs\n\n", r.FinishedAt.Sub(r.StartedAt).Seconds())

	b.WriteString("## Summary\n")
	actions := make([]string, 0, len(r.Counts))
	for action := range r.Counts {
		actions = append(actions, action)
	}
	sort.Strings(actions)
	for _, action := range actions {
		fmt.Fprintf(&b, "- %s: %d\n", action, r.Counts[action])
	}
	fmt.Fprintf(&b, "- total: %d\n\n", r.Processed())

	for _, section := range sectionTitles {
		samples := r.Examples[string(section.action)]
		if len(samples) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s\n", section.title)
		if len(samples) > maxSubjectsPerSection {
			samples = samples[:maxSubjectsPerSection]
		}
		for _, subj := range samples {
			fmt.Fprintf(&b, "- %s\n", subj)
		}
		b.WriteString("\n")
	}

	if len(r.Errors) > 0 {
		b.WriteString("## Errors\n")
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "- %s\n", e)
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n")
	b.WriteString("Configuration snapshot:\n")
	fmt.Fprintf(&b, "- dry_run: %t\n", dryRun)
	fmt.Fprintf(&b, "- action: %s\n", modeAction)

	return b.String()
}

// Save writes the Markdown report to dir/<date>.md and returns the final path
func Save(markdown, dir string, date string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, date+".md")
	if err := os.WriteFile(path, []byte(markdown), 0644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
