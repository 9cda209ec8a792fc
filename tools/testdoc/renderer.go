package main

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"time"
)

// RenderMarkdown writes the test documentation as markdown, grouped by the
// grm command a test exercises (internal suites group by package path).
func RenderMarkdown(w io.Writer, packages []TestPackage) error {
	fmt.Fprintf(w, "# grm test documentation\n\n")
	fmt.Fprintf(w, "Generated: %s\n\n", time.Now().Format("2006-01-02"))

	groupMap := make(map[string][]TestFunc)
	for _, pkg := range packages {
		for _, file := range pkg.Files {
			for _, test := range file.Tests {
				g := groupFor(pkg.Name, test.Name)
				groupMap[g] = append(groupMap[g], test)
			}
		}
	}

	groups := make([]string, 0, len(groupMap))
	for g := range groupMap {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	fmt.Fprintf(w, "## Summary\n\n")
	fmt.Fprintf(w, "| Area | Tests |\n")
	fmt.Fprintf(w, "|------|-------|\n")
	total := 0
	for _, g := range groups {
		fmt.Fprintf(w, "| [%s](#%s) | %d |\n", g, toAnchor(g), len(groupMap[g]))
		total += len(groupMap[g])
	}
	fmt.Fprintf(w, "| **Total** | **%d** |\n\n", total)

	for _, g := range groups {
		renderGroup(w, g, groupMap[g])
	}

	return nil
}

func renderGroup(w io.Writer, group string, tests []TestFunc) {
	fmt.Fprintf(w, "## %s\n\n", group)
	fmt.Fprintf(w, "| Test | Scenario | Expected |\n")
	fmt.Fprintf(w, "|------|----------|----------|\n")

	for _, test := range tests {
		scenario, expected := test.Scenario, test.Expected
		if scenario == "" {
			scenario = test.Summary
		}
		fmt.Fprintf(w, "| `%s` | %s | %s |\n", test.Name, cell(scenario), cell(expected))
	}
	fmt.Fprintf(w, "\n")
}

// cell escapes a value for use inside a markdown table.
func cell(s string) string {
	if s == "" {
		return "_not documented_"
	}
	return strings.ReplaceAll(s, "|", "\\|")
}

// groupFor maps a command-level test to the grm command it exercises.
// Examples:
//   - cmd/grm TestClone_DefaultBranch -> grm clone
//   - cmd/grm TestWorktreeFlow        -> grm worktree
//   - internal/share TestShare        -> internal/share
func groupFor(pkg, testName string) string {
	if !strings.HasPrefix(pkg, "cmd/") {
		return pkg
	}

	name := strings.TrimPrefix(testName, "Test")
	for prefix, cmd := range map[string]string{
		"Clone":    "grm clone",
		"List":     "grm list",
		"Remove":   "grm remove",
		"Find":     "grm find",
		"Root":     "grm root",
		"Worktree": "grm worktree",
	} {
		if strings.HasPrefix(name, prefix) {
			return cmd
		}
	}
	return pkg
}

// toAnchor converts a group name to a markdown anchor.
func toAnchor(group string) string {
	anchor := strings.ReplaceAll(group, " ", "-")
	re := regexp.MustCompile(`[^a-zA-Z0-9-]`)
	anchor = re.ReplaceAllString(anchor, "")
	return strings.ToLower(anchor)
}
