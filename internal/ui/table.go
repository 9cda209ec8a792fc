package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/grm-sh/grm/internal/scan"
)

// FormatWorktreesTable renders discovered worktrees as a table with REPO,
// BRANCH and PATH columns. Returns the empty string for an empty list.
func FormatWorktreesTable(worktrees []scan.Worktree) string {
	if len(worktrees) == 0 {
		return ""
	}

	maxRepoWidth := len("REPO")
	maxBranchWidth := len("BRANCH")
	maxPathWidth := len("PATH")

	var rows []table.Row
	for _, wt := range worktrees {
		repo := wt.Location.Remote().String()
		branch := wt.Location.Branch
		path := wt.Dir

		if len(repo) > maxRepoWidth {
			maxRepoWidth = len(repo)
		}
		if len(branch) > maxBranchWidth {
			maxBranchWidth = len(branch)
		}
		if len(path) > maxPathWidth {
			maxPathWidth = len(path)
		}
		rows = append(rows, table.Row{repo, branch, path})
	}

	columns := []table.Column{
		{Title: "REPO", Width: maxRepoWidth + 2},
		{Title: "BRANCH", Width: maxBranchWidth + 2},
		{Title: "PATH", Width: maxPathWidth},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true).
		Padding(0)
	s.Cell = lipgloss.NewStyle().Padding(0)
	s.Selected = lipgloss.NewStyle().Padding(0)
	t.SetStyles(s)

	var output strings.Builder
	output.WriteString(t.View())
	output.WriteString("\n")
	return output.String()
}
