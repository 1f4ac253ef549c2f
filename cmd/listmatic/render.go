package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/listmatic/backend/internal/domain"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	scoreHighStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	scoreMedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	scoreLowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statsBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// renderResults formats one line per result, coloured by score class
func renderResults(results []domain.MatchResult, stats domain.MatchStats) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Smart Match Results"))
	b.WriteString("\n")

	for i, r := range results {
		marker := "✓"
		if !r.Matched {
			marker = "✗"
		}
		if r.FromCorrection {
			marker = "★"
		}

		line := fmt.Sprintf("#%-3d %s %s %s  %s | %d  %s",
			i+1,
			marker,
			r.Brand,
			r.Model,
			r.Storage,
			r.Price,
			scoreStyle(r).Render(fmt.Sprintf("%d%%", r.Score)),
		)
		b.WriteString(line)
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("     " + r.Original))
		b.WriteString("\n")
	}

	b.WriteString(statsBoxStyle.Render(fmt.Sprintf("Total: %d   Matched: %d   Unmatched: %d",
		stats.Total, stats.Matched, stats.Unmatched)))

	return b.String()
}

func scoreStyle(r domain.MatchResult) lipgloss.Style {
	switch r.ScoreClass() {
	case "high":
		return scoreHighStyle
	case "medium":
		return scoreMedStyle
	default:
		return scoreLowStyle
	}
}
