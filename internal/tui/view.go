package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("220"))

	pointsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	detailsStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// View renders the active screen
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("♻ ReCreate"))
	b.WriteString("  ")
	b.WriteString(labelStyle.Render("turn your recyclables into something new"))
	b.WriteString("\n\n")

	switch m.view {
	case viewLogin:
		b.WriteString(m.loginView())
	case viewUpload:
		b.WriteString(m.uploadView())
	case viewAnalyze:
		b.WriteString(m.analyzeView())
	}

	if m.processing {
		b.WriteString("\n")
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(infoStyle.Render(m.statusText))
		b.WriteString("\n")
	}

	if m.notification != "" {
		b.WriteString("\n")
		switch m.notifyLevel {
		case "error":
			b.WriteString(errorStyle.Render(m.notification))
		case "success":
			b.WriteString(successStyle.Render(m.notification))
		default:
			b.WriteString(infoStyle.Render(m.notification))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.helpLine()))
	b.WriteString("\n")

	return b.String()
}

func (m Model) loginView() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Sign in"))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Username "))
	b.WriteString(m.usernameInput.View())
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Password "))
	b.WriteString(m.passwordInput.View())
	b.WriteString("\n")
	return b.String()
}

func (m Model) uploadView() string {
	var b strings.Builder
	b.WriteString(m.statusBar())
	b.WriteString("\n\n")
	b.WriteString(headerStyle.Render("Upload a photo of your recyclables"))
	b.WriteString("\n\n")
	b.WriteString(m.pathInput.View())
	b.WriteString("\n")
	return b.String()
}

func (m Model) analyzeView() string {
	var b strings.Builder
	b.WriteString(m.statusBar())
	b.WriteString("\n\n")

	if len(m.ideas) == 0 {
		return b.String()
	}

	b.WriteString(headerStyle.Render("Recycling ideas"))
	b.WriteString("\n\n")

	for i, idea := range m.ideas {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}

		title := idea.Title
		if i == m.selected {
			title = selectedStyle.Render(title + " ✔")
		}

		b.WriteString(fmt.Sprintf("%s%s\n", cursor, title))
		b.WriteString(fmt.Sprintf("    %s\n", labelStyle.Render(idea.Description)))
		b.WriteString(fmt.Sprintf("    %s · %s\n",
			labelStyle.Render(string(idea.Difficulty)),
			pointsStyle.Render(fmt.Sprintf("%d pts", idea.Points))))
	}

	if m.details != "" {
		b.WriteString("\n")
		b.WriteString(detailsStyle.Render(m.details))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) statusBar() string {
	return fmt.Sprintf("%s %s   %s %s   %s %s",
		labelStyle.Render("user:"), headerStyle.Render(m.username),
		labelStyle.Render("points:"), pointsStyle.Render(fmt.Sprintf("%d", m.points)),
		labelStyle.Render("projects:"), headerStyle.Render(fmt.Sprintf("%d", m.completedProjects)))
}

func (m Model) helpLine() string {
	switch m.view {
	case viewLogin:
		return "tab: switch field · enter: sign in · ctrl+c: quit"
	case viewUpload:
		return "enter: upload · ctrl+l: logout · ctrl+c: quit"
	default:
		return "↑/↓: move · enter: accept challenge · c: complete · n: new photo · ctrl+l: logout · q: quit"
	}
}
