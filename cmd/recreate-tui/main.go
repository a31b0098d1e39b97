package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/recreate-labs/recreate/internal/tui"
	"github.com/recreate-labs/recreate/pkg/client"
)

func main() {
	serverURL := os.Getenv("RECREATE_SERVER_URL")
	if serverURL == "" {
		serverURL = "http://localhost:3001"
	}

	api := client.NewClient(serverURL)

	p := tea.NewProgram(tui.NewModel(api), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error running program: %v\n", err)
		os.Exit(1)
	}
}
