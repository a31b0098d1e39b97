package tui

import (
	"context"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/recreate-labs/recreate/internal/models"
	"github.com/recreate-labs/recreate/pkg/client"
)

type loginResultMsg struct {
	resp *models.LoginResponse
	err  error
}

type analyzeResultMsg struct {
	imageURL string
	ideas    []models.RecyclingIdea
	err      error
}

type detailsResultMsg struct {
	steps string
	err   error
}

type completeResultMsg struct {
	resp *models.CompleteProjectResponse
	err  error
}

func loginCmd(api *client.Client, username, password string) tea.Cmd {
	return func() tea.Msg {
		resp, err := api.Login(context.Background(), username, password)
		return loginResultMsg{resp: resp, err: err}
	}
}

func uploadCmd(api *client.Client, path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return analyzeResultMsg{err: err}
		}
		defer f.Close()

		resp, err := api.Upload(context.Background(), filepath.Base(path), f)
		if err != nil {
			return analyzeResultMsg{err: err}
		}
		return analyzeResultMsg{imageURL: resp.ImageURL, ideas: resp.RecyclingIdeas}
	}
}

func detailsCmd(api *client.Client, title, description string) tea.Cmd {
	return func() tea.Msg {
		steps, err := api.ChallengeDetails(context.Background(), title, description)
		return detailsResultMsg{steps: steps, err: err}
	}
}

func completeCmd(api *client.Client, ideaID string) tea.Cmd {
	return func() tea.Msg {
		resp, err := api.CompleteProject(context.Background(), ideaID)
		return completeResultMsg{resp: resp, err: err}
	}
}
