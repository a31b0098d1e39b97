package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/recreate-labs/recreate/internal/models"
	"github.com/recreate-labs/recreate/pkg/client"
)

// view is the active screen of the client state machine
type view int

const (
	viewLogin view = iota
	viewUpload
	viewAnalyze
)

const (
	focusUsername = iota
	focusPassword
)

// Model is the bubbletea model for the recreate terminal client. It walks
// login → upload → analyze; logout from any view returns to login and
// clears all client-side state.
type Model struct {
	api *client.Client

	view       view
	processing bool
	statusText string

	// login view
	usernameInput textinput.Model
	passwordInput textinput.Model
	focus         int

	// upload view
	pathInput textinput.Model

	// analyze view
	imageURL string
	ideas    []models.RecyclingIdea
	cursor   int
	selected int
	details  string

	// authoritative totals from the server
	username          string
	points            int
	completedProjects int

	spinner      spinner.Model
	notification string
	notifyLevel  string
	width        int
	height       int
}

// NewModel creates the initial client model
func NewModel(api *client.Client) Model {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 64
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	path := textinput.New()
	path.Placeholder = "path to an image file (jpeg, jpg, png, webp)"
	path.CharLimit = 512

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		api:           api,
		view:          viewLogin,
		usernameInput: username,
		passwordInput: password,
		pathInput:     path,
		selected:      -1,
		spinner:       sp,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and drives the state machine
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.processing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loginResultMsg:
		return m.handleLoginResult(msg)

	case analyzeResultMsg:
		return m.handleAnalyzeResult(msg)

	case detailsResultMsg:
		m.processing = false
		if msg.err != nil {
			m.selected = -1
			return m.notify("error", "Error fetching challenge details"), nil
		}
		m.details = msg.steps
		return m.notify("success", "Challenge accepted: "+m.ideas[m.selected].Title+"!"), nil

	case completeResultMsg:
		m.processing = false
		if msg.err != nil {
			return m.notify("error", "Error completing project"), nil
		}
		// The UI trusts only the server's reply for totals.
		m.points = msg.resp.Points
		m.completedProjects = msg.resp.CompletedProjects
		m.selected = -1
		m.details = ""
		return m.notify("success", "Points updated! Great recycling!"), nil
	}

	return m, nil
}

// handleKey routes key presses per view
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+l":
		if m.view != viewLogin {
			return m.logout(), nil
		}
	}

	if m.processing {
		return m, nil
	}

	switch m.view {
	case viewLogin:
		return m.updateLogin(msg)
	case viewUpload:
		return m.updateUpload(msg)
	case viewAnalyze:
		return m.updateAnalyze(msg)
	}
	return m, nil
}

// updateLogin handles the login form
func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		if m.focus == focusUsername {
			m.focus = focusPassword
			m.usernameInput.Blur()
			m.passwordInput.Focus()
		} else {
			m.focus = focusUsername
			m.passwordInput.Blur()
			m.usernameInput.Focus()
		}
		return m, textinput.Blink

	case "enter":
		username := strings.TrimSpace(m.usernameInput.Value())
		password := m.passwordInput.Value()
		if username == "" || password == "" {
			return m.notify("error", "Username and password are required"), nil
		}
		m.processing = true
		m.statusText = "Logging in..."
		return m, tea.Batch(m.spinner.Tick, loginCmd(m.api, username, password))
	}

	var cmd tea.Cmd
	if m.focus == focusUsername {
		m.usernameInput, cmd = m.usernameInput.Update(msg)
	} else {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

// updateUpload handles the image selection form
func (m Model) updateUpload(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		path := strings.TrimSpace(m.pathInput.Value())
		if path == "" {
			return m.notify("error", "Enter the path of an image to upload"), nil
		}
		// Uploading immediately moves to the analyze view with a
		// processing indicator, mirroring the web client.
		m.view = viewAnalyze
		m.processing = true
		m.statusText = "Analyzing image..."
		return m, tea.Batch(m.spinner.Tick, uploadCmd(m.api, path))
	}

	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

// updateAnalyze handles idea navigation, selection and completion
func (m Model) updateAnalyze(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.ideas)-1 {
			m.cursor++
		}
		return m, nil

	case "n":
		// back for a new photo; ideas from the last batch are discarded
		m.view = viewUpload
		m.pathInput.SetValue("")
		m.pathInput.Focus()
		m.ideas = nil
		m.cursor = 0
		m.selected = -1
		m.details = ""
		return m, textinput.Blink

	case "enter":
		if len(m.ideas) == 0 {
			return m, nil
		}
		m.selected = m.cursor
		m.details = ""
		m.processing = true
		m.statusText = "Fetching challenge details..."
		idea := m.ideas[m.selected]
		return m, tea.Batch(m.spinner.Tick, detailsCmd(m.api, idea.Title, idea.Description))

	case "c":
		if m.selected < 0 {
			return m.notify("error", "Select a challenge first"), nil
		}
		m.processing = true
		m.statusText = "Completing project..."
		return m, tea.Batch(m.spinner.Tick, completeCmd(m.api, m.ideas[m.selected].ID))
	}

	return m, nil
}

// handleLoginResult transitions login → upload on success
func (m Model) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	m.processing = false
	if msg.err != nil {
		return m.notify("error", "Invalid credentials. Use Test/Test"), nil
	}

	m.username = msg.resp.User.Username
	m.points = msg.resp.User.Points
	m.completedProjects = msg.resp.User.CompletedProjects
	m.view = viewUpload
	m.pathInput.Focus()
	m.passwordInput.SetValue("")
	return m.notify("success", "Successfully logged in!"), textinput.Blink
}

// handleAnalyzeResult lands the upload+analyze round trip
func (m Model) handleAnalyzeResult(msg analyzeResultMsg) (tea.Model, tea.Cmd) {
	m.processing = false
	if msg.err != nil {
		m.view = viewUpload
		return m.notify("error", "Error uploading image: "+msg.err.Error()), nil
	}

	m.imageURL = msg.imageURL
	m.ideas = msg.ideas
	m.cursor = 0
	m.selected = -1
	m.details = ""
	return m.notify("success", "Found creative recycling ideas!"), nil
}

// logout returns to the login view, clearing all client-side state
func (m Model) logout() Model {
	m.api.ClearToken()

	fresh := NewModel(m.api)
	fresh.width = m.width
	fresh.height = m.height
	return fresh.notify("info", "You have been logged out")
}

// notify sets the transient status line
func (m Model) notify(level, message string) Model {
	m.notifyLevel = level
	m.notification = message
	return m
}
