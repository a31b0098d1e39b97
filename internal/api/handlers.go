package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/recreate-labs/recreate/internal/media"
	"github.com/recreate-labs/recreate/internal/models"
	"github.com/recreate-labs/recreate/internal/storage"
)

// Response helpers. The wire format keeps the legacy web client contract:
// payload fields inlined next to a success flag, message on failure.

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, models.ErrorResponse{Success: false, Message: message})
}

// Health handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "service not ready")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}

// handleLogin verifies credentials and issues a session token
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := s.repo.GetUser(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		slog.Error("failed to look up user", "error", err, "username", req.Username)
		respondError(w, http.StatusInternalServerError, "Error processing login")
		return
	}

	if user.Password != req.Password {
		slog.Warn("failed login attempt", "username", req.Username, "remote_addr", r.RemoteAddr)
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	session, err := s.sessions.Create(r.Context(), user.Username)
	if err != nil {
		slog.Error("failed to create session", "error", err, "username", user.Username)
		respondError(w, http.StatusInternalServerError, "Error processing login")
		return
	}

	respondJSON(w, http.StatusOK, models.LoginResponse{
		Success: true,
		Token:   session.Token,
		User:    user.Profile(),
	})
}

// handleAnalyze generates ideas for an already-uploaded image and appends
// them to the process-wide idea collection
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.ImageURL == "" {
		respondError(w, http.StatusBadRequest, "Image URL is required")
		return
	}

	generated := s.ideaService.Generate(r.Context(), req.ImageURL)

	if err := s.repo.AddIdeas(r.Context(), generated); err != nil {
		slog.Error("failed to store generated ideas", "error", err)
		respondError(w, http.StatusInternalServerError, "Error analyzing image")
		return
	}

	respondJSON(w, http.StatusOK, models.AnalyzeResponse{
		Success:        true,
		RecyclingIdeas: generated,
	})
}

// handleChallengeDetails fetches step-by-step instructions for an idea.
// Provider failures here are surfaced as 500, not absorbed into a
// fallback: a completion target without real instructions is useless,
// unlike the idea list where a generic set still makes the app usable.
func (s *Server) handleChallengeDetails(w http.ResponseWriter, r *http.Request) {
	var req models.ChallengeDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Title == "" || req.Description == "" {
		respondError(w, http.StatusBadRequest, "Title and description are required")
		return
	}

	steps, err := s.ideaService.ChallengeDetails(r.Context(), req.Title, req.Description)
	if err != nil {
		slog.Error("failed to generate challenge details", "error", err, "title", req.Title)
		respondError(w, http.StatusInternalServerError, "Error generating challenge details")
		return
	}

	respondJSON(w, http.StatusOK, models.ChallengeDetailsResponse{
		Success: true,
		Steps:   steps,
	})
}

// handleCompleteProject awards an idea's points to the authenticated user
// and appends a completion record
func (s *Server) handleCompleteProject(w http.ResponseWriter, r *http.Request) {
	var req models.CompleteProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.IdeaID == "" {
		respondError(w, http.StatusBadRequest, "Idea ID is required")
		return
	}

	username, ok := s.authenticateCompletion(r, &req)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	idea, err := s.repo.GetIdea(r.Context(), req.IdeaID)
	if err != nil {
		if errors.Is(err, storage.ErrIdeaNotFound) {
			respondError(w, http.StatusNotFound, "Recycling idea not found")
			return
		}
		slog.Error("failed to look up idea", "error", err, "idea_id", req.IdeaID)
		respondError(w, http.StatusInternalServerError, "Error completing project")
		return
	}

	rec := models.CompletionRecord{
		IdeaID:      idea.ID,
		Title:       idea.Title,
		Points:      idea.Points,
		CompletedAt: time.Now().UTC(),
	}

	user, err := s.repo.RecordCompletion(r.Context(), username, rec)
	if err != nil {
		slog.Error("failed to record completion", "error", err, "username", username, "idea_id", idea.ID)
		respondError(w, http.StatusInternalServerError, "Error completing project")
		return
	}

	slog.Info("project completed",
		"username", username,
		"idea_id", idea.ID,
		"title", idea.Title,
		"points_awarded", idea.Points,
		"points_total", user.Points,
	)

	respondJSON(w, http.StatusOK, models.CompleteProjectResponse{
		Success:           true,
		Points:            user.Points,
		CompletedProjects: user.CompletedProjects,
	})
}

// authenticateCompletion resolves the acting user for a completion request.
// A session token takes precedence; the legacy credentials-in-body form is
// kept for backward compatibility with legacy clients.
func (s *Server) authenticateCompletion(r *http.Request, req *models.CompleteProjectRequest) (string, bool) {
	if session := SessionFromContext(r.Context()); session != nil {
		return session.Username, true
	}

	if req.Username == "" || req.Password == "" {
		return "", false
	}

	user, err := s.repo.GetUser(r.Context(), req.Username)
	if err != nil || user.Password != req.Password {
		return "", false
	}

	return user.Username, true
}

// handleUserStats returns a user's point total and completion history
func (s *Server) handleUserStats(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		respondError(w, http.StatusBadRequest, "username is required")
		return
	}

	user, err := s.repo.GetUser(r.Context(), username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		slog.Error("failed to look up user", "error", err, "username", username)
		respondError(w, http.StatusInternalServerError, "Error fetching user stats")
		return
	}

	respondJSON(w, http.StatusOK, models.UserStatsResponse{
		Success: true,
		Stats: models.UserStats{
			Points:            user.Points,
			CompletedProjects: user.CompletedProjects,
			History:           user.History,
		},
	})
}

// handlePlaceholder serves the numbered placeholder images used when
// illustration generation fails
func (s *Server) handlePlaceholder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "placeholder id is required")
		return
	}

	path, err := s.mediaStore.PlaceholderPath(id)
	if err != nil {
		if errors.Is(err, media.ErrPlaceholderNotFound) {
			respondError(w, http.StatusNotFound, "Placeholder image not found")
			return
		}
		slog.Error("failed to resolve placeholder", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "Error serving placeholder")
		return
	}

	http.ServeFile(w, r, path)
}
