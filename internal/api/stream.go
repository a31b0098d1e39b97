package api

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/recreate-labs/recreate/internal/ideas"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// streamEvent is one frame on the analyze progress stream
type streamEvent struct {
	Type     string      `json:"type"` // "ideas", "illustration", "done", "error"
	Index    int         `json:"index,omitempty"`
	ImageURL string      `json:"imageUrl,omitempty"`
	Ideas    interface{} `json:"ideas,omitempty"`
}

// handleAnalyzeStream runs the same analysis as POST /api/analyze but
// streams progress over a websocket: the idea list as soon as the text
// completion parses, one event per illustration as it lands, then "done".
func (s *Server) handleAnalyzeStream(w http.ResponseWriter, r *http.Request) {
	imageURL := r.URL.Query().Get("imageUrl")
	if imageURL == "" {
		respondError(w, http.StatusBadRequest, "Image URL is required")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	slog.Info("analyze stream connected", "image_url", imageURL)

	// Illustration events arrive from concurrent branches; gorilla
	// connections allow one writer at a time.
	var writeMu sync.Mutex
	send := func(event streamEvent) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteJSON(event); err != nil {
			slog.Warn("failed to write stream event", "error", err)
		}
	}

	generated := s.ideaService.GenerateWithProgress(r.Context(), imageURL, func(ev ideas.ProgressEvent) {
		send(streamEvent{
			Type:     ev.Type,
			Index:    ev.Index,
			ImageURL: ev.ImageURL,
			Ideas:    ev.Ideas,
		})
	})

	if err := s.repo.AddIdeas(r.Context(), generated); err != nil {
		slog.Error("failed to store generated ideas", "error", err)
		send(streamEvent{Type: "error"})
		return
	}

	send(streamEvent{Type: "done"})
}
