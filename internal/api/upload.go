package api

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/recreate-labs/recreate/internal/models"
)

// maxUploadBytes is the upload size limit (5 MiB). Violations are rejected
// before any provider call is made.
const maxUploadBytes = 5 << 20

// allowedImageTypes is the accepted extension/MIME set for uploads
var allowedImageTypes = map[string]bool{
	"jpeg": true,
	"jpg":  true,
	"png":  true,
	"webp": true,
}

// handleUpload accepts a multipart image, persists it to the media store
// and returns generated ideas for it in one round trip. Ideas are appended
// to the idea collection so they are completable without a separate
// analyze call.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	// Cap the whole request body; the extra headroom covers multipart
	// framing around a maximum-size image.
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+64<<10)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "Image exceeds the 5MB limit or the form is malformed")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "No image uploaded")
		return
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		respondError(w, http.StatusBadRequest, "Image exceeds the 5MB limit")
		return
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(header.Filename)), ".")
	if !allowedImageTypes[ext] || !allowedContentType(header.Header.Get("Content-Type")) {
		respondError(w, http.StatusBadRequest, "Only image files are allowed (jpeg, jpg, png, webp)")
		return
	}

	imageURL, err := s.mediaStore.SaveUpload(file, ext)
	if err != nil {
		slog.Error("failed to persist upload", "error", err, "filename", header.Filename)
		respondError(w, http.StatusInternalServerError, "Error processing image upload")
		return
	}

	generated := s.ideaService.Generate(r.Context(), imageURL)

	if err := s.repo.AddIdeas(r.Context(), generated); err != nil {
		slog.Error("failed to store generated ideas", "error", err)
		respondError(w, http.StatusInternalServerError, "Error processing image upload")
		return
	}

	respondJSON(w, http.StatusOK, models.UploadResponse{
		Success:        true,
		ImageURL:       imageURL,
		RecyclingIdeas: generated,
	})
}

// allowedContentType checks the declared MIME type against the accepted
// set. An absent declaration is tolerated; the extension check above
// already gates the type.
func allowedContentType(contentType string) bool {
	if contentType == "" {
		return true
	}

	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	subtype := mediaType
	if i := strings.Index(mediaType, "/"); i >= 0 {
		subtype = mediaType[i+1:]
	}

	return allowedImageTypes[subtype]
}
