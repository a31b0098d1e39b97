package media

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrPlaceholderNotFound is returned when a placeholder image is absent on disk.
var ErrPlaceholderNotFound = errors.New("placeholder image not found")

// Store is filesystem-backed storage for uploaded source images and
// generated illustrations. Filenames combine a timestamp and a random UUID,
// which doubles as the addressing scheme: there is no separate index, and
// files live for the process (and disk) lifetime with no cleanup.
type Store struct {
	uploadsDir   string
	generatedDir string
	publicURL    string
}

// NewStore creates the media store, ensuring both directories exist
func NewStore(uploadsDir, generatedDir, publicURL string) (*Store, error) {
	for _, dir := range []string{uploadsDir, generatedDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create media directory %s: %w", dir, err)
		}
	}

	return &Store{
		uploadsDir:   uploadsDir,
		generatedDir: generatedDir,
		publicURL:    strings.TrimRight(publicURL, "/"),
	}, nil
}

// SaveUpload writes an uploaded image to the uploads directory under a
// collision-resistant generated name and returns its public URL.
func (s *Store) SaveUpload(src io.Reader, ext string) (string, error) {
	name := generateFilename(ext)
	path := filepath.Join(s.uploadsDir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	return s.publicURL + "/uploads/" + name, nil
}

// SaveGenerated writes a generated illustration to the generated directory
// and returns its public URL.
func (s *Store) SaveGenerated(data []byte) (string, error) {
	name := generateFilename(".png")
	path := filepath.Join(s.generatedDir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write generated image: %w", err)
	}

	return s.publicURL + "/generated/" + name, nil
}

// PlaceholderPath resolves the on-disk path of a numbered placeholder
// image, or ErrPlaceholderNotFound if it is absent.
func (s *Store) PlaceholderPath(id string) (string, error) {
	path := filepath.Join(s.generatedDir, id+".png")
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", ErrPlaceholderNotFound
		}
		return "", fmt.Errorf("failed to stat placeholder: %w", err)
	}
	return path, nil
}

// UploadsDir returns the uploads directory for static file serving
func (s *Store) UploadsDir() string { return s.uploadsDir }

// GeneratedDir returns the generated-images directory for static file serving
func (s *Store) GeneratedDir() string { return s.generatedDir }

// generateFilename builds a "{unix millis}_{uuid}{ext}" name
func generateFilename(ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return fmt.Sprintf("%d_%s%s", time.Now().UnixMilli(), uuid.New().String(), strings.ToLower(ext))
}
