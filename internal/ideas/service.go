package ideas

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/recreate-labs/recreate/internal/media"
	"github.com/recreate-labs/recreate/internal/models"
	"github.com/recreate-labs/recreate/internal/provider"
)

// IdeasPerBatch is the number of ideas produced per analysis request. The
// caller always receives exactly this many, provider failure or not.
const IdeasPerBatch = 4

const (
	ideasMaxTokens   = 800
	detailsMaxTokens = 600
)

// ProgressEvent reports generation progress for streaming consumers.
type ProgressEvent struct {
	Type     string                 `json:"type"` // "ideas" or "illustration"
	Index    int                    `json:"index,omitempty"`
	ImageURL string                 `json:"imageUrl,omitempty"`
	Ideas    []models.RecyclingIdea `json:"ideas,omitempty"`
}

// ProgressFunc receives progress events during generation. May be nil.
// Illustration events arrive from concurrent goroutines, so implementations
// must be safe for concurrent use.
type ProgressFunc func(event ProgressEvent)

// Service orchestrates idea generation: one text completion parsed
// defensively, then a bounded fan-out of illustration requests.
type Service struct {
	provider provider.Client
	media    *media.Store
	fallback []models.RecyclingIdea
	workers  int
}

// NewService creates the idea generation service. The fallback set must
// hold exactly IdeasPerBatch entries (see LoadFallback).
func NewService(client provider.Client, store *media.Store, fallback []models.RecyclingIdea, workers int) *Service {
	if workers < 1 {
		workers = IdeasPerBatch
	}
	return &Service{
		provider: client,
		media:    store,
		fallback: fallback,
		workers:  workers,
	}
}

// Generate produces exactly IdeasPerBatch ideas for the image at imageURL.
// Provider or parse failure is absorbed into the fixed fallback set, and an
// individual illustration failure falls back to a numbered placeholder, so
// the operation as a whole cannot fail.
func (s *Service) Generate(ctx context.Context, imageURL string) []models.RecyclingIdea {
	return s.GenerateWithProgress(ctx, imageURL, nil)
}

// GenerateWithProgress is Generate with progress events delivered to
// notify as each stage lands.
func (s *Service) GenerateWithProgress(ctx context.Context, imageURL string, notify ProgressFunc) []models.RecyclingIdea {
	parsed, err := s.requestIdeas(ctx, imageURL)
	if err != nil {
		slog.Warn("idea generation failed, serving fallback set", "error", err, "image_url", imageURL)
		result := s.fallbackSet()
		emit(notify, ProgressEvent{Type: "ideas", Ideas: result})
		return result
	}

	result := make([]models.RecyclingIdea, len(parsed))
	for i, p := range parsed {
		result[i] = models.RecyclingIdea{
			ID:          uuid.New().String(),
			Title:       p.Title,
			Description: p.Description,
			Difficulty:  models.Difficulty(p.Difficulty),
			Points:      p.Points,
			ImageURL:    placeholderURL(i),
		}
	}
	emit(notify, ProgressEvent{Type: "ideas", Ideas: result})

	s.illustrate(ctx, result, notify)

	return result
}

// ChallengeDetails asks the provider for step-by-step build instructions.
// Unlike Generate there is no fallback text: failures surface to the caller.
func (s *Service) ChallengeDetails(ctx context.Context, title, description string) (string, error) {
	prompt := fmt.Sprintf(
		`Provide detailed, step-by-step instructions on how to build a recycling project with the title %q and description %q. List each step and the required materials.`,
		title, description,
	)

	steps, err := s.provider.GenerateText(ctx, prompt, detailsMaxTokens)
	if err != nil {
		return "", fmt.Errorf("failed to generate challenge details: %w", err)
	}

	return steps, nil
}

// requestIdeas performs the text completion and parses it
func (s *Service) requestIdeas(ctx context.Context, imageURL string) ([]ParsedIdea, error) {
	prompt := fmt.Sprintf(
		`Based on the recyclable items shown in the image at %s, generate %d creative upcycling or recycling project ideas.
For each idea, provide a title, description, difficulty level (Easy, Medium, Hard), and point value (50-200 points).
Return the response as a JSON array of objects with the keys: title, description, difficulty, points.
Make sure the projects are specific to the materials visible in the image.`,
		imageURL, IdeasPerBatch,
	)

	raw, err := s.provider.GenerateText(ctx, prompt, ideasMaxTokens)
	if err != nil {
		return nil, err
	}

	parsed, err := ParseIdeas(raw)
	if err != nil {
		slog.Debug("provider output unparsable", "raw", truncateForLog(raw))
		return nil, err
	}

	return parsed, nil
}

// illustrate requests one illustration per idea with bounded concurrency.
// A branch that fails keeps its placeholder URL and never affects the
// other branches.
func (s *Service) illustrate(ctx context.Context, batch []models.RecyclingIdea, notify ProgressFunc) {
	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup

	for i := range batch {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			url, err := s.illustrateOne(ctx, batch[i].Title, batch[i].Description)
			if err != nil {
				slog.Warn("illustration generation failed, using placeholder",
					"error", err,
					"title", batch[i].Title,
				)
				emit(notify, ProgressEvent{Type: "illustration", Index: i, ImageURL: batch[i].ImageURL})
				return
			}

			batch[i].ImageURL = url
			emit(notify, ProgressEvent{Type: "illustration", Index: i, ImageURL: url})
		}(i)
	}

	wg.Wait()
}

// illustrateOne generates, decodes and stores a single illustration
func (s *Service) illustrateOne(ctx context.Context, title, description string) (string, error) {
	prompt := fmt.Sprintf(
		"A creative DIY recycling project: %s. %s. Style: bright, clear instructional image with clean background, showing the finished project.",
		title, description,
	)

	img, err := s.provider.GenerateImage(ctx, prompt)
	if err != nil {
		return "", err
	}

	url, err := s.media.SaveGenerated(img)
	if err != nil {
		return "", err
	}

	return url, nil
}

// fallbackSet returns fresh copies of the fallback ideas with new IDs so
// each served batch remains individually completable.
func (s *Service) fallbackSet() []models.RecyclingIdea {
	result := make([]models.RecyclingIdea, len(s.fallback))
	for i, idea := range s.fallback {
		idea.ID = uuid.New().String()
		result[i] = idea
	}
	return result
}

func placeholderURL(index int) string {
	return fmt.Sprintf("/api/placeholder/%d", index+1)
}

func emit(notify ProgressFunc, event ProgressEvent) {
	if notify != nil {
		notify(event)
	}
}

func truncateForLog(s string) string {
	if len(s) <= 200 {
		return s
	}
	return s[:200] + "..."
}
