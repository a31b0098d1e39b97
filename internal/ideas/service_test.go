package ideas

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recreate-labs/recreate/internal/media"
	"github.com/recreate-labs/recreate/internal/models"
)

// fakeProvider is a scriptable provider.Client
type fakeProvider struct {
	textFn  func(prompt string) (string, error)
	imageFn func(prompt string) ([]byte, error)

	textCalls  atomic.Int32
	imageCalls atomic.Int32
}

func (f *fakeProvider) GenerateText(_ context.Context, prompt string, _ int) (string, error) {
	f.textCalls.Add(1)
	if f.textFn == nil {
		return "", errors.New("no text scripted")
	}
	return f.textFn(prompt)
}

func (f *fakeProvider) GenerateImage(_ context.Context, prompt string) ([]byte, error) {
	f.imageCalls.Add(1)
	if f.imageFn == nil {
		return nil, errors.New("no image scripted")
	}
	return f.imageFn(prompt)
}

func newTestStore(t *testing.T) *media.Store {
	t.Helper()
	store, err := media.NewStore(t.TempDir(), t.TempDir(), "http://example.test")
	require.NoError(t, err)
	return store
}

func newTestService(t *testing.T, p *fakeProvider) *Service {
	t.Helper()
	fallback, err := LoadFallback("")
	require.NoError(t, err)
	return NewService(p, newTestStore(t), fallback, 2)
}

func TestGenerateAlwaysFourIdeas(t *testing.T) {
	cases := map[string]*fakeProvider{
		"happy path": {
			textFn:  func(string) (string, error) { return validArray, nil },
			imageFn: func(string) ([]byte, error) { return []byte("png"), nil },
		},
		"provider error": {
			textFn: func(string) (string, error) { return "", errors.New("upstream down") },
		},
		"unparsable output": {
			textFn: func(string) (string, error) { return "I see some bottles and cans.", nil },
		},
		"illustrations all fail": {
			textFn:  func(string) (string, error) { return validArray, nil },
			imageFn: func(string) ([]byte, error) { return nil, errors.New("image api down") },
		},
	}

	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			svc := newTestService(t, p)
			ideas := svc.Generate(context.Background(), "http://example.test/uploads/x.jpg")
			require.Len(t, ideas, IdeasPerBatch)
			for _, idea := range ideas {
				assert.NotEmpty(t, idea.ID)
				assert.NotEmpty(t, idea.Title)
				assert.NotEmpty(t, idea.ImageURL)
			}
		})
	}
}

func TestGenerateParsesProviderContent(t *testing.T) {
	p := &fakeProvider{
		textFn:  func(string) (string, error) { return validArray, nil },
		imageFn: func(string) ([]byte, error) { return []byte("png"), nil },
	}
	svc := newTestService(t, p)

	ideas := svc.Generate(context.Background(), "http://example.test/uploads/x.jpg")
	require.Len(t, ideas, IdeasPerBatch)

	assert.Equal(t, "Bottle Planter", ideas[0].Title)
	assert.Equal(t, models.Difficulty("Easy"), ideas[0].Difficulty)
	assert.Equal(t, 150, ideas[3].Points)

	// one text completion and one illustration per idea
	assert.Equal(t, int32(1), p.textCalls.Load())
	assert.Equal(t, int32(IdeasPerBatch), p.imageCalls.Load())

	for _, idea := range ideas {
		assert.Contains(t, idea.ImageURL, "/generated/")
	}
}

func TestGenerateServesFallbackSetOnProviderFailure(t *testing.T) {
	p := &fakeProvider{
		textFn: func(string) (string, error) { return "", errors.New("timeout") },
	}
	svc := newTestService(t, p)

	ideas := svc.Generate(context.Background(), "http://example.test/uploads/x.jpg")
	require.Len(t, ideas, IdeasPerBatch)

	assert.Equal(t, "Plastic Bottle Planter", ideas[0].Title)
	assert.Equal(t, "/api/placeholder/1", ideas[0].ImageURL)

	// no illustrations are requested for the fallback set
	assert.Equal(t, int32(0), p.imageCalls.Load())
}

func TestGenerateFallbackBatchesGetFreshIDs(t *testing.T) {
	p := &fakeProvider{
		textFn: func(string) (string, error) { return "garbage", nil },
	}
	svc := newTestService(t, p)

	first := svc.Generate(context.Background(), "a")
	second := svc.Generate(context.Background(), "b")

	for i := range first {
		assert.NotEmpty(t, first[i].ID)
		assert.NotEqual(t, first[i].ID, second[i].ID)
	}
}

func TestGeneratePartialIllustrationFailureKeepsPlaceholder(t *testing.T) {
	p := &fakeProvider{
		textFn: func(string) (string, error) { return validArray, nil },
		imageFn: func(prompt string) ([]byte, error) {
			if strings.Contains(prompt, "Can Lantern") {
				return nil, errors.New("flaky branch")
			}
			return []byte("png"), nil
		},
	}
	svc := newTestService(t, p)

	ideas := svc.Generate(context.Background(), "http://example.test/uploads/x.jpg")
	require.Len(t, ideas, IdeasPerBatch)

	// Can Lantern is index 1 in validArray
	assert.Equal(t, "/api/placeholder/2", ideas[1].ImageURL)
	for i, idea := range ideas {
		if i == 1 {
			continue
		}
		assert.Contains(t, idea.ImageURL, "/generated/", "idea %d", i)
	}
}

func TestGenerateWithProgressEventOrder(t *testing.T) {
	p := &fakeProvider{
		textFn:  func(string) (string, error) { return validArray, nil },
		imageFn: func(string) ([]byte, error) { return []byte("png"), nil },
	}
	svc := newTestService(t, p)

	var mu sync.Mutex
	var events []ProgressEvent
	svc.GenerateWithProgress(context.Background(), "x", func(ev ProgressEvent) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	})

	require.Len(t, events, 1+IdeasPerBatch)
	assert.Equal(t, "ideas", events[0].Type)
	assert.Len(t, events[0].Ideas, IdeasPerBatch)

	seen := map[int]bool{}
	for _, ev := range events[1:] {
		assert.Equal(t, "illustration", ev.Type)
		assert.NotEmpty(t, ev.ImageURL)
		seen[ev.Index] = true
	}
	assert.Len(t, seen, IdeasPerBatch)
}

func TestChallengeDetails(t *testing.T) {
	p := &fakeProvider{
		textFn: func(prompt string) (string, error) {
			assert.Contains(t, prompt, "Bottle Planter")
			return "Step 1: cut the bottle.", nil
		},
	}
	svc := newTestService(t, p)

	steps, err := svc.ChallengeDetails(context.Background(), "Bottle Planter", "A planter")
	require.NoError(t, err)
	assert.Equal(t, "Step 1: cut the bottle.", steps)
}

func TestChallengeDetailsSurfacesErrors(t *testing.T) {
	p := &fakeProvider{
		textFn: func(string) (string, error) { return "", errors.New("upstream down") },
	}
	svc := newTestService(t, p)

	_, err := svc.ChallengeDetails(context.Background(), "T", "D")
	assert.Error(t, err)
}
