package ideas

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/recreate-labs/recreate/internal/models"
)

// defaultFallback is the fixed set served when generation fails as a
// whole. Image URLs point at the numbered placeholder endpoint.
var defaultFallback = []models.RecyclingIdea{
	{
		Title:       "Plastic Bottle Planter",
		Description: "Transform plastic bottles into colorful hanging planters for herbs or succulents.",
		Difficulty:  models.DifficultyEasy,
		Points:      50,
		ImageURL:    "/api/placeholder/1",
	},
	{
		Title:       "Cardboard Organizer",
		Description: "Create a desk organizer from cardboard boxes to store stationery and small items.",
		Difficulty:  models.DifficultyMedium,
		Points:      75,
		ImageURL:    "/api/placeholder/2",
	},
	{
		Title:       "Tin Can Lantern",
		Description: "Create beautiful ambient lighting with upcycled cans and decorative hole patterns.",
		Difficulty:  models.DifficultyEasy,
		Points:      60,
		ImageURL:    "/api/placeholder/3",
	},
	{
		Title:       "Paper Mâché Art",
		Description: "Turn old newspapers and magazines into creative sculptures or decorative pieces.",
		Difficulty:  models.DifficultyMedium,
		Points:      100,
		ImageURL:    "/api/placeholder/4",
	},
}

// fallbackFile is the YAML schema for an overridden fallback set.
type fallbackFile struct {
	Ideas []struct {
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
		Difficulty  string `yaml:"difficulty"`
		Points      int    `yaml:"points"`
		ImageURL    string `yaml:"image_url"`
	} `yaml:"ideas"`
}

// LoadFallback returns the fallback idea set, reading it from the given
// YAML file when path is non-empty and falling back to the compiled-in
// defaults otherwise.
func LoadFallback(path string) ([]models.RecyclingIdea, error) {
	if path == "" {
		return defaultFallback, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fallback ideas file: %w", err)
	}

	var file fallbackFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse fallback ideas file: %w", err)
	}

	if len(file.Ideas) != IdeasPerBatch {
		return nil, fmt.Errorf("fallback ideas file must define exactly %d ideas, got %d", IdeasPerBatch, len(file.Ideas))
	}

	ideas := make([]models.RecyclingIdea, 0, len(file.Ideas))
	for i, entry := range file.Ideas {
		if entry.Title == "" {
			return nil, fmt.Errorf("fallback idea %d has no title", i)
		}

		difficulty := models.Difficulty(entry.Difficulty)
		if !difficulty.Valid() {
			return nil, fmt.Errorf("fallback idea %d has unknown difficulty %q", i, entry.Difficulty)
		}

		imageURL := entry.ImageURL
		if imageURL == "" {
			imageURL = fmt.Sprintf("/api/placeholder/%d", i+1)
		}

		ideas = append(ideas, models.RecyclingIdea{
			Title:       entry.Title,
			Description: entry.Description,
			Difficulty:  difficulty,
			Points:      entry.Points,
			ImageURL:    imageURL,
		})
	}

	return ideas, nil
}
