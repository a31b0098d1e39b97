package models

// Difficulty grades how hard a recycling project is.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Valid reports whether d is one of the known difficulty grades.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// RecyclingIdea is a single generated upcycling project suggestion.
// Ideas are created by the generation service, held in a process-wide
// append-only collection and never mutated after creation.
type RecyclingIdea struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Difficulty  Difficulty `json:"difficulty"`
	Points      int        `json:"points"`
	ImageURL    string     `json:"imageUrl"`
}
