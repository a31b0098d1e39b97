package models

// Request and response bodies for the HTTP API. The wire shape follows the
// legacy web client contract: a top-level success flag with the payload
// fields inlined, and a message on failure.

// LoginRequest carries the credentials submitted at login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful login. Token is the session
// credential to present on privileged calls.
type LoginResponse struct {
	Success bool          `json:"success"`
	Token   string        `json:"token,omitempty"`
	User    PublicProfile `json:"user"`
}

// UploadResponse is returned after a successful image upload.
type UploadResponse struct {
	Success        bool            `json:"success"`
	ImageURL       string          `json:"imageUrl"`
	RecyclingIdeas []RecyclingIdea `json:"recyclingIdeas"`
}

// AnalyzeRequest asks for ideas for an already-uploaded image.
type AnalyzeRequest struct {
	ImageURL string `json:"imageUrl"`
}

// AnalyzeResponse carries the generated ideas.
type AnalyzeResponse struct {
	Success        bool            `json:"success"`
	RecyclingIdeas []RecyclingIdea `json:"recyclingIdeas"`
}

// ChallengeDetailsRequest asks for step-by-step build instructions.
type ChallengeDetailsRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ChallengeDetailsResponse carries the instruction text.
type ChallengeDetailsResponse struct {
	Success bool   `json:"success"`
	Steps   string `json:"steps"`
}

// CompleteProjectRequest marks an idea as completed. Username and password
// are the legacy per-request credentials; requests carrying a session token
// may leave them empty.
type CompleteProjectRequest struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	IdeaID   string `json:"ideaId"`
}

// CompleteProjectResponse returns the authoritative totals after completion.
type CompleteProjectResponse struct {
	Success           bool `json:"success"`
	Points            int  `json:"points"`
	CompletedProjects int  `json:"completedProjects"`
}

// UserStatsResponse wraps the stats payload.
type UserStatsResponse struct {
	Success bool      `json:"success"`
	Stats   UserStats `json:"stats"`
}

// ErrorResponse is the uniform failure body.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
