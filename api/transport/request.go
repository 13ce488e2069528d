package transport

type ProfileUpdateRequest struct {
	Email  string            `json:"email"`
	Role   string            `json:"role"`
	Status string            `json:"status"`
	Meta   map[string]string `json:"metadata"`
}

type TaskCreateRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Priority       string   `json:"priority"`
	Status         string   `json:"status"`
	DueDate        string   `json:"due_date"`
	Tags           []string `json:"tags"`
	Assignees      []string `json:"assignees"`
	IsPublic       bool     `json:"is_public"`
	EstimatedHours float64  `json:"estimated_hours"`
}

// TaskUpdateRequest is a partial edit; absent fields leave the stored value
// untouched.
type TaskUpdateRequest struct {
	Title          *string   `json:"title,omitempty"`
	Description    *string   `json:"description,omitempty"`
	Priority       *string   `json:"priority,omitempty"`
	Status         *string   `json:"status,omitempty"`
	DueDate        *string   `json:"due_date,omitempty"`
	Tags           *[]string `json:"tags,omitempty"`
	IsPublic       *bool     `json:"is_public,omitempty"`
	EstimatedHours *float64  `json:"estimated_hours,omitempty"`
	ActualHours    *float64  `json:"actual_hours,omitempty"`
}

type AssignRequest struct {
	UserID string `json:"user_id"`
}

type CommentRequest struct {
	Content string `json:"content"`
}

type AuthLoginRequest struct {
	UserID string `json:"user_id"`
	TTL    int    `json:"ttl_seconds"`
}

type RefreshRequest struct {
	SessionID string `json:"session_id"`
	TTL       int    `json:"ttl_seconds"`
}
