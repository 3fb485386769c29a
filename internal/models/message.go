// Package models holds the client-side data model for a chat session.
package models

import "time"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Status tracks the lifecycle of a chat turn. A user message starts out
// pending and is confirmed once the backend answered; it stays failed when
// the request errored (the optimistic append is never rolled back).
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusFailed    Status = "failed"
)

// Message is a single entry in the chat transcript. ID, Role, Content and
// CreatedAt are immutable after the message is appended to the store;
// Citations are set once at creation (assistant messages only) and only the
// translation map is populated afterwards.
type Message struct {
	ID        int64      `json:"id"`
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	Status    Status     `json:"status"`
	Citations []Citation `json:"citations,omitempty"`

	// Response metadata, assistant messages only.
	Usage     *Usage  `json:"usage,omitempty"`
	LatencyMs float64 `json:"latency_ms,omitempty"`
	AnswerID  string  `json:"answer_id,omitempty"`
	Cost      string  `json:"cost,omitempty"`

	// Translations maps a language code ("hi", "ta") to previously fetched
	// translated content. Keys are added lazily and never removed.
	Translations map[string]string `json:"translations,omitempty"`
}

// Citation is a backend-supplied evidence snippet backing part of an answer.
// Order within a message is the backend's relevance order and is preserved.
type Citation struct {
	SourceID   string   `json:"source_id"`
	Title      string   `json:"title,omitempty"`
	Filename   string   `json:"filename,omitempty"`
	Content    string   `json:"content"`
	Confidence *float64 `json:"confidence,omitempty"`
	Score      *float64 `json:"score,omitempty"`
	PageNumber *int     `json:"page_number,omitempty"`
	CourseID   string   `json:"course_id,omitempty"`
}

// DisplayTitle returns the citation title, falling back to the filename.
func (c Citation) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	if c.Filename != "" {
		return c.Filename
	}
	return c.SourceID
}

// Usage holds the token accounting reported with an answer.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
