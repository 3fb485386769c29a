package models

import "time"

// Document describes an uploaded document as reported by the backend list
// endpoint. Records are owned by the backend; the client only caches them.
type Document struct {
	DocumentID      string    `json:"document_id"`
	Filename        string    `json:"filename"`
	FileSize        int64     `json:"file_size"`
	TotalPages      int       `json:"total_pages"`
	ExtractedPages  int       `json:"extracted_pages"`
	TotalCharacters int       `json:"total_characters"`
	UploadedAt      time.Time `json:"uploaded_at"`
	Status          string    `json:"status"`
}

// UploadRecord is the session-local record of a successful upload. Created
// once by the upload controller, prepended to the history, never mutated.
type UploadRecord struct {
	DocumentID       string  `json:"document_id"`
	Filename         string  `json:"filename"`
	Status           string  `json:"status"`
	Message          string  `json:"message"`
	ChunksCreated    int     `json:"chunks_created"`
	ProcessingTimeMs float64 `json:"processing_time_ms"`
}

// ModelInfo describes the backend's configured models.
type ModelInfo struct {
	ChatModel      string   `json:"chat_model"`
	EmbeddingModel string   `json:"embedding_model"`
	Provider       string   `json:"provider"`
	Cost           string   `json:"cost"`
	Features       []string `json:"features"`
}
