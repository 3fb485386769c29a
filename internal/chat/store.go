// Package chat implements the client-side conversation pipeline: the
// message store, the send controller and the translation cache.
package chat

import (
	"sync"
	"time"

	"github.com/rahulvenkat/docchat/internal/models"
)

// Store is the ordered, append-only collection of session messages.
// Insertion order is render order. All methods are safe for concurrent use;
// async completions run on their own goroutines.
type Store struct {
	mu       sync.RWMutex
	messages []models.Message
	nextID   int64
}

// NewStore creates an empty message store.
func NewStore() *Store {
	return &Store{nextID: 1}
}

// Append creates a message with a fresh monotonic ID and the current
// timestamp, appends it and returns its ID.
func (s *Store) Append(role models.Role, content string, status models.Status, citations []models.Citation) *models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := models.Message{
		ID:        s.nextID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
		Status:    status,
		Citations: citations,
	}
	s.nextID++
	s.messages = append(s.messages, msg)

	copied := msg
	return &copied
}

// AppendAnswer appends a confirmed assistant message carrying the response
// metadata.
func (s *Store) AppendAnswer(content string, citations []models.Citation, usage models.Usage, latencyMs float64, answerID, cost string) *models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := models.Message{
		ID:        s.nextID,
		Role:      models.RoleAssistant,
		Content:   content,
		CreatedAt: time.Now(),
		Status:    models.StatusConfirmed,
		Citations: citations,
		Usage:     &usage,
		LatencyMs: latencyMs,
		AnswerID:  answerID,
		Cost:      cost,
	}
	s.nextID++
	s.messages = append(s.messages, msg)

	copied := msg
	return &copied
}

// Get returns a copy of the message with the given ID.
func (s *Store) Get(id int64) (models.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.messages {
		if s.messages[i].ID == id {
			return s.messages[i], true
		}
	}
	return models.Message{}, false
}

// All returns a copy of every message in insertion order.
func (s *Store) All() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of stored messages.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// SetStatus updates the lifecycle status of a message. Identity fields are
// never touched after append.
func (s *Store) SetStatus(id int64, status models.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.messages {
		if s.messages[i].ID == id {
			s.messages[i].Status = status
			return
		}
	}
}

// SetTranslation stores a fetched translation under the language key.
// Keys are only ever added; concurrent writes for different languages of the
// same message land in disjoint slots.
func (s *Store) SetTranslation(id int64, langCode, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.messages {
		if s.messages[i].ID == id {
			if s.messages[i].Translations == nil {
				s.messages[i].Translations = make(map[string]string)
			}
			s.messages[i].Translations[langCode] = text
			return
		}
	}
}

// Translation returns the cached translation of a message for a language.
func (s *Store) Translation(id int64, langCode string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.messages {
		if s.messages[i].ID == id {
			text, ok := s.messages[i].Translations[langCode]
			return text, ok
		}
	}
	return "", false
}

// DisplayContent returns what should be rendered for a message: the cached
// translation when a display language is active and cached, otherwise the
// original content.
func DisplayContent(msg models.Message, displayLang string) string {
	if displayLang != "" && displayLang != "none" {
		if text, ok := msg.Translations[displayLang]; ok {
			return text
		}
	}
	return msg.Content
}
