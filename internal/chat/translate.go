package chat

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Translator is the external translation capability.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// translationKey identifies one in-flight fetch.
type translationKey struct {
	messageID int64
	lang      string
}

// translationCall lets duplicate requests wait on the first one.
type translationCall struct {
	done chan struct{}
	text string
	err  error
}

// TranslationCache lazily fetches translations per (message, language) pair,
// de-duplicating concurrent requests for the same pair. Results are written
// into the message's translation map and never evicted; failures clear the
// pending marker so a later request may try again.
type TranslationCache struct {
	store      *Store
	translator Translator
	logger     *slog.Logger

	mu       sync.Mutex
	inflight map[translationKey]*translationCall
}

// NewTranslationCache creates a translation cache backed by the store.
func NewTranslationCache(store *Store, translator Translator, logger *slog.Logger) *TranslationCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &TranslationCache{
		store:      store,
		translator: translator,
		logger:     logger,
		inflight:   make(map[translationKey]*translationCall),
	}
}

// Get returns the translation of a message into targetLang, fetching it on
// first use. Concurrent calls for the same (message, language) pair share a
// single outbound request; calls for different pairs proceed independently.
func (c *TranslationCache) Get(ctx context.Context, messageID int64, targetLang string) (string, error) {
	if cached, ok := c.store.Translation(messageID, targetLang); ok {
		return cached, nil
	}

	msg, ok := c.store.Get(messageID)
	if !ok {
		return "", fmt.Errorf("message %d not found", messageID)
	}

	key := translationKey{messageID: messageID, lang: targetLang}

	c.mu.Lock()
	if cached, ok := c.store.Translation(messageID, targetLang); ok {
		c.mu.Unlock()
		return cached, nil
	}
	if call, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		<-call.done
		return call.text, call.err
	}
	call := &translationCall{done: make(chan struct{})}
	c.inflight[key] = call
	c.mu.Unlock()

	text, err := c.translator.Translate(ctx, msg.Content, targetLang)

	c.mu.Lock()
	delete(c.inflight, key)
	c.mu.Unlock()

	if err != nil {
		// Display falls back to the original content; no retry here.
		c.logger.Error("translation failed", "message_id", messageID, "lang", targetLang, "error", err)
		call.err = fmt.Errorf("translate message %d to %s: %w", messageID, targetLang, err)
		close(call.done)
		return "", call.err
	}

	c.store.SetTranslation(messageID, targetLang, text)
	call.text = text
	close(call.done)
	return text, nil
}
