// Package docs maintains the client-side cache of uploaded documents.
package docs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rahulvenkat/docchat/internal/models"
)

// Lister is the backend document surface the controller needs.
type Lister interface {
	ListDocuments(ctx context.Context) ([]models.Document, error)
	DeleteDocument(ctx context.Context, documentID string) error
}

// Controller caches the remote document list. The backend owns the records;
// the only local mutation is the optimistic removal after a confirmed
// delete.
type Controller struct {
	lister Lister
	logger *slog.Logger

	mu        sync.Mutex
	documents []models.Document
	activeDoc string
	lastErr   string
}

// NewController creates a document list controller.
func NewController(lister Lister, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{lister: lister, logger: logger}
}

// Refresh re-fetches the list from the backend. On failure the cached list
// is left as-is and the error is surfaced for an inline retry.
func (c *Controller) Refresh(ctx context.Context) error {
	documents, err := c.lister.ListDocuments(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.lastErr = fmt.Sprintf("Failed to load documents: %v", err)
		return err
	}
	c.documents = documents
	c.lastErr = ""
	return nil
}

// Documents returns a copy of the cached list.
func (c *Controller) Documents() []models.Document {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.Document, len(c.documents))
	copy(out, c.documents)
	return out
}

// Err returns the last list/delete error string, empty when none.
func (c *Controller) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Select marks a document as the active chat context. An unknown ID is
// still accepted; the list is a cache and may be stale.
func (c *Controller) Select(documentID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activeDoc = documentID
}

// Active returns the selected document ID, empty when none.
func (c *Controller) Active() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeDoc
}

// Delete removes a document. Confirmation is the caller's job; on backend
// success the item is dropped from the cache immediately, without a
// re-fetch. A deleted active document clears the selection.
func (c *Controller) Delete(ctx context.Context, documentID string) error {
	if err := c.lister.DeleteDocument(ctx, documentID); err != nil {
		c.mu.Lock()
		c.lastErr = fmt.Sprintf("Failed to delete document: %v", err)
		c.mu.Unlock()
		c.logger.Error("delete failed", "document_id", documentID, "error", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.documents {
		if c.documents[i].DocumentID == documentID {
			c.documents = append(c.documents[:i], c.documents[i+1:]...)
			break
		}
	}
	if c.activeDoc == documentID {
		c.activeDoc = ""
	}
	c.lastErr = ""
	c.logger.Info("document deleted", "document_id", documentID)
	return nil
}
