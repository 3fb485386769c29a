// Package upload manages PDF submission and the session upload history.
package upload

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rahulvenkat/docchat/internal/models"
)

// NonPDFError is the user-facing string for rejected file types.
const NonPDFError = "Only PDF files are supported."

// ErrBusy is returned when a submission arrives while an upload is running.
var ErrBusy = errors.New("an upload is already in progress")

// Uploader is the backend upload capability.
type Uploader interface {
	Upload(ctx context.Context, filename string, content io.Reader) (*models.UploadRecord, error)
}

// Controller validates and submits uploads and keeps the session history,
// most recent first. Drag state and upload state are independent.
type Controller struct {
	uploader Uploader
	logger   *slog.Logger

	mu         sync.Mutex
	uploading  bool
	dragActive bool
	history    []models.UploadRecord
	lastErr    string
}

// NewController creates an upload controller.
func NewController(uploader Uploader, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{uploader: uploader, logger: logger}
}

// DragEnter marks the drop target active.
func (c *Controller) DragEnter() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dragActive = true
}

// DragLeave clears the drop target.
func (c *Controller) DragLeave() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dragActive = false
}

// DragActive reports whether a drag is hovering the drop target.
func (c *Controller) DragActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dragActive
}

// Uploading reports whether an upload is in progress. While true, the
// submit affordances are disabled.
func (c *Controller) Uploading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uploading
}

// Err returns the last user-facing upload error, empty when none.
func (c *Controller) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// History returns a copy of the session upload records, most recent first.
func (c *Controller) History() []models.UploadRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.UploadRecord, len(c.history))
	copy(out, c.history)
	return out
}

// isPDF checks the declared type of a file by name.
func isPDF(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".pdf" {
		return true
	}
	return mime.TypeByExtension(ext) == "application/pdf"
}

// Submit validates and uploads a single file. Non-PDF files are rejected
// locally without touching the network or the history. On success the
// returned record is already prepended to the history and its DocumentID is
// the new active document for the caller.
func (c *Controller) Submit(ctx context.Context, filename string, content io.Reader) (*models.UploadRecord, error) {
	c.mu.Lock()
	if c.uploading {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.dragActive = false
	if !isPDF(filename) {
		c.lastErr = NonPDFError
		c.mu.Unlock()
		c.logger.Warn("upload rejected", "filename", filename, "reason", "not a PDF")
		return nil, errors.New(NonPDFError)
	}
	c.uploading = true
	c.lastErr = ""
	c.mu.Unlock()

	record, err := c.uploader.Upload(ctx, filename, content)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.uploading = false

	if err != nil {
		c.lastErr = err.Error()
		c.logger.Error("upload failed", "filename", filename, "error", err)
		return nil, err
	}

	c.history = append([]models.UploadRecord{*record}, c.history...)
	c.logger.Info("document uploaded",
		"document_id", record.DocumentID,
		"filename", record.Filename,
		"chunks", record.ChunksCreated,
	)
	return record, nil
}
