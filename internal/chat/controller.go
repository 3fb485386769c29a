package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/rahulvenkat/docchat/internal/api"
	"github.com/rahulvenkat/docchat/internal/models"
)

// SendError is the user-facing string shown when a send fails.
const SendError = "Failed to get response. Please try again."

// Sentinel errors for submissions that are rejected before any network
// round trip. Both are no-ops, not failures.
var (
	ErrEmptyInput = errors.New("empty input")
	ErrBusy       = errors.New("a request is already in flight")
)

// Querier is the backend query surface the controller needs.
type Querier interface {
	Chat(ctx context.Context, query string) (*api.ChatResponse, error)
	DocumentChat(ctx context.Context, query, documentID string) (*api.ChatResponse, error)
}

// Controller orchestrates one chat session: it validates input, appends the
// user message optimistically, routes the query, and appends the assistant
// answer. At most one send is in flight at a time, which keeps store order
// equal to request-issue order.
type Controller struct {
	store   *Store
	querier Querier
	logger  *slog.Logger

	mu        sync.Mutex
	sending   bool
	activeDoc string
	lastErr   string
}

// NewController creates a chat controller over the store.
func NewController(store *Store, querier Querier, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{store: store, querier: querier, logger: logger}
}

// SetActiveDocument scopes subsequent queries to a document. Empty clears
// the scope.
func (c *Controller) SetActiveDocument(documentID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activeDoc = documentID
}

// ActiveDocument returns the current document scope.
func (c *Controller) ActiveDocument() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeDoc
}

// Sending reports whether a request is in flight.
func (c *Controller) Sending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

// Err returns the last user-facing error string, empty when none.
func (c *Controller) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Begin validates the input and, if accepted, appends the pending user
// message and takes the send slot. Whitespace-only input returns
// ErrEmptyInput; a submission while another is in flight returns ErrBusy.
func (c *Controller) Begin(input string) (*models.Message, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyInput
	}

	c.mu.Lock()
	if c.sending {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.sending = true
	c.lastErr = ""
	c.mu.Unlock()

	return c.store.Append(models.RoleUser, input, models.StatusPending, nil), nil
}

// Complete issues the backend query for a previously begun user message and
// appends the assistant answer. On failure the user message is kept (marked
// failed) and the error string is set; the send slot is released either way.
func (c *Controller) Complete(ctx context.Context, userMsg *models.Message) (*models.Message, error) {
	defer func() {
		c.mu.Lock()
		c.sending = false
		c.mu.Unlock()
	}()

	c.mu.Lock()
	doc := c.activeDoc
	c.mu.Unlock()

	var resp *api.ChatResponse
	var err error
	if doc != "" {
		resp, err = c.querier.DocumentChat(ctx, userMsg.Content, doc)
	} else {
		resp, err = c.querier.Chat(ctx, userMsg.Content)
	}
	if err != nil {
		c.logger.Error("chat request failed", "message_id", userMsg.ID, "document_id", doc, "error", err)
		c.store.SetStatus(userMsg.ID, models.StatusFailed)
		c.mu.Lock()
		c.lastErr = SendError
		c.mu.Unlock()
		return nil, err
	}

	c.store.SetStatus(userMsg.ID, models.StatusConfirmed)
	answer := c.store.AppendAnswer(resp.Answer, resp.Citations, resp.Usage, resp.LatencyMs, resp.AnswerID, resp.Cost)
	return answer, nil
}

// Send runs a full turn: Begin then Complete. The one-shot command path uses
// this; the TUI splits the two so the user message renders before the
// network round trip.
func (c *Controller) Send(ctx context.Context, input string) (*models.Message, error) {
	userMsg, err := c.Begin(input)
	if err != nil {
		return nil, err
	}
	return c.Complete(ctx, userMsg)
}
