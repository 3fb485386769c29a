package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahulvenkat/docchat/internal/api"
	"github.com/rahulvenkat/docchat/internal/models"
)

// fakeQuerier records which endpoint was hit and returns a canned response.
type fakeQuerier struct {
	chatCalls    int
	docChatCalls int
	lastDocID    string
	resp         *api.ChatResponse
	err          error
}

func (f *fakeQuerier) Chat(ctx context.Context, query string) (*api.ChatResponse, error) {
	f.chatCalls++
	return f.resp, f.err
}

func (f *fakeQuerier) DocumentChat(ctx context.Context, query, documentID string) (*api.ChatResponse, error) {
	f.docChatCalls++
	f.lastDocID = documentID
	return f.resp, f.err
}

func okResponse() *api.ChatResponse {
	return &api.ChatResponse{
		Answer:    "the answer",
		Citations: []models.Citation{{SourceID: "c1", Content: "snippet"}},
		Usage:     models.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
		LatencyMs: 120,
		AnswerID:  "a-1",
		Cost:      "$0.00",
	}
}

func TestControllerRejectsEmptyInput(t *testing.T) {
	c := NewController(NewStore(), &fakeQuerier{resp: okResponse()}, discardLogger())

	for _, input := range []string{"", "   ", "\n\t "} {
		_, err := c.Begin(input)
		assert.ErrorIs(t, err, ErrEmptyInput, "input %q", input)
	}
	assert.Equal(t, 0, c.store.Len())
	assert.Empty(t, c.Err(), "validation no-op must not set the error string")
}

func TestControllerSuccessfulTurn(t *testing.T) {
	store := NewStore()
	q := &fakeQuerier{resp: okResponse()}
	c := NewController(store, q, discardLogger())

	answer, err := c.Send(context.Background(), "  what is a goroutine?  ")
	require.NoError(t, err)

	all := store.All()
	require.Len(t, all, 2)
	assert.Equal(t, models.RoleUser, all[0].Role)
	assert.Equal(t, "what is a goroutine?", all[0].Content, "input is trimmed")
	assert.Equal(t, models.StatusConfirmed, all[0].Status)
	assert.Equal(t, models.RoleAssistant, all[1].Role)
	assert.Equal(t, "the answer", all[1].Content)
	assert.Equal(t, "a-1", answer.AnswerID)
	require.NotNil(t, all[1].Usage)
	assert.Equal(t, 15, all[1].Usage.TotalTokens)
	assert.False(t, c.Sending())
	assert.Equal(t, 1, q.chatCalls)
}

func TestControllerRoutesToDocumentChat(t *testing.T) {
	q := &fakeQuerier{resp: okResponse()}
	c := NewController(NewStore(), q, discardLogger())
	c.SetActiveDocument("doc-9")

	_, err := c.Send(context.Background(), "summarize page 2")
	require.NoError(t, err)
	assert.Equal(t, 0, q.chatCalls)
	assert.Equal(t, 1, q.docChatCalls)
	assert.Equal(t, "doc-9", q.lastDocID)
}

func TestControllerFailureKeepsUserMessage(t *testing.T) {
	store := NewStore()
	q := &fakeQuerier{err: errors.New("connection refused")}
	c := NewController(store, q, discardLogger())

	_, err := c.Send(context.Background(), "hello")
	require.Error(t, err)

	all := store.All()
	require.Len(t, all, 1, "optimistic user message is not rolled back")
	assert.Equal(t, models.StatusFailed, all[0].Status)
	assert.Equal(t, SendError, c.Err())
	assert.False(t, c.Sending(), "send slot released after failure")
}

func TestControllerSerializesSends(t *testing.T) {
	store := NewStore()
	q := &fakeQuerier{resp: okResponse()}
	c := NewController(store, q, discardLogger())

	first, err := c.Begin("first question")
	require.NoError(t, err)

	// A second submission while the first is pending is a no-op.
	_, err = c.Begin("second question")
	assert.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, 1, store.Len())

	_, err = c.Complete(context.Background(), first)
	require.NoError(t, err)

	// After completion the next turn proceeds.
	_, err = c.Send(context.Background(), "second question")
	require.NoError(t, err)

	all := store.All()
	require.Len(t, all, 4)
	want := []struct {
		role    models.Role
		content string
	}{
		{models.RoleUser, "first question"},
		{models.RoleAssistant, "the answer"},
		{models.RoleUser, "second question"},
		{models.RoleAssistant, "the answer"},
	}
	for i, w := range want {
		assert.Equal(t, w.role, all[i].Role, "index %d", i)
		assert.Equal(t, w.content, all[i].Content, "index %d", i)
	}
}

func TestControllerErrorClearedOnNextSend(t *testing.T) {
	q := &fakeQuerier{err: errors.New("boom")}
	c := NewController(NewStore(), q, discardLogger())

	_, _ = c.Send(context.Background(), "fails")
	require.Equal(t, SendError, c.Err())

	q.err = nil
	q.resp = okResponse()
	_, err := c.Send(context.Background(), "works")
	require.NoError(t, err)
	assert.Empty(t, c.Err())
}
