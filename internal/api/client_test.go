package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahulvenkat/docchat/internal/metrics"
)

func testClient(t *testing.T, handler http.HandlerFunc) (*Client, *metrics.Collector) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{Level: slog.LevelError}))
	collector := metrics.NewCollector()
	return New(srv.URL, logger, collector), collector
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimSpace(string(p)))
	return len(p), nil
}

func TestChat(t *testing.T) {
	client, collector := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/chat", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "what is polymorphism", req["query"])

		json.NewEncoder(w).Encode(map[string]any{
			"answer": "Polymorphism is...",
			"citations": []map[string]any{
				{"source_id": "c1", "title": "OOP Notes", "content": "...", "confidence": 0.91, "page_number": 4},
			},
			"usage":      map[string]int{"prompt_tokens": 120, "completion_tokens": 60, "total_tokens": 180},
			"latency_ms": 412.5,
			"answer_id":  "a-1",
			"cost":       "$0.00",
		})
	})

	resp, err := client.Chat(context.Background(), "what is polymorphism")
	require.NoError(t, err)
	assert.Equal(t, "Polymorphism is...", resp.Answer)
	require.Len(t, resp.Citations, 1)
	require.NotNil(t, resp.Citations[0].Confidence)
	assert.Equal(t, 0.91, *resp.Citations[0].Confidence)
	assert.Nil(t, resp.Citations[0].Score)
	assert.Equal(t, 180, resp.Usage.TotalTokens)
	assert.Equal(t, "a-1", resp.AnswerID)

	snap := collector.Snapshot()
	assert.EqualValues(t, 1, snap.Ops[metrics.OpChat].Count)
	assert.EqualValues(t, 120, snap.Ops[metrics.OpChat].TotalPromptTokens)
}

func TestDocumentChatRequestShape(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/document-chat/chat", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "summarize", req["query"])
		assert.Equal(t, "doc-42", req["course_id"])

		json.NewEncoder(w).Encode(map[string]any{"answer": "ok", "answer_id": "a-2"})
	})

	resp, err := client.DocumentChat(context.Background(), "summarize", "doc-42")
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Answer)
}

func TestChatServerErrorDetail(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Error generating answer: boom"})
	})

	_, err := client.Chat(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Error generating answer: boom")
}

func TestTranslate(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/simple-chat/translate", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello", req["text"])
		assert.Equal(t, "hi", req["target_lang"])

		json.NewEncoder(w).Encode(map[string]string{"translated": "नमस्ते"})
	})

	got, err := client.Translate(context.Background(), "hello", "hi")
	require.NoError(t, err)
	assert.Equal(t, "नमस्ते", got)
}

func TestUploadMultipart(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/documents/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "notes.pdf", header.Filename)

		json.NewEncoder(w).Encode(map[string]any{
			"document_id":        "doc-7",
			"filename":           "notes.pdf",
			"status":             "processed",
			"message":            "Document processed successfully",
			"chunks_created":     12,
			"processing_time_ms": 950.0,
		})
	})

	rec, err := client.Upload(context.Background(), "notes.pdf", strings.NewReader("%PDF-1.4 fake"))
	require.NoError(t, err)
	assert.Equal(t, "doc-7", rec.DocumentID)
	assert.Equal(t, 12, rec.ChunksCreated)
}

func TestListAndDeleteDocuments(t *testing.T) {
	var deletedPath string
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "/api/v1/documents/list", r.URL.Path)
			json.NewEncoder(w).Encode(map[string]any{
				"documents": []map[string]any{
					{"document_id": "d1", "filename": "a.pdf", "total_pages": 3, "uploaded_at": time.Now().UTC()},
					{"document_id": "d2", "filename": "b.pdf", "total_pages": 9, "uploaded_at": time.Now().UTC()},
				},
			})
		case http.MethodDelete:
			deletedPath = r.URL.Path
			json.NewEncoder(w).Encode(map[string]string{"message": "Document deleted successfully"})
		}
	})

	docs, err := client.ListDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a.pdf", docs[0].Filename)

	require.NoError(t, client.DeleteDocument(context.Background(), "d1"))
	assert.Equal(t, "/api/v1/documents/d1", deletedPath)
}

func TestModelInfo(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/models", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"chat_model":      "llama-3.3-70b",
			"embedding_model": "text-embedding-3-small",
			"provider":        "OpenRouter",
			"cost":            "FREE",
			"features":        []string{"Free chat completions"},
		})
	})

	info, err := client.ModelInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "llama-3.3-70b", info.ChatModel)
	assert.Len(t, info.Features, 1)
}
