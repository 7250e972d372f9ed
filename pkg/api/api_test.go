package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/smart-notes/pkg/ai"
	"github.com/mklimuk/smart-notes/pkg/assistant"
	"github.com/mklimuk/smart-notes/pkg/db"
	"github.com/mklimuk/smart-notes/pkg/locale"
	"github.com/mklimuk/smart-notes/pkg/note"
	"github.com/mklimuk/smart-notes/pkg/vault"
)

// MockGateway answers every prompt with Response, or fails with Err.
type MockGateway struct {
	mu       sync.Mutex
	Response string
	Err      error
	Replies  []string
}

var _ ai.Gateway = (*MockGateway)(nil)

func (m *MockGateway) GenerateText(ctx context.Context, prompt string) (string, error) {
	return m.Response, m.Err
}

func (m *MockGateway) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	return m.Response, m.Err
}

func (m *MockGateway) StartChat(instruction string) ai.ChatSession { return m }

func (m *MockGateway) SendMessage(ctx context.Context, message string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Replies) == 0 {
		return "noted", nil
	}
	r := m.Replies[0]
	m.Replies = m.Replies[1:]
	return r, nil
}

func (m *MockGateway) Close() error { return nil }

type testServer struct {
	router http.Handler
	fs     afero.Fs
	a      *assistant.Assistant
}

func setup(t *testing.T, gw *MockGateway, secret []byte) *testServer {
	t.Helper()
	fs := afero.NewMemMapFs()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := note.Open(context.Background(), db.NewFileKV(fs, "/data"))
	require.NoError(t, err)
	a := assistant.New(store, gw, assistant.WithLocale(locale.For("en")), assistant.WithLogger(logger))
	h := &Handler{
		Assistant: a,
		Exporter:  vault.NewExporter(fs, "/vault", nil, logger),
		Logger:    logger,
	}
	return &testServer{router: NewRouter(h, secret), fs: fs, a: a}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestNoteLifecycle(t *testing.T) {
	s := setup(t, &MockGateway{}, nil)

	w := s.do(t, "POST", "/notes", map[string]any{"title": "Groceries", "content": "milk", "tags": []string{"home"}})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeBody[note.Note](t, w)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, note.TypeGeneral, created.Type)

	w = s.do(t, "PATCH", "/notes/"+created.ID, map[string]any{"content": "milk, eggs", "type": "task"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeBody[note.Note](t, w)
	assert.Equal(t, "milk, eggs", updated.Content)
	assert.Equal(t, note.TypeTask, updated.Type)
	assert.Equal(t, "Groceries", updated.Title)

	w = s.do(t, "GET", "/notes/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, updated, decodeBody[note.Note](t, w))

	w = s.do(t, "GET", "/notes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]note.Note](t, w), 1)

	w = s.do(t, "DELETE", "/notes/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, "GET", "/notes/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBadRequests(t *testing.T) {
	s := setup(t, &MockGateway{}, nil)

	req := httptest.NewRequest("POST", "/notes", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, "POST", "/notes", map[string]any{"type": "recipe"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, "POST", "/suggestions", SuggestRequest{Action: "dance"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, "POST", "/notes/unknown/select", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSuggestTitle(t *testing.T) {
	s := setup(t, &MockGateway{Response: "Weekly Groceries"}, nil)
	require.Equal(t, http.StatusCreated, s.do(t, "POST", "/notes", map[string]any{"content": "milk and eggs"}).Code)

	w := s.do(t, "POST", "/suggestions", SuggestRequest{Action: "suggestTitle"})
	require.Equal(t, http.StatusOK, w.Code)
	state := decodeBody[map[string]any](t, w)
	suggestions := state["suggestions"].([]any)
	require.Len(t, suggestions, 1)
	assert.Equal(t, map[string]any{"kind": "title", "data": "Weekly Groceries"}, suggestions[0])

	w = s.do(t, "GET", "/suggestions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]any](t, w), 1)
}

func TestSuggestFailureIsBadGateway(t *testing.T) {
	s := setup(t, &MockGateway{Err: errors.New("quota exceeded")}, nil)
	require.Equal(t, http.StatusCreated, s.do(t, "POST", "/notes", map[string]any{"content": "x"}).Code)

	w := s.do(t, "POST", "/suggestions", SuggestRequest{Action: "suggestTitle"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, decodeBody[map[string]string](t, w)["error"], "quota exceeded")

	state := decodeBody[map[string]any](t, s.do(t, "GET", "/state", nil))
	assert.Contains(t, state["error"], "quota exceeded")
}

func TestMeetingDialogue(t *testing.T) {
	gw := &MockGateway{Response: "Please join the sprint review."}
	s := setup(t, gw, nil)

	w := s.do(t, "GET", "/meeting", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, "POST", "/suggestions", SuggestRequest{Action: "createMeeting"})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, "GET", "/meeting", nil)
	require.Equal(t, http.StatusOK, w.Code)
	m := decodeBody[assistant.Meeting](t, w)
	require.Len(t, m.Turns, 1)
	assert.Equal(t, assistant.SenderAssistant, m.Turns[0].Sender)

	for _, answer := range []string{"Sprint review", "The whole team", "Friday 10:00"} {
		w = s.do(t, "POST", "/meeting/reply", ReplyRequest{Text: answer})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w = s.do(t, "GET", "/meeting", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	notes := s.a.Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, note.TypeMeeting, notes[0].Type)
	assert.Contains(t, notes[0].Content, "Please join the sprint review.")
	assert.Contains(t, notes[0].Content, "The whole team")
}

func TestCloseMeeting(t *testing.T) {
	s := setup(t, &MockGateway{}, nil)
	assert.Equal(t, http.StatusConflict, s.do(t, "DELETE", "/meeting", nil).Code)

	require.Equal(t, http.StatusOK, s.do(t, "POST", "/suggestions", SuggestRequest{Action: "createMeeting"}).Code)
	assert.Equal(t, http.StatusNoContent, s.do(t, "DELETE", "/meeting", nil).Code)
	assert.Equal(t, http.StatusConflict, s.do(t, "POST", "/meeting/reply", ReplyRequest{Text: "hi"}).Code)
}

func TestVoice(t *testing.T) {
	s := setup(t, &MockGateway{}, nil)

	w := s.do(t, "POST", "/voice", VoiceRequest{Transcript: "New note buy milk"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[map[string]any](t, w)
	assert.Equal(t, "new-note", resp["outcome"])

	notes := s.a.Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, "buy milk", notes[0].Content)
}

func TestSearchAndSelect(t *testing.T) {
	s := setup(t, &MockGateway{}, nil)
	first := decodeBody[note.Note](t, s.do(t, "POST", "/notes", map[string]any{"title": "Budget", "content": "Q3 numbers"}))
	s.do(t, "POST", "/notes", map[string]any{"title": "Trip", "content": "pack bags"})

	w := s.do(t, "GET", "/search?q=q3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, first.ID, decodeBody[note.Note](t, w).ID)

	w = s.do(t, "GET", "/search?q=nothing-like-this", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, "POST", "/notes/"+first.ID+"/select", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, first.ID, decodeBody[assistant.State](t, w).SelectedID)
}

func TestDocument(t *testing.T) {
	s := setup(t, &MockGateway{Response: "# Report"}, nil)
	assert.Equal(t, http.StatusNotFound, s.do(t, "GET", "/document", nil).Code)

	s.do(t, "POST", "/notes", map[string]any{"title": "Launch", "content": "details"})
	require.Equal(t, http.StatusOK, s.do(t, "POST", "/suggestions", SuggestRequest{Action: "generateDocument", Data: "Report"}).Code)

	w := s.do(t, "GET", "/document", nil)
	require.Equal(t, http.StatusOK, w.Code)
	doc := decodeBody[assistant.Document](t, w)
	assert.Equal(t, "# Report", doc.Content)

	assert.Equal(t, http.StatusNoContent, s.do(t, "DELETE", "/document", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, "GET", "/document", nil).Code)
}

func TestExport(t *testing.T) {
	s := setup(t, &MockGateway{}, nil)
	created := decodeBody[note.Note](t, s.do(t, "POST", "/notes", map[string]any{"title": "Plan", "content": "body"}))

	w := s.do(t, "POST", "/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[ExportResponse](t, w)
	require.Len(t, resp.Written, 1)
	assert.False(t, resp.Synced)

	entry, err := vault.ReadEntry(s.fs, resp.Written[0])
	require.NoError(t, err)
	assert.Equal(t, created.ID, entry.Frontmatter.ID)
	assert.Equal(t, "body", entry.Content)
}

func TestExportNotConfigured(t *testing.T) {
	h := &Handler{Assistant: setup(t, &MockGateway{}, nil).a}
	w := httptest.NewRecorder()
	NewRouter(h, nil).ServeHTTP(w, httptest.NewRequest("POST", "/export", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRequireToken(t *testing.T) {
	secret := []byte("test-secret")
	s := setup(t, &MockGateway{}, secret)

	assert.Equal(t, http.StatusOK, s.do(t, "GET", "/healthz", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, "GET", "/notes", nil).Code)

	call := func(token string) int {
		req := httptest.NewRequest("GET", "/notes", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		return w.Code
	}

	valid, err := IssueToken(secret, "cli", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, call(valid))

	forged, err := IssueToken([]byte("other"), "cli", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, call(forged))

	expired, err := IssueToken(secret, "cli", -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, call(expired))

	assert.Equal(t, http.StatusUnauthorized, call("garbage"))
}
