package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mklimuk/smart-notes/pkg/assistant"
	"github.com/mklimuk/smart-notes/pkg/note"
	"github.com/mklimuk/smart-notes/pkg/sync"
	"github.com/mklimuk/smart-notes/pkg/vault"
)

const maxBodyBytes = 10 << 20

// Handler holds dependencies for API handlers
type Handler struct {
	Assistant *assistant.Assistant
	Exporter  *vault.Exporter
	Git       *sync.GitManager
	Logger    *slog.Logger
}

// SuggestRequest represents the payload for requesting a suggestion
type SuggestRequest struct {
	Action string `json:"action"`
	Data   string `json:"data,omitempty"`
}

// ReplyRequest represents a user turn in the meeting dialogue
type ReplyRequest struct {
	Text string `json:"text"`
}

// VoiceRequest carries one final transcript
type VoiceRequest struct {
	Transcript string `json:"transcript"`
}

// ExportResponse reports the result of an export
type ExportResponse struct {
	Dir     string   `json:"dir"`
	Written []string `json:"written"`
	Removed []string `json:"removed"`
	Synced  bool     `json:"synced"`
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

// HandleListNotes handles GET /notes
func (h *Handler) HandleListNotes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Assistant.Notes())
}

// HandleCreateNote handles POST /notes
func (h *Handler) HandleCreateNote(w http.ResponseWriter, r *http.Request) {
	var req note.Note
	if !decode(w, r, &req) {
		return
	}
	created, err := h.Assistant.AddNote(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleGetNote handles GET /notes/{id}
func (h *Handler) HandleGetNote(w http.ResponseWriter, r *http.Request) {
	n, err := h.Assistant.Note(r.PathValue("id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// HandleUpdateNote handles PATCH /notes/{id}
func (h *Handler) HandleUpdateNote(w http.ResponseWriter, r *http.Request) {
	var patch assistant.Patch
	if !decode(w, r, &patch) {
		return
	}
	updated, err := h.Assistant.UpdateNote(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// HandleDeleteNote handles DELETE /notes/{id}
func (h *Handler) HandleDeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.Assistant.DeleteNote(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSelectNote handles POST /notes/{id}/select
func (h *Handler) HandleSelectNote(w http.ResponseWriter, r *http.Request) {
	if err := h.Assistant.SelectNote(r.PathValue("id")); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Assistant.Snapshot())
}

// HandleSearch handles GET /search?q=
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	n, err := h.Assistant.Search(r.URL.Query().Get("q"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// HandleState handles GET /state
func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Assistant.Snapshot())
}

// HandleListSuggestions handles GET /suggestions
func (h *Handler) HandleListSuggestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Assistant.Suggestions())
}

// HandleSuggest handles POST /suggestions. The response is the state after
// the action, since an action may open a dialogue or produce a document
// instead of a suggestion.
func (h *Handler) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	var req SuggestRequest
	if !decode(w, r, &req) {
		return
	}
	action, err := assistant.ParseAction(req.Action)
	if err != nil {
		h.fail(w, err)
		return
	}
	if err := h.Assistant.Suggest(r.Context(), action, req.Data); err != nil {
		h.failUpstream(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Assistant.Snapshot())
}

// HandleGetMeeting handles GET /meeting
func (h *Handler) HandleGetMeeting(w http.ResponseWriter, r *http.Request) {
	m, ok := h.Assistant.Meeting()
	if !ok {
		h.fail(w, assistant.ErrNoDialogue)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// HandleMeetingReply handles POST /meeting/reply
func (h *Handler) HandleMeetingReply(w http.ResponseWriter, r *http.Request) {
	var req ReplyRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.Assistant.Reply(r.Context(), req.Text); err != nil {
		h.failUpstream(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Assistant.Snapshot())
}

// HandleCloseMeeting handles DELETE /meeting
func (h *Handler) HandleCloseMeeting(w http.ResponseWriter, r *http.Request) {
	if err := h.Assistant.CloseMeeting(); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleVoice handles POST /voice
func (h *Handler) HandleVoice(w http.ResponseWriter, r *http.Request) {
	var req VoiceRequest
	if !decode(w, r, &req) {
		return
	}
	outcome, err := h.Assistant.HandleTranscript(r.Context(), req.Transcript)
	if err != nil {
		h.failUpstream(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"outcome": outcome.String(),
		"state":   h.Assistant.Snapshot(),
	})
}

// HandleGetDocument handles GET /document
func (h *Handler) HandleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.Assistant.Document()
	if !ok {
		writeError(w, http.StatusNotFound, "no document")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// HandleDismissDocument handles DELETE /document
func (h *Handler) HandleDismissDocument(w http.ResponseWriter, r *http.Request) {
	h.Assistant.DismissDocument()
	w.WriteHeader(http.StatusNoContent)
}

// HandleExport handles POST /export
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	if h.Exporter == nil {
		writeError(w, http.StatusServiceUnavailable, "export is not configured")
		return
	}
	notes := h.Assistant.Notes()
	res, err := h.Exporter.Export(notes)
	if err != nil {
		h.fail(w, fmt.Errorf("export failed: %w", err))
		return
	}
	resp := ExportResponse{Dir: h.Exporter.Dir(), Written: res.Written, Removed: res.Removed}
	if h.Git != nil {
		if err := h.Git.Sync(fmt.Sprintf("Export %d notes", len(notes))); err != nil {
			h.fail(w, fmt.Errorf("git sync failed: %w", err))
			return
		}
		resp.Synced = true
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleHealth handles GET /healthz
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	h.respondError(w, statusFor(err), err)
}

// failUpstream reports unclassified errors as a model provider failure.
func (h *Handler) failUpstream(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		status = http.StatusBadGateway
	}
	h.respondError(w, status, err)
}

func (h *Handler) respondError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		h.logger().Error("request failed", "status", status, "error", err)
	}
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, assistant.ErrNoteNotFound), errors.Is(err, assistant.ErrNoResults):
		return http.StatusNotFound
	case errors.Is(err, assistant.ErrUnknownAction), errors.Is(err, assistant.ErrInvalidType):
		return http.StatusBadRequest
	case errors.Is(err, assistant.ErrNoDialogue):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
