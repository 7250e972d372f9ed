package api

import (
	"net/http"
)

// NewRouter creates a new HTTP router. A non-empty secret puts every route
// except /healthz behind bearer token auth.
func NewRouter(h *Handler, secret []byte) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.HandleHealth)
	mux.HandleFunc("GET /notes", h.HandleListNotes)
	mux.HandleFunc("POST /notes", h.HandleCreateNote)
	mux.HandleFunc("GET /notes/{id}", h.HandleGetNote)
	mux.HandleFunc("PATCH /notes/{id}", h.HandleUpdateNote)
	mux.HandleFunc("DELETE /notes/{id}", h.HandleDeleteNote)
	mux.HandleFunc("POST /notes/{id}/select", h.HandleSelectNote)
	mux.HandleFunc("GET /search", h.HandleSearch)
	mux.HandleFunc("GET /state", h.HandleState)
	mux.HandleFunc("GET /suggestions", h.HandleListSuggestions)
	mux.HandleFunc("POST /suggestions", h.HandleSuggest)
	mux.HandleFunc("GET /meeting", h.HandleGetMeeting)
	mux.HandleFunc("POST /meeting/reply", h.HandleMeetingReply)
	mux.HandleFunc("DELETE /meeting", h.HandleCloseMeeting)
	mux.HandleFunc("POST /voice", h.HandleVoice)
	mux.HandleFunc("GET /document", h.HandleGetDocument)
	mux.HandleFunc("DELETE /document", h.HandleDismissDocument)
	mux.HandleFunc("POST /export", h.HandleExport)

	if len(secret) == 0 {
		return mux
	}
	return RequireToken(secret, mux, "/healthz")
}
