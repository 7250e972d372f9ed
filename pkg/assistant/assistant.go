package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/mklimuk/smart-notes/pkg/ai"
	"github.com/mklimuk/smart-notes/pkg/locale"
	"github.com/mklimuk/smart-notes/pkg/note"
)

var (
	ErrNoteNotFound       = note.ErrNotFound
	ErrUnknownAction      = errors.New("unknown action")
	ErrCaptureUnsupported = errors.New("voice capture unsupported")
	ErrNoDialogue         = errors.New("no meeting dialogue in progress")
	ErrNoResults          = errors.New("no matching notes")
	ErrInvalidType        = errors.New("invalid note type")
)

// Document is a standalone generated document, shown instead of being added
// to the suggestion history.
type Document struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// State is a point-in-time copy of everything the assistant tracks.
type State struct {
	Notes       []note.Note  `json:"notes"`
	SelectedID  string       `json:"selectedId,omitempty"`
	Suggestions []Suggestion `json:"suggestions"`
	Busy        bool         `json:"busy"`
	Error       string       `json:"error,omitempty"`
	Listening   bool         `json:"listening"`
	Meeting     *Meeting     `json:"meeting,omitempty"`
	Document    *Document    `json:"document,omitempty"`
}

// Assistant owns the application state: the note store, the selection,
// the suggestion history and the meeting dialogue. All surfaces share one
// Assistant. The mutex is never held across a gateway call.
type Assistant struct {
	store      *note.Store
	gw         ai.Gateway
	text       *locale.Bundle
	logger     *slog.Logger
	recognizer Recognizer

	mu          sync.Mutex
	selectedID  string
	suggestions []Suggestion
	busy        int
	errMsg      string
	dialogue    *dialogue
	document    *Document
	capture     *captureSession
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithLocale sets the phrase bundle used for prompts, trigger phrases and
// user-facing messages.
func WithLocale(b *locale.Bundle) Option {
	return func(a *Assistant) { a.text = b }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assistant) { a.logger = logger }
}

// WithRecognizer sets the transcript provider used by ToggleListening.
func WithRecognizer(r Recognizer) Option {
	return func(a *Assistant) { a.recognizer = r }
}

// New creates an Assistant over store and gateway.
func New(store *note.Store, gw ai.Gateway, opts ...Option) *Assistant {
	a := &Assistant{
		store:  store,
		gw:     gw,
		text:   locale.Default(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Locale returns the phrase bundle in use.
func (a *Assistant) Locale() *locale.Bundle {
	return a.text
}

// Notes returns all notes, newest first.
func (a *Assistant) Notes() []note.Note {
	return a.store.List()
}

// Note returns the note with the given ID.
func (a *Assistant) Note(id string) (note.Note, error) {
	n, ok := a.store.Get(id)
	if !ok {
		return note.Note{}, fmt.Errorf("note %s: %w", id, ErrNoteNotFound)
	}
	return n, nil
}

// Selected returns the selected note, if any.
func (a *Assistant) Selected() (note.Note, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.selectedLocked()
}

func (a *Assistant) selectedLocked() (note.Note, bool) {
	if a.selectedID == "" {
		return note.Note{}, false
	}
	return a.store.Get(a.selectedID)
}

// Suggestions returns the suggestion history, newest first.
func (a *Assistant) Suggestions() []Suggestion {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Suggestion(nil), a.suggestions...)
}

// Busy reports whether a gateway call is outstanding.
func (a *Assistant) Busy() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.busy > 0
}

// Error returns the last user-facing error message.
func (a *Assistant) Error() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.errMsg
}

// ClearError dismisses the user-facing error message.
func (a *Assistant) ClearError() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errMsg = ""
}

// Snapshot returns a copy of the whole state.
func (a *Assistant) Snapshot() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	st := State{
		Notes:       a.store.List(),
		Suggestions: append([]Suggestion{}, a.suggestions...),
		Busy:        a.busy > 0,
		Error:       a.errMsg,
		Listening:   a.capture != nil,
	}
	if _, ok := a.selectedLocked(); ok {
		st.SelectedID = a.selectedID
	}
	if a.dialogue != nil {
		m := a.dialogue.view()
		st.Meeting = &m
	}
	if a.document != nil {
		d := *a.document
		st.Document = &d
	}
	return st
}

// AddNote prepends a note, selects it and clears the suggestions. Empty
// title and type default to the locale's untitled title and general. The
// ID and timestamps are always assigned by the store.
func (a *Assistant) AddNote(ctx context.Context, n note.Note) (note.Note, error) {
	if n.Title == "" {
		n.Title = a.text.DefaultNoteTitle
	}
	if n.Type == "" {
		n.Type = note.TypeGeneral
	}
	if !n.Type.Valid() {
		return note.Note{}, fmt.Errorf("%w %q", ErrInvalidType, n.Type)
	}
	n.ID, n.CreatedAt, n.UpdatedAt = "", "", ""

	a.mu.Lock()
	defer a.mu.Unlock()
	created, err := a.store.Prepend(ctx, n)
	if err != nil {
		return note.Note{}, fmt.Errorf("failed to add note: %w", err)
	}
	a.selectedID = created.ID
	a.suggestions = nil
	a.logger.Info("note added", "id", created.ID)
	return created, nil
}

// SelectNote selects a note and clears the suggestions. An empty id clears
// the selection.
func (a *Assistant) SelectNote(id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if id != "" {
		if _, ok := a.store.Get(id); !ok {
			return fmt.Errorf("select %s: %w", id, ErrNoteNotFound)
		}
	}
	a.selectedID = id
	a.suggestions = nil
	return nil
}

// Patch lists the note fields to change; nil fields are left alone.
type Patch struct {
	Title   *string    `json:"title,omitempty"`
	Content *string    `json:"content,omitempty"`
	Type    *note.Type `json:"type,omitempty"`
	Tags    *[]string  `json:"tags,omitempty"`
	IsTask  *bool      `json:"isTask,omitempty"`
	DueDate *string    `json:"dueDate,omitempty"`
	Image   *string    `json:"image,omitempty"`
}

func (p Patch) apply(n note.Note) note.Note {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.Type != nil {
		n.Type = *p.Type
	}
	if p.Tags != nil {
		n.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.IsTask != nil {
		n.IsTask = *p.IsTask
	}
	if p.DueDate != nil {
		n.DueDate = *p.DueDate
	}
	if p.Image != nil {
		n.Image = *p.Image
	}
	return n
}

// UpdateNote applies patch to the note and refreshes its update time.
func (a *Assistant) UpdateNote(ctx context.Context, id string, patch Patch) (note.Note, error) {
	if patch.Type != nil && !patch.Type.Valid() {
		return note.Note{}, fmt.Errorf("%w %q", ErrInvalidType, *patch.Type)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.updateLocked(ctx, id, patch)
}

func (a *Assistant) updateLocked(ctx context.Context, id string, patch Patch) (note.Note, error) {
	n, ok := a.store.Get(id)
	if !ok {
		return note.Note{}, fmt.Errorf("update %s: %w", id, ErrNoteNotFound)
	}
	updated, err := a.store.Update(ctx, patch.apply(n))
	if err != nil {
		return note.Note{}, fmt.Errorf("failed to update note: %w", err)
	}
	return updated, nil
}

// DeleteNote removes a note. Deleting the selected note selects the first
// remaining note, or nothing, and clears the suggestions.
func (a *Assistant) DeleteNote(ctx context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if a.selectedID == id {
		a.selectedID = ""
		if remaining := a.store.List(); len(remaining) > 0 {
			a.selectedID = remaining[0].ID
		}
		a.suggestions = nil
	}
	a.logger.Info("note deleted", "id", id)
	return nil
}

// Search selects the first note whose title, content or tags contain term,
// ignoring case. A blank term selects the first note when nothing is
// selected. When nothing matches the selection is kept and ErrNoResults
// is returned.
func (a *Assistant) Search(term string) (note.Note, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	notes := a.store.List()
	if strings.TrimSpace(term) == "" {
		if _, ok := a.selectedLocked(); !ok && len(notes) > 0 {
			a.selectedID = notes[0].ID
		}
		n, _ := a.selectedLocked()
		return n, nil
	}

	needle := a.text.Lower(term)
	for _, n := range notes {
		if a.matches(n, needle) {
			a.selectedID = n.ID
			return n, nil
		}
	}
	a.errMsg = a.text.SearchNoResults
	return note.Note{}, ErrNoResults
}

func (a *Assistant) matches(n note.Note, needle string) bool {
	if strings.Contains(a.text.Lower(n.Title), needle) || strings.Contains(a.text.Lower(n.Content), needle) {
		return true
	}
	for _, tag := range n.Tags {
		if strings.Contains(a.text.Lower(tag), needle) {
			return true
		}
	}
	return false
}

// Document returns the last generated document, if one is on display.
func (a *Assistant) Document() (Document, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.document == nil {
		return Document{}, false
	}
	return *a.document, true
}

// DismissDocument hides the generated document.
func (a *Assistant) DismissDocument() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.document = nil
}

// Close stops voice capture and waits for it to finish.
func (a *Assistant) Close() {
	a.stopCapture()
}

// endCallLocked must be called with a.mu held.
func (a *Assistant) endCallLocked() {
	if a.busy > 0 {
		a.busy--
	}
}
