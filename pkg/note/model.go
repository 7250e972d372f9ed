package note

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Type classifies a note.
type Type string

const (
	TypeGeneral Type = "general"
	TypeMeeting Type = "meeting"
	TypeIdea    Type = "idea"
	TypeTask    Type = "task"
	TypeJournal Type = "journal"
)

// Types lists every note type in display order.
var Types = []Type{TypeGeneral, TypeMeeting, TypeIdea, TypeTask, TypeJournal}

// Valid reports whether t is one of the known types.
func (t Type) Valid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// Note is a single user note as persisted in the key-value store.
type Note struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
	Type      Type     `json:"type,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	IsTask    bool     `json:"isTask,omitempty"`
	DueDate   string   `json:"dueDate,omitempty"`
	Image     string   `json:"image,omitempty"` // base64 encoded
}

// Clone returns a copy that shares no slices with n.
func (n Note) Clone() Note {
	if n.Tags != nil {
		n.Tags = append([]string(nil), n.Tags...)
	}
	return n
}

// HasTag reports whether the note carries tag.
func (n Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewID returns a time-ordered unique identifier.
func NewID(now time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(now), entropy).String()
}

// Timestamp formats t the way notes store their timestamps.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
