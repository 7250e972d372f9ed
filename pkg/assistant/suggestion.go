package assistant

import (
	"fmt"
	"strings"

	"github.com/mklimuk/smart-notes/pkg/note"
)

// Kind discriminates suggestion payloads.
type Kind string

const (
	KindTitle         Kind = "title"
	KindRephrase      Kind = "rephrase"
	KindSummary       Kind = "summary"
	KindNoteType      Kind = "noteType"
	KindMeetingInvite Kind = "meetingInvite"
	KindPlan          Kind = "plan"
	KindMinutes       Kind = "minutes"
	KindImprovedText  Kind = "improvedText"
	KindShortenedText Kind = "shortenedText"
	KindKeyPoint      Kind = "keyPoint"
)

// historyLimit caps the suggestion history.
const historyLimit = 5

// Payload is the kind-specific body of a suggestion. The concrete types are
// Text, Summary, NoteType and MeetingDetails.
type Payload interface {
	String() string
	payload()
}

// Text is the payload of every free-text suggestion kind.
type Text string

func (t Text) String() string { return string(t) }
func (Text) payload()         {}

// Summary is a summary with the action items found in the note.
type Summary struct {
	Summary     string   `json:"summary"`
	ActionItems []string `json:"actionItems"`
}

func (s Summary) String() string {
	if len(s.ActionItems) == 0 {
		return s.Summary
	}
	var b strings.Builder
	b.WriteString(s.Summary)
	for _, item := range s.ActionItems {
		b.WriteString("\n- ")
		b.WriteString(item)
	}
	return b.String()
}
func (Summary) payload() {}

// NoteType is the classification proposed for a note.
type NoteType note.Type

func (t NoteType) String() string { return string(t) }
func (NoteType) payload()         {}

// MeetingDetails is a meeting draft, complete or not.
type MeetingDetails struct {
	Type         string `json:"type,omitempty"`
	Attendees    string `json:"attendees,omitempty"`
	ProposedTime string `json:"proposedTime,omitempty"`
	InviteBody   string `json:"inviteBody,omitempty"`
}

func (m MeetingDetails) String() string {
	return m.InviteBody
}
func (MeetingDetails) payload() {}

// Suggestion is one assistant result, serialized as {"kind", "data"}.
type Suggestion struct {
	Kind Kind    `json:"kind"`
	Data Payload `json:"data"`
}

func (s Suggestion) String() string {
	if s.Data == nil {
		return string(s.Kind)
	}
	return fmt.Sprintf("[%s] %s", s.Kind, s.Data.String())
}

// prepend returns history with s in front, truncated to historyLimit.
func prepend(history []Suggestion, s Suggestion) []Suggestion {
	out := make([]Suggestion, 0, historyLimit)
	out = append(out, s)
	for _, h := range history {
		if len(out) == historyLimit {
			break
		}
		out = append(out, h)
	}
	return out
}
