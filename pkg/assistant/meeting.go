package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mklimuk/smart-notes/pkg/ai"
	"github.com/mklimuk/smart-notes/pkg/note"
)

// Sender identifies who wrote a dialogue turn.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Turn is one message in the meeting dialogue.
type Turn struct {
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
}

// Meeting is a copy of the open meeting dialogue.
type Meeting struct {
	Turns         []Turn         `json:"turns"`
	Draft         MeetingDetails `json:"draft"`
	ContextNoteID string         `json:"contextNoteId,omitempty"`
}

// dialogue gathers meeting details turn by turn. Replies fill the slots
// strictly in order: type, attendees, proposed time. The reply text is
// not checked against the question that was asked.
type dialogue struct {
	// turn serializes replies so slots fill in the order replies arrive.
	// It is taken before a.mu, never while holding it.
	turn sync.Mutex

	session ai.ChatSession
	turns   []Turn
	draft   MeetingDetails
	// contextID is the note selected when the dialogue started.
	contextID string
}

func (d *dialogue) view() Meeting {
	return Meeting{
		Turns:         append([]Turn(nil), d.turns...),
		Draft:         d.draft,
		ContextNoteID: d.contextID,
	}
}

func (d *dialogue) fill(reply string) {
	switch {
	case d.draft.Type == "":
		d.draft.Type = reply
	case d.draft.Attendees == "":
		d.draft.Attendees = reply
	case d.draft.ProposedTime == "":
		d.draft.ProposedTime = reply
	}
}

func (d *dialogue) filled() bool {
	return d.draft.Type != "" && d.draft.Attendees != "" && d.draft.ProposedTime != ""
}

func (d *dialogue) say(sender Sender, text string) {
	d.turns = append(d.turns, Turn{Sender: sender, Text: text})
}

// startDialogueLocked replaces any open dialogue with a new one. Callers
// hold a.mu.
func (a *Assistant) startDialogueLocked(action Action, selected *note.Note, transcript string) {
	t := a.text
	instruction, opening := t.MeetingInstruction, t.MeetingOpening
	switch {
	case action == ActionCreateMeetingFromNote && selected != nil:
		instruction = fmt.Sprintf(t.MeetingFromNoteInstruction, selected.Title, selected.Content)
		opening = fmt.Sprintf(t.MeetingFromNoteOpening, selected.Title)
	case action == ActionProcessVoiceCommandForMeeting:
		instruction = fmt.Sprintf(t.MeetingFromVoiceInstruction, transcript)
		opening = fmt.Sprintf(t.MeetingFromVoiceOpening, transcript)
	}

	if a.dialogue != nil {
		a.logger.Debug("discarding open meeting dialogue")
	}
	d := &dialogue{session: a.gw.StartChat(instruction)}
	if selected != nil {
		d.contextID = selected.ID
	}
	d.say(SenderAssistant, opening)
	a.dialogue = d
	a.logger.Info("meeting dialogue started", "action", action, "context", d.contextID)
}

// Meeting returns the open dialogue, if any.
func (a *Assistant) Meeting() (Meeting, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.dialogue == nil {
		return Meeting{}, false
	}
	return a.dialogue.view(), true
}

// CloseMeeting discards the open dialogue. Calls already in flight are not
// aborted; their results are dropped.
func (a *Assistant) CloseMeeting() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.dialogue == nil {
		return ErrNoDialogue
	}
	a.dialogue = nil
	a.logger.Info("meeting dialogue closed")
	return nil
}

// Reply sends the user's answer to the meeting dialogue. Once every slot is
// filled, or the model says it is ready to draft the invitation, the
// invitation is generated, stored as a meeting note and the dialogue closes.
// Gateway failures are added to the transcript and the dialogue stays open.
// Concurrent replies to one dialogue are handled one at a time.
func (a *Assistant) Reply(ctx context.Context, text string) error {
	a.mu.Lock()
	d := a.dialogue
	a.mu.Unlock()
	if d == nil {
		return ErrNoDialogue
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}

	d.turn.Lock()
	defer d.turn.Unlock()

	a.mu.Lock()
	if a.dialogue != d {
		a.mu.Unlock()
		a.logger.Debug("dialogue closed while reply was queued")
		return nil
	}
	d.say(SenderUser, text)
	a.busy++
	a.mu.Unlock()

	reply, err := d.session.SendMessage(ctx, text)

	a.mu.Lock()
	if a.dialogue != d {
		a.endCallLocked()
		a.mu.Unlock()
		a.logger.Debug("dropping reply for closed meeting dialogue")
		return nil
	}
	if err != nil {
		d.say(SenderAssistant, a.text.DialogueError+" "+err.Error())
		a.endCallLocked()
		a.mu.Unlock()
		return fmt.Errorf("meeting dialogue: %w", err)
	}
	d.say(SenderAssistant, reply)
	d.fill(text)
	if !d.filled() && !strings.Contains(a.text.Lower(reply), a.text.Lower(a.text.MeetingReadyPhrase)) {
		a.endCallLocked()
		a.mu.Unlock()
		return nil
	}
	draft := d.draft
	prompt := a.invitePrompt(draft, d.contextID)
	a.mu.Unlock()

	invite, err := a.gw.GenerateText(ctx, prompt)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.endCallLocked()
	if a.dialogue != d {
		a.logger.Debug("dropping invitation for closed meeting dialogue")
		return nil
	}
	if err != nil {
		d.say(SenderAssistant, a.text.DialogueError+" "+err.Error())
		return fmt.Errorf("meeting invitation: %w", err)
	}
	draft.InviteBody = invite
	created, err := a.store.Prepend(ctx, a.meetingNote(draft))
	if err != nil {
		d.say(SenderAssistant, a.text.DialogueError+" "+err.Error())
		return fmt.Errorf("failed to store meeting note: %w", err)
	}
	a.suggestions = []Suggestion{{Kind: KindMeetingInvite, Data: draft}}
	a.dialogue = nil
	a.logger.Info("meeting note created", "id", created.ID, "type", draft.Type)
	return nil
}

func (a *Assistant) invitePrompt(d MeetingDetails, contextID string) string {
	t := a.text
	var noteContext string
	if contextID != "" {
		if n, ok := a.store.Get(contextID); ok {
			noteContext = fmt.Sprintf(t.InviteNoteContext, n.Title, n.Content)
		}
	}
	return fmt.Sprintf(t.InvitePrompt, a.orUnset(d.Type), a.orUnset(d.Attendees), a.orUnset(d.ProposedTime), noteContext)
}

func (a *Assistant) meetingNote(d MeetingDetails) note.Note {
	t := a.text
	typeTag := d.Type
	if typeTag == "" {
		typeTag = t.TypeLabel(string(note.TypeGeneral))
	}
	return note.Note{
		Title: t.MeetingTitlePrefix + " " + a.orUnset(d.Type),
		Content: fmt.Sprintf("%s\n%s\n\n%s %s\n%s %s",
			t.MeetingInviteHeader, d.InviteBody,
			t.AttendeesLabel, a.orUnset(d.Attendees),
			t.TimeLabel, a.orUnset(d.ProposedTime)),
		Type: note.TypeMeeting,
		Tags: []string{t.TypeLabel(string(note.TypeMeeting)), typeTag},
	}
}

func (a *Assistant) orUnset(s string) string {
	if s == "" {
		return a.text.Unset
	}
	return s
}
