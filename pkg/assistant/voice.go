package assistant

import (
	"context"
	"strings"

	"github.com/mklimuk/smart-notes/pkg/note"
)

// Outcome reports which branch a transcript was routed to.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeNewNote
	OutcomeSummarize
	OutcomeSuggestTitle
	OutcomeMeeting
	OutcomeAppend
	OutcomeNoteFromTranscript
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNewNote:
		return "new-note"
	case OutcomeSummarize:
		return "summarize"
	case OutcomeSuggestTitle:
		return "suggest-title"
	case OutcomeMeeting:
		return "meeting"
	case OutcomeAppend:
		return "append"
	case OutcomeNoteFromTranscript:
		return "note-from-transcript"
	}
	return "none"
}

// titleRunes is how much of a transcript becomes a note title.
const titleRunes = 30

// HandleTranscript routes a recognized transcript. Trigger phrases are
// checked in a fixed order and the first match wins: new note, summarize,
// suggest title, arrange a meeting. Anything else is appended to the
// selected note or becomes a new note.
func (a *Assistant) HandleTranscript(ctx context.Context, transcript string) (Outcome, error) {
	t := a.text
	cmd := t.Lower(strings.TrimSpace(transcript))
	if cmd == "" {
		return OutcomeNone, nil
	}
	a.logger.Debug("voice command received", "command", cmd)

	switch {
	case containsAny(cmd, t.NewNotePhrases):
		created, err := a.AddNote(ctx, note.Note{})
		if err != nil {
			return OutcomeNewNote, err
		}
		content := cmd
		for _, phrase := range t.NewNotePhrases {
			content = strings.Replace(content, phrase, "", 1)
		}
		content = strings.TrimSpace(content)
		title := a.titleFrom(content)
		_, err = a.UpdateNote(ctx, created.ID, Patch{Title: &title, Content: &content})
		return OutcomeNewNote, err
	case containsAny(cmd, t.SummarizePhrases):
		return OutcomeSummarize, a.Suggest(ctx, ActionSummarizeText, "")
	case containsAny(cmd, t.TitlePhrases):
		return OutcomeSuggestTitle, a.Suggest(ctx, ActionSuggestTitle, "")
	case containsAny(cmd, t.MeetingPhrases):
		return OutcomeMeeting, a.Suggest(ctx, ActionProcessVoiceCommandForMeeting, cmd)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if n, ok := a.selectedLocked(); ok {
		content := n.Content + "\n" + cmd
		_, err := a.updateLocked(ctx, n.ID, Patch{Content: &content})
		return OutcomeAppend, err
	}
	created, err := a.store.Prepend(ctx, note.Note{
		Title:   a.titleFrom(cmd),
		Content: cmd,
		Type:    note.TypeGeneral,
	})
	if err != nil {
		return OutcomeNoteFromTranscript, err
	}
	a.selectedID = created.ID
	return OutcomeNoteFromTranscript, nil
}

func (a *Assistant) titleFrom(s string) string {
	r := []rune(s)
	if len(r) > titleRunes {
		r = r[:titleRunes]
	}
	if len(r) == 0 {
		return a.text.DefaultNoteTitle
	}
	return string(r)
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
