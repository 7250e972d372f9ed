// Package integration holds the chat command handling shared by the bots.
package integration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mklimuk/smart-notes/pkg/assistant"
)

const listLimit = 10

// Known command names, without the transport prefix.
const (
	CmdNotes   = "notes"
	CmdStatus  = "status"
	CmdSuggest = "suggest"
	CmdMeeting = "meeting"
	CmdCancel  = "cancel"
	CmdSelect  = "select"
)

var known = map[string]bool{
	CmdNotes:   true,
	CmdStatus:  true,
	CmdSuggest: true,
	CmdMeeting: true,
	CmdCancel:  true,
	CmdSelect:  true,
}

// ParseCommand extracts the command and content from a message text.
// Returns the command name (e.g. "notes", "suggest") and the remaining
// content. Text that is not a known command is returned unchanged with an
// empty command.
func ParseCommand(prefix, text string) (command, content string) {
	trimmed := strings.TrimSpace(text)
	rest, ok := strings.CutPrefix(trimmed, prefix)
	if !ok {
		return "", text
	}
	name, args, _ := strings.Cut(rest, " ")
	// Telegram appends the bot name in groups: /notes@smartnotes_bot
	name, _, _ = strings.Cut(name, "@")
	if !known[name] {
		return "", text
	}
	return name, strings.TrimSpace(args)
}

// Truncate shortens s to at most n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// Commands turns chat messages into assistant operations and renders a
// plain text reply.
type Commands struct {
	Assistant *assistant.Assistant
	Prefix    string
	Logger    *slog.Logger
}

// Handle processes one message. Commands run directly; other text answers
// the open meeting dialogue, or is interpreted as a voice transcript.
func (c *Commands) Handle(ctx context.Context, text string) string {
	cmd, content := ParseCommand(c.Prefix, text)
	switch cmd {
	case CmdNotes:
		return c.notes()
	case CmdStatus:
		return c.status()
	case CmdSuggest:
		return c.suggest(ctx, content)
	case CmdMeeting:
		return c.meeting(ctx)
	case CmdCancel:
		if err := c.Assistant.CloseMeeting(); err != nil {
			return "No meeting in progress."
		}
		return "Meeting cancelled."
	case CmdSelect:
		n, err := c.Assistant.Search(content)
		if err != nil {
			return c.failure(err)
		}
		return "Selected: " + n.Title
	}

	if c.Prefix != "" && strings.HasPrefix(strings.TrimSpace(text), c.Prefix) {
		return c.help()
	}
	if _, open := c.Assistant.Meeting(); open {
		if err := c.Assistant.Reply(ctx, content); err != nil {
			return c.failure(err)
		}
		return c.afterDialogue()
	}
	return c.transcript(ctx, content)
}

func (c *Commands) help() string {
	p := c.Prefix
	return strings.Join([]string{
		p + CmdNotes + " - list notes",
		p + CmdStatus + " - show status",
		p + CmdSelect + " <text> - select the first matching note",
		p + CmdSuggest + " <action> [text] - ask the assistant",
		p + CmdMeeting + " - plan a meeting",
		p + CmdCancel + " - stop planning the meeting",
		"Anything else is added to your notes, or answers the meeting questions.",
	}, "\n")
}

func (c *Commands) notes() string {
	notes := c.Assistant.Notes()
	if len(notes) == 0 {
		return "No notes yet."
	}
	selected, _ := c.Assistant.Selected()
	var b strings.Builder
	for i, n := range notes {
		if i == listLimit {
			fmt.Fprintf(&b, "... and %d more\n", len(notes)-listLimit)
			break
		}
		marker := " "
		if n.ID == selected.ID {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %d. %s (%s)\n", marker, i+1, n.Title, n.Type)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (c *Commands) status() string {
	st := c.Assistant.Snapshot()
	parts := []string{fmt.Sprintf("Smart Notes is online. %d notes.", len(st.Notes))}
	if n, ok := c.Assistant.Selected(); ok {
		parts = append(parts, "Selected: "+n.Title+".")
	}
	if st.Meeting != nil {
		parts = append(parts, "Meeting planning in progress.")
	}
	if st.Busy {
		parts = append(parts, "Working on a request.")
	}
	if st.Error != "" {
		parts = append(parts, "Last error: "+st.Error)
	}
	return strings.Join(parts, " ")
}

func (c *Commands) suggest(ctx context.Context, content string) string {
	name, data, _ := strings.Cut(content, " ")
	action, err := assistant.ParseAction(name)
	if err != nil {
		names := make([]string, len(assistant.Actions))
		for i, a := range assistant.Actions {
			names[i] = string(a)
		}
		return fmt.Sprintf("Unknown action %q. Available: %s", name, strings.Join(names, ", "))
	}
	if action.NeedsNote() {
		if _, ok := c.Assistant.Selected(); !ok {
			return "Select a note first."
		}
	}
	before := c.Assistant.Suggestions()
	if err := c.Assistant.Suggest(ctx, action, strings.TrimSpace(data)); err != nil {
		return c.failure(err)
	}
	if m, open := c.Assistant.Meeting(); open && len(m.Turns) > 0 {
		return m.Turns[len(m.Turns)-1].Text
	}
	if action == assistant.ActionGenerateDocument {
		if doc, ok := c.Assistant.Document(); ok {
			return doc.Title + "\n\n" + doc.Content
		}
	}
	return c.latest(before)
}

func (c *Commands) meeting(ctx context.Context) string {
	action := assistant.ActionCreateMeeting
	if _, ok := c.Assistant.Selected(); ok {
		action = assistant.ActionCreateMeetingFromNote
	}
	if err := c.Assistant.Suggest(ctx, action, ""); err != nil {
		return c.failure(err)
	}
	return c.afterDialogue()
}

func (c *Commands) transcript(ctx context.Context, text string) string {
	before := c.Assistant.Suggestions()
	outcome, err := c.Assistant.HandleTranscript(ctx, text)
	if err != nil {
		return c.failure(err)
	}
	switch outcome {
	case assistant.OutcomeNewNote, assistant.OutcomeNoteFromTranscript:
		n, _ := c.Assistant.Selected()
		return "Note created: " + n.Title
	case assistant.OutcomeAppend:
		n, _ := c.Assistant.Selected()
		return "Added to: " + n.Title
	case assistant.OutcomeMeeting:
		return c.afterDialogue()
	case assistant.OutcomeSummarize, assistant.OutcomeSuggestTitle:
		return c.latest(before)
	}
	return "Nothing to do."
}

// afterDialogue reports the last assistant turn of the open dialogue, or
// the invitation once the dialogue has completed.
func (c *Commands) afterDialogue() string {
	if m, open := c.Assistant.Meeting(); open {
		if len(m.Turns) == 0 {
			return "..."
		}
		return m.Turns[len(m.Turns)-1].Text
	}
	if s := c.Assistant.Suggestions(); len(s) > 0 && s[0].Kind == assistant.KindMeetingInvite {
		return "Meeting note created.\n\n" + s[0].Data.String()
	}
	return "Meeting closed."
}

// latest returns the newest suggestion if one was added since before.
func (c *Commands) latest(before []assistant.Suggestion) string {
	after := c.Assistant.Suggestions()
	if len(after) == 0 || sameSuggestions(before, after) {
		return "No suggestion. Select a note first."
	}
	return after[0].String()
}

func sameSuggestions(a, b []assistant.Suggestion) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Kind != b[i].Kind || a[i].String() != b[i].String() {
			return false
		}
	}
	return true
}

func (c *Commands) failure(err error) string {
	if errors.Is(err, assistant.ErrNoResults) {
		return "No matching notes."
	}
	if c.Logger != nil {
		c.Logger.Error("chat command failed", "error", err)
	}
	return "Error: " + err.Error()
}
