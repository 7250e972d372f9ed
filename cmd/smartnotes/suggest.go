package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mklimuk/smart-notes/pkg/assistant"
)

func newSuggestCommand(g *globals) *cobra.Command {
	var noteID string
	names := make([]string, len(assistant.Actions))
	for i, a := range assistant.Actions {
		names[i] = string(a)
	}
	cmd := &cobra.Command{
		Use:       "suggest <action> [text...]",
		Short:     "Ask the assistant about a note",
		Long:      "Run one assistant action on a note (the newest one unless --note is given).\n\nActions: " + strings.Join(names, ", "),
		Args:      cobra.MinimumNArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			action, err := assistant.ParseAction(args[0])
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), g, true)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := selectNote(a.assistant, noteID); err != nil {
				return err
			}
			return runSuggest(cmd.Context(), a.assistant, action, strings.Join(args[1:], " "), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&noteID, "note", "", "ID of the note to work on")
	return cmd
}

// selectNote selects id, or the newest note when id is empty.
func selectNote(a *assistant.Assistant, id string) error {
	if id != "" {
		return a.SelectNote(id)
	}
	if notes := a.Notes(); len(notes) > 0 {
		return a.SelectNote(notes[0].ID)
	}
	return nil
}

func runSuggest(ctx context.Context, a *assistant.Assistant, action assistant.Action, data string, in io.Reader, out io.Writer) error {
	if action.NeedsNote() {
		if _, ok := a.Selected(); !ok {
			return errors.New("there are no notes yet")
		}
	}
	if err := a.Suggest(ctx, action, data); err != nil {
		return err
	}
	if _, open := a.Meeting(); open {
		return converse(ctx, a, in, out)
	}
	if doc, ok := a.Document(); ok {
		fmt.Fprintf(out, "# %s\n\n%s\n", doc.Title, doc.Content)
		return nil
	}
	suggestions := a.Suggestions()
	if len(suggestions) == 0 {
		return errors.New("the assistant had nothing to suggest")
	}
	printSuggestion(out, suggestions[0])
	return nil
}

func printSuggestion(out io.Writer, s assistant.Suggestion) {
	fmt.Fprintf(out, "%s:\n%s\n", s.Kind, s.Data.String())
}

func newMeetingCommand(g *globals) *cobra.Command {
	var (
		noteID string
		voice  string
	)
	cmd := &cobra.Command{
		Use:   "meeting",
		Short: "Plan a meeting in a conversation with the assistant",
		Long: `Plan a meeting. The assistant asks for the meeting type, the attendees and
the time; answer each question on its own line. The invitation is saved as a
meeting note.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), g, true)
			if err != nil {
				return err
			}
			defer a.Close()

			action := assistant.ActionCreateMeeting
			switch {
			case voice != "":
				action = assistant.ActionProcessVoiceCommandForMeeting
			case noteID != "":
				if err := a.assistant.SelectNote(noteID); err != nil {
					return err
				}
				action = assistant.ActionCreateMeetingFromNote
			}
			return runSuggest(cmd.Context(), a.assistant, action, voice, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&noteID, "note", "", "Base the meeting on this note")
	cmd.Flags().StringVar(&voice, "voice", "", "Start from a spoken request")
	return cmd
}

// converse relays the open meeting dialogue over in and out until it
// completes or the input ends.
func converse(ctx context.Context, a *assistant.Assistant, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	printed := 0
	for {
		m, open := a.Meeting()
		if !open {
			break
		}
		for _, t := range m.Turns[printed:] {
			if t.Sender == assistant.SenderAssistant {
				fmt.Fprintf(out, "assistant> %s\n", t.Text)
			}
		}
		printed = len(m.Turns)
		fmt.Fprint(out, "you> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			a.CloseMeeting()
			return scanner.Err()
		}
		if err := a.Reply(ctx, scanner.Text()); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}

	suggestions := a.Suggestions()
	if len(suggestions) > 0 && suggestions[0].Kind == assistant.KindMeetingInvite {
		fmt.Fprintln(out, "Meeting note created.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, suggestions[0].Data.String())
	}
	return nil
}
