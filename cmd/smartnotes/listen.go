package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mklimuk/smart-notes/pkg/assistant"
)

func newListenCommand(g *globals) *cobra.Command {
	var noteID string
	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Interpret transcripts read line by line from stdin",
		Long: `Treat every line of standard input as a recognized voice transcript.
Trigger phrases create notes, ask for a summary or a title, or start
meeting planning; anything else is appended to the selected note.

Example:
  some-speech-to-text | smartnotes listen --locale en`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec := assistant.NewLineRecognizer(cmd.InOrStdin())
			a, err := newApp(cmd.Context(), g, true, assistant.WithRecognizer(rec))
			if err != nil {
				return err
			}
			defer a.Close()
			if noteID != "" {
				if err := a.assistant.SelectNote(noteID); err != nil {
					return err
				}
			}

			if _, err := a.assistant.ToggleListening(cmd.Context()); err != nil {
				return err
			}
			select {
			case <-a.assistant.CaptureDone():
			case <-cmd.Context().Done():
			}

			st := a.assistant.Snapshot()
			if st.Error != "" {
				return fmt.Errorf("%s", st.Error)
			}
			for _, s := range st.Suggestions {
				printSuggestion(cmd.OutOrStdout(), s)
			}
			if n, ok := a.assistant.Selected(); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "selected note: %s (%s)\n", n.Title, n.ID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&noteID, "note", "", "Append to this note")
	return cmd
}
