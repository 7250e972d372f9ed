package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mklimuk/smart-notes/pkg/note"
)

func newNotesCommand(g *globals) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "List notes, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), g, false)
			if err != nil {
				return err
			}
			defer a.Close()
			notes := a.assistant.Notes()
			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(notes)
			}
			return printNotes(cmd.OutOrStdout(), notes)
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	return cmd
}

func printNotes(out io.Writer, notes []note.Note) error {
	if len(notes) == 0 {
		_, err := fmt.Fprintln(out, "No notes.")
		return err
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tTITLE\tTAGS\tUPDATED")
	for _, n := range notes {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", n.ID, n.Type, n.Title, strings.Join(n.Tags, ","), n.UpdatedAt)
	}
	return w.Flush()
}

func newAddCommand(g *globals) *cobra.Command {
	var (
		title   string
		typ     string
		tags    []string
		task    bool
		dueDate string
	)
	cmd := &cobra.Command{
		Use:   "add [content...]",
		Short: "Add a note",
		Long: `Add a note. The content is the remaining arguments joined by spaces.

Examples:
  smartnotes add --title "Groceries" milk and eggs
  smartnotes add --type task --due 2026-11-01 renew passport`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), g, false)
			if err != nil {
				return err
			}
			defer a.Close()
			created, err := a.assistant.AddNote(cmd.Context(), note.Note{
				Title:   title,
				Content: strings.Join(args, " "),
				Type:    note.Type(typ),
				Tags:    tags,
				IsTask:  task,
				DueDate: dueDate,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Note title")
	cmd.Flags().StringVar(&typ, "type", "", "Note type (general, meeting, idea, task, journal)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag (can be specified multiple times)")
	cmd.Flags().BoolVar(&task, "task", false, "Mark the note as a task")
	cmd.Flags().StringVar(&dueDate, "due", "", "Due date")
	return cmd
}
