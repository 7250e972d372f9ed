package vault

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/smart-notes/pkg/note"
)

// exportedName matches files written by Exporter and captures the note ID.
var exportedName = regexp.MustCompile(`\(([0-9A-Za-z_-]+)\)\.md$`)

// WriteEntry writes an entry to its path
func WriteEntry(fsys afero.Fs, entry *Entry) error {
	fmData, err := yaml.Marshal(entry.Frontmatter)
	if err != nil {
		return fmt.Errorf("failed to marshal frontmatter: %w", err)
	}

	content := fmt.Sprintf("---\n%s---\n%s", string(fmData), entry.Content)

	if err := fsys.MkdirAll(filepath.Dir(entry.Path), 0755); err != nil {
		return err
	}
	return afero.WriteFile(fsys, entry.Path, []byte(content), 0644)
}

// Result lists the files touched by one export.
type Result struct {
	Written []string
	Removed []string
}

// Exporter mirrors the note collection into a directory of markdown files.
type Exporter struct {
	fs        afero.Fs
	dir       string
	templates *TemplateEngine
	logger    *slog.Logger
}

// NewExporter creates an exporter writing to dir. templates may be nil.
func NewExporter(fsys afero.Fs, dir string, templates *TemplateEngine, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{fs: fsys, dir: dir, templates: templates, logger: logger}
}

// Dir returns the export directory.
func (e *Exporter) Dir() string {
	return e.dir
}

// Export writes one file per note and removes files of notes that no longer
// exist or were renamed.
func (e *Exporter) Export(notes []note.Note) (Result, error) {
	var res Result
	tmpl, err := e.noteTemplate()
	if err != nil {
		return res, err
	}

	wanted := make(map[string]bool, len(notes))
	for _, n := range notes {
		entry := &Entry{
			Path:        filepath.Join(e.dir, FileName(n)),
			Frontmatter: frontmatterOf(n),
			Content:     n.Content,
		}
		if tmpl != "" {
			entry.Content = e.templates.Render(tmpl, n.Title, n.Content)
		}
		if err := WriteEntry(e.fs, entry); err != nil {
			return res, fmt.Errorf("failed to write note %s: %w", n.ID, err)
		}
		wanted[filepath.Base(entry.Path)] = true
		res.Written = append(res.Written, entry.Path)
	}

	existing, err := afero.ReadDir(e.fs, e.dir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return res, fmt.Errorf("failed to list %s: %w", e.dir, err)
	}
	for _, info := range existing {
		name := info.Name()
		if info.IsDir() || wanted[name] || !exportedName.MatchString(name) {
			continue
		}
		path := filepath.Join(e.dir, name)
		if err := e.fs.Remove(path); err != nil {
			return res, fmt.Errorf("failed to remove stale export %s: %w", name, err)
		}
		res.Removed = append(res.Removed, path)
	}

	e.logger.Info("notes exported", "dir", e.dir, "written", len(res.Written), "removed", len(res.Removed))
	return res, nil
}

func (e *Exporter) noteTemplate() (string, error) {
	if e.templates == nil {
		return "", nil
	}
	tmpl, err := e.templates.LoadTemplate(NoteTemplate)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load template: %w", err)
	}
	return tmpl, nil
}

// FileName returns the export file name of a note.
func FileName(n note.Note) string {
	name := strings.TrimSpace(SanitizeFilename(n.Title))
	if name == "" {
		name = "note"
	}
	return fmt.Sprintf("%s (%s).md", name, n.ID)
}

// SanitizeFilename removes characters invalid in filenames.
func SanitizeFilename(name string) string {
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|", "\n", "\r"}
	for _, char := range invalid {
		name = strings.ReplaceAll(name, char, "-")
	}
	return name
}
