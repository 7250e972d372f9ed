package vault

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// NoteTemplate is the template file used for exported notes.
const NoteTemplate = "Note Template"

var datePlaceholder = regexp.MustCompile(`\{\{date:(.*?)\}\}`)

// TemplateEngine handles loading and rendering of Obsidian templates
type TemplateEngine struct {
	fs          afero.Fs
	TemplateDir string
	now         func() time.Time
}

// NewTemplateEngine creates a new TemplateEngine
func NewTemplateEngine(fs afero.Fs, templateDir string) *TemplateEngine {
	return &TemplateEngine{
		fs:          fs,
		TemplateDir: templateDir,
		now:         time.Now,
	}
}

// LoadTemplate reads a template file from the template directory
func (e *TemplateEngine) LoadTemplate(templateName string) (string, error) {
	if !strings.HasSuffix(templateName, ".md") {
		templateName += ".md"
	}

	content, err := afero.ReadFile(e.fs, filepath.Join(e.TemplateDir, templateName))
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// Render replaces placeholders in the template content.
// Supported placeholders:
// {{title}} - the note title
// {{content}} - the note body
// {{date:FORMAT}} - the current date in a Moment.js style FORMAT (e.g. YYYY-MM-DD)
func (e *TemplateEngine) Render(content, title, body string) string {
	content = strings.ReplaceAll(content, "{{title}}", title)
	now := e.now()
	content = datePlaceholder.ReplaceAllStringFunc(content, func(match string) string {
		parts := datePlaceholder.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		return formatMoment(now, parts[1])
	})
	// Last, so a body containing placeholders is left alone.
	return strings.ReplaceAll(content, "{{content}}", body)
}

// formatMoment formats t with the subset of Moment.js tokens Obsidian
// templates commonly use. [W]WW renders the ISO week.
func formatMoment(t time.Time, format string) string {
	_, week := t.ISOWeek()
	r := strings.NewReplacer(
		"[W]WW", fmt.Sprintf("W%02d", week),
		"YYYY", fmt.Sprintf("%04d", t.Year()),
		"MM", fmt.Sprintf("%02d", int(t.Month())),
		"DD", fmt.Sprintf("%02d", t.Day()),
		"HH", fmt.Sprintf("%02d", t.Hour()),
		"mm", fmt.Sprintf("%02d", t.Minute()),
		"ss", fmt.Sprintf("%02d", t.Second()),
	)
	return r.Replace(format)
}
