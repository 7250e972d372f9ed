package vault

import (
	"github.com/mklimuk/smart-notes/pkg/note"
)

// Frontmatter is the YAML header written above every exported note.
type Frontmatter struct {
	ID      string   `yaml:"id"`
	Title   string   `yaml:"title"`
	Type    string   `yaml:"type,omitempty"`
	Tags    []string `yaml:"tags,omitempty"`
	Created string   `yaml:"created"`
	Updated string   `yaml:"updated"`
	DueDate string   `yaml:"due_date,omitempty"`
	IsTask  bool     `yaml:"is_task,omitempty"`
}

// Entry represents a parsed markdown note
type Entry struct {
	Path        string
	Frontmatter Frontmatter
	Content     string // The markdown content after frontmatter
}

// Note converts the entry back into a note. The image is not exported and
// stays empty.
func (e *Entry) Note() note.Note {
	n := note.Note{
		ID:        e.Frontmatter.ID,
		Title:     e.Frontmatter.Title,
		Content:   e.Content,
		CreatedAt: e.Frontmatter.Created,
		UpdatedAt: e.Frontmatter.Updated,
		Type:      note.Type(e.Frontmatter.Type),
		IsTask:    e.Frontmatter.IsTask,
		DueDate:   e.Frontmatter.DueDate,
	}
	if len(e.Frontmatter.Tags) > 0 {
		n.Tags = append([]string(nil), e.Frontmatter.Tags...)
	}
	return n
}

func frontmatterOf(n note.Note) Frontmatter {
	return Frontmatter{
		ID:      n.ID,
		Title:   n.Title,
		Type:    string(n.Type),
		Tags:    n.Tags,
		Created: n.CreatedAt,
		Updated: n.UpdatedAt,
		DueDate: n.DueDate,
		IsTask:  n.IsTask,
	}
}
