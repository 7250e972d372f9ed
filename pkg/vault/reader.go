package vault

import (
	"bufio"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const maxLine = 1 << 20

// ReadEntry reads a markdown file and parses its frontmatter and content
func ReadEntry(fsys afero.Fs, path string) (*Entry, error) {
	file, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	var frontmatterLines []string
	var contentLines []string
	inFrontmatter := false
	lineCount := 0

	for scanner.Scan() {
		line := scanner.Text()
		lineCount++

		if lineCount == 1 && line == "---" {
			inFrontmatter = true
			continue
		}

		if inFrontmatter {
			if line == "---" {
				inFrontmatter = false
				continue
			}
			frontmatterLines = append(frontmatterLines, line)
		} else {
			contentLines = append(contentLines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	entry := &Entry{
		Path:    path,
		Content: strings.Join(contentLines, "\n"),
	}
	fmData := strings.Join(frontmatterLines, "\n")
	if fmData == "" {
		entry.Frontmatter.Title = strings.TrimSuffix(filepath.Base(path), ".md")
		return entry, nil
	}
	if err := yaml.Unmarshal([]byte(fmData), &entry.Frontmatter); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter of %s: %w", path, err)
	}
	return entry, nil
}

// ReadDir reads every exported note in dir, ordered by file name.
func ReadDir(fsys afero.Fs, dir string) ([]*Entry, error) {
	infos, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name() < infos[j].Name() })

	var entries []*Entry
	for _, info := range infos {
		if info.IsDir() || !exportedName.MatchString(info.Name()) {
			continue
		}
		entry, err := ReadEntry(fsys, filepath.Join(dir, info.Name()))
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
