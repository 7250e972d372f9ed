package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFor(t *testing.T) {
	tests := []struct {
		tag  string
		want *Bundle
	}{
		{"", arabic},
		{"ar", arabic},
		{"ar-SA", arabic},
		{"en", english},
		{"en-GB", english},
		{"not a tag!", arabic},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Same(t, tt.want, For(tt.tag))
		})
	}
}

func TestLower(t *testing.T) {
	assert.Equal(t, "new note about tea", english.Lower("New NOTE about Tea"))
	assert.Equal(t, "رتب اجتماع", arabic.Lower("رتب اجتماع"))
}

func TestTypeLabel(t *testing.T) {
	assert.Equal(t, "اجتماع", arabic.TypeLabel("meeting"))
	assert.Equal(t, "Idea", english.TypeLabel("idea"))
	assert.Equal(t, "custom", english.TypeLabel("custom"))
}

func TestPhrasesAreLowerCase(t *testing.T) {
	for _, b := range bundles {
		groups := [][]string{b.NewNotePhrases, b.SummarizePhrases, b.TitlePhrases, b.MeetingPhrases}
		for _, g := range groups {
			for _, p := range g {
				assert.Equal(t, b.Lower(p), p)
			}
		}
	}
}
