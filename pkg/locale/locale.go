package locale

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Bundle holds every user-facing phrase and prompt template for one language.
// Prompt templates are fmt format strings; the verbs they expect are noted
// next to each field.
type Bundle struct {
	Tag language.Tag

	DefaultNoteTitle string
	Unset            string

	// Note type labels, keyed by the stable note type identifier.
	TypeLabels map[string]string

	// Voice trigger phrases, already lower-cased.
	NewNotePhrases   []string
	SummarizePhrases []string
	TitlePhrases     []string
	MeetingPhrases   []string

	// User-facing errors.
	SuggestionError     string // prefix, followed by ": <err>"
	DialogueError       string // prefix, followed by " <err>"
	CaptureUnsupported  string
	CaptureError        string // prefix, followed by ": <code>"
	SearchNoResults     string
	MeetingReadyPhrase  string
	MeetingTitlePrefix  string
	MeetingInviteHeader string
	AttendeesLabel      string
	TimeLabel           string
	ProposedMeetingType string
	ProposedAttendees   string
	ProposedTime        string

	// Prompts.
	SuggestTitlePrompt          string // %s content
	RephrasePrompt              string // %s text
	SummaryPrompt               string // %s content
	StructuredSummaryPrompt     string // %s content
	ClassifyPrompt              string // %s type list, %s content
	DevelopIdeaPrompt           string // %s content
	MinutesPrompt               string // %s content
	DocumentPrompt              string // %s doc type, %s content
	ImprovePrompt               string // %s text
	ShorterPrompt               string // %s text
	KeyPointPrompt              string // %s content
	ContextualInvitePrompt      string // %s title, %s content
	MeetingInstruction          string
	MeetingFromNoteInstruction  string // %s title, %s content
	MeetingFromVoiceInstruction string // %s transcript
	MeetingOpening              string
	MeetingFromNoteOpening      string // %s title
	MeetingFromVoiceOpening     string // %s transcript
	InvitePrompt                string // %s type, %s attendees, %s time, %s note context
	InviteNoteContext           string // %s title, %s content
}

// Lower lower-cases s using the casing rules of the bundle's language.
func (b *Bundle) Lower(s string) string {
	return cases.Lower(b.Tag).String(s)
}

// TypeLabel returns the display label for a note type identifier.
func (b *Bundle) TypeLabel(t string) string {
	if l, ok := b.TypeLabels[t]; ok {
		return l
	}
	return t
}

var (
	bundles = []*Bundle{arabic, english}
	matcher = language.NewMatcher([]language.Tag{language.Arabic, language.English})
)

// For returns the bundle that best matches the given BCP 47 tag.
// Unknown or empty tags fall back to Arabic.
func For(tag string) *Bundle {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return arabic
	}
	t, err := language.Parse(tag)
	if err != nil {
		return arabic
	}
	_, idx, conf := matcher.Match(t)
	if conf == language.No {
		return arabic
	}
	return bundles[idx]
}

// Default returns the Arabic bundle.
func Default() *Bundle {
	return arabic
}
