package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/smart-notes/pkg/note"
)

func TestSuggestTitleForSelectedNote(t *testing.T) {
	gw := &fakeGateway{text: reply("Roadmap Outline")}
	a, _ := newTestAssistant(t, gw)
	addSelected(t, a, "Q3 Plan", "Draft roadmap")
	require.Empty(t, a.Suggestions())

	require.NoError(t, a.Suggest(context.Background(), ActionSuggestTitle, ""))

	assert.Contains(t, gw.lastTextPrompt(), "Draft roadmap")
	got := a.Suggestions()
	assert.Equal(t, []Suggestion{{Kind: KindTitle, Data: Text("Roadmap Outline")}}, got)

	raw, err := json.Marshal(got[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"title","data":"Roadmap Outline"}`, string(raw))
}

func TestSuggestionHistoryIsCappedNewestFirst(t *testing.T) {
	n := 0
	gw := &fakeGateway{text: func(string) (string, error) {
		n++
		return fmt.Sprintf("s%d", n), nil
	}}
	a, _ := newTestAssistant(t, gw)
	addSelected(t, a, "note", "content")

	for i := 0; i < 7; i++ {
		require.NoError(t, a.Suggest(context.Background(), ActionDevelopIdea, ""))
		assert.LessOrEqual(t, len(a.Suggestions()), historyLimit)
	}

	var got []string
	for _, s := range a.Suggestions() {
		got = append(got, s.Data.String())
	}
	assert.Equal(t, []string{"s7", "s6", "s5", "s4", "s3"}, got)
}

func TestSuggestWithoutSelectedNoteDoesNothing(t *testing.T) {
	gw := &fakeGateway{text: reply("unused")}
	a, _ := newTestAssistant(t, gw)

	for _, act := range []Action{ActionSuggestTitle, ActionSummarizeText, ActionAddKeyPoint, ActionGenerateMeetingInvitationContextual} {
		require.NoError(t, a.Suggest(context.Background(), act, "text"))
	}
	assert.Zero(t, gw.calls())
	assert.Empty(t, a.Suggestions())
}

func TestSuggestUnknownAction(t *testing.T) {
	a, _ := newTestAssistant(t, &fakeGateway{})
	err := a.Suggest(context.Background(), Action("teleport"), "")
	assert.ErrorIs(t, err, ErrUnknownAction)

	_, err = ParseAction("teleport")
	assert.ErrorIs(t, err, ErrUnknownAction)
	act, err := ParseAction("makeShorter")
	require.NoError(t, err)
	assert.Equal(t, ActionMakeShorter, act)
}

func TestStructuredSummary(t *testing.T) {
	gw := &fakeGateway{json: reply("```json\n{\"summary\":\"short\",\"actionItems\":[\"call Ann\"]}\n```")}
	a, _ := newTestAssistant(t, gw)
	addSelected(t, a, "call", "Need to call Ann")

	require.NoError(t, a.Suggest(context.Background(), ActionSummarizeText, ""))

	got := a.Suggestions()
	require.Len(t, got, 1)
	assert.Equal(t, Suggestion{Kind: KindSummary, Data: Summary{Summary: "short", ActionItems: []string{"call Ann"}}}, got[0])
	assert.Empty(t, gw.textPrompts)
}

func TestStructuredSummaryFallsBackOnInvalidJSON(t *testing.T) {
	for name, structured := range map[string]string{
		"invalid":         "Here is a summary without JSON",
		"empty":           "",
		"empty object":    "{}",
		"null":            "null",
		"no summary text": `{"summary":"  ","actionItems":["a"]}`,
	} {
		t.Run(name, func(t *testing.T) {
			gw := &fakeGateway{
				json: reply(structured),
				text: reply("plain summary"),
			}
			a, _ := newTestAssistant(t, gw)
			addSelected(t, a, "n", "long content")

			require.NoError(t, a.Suggest(context.Background(), ActionSummarizeText, ""))

			got := a.Suggestions()
			require.Len(t, got, 1)
			assert.Equal(t, Suggestion{Kind: KindSummary, Data: Summary{Summary: "plain summary", ActionItems: []string{}}}, got[0])
			assert.Empty(t, a.Error())
			assert.Len(t, gw.textPrompts, 1)

			raw, err := json.Marshal(got[0])
			require.NoError(t, err)
			assert.JSONEq(t, `{"kind":"summary","data":{"summary":"plain summary","actionItems":[]}}`, string(raw))
		})
	}
}

func TestStructuredSummaryWithoutActionItems(t *testing.T) {
	gw := &fakeGateway{json: reply(`{"summary":"s"}`)}
	a, _ := newTestAssistant(t, gw)
	addSelected(t, a, "n", "c")

	require.NoError(t, a.Suggest(context.Background(), ActionSummarizeText, ""))
	assert.Equal(t, Summary{Summary: "s", ActionItems: []string{}}, a.Suggestions()[0].Data)
}

func TestClassifyPersistsNoteType(t *testing.T) {
	tests := []struct {
		name   string
		opts   []Option
		answer string
		want   note.Type
	}{
		{"english label", []Option{english()}, "This is clearly a Meeting note.", note.TypeMeeting},
		{"arabic label", nil, "هذه فكرة", note.TypeIdea},
		{"identifier", []Option{english()}, "task", note.TypeTask},
		{"label inside sentence", []Option{english()}, "no idea what this is", note.TypeIdea},
		{"nothing known", []Option{english()}, "a recipe", note.TypeGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{text: reply(tt.answer)}
			a, _ := newTestAssistant(t, gw, tt.opts...)
			n := addSelected(t, a, "n", "content")

			require.NoError(t, a.Suggest(context.Background(), ActionClassifyNoteType, ""))

			stored, err := a.Note(n.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stored.Type)
			assert.Equal(t, Suggestion{Kind: KindNoteType, Data: NoteType(tt.want)}, a.Suggestions()[0])
		})
	}
}

func TestClassifyPromptListsTypeLabels(t *testing.T) {
	gw := &fakeGateway{text: reply("General")}
	a, _ := newTestAssistant(t, gw, english())
	addSelected(t, a, "n", "content")

	require.NoError(t, a.Suggest(context.Background(), ActionClassifyNoteType, ""))
	assert.Contains(t, gw.lastTextPrompt(), "General, Meeting, Idea, Task, Journal")
}

func TestGatewayFailureKeepsHistory(t *testing.T) {
	fail := false
	gw := &fakeGateway{text: func(string) (string, error) {
		if fail {
			return "", errors.New("quota exceeded")
		}
		return "kept", nil
	}}
	a, _ := newTestAssistant(t, gw, english())
	addSelected(t, a, "n", "content")
	require.NoError(t, a.Suggest(context.Background(), ActionAddKeyPoint, ""))

	fail = true
	err := a.Suggest(context.Background(), ActionAddKeyPoint, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Equal(t, "Error fetching AI suggestion: quota exceeded", a.Error())
	assert.Equal(t, []Suggestion{{Kind: KindKeyPoint, Data: Text("kept")}}, a.Suggestions())
	assert.False(t, a.Busy())

	fail = false
	require.NoError(t, a.Suggest(context.Background(), ActionAddKeyPoint, ""))
	assert.Empty(t, a.Error())
}

func TestBusyWhileWaitingForGateway(t *testing.T) {
	gw := &fakeGateway{}
	a, _ := newTestAssistant(t, gw)
	var busy bool
	gw.text = func(string) (string, error) {
		busy = a.Busy()
		return "plan", nil
	}
	addSelected(t, a, "n", "content")

	require.NoError(t, a.Suggest(context.Background(), ActionDevelopIdea, ""))
	assert.True(t, busy)
	assert.False(t, a.Busy())
}

func TestMinutesNeedMeetingNote(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{text: reply("minutes")}
	a, _ := newTestAssistant(t, gw)
	n := addSelected(t, a, "sync", "decided things")

	require.NoError(t, a.Suggest(ctx, ActionGenerateMeetingMinutes, ""))
	assert.Empty(t, a.Suggestions())

	meeting := note.TypeMeeting
	_, err := a.UpdateNote(ctx, n.ID, Patch{Type: &meeting})
	require.NoError(t, err)
	require.NoError(t, a.Suggest(ctx, ActionGenerateMeetingMinutes, ""))
	assert.Equal(t, []Suggestion{{Kind: KindMinutes, Data: Text("minutes")}}, a.Suggestions())
}

func TestRephraseNeedsText(t *testing.T) {
	gw := &fakeGateway{text: reply("clearer")}
	a, _ := newTestAssistant(t, gw)
	addSelected(t, a, "n", "content")

	require.NoError(t, a.Suggest(context.Background(), ActionRephraseText, ""))
	assert.Empty(t, a.Suggestions())

	require.NoError(t, a.Suggest(context.Background(), ActionRephraseText, "muddled text"))
	assert.Contains(t, gw.lastTextPrompt(), "muddled text")
	assert.Equal(t, KindRephrase, a.Suggestions()[0].Kind)
}

func TestImproveAndShortenUseDataOverContent(t *testing.T) {
	gw := &fakeGateway{text: reply("better")}
	a, _ := newTestAssistant(t, gw)
	addSelected(t, a, "n", "note content")

	require.NoError(t, a.Suggest(context.Background(), ActionImproveWriting, ""))
	assert.Contains(t, gw.lastTextPrompt(), "note content")

	require.NoError(t, a.Suggest(context.Background(), ActionMakeShorter, "selected passage"))
	assert.Contains(t, gw.lastTextPrompt(), "selected passage")
	assert.NotContains(t, gw.lastTextPrompt(), "note content")

	kinds := []Kind{a.Suggestions()[0].Kind, a.Suggestions()[1].Kind}
	assert.Equal(t, []Kind{KindShortenedText, KindImprovedText}, kinds)
}

func TestGenerateDocument(t *testing.T) {
	gw := &fakeGateway{text: reply("# Report")}
	a, _ := newTestAssistant(t, gw)
	addSelected(t, a, "Q3 Plan", "Draft roadmap")

	require.NoError(t, a.Suggest(context.Background(), ActionGenerateDocument, ""))
	_, ok := a.Document()
	assert.False(t, ok)

	require.NoError(t, a.Suggest(context.Background(), ActionGenerateDocument, "Report"))
	doc, ok := a.Document()
	require.True(t, ok)
	assert.Equal(t, Document{Title: "Report - Q3 Plan", Content: "# Report"}, doc)
	assert.Empty(t, a.Suggestions())
	assert.True(t, strings.Contains(gw.lastTextPrompt(), "Report"))

	a.DismissDocument()
	_, ok = a.Document()
	assert.False(t, ok)
}

func TestContextualInvitation(t *testing.T) {
	gw := &fakeGateway{text: reply("Dear team")}
	a, _ := newTestAssistant(t, gw, english())
	addSelected(t, a, "Launch", "ship v2")

	require.NoError(t, a.Suggest(context.Background(), ActionGenerateMeetingInvitationContextual, ""))

	assert.Contains(t, gw.lastTextPrompt(), "Title: Launch")
	assert.Equal(t, []Suggestion{{Kind: KindMeetingInvite, Data: MeetingDetails{
		Type:         "Proposed meeting",
		Attendees:    "Stakeholders (per the note)",
		ProposedTime: "To be decided (per the note)",
		InviteBody:   "Dear team",
	}}}, a.Suggestions())
}

func TestSuggestionString(t *testing.T) {
	s := Suggestion{Kind: KindSummary, Data: Summary{Summary: "sum", ActionItems: []string{"a", "b"}}}
	assert.Equal(t, "[summary] sum\n- a\n- b", s.String())
	assert.Equal(t, "[title] x", Suggestion{Kind: KindTitle, Data: Text("x")}.String())
}
