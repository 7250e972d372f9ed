package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mklimuk/smart-notes/pkg/ai"
	"github.com/mklimuk/smart-notes/pkg/note"
)

// Action names a suggestion request.
type Action string

const (
	ActionSuggestTitle                        Action = "suggestTitle"
	ActionRephraseText                        Action = "rephraseText"
	ActionSummarizeText                       Action = "summarizeText"
	ActionClassifyNoteType                    Action = "classifyNoteType"
	ActionCreateMeeting                       Action = "createMeeting"
	ActionCreateMeetingFromNote               Action = "createMeetingFromNote"
	ActionDevelopIdea                         Action = "developIdea"
	ActionGenerateMeetingMinutes              Action = "generateMeetingMinutes"
	ActionGenerateDocument                    Action = "generateDocument"
	ActionProcessVoiceCommandForMeeting       Action = "processVoiceCommandForMeeting"
	ActionImproveWriting                      Action = "improveWriting"
	ActionMakeShorter                         Action = "makeShorter"
	ActionAddKeyPoint                         Action = "addKeyPoint"
	ActionGenerateMeetingInvitationContextual Action = "generateMeetingInvitationContextual"
)

// Actions lists every known action.
var Actions = []Action{
	ActionSuggestTitle,
	ActionRephraseText,
	ActionSummarizeText,
	ActionClassifyNoteType,
	ActionCreateMeeting,
	ActionCreateMeetingFromNote,
	ActionDevelopIdea,
	ActionGenerateMeetingMinutes,
	ActionGenerateDocument,
	ActionProcessVoiceCommandForMeeting,
	ActionImproveWriting,
	ActionMakeShorter,
	ActionAddKeyPoint,
	ActionGenerateMeetingInvitationContextual,
}

// ParseAction returns the action named s.
func ParseAction(s string) (Action, error) {
	for _, act := range Actions {
		if string(act) == s {
			return act, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownAction)
}

// NeedsNote reports whether the action is a no-op without a selected note.
func (act Action) NeedsNote() bool {
	switch act {
	case ActionCreateMeeting, ActionCreateMeetingFromNote,
		ActionProcessVoiceCommandForMeeting, ActionGenerateMeetingInvitationContextual:
		return false
	}
	return true
}

func (act Action) opensDialogue() bool {
	return act == ActionCreateMeeting || act == ActionCreateMeetingFromNote || act == ActionProcessVoiceCommandForMeeting
}

// result is what one gateway-backed action produced.
type result struct {
	suggestion Suggestion
	document   *Document
	classified note.Type
}

type job func(ctx context.Context) (result, error)

// Suggest runs action against the selected note. data is free text for the
// text actions, the document type for generateDocument and the transcript
// for processVoiceCommandForMeeting. Actions whose preconditions are not met
// do nothing. Gateway failures set the user-facing error, leave the history
// untouched and are returned.
func (a *Assistant) Suggest(ctx context.Context, action Action, data string) error {
	if _, err := ParseAction(string(action)); err != nil {
		return err
	}

	a.mu.Lock()
	var selected *note.Note
	if n, ok := a.selectedLocked(); ok {
		selected = &n
	}
	if action.NeedsNote() && selected == nil {
		a.mu.Unlock()
		return nil
	}
	if action.opensDialogue() {
		defer a.mu.Unlock()
		if action == ActionProcessVoiceCommandForMeeting && strings.TrimSpace(data) == "" {
			return nil
		}
		a.errMsg = ""
		a.startDialogueLocked(action, selected, data)
		return nil
	}
	run := a.plan(action, selected, data)
	if run == nil {
		a.mu.Unlock()
		return nil
	}
	a.busy++
	a.errMsg = ""
	a.mu.Unlock()

	res, err := run(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.endCallLocked()
	if err != nil {
		a.errMsg = fmt.Sprintf("%s: %v", a.text.SuggestionError, err)
		a.logger.Error("suggestion failed", "action", action, "error", err)
		return fmt.Errorf("%s: %w", action, err)
	}
	if res.document != nil {
		a.document = res.document
		return nil
	}
	if res.classified != "" {
		t := res.classified
		if _, err := a.updateLocked(ctx, selected.ID, Patch{Type: &t}); err != nil {
			if !errors.Is(err, ErrNoteNotFound) {
				a.errMsg = fmt.Sprintf("%s: %v", a.text.SuggestionError, err)
				return err
			}
			a.logger.Warn("classified note no longer exists", "id", selected.ID)
		}
	}
	a.suggestions = prepend(a.suggestions, res.suggestion)
	a.logger.Debug("suggestion added", "action", action, "kind", res.suggestion.Kind)
	return nil
}

// plan maps an action to its gateway call. It returns nil when the action
// has nothing to do with the given note and data.
func (a *Assistant) plan(action Action, n *note.Note, data string) job {
	t := a.text
	switch action {
	case ActionSuggestTitle:
		return a.textJob(KindTitle, fmt.Sprintf(t.SuggestTitlePrompt, n.Content))
	case ActionRephraseText:
		if data == "" {
			return nil
		}
		return a.textJob(KindRephrase, fmt.Sprintf(t.RephrasePrompt, data))
	case ActionSummarizeText:
		content := n.Content
		return func(ctx context.Context) (result, error) {
			s, err := a.summarize(ctx, content)
			if err != nil {
				return result{}, err
			}
			return result{suggestion: Suggestion{Kind: KindSummary, Data: s}}, nil
		}
	case ActionClassifyNoteType:
		prompt := fmt.Sprintf(t.ClassifyPrompt, strings.Join(a.typeLabels(), ", "), n.Content)
		return func(ctx context.Context) (result, error) {
			reply, err := a.gw.GenerateText(ctx, prompt)
			if err != nil {
				return result{}, err
			}
			typ := a.classify(reply)
			return result{suggestion: Suggestion{Kind: KindNoteType, Data: NoteType(typ)}, classified: typ}, nil
		}
	case ActionDevelopIdea:
		return a.textJob(KindPlan, fmt.Sprintf(t.DevelopIdeaPrompt, n.Content))
	case ActionGenerateMeetingMinutes:
		if n.Type != note.TypeMeeting {
			return nil
		}
		return a.textJob(KindMinutes, fmt.Sprintf(t.MinutesPrompt, n.Content))
	case ActionGenerateDocument:
		if data == "" {
			return nil
		}
		prompt := fmt.Sprintf(t.DocumentPrompt, data, n.Content)
		title := data + " - " + n.Title
		return func(ctx context.Context) (result, error) {
			content, err := a.gw.GenerateText(ctx, prompt)
			if err != nil {
				return result{}, err
			}
			return result{document: &Document{Title: title, Content: content}}, nil
		}
	case ActionImproveWriting:
		return a.textJob(KindImprovedText, fmt.Sprintf(t.ImprovePrompt, orDefault(data, n.Content)))
	case ActionMakeShorter:
		return a.textJob(KindShortenedText, fmt.Sprintf(t.ShorterPrompt, orDefault(data, n.Content)))
	case ActionAddKeyPoint:
		return a.textJob(KindKeyPoint, fmt.Sprintf(t.KeyPointPrompt, n.Content))
	case ActionGenerateMeetingInvitationContextual:
		if n == nil {
			return nil
		}
		prompt := fmt.Sprintf(t.ContextualInvitePrompt, n.Title, n.Content)
		return func(ctx context.Context) (result, error) {
			invite, err := a.gw.GenerateText(ctx, prompt)
			if err != nil {
				return result{}, err
			}
			return result{suggestion: Suggestion{Kind: KindMeetingInvite, Data: MeetingDetails{
				Type:         t.ProposedMeetingType,
				Attendees:    t.ProposedAttendees,
				ProposedTime: t.ProposedTime,
				InviteBody:   invite,
			}}}, nil
		}
	}
	return nil
}

func (a *Assistant) textJob(kind Kind, prompt string) job {
	return func(ctx context.Context) (result, error) {
		text, err := a.gw.GenerateText(ctx, prompt)
		if err != nil {
			return result{}, err
		}
		return result{suggestion: Suggestion{Kind: kind, Data: Text(text)}}, nil
	}
}

// summarize asks for a structured summary and falls back to a plain one
// when the structured answer cannot be parsed or carries no summary text.
func (a *Assistant) summarize(ctx context.Context, content string) (Summary, error) {
	raw, err := a.gw.GenerateJSON(ctx, fmt.Sprintf(a.text.StructuredSummaryPrompt, content))
	if err != nil {
		return Summary{}, err
	}
	s, err := ai.DecodeJSON[Summary](raw)
	if err == nil && strings.TrimSpace(s.Summary) == "" {
		err = errors.New("structured summary has no summary text")
	}
	if err == nil {
		if s.ActionItems == nil {
			s.ActionItems = []string{}
		}
		return s, nil
	}
	a.logger.Warn("structured summary unusable, falling back to plain summary", "error", err)

	fallback, err := a.gw.GenerateText(ctx, fmt.Sprintf(a.text.SummaryPrompt, content))
	if err != nil {
		return Summary{}, err
	}
	return Summary{Summary: fallback, ActionItems: []string{}}, nil
}

// classify returns the first note type whose label or identifier appears in
// reply, or general.
func (a *Assistant) classify(reply string) note.Type {
	lowered := a.text.Lower(reply)
	for _, t := range note.Types {
		label := a.text.Lower(a.text.TypeLabel(string(t)))
		if strings.Contains(lowered, label) || strings.Contains(lowered, string(t)) {
			return t
		}
	}
	return note.TypeGeneral
}

func (a *Assistant) typeLabels() []string {
	labels := make([]string, len(note.Types))
	for i, t := range note.Types {
		labels[i] = a.text.TypeLabel(string(t))
	}
	return labels
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
