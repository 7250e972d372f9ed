package locale

import "golang.org/x/text/language"

var english = &Bundle{
	Tag: language.English,

	DefaultNoteTitle: "Untitled note",
	Unset:            "undefined",

	TypeLabels: map[string]string{
		"general": "General",
		"meeting": "Meeting",
		"idea":    "Idea",
		"task":    "Task",
		"journal": "Journal",
	},

	NewNotePhrases:   []string{"new note", "take a note"},
	SummarizePhrases: []string{"summarize the note", "summarize"},
	TitlePhrases:     []string{"suggest a title", "suggest title"},
	MeetingPhrases:   []string{"arrange a meeting", "i want to arrange a meeting"},

	SuggestionError:     "Error fetching AI suggestion",
	DialogueError:       "An error occurred:",
	CaptureUnsupported:  "Speech recognition is not supported.",
	CaptureError:        "Speech recognition error",
	SearchNoResults:     "No notes match your search.",
	MeetingReadyPhrase:  "draft an invitation",
	MeetingTitlePrefix:  "Meeting:",
	MeetingInviteHeader: "Meeting invitation:",
	AttendeesLabel:      "Attendees:",
	TimeLabel:           "Time:",
	ProposedMeetingType: "Proposed meeting",
	ProposedAttendees:   "Stakeholders (per the note)",
	ProposedTime:        "To be decided (per the note)",

	SuggestTitlePrompt:      "Suggest a short, catchy title for this note:\n\n%s",
	RephrasePrompt:          "Rephrase this text to be clearer, more concise or more professional:\n\n%s",
	SummaryPrompt:           "Summarize this note, highlighting the key points and any actionable items:\n\n%s",
	StructuredSummaryPrompt: "Summarize the following text and identify any actionable items:\n\n%s\n\nReply in JSON: {\"summary\": \"summary here\", \"actionItems\": [\"task 1\", \"task 2\"]}",
	ClassifyPrompt:          "Classify the type of this note (choose from: %s):\n\n%s",
	DevelopIdeaPrompt:       "Develop this early idea into a proposed execution plan with key steps:\n\n%s",
	MinutesPrompt:           "Based on the following meeting notes, write formal meeting minutes:\n\n%s\n\nMake sure to include attendees (if mentioned), key decisions, and action items with owners (if possible).",
	DocumentPrompt:          "Based on the following notes, create a %s:\n\n%s\n\nMake the document professional and thorough.",
	ImprovePrompt:           "Rewrite the following text to improve its clarity, concision and overall quality. Return only the rewritten text:\n\n%s",
	ShorterPrompt:           "Make the following text shorter while keeping its core meaning. Return only the shortened text:\n\n%s",
	KeyPointPrompt:          "Analyze the following text and suggest an important key point that could be added or expanded, or integrate a related key point:\n\n%s",
	ContextualInvitePrompt:  "Based on the following note, draft a professional meeting invitation. Extract relevant details such as the subject, possible agenda items and goals from the note. If the details are insufficient, ask for them:\n\nTitle: %s\nContent: %s",

	MeetingInstruction:          "You are a meeting organization assistant. I will ask you to arrange a meeting. Ask me the necessary questions step by step to collect the details (meeting type, attendees, proposed time).",
	MeetingFromNoteInstruction:  "You are a meeting organization assistant. The user wants to create a meeting based on the following note: \"%s\n%s\". Ask the questions needed to collect the details (meeting type, attendees, proposed time). Start by asking about the meeting type.",
	MeetingFromVoiceInstruction: "You are a meeting organization assistant. The user said: %s. Start asking questions to collect the details.",
	MeetingOpening:              "Sure! To help you arrange the meeting, what type of meeting would you like to hold?",
	MeetingFromNoteOpening:      "Based on your note \"%s\", what type of meeting would you like to hold?",
	MeetingFromVoiceOpening:     "I understand you want to arrange a meeting based on: \"%s\". What type of meeting is it?",
	InvitePrompt:                "Create a professional meeting invitation with the following details:\nMeeting type: %s\nAttendees: %s\nProposed time: %s\n%s\nPlease include a proposed agenda if appropriate for the meeting type.",
	InviteNoteContext:           "Use the following note as additional reference for context and the proposed agenda if appropriate: \"%s\n%s\"",
}
