package locale

import "golang.org/x/text/language"

var arabic = &Bundle{
	Tag: language.Arabic,

	DefaultNoteTitle: "ملاحظة بدون عنوان",
	Unset:            "غير محدد",

	TypeLabels: map[string]string{
		"general": "عام",
		"meeting": "اجتماع",
		"idea":    "فكرة",
		"task":    "مهمة",
		"journal": "يوميات",
	},

	NewNotePhrases:   []string{"ملاحظة جديدة", "تدوين ملاحظة"},
	SummarizePhrases: []string{"لخص الملاحظة", "تلخيص"},
	TitlePhrases:     []string{"اقترح عنوان"},
	MeetingPhrases:   []string{"رتب اجتماع", "أريد ترتيب اجتماع"},

	SuggestionError:     "خطأ في جلب اقتراح الذكاء الاصطناعي",
	DialogueError:       "حدث خطأ:",
	CaptureUnsupported:  "متصفحك لا يدعم التعرف على الصوت.",
	CaptureError:        "خطأ في التعرف على الصوت",
	SearchNoResults:     "لم يتم العثور على ملاحظات تطابق بحثك.",
	MeetingReadyPhrase:  "صياغة دعوة",
	MeetingTitlePrefix:  "اجتماع:",
	MeetingInviteHeader: "دعوة الاجتماع:",
	AttendeesLabel:      "الحضور:",
	TimeLabel:           "الموعد:",
	ProposedMeetingType: "اجتماع مُقترح",
	ProposedAttendees:   "المعنيين (بحسب الملاحظة)",
	ProposedTime:        "يُحدد لاحقاً (بحسب الملاحظة)",

	SuggestTitlePrompt:      "اقترح عنوانًا موجزًا وجذابًا لهذه الملاحظة:\n\n%s",
	RephrasePrompt:          "أعد صياغة هذا النص ليكون أكثر وضوحًا وإيجازًا أو احترافية:\n\n%s",
	SummaryPrompt:           "لخص هذه الملاحظة، مع إبراز النقاط الرئيسية وأية عناصر قابلة للتنفيذ:\n\n%s",
	StructuredSummaryPrompt: "لخص النص التالي وحدد أي عناصر عمل قابلة للتنفيذ:\n\n%s\n\nقم بالرد بتنسيق JSON: {\"summary\": \"الملخص هنا\", \"actionItems\": [\"مهمة 1\", \"مهمة 2\"]}",
	ClassifyPrompt:          "صنف نوع هذه الملاحظة (اختر من: %s):\n\n%s",
	DevelopIdeaPrompt:       "طوّر هذه الفكرة الأولية إلى خطة تنفيذ مقترحة مع خطوات رئيسية:\n\n%s",
	MinutesPrompt:           "بناءً على نقاط الاجتماع التالية، قم بإنشاء محضر اجتماع رسمي:\n\n%s\n\nتأكد من تضمين الحضور (إذا ذكر)، القرارات الرئيسية، وعناصر العمل مع المسؤولين (إذا أمكن).",
	DocumentPrompt:          "بناءً على الملاحظات التالية، قم بإنشاء %s:\n\n%s\n\nاجعل المستند احترافيًا وشاملاً.",
	ImprovePrompt:           "أعد صياغة النص التالي لتحسين وضوحه وإيجازه وجودته العامة. قدم فقط النص المُعاد صياغته:\n\n%s",
	ShorterPrompt:           "اجعل النص التالي أقصر مع الحفاظ على المعنى الأساسي. قدم فقط النص المختصر:\n\n%s",
	KeyPointPrompt:          "حلل النص التالي واقترح نقطة رئيسية هامة يمكن إضافتها أو توسيعها، أو قم بدمج نقطة رئيسية ذات صلة بالموضوع:\n\n%s",
	ContextualInvitePrompt:  "بناءً على الملاحظة التالية، قم بإنشاء مسودة دعوة اجتماع احترافية. استخلص التفاصيل ذات الصلة مثل الموضوع، وبنود جدول الأعمال المحتملة، والأهداف من الملاحظة. إذا لم تكن التفاصيل كافية، اطلبها:\n\nالعنوان: %s\nالمحتوى: %s",

	MeetingInstruction:          "أنت مساعد لتنظيم الاجتماعات. سأطلب منك ترتيب اجتماع. اطرح عليّ الأسئلة اللازمة خطوة بخطوة لجمع التفاصيل (نوع الاجتماع، الحضور، الموعد المقترح).",
	MeetingFromNoteInstruction:  "أنت مساعد لتنظيم الاجتماعات. المستخدم يريد إنشاء اجتماع بناء على الملاحظة التالية: \"%s\n%s\". اطرح الأسئلة اللازمة لجمع التفاصيل (نوع الاجتماع، الحضور، الموعد المقترح). ابدأ بسؤال عن نوع الاجتماع.",
	MeetingFromVoiceInstruction: "أنت مساعد لتنظيم الاجتماعات. المستخدم ذكر: %s. ابدأ بطرح الأسئلة لجمع التفاصيل.",
	MeetingOpening:              "بالتأكيد! لمساعدتك في ترتيب الاجتماع، ما هو نوع الاجتماع الذي تود عقده؟",
	MeetingFromNoteOpening:      "بناءً على ملاحظتك \"%s\", ما هو نوع الاجتماع الذي تود عقده؟",
	MeetingFromVoiceOpening:     "فهمت أنك تريد ترتيب اجتماع بناءً على قولك: \"%s\". ما هو نوع الاجتماع؟",
	InvitePrompt:                "أنشئ دعوة اجتماع احترافية بالتفاصيل التالية:\nنوع الاجتماع: %s\nالحضور: %s\nالموعد المقترح: %s\n%s\nالرجاء تضمين جدول أعمال مقترح إذا كان ذلك مناسبًا لنوع الاجتماع.",
	InviteNoteContext:           "استخدم الملاحظة التالية كمرجع إضافي للسياق وجدول الأعمال المقترح إذا كان ذلك مناسبًا: \"%s\n%s\"",
}
