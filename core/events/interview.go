package events

const (
	KindInterviewStarted       Kind = "interview.started"
	KindInterviewQuestionAsked Kind = "interview.question_asked"
	KindInterviewCompleted     Kind = "interview.completed"
)

type InterviewStarted struct {
	Base
	Questions int
}

func NewInterviewStarted(questions int) InterviewStarted {
	return InterviewStarted{Base: NewBase(KindInterviewStarted), Questions: questions}
}

type InterviewQuestionAsked struct {
	Base
	StepIndex int
	Question  string
}

func NewInterviewQuestionAsked(stepIndex int, question string) InterviewQuestionAsked {
	return InterviewQuestionAsked{Base: NewBase(KindInterviewQuestionAsked), StepIndex: stepIndex, Question: question}
}

// InterviewCompleted carries the rendered summary. Skipped is true when the
// interview was ended before its last question.
type InterviewCompleted struct {
	Base
	Summary string
	Skipped bool
}

func NewInterviewCompleted(summary string, skipped bool) InterviewCompleted {
	return InterviewCompleted{Base: NewBase(KindInterviewCompleted), Summary: summary, Skipped: skipped}
}
