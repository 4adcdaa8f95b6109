package events

import "github.com/koscakluka/medtranslate-core/core/language"

const (
	KindTranslationRequested Kind = "translation.requested"
	KindTranslationReceived  Kind = "translation.received"
	KindAnswerCaptured       Kind = "translation.answer_captured"
)

type TranslationRequested struct {
	Base
	Text      string
	Direction language.Direction
}

func NewTranslationRequested(text string, direction language.Direction) TranslationRequested {
	return TranslationRequested{Base: NewBase(KindTranslationRequested), Text: text, Direction: direction}
}

type TranslationReceived struct {
	Base
	Text     string
	Original string
}

func NewTranslationReceived(text, original string) TranslationReceived {
	return TranslationReceived{Base: NewBase(KindTranslationReceived), Text: text, Original: original}
}

type AnswerCaptured struct {
	Base
	StepIndex int
	Answer    string
}

func NewAnswerCaptured(stepIndex int, answer string) AnswerCaptured {
	return AnswerCaptured{Base: NewBase(KindAnswerCaptured), StepIndex: stepIndex, Answer: answer}
}
