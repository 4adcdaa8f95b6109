package events

import (
	"errors"
	"testing"

	"github.com/koscakluka/medtranslate-core/core/language"
)

func TestConstructorsEmitExpectedKinds(t *testing.T) {
	direction := language.Direction{From: "en-US", To: "es-ES"}
	testCases := []struct {
		name     string
		event    Event
		expected Kind
	}{
		{name: "status changed", event: NewStatusChanged("listening"), expected: KindStatusChanged},
		{name: "direction changed", event: NewDirectionChanged(language.SideRight, direction), expected: KindDirectionChanged},
		{name: "prompt changed", event: NewPromptChanged("Listening..."), expected: KindPromptChanged},
		{name: "connection changed", event: NewConnectionChanged(true), expected: KindConnectionChanged},
		{name: "notification", event: NewNotification(NotificationError, "Not connected to server", errors.New("offline")), expected: KindNotification},
		{name: "slider moved", event: NewSliderMoved(0.5), expected: KindSliderMoved},
		{name: "recording started", event: NewRecordingStarted(direction), expected: KindRecordingStarted},
		{name: "recording elapsed", event: NewRecordingElapsed(0), expected: KindRecordingElapsed},
		{name: "recording stopped", event: NewRecordingStopped(), expected: KindRecordingStopped},
		{name: "interim transcript", event: NewTranscriptInterimUpdated("hel"), expected: KindTranscriptInterimUpdated},
		{name: "final transcript", event: NewTranscriptFinal("hello"), expected: KindTranscriptFinal},
		{name: "translation requested", event: NewTranslationRequested("hello", direction), expected: KindTranslationRequested},
		{name: "translation received", event: NewTranslationReceived("hola", "hello"), expected: KindTranslationReceived},
		{name: "answer captured", event: NewAnswerCaptured(0, "yes"), expected: KindAnswerCaptured},
		{name: "playback started", event: NewPlaybackStarted("system", "es-ES", "hola"), expected: KindPlaybackStarted},
		{name: "playback ended", event: NewPlaybackEnded("system", nil), expected: KindPlaybackEnded},
		{name: "interview started", event: NewInterviewStarted(3), expected: KindInterviewStarted},
		{name: "interview question", event: NewInterviewQuestionAsked(0, "q"), expected: KindInterviewQuestionAsked},
		{name: "interview completed", event: NewInterviewCompleted("summary", false), expected: KindInterviewCompleted},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.event.Kind(); got != testCase.expected {
				t.Fatalf("expected kind %q, got %q", testCase.expected, got)
			}
			if testCase.event.Timestamp().IsZero() {
				t.Fatalf("expected timestamp to be set")
			}
		})
	}
}

func TestRecordingStartedAndStoppedKindsAreDistinct(t *testing.T) {
	started := NewRecordingStarted(language.Direction{})
	stopped := NewRecordingStopped()

	if started.Kind() == stopped.Kind() {
		t.Fatalf("expected recording started and stopped kinds to differ, both were %q", started.Kind())
	}
}

func TestEventsAreSequencedInCreationOrder(t *testing.T) {
	first := NewStatusChanged("listening")
	second := NewPromptChanged("Listening...")

	if second.Sequence() <= first.Sequence() {
		t.Fatalf("expected increasing sequence, got %d then %d", first.Sequence(), second.Sequence())
	}
	if group := second.Kind().Group(); group != "session" {
		t.Fatalf("expected session group, got %q", group)
	}
}
