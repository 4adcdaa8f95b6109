package events

import (
	"time"

	"github.com/koscakluka/medtranslate-core/core/language"
)

const (
	KindRecordingStarted Kind = "recording.started"
	KindRecordingElapsed Kind = "recording.elapsed"
	KindRecordingStopped Kind = "recording.stopped"
)

type RecordingStarted struct {
	Base
	Direction language.Direction
}

func NewRecordingStarted(direction language.Direction) RecordingStarted {
	return RecordingStarted{Base: NewBase(KindRecordingStarted), Direction: direction}
}

// RecordingElapsed reports the recording time accumulated over the session.
type RecordingElapsed struct {
	Base
	Elapsed time.Duration
}

func NewRecordingElapsed(elapsed time.Duration) RecordingElapsed {
	return RecordingElapsed{Base: NewBase(KindRecordingElapsed), Elapsed: elapsed}
}

type RecordingStopped struct{ Base }

func NewRecordingStopped() RecordingStopped {
	return RecordingStopped{Base: NewBase(KindRecordingStopped)}
}
