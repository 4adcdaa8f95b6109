package events

const (
	KindTranscriptInterimUpdated Kind = "transcript.interim_updated"
	KindTranscriptFinal          Kind = "transcript.final"
)

// TranscriptInterimUpdated carries the full interim transcript so far.
type TranscriptInterimUpdated struct {
	Base
	Transcript string
}

func NewTranscriptInterimUpdated(transcript string) TranscriptInterimUpdated {
	return TranscriptInterimUpdated{Base: NewBase(KindTranscriptInterimUpdated), Transcript: transcript}
}

type TranscriptFinal struct {
	Base
	Transcript string
}

func NewTranscriptFinal(transcript string) TranscriptFinal {
	return TranscriptFinal{Base: NewBase(KindTranscriptFinal), Transcript: transcript}
}
