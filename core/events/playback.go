package events

import "github.com/koscakluka/medtranslate-core/core/language"

const (
	KindPlaybackStarted Kind = "playback.started"
	KindPlaybackEnded   Kind = "playback.ended"
)

// PlaybackStarted names the provider that is speaking.
type PlaybackStarted struct {
	Base
	Provider string
	Language language.Code
	Text     string
}

func NewPlaybackStarted(provider string, lang language.Code, text string) PlaybackStarted {
	return PlaybackStarted{Base: NewBase(KindPlaybackStarted), Provider: provider, Language: lang, Text: text}
}

// PlaybackEnded is emitted once per utterance. Err is set when every
// provider failed.
type PlaybackEnded struct {
	Base
	Provider string
	Err      error
}

func NewPlaybackEnded(provider string, err error) PlaybackEnded {
	return PlaybackEnded{Base: NewBase(KindPlaybackEnded), Provider: provider, Err: err}
}
