package speechtotext

import "github.com/koscakluka/medtranslate-core/core/audio"

// TranscriptionOptions configure a single utterance. Recognition is
// non-continuous: it ends after the first utterance or on
// StopTranscribing, and EndedCallback fires exactly once either way.
type TranscriptionOptions struct {
	// Language is the speech locale, e.g. "es-ES".
	Language string

	// InterimTranscriptionCallback receives the whole transcript so far.
	// Each call replaces the previous one.
	InterimTranscriptionCallback func(transcript string)
	TranscriptionCallback        func(transcript string)
	ErrorCallback                func(err error)
	EndedCallback                func()

	EncodingInfo audio.EncodingInfo
}

type TranscriptionOption func(*TranscriptionOptions)

func WithLanguage(language string) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.Language = language
	}
}

func WithInterimTranscriptionCallback(callback func(transcript string)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.InterimTranscriptionCallback = callback
	}
}

func WithTranscriptionCallback(callback func(transcript string)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.TranscriptionCallback = callback
	}
}

func WithErrorCallback(callback func(err error)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.ErrorCallback = callback
	}
}

func WithEndedCallback(callback func()) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.EndedCallback = callback
	}
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.EncodingInfo = encodingInfo
	}
}

// NewTranscriptionOptions applies opts over the defaults.
func NewTranscriptionOptions(opts ...TranscriptionOption) TranscriptionOptions {
	options := TranscriptionOptions{Language: "en-US", EncodingInfo: audio.GetDefaultEncodingInfo()}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
