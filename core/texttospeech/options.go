package texttospeech

import "github.com/koscakluka/medtranslate-core/core/audio"

const DefaultRate = 0.9

type SpeakOptions struct {
	// Language is the speech locale, e.g. "es-ES".
	Language string
	// Rate scales the speaking rate; 1 is the provider's normal speed.
	Rate  float64
	Voice string

	EncodingInfo audio.EncodingInfo
}

type SpeakOption func(*SpeakOptions)

func WithLanguage(language string) SpeakOption {
	return func(o *SpeakOptions) { o.Language = language }
}

func WithRate(rate float64) SpeakOption {
	return func(o *SpeakOptions) {
		if rate > 0 {
			o.Rate = rate
		}
	}
}

func WithVoice(voice string) SpeakOption {
	return func(o *SpeakOptions) { o.Voice = voice }
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) SpeakOption {
	return func(o *SpeakOptions) {
		if encodingInfo.IsZero() {
			return
		}
		o.EncodingInfo = encodingInfo
	}
}

func NewSpeakOptions(opts ...SpeakOption) SpeakOptions {
	options := SpeakOptions{
		Language:     "en-US",
		Rate:         DefaultRate,
		EncodingInfo: audio.GetDefaultEncodingInfo(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
