// Package deepgram synthesizes speech over Deepgram's streaming speak API.
package deepgram

import (
	"fmt"
	"os"
	"strings"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"

	"github.com/koscakluka/medtranslate-core/core/texttospeech"
)

const scopeName = "github.com/koscakluka/medtranslate-core/core/texttospeech/deepgram"

var (
	tracer = otel.Tracer(scopeName)
	logger = otelslog.NewLogger(scopeName)
)

const defaultSpeakURL = "wss://api.deepgram.com/v1/speak"

// Voice is a Deepgram Aura model name.
type Voice string

// voices holds one Aura voice per supported language.
var voices = map[string]Voice{
	"en": "aura-2-thalia-en",
	"es": "aura-2-celeste-es",
	"fr": "aura-2-agathe-fr",
	"de": "aura-2-julius-de",
	"it": "aura-2-livia-it",
	"nl": "aura-2-rhea-nl",
	"ja": "aura-2-fujin-ja",
}

// VoiceFor picks the voice for a speech locale such as "es-ES".
func VoiceFor(locale string) (Voice, error) {
	base, _, _ := strings.Cut(strings.ToLower(locale), "-")
	voice, ok := voices[base]
	if !ok {
		return "", fmt.Errorf("%w: %q", texttospeech.ErrUnsupportedLanguage, locale)
	}
	return voice, nil
}

// Supports reports whether a locale has a voice.
func Supports(locale string) bool {
	_, err := VoiceFor(locale)
	return err == nil
}

type TextToSpeechClient struct {
	apiKey   string
	speakURL string
	dialer   *websocket.Dialer
}

type ClientOption func(*TextToSpeechClient)

func WithAPIKey(apiKey string) ClientOption {
	return func(c *TextToSpeechClient) { c.apiKey = apiKey }
}

func WithSpeakURL(speakURL string) ClientOption {
	return func(c *TextToSpeechClient) { c.speakURL = speakURL }
}

// NewTextToSpeechClient reads DEEPGRAM_API_KEY unless WithAPIKey is given.
func NewTextToSpeechClient(opts ...ClientOption) *TextToSpeechClient {
	apiKey, _ := os.LookupEnv("DEEPGRAM_API_KEY")
	client := &TextToSpeechClient{
		apiKey:   apiKey,
		speakURL: defaultSpeakURL,
		dialer:   websocket.DefaultDialer,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}
