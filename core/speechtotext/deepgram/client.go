// Package deepgram recognizes speech with Deepgram's streaming listen API,
// fed by a local audio capturer.
package deepgram

import (
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/koscakluka/medtranslate-core/core/audio"
)

const (
	defaultListenURL = "wss://api.deepgram.com/v1/listen"
	defaultModel     = "nova-3"
	// closeGrace bounds how long a stopped stream may take to deliver its
	// last results.
	closeGrace = 2 * time.Second
)

type TranscriptionClient struct {
	apiKey    string
	listenURL string
	model     string
	dialer    *websocket.Dialer
	capture   audio.Capturer

	connMu sync.Mutex
	conn   *websocket.Conn
	active *utterance
}

type ClientOption func(*TranscriptionClient)

func WithAPIKey(apiKey string) ClientOption {
	return func(c *TranscriptionClient) { c.apiKey = apiKey }
}

// WithListenURL points the client at a different listen endpoint.
func WithListenURL(listenURL string) ClientOption {
	return func(c *TranscriptionClient) { c.listenURL = listenURL }
}

func WithModel(model string) ClientOption {
	return func(c *TranscriptionClient) { c.model = model }
}

// NewTranscriptionClient reads DEEPGRAM_API_KEY unless WithAPIKey is given.
func NewTranscriptionClient(capture audio.Capturer, opts ...ClientOption) *TranscriptionClient {
	apiKey, _ := os.LookupEnv("DEEPGRAM_API_KEY")
	client := &TranscriptionClient{
		apiKey:    apiKey,
		listenURL: defaultListenURL,
		model:     defaultModel,
		dialer:    websocket.DefaultDialer,
		capture:   capture,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}
