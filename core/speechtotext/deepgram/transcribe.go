package deepgram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	api "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/websocket/interfaces"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"

	"github.com/koscakluka/medtranslate-core/core/speechtotext"
)

var errAlreadyRunning = errors.New("transcription already running")

// utterance is the state of one Transcribe call.
type utterance struct {
	options  speechtotext.TranscriptionOptions
	conn     *websocket.Conn
	stopping atomic.Bool

	mu          sync.Mutex
	accumulated string
	finished    sync.Once
}

// Transcribe opens a listen stream in options.Language and starts the
// capturer. Recognition is non-continuous: the stream is closed after the
// first end of speech or when StopTranscribing is called.
func (c *TranscriptionClient) Transcribe(ctx context.Context, opts ...speechtotext.TranscriptionOption) error {
	ctx, span := tracer.Start(ctx, "start transcription")
	defer span.End()

	if c.capture == nil {
		return fmt.Errorf("%w: no audio capture configured", speechtotext.ErrUnsupported)
	}
	if c.apiKey == "" {
		return fmt.Errorf("%w: deepgram api key not found", speechtotext.ErrUnsupported)
	}

	opts = append([]speechtotext.TranscriptionOption{speechtotext.WithEncodingInfo(c.capture.EncodingInfo())}, opts...)
	options := speechtotext.NewTranscriptionOptions(opts...)
	span.SetAttributes(attribute.String("speech.language", options.Language))

	encoding, err := convertEncoding(options.EncodingInfo)
	if err != nil {
		return fmt.Errorf("invalid encoding: %w", err)
	}

	c.connMu.Lock()
	if c.active != nil {
		c.connMu.Unlock()
		return errAlreadyRunning
	}
	c.connMu.Unlock()

	conn, err := c.connectWebsocket(ctx, connectionOptions{
		sampleRate: encoding.SampleRate,
		encoding:   encoding.Format.Name(),
		language:   options.Language,
	})
	if err != nil {
		span.RecordError(err)
		return err
	}

	u := &utterance{options: options, conn: conn}
	c.connMu.Lock()
	c.conn = conn
	c.active = u
	c.connMu.Unlock()

	go c.readAndProcessMessages(u)

	if err := c.capture.StartCapture(ctx, c.sendAudio); err != nil {
		err = fmt.Errorf("%w: %w", speechtotext.ErrPermissionDenied, err)
		span.RecordError(err)
		// the error is returned instead of reported through callbacks
		u.stopping.Store(true)
		u.finished.Do(func() {})
		c.connMu.Lock()
		c.active, c.conn = nil, nil
		c.connMu.Unlock()
		_ = conn.Close()
		return err
	}

	return nil
}

type connectionOptions struct {
	sampleRate int
	encoding   string
	language   string
}

func (c *TranscriptionClient) connectWebsocket(ctx context.Context, options connectionOptions) (*websocket.Conn, error) {
	listenURL, err := url.Parse(c.listenURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid listen url: %w", speechtotext.ErrUnsupported, err)
	}
	queryParams := listenURL.Query()
	queryParams.Set("encoding", options.encoding)
	queryParams.Set("sample_rate", strconv.Itoa(options.sampleRate))
	queryParams.Set("channels", "1")
	queryParams.Set("model", c.model)
	queryParams.Set("language", options.language)
	queryParams.Set("smart_format", "true")
	queryParams.Set("interim_results", "true")
	queryParams.Set("utterance_end_ms", "1000")
	queryParams.Set("endpointing", "300")
	queryParams.Set("vad_events", "true")
	listenURL.RawQuery = queryParams.Encode()

	conn, resp, err := c.dialer.DialContext(ctx, listenURL.String(),
		http.Header{"Authorization": {"Token " + c.apiKey}})
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			return nil, fmt.Errorf("%w: deepgram rejected credentials (status %d)", speechtotext.ErrUnsupported, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: failed to open socket connection to deepgram: %w", speechtotext.ErrNetwork, err)
	}

	return conn, nil
}

func (c *TranscriptionClient) sendAudio(audio []byte) {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return
	}
	if err := c.conn.WriteMessage(websocket.BinaryMessage, audio); err != nil {
		logger.Debug("failed to write audio to deepgram", "error", err)
	}
}

// StopTranscribing stops the capturer and asks Deepgram to flush. The
// final transcript and the end callback follow once the stream closes.
func (c *TranscriptionClient) StopTranscribing() error {
	c.connMu.Lock()
	u := c.active
	c.connMu.Unlock()
	if u == nil {
		return nil
	}

	return c.closeStream(u)
}

func (c *TranscriptionClient) closeStream(u *utterance) error {
	if !u.stopping.CompareAndSwap(false, true) {
		return nil
	}

	if err := c.capture.StopCapture(); err != nil {
		logger.Warn("failed to stop audio capture", "error", err)
	}

	c.connMu.Lock()
	defer c.connMu.Unlock()
	time.AfterFunc(closeGrace, func() { _ = u.conn.Close() })
	if err := u.conn.WriteJSON(struct {
		Type string `json:"type"`
	}{Type: string(api.TypeCloseStreamResponse)}); err != nil {
		_ = u.conn.Close()
		return fmt.Errorf("failed to close deepgram stream: %w", err)
	}
	return nil
}

func (c *TranscriptionClient) readAndProcessMessages(u *utterance) {
	defer c.finish(u)

	for {
		msgType, msg, err := u.conn.ReadMessage()
		if err != nil {
			if u.stopping.Load() || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return
			}
			logger.Warn("deepgram stream failed", "error", err)
			if u.options.ErrorCallback != nil {
				u.options.ErrorCallback(fmt.Errorf("%w: %w", speechtotext.ErrNetwork, err))
			}
			return
		}
		if msgType == websocket.TextMessage {
			c.processMessage(u, msg)
		}
	}
}

func (c *TranscriptionClient) processMessage(u *utterance, msg []byte) {
	var parsedMsg struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(msg, &parsedMsg); err != nil {
		logger.Debug("failed to unmarshal deepgram message", "error", err)
		return
	}

	switch api.TypeResponse(parsedMsg.Type) {
	case api.TypeMessageResponse:
		var msgResp api.MessageResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			logger.Debug("failed to unmarshal deepgram results", "error", err)
			return
		}
		transcript := ""
		if len(msgResp.Channel.Alternatives) > 0 {
			transcript = strings.TrimSpace(msgResp.Channel.Alternatives[0].Transcript)
		}

		u.mu.Lock()
		current := u.accumulated
		if transcript != "" {
			current = strings.TrimSpace(u.accumulated + " " + transcript)
			if msgResp.IsFinal {
				u.accumulated = current
			}
		}
		u.mu.Unlock()

		if transcript != "" && u.options.InterimTranscriptionCallback != nil {
			u.options.InterimTranscriptionCallback(current)
		}
		if msgResp.IsFinal && msgResp.SpeechFinal {
			_ = c.closeStream(u)
		}

	case api.TypeUtteranceEndResponse:
		_ = c.closeStream(u)
	}
}

// finish delivers the final transcript and the end callback exactly once.
func (c *TranscriptionClient) finish(u *utterance) {
	u.finished.Do(func() {
		_ = u.conn.Close()

		c.connMu.Lock()
		if c.active == u {
			c.active = nil
			c.conn = nil
		}
		c.connMu.Unlock()

		if u.stopping.CompareAndSwap(false, true) {
			if err := c.capture.StopCapture(); err != nil {
				logger.Warn("failed to stop audio capture", "error", err)
			}
		}

		u.mu.Lock()
		transcript := strings.TrimSpace(u.accumulated)
		u.mu.Unlock()

		if transcript != "" && u.options.TranscriptionCallback != nil {
			u.options.TranscriptionCallback(transcript)
		}
		if u.options.EndedCallback != nil {
			u.options.EndedCallback()
		}
	})
}
