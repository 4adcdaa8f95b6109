package deepgram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/koscakluka/medtranslate-core/core/audio"
	"github.com/koscakluka/medtranslate-core/core/texttospeech"
)

type websocketMessage struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

var (
	flushMsg = websocketMessage{Type: "Flush"}
	closeMsg = websocketMessage{Type: "Close"}
)

func speakMsg(text string) websocketMessage {
	return websocketMessage{Type: "Speak", Text: text}
}

// Synthesize speaks text over a fresh stream and returns the collected
// audio once Deepgram reports it has flushed.
func (c *TextToSpeechClient) Synthesize(ctx context.Context, text string, opts ...texttospeech.SpeakOption) (audio.Clip, error) {
	options := texttospeech.NewSpeakOptions(opts...)

	ctx, span := tracer.Start(ctx, "synthesize speech")
	defer span.End()
	span.SetAttributes(attribute.String("speech.language", options.Language))

	clip, err := c.synthesize(ctx, text, options)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "synthesis failed")
		return audio.Clip{}, err
	}
	return clip, nil
}

func (c *TextToSpeechClient) synthesize(ctx context.Context, text string, options texttospeech.SpeakOptions) (audio.Clip, error) {
	if c.apiKey == "" {
		return audio.Clip{}, fmt.Errorf("deepgram api key not found")
	}
	voice := Voice(options.Voice)
	if voice == "" {
		var err error
		if voice, err = VoiceFor(options.Language); err != nil {
			return audio.Clip{}, err
		}
	}
	if options.EncodingInfo.Format != audio.EncodingLinear16 {
		return audio.Clip{}, fmt.Errorf("%w: %s", audio.ErrUnsupportedAudio, options.EncodingInfo.Format.Name())
	}

	ws, err := c.connectWebsocket(ctx, voice, options.EncodingInfo)
	if err != nil {
		return audio.Clip{}, err
	}
	defer ws.Close()

	stop := context.AfterFunc(ctx, func() { _ = ws.Close() })
	defer stop()

	if err := ws.WriteJSON(speakMsg(text)); err != nil {
		return audio.Clip{}, fmt.Errorf("failed to send text: %w", err)
	}
	if err := ws.WriteJSON(flushMsg); err != nil {
		return audio.Clip{}, fmt.Errorf("failed to flush text: %w", err)
	}

	clip := audio.Clip{Encoding: options.EncodingInfo}
	for {
		msgType, msg, err := ws.ReadMessage()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return audio.Clip{}, ctxErr
			}
			return audio.Clip{}, fmt.Errorf("failed to read speech: %w", err)
		}

		switch msgType {
		case websocket.BinaryMessage:
			clip.Data = append(clip.Data, msg...)
		case websocket.TextMessage:
			var parsedMsg struct {
				Type    string `json:"type"`
				ErrMsg  string `json:"err_msg"`
				Warning string `json:"warn_msg"`
			}
			if err := json.Unmarshal(msg, &parsedMsg); err != nil {
				logger.Debug("failed to unmarshal deepgram message", "error", err)
				continue
			}

			switch parsedMsg.Type {
			case "Flushed":
				_ = ws.WriteJSON(closeMsg)
				if len(clip.Data) == 0 {
					return audio.Clip{}, errors.New("deepgram returned no audio")
				}
				return clip, nil
			case "Error":
				return audio.Clip{}, fmt.Errorf("deepgram error: %s", parsedMsg.ErrMsg)
			case "Warning":
				logger.Warn("deepgram warning", "message", parsedMsg.Warning)
			}
		}
	}
}

func (c *TextToSpeechClient) connectWebsocket(ctx context.Context, voice Voice, encodingInfo audio.EncodingInfo) (*websocket.Conn, error) {
	speakURL, err := url.Parse(c.speakURL)
	if err != nil {
		return nil, fmt.Errorf("invalid speak url: %w", err)
	}
	urlValues := speakURL.Query()
	urlValues.Set("encoding", encodingInfo.Format.Name())
	urlValues.Set("sample_rate", strconv.Itoa(encodingInfo.SampleRate))
	urlValues.Set("model", string(voice))
	urlValues.Set("container", "none")
	speakURL.RawQuery = urlValues.Encode()

	conn, resp, err := c.dialer.DialContext(ctx, speakURL.String(),
		http.Header{"Authorization": {"token " + c.apiKey}})
	if err != nil {
		if resp != nil {
			return nil, &texttospeech.StatusError{StatusCode: resp.StatusCode}
		}
		return nil, fmt.Errorf("failed to open socket connection to deepgram: %w", err)
	}

	return conn, nil
}
