// Package httpaudio synthesizes speech through a generic HTTP endpoint that
// answers POST {text, lang} with audio bytes.
package httpaudio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/koscakluka/medtranslate-core/core/audio"
	"github.com/koscakluka/medtranslate-core/core/texttospeech"
)

const scopeName = "github.com/koscakluka/medtranslate-core/core/texttospeech/httpaudio"

var (
	tracer = otel.Tracer(scopeName)
	logger = otelslog.NewLogger(scopeName)
)

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 512

type Client struct {
	url        string
	httpClient *http.Client
	header     http.Header
}

type ClientOption func(*Client)

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func WithHeader(key, value string) ClientOption {
	return func(c *Client) { c.header.Set(key, value) }
}

func NewClient(url string, opts ...ClientOption) *Client {
	client := &Client{
		url: url,
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return "synthesize " + r.URL.Host
			}),
		)},
		header: http.Header{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type requestBody struct {
	Text string `json:"text"`
	Lang string `json:"lang"`
}

// Synthesize posts the text and decodes the returned audio.
func (c *Client) Synthesize(ctx context.Context, text string, opts ...texttospeech.SpeakOption) (audio.Clip, error) {
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

func (c *Client) synthesize(ctx context.Context, text string, options texttospeech.SpeakOptions) (audio.Clip, error) {
	body, err := json.Marshal(requestBody{Text: text, Lang: options.Language})
	if err != nil {
		return audio.Clip{}, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return audio.Clip{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header = c.header.Clone()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/wav, audio/L16")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return audio.Clip{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return audio.Clip{}, &texttospeech.StatusError{StatusCode: resp.StatusCode, Body: string(errorBody)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return audio.Clip{}, fmt.Errorf("failed to read audio: %w", err)
	}

	clip, err := audio.DecodeClip(resp.Header.Get("Content-Type"), data)
	if err != nil {
		return audio.Clip{}, fmt.Errorf("failed to decode audio: %w", err)
	}
	logger.Debug("synthesized speech", "bytes", len(clip.Data), "duration", clip.Encoding.Duration(len(clip.Data)))
	return clip, nil
}
