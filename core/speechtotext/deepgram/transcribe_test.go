package deepgram

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/koscakluka/medtranslate-core/core/audio"
	"github.com/koscakluka/medtranslate-core/core/speechtotext"
)

type captureStub struct {
	startErr error
	started  atomic.Int32
	stopped  atomic.Int32
}

func (c *captureStub) StartCapture(_ context.Context, onAudio func([]byte)) error {
	c.started.Add(1)
	if c.startErr != nil {
		return c.startErr
	}
	go onAudio([]byte{0, 0, 0, 0})
	return nil
}

func (c *captureStub) StopCapture() error {
	c.stopped.Add(1)
	return nil
}

func (c *captureStub) EncodingInfo() audio.EncodingInfo { return audio.GetDefaultEncodingInfo() }

func newListenServer(t *testing.T, handler func(conn *websocket.Conn, r *http.Request)) (string, func()) {
	t.Helper()

	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		handler(conn, r)
	}))

	return "ws" + strings.TrimPrefix(server.URL, "http"), server.Close
}

// awaitCloseStream reads until the client asks to close, then closes
// normally.
func awaitCloseStream(conn *websocket.Conn) {
	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType == websocket.TextMessage && strings.Contains(string(msg), "CloseStream") {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			return
		}
	}
}

func TestTranscribeDeliversInterimThenFinal(t *testing.T) {
	languages := make(chan string, 1)
	serverURL, closeServer := newListenServer(t, func(conn *websocket.Conn, r *http.Request) {
		defer conn.Close()
		languages <- r.URL.Query().Get("language")
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"Results","channel":{"alternatives":[{"transcript":"hola"}]},"is_final":false}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"Results","channel":{"alternatives":[{"transcript":"hola doctor"}]},"is_final":true,"speech_final":true}`))
		awaitCloseStream(conn)
	})
	defer closeServer()

	capture := &captureStub{}
	client := NewTranscriptionClient(capture, WithAPIKey("key"), WithListenURL(serverURL))

	interims := make(chan string, 4)
	finals := make(chan string, 1)
	ended := make(chan struct{})
	endedCalls := atomic.Int32{}
	err := client.Transcribe(context.Background(),
		speechtotext.WithLanguage("es-ES"),
		speechtotext.WithInterimTranscriptionCallback(func(transcript string) { interims <- transcript }),
		speechtotext.WithTranscriptionCallback(func(transcript string) { finals <- transcript }),
		speechtotext.WithEndedCallback(func() {
			if endedCalls.Add(1) == 1 {
				close(ended)
			}
		}),
	)
	if err != nil {
		t.Fatalf("expected transcribe to start, got %v", err)
	}

	if got := <-languages; got != "es-ES" {
		t.Fatalf("expected language es-ES, got %q", got)
	}

	select {
	case <-ended:
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for end of utterance")
	}

	if got := <-interims; got != "hola" {
		t.Fatalf("expected first interim %q, got %q", "hola", got)
	}
	select {
	case got := <-finals:
		if got != "hola doctor" {
			t.Fatalf("expected final %q, got %q", "hola doctor", got)
		}
	default:
		t.Fatalf("expected final transcript before end")
	}
	if capture.stopped.Load() == 0 {
		t.Fatalf("expected capture to be stopped")
	}
	if endedCalls.Load() != 1 {
		t.Fatalf("expected exactly one end callback, got %d", endedCalls.Load())
	}
}

func TestStopTranscribingWithoutSpeechEndsWithoutTranscript(t *testing.T) {
	serverURL, closeServer := newListenServer(t, func(conn *websocket.Conn, _ *http.Request) {
		defer conn.Close()
		awaitCloseStream(conn)
	})
	defer closeServer()

	client := NewTranscriptionClient(&captureStub{}, WithAPIKey("key"), WithListenURL(serverURL))

	finals := atomic.Int32{}
	ended := make(chan struct{})
	if err := client.Transcribe(context.Background(),
		speechtotext.WithTranscriptionCallback(func(string) { finals.Add(1) }),
		speechtotext.WithEndedCallback(func() { close(ended) }),
	); err != nil {
		t.Fatalf("expected transcribe to start, got %v", err)
	}

	if err := client.StopTranscribing(); err != nil {
		t.Fatalf("expected stop to succeed, got %v", err)
	}

	select {
	case <-ended:
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for end")
	}
	if finals.Load() != 0 {
		t.Fatalf("expected no final transcript for silence")
	}
}

func TestTranscribeWithoutAPIKeyIsUnsupported(t *testing.T) {
	client := NewTranscriptionClient(&captureStub{}, WithAPIKey(""))
	if err := client.Transcribe(context.Background()); !errors.Is(err, speechtotext.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestTranscribeCaptureFailureIsPermissionDenied(t *testing.T) {
	serverURL, closeServer := newListenServer(t, func(conn *websocket.Conn, _ *http.Request) {
		defer conn.Close()
		awaitCloseStream(conn)
	})
	defer closeServer()

	ended := atomic.Int32{}
	capture := &captureStub{startErr: errors.New("device busy")}
	client := NewTranscriptionClient(capture, WithAPIKey("key"), WithListenURL(serverURL))

	err := client.Transcribe(context.Background(), speechtotext.WithEndedCallback(func() { ended.Add(1) }))
	if !errors.Is(err, speechtotext.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	if ended.Load() != 0 {
		t.Fatalf("expected no end callback after a failed start")
	}
	if err := client.Transcribe(context.Background()); errors.Is(err, errAlreadyRunning) {
		t.Fatalf("expected failed start to release the client")
	}
}

func TestConvertEncodingRejectsUnsupportedRates(t *testing.T) {
	_, err := convertEncoding(audio.EncodingInfo{SampleRate: 44100, Format: audio.EncodingLinear16})
	if !errors.Is(err, speechtotext.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}
