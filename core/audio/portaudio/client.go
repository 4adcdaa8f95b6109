// Package portaudio is an alternative capture and playback backend for
// systems where miniaudio cannot open the devices.
package portaudio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"go.opentelemetry.io/contrib/bridges/otelslog"

	"github.com/koscakluka/medtranslate-core/core/audio"
)

const scopeName = "github.com/koscakluka/medtranslate-core/core/audio/portaudio"

var logger = otelslog.NewLogger(scopeName)

type Client struct {
	bufferSize int

	mu      sync.Mutex
	input   *portaudio.Stream
	in      []int16
	stopped chan struct{}
	done    chan struct{}
}

func NewClient(bufferSize int) (*Client, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	in := make([]int16, bufferSize)
	input, err := portaudio.OpenDefaultStream(1, 0, audio.DefaultSampleRate, bufferSize, in)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("failed to open portaudio input stream: %w", err)
	}

	return &Client{bufferSize: bufferSize, input: input, in: in}, nil
}

// StartCapture reads the microphone on its own goroutine until StopCapture
// or ctx is done.
func (c *Client) StartCapture(ctx context.Context, onAudio func(audio []byte)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped != nil {
		return nil
	}

	if err := c.input.Start(); err != nil {
		return fmt.Errorf("failed to start portaudio stream: %w", err)
	}

	stopped := make(chan struct{})
	done := make(chan struct{})
	c.stopped, c.done = stopped, done

	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-stopped:
				return
			default:
			}

			if err := c.input.Read(); err != nil {
				if errors.Is(err, portaudio.InputOverflowed) {
					continue
				}
				logger.Warn("failed to read from portaudio stream", "error", err)
				return
			}

			audioBuffer := bytes.Buffer{}
			_ = binary.Write(&audioBuffer, binary.LittleEndian, c.in)
			onAudio(audioBuffer.Bytes())
		}
	}()
	return nil
}

func (c *Client) StopCapture() error {
	c.mu.Lock()
	stopped, done := c.stopped, c.done
	c.stopped, c.done = nil, nil
	c.mu.Unlock()
	if stopped == nil {
		return nil
	}

	close(stopped)
	<-done
	if err := c.input.Stop(); err != nil {
		return fmt.Errorf("failed to stop portaudio stream: %w", err)
	}
	return nil
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return audio.EncodingInfo{
		SampleRate: audio.DefaultSampleRate,
		Format:     audio.EncodingLinear16,
	}
}

// Play opens an output stream at the clip's sample rate and writes the clip
// to it. Write blocks, so returning means the audio has been queued to the
// device.
func (c *Client) Play(ctx context.Context, clip audio.Clip) error {
	if clip.Encoding.Format != audio.EncodingLinear16 {
		return fmt.Errorf("%w: %s playback", audio.ErrUnsupportedAudio, clip.Encoding.Format.Name())
	}

	out := make([]int16, c.bufferSize)
	stream, err := portaudio.OpenDefaultStream(0, 1, float64(clip.Encoding.SampleRate), c.bufferSize, out)
	if err != nil {
		return fmt.Errorf("failed to open portaudio output stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("failed to start portaudio output stream: %w", err)
	}
	defer stream.Stop()

	bufferSize := c.bufferSize * 2
	data := clip.Data
	for len(data) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		chunk := data[:min(bufferSize, len(data))]
		data = data[len(chunk):]
		if len(chunk) < bufferSize {
			padded := make([]byte, bufferSize)
			copy(padded, chunk)
			chunk = padded
		}

		_ = binary.Read(bytes.NewReader(chunk), binary.LittleEndian, out)
		if err := stream.Write(); err != nil && !errors.Is(err, portaudio.OutputUnderflowed) {
			return fmt.Errorf("failed to write to portaudio stream: %w", err)
		}
	}
	return nil
}

func (c *Client) Close() {
	_ = c.StopCapture()
	_ = c.input.Close()
	_ = portaudio.Terminate()
}
