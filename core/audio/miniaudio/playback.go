package miniaudio

import (
	"context"
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"

	"github.com/koscakluka/medtranslate-core/core/audio"
)

type playbackClient struct {
	audioContext *malgo.AllocatedContext
	device       *malgo.Device
	config       malgo.DeviceConfig
	sampleRate   int

	leftoverAudio []byte
	marks         []playbackMark

	mu      sync.Mutex
	audioMu sync.Mutex
}

// Play plays a linear16 clip and waits until the last sample has been
// handed to the device. The device is reopened when the sample rate
// changes.
func (c *playbackClient) Play(ctx context.Context, clip audio.Clip) error {
	if clip.Encoding.Format != audio.EncodingLinear16 {
		return fmt.Errorf("%w: %s playback", audio.ErrUnsupportedAudio, clip.Encoding.Format.Name())
	}
	if err := c.ensureDevice(clip.Encoding.SampleRate); err != nil {
		return err
	}

	done := make(chan struct{})
	c.audioMu.Lock()
	c.leftoverAudio = append(c.leftoverAudio, clip.Data...)
	c.marks = append(c.marks, playbackMark{
		position: len(c.leftoverAudio),
		callback: func() { close(done) },
	})
	c.audioMu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		c.ClearBuffer()
		return ctx.Err()
	}
}

func (c *playbackClient) ensureDevice(sampleRate int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.audioContext == nil {
		return fmt.Errorf("audio context not initialized")
	}
	if c.device != nil && c.sampleRate == sampleRate {
		return nil
	}
	if c.device != nil {
		c.device.Uninit()
		c.device = nil
	}

	channels := 1
	format := malgo.FormatS16
	bytesPerFrame := malgo.SampleSizeInBytes(format) * channels

	c.config = malgo.DefaultDeviceConfig(malgo.Playback)
	c.config.SampleRate = uint32(sampleRate)
	c.config.Playback.Format = format
	c.config.Playback.Channels = uint32(channels)
	c.config.Alsa.NoMMap = 1
	c.config.PeriodSizeInFrames = uint32(sampleRate / 10) // ~100ms of audio
	c.config.Periods = 4

	device, err := malgo.InitDevice(
		c.audioContext.Context,
		c.config,
		malgo.DeviceCallbacks{Data: c.processAudio(bytesPerFrame)},
	)
	if err != nil {
		return fmt.Errorf("failed to initialize playback device: %w", err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		return fmt.Errorf("failed to start playback device: %w", err)
	}

	c.device = device
	c.sampleRate = sampleRate
	return nil
}

func (c *playbackClient) ClearBuffer() {
	c.audioMu.Lock()
	defer c.audioMu.Unlock()
	c.leftoverAudio = nil
	c.marks = nil
}

func (c *playbackClient) Uninit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.device != nil {
		c.device.Uninit()
		c.device = nil
	}
	return nil
}

type playbackMark struct {
	position int
	callback func()
}

func (c *playbackClient) processAudio(bytesPerFrame int) malgo.DataProc {
	return func(pOutput, _ []byte, frameCount uint32) {
		need := int(frameCount) * bytesPerFrame

		c.audioMu.Lock()
		passed := c.advanceMarks(need)
		n := copy(pOutput[:need], c.leftoverAudio)
		c.leftoverAudio = c.leftoverAudio[n:]
		c.audioMu.Unlock()

		clear(pOutput[n:need])
		for _, mark := range passed {
			go mark.callback()
		}
	}
}

// advanceMarks must be called with audioMu held.
func (c *playbackClient) advanceMarks(consumed int) []playbackMark {
	passedMarks := 0
	for i, mark := range c.marks {
		if mark.position > consumed {
			c.marks[i].position -= consumed
		} else {
			passedMarks++
		}
	}
	if passedMarks == 0 {
		return nil
	}
	passed := c.marks[:passedMarks]
	c.marks = c.marks[passedMarks:]
	return passed
}
