package audio

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"mime"
	"strconv"
	"strings"
)

var ErrUnsupportedAudio = errors.New("unsupported audio")

// Clip is a complete piece of synthesized speech.
type Clip struct {
	Encoding EncodingInfo
	Data     []byte
}

// Capturer streams microphone audio until stopped.
type Capturer interface {
	StartCapture(ctx context.Context, onAudio func(audio []byte)) error
	StopCapture() error
	EncodingInfo() EncodingInfo
}

// Player plays a clip and returns once it has been heard or ctx is done.
type Player interface {
	Play(ctx context.Context, clip Clip) error
}

// DecodeClip interprets an HTTP audio response body. WAV and raw L16
// (audio/L16;rate=N) are supported.
func DecodeClip(contentType string, data []byte) (Clip, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = ""
	}

	switch strings.ToLower(mediaType) {
	case "audio/l16", "audio/pcm":
		rate := DefaultSampleRate
		if raw, ok := params["rate"]; ok {
			if rate, err = strconv.Atoi(raw); err != nil {
				return Clip{}, fmt.Errorf("%w: invalid rate %q", ErrUnsupportedAudio, raw)
			}
		}
		// L16 is big-endian on the wire.
		pcm := make([]byte, len(data)&^1)
		for i := 0; i+1 < len(data); i += 2 {
			pcm[i], pcm[i+1] = data[i+1], data[i]
		}
		return Clip{Encoding: EncodingInfo{SampleRate: rate, Format: EncodingLinear16}, Data: pcm}, nil
	case "audio/wav", "audio/wave", "audio/x-wav", "application/octet-stream", "":
		return DecodeWAV(data)
	default:
		return Clip{}, fmt.Errorf("%w: content type %q", ErrUnsupportedAudio, contentType)
	}
}

// DecodeWAV reads mono 16-bit PCM out of a RIFF/WAVE container.
func DecodeWAV(data []byte) (Clip, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return Clip{}, fmt.Errorf("%w: not a wav file", ErrUnsupportedAudio)
	}

	var encoding EncodingInfo
	for offset := 12; offset+8 <= len(data); {
		chunkID := string(data[offset : offset+4])
		size := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := data[offset+8:]
		if size > len(body) {
			size = len(body)
		}
		body = body[:size]

		switch chunkID {
		case "fmt ":
			if size < 16 {
				return Clip{}, fmt.Errorf("%w: short fmt chunk", ErrUnsupportedAudio)
			}
			format := binary.LittleEndian.Uint16(body[0:2])
			channels := binary.LittleEndian.Uint16(body[2:4])
			bits := binary.LittleEndian.Uint16(body[14:16])
			if format != 1 || channels != 1 || bits != 16 {
				return Clip{}, fmt.Errorf("%w: format %d, %d channels, %d bits", ErrUnsupportedAudio, format, channels, bits)
			}
			encoding = EncodingInfo{
				SampleRate: int(binary.LittleEndian.Uint32(body[4:8])),
				Format:     EncodingLinear16,
			}
		case "data":
			if encoding.IsZero() {
				return Clip{}, fmt.Errorf("%w: data before fmt", ErrUnsupportedAudio)
			}
			return Clip{Encoding: encoding, Data: body}, nil
		}

		offset += 8 + size + size%2
	}

	return Clip{}, fmt.Errorf("%w: missing data chunk", ErrUnsupportedAudio)
}
