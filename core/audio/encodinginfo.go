package audio

import "time"

// Format is the sample encoding of a mono stream.
type Format string

const (
	EncodingLinear16 Format = "linear16"
	EncodingMulaw    Format = "mulaw"
	EncodingALaw     Format = "alaw"
)

const (
	DefaultSampleRate = 16000
	DefaultFormat     = EncodingLinear16
)

func (f Format) Name() string { return string(f) }

// ByteSize is the size of one sample, or -1 for unknown formats.
func (f Format) ByteSize() int {
	switch f {
	case EncodingLinear16:
		return 2
	case EncodingMulaw, EncodingALaw:
		return 1
	}
	return -1
}

// EncodingInfo describes mono audio.
type EncodingInfo struct {
	SampleRate int
	Format     Format
}

// GetDefaultEncodingInfo is what speech recognition and synthesis use unless
// told otherwise: 16 kHz linear16.
func GetDefaultEncodingInfo() EncodingInfo {
	return EncodingInfo{SampleRate: DefaultSampleRate, Format: DefaultFormat}
}

func (e EncodingInfo) IsZero() bool {
	return e.SampleRate == 0 || e.Format == ""
}

// Duration returns how long size bytes of audio play for.
func (e EncodingInfo) Duration(size int) time.Duration {
	bytesPerSecond := e.SampleRate * e.Format.ByteSize()
	if bytesPerSecond <= 0 {
		return 0
	}
	return time.Duration(size) * time.Second / time.Duration(bytesPerSecond)
}
