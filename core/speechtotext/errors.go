package speechtotext

import "errors"

var (
	// ErrPermissionDenied means the microphone could not be opened. The
	// recording is aborted.
	ErrPermissionDenied = errors.New("microphone permission denied")
	// ErrNoSpeech is reported while nothing has been heard yet. It is
	// transient and only logged.
	ErrNoSpeech = errors.New("no speech detected yet")
	// ErrNetwork aborts the current utterance.
	ErrNetwork = errors.New("network needed for speech recognition")
	// ErrUnsupported is returned by Transcribe when recognition cannot run
	// at all.
	ErrUnsupported = errors.New("speech recognition not supported")
	ErrAborted     = errors.New("speech recognition aborted")
)

// IsTerminal reports whether err ends the current recording.
func IsTerminal(err error) bool {
	return err != nil && !errors.Is(err, ErrNoSpeech)
}

// UserMessage returns the notice shown for a recognition failure.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return "Microphone permission denied"
	case errors.Is(err, ErrNetwork):
		return "Network needed for speech recognition"
	case errors.Is(err, ErrUnsupported):
		return "Speech recognition not supported"
	default:
		return "Could not start speech recognition"
	}
}
