package texttospeech

import (
	"errors"
	"fmt"
)

var (
	// ErrPlaybackBlocked means synthesized audio could not be played on this
	// platform.
	ErrPlaybackBlocked     = errors.New("playback blocked")
	ErrProviderStatus      = errors.New("synthesis provider returned an error status")
	ErrUnsupportedLanguage = errors.New("language not supported by provider")
)

// StatusError reports a non-success HTTP response from a provider.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("synthesis provider returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("synthesis provider returned status %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error { return ErrProviderStatus }
