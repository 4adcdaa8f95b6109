// Package system speaks text with the platform's built-in synthesizer:
// say on macOS and espeak-ng elsewhere.
package system

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelslog"

	"github.com/koscakluka/medtranslate-core/core/texttospeech"
)

const scopeName = "github.com/koscakluka/medtranslate-core/core/texttospeech/system"

var logger = otelslog.NewLogger(scopeName)

// baseWordsPerMinute is the normal rate of both say and espeak-ng.
const baseWordsPerMinute = 175

type Synthesizer struct {
	goos     string
	lookPath func(string) (string, error)
}

type Option func(*Synthesizer)

// WithGOOS selects the command set for another platform.
func WithGOOS(goos string) Option {
	return func(s *Synthesizer) { s.goos = goos }
}

func WithLookPath(lookPath func(string) (string, error)) Option {
	return func(s *Synthesizer) { s.lookPath = lookPath }
}

func NewSynthesizer(opts ...Option) *Synthesizer {
	s := &Synthesizer{goos: runtime.GOOS, lookPath: exec.LookPath}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Speak blocks until the utterance has been spoken or ctx is done.
func (s *Synthesizer) Speak(ctx context.Context, text string, opts ...texttospeech.SpeakOption) error {
	options := texttospeech.NewSpeakOptions(opts...)

	name, args := s.Command(text, options)
	path, err := s.lookPath(name)
	if err != nil {
		return fmt.Errorf("%w: %s not available: %w", texttospeech.ErrPlaybackBlocked, name, err)
	}

	cmd := exec.CommandContext(ctx, path, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			logger.Warn("speech synthesizer failed", "command", name, "output", strings.TrimSpace(string(output)))
		}
		return fmt.Errorf("failed to run %s: %w", name, err)
	}
	return nil
}

// Command returns the program and arguments used to speak text.
func (s *Synthesizer) Command(text string, options texttospeech.SpeakOptions) (string, []string) {
	wordsPerMinute := strconv.Itoa(int(baseWordsPerMinute * options.Rate))

	if s.goos == "darwin" {
		args := []string{"-r", wordsPerMinute}
		if options.Voice != "" {
			args = append(args, "-v", options.Voice)
		}
		return "say", append(args, "--", text)
	}

	voice := options.Voice
	if voice == "" {
		voice = espeakVoice(options.Language)
	}
	return "espeak-ng", []string{"-v", voice, "-s", wordsPerMinute, "--", text}
}

// espeakVoice maps a speech locale to an espeak-ng voice name.
func espeakVoice(locale string) string {
	locale = strings.ToLower(locale)
	switch locale {
	case "pt-br", "en-us":
		return locale
	case "zh-cn":
		return "cmn"
	case "fil-ph":
		return "tl"
	}
	base, _, _ := strings.Cut(locale, "-")
	return base
}
