package system

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/koscakluka/medtranslate-core/core/texttospeech"
)

func TestCommandForLinuxUsesLanguageAndRate(t *testing.T) {
	s := NewSynthesizer(WithGOOS("linux"))
	name, args := s.Command("hola", texttospeech.NewSpeakOptions(texttospeech.WithLanguage("es-ES")))

	if name != "espeak-ng" {
		t.Fatalf("expected espeak-ng, got %q", name)
	}
	want := []string{"-v", "es", "-s", "157", "--", "hola"}
	if !slices.Equal(args, want) {
		t.Fatalf("expected args %v, got %v", want, args)
	}
}

func TestCommandForDarwinUsesSay(t *testing.T) {
	s := NewSynthesizer(WithGOOS("darwin"))
	name, args := s.Command("hello", texttospeech.NewSpeakOptions(texttospeech.WithRate(1)))

	if name != "say" {
		t.Fatalf("expected say, got %q", name)
	}
	if !slices.Equal(args, []string{"-r", "175", "--", "hello"}) {
		t.Fatalf("unexpected args %v", args)
	}
}

func TestEspeakVoices(t *testing.T) {
	cases := map[string]string{"pt-BR": "pt-br", "zh-CN": "cmn", "ht": "ht", "fr-FR": "fr", "fil-PH": "tl"}
	for locale, want := range cases {
		if got := espeakVoice(locale); got != want {
			t.Fatalf("%s: expected %q, got %q", locale, want, got)
		}
	}
}

func TestSpeakWithoutSynthesizerIsBlocked(t *testing.T) {
	s := NewSynthesizer(WithLookPath(func(string) (string, error) { return "", errors.New("not found") }))
	if err := s.Speak(context.Background(), "hello"); !errors.Is(err, texttospeech.ErrPlaybackBlocked) {
		t.Fatalf("expected ErrPlaybackBlocked, got %v", err)
	}
}
