// Command medtranslate is a terminal client for a translation session. The
// slider at the bottom of the screen works like the mic control of the
// mobile client: hold to speak, drag to either edge to change direction.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	orchestration "github.com/koscakluka/medtranslate-core/core"
	"github.com/koscakluka/medtranslate-core/core/audio"
	"github.com/koscakluka/medtranslate-core/core/audio/miniaudio"
	"github.com/koscakluka/medtranslate-core/core/audio/portaudio"
	"github.com/koscakluka/medtranslate-core/core/events"
	"github.com/koscakluka/medtranslate-core/core/language"
	"github.com/koscakluka/medtranslate-core/core/protocol"
	sttdeepgram "github.com/koscakluka/medtranslate-core/core/speechtotext/deepgram"
	ttsdeepgram "github.com/koscakluka/medtranslate-core/core/texttospeech/deepgram"
	"github.com/koscakluka/medtranslate-core/core/texttospeech/httpaudio"
	"github.com/koscakluka/medtranslate-core/core/texttospeech/system"
	"github.com/koscakluka/medtranslate-core/internal/config"
)

type device interface {
	audio.Capturer
	audio.Player
	Close()
}

func main() {
	printSchema := flag.Bool("schema", false, "print the JSON Schema of the wire protocol and exit")
	target := flag.String("target", "", "patient language code, overrides MEDTRANSLATE_TARGET_LANG")
	flag.Parse()

	if *printSchema {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(protocol.Schema()); err != nil {
			log.Fatalf("failed to encode schema: %v", err)
		}
		return
	}

	cfg := config.Load()
	if *target != "" {
		cfg.Session.TargetLanguage = *target
	}

	dev, err := openDevice(cfg.Audio.Backend)
	if err != nil {
		log.Fatalf("failed to open audio device: %v", err)
	}
	defer dev.Close()

	tapPolicy, err := orchestration.ParseTapPolicy(cfg.Session.TapPolicy)
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	catalog := language.DefaultCatalog()
	// Events only flow once the session is started from the program.
	var program *tea.Program

	opts := []orchestration.OrchestratorOption{
		orchestration.WithServerURL(cfg.Server.URL),
		orchestration.WithHeartbeatInterval(cfg.Server.Heartbeat),
		orchestration.WithConnectTimeout(cfg.Server.ConnectTimeout),
		orchestration.WithMaxReconnectAttempts(cfg.Server.MaxReconnectAttempts),
		orchestration.WithClinicianLanguage(language.Code(cfg.Session.ClinicianLanguage)),
		orchestration.WithCatalog(catalog),
		orchestration.WithTapPolicy(tapPolicy),
		orchestration.WithHoldThreshold(cfg.Gestures.HoldThreshold),
		orchestration.WithSpeechRate(cfg.Speech.Rate),
		orchestration.WithSpeechSource(sttdeepgram.NewTranscriptionClient(dev, sttdeepgram.WithAPIKey(cfg.Keys.Deepgram))),
		orchestration.WithAudioPlayer(dev),
		orchestration.WithSystemSynthesizer(system.NewSynthesizer()),
		orchestration.WithEventHandler(func(event events.Event) { program.Send(eventMsg{event}) }),
	}
	opts = append(opts, voiceOptions(cfg, catalog)...)

	o := orchestration.NewOrchestrator(opts...)
	defer o.Close()

	m := newModel(o, catalog, language.Code(cfg.Session.TargetLanguage), cfg.Session.Specialty)
	program = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "medtranslate: %v\n", err)
		os.Exit(1)
	}
}

func openDevice(backend string) (device, error) {
	switch strings.ToLower(backend) {
	case "portaudio":
		client, err := portaudio.NewClient(1024)
		if err != nil {
			return nil, err
		}
		return client, nil
	case "", "miniaudio":
		client, err := miniaudio.NewClient()
		if err != nil {
			return nil, err
		}
		return client, nil
	}
	return nil, fmt.Errorf("unknown audio backend %q", backend)
}

// voiceOptions picks a streamed voice per language: the HTTP voice for the
// languages it was configured for, Deepgram for the languages it speaks.
// Everything else uses the system synthesizer.
func voiceOptions(cfg *config.Config, catalog language.Catalog) []orchestration.OrchestratorOption {
	var opts []orchestration.OrchestratorOption

	claimed := map[language.Code]bool{}
	if cfg.Speech.HTTPVoiceURL != "" && len(cfg.Speech.HTTPVoiceLanguages) > 0 {
		var codes []language.Code
		for _, code := range cfg.Speech.HTTPVoiceLanguages {
			codes = append(codes, language.Code(code))
			claimed[language.Code(code)] = true
		}
		opts = append(opts, orchestration.WithStreamedVoice("http", httpaudio.NewClient(cfg.Speech.HTTPVoiceURL), codes...))
	}

	if cfg.Keys.Deepgram != "" {
		var codes []language.Code
		for _, lang := range catalog.Languages() {
			if !claimed[lang.Code] && ttsdeepgram.Supports(lang.SpeechCode) {
				codes = append(codes, lang.Code)
			}
		}
		if len(codes) > 0 {
			client := ttsdeepgram.NewTextToSpeechClient(ttsdeepgram.WithAPIKey(cfg.Keys.Deepgram))
			opts = append(opts, orchestration.WithStreamedVoice("deepgram", client, codes...))
		}
	}
	return opts
}

// startSession runs outside the update loop; connecting can take up to the
// connect timeout.
func startSession(o *orchestration.Orchestrator, target language.Code) tea.Cmd {
	return func() tea.Msg {
		return sessionStartedMsg{err: o.StartSession(context.Background(), target)}
	}
}
