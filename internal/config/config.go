package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Session  SessionConfig
	Server   ServerConfig
	Speech   SpeechConfig
	Audio    AudioConfig
	Keys     APIKeys
	Gestures GestureConfig
}

type SessionConfig struct {
	ClinicianLanguage string
	TargetLanguage    string
	Specialty         string
	// TapPolicy is "record" or "reject".
	TapPolicy string
}

type ServerConfig struct {
	URL                  string
	Heartbeat            time.Duration
	ConnectTimeout       time.Duration
	MaxReconnectAttempts int
}

type SpeechConfig struct {
	// HTTPVoiceURL is the POST {text, lang} synthesis endpoint.
	HTTPVoiceURL string
	// HTTPVoiceLanguages lists the languages spoken by the HTTP voice.
	HTTPVoiceLanguages []string
	Rate               float64
}

type AudioConfig struct {
	// Backend is "miniaudio" or "portaudio".
	Backend string
}

type APIKeys struct {
	Deepgram string
}

type GestureConfig struct {
	HoldThreshold time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		Session: SessionConfig{
			ClinicianLanguage: getEnv("MEDTRANSLATE_CLINICIAN_LANG", "en"),
			TargetLanguage:    getEnv("MEDTRANSLATE_TARGET_LANG", "es"),
			Specialty:         getEnv("MEDTRANSLATE_SPECIALTY", "general"),
			TapPolicy:         getEnv("MEDTRANSLATE_TAP_POLICY", "record"),
		},
		Server: ServerConfig{
			URL:                  getEnv("MEDTRANSLATE_WS_URL", "ws://localhost:8080/ws"),
			Heartbeat:            getEnvAsDuration("MEDTRANSLATE_HEARTBEAT", 25*time.Second),
			ConnectTimeout:       getEnvAsDuration("MEDTRANSLATE_CONNECT_TIMEOUT", 8*time.Second),
			MaxReconnectAttempts: getEnvAsInt("MEDTRANSLATE_MAX_RECONNECTS", 0),
		},
		Speech: SpeechConfig{
			HTTPVoiceURL:       getEnv("MODAL_TTS_URL", ""),
			HTTPVoiceLanguages: getEnvAsList("MODAL_TTS_LANGS", []string{"ht"}),
			Rate:               getEnvAsFloat("MEDTRANSLATE_SPEECH_RATE", 0.9),
		},
		Audio: AudioConfig{
			Backend: getEnv("MEDTRANSLATE_AUDIO_BACKEND", "miniaudio"),
		},
		Keys: APIKeys{
			Deepgram: getEnv("DEEPGRAM_API_KEY", ""),
		},
		Gestures: GestureConfig{
			HoldThreshold: getEnvAsDuration("MEDTRANSLATE_HOLD_THRESHOLD", 300*time.Millisecond),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("25s") and plain seconds ("25").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	if seconds, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	strValue, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}

	var values []string
	for _, value := range strings.Split(strValue, ",") {
		if value = strings.TrimSpace(value); value != "" {
			values = append(values, value)
		}
	}
	return values
}
