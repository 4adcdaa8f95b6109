// Package language holds the language catalog used by a translation session
// and the projection from the slider position to a translation direction.
package language

import (
	"fmt"
	"slices"
	"strings"
)

// Code is a short language code such as "en" or "ht".
type Code string

func (c Code) String() string { return string(c) }

// Language describes a language the session can translate from or to.
type Language struct {
	Code Code
	Name string
	// SpeechCode is the locale handed to speech recognition and synthesis.
	SpeechCode string
}

// Catalog is an ordered set of supported languages.
type Catalog struct {
	languages []Language
}

// DefaultCatalog returns the languages supported by the translation backend.
func DefaultCatalog() Catalog {
	return NewCatalog(
		Language{Code: "en", Name: "English", SpeechCode: "en-US"},
		Language{Code: "es", Name: "Spanish", SpeechCode: "es-ES"},
		Language{Code: "ht", Name: "Haitian Creole", SpeechCode: "ht"},
		Language{Code: "fr", Name: "French", SpeechCode: "fr-FR"},
		Language{Code: "pt", Name: "Portuguese", SpeechCode: "pt-BR"},
		Language{Code: "ru", Name: "Russian", SpeechCode: "ru-RU"},
		Language{Code: "zh", Name: "Chinese", SpeechCode: "zh-CN"},
		Language{Code: "ar", Name: "Arabic", SpeechCode: "ar-SA"},
		Language{Code: "vi", Name: "Vietnamese", SpeechCode: "vi-VN"},
		Language{Code: "tl", Name: "Tagalog", SpeechCode: "fil-PH"},
	)
}

func NewCatalog(languages ...Language) Catalog {
	return Catalog{languages: slices.Clone(languages)}
}

// ParseCodes builds a catalog subset from a comma separated list of codes,
// keeping metadata for codes already known to c.
func (c Catalog) ParseCodes(list string) Catalog {
	var languages []Language
	for _, raw := range strings.Split(list, ",") {
		code := Code(strings.ToLower(strings.TrimSpace(raw)))
		if code == "" {
			continue
		}
		languages = append(languages, c.Lookup(code))
	}
	return NewCatalog(languages...)
}

func (c Catalog) Languages() []Language { return slices.Clone(c.languages) }

func (c Catalog) Supports(code Code) bool {
	return slices.ContainsFunc(c.languages, func(l Language) bool { return l.Code == code })
}

// Lookup returns the catalog entry for code. Unknown codes fall back to an
// entry that uses the code as both name and speech locale.
func (c Catalog) Lookup(code Code) Language {
	for _, l := range c.languages {
		if l.Code == code {
			return l
		}
	}
	return Language{Code: code, Name: strings.ToUpper(string(code)), SpeechCode: string(code)}
}

func (c Catalog) SpeechCode(code Code) string { return c.Lookup(code).SpeechCode }

// Side is a snapped slider position.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

func (s Side) Opposite() Side {
	if s == SideRight {
		return SideLeft
	}
	return SideRight
}

func ParseSide(s string) (Side, error) {
	switch Side(strings.ToLower(s)) {
	case SideLeft:
		return SideLeft, nil
	case SideRight:
		return SideRight, nil
	}
	return "", fmt.Errorf("unknown slider side %q", s)
}

// Direction is the (from, to) pair for the next capture and synthesis.
type Direction struct {
	From Code
	To   Code
}

func (d Direction) String() string { return fmt.Sprintf("%s->%s", d.From, d.To) }

// DirectionFor projects a slider side onto a direction. The left side always
// translates from the clinician's language, the right side into it.
func DirectionFor(side Side, clinician, target Code) Direction {
	if side == SideRight {
		return Direction{From: target, To: clinician}
	}
	return Direction{From: clinician, To: target}
}
