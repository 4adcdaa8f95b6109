package interview

import (
	"slices"
	"sort"
)

var presets = map[string][]string{
	"general": {
		"What brings you in today?",
		"When did your symptoms start?",
		"On a scale from one to ten, how bad is the pain?",
		"Are you taking any medications?",
		"Do you have any allergies?",
	},
	"emergency": {
		"Where does it hurt?",
		"Did you lose consciousness?",
		"Are you having trouble breathing?",
		"Do you have any allergies to medication?",
	},
	"pediatrics": {
		"How old is the child?",
		"Has the child had a fever?",
		"Is the child eating and drinking normally?",
		"Are the child's vaccinations up to date?",
	},
}

// Preset returns the question set for a specialty.
func Preset(specialty string) ([]string, bool) {
	questions, ok := presets[specialty]
	return slices.Clone(questions), ok
}

func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
