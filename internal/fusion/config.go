// Package fusion combines per-modality VAD estimates into a single affect
// score using confidence-weighted, normalized averaging.
package fusion

import (
	"errors"
	"fmt"

	"github.com/attune-dev/attune/pkg/affect"
)

// Weights holds the base channel weights applied before confidence scaling.
// Facial expression is weighted highest (most diagnostic of felt emotion),
// free text lowest (most susceptible to conscious control).
type Weights struct {
	Facial float64 `yaml:"facial"`
	Voice  float64 `yaml:"voice"`
	Text   float64 `yaml:"text"`
}

// DefaultWeights returns the standard channel weight table.
func DefaultWeights() Weights {
	return Weights{Facial: 0.40, Voice: 0.35, Text: 0.25}
}

// For returns the base weight for a modality.
func (w Weights) For(m affect.Modality) float64 {
	switch m {
	case affect.ModalityFacial:
		return w.Facial
	case affect.ModalityVoice:
		return w.Voice
	case affect.ModalityText:
		return w.Text
	default:
		return 0
	}
}

// Validate rejects weight tables that cannot produce a meaningful fusion.
// A bad table is a configuration bug and must abort startup, not surface
// per-request.
func (w Weights) Validate() error {
	var errs []error
	for _, entry := range []struct {
		name  string
		value float64
	}{
		{"facial", w.Facial},
		{"voice", w.Voice},
		{"text", w.Text},
	} {
		if entry.value != entry.value { // NaN
			errs = append(errs, fmt.Errorf("fusion: weight %s is NaN", entry.name))
			continue
		}
		if entry.value <= 0 {
			errs = append(errs, fmt.Errorf("fusion: weight %s must be positive, got %v", entry.name, entry.value))
		}
	}
	return errors.Join(errs...)
}
