package fusion

import "github.com/attune-dev/attune/pkg/affect"

// confidenceFloor is the minimum confidence assigned to a present modality.
// A channel that showed up at all is never fully discounted, otherwise one
// uncertain detector could silently vanish from the fusion.
const confidenceFloor = 0.1

// channel is a normalized, present modality ready for fusion.
type channel struct {
	modality   affect.Modality
	vad        affect.VADScore
	confidence float64
}

// normalizeChannel clamps a modality's VAD into [0,1] and its confidence
// into [confidenceFloor, 1]. Upstream detectors occasionally emit slightly
// out-of-range scores; those are clamped, never rejected.
func normalizeChannel(m affect.Modality, vad affect.VADScore, confidence float64) channel {
	c := affect.ClampUnit(confidence)
	if c < confidenceFloor {
		c = confidenceFloor
	}
	return channel{
		modality:   m,
		vad:        vad.Clamp(),
		confidence: c,
	}
}

// normalizeSet converts the present modalities of a set into fusion channels.
// Absent modalities contribute nothing; an empty set is valid.
func normalizeSet(set affect.ModalitySet) []channel {
	var out []channel
	if set.Facial != nil {
		out = append(out, normalizeChannel(affect.ModalityFacial, set.Facial.VAD, set.Facial.Confidence))
	}
	if set.Voice != nil {
		out = append(out, normalizeChannel(affect.ModalityVoice, set.Voice.VAD, set.Voice.Confidence))
	}
	if set.Text != nil {
		out = append(out, normalizeChannel(affect.ModalityText, set.Text.VAD, set.Text.Confidence))
	}
	return out
}
