// Package classify maps fused VAD scores to discrete emotion tags and risk
// tiers. Every function here is pure and total: any point in VAD space yields
// exactly one result, and re-evaluation is always stable.
package classify

import (
	"sort"

	"github.com/attune-dev/attune/pkg/affect"
)

// facetScore is the minimum raw detector score for a per-channel emotion
// label to surface as a secondary descriptor.
const facetScore = 0.3

// maxSecondary caps the secondary descriptor list.
const maxSecondary = 3

// PrimaryEmotion maps a VAD score to its primary emotion tag using a fixed
// decision table evaluated top to bottom, first match wins.
//
// The mid-valence band (0.4, 0.7] splits on arousal: high activation reads as
// surprise, low activation as calm, and the middle ground stays neutral.
// Valence in (0.3, 0.4] deliberately falls through to neutral.
func PrimaryEmotion(vad affect.VADScore) affect.EmotionTag {
	v, a := vad.Valence, vad.Arousal
	switch {
	case v > 0.7 && a > 0.6:
		return affect.EmotionExcited
	case v > 0.7:
		return affect.EmotionHappy
	case v <= 0.3 && a > 0.6:
		return affect.EmotionAngry
	case v <= 0.3:
		return affect.EmotionSad
	case v > 0.4 && a > 0.6:
		return affect.EmotionSurprised
	case v > 0.4 && a < 0.4:
		return affect.EmotionCalm
	default:
		return affect.EmotionNeutral
	}
}

// SecondaryEmotions derives up to three free-text descriptors for a fused
// score: VAD facets first, then raw per-channel emotion labels scoring above
// facetScore. Duplicates are dropped, first-found order is preserved.
func SecondaryEmotions(vad affect.VADScore, set affect.ModalitySet) []string {
	var found []string
	add := func(label string) {
		if label == "" {
			return
		}
		for _, existing := range found {
			if existing == label {
				return
			}
		}
		found = append(found, label)
	}

	if vad.Valence > 0.6 {
		add("positive")
	}
	if vad.Valence < 0.4 {
		add("negative")
	}
	if vad.Arousal > 0.6 {
		add("activated")
	}
	if vad.Arousal < 0.4 {
		add("calm")
	}
	if vad.Dominance > 0.6 {
		add("dominant")
	}
	if vad.Dominance < 0.4 {
		add("submissive")
	}

	for _, label := range channelLabels(set) {
		add(label)
	}

	if len(found) > maxSecondary {
		found = found[:maxSecondary]
	}
	return found
}

// channelLabels collects raw detector labels above facetScore in a
// deterministic order: facial labels sorted by descending score (name as
// tie-break), then the text channel's primary emotion.
func channelLabels(set affect.ModalitySet) []string {
	var labels []string

	if set.Facial != nil && len(set.Facial.Emotions) > 0 {
		type scored struct {
			name  string
			score float64
		}
		var hits []scored
		for name, score := range set.Facial.Emotions {
			if score > facetScore {
				hits = append(hits, scored{name, score})
			}
		}
		sort.Slice(hits, func(i, j int) bool {
			if hits[i].score != hits[j].score {
				return hits[i].score > hits[j].score
			}
			return hits[i].name < hits[j].name
		})
		for _, h := range hits {
			labels = append(labels, h.name)
		}
	}

	if set.Text != nil && set.Text.PrimaryEmotion != "" {
		labels = append(labels, set.Text.PrimaryEmotion)
	}

	return labels
}
