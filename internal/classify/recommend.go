package classify

import "github.com/attune-dev/attune/pkg/affect"

// maxRecommendations caps the recommendation list returned to the caller.
const maxRecommendations = 5

// Recommend builds an ordered, capped list of coping recommendations from the
// risk tier, the fused VAD score, and the modalities that were present.
// Tier-level guidance comes first so it survives the cap.
func Recommend(vad affect.VADScore, risk affect.RiskLevel, present []affect.Modality) []string {
	var recs []string

	switch risk {
	case affect.RiskHigh:
		recs = append(recs,
			"We recommend talking to a professional counselor",
			"Move to a safe and familiar environment now",
		)
	case affect.RiskMedium:
		recs = append(recs,
			"Try a slow deep-breathing exercise",
			"Talk things through with someone you trust",
		)
	}

	if vad.Valence < 0.4 {
		recs = append(recs, "Practice reframing the situation in a more positive light")
	}
	if vad.Arousal > 0.7 {
		recs = append(recs, "Try a calming technique such as 4-7-8 breathing")
	}
	if vad.Dominance < 0.3 {
		recs = append(recs, "Start with a small task you can complete to rebuild a sense of control")
	}

	for _, m := range present {
		switch m {
		case affect.ModalityFacial:
			recs = append(recs, "Keep monitoring your emotional state through facial expression")
		case affect.ModalityVoice:
			recs = append(recs, "Notice how your tone of voice shifts with your mood")
		}
	}

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}
