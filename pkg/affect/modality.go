package affect

// Modality identifies one of the independent input channels.
type Modality string

// Supported modalities.
const (
	ModalityFacial Modality = "facial"
	ModalityVoice  Modality = "voice"
	ModalityText   Modality = "text"
)

// FacialResult is the payload produced by an external facial-expression
// analyzer. Landmarks are (x, y) pairs; Emotions maps raw detector labels to
// scores in [0,1].
type FacialResult struct {
	VAD        VADScore           `json:"vadScore"`
	Confidence float64            `json:"confidence"`
	Landmarks  [][2]float64       `json:"landmarks,omitempty"`
	Emotions   map[string]float64 `json:"emotions,omitempty"`
}

// AudioFeatures summarizes the prosodic measurements of a voice sample.
type AudioFeatures struct {
	Pitch   float64 `json:"pitch"`
	Tempo   float64 `json:"tempo"`
	Volume  float64 `json:"volume"`
	Clarity float64 `json:"clarity"`
}

// VoiceResult is the payload produced by an external voice-tone analyzer.
type VoiceResult struct {
	VAD           VADScore      `json:"vadScore"`
	Confidence    float64       `json:"confidence"`
	Transcription string        `json:"transcription,omitempty"`
	AudioFeatures AudioFeatures `json:"audioFeatures"`
}

// TextResult is the payload produced by an external free-text analyzer.
type TextResult struct {
	VAD            VADScore `json:"vadScore"`
	Confidence     float64  `json:"confidence"`
	Keywords       []string `json:"keywords,omitempty"`
	PrimaryEmotion string   `json:"primaryEmotion,omitempty"`
	Intensity      string   `json:"intensity,omitempty"`
}

// ModalitySet holds the optional per-channel inputs of one analysis request.
// A nil field means the channel is entirely absent; there is no partial VAD.
type ModalitySet struct {
	Facial *FacialResult `json:"facial,omitempty"`
	Voice  *VoiceResult  `json:"voice,omitempty"`
	Text   *TextResult   `json:"text,omitempty"`
}

// Present lists the modalities that carry a payload, in the fixed
// facial, voice, text order.
func (s ModalitySet) Present() []Modality {
	var out []Modality
	if s.Facial != nil {
		out = append(out, ModalityFacial)
	}
	if s.Voice != nil {
		out = append(out, ModalityVoice)
	}
	if s.Text != nil {
		out = append(out, ModalityText)
	}
	return out
}

// Empty reports whether no modality is present.
func (s ModalitySet) Empty() bool {
	return s.Facial == nil && s.Voice == nil && s.Text == nil
}
