// Package cbt maps classified emotions to structured cognitive-behavioral
// therapy strategies. The base table is immutable and loaded once; an
// optional generation backend can elaborate the narrative sections, with the
// deterministic table as the guaranteed fallback.
package cbt

import "github.com/attune-dev/attune/pkg/affect"

// EmotionAssessment describes the user's current state and what drives it.
type EmotionAssessment struct {
	CurrentState string   `json:"currentState"`
	Triggers     []string `json:"triggers"`
	Patterns     []string `json:"patterns"`
}

// CognitiveTechnique is a single recommended CBT technique with exercises.
type CognitiveTechnique struct {
	Technique   string   `json:"technique"`
	Description string   `json:"description"`
	Exercises   []string `json:"exercises"`
}

// BehavioralStrategy is a concrete behavior-change plan.
type BehavioralStrategy struct {
	Strategy        string   `json:"strategy"`
	Steps           []string `json:"steps"`
	ExpectedOutcome string   `json:"expectedOutcome"`
}

// ProgressTracking defines how the user and counselor measure progress.
type ProgressTracking struct {
	Metrics  []string `json:"metrics"`
	Goals    []string `json:"goals"`
	Timeline string   `json:"timeline"`
}

// Strategy is the full structured feedback returned for one analysis.
// The four nested sections are filled either entirely from the base table or
// entirely from a successfully parsed elaboration, never a mix.
type Strategy struct {
	Focus              string             `json:"focus"`
	PriorityTechniques []string           `json:"priorityTechniques"`
	EmotionAssessment  EmotionAssessment  `json:"emotionAssessment"`
	Cognitive          CognitiveTechnique `json:"cognitiveTechniques"`
	Behavioral         BehavioralStrategy `json:"behavioralStrategies"`
	Progress           ProgressTracking   `json:"progressTracking"`
}

// baseStrategies is the static strategy table keyed by emotion. Entries are
// never mutated after init; BaseFor hands out deep copies.
var baseStrategies = map[affect.EmotionTag]Strategy{
	affect.EmotionAngry: {
		Focus:              "Anger regulation",
		PriorityTechniques: []string{"time-out", "cognitive restructuring", "assertive communication"},
		EmotionAssessment: EmotionAssessment{
			CurrentState: "A heightened state of anger or frustration is present.",
			Triggers:     []string{"perceived unfairness", "blocked goals", "interpersonal conflict"},
			Patterns:     []string{"hostile attribution", "all-or-nothing thinking"},
		},
		Cognitive: CognitiveTechnique{
			Technique:   "Cognitive restructuring",
			Description: "Identify the hot thought behind the anger and test it against the evidence.",
			Exercises:   []string{"thought record", "evidence review", "perspective taking"},
		},
		Behavioral: BehavioralStrategy{
			Strategy:        "Controlled disengagement",
			Steps:           []string{"notice early body cues", "take a structured time-out", "return and address the issue calmly"},
			ExpectedOutcome: "Fewer escalations and more constructive conflict resolution",
		},
		Progress: ProgressTracking{
			Metrics:  []string{"daily anger intensity", "escalation count", "recovery time"},
			Goals:    []string{"short term: interrupt escalation early", "long term: address conflict without hostility"},
			Timeline: "4-8 weeks",
		},
	},
	affect.EmotionSad: {
		Focus:              "Mood lifting",
		PriorityTechniques: []string{"behavioral activation", "cognitive restructuring", "self-compassion"},
		EmotionAssessment: EmotionAssessment{
			CurrentState: "A low, withdrawn mood is present.",
			Triggers:     []string{"loss or disappointment", "social withdrawal", "self-critical thoughts"},
			Patterns:     []string{"negative filtering", "overgeneralization"},
		},
		Cognitive: CognitiveTechnique{
			Technique:   "Cognitive restructuring",
			Description: "Catch negative automatic thoughts and reframe them into a more balanced view.",
			Exercises:   []string{"thought record", "evidence review", "finding alternative viewpoints"},
		},
		Behavioral: BehavioralStrategy{
			Strategy:        "Behavioral activation",
			Steps:           []string{"schedule one pleasant activity per day", "complete it regardless of mood", "record the mood change"},
			ExpectedOutcome: "Gradual mood improvement through re-engagement",
		},
		Progress: ProgressTracking{
			Metrics:  []string{"daily mood score", "activity completion rate", "energy level"},
			Goals:    []string{"short term: one engaging activity daily", "long term: sustained mood recovery"},
			Timeline: "6-12 weeks",
		},
	},
	EmotionAnxious: {
		Focus:              "Anxiety reduction",
		PriorityTechniques: []string{"breathing exercise", "worry scheduling", "graded exposure"},
		EmotionAssessment: EmotionAssessment{
			CurrentState: "A tense, worried state with elevated activation is present.",
			Triggers:     []string{"uncertainty", "anticipated failure", "physical stress responses"},
			Patterns:     []string{"catastrophizing", "excessive worry", "avoidance"},
		},
		Cognitive: CognitiveTechnique{
			Technique:   "Decatastrophizing",
			Description: "Examine the feared outcome, estimate its realistic probability, and plan for the manageable case.",
			Exercises:   []string{"worry record", "probability estimation", "coping plan drafting"},
		},
		Behavioral: BehavioralStrategy{
			Strategy:        "Graded exposure",
			Steps:           []string{"rank feared situations", "start with the easiest", "stay until anxiety halves", "move up the ladder"},
			ExpectedOutcome: "Reduced avoidance and growing tolerance of uncertainty",
		},
		Progress: ProgressTracking{
			Metrics:  []string{"daily anxiety score", "avoidance count", "exposure steps completed"},
			Goals:    []string{"short term: daily relaxation practice", "long term: face avoided situations"},
			Timeline: "6-12 weeks",
		},
	},
	affect.EmotionHappy: {
		Focus:              "Positive state maintenance",
		PriorityTechniques: []string{"gratitude practice", "savoring", "value-aligned planning"},
		EmotionAssessment: EmotionAssessment{
			CurrentState: "A positive, engaged emotional state is present.",
			Triggers:     []string{"achievement", "social connection", "meaningful activity"},
			Patterns:     []string{"approach orientation", "active engagement"},
		},
		Cognitive: CognitiveTechnique{
			Technique:   "Gratitude practice",
			Description: "Deliberately attend to and record what is going well to consolidate the positive state.",
			Exercises:   []string{"three good things journal", "gratitude letter", "savoring a recent success"},
		},
		Behavioral: BehavioralStrategy{
			Strategy:        "Positive experience expansion",
			Steps:           []string{"identify what produced the positive state", "plan to repeat it", "share it with someone"},
			ExpectedOutcome: "More frequent and durable positive experiences",
		},
		Progress: ProgressTracking{
			Metrics:  []string{"daily mood score", "positive activity count"},
			Goals:    []string{"short term: maintain current momentum", "long term: build lasting wellbeing habits"},
			Timeline: "4-8 weeks",
		},
	},
	affect.EmotionNeutral: {
		Focus:              "Everyday stress management",
		PriorityTechniques: []string{"mindfulness meditation", "emotion labeling", "routine building"},
		EmotionAssessment: EmotionAssessment{
			CurrentState: "A neutral, stable emotional state is present.",
			Triggers:     []string{"daily stress", "interpersonal demands", "work pressure"},
			Patterns:     []string{"routine coping", "occasional worry"},
		},
		Cognitive: CognitiveTechnique{
			Technique:   "Mindfulness meditation",
			Description: "Observe thoughts and feelings as passing events without judging or acting on them.",
			Exercises:   []string{"breathing meditation", "thought recording", "emotion labeling"},
		},
		Behavioral: BehavioralStrategy{
			Strategy:        "Everyday stress management",
			Steps:           []string{"set a small goal", "practice daily", "record the outcome"},
			ExpectedOutcome: "Improved emotion regulation and overall wellbeing",
		},
		Progress: ProgressTracking{
			Metrics:  []string{"daily mood score", "stress level", "goal completion rate"},
			Goals:    []string{"short term: learn regulation techniques", "long term: sustain mental wellbeing"},
			Timeline: "6-12 weeks",
		},
	},
}

// EmotionAnxious is a strategy-table key with no classifier counterpart; the
// decision table never emits it, but surprised states route here because both
// share the high-activation coping toolset.
const EmotionAnxious affect.EmotionTag = "anxious"

// BaseFor returns a deep copy of the base strategy for an emotion tag.
// Tags without a dedicated entry route to the nearest one: excited shares the
// happy entry, surprised the anxious entry, calm the neutral entry. Unknown
// tags fall back to neutral.
func BaseFor(tag affect.EmotionTag) Strategy {
	switch tag {
	case affect.EmotionExcited:
		tag = affect.EmotionHappy
	case affect.EmotionSurprised:
		tag = EmotionAnxious
	case affect.EmotionCalm:
		tag = affect.EmotionNeutral
	}
	base, ok := baseStrategies[tag]
	if !ok {
		base = baseStrategies[affect.EmotionNeutral]
	}
	return copyStrategy(base)
}

func copyStrategy(s Strategy) Strategy {
	out := s
	out.PriorityTechniques = copyStrings(s.PriorityTechniques)
	out.EmotionAssessment.Triggers = copyStrings(s.EmotionAssessment.Triggers)
	out.EmotionAssessment.Patterns = copyStrings(s.EmotionAssessment.Patterns)
	out.Cognitive.Exercises = copyStrings(s.Cognitive.Exercises)
	out.Behavioral.Steps = copyStrings(s.Behavioral.Steps)
	out.Progress.Metrics = copyStrings(s.Progress.Metrics)
	out.Progress.Goals = copyStrings(s.Progress.Goals)
	return out
}

func copyStrings(src []string) []string {
	if src == nil {
		return nil
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}
