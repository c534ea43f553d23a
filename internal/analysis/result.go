package analysis

import (
	"github.com/textlens/textlens/internal/analysis/normalize"
)

// UnitEvaluation is the per-unit output of the evaluation stage. Score is
// clamped to the profile's bounds; Quality and its star rendering are
// derived from the narrative.
type UnitEvaluation struct {
	Narrative string                `json:"narrative"`
	Score     float64               `json:"score"`
	Quality   normalize.QualityBand `json:"quality"`
	Stars     string                `json:"stars"`
}

// LabeledList is one categorized list from the holistic assessment, in the
// order the profile declares its categories.
type LabeledList struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

// HolisticAssessment is the whole-document synthesis produced by the final
// stage.
type HolisticAssessment struct {
	Summary string        `json:"summary"`
	Lists   []LabeledList `json:"lists"`
}

// Result is the assembled outcome of one analysis run. Units keeps every
// name discovered by the structure stage in first-seen order; Evaluations
// holds only the units whose evaluation call succeeded.
type Result struct {
	Profile     string                    `json:"profile"`
	Units       []string                  `json:"units"`
	Evaluations map[string]UnitEvaluation `json:"evaluations"`
	Holistic    HolisticAssessment        `json:"holistic"`
}

// Empty reports whether every stage came back without content.
func (r *Result) Empty() bool {
	if r == nil {
		return true
	}
	if len(r.Units) > 0 || len(r.Evaluations) > 0 {
		return false
	}
	if r.Holistic.Summary != "" {
		return false
	}
	for _, list := range r.Holistic.Lists {
		if len(list.Items) > 0 {
			return false
		}
	}
	return true
}
