package analysis

import (
	"fmt"
	"strings"
)

// ListSpec names one holistic list category and the delimiter its raw field
// is split on. Prose bullet lists use ";", short label lists use ",".
type ListSpec struct {
	Category  string
	Delimiter string
}

// Profile describes one document domain: score bounds, prompt instructions,
// and the field names used on the oracle wire.
type Profile struct {
	Name     string
	ScoreMin float64
	ScoreMax float64

	// TitleCaseUnits normalizes discovered unit names into title case,
	// used for genre labels.
	TitleCaseUnits bool

	// DocumentField names the whole-document input, UnitField the per-unit
	// input, UnitsField the structure stage's output.
	DocumentField string
	UnitField     string
	UnitsField    string

	// Stage instructions.
	Structure string
	Evaluate  string
	Holistic  string

	// Lists declares the holistic list categories in presentation order.
	Lists []ListSpec
}

// ResumeProfile analyzes resumes section by section, the way a career coach
// would: discover sections, critique each, then assess the whole document.
func ResumeProfile() Profile {
	return Profile{
		Name:          "resume",
		ScoreMin:      1,
		ScoreMax:      10,
		DocumentField: "resume_text",
		UnitField:     "section",
		UnitsField:    "sections",
		Structure:     "Identify key resume sections from the text. Return as comma-separated list.",
		Evaluate:      "Analyze this resume section for clarity, relevance, and impact. Provide critical feedback and score 1-10.",
		Holistic:      "Provide overall resume assessment with key strengths, weaknesses, and actionable improvement suggestions.",
		Lists: []ListSpec{
			{Category: "strengths", Delimiter: ";"},
			{Category: "weaknesses", Delimiter: ";"},
			{Category: "recommendations", Delimiter: ";"},
		},
	}
}

// MovieReviewProfile analyzes movie reviews: discover genres, evaluate how
// the review covers each, then summarize and recommend.
func MovieReviewProfile() Profile {
	return Profile{
		Name:           "movie-review",
		ScoreMin:       0,
		ScoreMax:       10,
		TitleCaseUnits: true,
		DocumentField:  "review",
		UnitField:      "genre",
		UnitsField:     "genres",
		Structure:      "Identify movie genres from the review. Return as comma-separated list.",
		Evaluate:       "Analyze how the review covers this genre: directing, cinematography, and technical aspects. Provide narrative feedback and a rating 0-10.",
		Holistic:       "Provide a plot summary and suggest 3 similar movies and 3 recommendations based on review content.",
		Lists: []ListSpec{
			{Category: "similar_movies", Delimiter: ","},
			{Category: "recommendations", Delimiter: ","},
		},
	}
}

var profileFactories = map[string]func() Profile{
	"resume":       ResumeProfile,
	"movie-review": MovieReviewProfile,
}

// ProfileNames lists the built-in profiles in selection order.
func ProfileNames() []string {
	return []string{"resume", "movie-review"}
}

// ProfileByName resolves a built-in profile.
func ProfileByName(name string) (Profile, error) {
	factory, ok := profileFactories[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q, available: %s", name, strings.Join(ProfileNames(), ", "))
	}
	return factory(), nil
}
