// Package normalize turns free-text model output into bounded scores and
// clean list/enum values. All functions are pure; parse failures resolve to
// documented fallback values instead of errors.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// FallbackScore is returned when no numeric value can be found in a score
// field. It is a mid-range sentinel, not an error.
const FallbackScore = 5.0

var scorePattern = regexp.MustCompile(`\d+\.?\d*`)

// ExtractScore finds the first contiguous number in text and clamps it to
// [min, max]. Text without any digits yields FallbackScore.
func ExtractScore(text string, min, max float64) float64 {
	match := scorePattern.FindString(text)
	if match == "" {
		return FallbackScore
	}

	score, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return FallbackScore
	}

	if score < min {
		return min
	}
	if score > max {
		return max
	}
	return score
}

// ExtractList splits text on delimiter, trims each piece and drops empty
// ones. Order is preserved and duplicates are kept; a repeated
// recommendation is signal, not noise.
func ExtractList(text, delimiter string) []string {
	items := make([]string, 0)
	for _, piece := range strings.Split(text, delimiter) {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		items = append(items, piece)
	}
	return items
}

// NormalizeLabel trims and title-cases a short categorical field such as a
// genre name. A letter following any non-letter starts a new word, so
// hyphenated labels become "Sci-Fi", not "Sci-fi".
func NormalizeLabel(text string) string {
	var builder strings.Builder
	afterLetter := false
	for _, r := range strings.TrimSpace(text) {
		switch {
		case !unicode.IsLetter(r):
			builder.WriteRune(r)
			afterLetter = false
		case afterLetter:
			builder.WriteRune(unicode.ToLower(r))
		default:
			builder.WriteRune(unicode.ToUpper(r))
			afterLetter = true
		}
	}
	return builder.String()
}

// QualityBand is a closed rating vocabulary derived from narrative text.
type QualityBand string

const (
	QualityExcellent QualityBand = "excellent"
	QualityGood      QualityBand = "good"
	QualityAverage   QualityBand = "average"
	QualityPoor      QualityBand = "poor"
)

// qualityOrder is checked best-to-worst; the first keyword present in the
// text wins, so mixed praise resolves deterministically.
var qualityOrder = []QualityBand{
	QualityExcellent,
	QualityGood,
	QualityAverage,
	QualityPoor,
}

// MapQualityToStars maps narrative text onto a QualityBand by
// case-insensitive substring match. Text matching no keyword is
// QualityAverage.
func MapQualityToStars(text string) QualityBand {
	lower := strings.ToLower(text)
	for _, band := range qualityOrder {
		if strings.Contains(lower, string(band)) {
			return band
		}
	}
	return QualityAverage
}

// Stars renders the band in the five-star notation used by presentation
// layers.
func (b QualityBand) Stars() string {
	switch b {
	case QualityExcellent:
		return "★★★★★"
	case QualityGood:
		return "★★★★☆"
	case QualityPoor:
		return "★★☆☆☆"
	default:
		return "★★★☆☆"
	}
}
