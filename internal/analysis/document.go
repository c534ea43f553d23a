package analysis

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultMinWords is the minimum document size accepted for analysis.
// Shorter inputs give the model too little to work with.
const DefaultMinWords = 50

// ErrDocumentTooShort is returned before any oracle call when the input
// fails the minimum-content check.
var ErrDocumentTooShort = errors.New("document is too short")

// Document is an immutable input text accepted for analysis.
type Document struct {
	text  string
	words int
}

// NewDocument validates the raw text against the minimum word count and
// returns the document. A non-positive minWords falls back to
// DefaultMinWords.
func NewDocument(text string, minWords int) (Document, error) {
	if minWords <= 0 {
		minWords = DefaultMinWords
	}

	trimmed := strings.TrimSpace(text)
	words := len(strings.Fields(trimmed))
	if words < minWords {
		return Document{}, fmt.Errorf("%w: %d words, need at least %d", ErrDocumentTooShort, words, minWords)
	}

	return Document{text: trimmed, words: words}, nil
}

// Text returns the document content.
func (d Document) Text() string { return d.text }

// WordCount returns the number of whitespace-separated words.
func (d Document) WordCount() int { return d.words }
