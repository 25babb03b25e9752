// Package lexical implements the TF-IDF term-weighting model used to
// rank policy text without embeddings. The model is built once from a
// small fixed reference corpus and is pure and deterministic.
package lexical

import (
	"math"
	"regexp"
	"strings"

	"github.com/clauselens/clauselens/internal/domain"
)

// minTokenLen filters out tokens too short to carry search relevance.
const minTokenLen = 3

var nonWordRegex = regexp.MustCompile(`[^\w\s]`)

// Model holds the vocabulary and inverse-document-frequency table
// computed over the reference corpus.
type Model struct {
	corpusSize int
	docFreq    map[string]int
}

// NewModel builds a Model from the reference corpus. It returns an
// error on an empty corpus: a term model with no vocabulary would rank
// everything at zero and mask configuration mistakes.
func NewModel(corpus []string) (*Model, error) {
	if len(corpus) == 0 {
		return nil, domain.ErrEmptyCorpus
	}

	m := &Model{
		corpusSize: len(corpus),
		docFreq:    make(map[string]int),
	}

	for _, doc := range corpus {
		seen := make(map[string]bool)
		for _, token := range Tokenize(doc) {
			if !seen[token] {
				seen[token] = true
				m.docFreq[token]++
			}
		}
	}

	return m, nil
}

// CorpusSize returns the number of reference documents the model was
// built from.
func (m *Model) CorpusSize() int {
	return m.corpusSize
}

// Weights computes the term-weight vector for a document: count-normalized
// term frequency multiplied by ln(corpusSize / (docsContaining + 1)).
// The +1 guards division by zero for terms absent from the corpus.
func (m *Model) Weights(document string) map[string]float64 {
	tokens := Tokenize(document)
	if len(tokens) == 0 {
		return map[string]float64{}
	}

	counts := make(map[string]int)
	for _, token := range tokens {
		counts[token]++
	}

	total := float64(len(tokens))
	weights := make(map[string]float64, len(counts))
	for term, count := range counts {
		tf := float64(count) / total
		idf := math.Log(float64(m.corpusSize) / float64(m.docFreq[term]+1))
		weights[term] = tf * idf
	}

	return weights
}

// Similarity returns the cosine similarity of the two texts' weight
// vectors, in [0,1]. It returns 0 when either vector has zero
// magnitude, which covers empty input and all-stopword input.
func (m *Model) Similarity(textA, textB string) float64 {
	wa := m.Weights(textA)
	wb := m.Weights(textB)

	var dot, magA, magB float64
	for term, a := range wa {
		magA += a * a
		if b, ok := wb[term]; ok {
			dot += a * b
		}
	}
	for _, b := range wb {
		magB += b * b
	}

	if magA == 0 || magB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(magA) * math.Sqrt(magB))
	// Floating-point rounding can nudge identical vectors past 1.
	if sim > 1 {
		return 1
	}
	if sim < 0 {
		return 0
	}
	return sim
}

// Tokenize lowercases the text, strips non-word characters, splits on
// whitespace, and discards tokens shorter than three characters.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}

	cleaned := nonWordRegex.ReplaceAllString(strings.ToLower(text), " ")

	var tokens []string
	for _, field := range strings.Fields(cleaned) {
		if len(field) >= minTokenLen {
			tokens = append(tokens, field)
		}
	}
	return tokens
}
