// Package evaluate scores query results heuristically: apparent relevance
// from keyword overlap and topical coverage from metadata tags.
package evaluate

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/kailas-cloud/chromactl/pkg/chroma"
)

// Relevance scale boundaries. The mapping from keyword hit count to the
// 0-5 scale is monotonic: 0 hits -> 0, 1 -> 3, 2 -> 4, 3 or more -> 5.
const (
	scoreNone   = 0
	scoreSingle = 3
	scoreDouble = 4
	scoreMax    = 5
)

// Hit is one returned document with its per-document evaluation.
type Hit struct {
	ID       string
	Topic    string
	Content  string
	Distance float64
	Score    int      // 0-5 apparent relevance for this document
	Matched  []string // keywords found in the document text
}

// Report is the per-query evaluation: relevance across the top-k hits,
// distinct topic coverage, and human-readable notes. Ephemeral, created
// per query and discarded after display.
type Report struct {
	Query     string
	Keywords  []string
	Hits      []Hit
	Relevance int      // max per-document score, 0-5
	Topics    []string // distinct topic tags, sorted
	Coverage  int      // len(Topics), never exceeds len(Hits)
	Notes     string
}

// minKeywordLen filters out short tokens that match everything.
const minKeywordLen = 3

var stopwords = map[string]bool{
	"the": true, "and": true, "are": true, "was": true, "were": true,
	"for": true, "with": true, "that": true, "this": true, "from": true,
	"what": true, "which": true, "how": true, "why": true, "can": true,
	"has": true, "have": true, "had": true, "not": true, "but": true,
	"its": true, "into": true, "about": true, "more": true, "most": true,
	"recent": true, "recently": true, "explain": true, "explains": true,
}

// Keywords derives match keywords from free query text: lowercase,
// tokenized on any non-letter/non-digit rune, stopwords and short tokens
// dropped, deduplicated preserving order.
func Keywords(query string) []string {
	tokens := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]bool, len(tokens))
	var out []string
	for _, tok := range tokens {
		if len([]rune(tok)) < minKeywordLen || stopwords[tok] || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

// Evaluate scores the ranked results of one query. keywords may be nil,
// in which case they are derived from the query text. An empty result set
// yields relevance 0, coverage 0, and a "no results" note.
func Evaluate(query string, keywords []string, results []chroma.Result) Report {
	if keywords == nil {
		keywords = Keywords(query)
	}

	report := Report{Query: query, Keywords: keywords}

	if len(results) == 0 {
		report.Notes = "no results returned"
		return report
	}

	topics := make(map[string]bool)
	for _, r := range results {
		matched := matchKeywords(r.Content, keywords)
		hit := Hit{
			ID:       r.ID,
			Topic:    r.Topic(),
			Content:  r.Content,
			Distance: r.Distance,
			Score:    scoreHits(len(matched)),
			Matched:  matched,
		}
		report.Hits = append(report.Hits, hit)

		if hit.Score > report.Relevance {
			report.Relevance = hit.Score
		}
		if t, ok := r.Metadata["topic"]; ok && t != "" {
			topics[t] = true
		}
	}

	for t := range topics {
		report.Topics = append(report.Topics, t)
	}
	sort.Strings(report.Topics)
	report.Coverage = len(report.Topics)

	report.Notes = buildNotes(report.Hits)
	return report
}

// matchKeywords returns the keywords present in the document text,
// case-insensitive substring match.
func matchKeywords(text string, keywords []string) []string {
	lower := strings.ToLower(text)
	var matched []string
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}

// scoreHits maps a keyword hit count onto the 0-5 relevance scale.
func scoreHits(hits int) int {
	switch {
	case hits <= 0:
		return scoreNone
	case hits == 1:
		return scoreSingle
	case hits == 2:
		return scoreDouble
	default:
		return scoreMax
	}
}

// buildNotes lists which keywords matched in which documents, or flags
// that ranking rests on semantic similarity alone.
func buildNotes(hits []Hit) string {
	var parts []string
	for _, h := range hits {
		if len(h.Matched) > 0 {
			parts = append(parts, fmt.Sprintf("%s: %s", h.ID, strings.Join(h.Matched, ", ")))
		}
	}
	if len(parts) == 0 {
		return "no exact keyword matches; results rely on semantic similarity"
	}
	return "keyword matches in " + strings.Join(parts, "; ")
}
