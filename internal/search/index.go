// Package search ranks flow graph nodes against free-text queries. It backs
// the "did you mean" hints shown when a trace endpoint does not resolve.
package search

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/glyph-dev/glyph/internal/fileutil"
	"github.com/glyph-dev/glyph/internal/flow"
)

type Document struct {
	ID     string
	Name   string
	File   string
	Length int
	Terms  map[string]int
}

type Index struct {
	DocumentCount int
	AvgDocLength  float64
	DocFreq       map[string]int
	Documents     []Document
}

type Result struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// Build indexes every node of g. Names weigh more than file paths.
func Build(g flow.Graph) *Index {
	documents := make([]Document, 0, len(g))
	docFreq := make(map[string]int)
	totalLength := 0

	for _, id := range g.Keys() {
		file, _ := flow.SplitNamespaced(id)
		name := flow.DisplayText(id)

		terms := make(map[string]int)
		addWeighted(terms, name, 4)
		addWeighted(terms, file, 1)
		length := 0
		for _, count := range terms {
			length += count
		}
		if length == 0 {
			continue
		}

		documents = append(documents, Document{
			ID:     id,
			Name:   name,
			File:   file,
			Length: length,
			Terms:  terms,
		})
		totalLength += length
		for term := range terms {
			docFreq[term]++
		}
	}

	avgDocLength := 0.0
	if len(documents) > 0 {
		avgDocLength = float64(totalLength) / float64(len(documents))
	}

	return &Index{
		DocumentCount: len(documents),
		AvgDocLength:  avgDocLength,
		DocFreq:       docFreq,
		Documents:     documents,
	}
}

// Search scores documents with BM25 and falls back to edit distance on
// names when no term matches.
func Search(index *Index, query string, limit int) []Result {
	if index == nil || len(index.Documents) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = 10
	}

	uniqueTerms := fileutil.DedupeStrings(tokenize(query))
	if len(uniqueTerms) == 0 {
		return nil
	}

	k1 := 1.2
	b := 0.75
	n := float64(index.DocumentCount)
	avgLen := index.AvgDocLength
	if avgLen <= 0 {
		avgLen = 1
	}

	results := make([]Result, 0)
	for _, doc := range index.Documents {
		score := 0.0
		docLen := float64(doc.Length)
		for _, term := range uniqueTerms {
			tf := float64(doc.Terms[term])
			df := float64(index.DocFreq[term])
			if tf <= 0 || df <= 0 {
				continue
			}
			idf := math.Log(1.0 + ((n - df + 0.5) / (df + 0.5)))
			score += idf * (tf * (k1 + 1.0)) / (tf + k1*(1.0-b+b*(docLen/avgLen)))
		}
		if score > 0 {
			results = append(results, Result{ID: doc.ID, Score: score})
		}
	}

	if len(results) == 0 {
		results = fuzzyNameFallback(index.Documents, query)
	}
	sortResults(results)
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Suggest returns up to limit node ids resembling query.
func Suggest(g flow.Graph, query string, limit int) []string {
	results := Search(Build(g), query, limit)
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.ID)
	}
	return out
}

func sortResults(results []Result) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})
}

func addWeighted(terms map[string]int, value string, weight int) {
	for _, token := range tokenize(value) {
		terms[token] += weight
	}
}

// tokenize splits on non-alphanumerics and camelCase humps:
// "parseHTTPRequest_v2" yields parse, http, request, v2.
func tokenize(value string) []string {
	tokens := make([]string, 0)
	var current []rune
	flush := func() {
		if len(current) > 0 {
			tokens = append(tokens, strings.ToLower(string(current)))
			current = current[:0]
		}
	}

	runes := []rune(value)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if unicode.IsUpper(r) && len(current) > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		current = append(current, r)
	}
	flush()
	return tokens
}

func fuzzyNameFallback(documents []Document, query string) []Result {
	needle := strings.Join(tokenize(query), "")
	if needle == "" {
		return nil
	}

	results := make([]Result, 0)
	for _, doc := range documents {
		candidate := strings.Join(tokenize(doc.Name), "")
		if candidate == "" {
			continue
		}
		distance := levenshteinDistance(needle, candidate)
		threshold := len(candidate) / 3
		if threshold < 2 {
			threshold = 2
		}
		if distance > threshold {
			continue
		}
		results = append(results, Result{ID: doc.ID, Score: 1.0 / float64(1+distance)})
	}
	return results
}

func levenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		current := make([]int, len(b)+1)
		current[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			current[j] = min(current[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev = current
	}
	return prev[len(b)]
}
