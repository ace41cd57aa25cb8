package tfidf

import (
	"fmt"
	"math"
	"sort"

	"github.com/kailas-cloud/jobmatch/internal/domain"
)

// Vectorizer is a fitted vocabulary with smoothed IDF weights. Immutable.
type Vectorizer struct {
	analyzer Analyzer
	vocab    map[string]int32
	terms    []string
	idf      []float64
	numDocs  int
}

// Fit builds the vocabulary and IDF weights over docs and returns the
// L2-normalized document vectors, one row per doc in input order.
//
// Term indices follow lexicographic term order and
// idf = ln((1+N)/(1+df)) + 1, so refitting the same corpus is bit-identical.
func Fit(docs []string, a Analyzer) (*Vectorizer, *Matrix, error) {
	if len(docs) == 0 {
		return nil, nil, fmt.Errorf("%w: corpus has no documents", domain.ErrInsufficientData)
	}

	counts := make([]map[string]int, len(docs))
	df := make(map[string]int)
	for i, d := range docs {
		c := a.Counts(d)
		for t := range c {
			df[t]++
		}
		counts[i] = c
	}
	if len(df) == 0 {
		return nil, nil, fmt.Errorf("%w: corpus produced an empty vocabulary", domain.ErrInsufficientData)
	}

	terms := make([]string, 0, len(df))
	for t := range df {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	v := &Vectorizer{
		analyzer: a,
		vocab:    make(map[string]int32, len(terms)),
		terms:    terms,
		idf:      make([]float64, len(terms)),
		numDocs:  len(docs),
	}
	for i, t := range terms {
		v.vocab[t] = int32(i)
		v.idf[i] = smoothIDF(len(docs), df[t])
	}

	indptr := make([]int, 1, len(docs)+1)
	var indices []int32
	var data []float64
	for _, c := range counts {
		row := v.weigh(c)
		indices = append(indices, row.Indices...)
		data = append(data, row.Values...)
		indptr = append(indptr, len(data))
	}

	m, err := NewMatrix(len(docs), len(terms), indptr, indices, data)
	if err != nil {
		return nil, nil, fmt.Errorf("build matrix: %w", err)
	}
	return v, m, nil
}

// Restore rebuilds a vectorizer from persisted state.
func Restore(a Analyzer, terms []string, idf []float64, numDocs int) (*Vectorizer, error) {
	if len(terms) != len(idf) {
		return nil, fmt.Errorf("terms (%d) and idf (%d) differ in length", len(terms), len(idf))
	}
	if numDocs <= 0 {
		return nil, fmt.Errorf("num_docs must be positive, got %d", numDocs)
	}
	if len(terms) > math.MaxInt32 {
		return nil, fmt.Errorf("vocabulary too large: %d terms", len(terms))
	}

	v := &Vectorizer{
		analyzer: a,
		vocab:    make(map[string]int32, len(terms)),
		terms:    make([]string, len(terms)),
		idf:      make([]float64, len(idf)),
		numDocs:  numDocs,
	}
	copy(v.terms, terms)
	copy(v.idf, idf)
	for i, t := range terms {
		if _, dup := v.vocab[t]; dup {
			return nil, fmt.Errorf("duplicate term %q", t)
		}
		if math.IsNaN(idf[i]) || math.IsInf(idf[i], 0) || idf[i] <= 0 {
			return nil, fmt.Errorf("term %q has invalid idf %v", t, idf[i])
		}
		v.vocab[t] = int32(i)
	}
	return v, nil
}

// Transform maps text into the frozen vector space. Out-of-vocabulary terms
// are ignored; the result is L2-normalized (zero when nothing matched).
func (v *Vectorizer) Transform(text string) Vector {
	return v.weigh(v.analyzer.Counts(text))
}

func (v *Vectorizer) weigh(counts map[string]int) Vector {
	idx := make([]int32, 0, len(counts))
	for t := range counts {
		if i, ok := v.vocab[t]; ok {
			idx = append(idx, i)
		}
	}
	sort.Slice(idx, func(a, b int) bool { return idx[a] < idx[b] })

	vals := make([]float64, len(idx))
	for k, i := range idx {
		vals[k] = float64(counts[v.terms[i]]) * v.idf[i]
	}
	vec := Vector{Indices: idx, Values: vals}
	vec.normalize()
	return vec
}

// Analyzer returns the tokenization settings.
func (v *Vectorizer) Analyzer() Analyzer { return v.analyzer }

// Dim returns the vocabulary size.
func (v *Vectorizer) Dim() int { return len(v.terms) }

// NumDocs returns the corpus size the weights were fitted on.
func (v *Vectorizer) NumDocs() int { return v.numDocs }

// Terms returns a copy of the vocabulary in column order.
func (v *Vectorizer) Terms() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

// IDF returns a copy of the term weights in column order.
func (v *Vectorizer) IDF() []float64 {
	out := make([]float64, len(v.idf))
	copy(out, v.idf)
	return out
}

// TermIndex returns the column of term.
func (v *Vectorizer) TermIndex(term string) (int, bool) {
	i, ok := v.vocab[term]
	return int(i), ok
}

func smoothIDF(numDocs, df int) float64 {
	return math.Log(float64(1+numDocs)/float64(1+df)) + 1
}
