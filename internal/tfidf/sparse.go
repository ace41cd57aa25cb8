package tfidf

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Vector is a sparse vector with strictly ascending indices.
type Vector struct {
	Indices []int32
	Values  []float64
}

// Len returns the number of stored entries.
func (v Vector) Len() int { return len(v.Indices) }

// Norm returns the Euclidean norm.
func (v Vector) Norm() float64 {
	if len(v.Values) == 0 {
		return 0
	}
	return floats.Norm(v.Values, 2)
}

// IsZero reports whether every entry is zero.
func (v Vector) IsZero() bool {
	for _, x := range v.Values {
		if x != 0 {
			return false
		}
	}
	return true
}

// normalize scales v in place to unit L2 norm. A zero vector stays zero.
func (v Vector) normalize() {
	n := v.Norm()
	if n == 0 {
		return
	}
	floats.Scale(1/n, v.Values)
}

// Dot returns the inner product of two sparse vectors.
func (v Vector) Dot(o Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.Indices) && j < len(o.Indices) {
		switch {
		case v.Indices[i] == o.Indices[j]:
			sum += v.Values[i] * o.Values[j]
			i++
			j++
		case v.Indices[i] < o.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Matrix is an immutable CSR matrix of document vectors, one row per record.
type Matrix struct {
	rows    int
	cols    int
	indptr  []int
	indices []int32
	data    []float64
}

// NewMatrix validates CSR arrays and wraps them without copying.
func NewMatrix(rows, cols int, indptr []int, indices []int32, data []float64) (*Matrix, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("negative shape %dx%d", rows, cols)
	}
	if len(indptr) != rows+1 {
		return nil, fmt.Errorf("indptr has %d entries, want %d", len(indptr), rows+1)
	}
	if len(indices) != len(data) {
		return nil, fmt.Errorf("indices (%d) and data (%d) differ in length", len(indices), len(data))
	}
	if indptr[0] != 0 || indptr[rows] != len(data) {
		return nil, fmt.Errorf("indptr must span [0, %d], got [%d, %d]", len(data), indptr[0], indptr[rows])
	}
	for r := 0; r < rows; r++ {
		lo, hi := indptr[r], indptr[r+1]
		if lo > hi {
			return nil, fmt.Errorf("row %d: indptr decreases", r)
		}
		for k := lo; k < hi; k++ {
			c := indices[k]
			if c < 0 || int(c) >= cols {
				return nil, fmt.Errorf("row %d: column %d out of range [0, %d)", r, c, cols)
			}
			if k > lo && indices[k-1] >= c {
				return nil, fmt.Errorf("row %d: columns not strictly ascending", r)
			}
		}
	}
	return &Matrix{rows: rows, cols: cols, indptr: indptr, indices: indices, data: data}, nil
}

// Rows returns the number of document vectors.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the vector dimension (vocabulary size).
func (m *Matrix) Cols() int { return m.cols }

// NNZ returns the number of stored entries.
func (m *Matrix) NNZ() int { return len(m.data) }

// Row returns a read-only view of row i.
func (m *Matrix) Row(i int) Vector {
	lo, hi := m.indptr[i], m.indptr[i+1]
	return Vector{Indices: m.indices[lo:hi:hi], Values: m.data[lo:hi:hi]}
}

// Similarities returns the cosine similarity of q against every row.
// Rows and q are L2-normalized, so cosine reduces to a dot product.
// A zero query yields all-zero scores.
func (m *Matrix) Similarities(q Vector) []float64 {
	scores := make([]float64, m.rows)
	if q.IsZero() {
		return scores
	}
	for i := range scores {
		s := m.Row(i).Dot(q)
		switch {
		case s < 0:
			s = 0
		case s > 1:
			s = 1
		}
		scores[i] = s
	}
	return scores
}

// Equal reports whether two matrices are bit-identical.
func (m *Matrix) Equal(o *Matrix) bool {
	if m.rows != o.rows || m.cols != o.cols || len(m.data) != len(o.data) {
		return false
	}
	for i := range m.indptr {
		if m.indptr[i] != o.indptr[i] {
			return false
		}
	}
	for i := range m.indices {
		if m.indices[i] != o.indices[i] || m.data[i] != o.data[i] {
			return false
		}
	}
	return true
}
