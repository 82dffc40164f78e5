// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// RatingMatrix is a dense user x movie matrix with an explicit presence mask.
//
// Rows are user ids and columns are movie ids, both in ascending order. The
// index sets are fixed at construction and the matrix is never mutated after
// it is returned; derived matrices are always new values.
type RatingMatrix struct {
	rows []int
	cols []int

	rowIndex map[int]int
	colIndex map[int]int

	// values is row-major, len(rows)*len(cols).
	values []float64

	// present marks cells that hold an observed rating (not an imputed one).
	present []bool

	policy Imputation
}

func newRatingMatrix(rows, cols []int) *RatingMatrix {
	m := &RatingMatrix{
		rows:     rows,
		cols:     cols,
		rowIndex: make(map[int]int, len(rows)),
		colIndex: make(map[int]int, len(cols)),
		values:   make([]float64, len(rows)*len(cols)),
		present:  make([]bool, len(rows)*len(cols)),
		policy:   ImputeNone,
	}
	for i, id := range rows {
		m.rowIndex[id] = i
	}
	for j, id := range cols {
		m.colIndex[id] = j
	}
	return m
}

// BuildMatrix pivots interactions into a user x movie matrix and applies the
// imputation policy to cells without a rating.
//
// When the same (user, movie) pair appears more than once, the last
// interaction in input order wins.
func BuildMatrix(interactions []Interaction, policy Imputation, obs Observer) (*RatingMatrix, error) {
	obs = orNop(obs)

	userSet := make(map[int]struct{})
	movieSet := make(map[int]struct{})
	for _, in := range interactions {
		userSet[in.UserID] = struct{}{}
		movieSet[in.MovieID] = struct{}{}
	}

	m := newRatingMatrix(sortedKeys(userSet), sortedKeys(movieSet))
	for _, in := range interactions {
		k := m.rowIndex[in.UserID]*len(m.cols) + m.colIndex[in.MovieID]
		m.values[k] = in.Rating
		m.present[k] = true
	}

	out, err := m.Impute(policy)
	if err != nil {
		return nil, fmt.Errorf("build matrix: %w", err)
	}

	obs.MatrixBuilt(policy, len(out.rows), len(out.cols))
	return out, nil
}

// Impute returns a copy of the matrix with missing cells filled per policy.
// Observed cells are never changed. ImputeMean fails with a NoDataError for a
// row that has no observed values.
func (m *RatingMatrix) Impute(policy Imputation) (*RatingMatrix, error) {
	out := m.clone()
	out.policy = policy
	nc := len(m.cols)

	switch policy {
	case ImputeNone, ImputeZero:
		for k, ok := range out.present {
			if !ok {
				out.values[k] = 0
			}
		}
	case ImputeMean:
		for i, rowID := range m.rows {
			observed := make([]float64, 0, nc)
			for j := 0; j < nc; j++ {
				if m.present[i*nc+j] {
					observed = append(observed, m.values[i*nc+j])
				}
			}
			if len(observed) == 0 && nc > 0 {
				return nil, &NoDataError{Axis: "row", ID: rowID, Reason: "mean imputation"}
			}
			mean := stat.Mean(observed, nil)
			for j := 0; j < nc; j++ {
				if !m.present[i*nc+j] {
					out.values[i*nc+j] = mean
				}
			}
		}
	default:
		return nil, &InvalidArgumentError{Name: "imputation", Value: int(policy), Reason: "unknown policy"}
	}

	return out, nil
}

// RestrictRows returns a matrix holding only the given rows, in the given
// order. Columns are unchanged.
func (m *RatingMatrix) RestrictRows(rowIDs []int) (*RatingMatrix, error) {
	ids := make([]int, len(rowIDs))
	copy(ids, rowIDs)

	out := newRatingMatrix(ids, m.cols)
	out.policy = m.policy
	nc := len(m.cols)

	for i, id := range ids {
		src, ok := m.rowIndex[id]
		if !ok {
			return nil, &NotFoundError{Kind: "user", ID: id}
		}
		copy(out.values[i*nc:(i+1)*nc], m.values[src*nc:(src+1)*nc])
		copy(out.present[i*nc:(i+1)*nc], m.present[src*nc:(src+1)*nc])
	}
	return out, nil
}

// Shape returns the number of rows and columns.
func (m *RatingMatrix) Shape() (rows, cols int) {
	return len(m.rows), len(m.cols)
}

// Rows returns a copy of the row (user) ids.
func (m *RatingMatrix) Rows() []int {
	return append([]int(nil), m.rows...)
}

// Cols returns a copy of the column (movie) ids.
func (m *RatingMatrix) Cols() []int {
	return append([]int(nil), m.cols...)
}

// Policy returns the imputation policy the matrix was built with.
func (m *RatingMatrix) Policy() Imputation {
	return m.policy
}

// RowIndex returns the position of a user id.
func (m *RatingMatrix) RowIndex(userID int) (int, bool) {
	i, ok := m.rowIndex[userID]
	return i, ok
}

// ColIndex returns the position of a movie id.
func (m *RatingMatrix) ColIndex(movieID int) (int, bool) {
	j, ok := m.colIndex[movieID]
	return j, ok
}

// At returns the cell at position (i, j) and whether it holds a value.
// Under ImputeNone an unrated cell reports false; under the other policies
// every cell holds a value.
func (m *RatingMatrix) At(i, j int) (float64, bool) {
	k := i*len(m.cols) + j
	if m.present[k] || m.policy != ImputeNone {
		return m.values[k], true
	}
	return math.NaN(), false
}

// Observed reports whether the cell at (i, j) holds an actual rating.
func (m *RatingMatrix) Observed(i, j int) bool {
	return m.present[i*len(m.cols)+j]
}

// Get returns the cell for a (user, movie) pair by id.
func (m *RatingMatrix) Get(userID, movieID int) (float64, bool) {
	i, ok := m.rowIndex[userID]
	if !ok {
		return math.NaN(), false
	}
	j, ok := m.colIndex[movieID]
	if !ok {
		return math.NaN(), false
	}
	return m.At(i, j)
}

// ObservedRow returns the actual ratings of a user keyed by movie id.
func (m *RatingMatrix) ObservedRow(userID int) (map[int]float64, error) {
	i, ok := m.rowIndex[userID]
	if !ok {
		return nil, &NotFoundError{Kind: "user", ID: userID}
	}
	nc := len(m.cols)
	out := make(map[int]float64)
	for j, movieID := range m.cols {
		if m.present[i*nc+j] {
			out[movieID] = m.values[i*nc+j]
		}
	}
	return out, nil
}

// Dense materializes the matrix. Cells without a value are NaN.
// Returns nil for a matrix with no rows or no columns.
func (m *RatingMatrix) Dense() *mat.Dense {
	nr, nc := m.Shape()
	if nr == 0 || nc == 0 {
		return nil
	}
	data := make([]float64, len(m.values))
	for k := range m.values {
		if m.present[k] || m.policy != ImputeNone {
			data[k] = m.values[k]
		} else {
			data[k] = math.NaN()
		}
	}
	return mat.NewDense(nr, nc, data)
}

// DenseZero materializes the matrix with cells lacking a value set to 0.
// Returns nil for a matrix with no rows or no columns.
func (m *RatingMatrix) DenseZero() *mat.Dense {
	nr, nc := m.Shape()
	if nr == 0 || nc == 0 {
		return nil
	}
	data := make([]float64, len(m.values))
	for k := range m.values {
		if m.present[k] || m.policy != ImputeNone {
			data[k] = m.values[k]
		}
	}
	return mat.NewDense(nr, nc, data)
}

// ColumnMeans returns the mean of the observed ratings of each column.
// Columns without observed ratings are omitted.
func ColumnMeans(m *RatingMatrix) map[int]float64 {
	nr, nc := m.Shape()
	means := make(map[int]float64, nc)
	col := make([]float64, 0, nr)
	for j, movieID := range m.cols {
		col = col[:0]
		for i := 0; i < nr; i++ {
			if m.present[i*nc+j] {
				col = append(col, m.values[i*nc+j])
			}
		}
		if len(col) > 0 {
			means[movieID] = stat.Mean(col, nil)
		}
	}
	return means
}

// ImputedColumnMeans returns the mean of every column over all rows, counting
// imputed cells at their filled value. Under ImputeNone it equals ColumnMeans.
func ImputedColumnMeans(m *RatingMatrix) map[int]float64 {
	if m.policy == ImputeNone {
		return ColumnMeans(m)
	}
	nr, nc := m.Shape()
	means := make(map[int]float64, nc)
	if nr == 0 {
		return means
	}
	col := make([]float64, nr)
	for j, movieID := range m.cols {
		for i := 0; i < nr; i++ {
			col[i] = m.values[i*nc+j]
		}
		means[movieID] = stat.Mean(col, nil)
	}
	return means
}

func (m *RatingMatrix) clone() *RatingMatrix {
	out := newRatingMatrix(m.rows, m.cols)
	copy(out.values, m.values)
	copy(out.present, m.present)
	out.policy = m.policy
	return out
}

func sortedKeys(set map[int]struct{}) []int {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
