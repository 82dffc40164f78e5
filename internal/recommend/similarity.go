// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// SimilarityMatrix is a symmetric similarity matrix labeled by entity id.
// The raw matrix has no knowledge of ids; ids[i] names row and column i.
type SimilarityMatrix struct {
	ids   []int
	index map[int]int
	sym   *mat.SymDense
}

// NewSimilarityMatrix labels sym with ids. len(ids) must equal the matrix size.
func NewSimilarityMatrix(ids []int, sym *mat.SymDense) (*SimilarityMatrix, error) {
	if sym == nil {
		if len(ids) != 0 {
			return nil, &ShapeMismatchError{What: "similarity matrix size", Want: len(ids), Got: 0}
		}
		return &SimilarityMatrix{index: map[int]int{}}, nil
	}
	if n := sym.SymmetricDim(); n != len(ids) {
		return nil, &ShapeMismatchError{What: "similarity matrix size", Want: len(ids), Got: n}
	}

	s := &SimilarityMatrix{
		ids:   append([]int(nil), ids...),
		index: make(map[int]int, len(ids)),
		sym:   sym,
	}
	for i, id := range ids {
		s.index[id] = i
	}
	return s, nil
}

// Size returns the number of labeled entities.
func (s *SimilarityMatrix) Size() int {
	return len(s.ids)
}

// IDs returns a copy of the entity ids in matrix order.
func (s *SimilarityMatrix) IDs() []int {
	return append([]int(nil), s.ids...)
}

// Contains reports whether id labels a row of the matrix.
func (s *SimilarityMatrix) Contains(id int) bool {
	_, ok := s.index[id]
	return ok
}

// Similarity returns the score between two entities.
func (s *SimilarityMatrix) Similarity(a, b int) (float64, error) {
	i, ok := s.index[a]
	if !ok {
		return 0, &NotFoundError{Kind: "user", ID: a}
	}
	j, ok := s.index[b]
	if !ok {
		return 0, &NotFoundError{Kind: "user", ID: b}
	}
	return s.sym.At(i, j), nil
}

// TopNSimilar returns the entities most similar to targetID, excluding the
// target itself, in descending order of similarity.
//
// When at least n entities are exact matches (similarity == 1.0), every exact
// match is returned, even if that is more than n. Otherwise the first n
// entries are returned. Ties keep matrix order.
func TopNSimilar(sim *SimilarityMatrix, targetID, n int) (NeighborSet, error) {
	if n < 1 {
		return nil, &InvalidArgumentError{Name: "n", Value: n, Reason: "must be at least 1"}
	}
	row, ok := sim.index[targetID]
	if !ok {
		return nil, &NotFoundError{Kind: "user", ID: targetID}
	}

	candidates := make(NeighborSet, 0, len(sim.ids)-1)
	for j, id := range sim.ids {
		if j == row {
			continue
		}
		candidates = append(candidates, Neighbor{ID: id, Similarity: sim.sym.At(row, j)})
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].Similarity > candidates[b].Similarity
	})

	var exact NeighborSet
	for _, c := range candidates {
		if c.Similarity == 1.0 {
			exact = append(exact, c)
		}
	}
	if len(exact) >= n {
		return exact, nil
	}

	if n > len(candidates) {
		n = len(candidates)
	}
	return candidates[:n], nil
}
