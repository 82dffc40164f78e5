// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"testing"
)

// recordingObserver captures diagnostics for assertions.
type recordingObserver struct {
	filterBefore, filterAfter int
	filterCalls               int

	matrixCalls []Imputation
	rows, cols  int

	targets []string
	scores  []float64
}

func (r *recordingObserver) FilterApplied(before, after int) {
	r.filterCalls++
	r.filterBefore, r.filterAfter = before, after
}

func (r *recordingObserver) MatrixBuilt(policy Imputation, rows, cols int) {
	r.matrixCalls = append(r.matrixCalls, policy)
	r.rows, r.cols = rows, cols
}

func (r *recordingObserver) Evaluated(target string, rmse float64) {
	r.targets = append(r.targets, target)
	r.scores = append(r.scores, rmse)
}

func TestFilter(t *testing.T) {
	// user 1 rated 3 movies, user 2 rated 2, user 3 rated 1.
	// movie 10 has 3 ratings, movie 20 has 2, movie 30 has 1.
	interactions := []Interaction{
		{UserID: 1, MovieID: 10, Rating: 4},
		{UserID: 1, MovieID: 20, Rating: 3},
		{UserID: 1, MovieID: 30, Rating: 5},
		{UserID: 2, MovieID: 10, Rating: 2},
		{UserID: 2, MovieID: 20, Rating: 1},
		{UserID: 3, MovieID: 10, Rating: 5},
	}

	tests := []struct {
		name     string
		minMovie int
		minUser  int
		want     []Interaction
	}{
		{
			name:     "zero thresholds keep everything",
			minMovie: 0,
			minUser:  0,
			want:     interactions,
		},
		{
			name:     "movie threshold is strict",
			minMovie: 2,
			minUser:  0,
			want: []Interaction{
				{UserID: 1, MovieID: 10, Rating: 4},
				{UserID: 2, MovieID: 10, Rating: 2},
				{UserID: 3, MovieID: 10, Rating: 5},
			},
		},
		{
			name:     "user threshold is strict",
			minMovie: 0,
			minUser:  2,
			want: []Interaction{
				{UserID: 1, MovieID: 10, Rating: 4},
				{UserID: 1, MovieID: 20, Rating: 3},
				{UserID: 1, MovieID: 30, Rating: 5},
			},
		},
		{
			name:     "both thresholds are conjunctive",
			minMovie: 1,
			minUser:  1,
			want: []Interaction{
				{UserID: 1, MovieID: 10, Rating: 4},
				{UserID: 1, MovieID: 20, Rating: 3},
				{UserID: 2, MovieID: 10, Rating: 2},
				{UserID: 2, MovieID: 20, Rating: 1},
			},
		},
		{
			name:     "thresholds above every count empty the result",
			minMovie: 10,
			minUser:  10,
			want:     []Interaction{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := &recordingObserver{}
			got := Filter(interactions, tt.minMovie, tt.minUser, obs)

			if len(got) != len(tt.want) {
				t.Fatalf("Filter() returned %d interactions, want %d: %v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Filter()[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
			if obs.filterCalls != 1 {
				t.Errorf("FilterApplied called %d times, want 1", obs.filterCalls)
			}
			if obs.filterBefore != len(interactions) || obs.filterAfter != len(tt.want) {
				t.Errorf("FilterApplied(%d, %d), want (%d, %d)",
					obs.filterBefore, obs.filterAfter, len(interactions), len(tt.want))
			}
		})
	}
}

func TestFilter_SinglePass(t *testing.T) {
	// Movie 30 has 3 ratings and every user has at least 2, so all users
	// pass minUser=1 on the original counts. After the movie mask each user
	// keeps a single rating, at the user threshold; the rows still stay
	// because counts are never recomputed.
	interactions := []Interaction{
		{UserID: 1, MovieID: 10, Rating: 4},
		{UserID: 1, MovieID: 20, Rating: 3},
		{UserID: 1, MovieID: 30, Rating: 5},
		{UserID: 2, MovieID: 10, Rating: 2},
		{UserID: 2, MovieID: 20, Rating: 1},
		{UserID: 2, MovieID: 30, Rating: 4},
		{UserID: 3, MovieID: 30, Rating: 2},
		{UserID: 3, MovieID: 40, Rating: 5},
	}
	want := []Interaction{
		{UserID: 1, MovieID: 30, Rating: 5},
		{UserID: 2, MovieID: 30, Rating: 4},
		{UserID: 3, MovieID: 30, Rating: 2},
	}

	got := Filter(interactions, 2, 1, nil)
	if len(got) != len(want) {
		t.Fatalf("Filter() = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("Filter()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	perUser := make(map[int]int)
	for _, in := range got {
		perUser[in.UserID]++
	}
	for user, n := range perUser {
		if n > 1 {
			t.Errorf("user %d kept %d ratings, want 1", user, n)
		}
	}
}

func TestFilter_SubsetAndThresholds(t *testing.T) {
	var interactions []Interaction
	for u := 1; u <= 20; u++ {
		for m := 1; m <= u%7+1; m++ {
			interactions = append(interactions, Interaction{UserID: u, MovieID: m * (u%3 + 1), Rating: float64(m%5 + 1)})
		}
	}

	userCounts := make(map[int]int)
	movieCounts := make(map[int]int)
	for _, in := range interactions {
		userCounts[in.UserID]++
		movieCounts[in.MovieID]++
	}

	const minMovie, minUser = 3, 2
	got := Filter(interactions, minMovie, minUser, nil)

	input := make(map[Interaction]int)
	for _, in := range interactions {
		input[in]++
	}
	for _, in := range got {
		if input[in] == 0 {
			t.Errorf("Filter() produced %+v which is not in the input", in)
		}
		input[in]--
		if userCounts[in.UserID] <= minUser {
			t.Errorf("user %d retained with original count %d", in.UserID, userCounts[in.UserID])
		}
		if movieCounts[in.MovieID] <= minMovie {
			t.Errorf("movie %d retained with original count %d", in.MovieID, movieCounts[in.MovieID])
		}
	}
}

func TestFilter_Empty(t *testing.T) {
	got := Filter(nil, 0, 0, nil)
	if len(got) != 0 {
		t.Errorf("Filter(nil) = %v, want empty", got)
	}
}
