// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

// Filter drops interactions of sparse users and movies.
//
// A movie is retained when it has more than minMovieCount interactions and a
// user when they have more than minUserCount, both counted over the input.
// An interaction survives only if both its user and its movie are retained.
// This is a single pass: a retained user may fall under the threshold
// relative to the filtered output. Input order is preserved.
func Filter(interactions []Interaction, minMovieCount, minUserCount int, obs Observer) []Interaction {
	obs = orNop(obs)

	movieCounts := make(map[int]int)
	userCounts := make(map[int]int)
	for _, in := range interactions {
		movieCounts[in.MovieID]++
		userCounts[in.UserID]++
	}

	filtered := make([]Interaction, 0, len(interactions))
	for _, in := range interactions {
		if movieCounts[in.MovieID] > minMovieCount && userCounts[in.UserID] > minUserCount {
			filtered = append(filtered, in)
		}
	}

	obs.FilterApplied(len(interactions), len(filtered))
	return filtered
}
