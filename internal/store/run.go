// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/cinematch/internal/recommend"
)

// Triggers record what started an evaluation run.
const (
	TriggerAPI      = "api"
	TriggerStartup  = "startup"
	TriggerInterval = "interval"
)

// EvaluationRun is a persisted prediction and evaluation for one user.
type EvaluationRun struct {
	ID           uuid.UUID              `json:"id"`
	UserID       int                    `json:"user_id"`
	Neighbors    recommend.NeighborSet  `json:"neighbors"`
	Predictions  []recommend.Prediction `json:"predictions"`
	RMSE         float64                `json:"rmse"`
	Similarity   string                 `json:"similarity"`
	MeanSource   string                 `json:"mean_source"`
	ModelVersion int                    `json:"model_version"`
	Trigger      string                 `json:"trigger"`
	CreatedAt    time.Time              `json:"created_at"`
}

// NewRun captures a user prediction together with the model it came from.
func NewRun(up *recommend.UserPrediction, status recommend.Status, trigger string) *EvaluationRun {
	return &EvaluationRun{
		ID:           uuid.New(),
		UserID:       up.UserID,
		Neighbors:    up.Neighbors,
		Predictions:  up.Result.Predictions,
		RMSE:         up.RMSE,
		Similarity:   status.Similarity,
		MeanSource:   status.MeanSource,
		ModelVersion: status.ModelVersion,
		Trigger:      trigger,
		CreatedAt:    time.Now().UTC(),
	}
}
