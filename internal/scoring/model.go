// SessionScope - Browsing Session Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionscope

// Package scoring runs engagement prediction: two pre-trained XGBoost
// regression models (video and non-video), loaded once at startup, and a
// pipeline that turns a telemetry payload into a score clipped to [0,1].
//
// Model artifacts are opaque external collaborators with one contract:
// given a feature vector of the documented length and order, return one
// scalar per row. Inference is pure Go via dmitryikh/leaves, so the serving
// path has no cgo or Python dependency.
package scoring

import (
	"fmt"

	"github.com/dmitryikh/leaves"
)

// Model scores one fixed-order feature vector. Implementations must be
// safe for unsynchronized concurrent use after construction.
type Model interface {
	// Predict returns the raw, unbounded regression output for one row.
	Predict(features []float64) (float64, error)

	// NumFeatures reports the feature vector length the model was
	// trained on.
	NumFeatures() int
}

// xgbModel adapts a leaves XGBoost ensemble to the Model interface.
type xgbModel struct {
	ensemble *leaves.Ensemble
}

// LoadXGBModel reads an XGBoost model artifact from disk. The returned
// model is immutable and safe for concurrent reads.
func LoadXGBModel(path string) (Model, error) {
	// loadTransformation=true applies the objective's output transform so
	// predictions match what the training framework would emit.
	ensemble, err := leaves.XGEnsembleFromFile(path, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load model %s: %w", path, err)
	}
	return &xgbModel{ensemble: ensemble}, nil
}

func (m *xgbModel) Predict(features []float64) (float64, error) {
	predictions := make([]float64, m.ensemble.NRawOutputGroups())
	// nEstimators=0 uses every tree in the ensemble.
	if err := m.ensemble.Predict(features, 0, predictions); err != nil {
		return 0, err
	}
	return predictions[0], nil
}

func (m *xgbModel) NumFeatures() int {
	return m.ensemble.NFeatures()
}
