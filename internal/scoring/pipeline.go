// SessionScope - Browsing Session Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionscope

package scoring

import (
	"math"

	"github.com/tomtom215/sessionscope/internal/features"
	"github.com/tomtom215/sessionscope/internal/models"
)

// Pipeline is the pure scoring path: classify content type, extract the
// feature vector, dispatch to the matching model, and clip the raw
// prediction to [0,1].
//
// Score has no persistence side effects; durable writes belong to the
// ingestion gate. That keeps scoring testable in isolation.
type Pipeline struct {
	registry *Registry
}

// NewPipeline builds a pipeline over an explicitly constructed registry.
func NewPipeline(registry *Registry) *Pipeline {
	return &Pipeline{registry: registry}
}

// Score predicts engagement for one payload. The result is always in
// [0,1]: engagement is a probability-like score and must never be reported
// outside that range regardless of what the underlying regressor emits.
//
// An empty content type defaults to "webpage".
func (p *Pipeline) Score(contentType string, eng models.EngagementPayload) (float64, error) {
	if contentType == "" {
		contentType = features.DefaultContentType
	}
	class := features.Classify(contentType)
	vector := features.Vector(class, eng)

	model, err := p.registry.Lookup(class)
	if err != nil {
		return 0, &FeatureError{Class: class.String(), Err: err}
	}

	raw, err := model.Predict(vector)
	if err != nil {
		return 0, &InferenceError{Class: class.String(), Features: len(vector), Err: err}
	}

	return clip01(raw), nil
}

// clip01 clamps a raw prediction to the closed interval [0,1]. NaN maps to
// 0 so the pipeline stays total.
func clip01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(1, math.Max(0, v))
}
