// SessionScope - Browsing Session Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionscope

package scoring

import (
	"fmt"

	"github.com/tomtom215/sessionscope/internal/features"
	"github.com/tomtom215/sessionscope/internal/logging"
)

// Registry holds the two scoring models keyed by content class. It is
// constructed explicitly at startup, immutable afterward, and therefore
// safe for unsynchronized concurrent reads from request handlers.
type Registry struct {
	video    Model
	nonVideo Model
}

// NewRegistry builds a registry from two already-loaded models. Tests use
// this constructor with substitute models.
func NewRegistry(video, nonVideo Model) *Registry {
	return &Registry{video: video, nonVideo: nonVideo}
}

// LoadRegistry loads both model artifacts from disk. Any load failure is
// returned to the caller, which must treat it as fatal: the process must
// not serve ingestion requests with a missing model.
func LoadRegistry(videoPath, nonVideoPath string) (*Registry, error) {
	video, err := LoadXGBModel(videoPath)
	if err != nil {
		return nil, fmt.Errorf("video model: %w", err)
	}
	if n := video.NumFeatures(); n != features.VideoFeatureCount {
		return nil, fmt.Errorf("video model expects %d features, pipeline emits %d: %w",
			n, features.VideoFeatureCount, ErrModelUnavailable)
	}

	nonVideo, err := LoadXGBModel(nonVideoPath)
	if err != nil {
		return nil, fmt.Errorf("non-video model: %w", err)
	}
	if n := nonVideo.NumFeatures(); n != features.NonVideoFeatureCount {
		return nil, fmt.Errorf("non-video model expects %d features, pipeline emits %d: %w",
			n, features.NonVideoFeatureCount, ErrModelUnavailable)
	}

	logging.Info().
		Str("video_model", videoPath).
		Str("nonvideo_model", nonVideoPath).
		Msg("Scoring models loaded")

	return NewRegistry(video, nonVideo), nil
}

// Lookup returns the model for a content class. ErrModelUnavailable is
// unreachable with the two-slot constructor but kept explicit so a future
// bucket cannot silently fall through.
func (r *Registry) Lookup(class features.ContentClass) (Model, error) {
	var m Model
	if class == features.ClassVideo {
		m = r.video
	} else {
		m = r.nonVideo
	}
	if m == nil {
		return nil, fmt.Errorf("%w: %s", ErrModelUnavailable, class)
	}
	return m, nil
}

// Loaded reports whether both model slots are populated. Used by the
// readiness probe.
func (r *Registry) Loaded() bool {
	return r != nil && r.video != nil && r.nonVideo != nil
}
