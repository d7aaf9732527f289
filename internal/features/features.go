// SessionScope - Browsing Session Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionscope

// Package features maps raw engagement telemetry to the fixed-order numeric
// feature vectors consumed by the trained regression models.
//
// There are exactly two feature families, selected by content class:
//
//	video:     [video_watched_percentage, pause_count, seek_count]
//	non-video: [reading_time, idle_time, total_scrolls, max_scroll_depth]
//
// Vector length and order are a binding contract with the model artifacts.
// Changing either without retraining produces silently wrong predictions,
// so the ordering is pinned here and nowhere else.
package features

import "github.com/tomtom215/sessionscope/internal/models"

// ContentClass is the two-variant partition of content types used for
// feature selection and model dispatch.
type ContentClass int

const (
	// ClassNonVideo covers "article", "webpage", and any unrecognized
	// content type.
	ClassNonVideo ContentClass = iota

	// ClassVideo covers content_type == "video" only.
	ClassVideo
)

// String returns the model registry key for the class.
func (c ContentClass) String() string {
	if c == ClassVideo {
		return "video"
	}
	return "non_video"
}

// DefaultContentType is assumed when an event omits content_type.
const DefaultContentType = "webpage"

// Classify normalizes a raw content_type string to a ContentClass.
//
// "video" selects the video bucket; everything else, including the empty
// string, collapses to non-video. Articles and webpages deliberately share
// one bucket: the trained models do not distinguish them.
func Classify(contentType string) ContentClass {
	if contentType == "video" {
		return ClassVideo
	}
	return ClassNonVideo
}

// VideoFeatureCount and NonVideoFeatureCount pin the expected vector
// lengths for the two model families.
const (
	VideoFeatureCount    = 3
	NonVideoFeatureCount = 4
)

// Vector extracts the fixed-order feature vector for the given class.
//
// Pure function: no I/O, deterministic for identical inputs. Fields absent
// from the original JSON decode to Go zero values, which matches the
// scoring default of 0.
func Vector(class ContentClass, eng models.EngagementPayload) []float64 {
	if class == ClassVideo {
		return []float64{
			eng.VideoWatchedPercentage,
			float64(eng.PauseCount),
			float64(eng.SeekCount),
		}
	}
	return []float64{
		float64(eng.ReadingTime),
		float64(eng.IdleTime),
		float64(eng.TotalScrolls),
		eng.MaxScrollDepth,
	}
}
