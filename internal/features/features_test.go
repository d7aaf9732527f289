// SessionScope - Browsing Session Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionscope

package features

import (
	"reflect"
	"testing"

	"github.com/tomtom215/sessionscope/internal/models"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		contentType string
		expected    ContentClass
	}{
		{"video", ClassVideo},
		{"article", ClassNonVideo},
		{"webpage", ClassNonVideo},
		{"", ClassNonVideo},
		{"VIDEO", ClassNonVideo}, // content_type matching is exact
		{"podcast", ClassNonVideo},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			if got := Classify(tt.contentType); got != tt.expected {
				t.Errorf("Classify(%q) = %v, want %v", tt.contentType, got, tt.expected)
			}
		})
	}
}

func TestContentClassString(t *testing.T) {
	t.Parallel()

	if got := ClassVideo.String(); got != "video" {
		t.Errorf("ClassVideo.String() = %q, want %q", got, "video")
	}
	if got := ClassNonVideo.String(); got != "non_video" {
		t.Errorf("ClassNonVideo.String() = %q, want %q", got, "non_video")
	}
}

func TestVectorVideoOrder(t *testing.T) {
	t.Parallel()

	eng := models.EngagementPayload{
		VideoWatchedPercentage: 95.0,
		PauseCount:             2,
		SeekCount:              1,
		// Non-video fields must not leak into the video vector.
		ReadingTime:    300,
		IdleTime:       10,
		TotalScrolls:   40,
		MaxScrollDepth: 0.9,
	}

	got := Vector(ClassVideo, eng)
	want := []float64{95.0, 2, 1}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Vector(ClassVideo) = %v, want %v", got, want)
	}
	if len(got) != VideoFeatureCount {
		t.Errorf("video vector length = %d, want %d", len(got), VideoFeatureCount)
	}
}

func TestVectorNonVideoOrder(t *testing.T) {
	t.Parallel()

	eng := models.EngagementPayload{
		ReadingTime:    300,
		IdleTime:       10,
		TotalScrolls:   40,
		MaxScrollDepth: 0.9,
		// Video fields must not leak into the non-video vector.
		VideoWatchedPercentage: 95.0,
		PauseCount:             2,
		SeekCount:              1,
	}

	got := Vector(ClassNonVideo, eng)
	want := []float64{300, 10, 40, 0.9}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Vector(ClassNonVideo) = %v, want %v", got, want)
	}
	if len(got) != NonVideoFeatureCount {
		t.Errorf("non-video vector length = %d, want %d", len(got), NonVideoFeatureCount)
	}
}

func TestVectorZeroDefaults(t *testing.T) {
	t.Parallel()

	// A payload with every optional field absent scores with zeros.
	var eng models.EngagementPayload

	if got := Vector(ClassVideo, eng); !reflect.DeepEqual(got, []float64{0, 0, 0}) {
		t.Errorf("empty video vector = %v, want zeros", got)
	}
	if got := Vector(ClassNonVideo, eng); !reflect.DeepEqual(got, []float64{0, 0, 0, 0}) {
		t.Errorf("empty non-video vector = %v, want zeros", got)
	}
}

func TestVectorDeterministic(t *testing.T) {
	t.Parallel()

	eng := models.EngagementPayload{
		ReadingTime:            123,
		IdleTime:               45,
		TotalScrolls:           6,
		MaxScrollDepth:         0.78,
		VideoWatchedPercentage: 33.3,
		PauseCount:             9,
		SeekCount:              4,
	}

	for _, class := range []ContentClass{ClassVideo, ClassNonVideo} {
		first := Vector(class, eng)
		second := Vector(class, eng)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Vector(%v) not deterministic: %v vs %v", class, first, second)
		}
	}
}
