// SessionScope - Browsing Session Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionscope

package scoring

import (
	"errors"
	"fmt"
)

// ErrModelUnavailable indicates a content-class bucket has no loaded model.
// This is fatal at startup and should be unreachable at request time with
// the two-slot registry; if it does surface, it is a server error and the
// request is not retried.
var ErrModelUnavailable = errors.New("no model loaded for content class")

// FeatureError indicates the pipeline could not resolve a model for the
// selected content class. It exists so a future third bucket fails loudly
// instead of silently defaulting past the two known ones.
type FeatureError struct {
	Class string
	Err   error
}

func (e *FeatureError) Error() string {
	return fmt.Sprintf("feature dispatch for class %q: %v", e.Class, e.Err)
}

func (e *FeatureError) Unwrap() error { return e.Err }

// InferenceError wraps a model invocation failure on well-formed features,
// typically a vector length mismatch from schema/model version skew.
// Propagated, not swallowed; recomputation is unsafe without re-validating
// the feature contract, so callers must not retry automatically.
type InferenceError struct {
	Class    string
	Features int
	Err      error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference for class %q with %d features: %v", e.Class, e.Features, e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }
