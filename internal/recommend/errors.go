// LikeMinds - Find Your Circle on Bluesky
// Copyright 2026 LikeMinds contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/compmotifs/likeminds

package recommend

import "fmt"

// MalformedRecordError describes a raw like record that could not be
// converted into a LikeRecord. Malformed records are dropped and counted;
// they never abort the batch.
type MalformedRecordError struct {
	// Index is the position of the record in the input batch.
	Index int

	// Reason describes what was missing or invalid.
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed like record at index %d: %s", e.Index, e.Reason)
}

// InvalidTopNError indicates a top-N value that is zero or negative after
// defaulting. It is request-fatal: the single request aborts and the error
// surfaces to the caller as a typed failure.
type InvalidTopNError struct {
	TopN int
}

func (e *InvalidTopNError) Error() string {
	return fmt.Sprintf("top_n must be positive, got %d", e.TopN)
}
