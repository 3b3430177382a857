// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Semnote Contributors

package store

import "time"

// Record is one stored note: its original text, a caller-supplied label
// (e.g. a patient reference), and the unit-length embedding derived from the
// text. All fields are immutable after creation.
type Record struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
	CreatedAt time.Time `json:"created_at"`
}
