package models

// Review is one customer review. Reviews live in a map from product ID to an
// append-only sequence, ordered by submission.
type Review struct {
	// Name is the reviewer's display name (non-empty after trimming).
	Name string `json:"name"`

	// Text is the review body (non-empty after trimming).
	Text string `json:"text"`

	// At is the submission time in Unix milliseconds.
	At int64 `json:"at"`
}
