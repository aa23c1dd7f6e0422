package models

type ConfidenceTier string

const (
	ConfidenceLow    ConfidenceTier = "LOW"
	ConfidenceMedium ConfidenceTier = "MEDIUM"
	ConfidenceHigh   ConfidenceTier = "HIGH"
)

// ClassificationSignal is one independent contribution to the futures call.
type ClassificationSignal struct {
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Detail string  `json:"detail"`
}

// Classification is the futures-vs-single-event verdict for a market.
// Recomputed per request: days-to-resolution shifts continuously, so the
// result is never persisted.
type Classification struct {
	IsFutures  bool                   `json:"is_futures"`
	Confidence ConfidenceTier         `json:"confidence"`
	Signals    []ClassificationSignal `json:"signals"`
	TotalScore float64                `json:"total_score"`

	// Conflicting marks a definite resolution-date signal paired with an
	// explicit single-event tag. The futures call stands; confidence is
	// capped and the caller logs the conflict.
	Conflicting bool `json:"conflicting,omitempty"`
}
