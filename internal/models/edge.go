package models

// EdgeFactor is one weather-relevance contribution with its explanation.
type EdgeFactor struct {
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Detail string  `json:"detail"`
}

// EdgeAssessment scores how likely weather is to create a mispricing in a
// market. Derived per market per ranking pass; total is bounded to [0,10].
type EdgeAssessment struct {
	WeatherDirect    float64 `json:"weather_direct"`
	SensitiveEvent   float64 `json:"sensitive_event"`
	ContextualImpact float64 `json:"contextual_impact"`
	Asymmetry        float64 `json:"asymmetry"`

	TotalScore float64        `json:"total_score"`
	Confidence ConfidenceTier `json:"confidence"`

	Factors []EdgeFactor `json:"factors,omitempty"`

	// Snapshot of the conditions the assessment was made against.
	Weather        WeatherContext `json:"weather"`
	HasWeatherData bool           `json:"has_weather_data"`
}

// IsWeatherSensitive reports whether the market has any weather relevance.
func (a EdgeAssessment) IsWeatherSensitive() bool {
	return a.TotalScore > 0
}
