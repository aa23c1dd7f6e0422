package models

// WeatherContext is the caller-supplied conditions at the event venue.
// A nil *WeatherContext means no real weather data was available; scoring
// then skips the contextual factor entirely.
type WeatherContext struct {
	TempF           float64 `json:"temp_f"`
	Condition       string  `json:"condition"`
	PrecipChancePct float64 `json:"precip_chance_pct"`
	WindMPH         float64 `json:"wind_mph"`
	HumidityPct     float64 `json:"humidity_pct"`
}
