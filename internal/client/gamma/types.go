package gamma

import (
	"encoding/json"
	"fmt"
	"time"
)

// FlexFloat accepts a JSON number or a numeric string.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = 0
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err == nil {
		*f = FlexFloat(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if s == "" {
			*f = 0
			return nil
		}
		var parsed float64
		if _, err := fmt.Sscanf(s, "%g", &parsed); err != nil {
			return fmt.Errorf("invalid number: %q", s)
		}
		*f = FlexFloat(parsed)
		return nil
	}
	return fmt.Errorf("invalid number: %s", string(b))
}

// FlexFloatPtr is FlexFloat that preserves absence: nil on null/missing.
type FlexFloatPtr struct {
	Value float64
	Set   bool
}

func (f *FlexFloatPtr) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		f.Set = false
		return nil
	}
	var v FlexFloat
	if err := v.UnmarshalJSON(b); err != nil {
		return err
	}
	f.Value = float64(v)
	f.Set = true
	return nil
}

func (f FlexFloatPtr) Ptr() *float64 {
	if !f.Set {
		return nil
	}
	v := f.Value
	return &v
}

// FlexTime accepts RFC3339 timestamps, empty strings and nulls.
type FlexTime struct {
	Value time.Time
	Set   bool
}

func (t *FlexTime) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		t.Set = false
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("invalid timestamp: %s", string(b))
	}
	if s == "" {
		t.Set = false
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05Z0700", "2006-01-02"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Value = parsed.UTC()
			t.Set = true
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp: %q", s)
}

func (t FlexTime) Ptr() *time.Time {
	if !t.Set {
		return nil
	}
	v := t.Value
	return &v
}

// FlexStringList accepts a JSON array of strings or a string holding an
// encoded array (the listing encodes outcomePrices and clobTokenIds that
// way).
type FlexStringList []string

func (l *FlexStringList) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*l = nil
		return nil
	}
	var arr []string
	if err := json.Unmarshal(b, &arr); err == nil {
		*l = arr
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if s == "" {
			*l = nil
			return nil
		}
		var inner []string
		if err := json.Unmarshal([]byte(s), &inner); err != nil {
			return fmt.Errorf("invalid string list: %q", s)
		}
		*l = inner
		return nil
	}
	return fmt.Errorf("invalid string list: %s", string(b))
}

// Floats parses every element as a float, skipping blanks.
func (l FlexStringList) Floats() []float64 {
	out := make([]float64, 0, len(l))
	for _, s := range l {
		if s == "" {
			continue
		}
		var v float64
		if _, err := fmt.Sscanf(s, "%g", &v); err == nil {
			out = append(out, v)
		}
	}
	return out
}

// Tag is a provider label. Labels arrive either as bare strings or objects.
type Tag struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Slug  string `json:"slug"`
}

func (t *Tag) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		t.Label = s
		return nil
	}
	type alias Tag
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*t = Tag(a)
	return nil
}

// Event is the minimal parent-event view attached to a listing row.
type Event struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Tags  []Tag  `json:"tags"`
}

// Market is one row of the bulk listing with every field the engine needs
// available without a follow-up call.
type Market struct {
	ID             string         `json:"id"`
	Question       string         `json:"question"`
	Description    string         `json:"description"`
	Slug           string         `json:"slug"`
	EndDate        FlexTime       `json:"endDate"`
	Category       string         `json:"category"`
	Volume24hr     FlexFloat      `json:"volume24hr"`
	Volume1wk      FlexFloat      `json:"volume1wk"`
	Liquidity      FlexFloat      `json:"liquidityNum"`
	BestBid        FlexFloatPtr   `json:"bestBid"`
	BestAsk        FlexFloatPtr   `json:"bestAsk"`
	LastTradePrice FlexFloatPtr   `json:"lastTradePrice"`
	OutcomePrices  FlexStringList `json:"outcomePrices"`
	ClobTokenIDs   FlexStringList `json:"clobTokenIds"`
	Spread         FlexFloat      `json:"spread"`
	OneDayChange   FlexFloat      `json:"oneDayPriceChange"`
	OneHourChange  FlexFloat      `json:"oneHourPriceChange"`
	Events         []Event        `json:"events"`
}

// TagStrings flattens market-level and event-level tags to plain labels.
func (m Market) TagStrings() []string {
	out := []string{}
	if m.Category != "" {
		out = append(out, m.Category)
	}
	for _, ev := range m.Events {
		for _, t := range ev.Tags {
			if t.Label != "" {
				out = append(out, t.Label)
			} else if t.Slug != "" {
				out = append(out, t.Slug)
			}
		}
	}
	return out
}
