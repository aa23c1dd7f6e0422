package gamma

import (
	"encoding/json"
	"testing"
)

func TestMarketUnmarshalTolerantFields(t *testing.T) {
	raw := `{
		"id": "m1",
		"question": "Will it rain?",
		"endDate": "2026-06-01T00:00:00Z",
		"volume24hr": "1234.5",
		"liquidityNum": 987,
		"bestBid": "0.45",
		"bestAsk": null,
		"outcomePrices": "[\"0.45\", \"0.55\"]",
		"clobTokenIds": ["t1", "t2"],
		"events": [{"id": "e1", "title": "E", "tags": ["NFL", {"label": "Weather"}]}]
	}`
	var m Market
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if float64(m.Volume24hr) != 1234.5 {
		t.Fatalf("volume = %v", m.Volume24hr)
	}
	if m.BestBid.Ptr() == nil || *m.BestBid.Ptr() != 0.45 {
		t.Fatalf("bestBid = %+v", m.BestBid)
	}
	if m.BestAsk.Ptr() != nil {
		t.Fatalf("null bestAsk must map to absent")
	}
	if prices := m.OutcomePrices.Floats(); len(prices) != 2 || prices[1] != 0.55 {
		t.Fatalf("outcomePrices = %v", prices)
	}
	if m.EndDate.Ptr() == nil {
		t.Fatalf("endDate missing")
	}
	tags := m.TagStrings()
	if len(tags) != 2 || tags[0] != "NFL" || tags[1] != "Weather" {
		t.Fatalf("tags = %v", tags)
	}
}

func TestFlexTimeDateOnly(t *testing.T) {
	var ts FlexTime
	if err := json.Unmarshal([]byte(`"2026-06-01"`), &ts); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !ts.Set {
		t.Fatalf("date-only timestamp should parse")
	}
}
