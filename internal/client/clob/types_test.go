package clob

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseOrderBookLevelShapes(t *testing.T) {
	// Pair-array and object levels appear interchangeably upstream.
	body := []byte(`{
		"bids": [["0.48", "300"], {"price": "0.47", "size": 100}],
		"asks": [[0.52, 400]]
	}`)
	book, err := parseOrderBook(body)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(book.Bids) != 2 || len(book.Asks) != 1 {
		t.Fatalf("levels = %d/%d", len(book.Bids), len(book.Asks))
	}
	if !book.Bids[1].Price.Equal(decimal.NewFromFloat(0.47)) {
		t.Fatalf("object level price = %s", book.Bids[1].Price)
	}
	if !book.Asks[0].Size.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("array level size = %s", book.Asks[0].Size)
	}
}

func TestParseOrderBookRejectsGarbageLevel(t *testing.T) {
	if _, err := parseOrderBook([]byte(`{"asks": ["oops"]}`)); err == nil {
		t.Fatalf("expected error")
	}
}
