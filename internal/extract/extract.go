// Package extract derives venue, participants and an event category from
// free-text market titles and provider tags. Everything here is cheap string
// work over fields already present on the bulk listing.
package extract

import (
	"regexp"
	"strings"
)

// Metadata is what could be derived from a market's text and tags. Empty
// strings mean "unknown", never a guess.
type Metadata struct {
	Category     string
	Venue        string
	Participants []string
}

type categoryRule struct {
	category   string
	tagMatch   []string
	titleRegex []*regexp.Regexp
}

func rx(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}

// Ordered: first matching rule wins, specific leagues before the generic
// sports catch-all.
var categoryRules = []categoryRule{
	{category: "NFL", tagMatch: []string{"nfl", "american football"}, titleRegex: rx(`(?i)\b(nfl|super\s*bowl|touchdown)\b`)},
	{category: "NBA", tagMatch: []string{"nba", "basketball"}, titleRegex: rx(`(?i)\b(nba|basketball)\b`)},
	{category: "MLB", tagMatch: []string{"mlb", "baseball"}, titleRegex: rx(`(?i)\b(mlb|world\s+series|baseball)\b`)},
	{category: "NHL", tagMatch: []string{"nhl", "hockey"}, titleRegex: rx(`(?i)\b(nhl|stanley\s+cup|hockey)\b`)},
	{category: "Soccer", tagMatch: []string{"soccer", "epl", "premier league", "champions league", "la liga"}, titleRegex: rx(`(?i)\b(soccer|premier\s+league|champions\s+league|la\s+liga|world\s+cup)\b`)},
	{category: "Tennis", tagMatch: []string{"tennis"}, titleRegex: rx(`(?i)\b(tennis|wimbledon|us\s+open|roland\s+garros)\b`)},
	{category: "Golf", tagMatch: []string{"golf", "pga"}, titleRegex: rx(`(?i)\b(golf|pga|masters\s+tournament|ryder\s+cup)\b`)},
	{category: "F1", tagMatch: []string{"f1", "formula 1", "formula one"}, titleRegex: rx(`(?i)\b(f1|formula\s*(1|one)|grand\s+prix)\b`)},
	{category: "NASCAR", tagMatch: []string{"nascar"}, titleRegex: rx(`(?i)\bnascar\b`)},
	{category: "Cricket", tagMatch: []string{"cricket"}, titleRegex: rx(`(?i)\bcricket\b`)},
	{category: "Weather", tagMatch: []string{"weather", "climate"}, titleRegex: rx(`(?i)\b(temperature|rainfall|snowfall|heat\s+wave|hurricane)\b`)},
	{category: "Crypto", tagMatch: []string{"crypto", "bitcoin", "ethereum"}, titleRegex: rx(`(?i)\b(bitcoin|btc|ethereum|eth|solana|crypto)\b`)},
	{category: "Politics", tagMatch: []string{"politics", "elections", "geopolitics"}, titleRegex: rx(`(?i)\b(election|president|senate|congress|parliament)\b`)},
	// Generic sports catch-all: enough to flag an outdoor-event candidate
	// when no league tag is present ("the Chicago game on Sunday").
	{category: "Sports", tagMatch: []string{"sports"}, titleRegex: rx(`(?i)\b(game|match|kickoff|fixture|matchup)\b`)},
}

var (
	// "X vs Y", "X @ Y" participant pairs. The tail strips schedule noise.
	reVersus = regexp.MustCompile(`(?i)^(?:will\s+)?(.+?)\s+(?:vs\.?|versus|@)\s+(.+?)(?:\s+(?:on|in|at|this|next)\s+.*)?[?.!]?$`)

	// Venue/location phrases: capitalized runs after "at"/"in".
	reVenueAt = regexp.MustCompile(`\b(?:at|At)\s+(?:the\s+)?([A-Z][A-Za-z'.]+(?:\s+[A-Z][A-Za-z'.]+){0,3})`)
	reVenueIn = regexp.MustCompile(`\b(?:in|In)\s+([A-Z][A-Za-z'.]+(?:\s+[A-Z][A-Za-z'.]+){0,2})`)
)

// FromMarket derives metadata from a title, description and provider tags.
func FromMarket(title, description string, tags []string) Metadata {
	return Metadata{
		Category:     Category(title+" "+description, tags),
		Venue:        Venue(title),
		Participants: Participants(title),
	}
}

// Category maps tags (preferred) or title text onto a known category, or ""
// when nothing matches.
func Category(text string, tags []string) string {
	lowered := make([]string, 0, len(tags))
	for _, t := range tags {
		lowered = append(lowered, strings.ToLower(strings.TrimSpace(t)))
	}
	for _, rule := range categoryRules {
		for _, want := range rule.tagMatch {
			for _, have := range lowered {
				if have == want {
					return rule.category
				}
			}
		}
	}
	for _, rule := range categoryRules {
		for _, re := range rule.titleRegex {
			if re.MatchString(text) {
				return rule.category
			}
		}
	}
	return ""
}

// Venue pulls a location string out of the title, or "" when none is found.
func Venue(title string) string {
	if m := reVenueAt.FindStringSubmatch(title); len(m) >= 2 {
		return cleanVenue(m[1])
	}
	if m := reVenueIn.FindStringSubmatch(title); len(m) >= 2 {
		return cleanVenue(m[1])
	}
	return ""
}

// Participants splits "X vs Y" style titles into the two sides.
func Participants(title string) []string {
	m := reVersus.FindStringSubmatch(strings.TrimSpace(title))
	if len(m) < 3 {
		return nil
	}
	a := cleanParticipant(m[1])
	b := cleanParticipant(m[2])
	if a == "" || b == "" {
		return nil
	}
	return []string{a, b}
}

func cleanVenue(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimRight(v, "?.!,")
	return v
}

var reLeadingQualifier = regexp.MustCompile(`(?i)^((will|can|do|does)\s+)?(the\s+)?`)

func cleanParticipant(v string) string {
	v = strings.TrimSpace(v)
	v = reLeadingQualifier.ReplaceAllString(v, "")
	v = strings.TrimRight(v, "?.!,")
	return strings.TrimSpace(v)
}
