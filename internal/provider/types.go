package provider

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FlexID tolerates the provider's habit of emitting identifiers as either
// JSON strings or numbers.
type FlexID string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

// String returns the identifier as a string
func (f FlexID) String() string { return string(f) }

// TeamSummary represents a team entry from the provider's team catalog
type TeamSummary struct {
	ID               FlexID `json:"id"`
	Name             string `json:"name"`
	Nickname         string `json:"nickname"`
	ShortDisplayName string `json:"shortDisplayName"`
	DisplayName      string `json:"displayName"`
	Location         string `json:"location"`
}

// NameVariants returns every label the resolver scores a query against
func (t *TeamSummary) NameVariants() []string {
	return []string{
		t.Name,
		t.Nickname,
		t.ShortDisplayName,
		t.DisplayName,
		t.Location + " " + t.Name,
	}
}

// PositionRef is a player's position reference
type PositionRef struct {
	Abbreviation string `json:"abbreviation"`
}

// TeamRef is a lightweight team reference carried on roster entries
type TeamRef struct {
	ID FlexID `json:"id"`
}

// PlayerSummary represents a roster entry from the provider
type PlayerSummary struct {
	ID          FlexID       `json:"id"`
	FullName    string       `json:"fullName"`
	DisplayName string       `json:"displayName"`
	Position    *PositionRef `json:"position"`
	Team        *TeamRef     `json:"team"`
}

// BestName returns the preferred display name for matching
func (p *PlayerSummary) BestName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.DisplayName
}

// StatEntry is one named stat observation. The value may arrive as a
// number or a string; FloatValue normalizes it.
type StatEntry struct {
	Name        string      `json:"name"`
	DisplayName string      `json:"displayName"`
	Value       interface{} `json:"value"`
}

// FloatValue returns the numeric value of the entry, reporting false for
// missing or unparseable values so callers can skip them.
func (s *StatEntry) FloatValue() (float64, bool) {
	switch v := s.Value.(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// MatchName returns the lowercase-comparable stat name, preferring the
// machine name over the display name.
func (s *StatEntry) MatchName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.DisplayName
}

// GameEntry is one game's worth of stat entries in a game log
type GameEntry struct {
	Stats      []StatEntry `json:"stats"`
	Statistics []StatEntry `json:"statistics"`
}

// Entries returns the game's stat entries regardless of which field the
// provider populated.
func (g *GameEntry) Entries() []StatEntry {
	if len(g.Stats) > 0 {
		return g.Stats
	}
	return g.Statistics
}

// GameLog is a player's per-game stat history, most recent first
type GameLog struct {
	Events []GameEntry `json:"events"`
	Items  []GameEntry `json:"items"`
}

// Games returns the log's game entries regardless of which field the
// provider populated.
func (g *GameLog) Games() []GameEntry {
	if len(g.Events) > 0 {
		return g.Events
	}
	return g.Items
}

// StatBlock is one nested block of team statistics
type StatBlock struct {
	Stats  []StatEntry `json:"stats"`
	Splits []StatEntry `json:"splits"`
}

// Entries returns all entries in the block
func (b *StatBlock) Entries() []StatEntry {
	entries := make([]StatEntry, 0, len(b.Stats)+len(b.Splits))
	entries = append(entries, b.Stats...)
	entries = append(entries, b.Splits...)
	return entries
}

// teamStatsInner is the nested team container in a statistics response
type teamStatsInner struct {
	Statistics []StatBlock `json:"statistics"`
}

// TeamStats is a team's aggregate statistics response
type TeamStats struct {
	Team       *teamStatsInner `json:"team"`
	Statistics []StatBlock     `json:"statistics"`
}

// Blocks returns the stat blocks regardless of nesting
func (t *TeamStats) Blocks() []StatBlock {
	if t.Team != nil && len(t.Team.Statistics) > 0 {
		return t.Team.Statistics
	}
	return t.Statistics
}

// teamsResponse is the provider's team catalog envelope
type teamsResponse struct {
	Sports []struct {
		Leagues []struct {
			Teams []teamItem `json:"teams"`
		} `json:"leagues"`
	} `json:"sports"`
}

// teamItem wraps a team which may or may not be nested under "team"
type teamItem struct {
	Team *TeamSummary `json:"team"`
	TeamSummary
}

// unwrap returns the nested team when present, otherwise the item itself
func (t *teamItem) unwrap() *TeamSummary {
	if t.Team != nil && t.Team.ID != "" {
		return t.Team
	}
	if t.TeamSummary.ID != "" {
		return &t.TeamSummary
	}
	return nil
}

// rosterResponse is the provider's roster envelope: athletes grouped by
// position, each group holding the actual items.
type rosterResponse struct {
	Athletes []struct {
		Items []PlayerSummary `json:"items"`
	} `json:"athletes"`
}
