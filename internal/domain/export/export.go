// Package export serializes a recording session into the portable snapshot
// document used by existing stored exports, and parses such documents back
// for restore. The field names and enum tags are part of the format and
// must never change.
package export

import (
	"encoding/json"
	"time"

	"github.com/okian/skudd/internal/domain/model"
)

// Document is the round-trippable export snapshot: full rosters, the full
// event log in insertion order, team names and an export timestamp.
type Document struct {
	Players   []model.Player   `json:"players"`
	Opponents []model.Opponent `json:"opponents"`
	Events    []model.Event    `json:"events"`
	HomeTeam  string           `json:"homeTeam"`
	AwayTeam  string           `json:"awayTeam"`
	Timestamp string           `json:"timestamp"`
}

// Snapshot builds a Document from the current session state. The timestamp
// is ISO-8601 in UTC.
func Snapshot(players []model.Player, opponents []model.Opponent, events []model.Event, homeTeam, awayTeam string, now time.Time) Document {
	if players == nil {
		players = []model.Player{}
	}
	if opponents == nil {
		opponents = []model.Opponent{}
	}
	if events == nil {
		events = []model.Event{}
	}
	return Document{
		Players:   players,
		Opponents: opponents,
		Events:    events,
		HomeTeam:  homeTeam,
		AwayTeam:  awayTeam,
		Timestamp: now.UTC().Format(time.RFC3339),
	}
}

// Marshal encodes the document as JSON.
func (d Document) Marshal() ([]byte, error) {
	return json.Marshal(d)
}

// Parse decodes and validates an exported document. Every event is checked
// against the construction-time invariants so a tampered or truncated file
// cannot restore a malformed log.
func Parse(data []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Document{}, err
	}
	for _, e := range d.Events {
		if err := e.Validate(); err != nil {
			return Document{}, err
		}
	}
	return d, nil
}
