// Package stats is the aggregation engine: pure, total functions deriving
// per-entity statistics from the event log. Aggregations never fail;
// missing data yields zero-valued results.
package stats

import (
	"math"
	"sort"

	"github.com/okian/skudd/internal/domain/model"
)

// PlayerStats summarizes a home player's attack shots plus technical
// errors, optionally filtered to one half.
type PlayerStats struct {
	Goals              int     `json:"goals"`
	Saves              int     `json:"saves"`
	Misses             int     `json:"misses"`
	TechnicalErrors    int     `json:"technicalErrors"`
	TotalShots         int     `json:"totalShots"`
	ShootingPercentage float64 `json:"shootingPercentage"`
}

// OpponentStats summarizes an opposing shooter's defense-mode shots. The
// matching events are returned for detail views; opposing outside misses
// stay visible there rather than as a separate miss count.
type OpponentStats struct {
	Goals  int           `json:"goals"`
	Saves  int           `json:"saves"`
	Events []model.Event `json:"events"`
}

// KeeperStats summarizes all defense-mode shots faced while a keeper was
// active. Outside misses count as shots faced but not as saves.
type KeeperStats struct {
	ShotsFaced     int     `json:"shotsFaced"`
	Saves          int     `json:"saves"`
	SavePercentage float64 `json:"savePercentage"`
}

// ForPlayer aggregates attack-mode shots and technical errors for one home
// player. half is HalfFirst, HalfSecond or HalfBoth.
func ForPlayer(events []model.Event, playerID, half int) PlayerStats {
	var s PlayerStats
	for _, e := range events {
		if e.Player == nil || e.Player.ID != playerID || !inHalf(e, half) {
			continue
		}
		switch e.Mode {
		case model.ModeTechnical:
			s.TechnicalErrors++
		case model.ModeAttack:
			switch e.Result {
			case model.ResultGoal:
				s.Goals++
			case model.ResultSave:
				s.Saves++
			case model.ResultMiss:
				s.Misses++
			}
		}
	}
	s.TotalShots = s.Goals + s.Saves + s.Misses
	s.ShootingPercentage = percentage(s.Goals, s.TotalShots)
	return s
}

// ForOpponent aggregates defense-mode shots taken by one opposing player.
func ForOpponent(events []model.Event, opponentID, half int) OpponentStats {
	s := OpponentStats{Events: []model.Event{}}
	for _, e := range events {
		if e.Mode != model.ModeDefense || e.Opponent == nil || e.Opponent.ID != opponentID || !inHalf(e, half) {
			continue
		}
		switch e.Result {
		case model.ResultGoal:
			s.Goals++
		case model.ResultSave:
			s.Saves++
		}
		s.Events = append(s.Events, e)
	}
	return s
}

// ForKeeper aggregates all defense-mode shots recorded while keeperID was
// the active keeper, across both halves.
func ForKeeper(events []model.Event, keeperID int) KeeperStats {
	var s KeeperStats
	for _, e := range events {
		if e.Mode != model.ModeDefense || e.Keeper == nil || e.Keeper.ID != keeperID {
			continue
		}
		s.ShotsFaced++
		if e.Result == model.ResultSave {
			s.Saves++
		}
	}
	s.SavePercentage = percentage(s.Saves, s.ShotsFaced)
	return s
}

// Role selects which event reference a shot map is keyed on.
type Role string

const (
	RolePlayer   Role = "player"
	RoleOpponent Role = "opponent"
	RoleKeeper   Role = "keeper"
)

// ShotMap returns, in insertion order, the goal-zone events attributed to
// the given actor in the given role. Unknown actors yield an empty slice.
func ShotMap(events []model.Event, id int, role Role) []model.Event {
	out := []model.Event{}
	for _, e := range events {
		if e.Zone != model.ZoneGoal {
			continue
		}
		var ref *model.ActorRef
		switch role {
		case RolePlayer:
			ref = e.Player
		case RoleOpponent:
			ref = e.Opponent
		case RoleKeeper:
			ref = e.Keeper
		}
		if ref != nil && ref.ID == id {
			out = append(out, e)
		}
	}
	return out
}

// LeaderboardEntry is one row of the opponent ranking.
type LeaderboardEntry struct {
	Rank     int            `json:"rank"`
	Opponent model.Opponent `json:"opponent"`
	Goals    int            `json:"goals"`
	Saves    int            `json:"saves"`
}

// RankOpponents orders opponents by descending goals. Ties keep the
// original roster order (stable sort). limit <= 0 returns all rows.
func RankOpponents(events []model.Event, opponents []model.Opponent, limit int) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(opponents))
	for _, o := range opponents {
		s := ForOpponent(events, o.ID, model.HalfBoth)
		entries = append(entries, LeaderboardEntry{Opponent: o, Goals: s.Goals, Saves: s.Saves})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Goals > entries[j].Goals
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries
}

func inHalf(e model.Event, half int) bool {
	return half == model.HalfBoth || e.Half == half
}

// percentage computes n/d*100 rounded half-away-from-zero to one decimal,
// and 0 when d is 0.
func percentage(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return math.Round(float64(n)/float64(d)*1000) / 10
}
