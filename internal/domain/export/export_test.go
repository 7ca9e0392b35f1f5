package export_test

import (
	"encoding/json"
	"testing"
	"time"

	export "github.com/okian/skudd/internal/domain/export"
	"github.com/okian/skudd/internal/domain/model"
	"github.com/okian/skudd/internal/domain/stats"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleSession() ([]model.Player, []model.Opponent, []model.Event) {
	players := []model.Player{
		{ID: 1, Name: "Nora Berg", Number: 7},
		{ID: 2, Name: "Ida Moen", Number: 1, IsKeeper: true},
	}
	opponents := []model.Opponent{{ID: 1, Name: "Eva Lund", Number: 4}}
	shooter := players[0].Ref()
	keeper := players[1].Ref()
	attacker := opponents[0].Ref()
	events := []model.Event{
		{
			ID: 1, Half: model.HalfFirst, Mode: model.ModeAttack,
			Player: shooter, Zone: model.ZoneGoal,
			Position: &model.Position{X: 52.1, Y: 36.7},
			Result:   model.ResultGoal, Timestamp: "18:30:00",
		},
		{
			ID: 2, Half: model.HalfFirst, Mode: model.ModeAttack,
			Player: shooter, Zone: model.ZoneOutside,
			Result: model.ResultMiss, Timestamp: "18:31:12",
		},
		{
			ID: 3, Half: model.HalfSecond, Mode: model.ModeDefense,
			Opponent: attacker, Keeper: keeper, Zone: model.ZoneGoal,
			Position: &model.Position{X: 10, Y: 90},
			Result:   model.ResultSave, Timestamp: "19:02:45",
		},
		{
			ID: 4, Half: model.HalfSecond, Mode: model.ModeTechnical,
			Player: shooter, Result: model.ResultTechnicalError, Timestamp: "19:05:00",
		},
	}
	return players, opponents, events
}

func TestSnapshotFormat(t *testing.T) {
	now := time.Date(2025, 10, 4, 16, 30, 0, 0, time.UTC)

	Convey("Given a recording session", t, func() {
		players, opponents, events := sampleSession()

		Convey("When taking a snapshot", func() {
			doc := export.Snapshot(players, opponents, events, "Vipers", "Storhamar", now)
			data, err := doc.Marshal()
			So(err, ShouldBeNil)

			var raw map[string]json.RawMessage
			So(json.Unmarshal(data, &raw), ShouldBeNil)

			Convey("Then the top-level field names are exactly the stored format", func() {
				for _, key := range []string{"players", "opponents", "events", "homeTeam", "awayTeam", "timestamp"} {
					_, ok := raw[key]
					So(ok, ShouldBeTrue)
				}
				So(len(raw), ShouldEqual, 6)
			})

			Convey("Then the timestamp is ISO-8601 UTC", func() {
				var ts string
				So(json.Unmarshal(raw["timestamp"], &ts), ShouldBeNil)
				So(ts, ShouldEqual, "2025-10-04T16:30:00Z")
			})
		})

		Convey("When snapshotting an empty session", func() {
			doc := export.Snapshot(nil, nil, nil, "Hjemmelag", "Bortelag", now)
			data, err := doc.Marshal()
			So(err, ShouldBeNil)

			Convey("Then collections serialize as empty arrays, never null", func() {
				So(string(data), ShouldContainSubstring, `"players":[]`)
				So(string(data), ShouldContainSubstring, `"opponents":[]`)
				So(string(data), ShouldContainSubstring, `"events":[]`)
			})
		})
	})
}

func TestRoundTrip(t *testing.T) {
	now := time.Date(2025, 10, 4, 16, 30, 0, 0, time.UTC)

	Convey("Given a marshaled snapshot", t, func() {
		players, opponents, events := sampleSession()
		data, err := export.Snapshot(players, opponents, events, "Vipers", "Storhamar", now).Marshal()
		So(err, ShouldBeNil)

		Convey("When parsing it back", func() {
			doc, err := export.Parse(data)
			So(err, ShouldBeNil)

			Convey("Then rosters and team names survive", func() {
				So(doc.Players, ShouldHaveLength, 2)
				So(doc.Players[1].IsKeeper, ShouldBeTrue)
				So(doc.Opponents, ShouldHaveLength, 1)
				So(doc.HomeTeam, ShouldEqual, "Vipers")
				So(doc.AwayTeam, ShouldEqual, "Storhamar")
			})

			Convey("Then the restored log aggregates identically", func() {
				before := stats.ForPlayer(events, 1, model.HalfBoth)
				after := stats.ForPlayer(doc.Events, 1, model.HalfBoth)
				So(after, ShouldResemble, before)

				So(stats.ForKeeper(doc.Events, 2), ShouldResemble, stats.ForKeeper(events, 2))
			})
		})
	})
}

func TestParseRejectsMalformedDocuments(t *testing.T) {
	Convey("Given damaged export payloads", t, func() {
		Convey("When the JSON itself is broken", func() {
			_, err := export.Parse([]byte(`{"players": [`))
			So(err, ShouldNotBeNil)
		})

		Convey("When an event violates the construction invariants", func() {
			players, opponents, events := sampleSession()
			events[0].Position = nil
			data, err := export.Snapshot(players, opponents, events, "a", "b", time.Now()).Marshal()
			So(err, ShouldBeNil)

			_, err = export.Parse(data)
			So(err, ShouldEqual, model.ErrInvalidPosition)
		})
	})
}
