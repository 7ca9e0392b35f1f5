package roster_test

import (
	"context"
	"testing"

	"github.com/okian/skudd/internal/domain/model"
	roster "github.com/okian/skudd/internal/domain/roster"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty roster store", t, func() {
		store := roster.New()

		Convey("When adding players and opponents", func() {
			p1 := store.AddPlayer(ctx, "Nora Berg", 7, false)
			p2 := store.AddPlayer(ctx, "Ida Moen", 1, true)
			o1 := store.AddOpponent(ctx, "Eva Lund", 4)

			Convey("Then ids are assigned sequentially per roster", func() {
				So(p1.ID, ShouldEqual, 1)
				So(p2.ID, ShouldEqual, 2)
				So(o1.ID, ShouldEqual, 1)
			})

			Convey("Then lookups find them", func() {
				p, ok := store.Player(ctx, p2.ID)
				So(ok, ShouldBeTrue)
				So(p.Name, ShouldEqual, "Ida Moen")
				So(p.IsKeeper, ShouldBeTrue)

				o, ok := store.Opponent(ctx, o1.ID)
				So(ok, ShouldBeTrue)
				So(o.Number, ShouldEqual, 4)

				_, ok = store.Player(ctx, 99)
				So(ok, ShouldBeFalse)
			})

			Convey("Then iteration preserves insertion order", func() {
				players := store.Players(ctx)
				So(players, ShouldHaveLength, 2)
				So(players[0].ID, ShouldEqual, 1)
				So(players[1].ID, ShouldEqual, 2)
			})

			Convey("Then Keepers returns only flagged players", func() {
				keepers := store.Keepers(ctx)
				So(keepers, ShouldHaveLength, 1)
				So(keepers[0].ID, ShouldEqual, p2.ID)
			})
		})

		Convey("When replacing the rosters from a snapshot", func() {
			store.AddPlayer(ctx, "stale", 99, false)
			store.Replace(ctx,
				[]model.Player{{ID: 5, Name: "Nora Berg", Number: 7}},
				[]model.Opponent{{ID: 3, Name: "Eva Lund", Number: 4}},
			)

			Convey("Then the old entries are gone", func() {
				So(store.Players(ctx), ShouldHaveLength, 1)
				So(store.Opponents(ctx), ShouldHaveLength, 1)
			})

			Convey("Then id assignment continues past the imported ids", func() {
				p := store.AddPlayer(ctx, "Mia Holm", 12, false)
				So(p.ID, ShouldEqual, 6)
				o := store.AddOpponent(ctx, "Tuva Dahl", 9)
				So(o.ID, ShouldEqual, 4)
			})
		})
	})
}
