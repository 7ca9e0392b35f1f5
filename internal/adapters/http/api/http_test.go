package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	api "github.com/okian/skudd/internal/adapters/http/api"
	"github.com/okian/skudd/internal/app"
	"github.com/okian/skudd/internal/domain/model"
	"github.com/okian/skudd/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// fixture boots a real service behind the HTTP surface; the handlers are
// thin enough that stubbing them would test nothing.
type fixture struct {
	svc    *app.Service
	server *httptest.Server
}

func newFixture(ctx context.Context) *fixture {
	svc := app.New(app.WithTeams("Vipers", "Storhamar"))
	So(svc.Start(ctx), ShouldBeNil)

	mux := http.NewServeMux()
	api.NewServer(svc, svc, 50).Register(ctx, mux)
	return &fixture{svc: svc, server: httptest.NewServer(mux)}
}

func (f *fixture) close() {
	f.server.Close()
	f.svc.Stop()
}

func (f *fixture) post(path string, body interface{}) *http.Response {
	data, err := json.Marshal(body)
	So(err, ShouldBeNil)
	resp, err := http.Post(f.server.URL+path, "application/json", bytes.NewReader(data))
	So(err, ShouldBeNil)
	return resp
}

func (f *fixture) get(path string) *http.Response {
	resp, err := http.Get(f.server.URL + path)
	So(err, ShouldBeNil)
	return resp
}

func decode(resp *http.Response, v interface{}) {
	defer resp.Body.Close()
	So(json.NewDecoder(resp.Body).Decode(v), ShouldBeNil)
}

func shotBody(actorID int, result, region string, x, y float64) map[string]interface{} {
	return map[string]interface{}{
		"actor_id": actorID,
		"result":   result,
		"region":   region,
		"click":    map[string]float64{"x": x, "y": y},
		"rect":     map[string]float64{"width": 600, "height": 400},
	}
}

func TestShotEndpoints(t *testing.T) {
	ctx := context.Background()

	Convey("Given a running instance with rosters", t, func() {
		f := newFixture(ctx)
		defer f.close()
		shooter := f.svc.AddPlayer(ctx, "Nora Berg", 7, false)
		f.svc.AddOpponent(ctx, "Eva Lund", 4)

		Convey("When posting a valid shot", func() {
			resp := f.post("/shots", shotBody(shooter.ID, "goal", "goal", 312, 150))

			Convey("Then the created event is returned", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusCreated)
				var e model.Event
				decode(resp, &e)
				So(e.ID, ShouldEqual, 1)
				So(e.Result, ShouldEqual, model.ResultGoal)
				So(e.Position.X, ShouldEqual, 52.1)
			})
		})

		Convey("When posting with no actor selected", func() {
			resp := f.post("/shots", shotBody(0, "goal", "goal", 312, 150))
			defer resp.Body.Close()

			Convey("Then it fails with 400 empty_selection", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				var body map[string]string
				decode(resp, &body)
				So(body["code"], ShouldEqual, "empty_selection")
			})
		})

		Convey("When posting an unknown actor", func() {
			resp := f.post("/shots", shotBody(42, "goal", "goal", 312, 150))
			defer resp.Body.Close()

			Convey("Then it fails with 422 invalid_actor", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusUnprocessableEntity)
			})
		})

		Convey("When posting a degenerate rectangle", func() {
			body := shotBody(shooter.ID, "goal", "goal", 1, 1)
			body["rect"] = map[string]float64{"width": 5, "height": 5}
			resp := f.post("/shots", body)
			defer resp.Body.Close()

			Convey("Then it fails with 400 invalid_geometry", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				var e map[string]string
				decode(resp, &e)
				So(e["code"], ShouldEqual, "invalid_geometry")
			})
		})

		Convey("When retrying with the same request id", func() {
			body := shotBody(shooter.ID, "goal", "goal", 312, 150)
			body["request_id"] = "req-abc"
			first := f.post("/shots", body)
			first.Body.Close()
			second := f.post("/shots", body)

			Convey("Then the retry is acknowledged without a second append", func() {
				So(first.StatusCode, ShouldEqual, http.StatusCreated)
				So(second.StatusCode, ShouldEqual, http.StatusOK)
				var dup map[string]interface{}
				decode(second, &dup)
				So(dup["duplicate"], ShouldEqual, true)
				So(f.svc.PlayerStats(ctx, shooter.ID, model.HalfBoth).Goals, ShouldEqual, 1)
			})
		})

		Convey("When a request id rides on a failing recording", func() {
			body := shotBody(42, "goal", "goal", 312, 150)
			body["request_id"] = "req-retry"
			first := f.post("/shots", body)
			first.Body.Close()

			Convey("Then the id is released for a corrected retry", func() {
				body["actor_id"] = shooter.ID
				resp := f.post("/shots", body)
				defer resp.Body.Close()
				So(resp.StatusCode, ShouldEqual, http.StatusCreated)
			})
		})

		Convey("When posting a technical error", func() {
			resp := f.post("/technical-errors", map[string]int{"player_id": shooter.ID})

			Convey("Then the created event is returned", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusCreated)
				var e model.Event
				decode(resp, &e)
				So(e.Mode, ShouldEqual, model.ModeTechnical)
			})
		})

		Convey("When GETting the shots endpoint", func() {
			resp := f.get("/shots")
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestMatchEndpoints(t *testing.T) {
	ctx := context.Background()

	Convey("Given a running instance", t, func() {
		f := newFixture(ctx)
		defer f.close()
		f.svc.AddPlayer(ctx, "Nora Berg", 7, false)
		keeper := f.svc.AddPlayer(ctx, "Ida Moen", 1, true)

		Convey("When switching to the second half", func() {
			resp := f.post("/match/half", map[string]int{"half": 2})
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(f.svc.Snapshot().Half, ShouldEqual, model.HalfSecond)
		})

		Convey("When posting an out-of-range half", func() {
			resp := f.post("/match/half", map[string]int{"half": 3})
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When switching mode with an English alias", func() {
			resp := f.post("/match/mode", map[string]string{"mode": "defense"})

			Convey("Then the stored tag comes back", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var body map[string]string
				decode(resp, &body)
				So(body["mode"], ShouldEqual, "forsvar")
			})
		})

		Convey("When designating a non-keeper", func() {
			resp := f.post("/match/keeper", map[string]int{"player_id": 1})
			defer resp.Body.Close()

			Convey("Then it fails with 422 not_a_keeper", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusUnprocessableEntity)
			})
		})

		Convey("When designating the keeper", func() {
			resp := f.post("/match/keeper", map[string]int{"player_id": keeper.ID})
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(f.svc.Snapshot().Keeper.ID, ShouldEqual, keeper.ID)
		})
	})
}

func TestReadEndpoints(t *testing.T) {
	ctx := context.Background()

	Convey("Given a recorded first half", t, func() {
		f := newFixture(ctx)
		defer f.close()
		shooter := f.svc.AddPlayer(ctx, "Nora Berg", 7, false)
		o1 := f.svc.AddOpponent(ctx, "Eva Lund", 4)
		o2 := f.svc.AddOpponent(ctx, "Tuva Dahl", 9)

		f.post("/shots", shotBody(shooter.ID, "goal", "goal", 312, 150)).Body.Close()
		f.post("/shots", shotBody(shooter.ID, "miss", "outside", 20, 40)).Body.Close()
		f.post("/match/mode", map[string]string{"mode": "defense"}).Body.Close()
		f.post("/shots", shotBody(o2.ID, "goal", "goal", 300, 200)).Body.Close()

		Convey("When fetching player stats", func() {
			resp := f.get(fmt.Sprintf("/stats/players/%d", shooter.ID))

			Convey("Then the aggregation comes back", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var body map[string]interface{}
				decode(resp, &body)
				So(body["goals"], ShouldEqual, 1)
				So(body["totalShots"], ShouldEqual, 2)
				So(body["shootingPercentage"], ShouldEqual, 50.0)
			})
		})

		Convey("When fetching player stats for one half", func() {
			resp := f.get(fmt.Sprintf("/stats/players/%d?half=2", shooter.ID))

			Convey("Then the filter applies", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var body map[string]interface{}
				decode(resp, &body)
				So(body["totalShots"], ShouldEqual, 0)
			})
		})

		Convey("When the half filter is out of range", func() {
			resp := f.get(fmt.Sprintf("/stats/players/%d?half=3", shooter.ID))
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the path id is not numeric", func() {
			resp := f.get("/stats/players/abc")
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When fetching the shot map", func() {
			resp := f.get(fmt.Sprintf("/shotmap/player/%d", shooter.ID))

			Convey("Then only goal-zone shots appear", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var events []model.Event
				decode(resp, &events)
				So(events, ShouldHaveLength, 1)
				So(events[0].Zone, ShouldEqual, model.ZoneGoal)
			})
		})

		Convey("When the shot map role is unknown", func() {
			resp := f.get("/shotmap/coach/1")
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When fetching the leaderboard", func() {
			resp := f.get("/leaderboard")

			Convey("Then the scorer ranks first", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var rows []map[string]interface{}
				decode(resp, &rows)
				So(rows, ShouldHaveLength, 2)
				So(rows[0]["goals"], ShouldEqual, 1)
				So(rows[0]["rank"], ShouldEqual, 1)
			})
		})

		Convey("When the leaderboard limit exceeds the cap", func() {
			resp := f.get("/leaderboard?limit=500")
			defer resp.Body.Close()

			Convey("Then it fails with limit_exceeded", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				var body map[string]string
				decode(resp, &body)
				So(body["code"], ShouldEqual, "limit_exceeded")
			})
		})

		Convey("When listing the rosters", func() {
			resp := f.get("/roster/opponents")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			var opponents []model.Opponent
			decode(resp, &opponents)
			So(opponents, ShouldHaveLength, 2)
			So(opponents[0].ID, ShouldEqual, o1.ID)
		})
	})
}

func TestSessionEndpoints(t *testing.T) {
	ctx := context.Background()

	Convey("Given a recorded session", t, func() {
		f := newFixture(ctx)
		defer f.close()
		shooter := f.svc.AddPlayer(ctx, "Nora Berg", 7, false)
		f.post("/shots", shotBody(shooter.ID, "goal", "goal", 312, 150)).Body.Close()

		Convey("When exporting", func() {
			resp := f.get("/export")

			Convey("Then the snapshot document is served as a download", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(resp.Header.Get("Content-Disposition"), ShouldContainSubstring, "kampdata.json")
				var doc map[string]json.RawMessage
				decode(resp, &doc)
				for _, key := range []string{"players", "opponents", "events", "homeTeam", "awayTeam", "timestamp"} {
					_, ok := doc[key]
					So(ok, ShouldBeTrue)
				}
			})
		})

		Convey("When resetting without confirmation", func() {
			resp := f.post("/reset", map[string]bool{"confirm": false})
			defer resp.Body.Close()

			Convey("Then the log survives behind 409 not_confirmed", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusConflict)
				So(f.svc.PlayerStats(ctx, shooter.ID, model.HalfBoth).Goals, ShouldEqual, 1)
			})
		})

		Convey("When resetting with confirmation", func() {
			resp := f.post("/reset", map[string]bool{"confirm": true})
			defer resp.Body.Close()

			Convey("Then the log is cleared", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(f.svc.PlayerStats(ctx, shooter.ID, model.HalfBoth).TotalShots, ShouldEqual, 0)
			})
		})
	})
}

func TestHealthAndStats(t *testing.T) {
	ctx := context.Background()

	Convey("Given a running instance", t, func() {
		f := newFixture(ctx)
		defer f.close()

		Convey("When probing /healthz", func() {
			resp := f.get("/healthz")
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})

		Convey("When fetching the monitoring stats", func() {
			resp := f.get("/stats")

			Convey("Then the session summary comes back", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var body map[string]interface{}
				decode(resp, &body)
				So(body["started"], ShouldEqual, true)
				So(body["homeTeam"], ShouldEqual, "Vipers")
			})
		})
	})
}
