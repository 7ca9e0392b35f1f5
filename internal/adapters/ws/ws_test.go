package ws_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	ws "github.com/okian/skudd/internal/adapters/ws"
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

func dial(serverURL string) (*websocket.Conn, error) {
	wsURL := "ws" + strings.TrimPrefix(serverURL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if resp != nil {
		defer resp.Body.Close()
	}
	return conn, err
}

func TestHubBroadcast(t *testing.T) {
	Convey("Given a running hub with one connected client", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		hub := ws.NewHub(logger.Get())
		go hub.Run(ctx)

		handler := ws.NewHandler(hub, logger.Get())
		server := httptest.NewServer(http.HandlerFunc(handler.HandleWS))
		defer server.Close()

		conn, err := dial(server.URL)
		So(err, ShouldBeNil)
		defer conn.Close()

		Convey("When an update is broadcast", func() {
			update := ws.Update{
				Type: "event_recorded",
				Event: model.Event{
					ID: 1, Half: model.HalfFirst, Mode: model.ModeAttack,
					Player: &model.ActorRef{ID: 1, Name: "Nora Berg", Number: 7},
					Zone:   model.ZoneGoal, Position: &model.Position{X: 50, Y: 50},
					Result: model.ResultGoal, Timestamp: "18:30:00",
				},
				HomeGoals: 1,
				Timestamp: time.Now().UTC(),
			}
			// The register handoff races the broadcast; give the hub loop a
			// moment to own the client before sending.
			time.Sleep(50 * time.Millisecond)
			hub.Broadcast(update)

			Convey("Then the client receives the JSON payload", func() {
				So(conn.SetReadDeadline(time.Now().Add(2*time.Second)), ShouldBeNil)
				_, payload, err := conn.ReadMessage()
				So(err, ShouldBeNil)

				var got ws.Update
				So(json.Unmarshal(payload, &got), ShouldBeNil)
				So(got.Type, ShouldEqual, "event_recorded")
				So(got.HomeGoals, ShouldEqual, 1)
				So(got.Event.Result, ShouldEqual, model.ResultGoal)
			})
		})
	})
}
