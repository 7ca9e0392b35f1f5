package audit_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	audit "github.com/okian/skudd/internal/adapters/audit"
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

type captureSink struct {
	mu        sync.Mutex
	delivered []audit.Record
	fail      map[string]error
}

func (s *captureSink) Deliver(ctx context.Context, r audit.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.fail[r.ID]; ok {
		return err
	}
	s.delivered = append(s.delivered, r)
	return nil
}

func (s *captureSink) records() []audit.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]audit.Record, len(s.delivered))
	copy(out, s.delivered)
	return out
}

func sampleEvent(id int64) model.Event {
	return model.Event{
		ID: id, Half: model.HalfFirst, Mode: model.ModeAttack,
		Player: &model.ActorRef{ID: 1, Name: "Nora Berg", Number: 7},
		Zone:   model.ZoneGoal, Position: &model.Position{X: 50, Y: 50},
		Result: model.ResultGoal, Timestamp: "18:30:00",
	}
}

func waitFor(check func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if check() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return check()
}

func TestPipelineDelivery(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started pipeline over a capture sink", t, func() {
		sink := &captureSink{}
		p := audit.NewPipeline(sink, audit.WithQueueSize(8))
		p.Start(ctx)
		defer p.Stop()

		Convey("When enqueueing records", func() {
			r1 := audit.NewRecord(sampleEvent(1), audit.Totals{HomeGoals: 1, EventCount: 1})
			r2 := audit.NewRecord(sampleEvent(2), audit.Totals{HomeGoals: 1, AwayGoals: 1, EventCount: 2})
			So(p.Enqueue(ctx, r1), ShouldBeTrue)
			So(p.Enqueue(ctx, r2), ShouldBeTrue)

			Convey("Then the sink receives them", func() {
				So(waitFor(func() bool { return len(sink.records()) == 2 }), ShouldBeTrue)
				got := sink.records()
				So(got[0].Event.ID, ShouldEqual, 1)
				So(got[1].Totals.AwayGoals, ShouldEqual, 1)
			})
		})
	})
}

func TestPipelineAbsorbsSinkFailures(t *testing.T) {
	ctx := context.Background()

	Convey("Given a sink failing on one record", t, func() {
		bad := audit.NewRecord(sampleEvent(1), audit.Totals{})
		good := audit.NewRecord(sampleEvent(2), audit.Totals{})
		sink := &captureSink{fail: map[string]error{bad.ID: errors.New("store unavailable")}}
		p := audit.NewPipeline(sink)
		p.Start(ctx)
		defer p.Stop()

		Convey("When both records are enqueued", func() {
			So(p.Enqueue(ctx, bad), ShouldBeTrue)
			So(p.Enqueue(ctx, good), ShouldBeTrue)

			Convey("Then the failure does not stall later deliveries", func() {
				So(waitFor(func() bool { return len(sink.records()) == 1 }), ShouldBeTrue)
				So(sink.records()[0].ID, ShouldEqual, good.ID)
			})
		})
	})
}

func TestPipelineLifecycle(t *testing.T) {
	ctx := context.Background()

	Convey("Given a pipeline that was never started", t, func() {
		p := audit.NewPipeline(&captureSink{})

		Convey("Then enqueueing drops the record", func() {
			So(p.Enqueue(ctx, audit.NewRecord(sampleEvent(1), audit.Totals{})), ShouldBeFalse)
		})

		Convey("Then stopping is a no-op", func() {
			p.Stop()
		})
	})

	Convey("Given a stopped pipeline", t, func() {
		sink := &captureSink{}
		p := audit.NewPipeline(sink)
		p.Start(ctx)
		So(p.Enqueue(ctx, audit.NewRecord(sampleEvent(1), audit.Totals{})), ShouldBeTrue)
		p.Stop()

		Convey("Then Stop drained the queue", func() {
			So(sink.records(), ShouldHaveLength, 1)
		})

		Convey("Then new records are dropped", func() {
			So(p.Enqueue(ctx, audit.NewRecord(sampleEvent(2), audit.Totals{})), ShouldBeFalse)
		})
	})
}

func TestNewRecord(t *testing.T) {
	Convey("Given a recorded event", t, func() {
		r := audit.NewRecord(sampleEvent(7), audit.Totals{HomeGoals: 2, EventCount: 7})

		Convey("Then the record carries id, timestamp and totals", func() {
			So(r.ID, ShouldNotBeEmpty)
			So(r.Event.ID, ShouldEqual, 7)
			So(r.Totals.HomeGoals, ShouldEqual, 2)
			_, err := time.Parse(time.RFC3339, r.At)
			So(err, ShouldBeNil)
		})
	})
}
