package demo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/okian/skudd/pkg/logger"
)

// Runner executes the scripted match and verifies the aggregations the
// service reports afterwards.
type Runner struct {
	client *Client
	logger logger.Logger
}

// NewRunner creates a runner against baseURL.
func NewRunner(baseURL string, timeout time.Duration) *Runner {
	return &Runner{
		client: NewClient(baseURL, timeout),
		logger: logger.Get().Named("demo"),
	}
}

type actor struct {
	ID int `json:"id"`
}

type shotBody struct {
	ActorID   int       `json:"actor_id"`
	Result    string    `json:"result"`
	Region    string    `json:"region"`
	Click     clickBody `json:"click"`
	Rect      rectBody  `json:"rect"`
	RequestID string    `json:"request_id"`
}

type clickBody struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type rectBody struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type playerStatsBody struct {
	Goals              int     `json:"goals"`
	Saves              int     `json:"saves"`
	Misses             int     `json:"misses"`
	TotalShots         int     `json:"totalShots"`
	ShootingPercentage float64 `json:"shootingPercentage"`
}

type keeperStatsBody struct {
	ShotsFaced     int     `json:"shotsFaced"`
	Saves          int     `json:"saves"`
	SavePercentage float64 `json:"savePercentage"`
}

// Run resets the instance, plays the scripted match and verifies the
// resulting statistics.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info(ctx, "resetting instance")
	if err := r.client.Post("/reset", map[string]bool{"confirm": true}, nil); err != nil {
		return err
	}

	r.logger.Info(ctx, "building rosters")
	var shooter, keeper, opponent actor
	if err := r.client.Post("/roster/players", map[string]interface{}{"name": "Nora Berg", "number": 7}, &shooter); err != nil {
		return err
	}
	if err := r.client.Post("/roster/players", map[string]interface{}{"name": "Ida Moen", "number": 1, "isKeeper": true}, &keeper); err != nil {
		return err
	}
	if err := r.client.Post("/roster/opponents", map[string]interface{}{"name": "Eva Lund", "number": 4}, &opponent); err != nil {
		return err
	}
	if err := r.client.Post("/match/keeper", map[string]int{"player_id": keeper.ID}, nil); err != nil {
		return err
	}

	r.logger.Info(ctx, "recording first half attack")
	rect := rectBody{Width: 600, Height: 400}
	shots := []shotBody{
		{ActorID: shooter.ID, Result: "goal", Region: "goal", Click: clickBody{X: 312, Y: 150}, Rect: rect},
		{ActorID: shooter.ID, Result: "save", Region: "goal", Click: clickBody{X: 100, Y: 300}, Rect: rect},
		{ActorID: shooter.ID, Result: "miss", Region: "outside", Click: clickBody{X: 20, Y: 40}, Rect: rect},
	}
	for _, s := range shots {
		s.RequestID = uuid.New().String()
		if err := r.client.Post("/shots", s, nil); err != nil {
			return err
		}
	}

	r.logger.Info(ctx, "recording defense")
	if err := r.client.Post("/match/mode", map[string]string{"mode": "defense"}, nil); err != nil {
		return err
	}
	defenseShots := []shotBody{
		{ActorID: opponent.ID, Result: "save", Region: "goal", Click: clickBody{X: 300, Y: 200}, Rect: rect},
		{ActorID: opponent.ID, Result: "miss", Region: "outside", Click: clickBody{X: 10, Y: 10}, Rect: rect},
	}
	for _, s := range defenseShots {
		s.RequestID = uuid.New().String()
		if err := r.client.Post("/shots", s, nil); err != nil {
			return err
		}
	}

	return r.verify(ctx, shooter.ID, keeper.ID)
}

func (r *Runner) verify(ctx context.Context, shooterID, keeperID int) error {
	var ps playerStatsBody
	if err := r.client.Get(fmt.Sprintf("/stats/players/%d", shooterID), &ps); err != nil {
		return err
	}
	if ps.Goals != 1 || ps.Saves != 1 || ps.Misses != 1 || ps.TotalShots != 3 {
		return fmt.Errorf("unexpected player stats: %+v", ps)
	}

	var ks keeperStatsBody
	if err := r.client.Get(fmt.Sprintf("/stats/keepers/%d", keeperID), &ks); err != nil {
		return err
	}
	if ks.ShotsFaced != 2 || ks.Saves != 1 || ks.SavePercentage != 50.0 {
		return fmt.Errorf("unexpected keeper stats: %+v", ks)
	}

	r.logger.Info(ctx, "demo match verified",
		logger.Float64("shootingPercentage", ps.ShootingPercentage),
		logger.Float64("savePercentage", ks.SavePercentage),
	)
	return nil
}
