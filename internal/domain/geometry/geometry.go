// Package geometry converts raw tap coordinates into normalized shot
// positions. The mapper is pure and stateless; it never inspects the
// event log.
package geometry

import (
	"math"

	"github.com/okian/skudd/internal/domain/model"
)

// DefaultFrameInset is the goal-frame border thickness, in the same units
// as the incoming rectangle (CSS pixels for the web scorer).
const DefaultFrameInset = 12.0

// Point is a raw tap coordinate relative to the tapped rectangle's origin.
type Point struct {
	X float64
	Y float64
}

// Rect is the bounding rectangle of the region that received the tap.
type Rect struct {
	Width  float64
	Height float64
}

// Region identifies which nested subregion was hit: the inner goal
// rectangle or the surrounding outside margin.
type Region string

const (
	RegionGoal    Region = "goal"
	RegionOutside Region = "outside"
)

// Shot is the classification outcome: a zone plus a normalized position in
// percentage units, rounded to one decimal.
type Shot struct {
	X    float64
	Y    float64
	Zone model.Zone
}

// Option applies a configuration option to the Mapper.
type Option func(*Mapper)

// WithFrameInset overrides the goal-frame border thickness.
func WithFrameInset(inset float64) Option {
	return func(m *Mapper) {
		if inset >= 0 {
			m.inset = inset
		}
	}
}

// Mapper normalizes tap coordinates against a reference rectangle.
type Mapper struct {
	inset float64
}

// NewMapper creates a mapper with configuration options.
func NewMapper(opts ...Option) *Mapper {
	m := &Mapper{inset: DefaultFrameInset}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Classify maps a tap inside region onto a Shot.
//
// Goal region: the frame inset is subtracted from the coordinate and twice
// from the usable dimension, so a tap exactly on the frame maps to the
// boundary (0% or 100%) instead of going negative or past 100. Outside
// region: normalized against the full rectangle with no inset.
//
// Fails with ErrInvalidGeometry when the usable dimensions are not strictly
// positive, rather than propagating NaN or Inf.
func (m *Mapper) Classify(p Point, r Rect, region Region) (Shot, error) {
	switch region {
	case RegionGoal:
		w := r.Width - 2*m.inset
		h := r.Height - 2*m.inset
		if w <= 0 || h <= 0 {
			return Shot{}, ErrInvalidGeometry
		}
		return Shot{
			X:    pct(p.X-m.inset, w),
			Y:    pct(p.Y-m.inset, h),
			Zone: model.ZoneGoal,
		}, nil
	case RegionOutside:
		if r.Width <= 0 || r.Height <= 0 {
			return Shot{}, ErrInvalidGeometry
		}
		return Shot{
			X:    pct(p.X, r.Width),
			Y:    pct(p.Y, r.Height),
			Zone: model.ZoneOutside,
		}, nil
	}
	return Shot{}, ErrInvalidGeometry
}

// pct normalizes c against dim, clamps into [0,100] and rounds
// half-away-from-zero to one decimal.
func pct(c, dim float64) float64 {
	v := c / dim * 100
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return Round1(v)
}

// Round1 rounds to one decimal digit, half away from zero. All percentage
// values in the system share this rounding.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
