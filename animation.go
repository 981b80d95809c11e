package animation2d

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields simultaneously using gween.
// It does not touch bones, slots, or clip timelines — those are driven by
// the clip evaluator and frame accumulator, not by ad-hoc tweening. This
// exists for host code that wants to animate something alongside a posed
// skeleton (a camera, a light, a UI value) without pulling in a second
// tweening dependency.
//
// There is no global animation manager — callers invoke Update themselves.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64

	// Valid reports whether the group's target is still alive. If it
	// returns false, Update stops advancing and Done becomes true. Nil
	// means always valid.
	Valid func() bool

	// OnUpdate is invoked after every successful Update, e.g. to mark a
	// dependent transform dirty. May be nil.
	OnUpdate func()

	Done bool
}

// Update advances all tweens by dt seconds and writes values to the target
// fields. If Valid is set and returns false, Done is set and no writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.Valid != nil && !g.Valid() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone

	if g.OnUpdate != nil {
		g.OnUpdate()
	}
}

// TweenFloats creates a TweenGroup animating the given field pointers from
// their current values to the matching "to" values over duration seconds.
func TweenFloats(fn ease.TweenFunc, duration float32, fields []*float64, to []float64) *TweenGroup {
	if len(fields) != len(to) || len(fields) > 4 {
		panic("animation2d: TweenFloats: fields/to length mismatch or too many fields")
	}
	g := &TweenGroup{count: len(fields)}
	for i := range fields {
		g.tweens[i] = gween.New(float32(*fields[i]), float32(to[i]), duration, fn)
		g.fields[i] = fields[i]
	}
	return g
}

// TweenFloat creates a TweenGroup animating a single field pointer.
func TweenFloat(field *float64, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return TweenFloats(fn, duration, []*float64{field}, []float64{to})
}
