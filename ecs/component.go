package ecs

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
	"github.com/yohamta/donburi/query"

	"github.com/phanxgames/animation2d"
)

// InstanceComponent wraps a posed skeleton Instance as a Donburi
// component, letting a host query every animated entity in one pass and
// tick it without hand-rolled bookkeeping.
var InstanceComponent = donburi.NewComponentType[animation2d.Instance]()

// TickQuery ticks every entry in world carrying InstanceComponent by dt.
// It is a thin convenience wrapper; a host with more elaborate scheduling
// is free to query InstanceComponent directly.
func TickQuery(w donburi.World, dt float32) {
	query.NewQuery(filter.Contains(InstanceComponent)).Each(w, func(entry *donburi.Entry) {
		inst := InstanceComponent.Get(entry)
		inst.Tick(dt)
	})
}
