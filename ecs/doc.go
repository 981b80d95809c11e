// Package ecs provides a Donburi ECS component wrapping a posed skeleton
// instance, so a host that drives its simulation through an entity-component
// system can tick many characters per frame without hand-rolled bookkeeping.
//
// Usage:
//
//	world := donburi.NewWorld()
//	entity := world.Create(ecs.InstanceComponent)
//	entry := world.Entry(entity)
//	ecs.InstanceComponent.SetValue(entry, *animation2d.NewInstance(def, nil))
//
//	// per frame:
//	query.NewQuery(filter.Contains(ecs.InstanceComponent)).Each(world, func(entry *donburi.Entry) {
//		inst := ecs.InstanceComponent.Get(entry)
//		inst.Tick(dt)
//	})
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
