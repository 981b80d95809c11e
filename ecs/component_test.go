package ecs

import (
	"testing"

	"github.com/yohamta/donburi"

	"github.com/phanxgames/animation2d"
)

func oneBoneDef(t *testing.T) *animation2d.Definition {
	t.Helper()
	def := &animation2d.Definition{
		Bones: []animation2d.BoneDefinition{
			animation2d.DefaultBoneDefinition(animation2d.NewNameId("root"), -1),
		},
		Skins: []animation2d.Skin{
			{Name: animation2d.NewNameId(animation2d.DefaultSkinName), Slots: map[animation2d.NameId]map[animation2d.NameId]*animation2d.Attachment{}},
		},
		Clips: map[animation2d.NameId]*animation2d.Clip{},
	}
	if err := def.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return def
}

func TestTickQueryTicksEveryEntityCarryingInstanceComponent(t *testing.T) {
	world := donburi.NewWorld()
	def := oneBoneDef(t)
	inst := animation2d.NewInstance(def, nil)

	entry := world.Entry(world.Create(InstanceComponent))
	InstanceComponent.SetValue(entry, *inst)

	stored := InstanceComponent.Get(entry)
	stored.Cache().AccumPosition(0, 1, 0)

	TickQuery(world, 1.0/60.0)

	if stored.SkinningPalette()[0].TX != 1 {
		t.Errorf("expected TickQuery to apply the accumulated position delta, got TX=%v", stored.SkinningPalette()[0].TX)
	}
}

func TestTickQuerySkipsEntitiesWithoutInstanceComponent(t *testing.T) {
	world := donburi.NewWorld()
	other := donburi.NewComponentType[int]()
	world.Entry(world.Create(other))

	// Must not panic when no entity carries InstanceComponent.
	TickQuery(world, 1.0/60.0)
}
