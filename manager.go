package animation2d

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Manager creates Instances bound to shared Definition handles and tracks
// live instances for debugging (§2 item 8, §6.3). It is the only
// component in this package that requires a mutex: the pose engine itself
// is single-threaded per Instance (§5).
type Manager struct {
	mu        sync.Mutex
	instances []*Instance
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{}
}

// CreateInstance builds a new Instance bound to def and begins tracking it
// for debugging. eventSink may be nil.
func (m *Manager) CreateInstance(def *Definition, eventSink EventSink) *Instance {
	inst := NewInstance(def, eventSink)
	m.mu.Lock()
	m.instances = append(m.instances, inst)
	m.mu.Unlock()
	return inst
}

// Release stops tracking inst; it does not otherwise mutate inst.
func (m *Manager) Release(inst *Instance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, v := range m.instances {
		if v == inst {
			m.instances = append(m.instances[:i], m.instances[i+1:]...)
			return
		}
	}
}

// Instances returns a snapshot of the currently tracked instances.
func (m *Manager) Instances() []*Instance {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Instance, len(m.instances))
	copy(out, m.instances)
	return out
}

// Tick advances every tracked instance by dt sequentially, in registration
// order. Use TickAll for a concurrent variant.
func (m *Manager) Tick(dt float32) {
	for _, inst := range m.Instances() {
		inst.Tick(dt)
	}
}

// TickAll advances every tracked instance by dt concurrently using
// errgroup, since each Instance owns its own state independently and the
// pose engine itself performs no shared mutation (§5). It returns the
// first error encountered, if any instance's Tick reports one via ctx
// cancellation (Tick itself is infallible today, but the signature leaves
// room for a host-supplied network step to fail).
func (m *Manager) TickAll(ctx context.Context, dt float32) error {
	instances := m.Instances()
	g, _ := errgroup.WithContext(ctx)
	for _, inst := range instances {
		inst := inst
		g.Go(func() error {
			inst.Tick(dt)
			return nil
		})
	}
	return g.Wait()
}
