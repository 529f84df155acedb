package reactive

import (
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// Dependency is the subscriber set of one reactive slot. Subscribers are kept
// in registration order.
type Dependency struct {
	rs      *ReactiveSystem
	subs    []*EffectRunner
	members mapset.Set[*EffectRunner]
}

func newDependency(rs *ReactiveSystem) *Dependency {
	return &Dependency{
		rs:      rs,
		members: mapset.NewThreadUnsafeSet[*EffectRunner](),
	}
}

// Add reports whether e was not already subscribed.
func (d *Dependency) Add(e *EffectRunner) bool {
	if e == nil || !d.members.Add(e) {
		return false
	}
	d.subs = append(d.subs, e)
	e.deps.Add(d)
	return true
}

func (d *Dependency) Remove(e *EffectRunner) {
	if !d.members.Contains(e) {
		return
	}
	d.members.Remove(e)
	d.subs = slices.DeleteFunc(d.subs, func(s *EffectRunner) bool { return s == e })
	e.deps.Remove(d)
}

func (d *Dependency) Clear() {
	for _, e := range d.subs {
		e.deps.Remove(d)
	}
	d.subs = nil
	d.members.Clear()
}

func (d *Dependency) Len() int {
	return len(d.subs)
}

func (d *Dependency) Subscribers() []*EffectRunner {
	return slices.Clone(d.subs)
}

// Notify runs or queues every subscriber under the system's batch and cycle
// rules.
func (d *Dependency) Notify() error {
	return d.rs.dispatch(d.Subscribers())
}
