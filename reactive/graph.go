package reactive

import (
	"errors"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

// Target is anything that owns reactive slots: containers, their wrappers
// and computed values.
type Target interface {
	target() *header
}

type sentinel string

func (s sentinel) String() string { return string(s) }

// Sentinel slot keys. They are typed so they never collide with user keys.
const (
	SizeKey   = sentinel("size")
	KeysKey   = sentinel("keys")
	LengthKey = sentinel("length")
	ValueKey  = sentinel("value")
)

func (rs *ReactiveSystem) slot(h *header, key any) *Dependency {
	id := rs.adopt(h)
	slots, ok := rs.deps[id]
	if !ok {
		slots = map[any]*Dependency{}
		rs.deps[id] = slots
	}
	dep, ok := slots[key]
	if !ok {
		dep = newDependency(rs)
		slots[key] = dep
	}
	return dep
}

func (rs *ReactiveSystem) lookup(id uint64, key any) *Dependency {
	return rs.deps[id][key]
}

// Dependency returns the subscriber set for (target, key), creating it.
func (rs *ReactiveSystem) Dependency(target Target, key any) *Dependency {
	rs.mustKey("dependency", key)
	rs.sweep()
	return rs.slot(target.target(), key)
}

// Track subscribes the active effect, if any, to (target, key). A stopped
// effect is never subscribed. A key that cannot be compared panics with an
// *InterceptError after being logged.
func (rs *ReactiveSystem) Track(target Target, key any) {
	rs.mustKey("track", key)
	rs.sweep()
	dep := rs.slot(target.target(), key)
	if rs.activeSub != nil && !rs.activeSub.stopped {
		dep.Add(rs.activeSub)
	}
}

// Trigger notifies the subscribers of (target, key) and, through the parent
// links, the subscribers of every ancestor slot the target is stored under.
// Each subscriber runs at most once per call.
func (rs *ReactiveSystem) Trigger(target Target, key any) error {
	return rs.trigger(target.target(), key)
}

// trigger notifies several slots of one target as a single change.
func (rs *ReactiveSystem) trigger(h *header, keys ...any) error {
	for _, key := range keys {
		if !isComparable(key) {
			return rs.intercept("trigger", key, ErrUnhashableKey)
		}
	}
	rs.sweep()
	rs.metrics.Triggered()

	if h.id == 0 {
		// never tracked, so nothing can depend on it
		return nil
	}

	var subs []*EffectRunner
	seen := mapset.NewThreadUnsafeSet[*EffectRunner]()
	collect := func(dep *Dependency) {
		for _, e := range dep.subs {
			if seen.Add(e) {
				subs = append(subs, e)
			}
		}
	}
	for _, key := range keys {
		if dep := rs.lookup(h.id, key); dep != nil {
			collect(dep)
		}
		rs.bubble(h.id, key, collect)
	}

	return rs.dispatch(subs)
}

func (rs *ReactiveSystem) dispatch(subs []*EffectRunner) error {
	if len(subs) == 0 {
		return nil
	}
	if rs.batchDepth > 0 {
		for _, e := range subs {
			if !e.stopped {
				rs.enqueue(e)
			}
		}
		return nil
	}
	return rs.run(subs)
}

// run executes subscribers in order. A cycle aborts the run, any other
// failure is isolated and returned joined with the rest.
func (rs *ReactiveSystem) run(subs []*EffectRunner) error {
	var errs []error
	for _, e := range subs {
		if e.stopped {
			continue
		}
		if rs.onStack(e) {
			return errors.Join(append(errs, rs.cycle(e))...)
		}
		if err := e.schedule(); err != nil {
			errs = append(errs, err)
			if errors.Is(err, ErrCycle) {
				return errors.Join(errs...)
			}
			rs.fail(e, err)
		}
	}
	return errors.Join(errs...)
}

func (rs *ReactiveSystem) mustKey(op string, key any) {
	if !isComparable(key) {
		panic(rs.intercept(op, key, ErrUnhashableKey))
	}
}

// intercept logs a wrapper failure with its operation and key. Cycles were
// logged where they were detected and pass through untouched.
func (rs *ReactiveSystem) intercept(op string, key any, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrCycle) {
		return err
	}
	var ie *InterceptError
	if !errors.As(err, &ie) {
		err = &InterceptError{Op: op, Key: key, Err: err}
	}
	rs.logger.Error(fmt.Sprintf("reactive: %s failed", op), "key", fmt.Sprint(key), "error", err)
	return err
}
