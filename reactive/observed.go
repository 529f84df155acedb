package reactive

import (
	"fmt"
)

// Observed is a wrapper over a container. Reads through it subscribe the
// active effect; writes through it notify subscribers.
type Observed interface {
	Target
	Kind() Kind
	Raw() any
	System() *ReactiveSystem
}

// Wrap returns the wrapper for a container, creating it on first use. The
// same container always yields the same wrapper and wrapping a wrapper of this
// system returns it unchanged.
func (rs *ReactiveSystem) Wrap(v any) (Observed, error) {
	rs.sweep()
	if w, ok := rs.wrap(v); ok {
		return w, nil
	}
	return nil, rs.intercept("wrap", fmt.Sprintf("%T", v), ErrUnsupportedValue)
}

func (rs *ReactiveSystem) wrap(v any) (Observed, bool) {
	if w, ok := v.(Observed); ok {
		if w.System() == rs {
			return w, true
		}
		v = w.Raw()
	}
	switch raw := v.(type) {
	case *Object:
		if raw != nil {
			return rs.Object(raw), true
		}
	case *Array:
		if raw != nil {
			return rs.Array(raw), true
		}
	case *Map:
		if raw != nil {
			return rs.Map(raw), true
		}
	case *Set:
		if raw != nil {
			return rs.Set(raw), true
		}
	}
	return nil, false
}

func (rs *ReactiveSystem) Object(raw *Object) *ObservedObject {
	if w, ok := raw.cached(rs.id).(*ObservedObject); ok {
		return w
	}
	w := &ObservedObject{rs: rs, raw: raw}
	raw.cache(rs.id, w)
	return w
}

func (rs *ReactiveSystem) Array(raw *Array) *ObservedArray {
	if w, ok := raw.cached(rs.id).(*ObservedArray); ok {
		return w
	}
	w := &ObservedArray{rs: rs, raw: raw}
	raw.cache(rs.id, w)
	return w
}

// store is what a wrapper writes into its container: the raw container for a
// wrapper, a fresh container for a plain map[string]any or []any.
func store(v any) any {
	return From(ToRaw(v))
}

// ToRaw strips a wrapper, returning its container. Other values pass through.
func ToRaw(v any) any {
	if w, ok := v.(Observed); ok {
		return w.Raw()
	}
	return v
}

func IsObserved(v any) bool {
	_, ok := v.(Observed)
	return ok
}

// nested wraps a container read out of parent under key and links it back so
// mutations inside it bubble to parent's slot.
func (rs *ReactiveSystem) nested(parent *header, key, v any) any {
	w, ok := rs.wrap(v)
	if !ok {
		return v
	}
	rs.setParent(w.target(), parent, key)
	return w
}

type ObservedObject struct {
	rs  *ReactiveSystem
	raw *Object
}

func (o *ObservedObject) target() *header         { return &o.raw.header }
func (o *ObservedObject) Kind() Kind              { return KindObject }
func (o *ObservedObject) Raw() any                { return o.raw }
func (o *ObservedObject) System() *ReactiveSystem { return o.rs }
func (o *ObservedObject) Object() *Object         { return o.raw }

// Get returns the value under key, nil when missing. Containers come back
// wrapped.
func (o *ObservedObject) Get(key string) any {
	v, _ := o.raw.Get(key)
	o.rs.Track(o.raw, key)
	return o.rs.nested(&o.raw.header, key, v)
}

// Lookup is Get that also reports whether key is present.
func (o *ObservedObject) Lookup(key string) (any, bool) {
	v, ok := o.raw.Get(key)
	o.rs.Track(o.raw, key)
	return o.rs.nested(&o.raw.header, key, v), ok
}

func (o *ObservedObject) Has(key string) bool {
	o.rs.Track(o.raw, key)
	_, ok := o.raw.Get(key)
	return ok
}

func (o *ObservedObject) Keys() []string {
	o.rs.Track(o.raw, KeysKey)
	return o.raw.Keys()
}

func (o *ObservedObject) Len() int {
	o.rs.Track(o.raw, KeysKey)
	return o.raw.Len()
}

// Set writes value under key. Nothing is notified when the old value is the
// same value; adding a key also notifies key enumeration.
func (o *ObservedObject) Set(key string, value any) error {
	value = store(value)
	old, existed := o.raw.Get(key)
	o.raw.Set(key, value)
	if existed && SameValue(old, value) {
		return nil
	}
	if existed {
		o.rs.unlink(old, &o.raw.header, key)
	}

	if w, ok := o.rs.wrap(value); ok {
		o.rs.setParent(w.target(), &o.raw.header, key)
	}

	if existed {
		return o.rs.intercept("set", key, o.rs.trigger(&o.raw.header, key))
	}
	return o.rs.intercept("set", key, o.rs.trigger(&o.raw.header, key, KeysKey))
}

// Delete removes key and reports whether it was present.
func (o *ObservedObject) Delete(key string) (bool, error) {
	old, _ := o.raw.Get(key)
	if !o.raw.Delete(key) {
		return false, nil
	}
	o.rs.unlink(old, &o.raw.header, key)
	return true, o.rs.intercept("delete", key, o.rs.trigger(&o.raw.header, key, KeysKey))
}
