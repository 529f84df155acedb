package reactive

func (rs *ReactiveSystem) Map(raw *Map) *ObservedMap {
	if w, ok := raw.cached(rs.id).(*ObservedMap); ok {
		return w
	}
	w := &ObservedMap{rs: rs, raw: raw}
	raw.cache(rs.id, w)
	return w
}

func (rs *ReactiveSystem) Set(raw *Set) *ObservedSet {
	if w, ok := raw.cached(rs.id).(*ObservedSet); ok {
		return w
	}
	w := &ObservedSet{rs: rs, raw: raw}
	raw.cache(rs.id, w)
	return w
}

// ObservedMap intercepts each map method. Size is its own slot; Delete and
// Clear only notify it.
type ObservedMap struct {
	rs  *ReactiveSystem
	raw *Map
}

func (m *ObservedMap) target() *header         { return &m.raw.header }
func (m *ObservedMap) Kind() Kind              { return KindMap }
func (m *ObservedMap) Raw() any                { return m.raw }
func (m *ObservedMap) System() *ReactiveSystem { return m.rs }
func (m *ObservedMap) Map() *Map               { return m.raw }

func (m *ObservedMap) Size() int {
	m.rs.Track(m.raw, SizeKey)
	return m.raw.Len()
}

// Get returns the value under key. A nested container comes back wrapped and
// linked under key.
func (m *ObservedMap) Get(key any) (any, bool) {
	key = ToRaw(key)
	m.rs.Track(m.raw, key)
	v, ok := m.raw.Get(key)
	return m.rs.nested(&m.raw.header, key, v), ok
}

// Has tracks key and size, so a reader sees keys come and go.
func (m *ObservedMap) Has(key any) bool {
	key = ToRaw(key)
	m.rs.Track(m.raw, key)
	m.rs.Track(m.raw, SizeKey)
	return m.raw.Has(key)
}

func (m *ObservedMap) Keys() []any {
	m.rs.Track(m.raw, SizeKey)
	return m.raw.Keys()
}

// Range calls fn for every entry in insertion order until fn returns false.
func (m *ObservedMap) Range(fn func(key, value any) bool) {
	m.rs.Track(m.raw, SizeKey)
	for _, k := range m.raw.Keys() {
		v, _ := m.Get(k)
		if !fn(k, v) {
			return
		}
	}
}

func (m *ObservedMap) Set(key, value any) error {
	key, value = ToRaw(key), store(value)
	if !isComparable(key) {
		return m.rs.intercept("set", key, ErrUnhashableKey)
	}
	if old, ok := m.raw.Get(key); ok && !SameValue(old, value) {
		m.rs.unlink(old, &m.raw.header, key)
	}
	m.raw.Set(key, value)
	if w, ok := m.rs.wrap(value); ok {
		m.rs.setParent(w.target(), &m.raw.header, key)
	}

	return m.rs.intercept("set", key, m.rs.trigger(&m.raw.header, SizeKey, key))
}

func (m *ObservedMap) Delete(key any) (bool, error) {
	key = ToRaw(key)
	if !isComparable(key) {
		return false, m.rs.intercept("delete", key, ErrUnhashableKey)
	}
	old, _ := m.raw.Get(key)
	deleted := m.raw.Delete(key)
	if deleted {
		m.rs.unlink(old, &m.raw.header, key)
	}
	return deleted, m.rs.intercept("delete", key, m.rs.Trigger(m.raw, SizeKey))
}

// Clear empties the map and notifies size only. Readers of individual keys
// are not notified.
func (m *ObservedMap) Clear() error {
	for _, k := range m.raw.Keys() {
		old, _ := m.raw.Get(k)
		m.rs.unlink(old, &m.raw.header, k)
	}
	m.raw.Clear()
	return m.rs.intercept("clear", SizeKey, m.rs.Trigger(m.raw, SizeKey))
}

type ObservedSet struct {
	rs  *ReactiveSystem
	raw *Set
}

func (s *ObservedSet) target() *header         { return &s.raw.header }
func (s *ObservedSet) Kind() Kind              { return KindSet }
func (s *ObservedSet) Raw() any                { return s.raw }
func (s *ObservedSet) System() *ReactiveSystem { return s.rs }
func (s *ObservedSet) Set() *Set               { return s.raw }

func (s *ObservedSet) Size() int {
	s.rs.Track(s.raw, SizeKey)
	return s.raw.Len()
}

func (s *ObservedSet) Has(item any) bool {
	item = ToRaw(item)
	s.rs.Track(s.raw, item)
	s.rs.Track(s.raw, SizeKey)
	return s.raw.Has(item)
}

// Values returns the members in insertion order, containers wrapped.
func (s *ObservedSet) Values() []any {
	s.rs.Track(s.raw, SizeKey)
	values := s.raw.Values()
	for i, v := range values {
		values[i] = s.rs.observe(v)
	}
	return values
}

// Add inserts item and reports whether it was new. Size is notified either
// way.
func (s *ObservedSet) Add(item any) (bool, error) {
	item = ToRaw(item)
	if !isComparable(item) {
		return false, s.rs.intercept("add", item, ErrUnhashableKey)
	}
	added := s.raw.Add(item)
	return added, s.rs.intercept("add", item, s.rs.Trigger(s.raw, SizeKey))
}

func (s *ObservedSet) Delete(item any) (bool, error) {
	item = ToRaw(item)
	if !isComparable(item) {
		return false, s.rs.intercept("delete", item, ErrUnhashableKey)
	}
	deleted := s.raw.Delete(item)
	return deleted, s.rs.intercept("delete", item, s.rs.Trigger(s.raw, SizeKey))
}

func (s *ObservedSet) Clear() error {
	s.raw.Clear()
	return s.rs.intercept("clear", SizeKey, s.rs.Trigger(s.raw, SizeKey))
}
