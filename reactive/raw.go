package reactive

import (
	"fmt"
	"slices"
	"sort"
	"sync/atomic"
)

type Kind uint8

const (
	KindObject Kind = iota + 1
	KindArray
	KindMap
	KindSet
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindSet:
		return "set"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

var lastIdentity atomic.Uint64

// header is embedded first in every container so its address is the address
// of the allocation, which is what runtime.AddCleanup watches.
type header struct {
	id       uint64
	wrappers map[uint64]any
}

func (h *header) target() *header { return h }

func (h *header) identity() uint64 {
	if h.id == 0 {
		h.id = lastIdentity.Add(1)
	}
	return h.id
}

// headerOf returns the header of a container or wrapper, nil for anything
// else.
func headerOf(v any) *header {
	switch v := ToRaw(v).(type) {
	case *Object:
		if v != nil {
			return &v.header
		}
	case *Array:
		if v != nil {
			return &v.header
		}
	case *Map:
		if v != nil {
			return &v.header
		}
	case *Set:
		if v != nil {
			return &v.header
		}
	}
	return nil
}

func (h *header) cached(system uint64) any {
	return h.wrappers[system]
}

func (h *header) cache(system uint64, w any) {
	if h.wrappers == nil {
		h.wrappers = map[uint64]any{}
	}
	h.wrappers[system] = w
}

// Object is an insertion-ordered record with string keys.
type Object struct {
	header
	keys   []string
	fields map[string]any
}

// NewObject builds an Object from fields. Keys are added in sorted order since
// Go maps have none; nested map[string]any and []any values become containers.
func NewObject(fields map[string]any) *Object {
	o := &Object{fields: make(map[string]any, len(fields))}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		o.Set(k, From(fields[k]))
	}
	return o
}

// With appends or replaces a field and returns the object for chaining.
func (o *Object) With(key string, value any) *Object {
	o.Set(key, From(value))
	return o
}

func (o *Object) Get(key string) (any, bool) {
	v, ok := o.fields[key]
	return v, ok
}

func (o *Object) Set(key string, value any) {
	if o.fields == nil {
		o.fields = map[string]any{}
	}
	if _, ok := o.fields[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.fields[key] = value
}

func (o *Object) Delete(key string) bool {
	if _, ok := o.fields[key]; !ok {
		return false
	}
	delete(o.fields, key)
	o.keys = slices.DeleteFunc(o.keys, func(k string) bool { return k == key })
	return true
}

func (o *Object) Keys() []string {
	return slices.Clone(o.keys)
}

func (o *Object) Len() int {
	return len(o.keys)
}

type Array struct {
	header
	items []any
}

func NewArray(items ...any) *Array {
	a := &Array{items: make([]any, len(items))}
	for i, item := range items {
		a.items[i] = From(item)
	}
	return a
}

func (a *Array) Len() int {
	return len(a.items)
}

// At returns nil when i is out of range.
func (a *Array) At(i int) any {
	if i < 0 || i >= len(a.items) {
		return nil
	}
	return a.items[i]
}

func (a *Array) Values() []any {
	return slices.Clone(a.items)
}

// Map is an insertion-ordered map with comparable keys.
type Map struct {
	header
	keys   []any
	values map[any]any
}

func NewMap() *Map {
	return &Map{values: map[any]any{}}
}

// With sets key to value and returns the map for chaining. It panics on a
// non-comparable key, like a Go map would.
func (m *Map) With(key, value any) *Map {
	m.Set(key, From(value))
	return m
}

func (m *Map) Get(key any) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *Map) Has(key any) bool {
	_, ok := m.values[key]
	return ok
}

func (m *Map) Set(key, value any) {
	if m.values == nil {
		m.values = map[any]any{}
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func (m *Map) Delete(key any) bool {
	if _, ok := m.values[key]; !ok {
		return false
	}
	delete(m.values, key)
	m.keys = slices.DeleteFunc(m.keys, func(k any) bool { return k == key })
	return true
}

func (m *Map) Clear() {
	m.keys = nil
	clear(m.values)
}

func (m *Map) Keys() []any {
	return slices.Clone(m.keys)
}

func (m *Map) Len() int {
	return len(m.keys)
}

// Set is an insertion-ordered set of comparable members.
type Set struct {
	header
	items   []any
	members map[any]struct{}
}

func NewSet(items ...any) *Set {
	s := &Set{members: map[any]struct{}{}}
	for _, item := range items {
		s.Add(item)
	}
	return s
}

func (s *Set) Has(item any) bool {
	_, ok := s.members[item]
	return ok
}

// Add reports whether item was not already present.
func (s *Set) Add(item any) bool {
	if s.members == nil {
		s.members = map[any]struct{}{}
	}
	if _, ok := s.members[item]; ok {
		return false
	}
	s.members[item] = struct{}{}
	s.items = append(s.items, item)
	return true
}

func (s *Set) Delete(item any) bool {
	if _, ok := s.members[item]; !ok {
		return false
	}
	delete(s.members, item)
	s.items = slices.DeleteFunc(s.items, func(v any) bool { return v == item })
	return true
}

func (s *Set) Clear() {
	s.items = nil
	clear(s.members)
}

func (s *Set) Values() []any {
	return slices.Clone(s.items)
}

func (s *Set) Len() int {
	return len(s.items)
}

// From converts plain Go values into containers: map[string]any becomes an
// Object and []any an Array, recursively. Containers and wrappers are
// returned as is; anything else is returned unchanged.
func From(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return NewObject(v)
	case []any:
		return NewArray(v...)
	default:
		return v
	}
}
