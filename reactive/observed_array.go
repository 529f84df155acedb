package reactive

import (
	"slices"
)

type ObservedArray struct {
	rs  *ReactiveSystem
	raw *Array
}

func (a *ObservedArray) target() *header         { return &a.raw.header }
func (a *ObservedArray) Kind() Kind              { return KindArray }
func (a *ObservedArray) Raw() any                { return a.raw }
func (a *ObservedArray) System() *ReactiveSystem { return a.rs }
func (a *ObservedArray) Array() *Array           { return a.raw }

func (a *ObservedArray) Len() int {
	a.rs.Track(a.raw, LengthKey)
	return a.raw.Len()
}

// At returns the element at i, nil when out of range. Containers come back
// wrapped.
func (a *ObservedArray) At(i int) any {
	a.rs.Track(a.raw, i)
	return a.rs.nested(&a.raw.header, i, a.raw.At(i))
}

func (a *ObservedArray) Values() []any {
	n := a.Len()
	values := make([]any, n)
	for i := range values {
		values[i] = a.At(i)
	}
	return values
}

func (a *ObservedArray) SetAt(i int, value any) error {
	if i < 0 || i >= len(a.raw.items) {
		return a.rs.intercept("set", i, ErrIndexOutOfRange)
	}
	value = store(value)
	old := a.raw.items[i]
	a.raw.items[i] = value
	if SameValue(old, value) {
		return nil
	}
	a.rs.unlink(old, &a.raw.header, i)
	if w, ok := a.rs.wrap(value); ok {
		a.rs.setParent(w.target(), &a.raw.header, i)
	}
	return a.rs.intercept("set", i, a.rs.Trigger(a.raw, i))
}

func (a *ObservedArray) Push(values ...any) (int, error) {
	err := a.mutate("push", func(items []any) []any {
		return append(items, rawValues(values)...)
	})
	return len(a.raw.items), err
}

// Pop removes and returns the last element, nil for an empty array.
func (a *ObservedArray) Pop() (any, error) {
	var removed any
	err := a.mutate("pop", func(items []any) []any {
		if len(items) == 0 {
			return items
		}
		removed = items[len(items)-1]
		return slices.Delete(items, len(items)-1, len(items))
	})
	return a.rs.observe(removed), err
}

// Shift removes and returns the first element, nil for an empty array.
func (a *ObservedArray) Shift() (any, error) {
	var removed any
	err := a.mutate("shift", func(items []any) []any {
		if len(items) == 0 {
			return items
		}
		removed = items[0]
		return slices.Delete(items, 0, 1)
	})
	return a.rs.observe(removed), err
}

func (a *ObservedArray) Unshift(values ...any) (int, error) {
	err := a.mutate("unshift", func(items []any) []any {
		return slices.Insert(items, 0, rawValues(values)...)
	})
	return len(a.raw.items), err
}

// Splice removes deleteCount elements from start, inserts items in their
// place and returns the removed elements. A negative start counts from the
// end.
func (a *ObservedArray) Splice(start, deleteCount int, items ...any) ([]any, error) {
	var removed []any
	err := a.mutate("splice", func(current []any) []any {
		n := len(current)
		start = relativeIndex(start, n)
		deleteCount = min(max(deleteCount, 0), n-start)
		removed = slices.Clone(current[start : start+deleteCount])
		return slices.Replace(current, start, start+deleteCount, rawValues(items)...)
	})
	for i, v := range removed {
		removed[i] = a.rs.observe(v)
	}
	return removed, err
}

// Sort is a stable sort by cmp, which sees the stored values.
func (a *ObservedArray) Sort(cmp func(x, y any) int) error {
	return a.mutate("sort", func(items []any) []any {
		slices.SortStableFunc(items, cmp)
		return items
	})
}

func (a *ObservedArray) Reverse() error {
	return a.mutate("reverse", func(items []any) []any {
		slices.Reverse(items)
		return items
	})
}

// Fill writes value into [start, end). Negative bounds count from the end.
func (a *ObservedArray) Fill(value any, start, end int) error {
	value = store(value)
	return a.mutate("fill", func(items []any) []any {
		n := len(items)
		for i := relativeIndex(start, n); i < relativeIndex(end, n); i++ {
			items[i] = value
		}
		return items
	})
}

// CopyWithin copies [start, end) to target inside the array without changing
// its length. Negative bounds count from the end.
func (a *ObservedArray) CopyWithin(target, start, end int) error {
	return a.mutate("copyWithin", func(items []any) []any {
		n := len(items)
		to, from, until := relativeIndex(target, n), relativeIndex(start, n), relativeIndex(end, n)
		if from < until {
			copy(items[to:], items[from:until])
		}
		return items
	})
}

// mutate applies fn inside one batch window and triggers every index whose
// value changed plus the length, so each subscriber runs once per call.
// Elements that left an index lose their link to it before the elements now
// at that index are linked.
func (a *ObservedArray) mutate(op string, fn func(items []any) []any) error {
	before := slices.Clone(a.raw.items)
	err := a.rs.Batch(func() error {
		a.raw.items = fn(a.raw.items)
		after := a.raw.items

		var changed []int
		for i := 0; i < max(len(before), len(after)); i++ {
			if i < len(before) && i < len(after) && SameValue(before[i], after[i]) {
				continue
			}
			changed = append(changed, i)
			if i < len(before) {
				a.rs.unlink(before[i], &a.raw.header, i)
			}
		}

		for _, i := range changed {
			if i < len(after) {
				if w, ok := a.rs.wrap(after[i]); ok {
					a.rs.setParent(w.target(), &a.raw.header, i)
				}
			}
			if err := a.rs.Trigger(a.raw, i); err != nil {
				return err
			}
		}
		return a.rs.Trigger(a.raw, LengthKey)
	})
	return a.rs.intercept(op, LengthKey, err)
}

// observe wraps containers without linking them to a parent, for values that
// have left their container.
func (rs *ReactiveSystem) observe(v any) any {
	if w, ok := rs.wrap(v); ok {
		return w
	}
	return v
}

func rawValues(values []any) []any {
	raw := make([]any, len(values))
	for i, v := range values {
		raw[i] = store(v)
	}
	return raw
}

func relativeIndex(i, n int) int {
	if i < 0 {
		return max(n+i, 0)
	}
	return min(i, n)
}
