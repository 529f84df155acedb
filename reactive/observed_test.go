package reactive_test

import (
	"math"
	"strings"
	"testing"

	"github.com/delaneyj/quanta/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapIsIdempotent(t *testing.T) {
	rs := newSystem(t)
	raw := reactive.NewObject(map[string]any{"a": 1})

	w1, err := rs.Wrap(raw)
	require.NoError(t, err)
	w2, err := rs.Wrap(raw)
	require.NoError(t, err)
	assert.Same(t, w1, w2)

	w3, err := rs.Wrap(w1)
	require.NoError(t, err)
	assert.Same(t, w1, w3)
	assert.Same(t, raw, reactive.ToRaw(w1))
	assert.True(t, reactive.IsObserved(w1))
	assert.False(t, reactive.IsObserved(raw))
	assert.Equal(t, reactive.KindObject, w1.Kind())

	// another system gets its own wrapper over the same container
	other := newSystem(t)
	w4, err := other.Wrap(w1)
	require.NoError(t, err)
	assert.NotSame(t, w1, w4)
	assert.Same(t, raw, reactive.ToRaw(w4))

	_, err = rs.Wrap(5)
	require.ErrorIs(t, err, reactive.ErrUnsupportedValue)
}

func TestWrapNestedReturnsSameWrapper(t *testing.T) {
	rs := newSystem(t)
	state := object(t, rs, map[string]any{
		"list": []any{1, 2},
		"user": map[string]any{"name": "ada"},
	})

	user := state.Get("user")
	require.IsType(t, &reactive.ObservedObject{}, user)
	assert.Same(t, user, state.Get("user"))

	list := state.Get("list")
	require.IsType(t, &reactive.ObservedArray{}, list)
	assert.Equal(t, []any{1, 2}, list.(*reactive.ObservedArray).Values())
}

// should treat NaN as the same value and +0, -0 as different ones
func TestObjectSameValue(t *testing.T) {
	rs := newSystem(t)
	w := object(t, rs, map[string]any{"a": math.NaN(), "z": 0.0})

	runs := 0
	_, err := reactive.Effect(rs, func() error {
		runs++
		w.Get("a")
		w.Get("z")
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, w.Set("a", math.NaN()))
	require.NoError(t, w.Set("a", math.NaN()))
	assert.Equal(t, 1, runs)

	require.NoError(t, w.Set("z", math.Copysign(0, -1)))
	assert.Equal(t, 2, runs)
}

func TestObjectKeys(t *testing.T) {
	rs := newSystem(t)
	w := object(t, rs, map[string]any{"b": 1, "a": 2})

	var seen [][]string
	_, err := reactive.Effect(rs, func() error {
		seen = append(seen, w.Keys())
		return nil
	})
	require.NoError(t, err)

	// overwriting an existing key leaves enumeration alone
	require.NoError(t, w.Set("a", 3))
	require.NoError(t, w.Set("c", 4))
	deleted, err := w.Delete("b")
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = w.Delete("missing")
	require.NoError(t, err)
	assert.False(t, deleted)

	assert.Equal(t, [][]string{
		{"a", "b"},
		{"a", "b", "c"},
		{"a", "c"},
	}, seen)
	assert.Equal(t, 2, w.Len())
}

func TestObjectHasAndLookup(t *testing.T) {
	rs := newSystem(t)
	w := object(t, rs, map[string]any{"a": nil})

	var has []bool
	_, err := reactive.Effect(rs, func() error {
		has = append(has, w.Has("b"))
		return nil
	})
	require.NoError(t, err)

	v, ok := w.Lookup("a")
	assert.True(t, ok)
	assert.Nil(t, v)
	_, ok = w.Lookup("b")
	assert.False(t, ok)

	require.NoError(t, w.Set("b", 1))
	assert.Equal(t, []bool{false, true}, has)
}

// should re-run an effect reading only the parent slot when a nested value
// changes
func TestDeepBubbling(t *testing.T) {
	rs := newSystem(t)
	parent := object(t, rs, map[string]any{
		"child": map[string]any{"x": 1},
	})

	runs := 0
	_, err := reactive.Effect(rs, func() error {
		runs++
		parent.Get("child")
		return nil
	})
	require.NoError(t, err)

	child := parent.Get("child").(*reactive.ObservedObject)
	require.NoError(t, child.Set("x", 2))
	assert.Equal(t, 2, runs)

	// several levels up
	require.NoError(t, child.Set("inner", map[string]any{"y": 1}))
	assert.Equal(t, 3, runs)
	inner := child.Get("inner").(*reactive.ObservedObject)
	require.NoError(t, inner.Set("y", 2))
	assert.Equal(t, 4, runs)

	assert.Equal(t, []any{"child", "inner"}, rs.Path(inner))
	assert.Empty(t, rs.Path(parent))
}

// should run once when a change reaches it both directly and by bubbling
func TestBubblingDeduplicates(t *testing.T) {
	rs := newSystem(t)
	parent := object(t, rs, map[string]any{
		"child": map[string]any{"x": 1},
	})

	runs := 0
	_, err := reactive.Effect(rs, func() error {
		runs++
		child := parent.Get("child").(*reactive.ObservedObject)
		child.Get("x")
		return nil
	})
	require.NoError(t, err)

	child := parent.Get("child").(*reactive.ObservedObject)
	require.NoError(t, child.Set("x", 2))
	assert.Equal(t, 2, runs)
}

// should link a nested value as soon as it is written
func TestSetLinksNestedValue(t *testing.T) {
	rs := newSystem(t)
	parent := object(t, rs, nil)

	runs := 0
	_, err := reactive.Effect(rs, func() error {
		runs++
		parent.Get("child")
		return nil
	})
	require.NoError(t, err)

	child := reactive.NewObject(map[string]any{"x": 1})
	require.NoError(t, parent.Set("child", child))
	assert.Equal(t, 2, runs)

	require.NoError(t, rs.Object(child).Set("x", 2))
	assert.Equal(t, 3, runs)
}

// should stop bubbling from a nested object once it is replaced or deleted
func TestDetachedChildDoesNotBubble(t *testing.T) {
	rs := newSystem(t)
	parent := object(t, rs, map[string]any{
		"child": map[string]any{"x": 1},
		"other": map[string]any{"y": 1},
	})

	runs := 0
	_, err := reactive.Effect(rs, func() error {
		runs++
		parent.Get("child")
		parent.Get("other")
		return nil
	})
	require.NoError(t, err)

	old := parent.Get("child").(*reactive.ObservedObject)
	require.NoError(t, parent.Set("child", map[string]any{"x": 2}))
	assert.Equal(t, 2, runs)
	assert.Empty(t, rs.Path(old))

	require.NoError(t, old.Set("x", 9))
	assert.Equal(t, 2, runs)

	current := parent.Get("child").(*reactive.ObservedObject)
	require.NoError(t, current.Set("x", 3))
	assert.Equal(t, 3, runs)

	other := parent.Get("other").(*reactive.ObservedObject)
	deleted, err := parent.Delete("other")
	require.NoError(t, err)
	require.True(t, deleted)
	assert.Equal(t, 4, runs)

	require.NoError(t, other.Set("y", 2))
	assert.Equal(t, 4, runs)
}

// should warn when a container is linked under two live parents and bubble
// to the most recent one
func TestMultipleParentsWarns(t *testing.T) {
	rs, logs := newLoggedSystem(t)
	child := reactive.NewObject(map[string]any{"v": 1})
	p1 := object(t, rs, nil)
	p2 := object(t, rs, nil)

	p1Runs, p2Runs := 0, 0
	_, err := reactive.Effect(rs, func() error {
		p1Runs++
		p1.Get("c")
		return nil
	})
	require.NoError(t, err)
	_, err = reactive.Effect(rs, func() error {
		p2Runs++
		p2.Get("c")
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, p1.Set("c", child))
	require.NoError(t, p2.Set("c", child))
	assert.True(t, strings.Contains(logs.String(), "multiple parents"), logs.String())

	require.NoError(t, rs.Object(child).Set("v", 2))
	assert.Equal(t, 2, p1Runs)
	assert.Equal(t, 3, p2Runs)
}

func TestSelfReferenceDoesNotLoop(t *testing.T) {
	rs := newSystem(t)
	raw := reactive.NewObject(map[string]any{"v": 1})
	raw.Set("self", raw)
	w := rs.Object(raw)

	runs := 0
	_, err := reactive.Effect(rs, func() error {
		runs++
		w.Get("self")
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, w.Set("v", 2))
	assert.Equal(t, 1, runs)
	assert.Empty(t, rs.Path(w))
}
