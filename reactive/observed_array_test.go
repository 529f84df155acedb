package reactive_test

import (
	"cmp"
	"testing"

	"github.com/delaneyj/quanta/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrayMutators(t *testing.T) {
	tests := []struct {
		name   string
		start  []any
		mutate func(a *reactive.ObservedArray) (any, error)
		result any
		want   []any
	}{
		{
			name:  "push",
			start: []any{1},
			mutate: func(a *reactive.ObservedArray) (any, error) {
				return a.Push(2, 3)
			},
			result: 3,
			want:   []any{1, 2, 3},
		},
		{
			name:  "pop",
			start: []any{1, 2},
			mutate: func(a *reactive.ObservedArray) (any, error) {
				return a.Pop()
			},
			result: 2,
			want:   []any{1},
		},
		{
			name:  "shift",
			start: []any{1, 2},
			mutate: func(a *reactive.ObservedArray) (any, error) {
				return a.Shift()
			},
			result: 1,
			want:   []any{2},
		},
		{
			name:  "unshift",
			start: []any{3},
			mutate: func(a *reactive.ObservedArray) (any, error) {
				return a.Unshift(1, 2)
			},
			result: 3,
			want:   []any{1, 2, 3},
		},
		{
			name:  "splice",
			start: []any{1, 2, 3, 4},
			mutate: func(a *reactive.ObservedArray) (any, error) {
				return a.Splice(-3, 2, "x")
			},
			result: []any{2, 3},
			want:   []any{1, "x", 4},
		},
		{
			name:  "sort",
			start: []any{3, 1, 2},
			mutate: func(a *reactive.ObservedArray) (any, error) {
				return nil, a.Sort(func(x, y any) int { return cmp.Compare(x.(int), y.(int)) })
			},
			want: []any{1, 2, 3},
		},
		{
			name:  "reverse",
			start: []any{1, 2, 3},
			mutate: func(a *reactive.ObservedArray) (any, error) {
				return nil, a.Reverse()
			},
			want: []any{3, 2, 1},
		},
		{
			name:  "fill",
			start: []any{1, 2, 3, 4},
			mutate: func(a *reactive.ObservedArray) (any, error) {
				return nil, a.Fill(0, 1, -1)
			},
			want: []any{1, 0, 0, 4},
		},
		{
			name:  "copyWithin",
			start: []any{1, 2, 3, 4, 5},
			mutate: func(a *reactive.ObservedArray) (any, error) {
				return nil, a.CopyWithin(0, 3, 5)
			},
			want: []any{4, 5, 3, 4, 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := newSystem(t)
			a := rs.Array(reactive.NewArray(tt.start...))

			runs := 0
			_, err := reactive.Effect(rs, func() error {
				runs++
				a.Values()
				return nil
			})
			require.NoError(t, err)

			result, err := tt.mutate(a)
			require.NoError(t, err)
			if tt.result != nil {
				assert.Equal(t, tt.result, result)
			}
			assert.Equal(t, tt.want, a.Values())
			assert.Equal(t, 2, runs, "one run per mutator call")
		})
	}
}

// should run a length subscriber once for five pushes in one batch
func TestArrayBatchedPushes(t *testing.T) {
	rs := newSystem(t)
	a := rs.Array(reactive.NewArray())

	runs := 0
	_, err := reactive.Effect(rs, func() error {
		runs++
		a.Len()
		return nil
	})
	require.NoError(t, err)

	err = rs.Batch(func() error {
		for i := range 5 {
			if _, err := a.Push(i); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, runs)
	assert.Equal(t, 5, a.Len())

	// unbatched, every push is its own change
	for i := range 3 {
		_, err := a.Push(i)
		require.NoError(t, err)
	}
	assert.Equal(t, 5, runs)
}

func TestArrayEdges(t *testing.T) {
	rs := newSystem(t)
	a := rs.Array(reactive.NewArray(1))

	assert.Nil(t, a.At(5))
	assert.Nil(t, a.At(-1))
	require.ErrorIs(t, a.SetAt(1, 2), reactive.ErrIndexOutOfRange)

	v, err := a.Pop()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	v, err = a.Pop()
	require.NoError(t, err)
	assert.Nil(t, v)
	v, err = a.Shift()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestArraySetAt(t *testing.T) {
	rs := newSystem(t)
	a := rs.Array(reactive.NewArray(1, 2))

	var seen []any
	_, err := reactive.Effect(rs, func() error {
		seen = append(seen, a.At(1))
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, a.SetAt(0, 10))
	require.NoError(t, a.SetAt(1, 2))
	require.NoError(t, a.SetAt(1, 20))
	assert.Equal(t, []any{2, 20}, seen)
}

// should bubble from an element moved by a mutator to its new index
func TestArrayRelinksMovedElements(t *testing.T) {
	rs := newSystem(t)
	a := rs.Array(reactive.NewArray(
		map[string]any{"id": 1},
		map[string]any{"id": 2},
	))

	var firstIDs []any
	_, err := reactive.Effect(rs, func() error {
		firstIDs = append(firstIDs, a.At(0).(*reactive.ObservedObject).Get("id"))
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, a.Reverse())
	assert.Equal(t, []any{1, 2}, firstIDs)

	second := a.At(1).(*reactive.ObservedObject)
	assert.Equal(t, []any{1}, rs.Path(second))
}

// should stop bubbling from an element removed by a mutator
func TestArrayRemovedElementsDetach(t *testing.T) {
	rs := newSystem(t)
	a := rs.Array(reactive.NewArray(map[string]any{"y": 1}))

	runs := 0
	_, err := reactive.Effect(rs, func() error {
		runs++
		a.At(0)
		return nil
	})
	require.NoError(t, err)

	popped, err := a.Pop()
	require.NoError(t, err)
	assert.Equal(t, 2, runs)
	assert.Empty(t, rs.Path(popped.(*reactive.ObservedObject)))

	require.NoError(t, popped.(*reactive.ObservedObject).Set("y", 2))
	assert.Equal(t, 2, runs)
}
