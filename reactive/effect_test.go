package reactive_test

import (
	"errors"
	"testing"

	"github.com/delaneyj/quanta/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// should log the initial value and every change
func TestEffectLogsCount(t *testing.T) {
	rs := newSystem(t)
	state := object(t, rs, map[string]any{"count": 0})

	var logged []any
	_, err := reactive.Effect(rs, func() error {
		logged = append(logged, state.Get("count"))
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, state.Set("count", 1))
	assert.Equal(t, []any{0, 1}, logged)
}

// should re-run once per change and never for a same value write
func TestEffectReadRegistersWriteNotifies(t *testing.T) {
	rs := newSystem(t)
	w := object(t, rs, map[string]any{"a": 1})

	runs := 0
	_, err := reactive.Effect(rs, func() error {
		runs++
		w.Get("a")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, runs)

	require.NoError(t, w.Set("a", 2))
	assert.Equal(t, 2, runs)
	require.NoError(t, w.Set("a", 2))
	assert.Equal(t, 2, runs)
}

// should fail fast when an effect writes a slot it reads
func TestEffectDirectCycle(t *testing.T) {
	rs := newSystem(t)
	w := object(t, rs, map[string]any{"n": 0})

	_, err := reactive.Effect(rs, func() error {
		n := w.Get("n").(int)
		return w.Set("n", n+1)
	}, reactive.WithEffectName("increment"))
	require.ErrorIs(t, err, reactive.ErrCycle)

	var cycleErr *reactive.CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, "increment", cycleErr.Effect)
	assert.Equal(t, []string{"increment", "increment"}, cycleErr.Path)

	stats := rs.Stats()
	assert.Zero(t, stats.StackDepth)
	assert.False(t, rs.Batching())
}

// should fail fast when a nested write bubbles back to the effect's own slot
func TestEffectBubbledCycle(t *testing.T) {
	rs := newSystem(t)
	parent := object(t, rs, map[string]any{
		"child": map[string]any{"x": 1},
	})

	_, err := reactive.Effect(rs, func() error {
		child := parent.Get("child").(*reactive.ObservedObject)
		return child.Set("x", 2)
	})
	require.ErrorIs(t, err, reactive.ErrCycle)
}

// should keep running the remaining subscribers when one fails
func TestEffectSubscriberIsolation(t *testing.T) {
	boom := errors.New("boom")
	var handled []error
	rs := newSystem(t, reactive.WithErrorHandler(func(from *reactive.EffectRunner, err error) {
		handled = append(handled, err)
	}))
	w := object(t, rs, map[string]any{"a": 1})

	_, err := reactive.Effect(rs, func() error {
		if w.Get("a") == 2 {
			return boom
		}
		return nil
	})
	require.NoError(t, err)

	runs := 0
	_, err = reactive.Effect(rs, func() error {
		runs++
		w.Get("a")
		return nil
	})
	require.NoError(t, err)

	err = w.Set("a", 2)
	require.ErrorIs(t, err, boom)

	var interceptErr *reactive.InterceptError
	require.ErrorAs(t, err, &interceptErr)
	assert.Equal(t, "set", interceptErr.Op)
	assert.Equal(t, "a", interceptErr.Key)

	assert.Equal(t, 2, runs)
	require.Len(t, handled, 1)
	assert.ErrorIs(t, handled[0], boom)
}

// should not re-run after stop
func TestEffectStop(t *testing.T) {
	rs := newSystem(t)
	w := object(t, rs, map[string]any{"a": 1})

	runs := 0
	e, err := reactive.Effect(rs, func() error {
		runs++
		w.Get("a")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, e.Dependencies())

	e.Stop()
	assert.True(t, e.Stopped())
	assert.Zero(t, e.Dependencies())

	require.NoError(t, w.Set("a", 2))
	require.NoError(t, e.Run())
	assert.Equal(t, 1, runs)
}

// should not resubscribe a runner that stopped itself mid run
func TestEffectStoppedDuringRun(t *testing.T) {
	rs := newSystem(t)
	w := object(t, rs, map[string]any{"a": 1, "b": 1})

	stop := false
	runs := 0
	var e *reactive.EffectRunner
	e, err := reactive.Effect(rs, func() error {
		runs++
		if stop {
			e.Stop()
		}
		w.Get("a")
		w.Get("b")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, e.Dependencies())

	stop = true
	require.NoError(t, w.Set("a", 2))
	assert.Equal(t, 2, runs)
	assert.True(t, e.Stopped())
	assert.Zero(t, e.Dependencies())
	assert.Zero(t, rs.Stats().Subscriptions)

	require.NoError(t, w.Set("b", 2))
	assert.Equal(t, 2, runs)
}

// should not subscribe to reads made while untracked
func TestEffectUntrack(t *testing.T) {
	rs := newSystem(t)
	w := object(t, rs, map[string]any{"a": 1, "b": 1})

	runs := 0
	_, err := reactive.Effect(rs, func() error {
		runs++
		w.Get("a")
		return rs.Untrack(func() error {
			w.Get("b")
			return nil
		})
	})
	require.NoError(t, err)

	require.NoError(t, w.Set("b", 2))
	assert.Equal(t, 1, runs)
	require.NoError(t, w.Set("a", 2))
	assert.Equal(t, 2, runs)
}

// should run inner effects independently of the outer one
func TestEffectNested(t *testing.T) {
	rs := newSystem(t)
	w := object(t, rs, map[string]any{"outer": 1, "inner": 1})

	outerRuns, innerRuns := 0, 0
	_, err := reactive.Effect(rs, func() error {
		outerRuns++
		w.Get("outer")
		if outerRuns > 1 {
			return nil
		}
		_, err := reactive.Effect(rs, func() error {
			innerRuns++
			w.Get("inner")
			return nil
		})
		return err
	})
	require.NoError(t, err)

	require.NoError(t, w.Set("inner", 2))
	assert.Equal(t, 1, outerRuns)
	assert.Equal(t, 2, innerRuns)

	require.NoError(t, w.Set("outer", 2))
	assert.Equal(t, 2, outerRuns)
	assert.Equal(t, 2, innerRuns)
}

// should notify every subscriber of a dependency
func TestDependencyNotify(t *testing.T) {
	rs := newSystem(t)
	raw := reactive.NewObject(nil)

	runs := 0
	e, err := reactive.Effect(rs, func() error {
		runs++
		rs.Track(raw, "manual")
		return nil
	})
	require.NoError(t, err)

	dep := rs.Dependency(raw, "manual")
	assert.Equal(t, 1, dep.Len())
	assert.Equal(t, []*reactive.EffectRunner{e}, dep.Subscribers())

	require.NoError(t, dep.Notify())
	assert.Equal(t, 2, runs)

	require.NoError(t, rs.Trigger(raw, "manual"))
	assert.Equal(t, 3, runs)

	dep.Clear()
	assert.Zero(t, dep.Len())
	assert.Zero(t, e.Dependencies())
	require.NoError(t, rs.Trigger(raw, "manual"))
	assert.Equal(t, 3, runs)
}

// should reject keys that cannot be compared
func TestUnhashableKeys(t *testing.T) {
	rs := newSystem(t)
	raw := reactive.NewObject(nil)

	assert.Panics(t, func() {
		rs.Track(raw, []int{1})
	})

	err := rs.Trigger(raw, map[string]int{})
	require.ErrorIs(t, err, reactive.ErrUnhashableKey)
}
