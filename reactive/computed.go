package reactive

// ComputedValue is a derived value. Upstream changes only mark it dirty and
// notify its readers; the getter runs again on the next Value.
type ComputedValue[T any] struct {
	header
	rs     *ReactiveSystem
	getter func() (T, error)
	value  T
	dirty  bool
	runner *EffectRunner
}

// Computed evaluates getter once inside an effect so its reads are tracked.
// The computed is returned even when that first evaluation fails; it stays
// dirty and the next Value retries.
func Computed[T any](rs *ReactiveSystem, getter func() (T, error), opts ...EffectOption) (*ComputedValue[T], error) {
	c := &ComputedValue[T]{
		rs:     rs,
		getter: getter,
		dirty:  true,
	}
	c.runner = rs.newEffect(c.evaluate, funcName(getter), opts...)
	c.runner.scheduler = c.invalidate

	if err := rs.runEffect(c.runner); err != nil {
		rs.logger.Error("computed: initial evaluation failed", "computed", c.runner.name, "error", err)
		return c, err
	}
	return c, nil
}

func (c *ComputedValue[T]) evaluate() error {
	v, err := c.getter()
	if err != nil {
		return err
	}
	c.value = v
	c.dirty = false
	return nil
}

func (c *ComputedValue[T]) invalidate() error {
	c.dirty = true
	return c.rs.Trigger(c, ValueKey)
}

// Value returns the current value, recomputing first when an upstream slot
// changed since the last evaluation. The caller is subscribed to the value.
func (c *ComputedValue[T]) Value() (T, error) {
	if c.dirty && !c.runner.stopped {
		if err := c.rs.runEffect(c.runner); err != nil {
			c.rs.logger.Error("computed: evaluation failed", "computed", c.runner.name, "error", err)
			return c.value, err
		}
	}
	c.rs.Track(c, ValueKey)
	return c.value, nil
}

func (c *ComputedValue[T]) Dirty() bool {
	return c.dirty
}

func (c *ComputedValue[T]) Runner() *EffectRunner {
	return c.runner
}

// Stop detaches the computed from its upstream slots. Value keeps returning
// the last computed value.
func (c *ComputedValue[T]) Stop() {
	c.runner.Stop()
}
