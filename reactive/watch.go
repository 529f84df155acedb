package reactive

import (
	mapset "github.com/deckarep/golang-set/v2"
)

type watchOptions struct {
	deep      bool
	immediate bool
	name      string
}

type WatchOption func(*watchOptions)

// WithDeep makes the watch subscribe to every slot reachable from the
// source's result, and fire on every change beneath it.
func WithDeep() WatchOption {
	return func(o *watchOptions) {
		o.deep = true
	}
}

func WithImmediate(immediate bool) WatchOption {
	return func(o *watchOptions) {
		o.immediate = immediate
	}
}

func WithWatchName(name string) WatchOption {
	return func(o *watchOptions) {
		o.name = name
	}
}

type Watcher struct {
	runner *EffectRunner
}

func (w *Watcher) Runner() *EffectRunner {
	return w.runner
}

func (w *Watcher) Stop() {
	w.runner.Stop()
}

// Watch runs source in an effect and calls cb with the new and previous
// value whenever it changes. The first run records the baseline and, unless
// WithImmediate(false) is given, calls cb with the zero value as old. cb runs
// untracked.
func Watch[T any](rs *ReactiveSystem, source func() (T, error), cb func(value, old T) error, opts ...WatchOption) (*Watcher, error) {
	o := watchOptions{immediate: true, name: funcName(source)}
	for _, opt := range opts {
		opt(&o)
	}

	var (
		old         T
		initialized bool
	)
	fn := func() error {
		v, err := source()
		if err != nil {
			return err
		}
		if o.deep {
			rs.traverse(v, mapset.NewThreadUnsafeSet[uint64]())
		}

		if !initialized {
			initialized = true
			old = v
			if !o.immediate {
				return nil
			}
			var zero T
			return rs.Untrack(func() error { return cb(v, zero) })
		}

		if !o.deep && SameValue(v, old) {
			return nil
		}
		prev := old
		old = v
		return rs.Untrack(func() error { return cb(v, prev) })
	}

	w := &Watcher{runner: rs.newEffect(fn, o.name)}
	if err := rs.runEffect(w.runner); err != nil {
		rs.logger.Error("watch: initial run failed", "watch", o.name, "error", err)
		return w, err
	}
	return w, nil
}

// traverse reads every slot under v so the active effect subscribes to all of
// them. seen guards against self-referencing structures.
func (rs *ReactiveSystem) traverse(v any, seen mapset.Set[uint64]) {
	w, ok := rs.wrap(v)
	if !ok {
		return
	}
	if !seen.Add(w.target().identity()) {
		return
	}

	switch w := w.(type) {
	case *ObservedObject:
		for _, k := range w.Keys() {
			rs.traverse(w.Get(k), seen)
		}
	case *ObservedArray:
		for _, item := range w.Values() {
			rs.traverse(item, seen)
		}
	case *ObservedMap:
		w.Range(func(_, value any) bool {
			rs.traverse(value, seen)
			return true
		})
	case *ObservedSet:
		for _, item := range w.Values() {
			rs.traverse(item, seen)
		}
	}
}
