package reactive

import (
	"errors"
	"reflect"
	"runtime"
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

type ErrFn func() error

// EffectRunner is a re-runnable computation. While it runs it is the active
// effect and every tracked read subscribes it.
type EffectRunner struct {
	rs   *ReactiveSystem
	name string
	fn   ErrFn
	// scheduler, when set, is what a trigger calls instead of re-running fn.
	scheduler ErrFn
	deps      mapset.Set[*Dependency]
	stopped   bool
}

type EffectOption func(*EffectRunner)

func WithEffectName(name string) EffectOption {
	return func(e *EffectRunner) {
		if name != "" {
			e.name = name
		}
	}
}

// Effect runs fn immediately and re-runs it whenever a slot it read is
// triggered. The runner is returned even when the first run fails.
func Effect(rs *ReactiveSystem, fn ErrFn, opts ...EffectOption) (*EffectRunner, error) {
	e := rs.newEffect(fn, funcName(fn), opts...)
	return e, rs.runEffect(e)
}

func (rs *ReactiveSystem) newEffect(fn ErrFn, name string, opts ...EffectOption) *EffectRunner {
	e := &EffectRunner{
		rs:   rs,
		name: name,
		fn:   fn,
		deps: mapset.NewThreadUnsafeSet[*Dependency](),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *EffectRunner) Name() string {
	return e.name
}

func (e *EffectRunner) Run() error {
	if e.stopped {
		return nil
	}
	return e.rs.runEffect(e)
}

// Stop unsubscribes the runner from every slot it depends on. A stopped
// runner never runs again.
func (e *EffectRunner) Stop() {
	e.stopped = true
	for _, d := range e.deps.ToSlice() {
		d.Remove(e)
	}
}

func (e *EffectRunner) Stopped() bool {
	return e.stopped
}

// Dependencies is the number of slots the runner is subscribed to.
func (e *EffectRunner) Dependencies() int {
	return e.deps.Cardinality()
}

func (e *EffectRunner) schedule() error {
	if e.scheduler != nil {
		return e.scheduler()
	}
	return e.rs.runEffect(e)
}

func (rs *ReactiveSystem) runEffect(e *EffectRunner) error {
	if rs.onStack(e) {
		return rs.cycle(e)
	}

	prevSub := rs.activeSub
	rs.stack = append(rs.stack, e)
	rs.activeSub = e
	defer func() {
		rs.stack = rs.stack[:len(rs.stack)-1]
		rs.activeSub = prevSub
	}()

	rs.metrics.EffectRan(e.name)
	if err := e.fn(); err != nil {
		if !errors.Is(err, ErrCycle) {
			rs.logger.Error("effect: effect failed",
				"effect", e.name,
				"error", err,
				"stack", strings.Join(rs.stackNames(), " -> "),
			)
		}
		return err
	}
	return nil
}

// onStack scans the whole stack, an effect deeper down re-entered through a
// nested effect is as much a cycle as the top one.
func (rs *ReactiveSystem) onStack(e *EffectRunner) bool {
	return slices.Contains(rs.stack, e)
}

func (rs *ReactiveSystem) stackNames() []string {
	names := make([]string, 0, len(rs.stack)+1)
	for _, s := range rs.stack {
		names = append(names, s.name)
	}
	return names
}

func (rs *ReactiveSystem) cycle(e *EffectRunner) error {
	path := append(rs.stackNames(), e.name)
	rs.logger.Error("effect: circular dependency detected",
		"effect", e.name,
		"path", strings.Join(path, " -> "),
		"depth", len(rs.stack),
	)
	rs.metrics.CycleDetected(e.name)
	return &CycleError{Effect: e.name, Path: path}
}

// fail isolates a subscriber failure so the remaining subscribers still run.
func (rs *ReactiveSystem) fail(e *EffectRunner, err error) {
	rs.logger.Warn("effect: subscriber failed, continuing", "effect", e.name, "error", err)
	rs.metrics.EffectFailed(e.name)
	if rs.onError != nil {
		rs.onError(e, err)
	}
}

func funcName(fn any) string {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return "anonymous"
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return "anonymous"
	}
	name := f.Name()
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	return name
}
