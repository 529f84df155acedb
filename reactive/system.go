package reactive

import (
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
)

type OnErrorFunc func(from *EffectRunner, err error)

// Metrics receives engine events. Implementations must be cheap, they are
// called inline on every run.
type Metrics interface {
	EffectRan(effect string)
	EffectFailed(effect string)
	CycleDetected(effect string)
	Triggered()
	BatchFlushed(size int)
}

type noopMetrics struct{}

func (noopMetrics) EffectRan(string)     {}
func (noopMetrics) EffectFailed(string)  {}
func (noopMetrics) CycleDetected(string) {}
func (noopMetrics) Triggered()           {}
func (noopMetrics) BatchFlushed(int)     {}

// ReactiveSystem owns the dependency graph, the parent links, the effect
// stack and the batch queue. It is not safe for concurrent use.
type ReactiveSystem struct {
	id      uint64
	logger  *slog.Logger
	onError OnErrorFunc
	metrics Metrics

	deps    map[uint64]map[any]*Dependency
	parents map[uint64]parentLink
	arena   *arena

	activeSub  *EffectRunner
	stack      []*EffectRunner
	pauseStack []*EffectRunner

	batchDepth int
	queue      []*EffectRunner
	queued     mapset.Set[*EffectRunner]
}

type Option func(*ReactiveSystem)

func WithLogger(logger *slog.Logger) Option {
	return func(rs *ReactiveSystem) {
		if logger != nil {
			rs.logger = logger
		}
	}
}

func WithErrorHandler(onError OnErrorFunc) Option {
	return func(rs *ReactiveSystem) {
		rs.onError = onError
	}
}

func WithMetrics(m Metrics) Option {
	return func(rs *ReactiveSystem) {
		if m != nil {
			rs.metrics = m
		}
	}
}

var lastSystem atomic.Uint64

func CreateReactiveSystem(opts ...Option) *ReactiveSystem {
	rs := &ReactiveSystem{
		id:      lastSystem.Add(1),
		logger:  slog.Default(),
		metrics: noopMetrics{},
		deps:    map[uint64]map[any]*Dependency{},
		parents: map[uint64]parentLink{},
		arena:   newArena(),
		queued:  mapset.NewThreadUnsafeSet[*EffectRunner](),
	}
	for _, opt := range opts {
		opt(rs)
	}
	rs.logger = rs.logger.With("system", uuid.NewString())
	return rs
}

func (rs *ReactiveSystem) Logger() *slog.Logger {
	return rs.logger
}

func (rs *ReactiveSystem) StartBatch() {
	rs.batchDepth++
}

// EndBatch closes a batch window; closing the outermost one flushes the queue.
// Without an open batch it does nothing.
func (rs *ReactiveSystem) EndBatch() error {
	if rs.batchDepth == 0 {
		return nil
	}
	rs.batchDepth--
	if rs.batchDepth == 0 {
		return rs.flush()
	}
	return nil
}

func (rs *ReactiveSystem) Batching() bool {
	return rs.batchDepth > 0
}

// Batch runs fn with notifications deferred, then runs every queued effect
// once. A failing or panicking fn leaves no batch open and, when it was the
// outermost batch, no queued effects behind.
func (rs *ReactiveSystem) Batch(fn ErrFn) error {
	rs.StartBatch()
	done := false
	defer func() {
		if done {
			return
		}
		rs.batchDepth--
		if rs.batchDepth == 0 {
			rs.dropQueue()
		}
	}()

	if err := fn(); err != nil {
		rs.logger.Error("batch: processing failed", "error", err)
		return err
	}
	done = true
	return rs.EndBatch()
}

func (rs *ReactiveSystem) enqueue(e *EffectRunner) {
	if rs.queued.Add(e) {
		rs.queue = append(rs.queue, e)
	}
}

func (rs *ReactiveSystem) dropQueue() {
	rs.queue = nil
	rs.queued.Clear()
}

func (rs *ReactiveSystem) flush() error {
	queue := rs.queue
	rs.dropQueue()
	if len(queue) == 0 {
		return nil
	}
	rs.metrics.BatchFlushed(len(queue))
	return rs.run(queue)
}

func (rs *ReactiveSystem) PauseTracking() {
	rs.pauseStack = append(rs.pauseStack, rs.activeSub)
	rs.activeSub = nil
}

func (rs *ReactiveSystem) ResumeTracking() {
	lastIdx := len(rs.pauseStack) - 1
	rs.activeSub = rs.pauseStack[lastIdx]
	rs.pauseStack = rs.pauseStack[:lastIdx]
}

// Untrack runs fn without registering any reads for the active effect.
func (rs *ReactiveSystem) Untrack(fn ErrFn) error {
	rs.PauseTracking()
	defer rs.ResumeTracking()
	return fn()
}

type Stats struct {
	Targets       int
	Slots         int
	Subscriptions int
	ParentLinks   int
	StackDepth    int
	Queued        int
}

func (rs *ReactiveSystem) Stats() Stats {
	rs.sweep()
	s := Stats{
		Targets:     len(rs.deps),
		ParentLinks: len(rs.parents),
		StackDepth:  len(rs.stack),
		Queued:      len(rs.queue),
	}
	for _, slots := range rs.deps {
		s.Slots += len(slots)
		for _, dep := range slots {
			s.Subscriptions += dep.Len()
		}
	}
	return s
}

// arena tracks which containers the system has side-table entries for and
// collects the identities of those the garbage collector has reclaimed.
// release runs on the runtime's cleanup goroutine, everything else on the
// system's goroutine.
type arena struct {
	known   mapset.Set[uint64]
	pending atomic.Bool
	mu      sync.Mutex
	dead    []uint64
}

func newArena() *arena {
	return &arena{known: mapset.NewThreadUnsafeSet[uint64]()}
}

func (a *arena) release(id uint64) {
	a.mu.Lock()
	a.dead = append(a.dead, id)
	a.mu.Unlock()
	a.pending.Store(true)
}

func (a *arena) drain() []uint64 {
	if !a.pending.Swap(false) {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	dead := a.dead
	a.dead = nil
	return dead
}

// adopt registers h for eviction once per system and returns its identity.
func (rs *ReactiveSystem) adopt(h *header) uint64 {
	id := h.identity()
	if rs.arena.known.Add(id) {
		runtime.AddCleanup(h, rs.arena.release, id)
	}
	return id
}

func (rs *ReactiveSystem) live(id uint64) bool {
	return rs.arena.known.Contains(id)
}

func (rs *ReactiveSystem) sweep() {
	for _, id := range rs.arena.drain() {
		delete(rs.deps, id)
		delete(rs.parents, id)
		rs.arena.known.Remove(id)
	}
}
