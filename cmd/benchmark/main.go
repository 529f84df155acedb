package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"runtime/pprof"
	"time"

	"github.com/delaneyj/quanta/reactive"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
)

var (
	profile = flag.String("profile", "default.pgo", "write a CPU profile to this file, empty to disable")
	iters   = flag.Int("iters", 100, "updates measured per configuration")
)

var (
	ww = []int{1, 10, 100}
	hh = []int{1, 10, 100}
)

func main() {
	flag.Parse()

	if *profile != "" {
		f, err := os.Create(*profile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	log.Printf("warming up")

	benchmarkPropagate(true)
	benchmarkBubble(true)
}

func newSystem() *reactive.ReactiveSystem {
	return reactive.CreateReactiveSystem(
		reactive.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		reactive.WithErrorHandler(func(from *reactive.EffectRunner, err error) {
			log.Panic(err)
		}),
	)
}

func newTable(title string) table.Writer {
	tbl := table.NewWriter()
	tbl.SetTitle(title)
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})
	return tbl
}

func appendResult(tbl table.Writer, name string, tach *tachymeter.Tachymeter) {
	calc := tach.Calc()
	tbl.AppendRows([]table.Row{
		{
			name,
			calc.Time.Avg,
			calc.Time.Min,
			calc.Time.P75,
			calc.Time.P99,
			calc.Time.Max,
		},
	})
}

// benchmarkPropagate measures a write to one field read by w chains of h
// computed values, each ending in an effect.
func benchmarkPropagate(shouldRender bool) {
	tbl := newTable("Computed propagation")

	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: *iters})

			rs := newSystem()
			src := rs.Object(reactive.NewObject(map[string]any{"v": 1}))
			for i := 0; i < w; i++ {
				last, err := reactive.Computed(rs, func() (int, error) {
					return src.Get("v").(int) + 1, nil
				})
				if err != nil {
					log.Fatal(err)
				}
				for j := 1; j < h; j++ {
					prev := last
					last, err = reactive.Computed(rs, func() (int, error) {
						v, err := prev.Value()
						return v + 1, err
					})
					if err != nil {
						log.Fatal(err)
					}
				}

				tail := last
				if _, err := reactive.Effect(rs, func() error {
					_, err := tail.Value()
					return err
				}); err != nil {
					log.Fatal(err)
				}
			}

			for i := 0; i < *iters; i++ {
				start := time.Now()
				if err := src.Set("v", src.Get("v").(int)+1); err != nil {
					log.Fatal(err)
				}
				tach.AddTime(time.Since(start))
			}

			appendResult(tbl, fmt.Sprintf("propagate: %d * %d", w, h), tach)
		}
	}

	if shouldRender {
		tbl.Render()
	}
}

// benchmarkBubble measures a write at the bottom of an h deep object tree
// watched by w effects reading only the root slot.
func benchmarkBubble(shouldRender bool) {
	tbl := newTable("Nested bubbling")

	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: *iters})

			rs := newSystem()
			root := rs.Object(reactive.NewObject(nil))
			leaf := root
			for j := 0; j < h; j++ {
				if err := leaf.Set("next", map[string]any{"v": 0}); err != nil {
					log.Fatal(err)
				}
				leaf = leaf.Get("next").(*reactive.ObservedObject)
			}

			for i := 0; i < w; i++ {
				if _, err := reactive.Effect(rs, func() error {
					root.Get("next")
					return nil
				}); err != nil {
					log.Fatal(err)
				}
			}

			for i := 0; i < *iters; i++ {
				start := time.Now()
				if err := leaf.Set("v", i+1); err != nil {
					log.Fatal(err)
				}
				tach.AddTime(time.Since(start))
			}

			appendResult(tbl, fmt.Sprintf("bubble: %d * %d", w, h), tach)
		}
	}

	if shouldRender {
		tbl.Render()
	}
}
