package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/delaneyj/quanta/reactive"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

func main() {
	log.Print("Starting batch benchmark, please wait...")
	defer log.Print("Finished batch benchmark")

	perfTestCfgs := []benchmarkTestConfig{
		{
			name:        "few readers",
			size:        10,
			subscribers: 2,
			mutations:   5,
			readAll:     false,
			iterations:  20000,
		},
		{
			name:        "many readers",
			size:        100,
			subscribers: 100,
			mutations:   5,
			readAll:     false,
			iterations:  2000,
		},
		{
			name:        "full scans",
			size:        1000,
			subscribers: 10,
			mutations:   10,
			readAll:     true,
			iterations:  200,
		},
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{
		"mode", "size", "subscribers", "mutations",
		"nTimes", "test", "time", "effectRuns", "updateRate",
	})

	testRepeats := 5
	for _, cfg := range perfTestCfgs {
		for _, batched := range []bool{false, true} {
			mode := "unbatched"
			if batched {
				mode = "batched"
			}
			log.Printf("Running '%s' config %s", cfg.name, mode)

			var best *results
			for i := 0; i < testRepeats; i++ {
				r, err := benchmarkRun(cfg, batched)
				if err != nil {
					log.Fatal(err)
				}
				if best == nil || r.duration < best.duration {
					best = r
				}
			}

			updateRate := float64(cfg.iterations*cfg.mutations) / (float64(best.duration) / float64(time.Millisecond))

			table.Append([]string{
				mode,                              // mode
				fmt.Sprint(cfg.size),              // size
				fmt.Sprint(cfg.subscribers),       // subscribers
				fmt.Sprint(cfg.mutations),         // mutations
				humanize.Comma(cfg.iterations),    // nTimes
				cfg.name,                          // test
				fmt.Sprint(best.duration),         // time
				humanize.Comma(best.runs),         // effectRuns
				humanize.Comma(int64(updateRate)), // updateRate
			})
		}
	}
	table.Render()
}

type benchmarkTestConfig struct {
	name        string // friendly name for the test, should be unique
	size        int    // initial array length
	subscribers int    // effects reading the array
	mutations   int64  // push/pop pairs per iteration
	readAll     bool   // subscribers read every element instead of the length
	iterations  int64  // number of test iterations
}

type results struct {
	duration time.Duration
	runs     int64
}

func benchmarkRun(cfg benchmarkTestConfig, batched bool) (*results, error) {
	rs := reactive.CreateReactiveSystem(reactive.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	items := make([]any, cfg.size)
	for i := range items {
		items[i] = i
	}
	arr := rs.Array(reactive.NewArray(items...))

	var runs int64
	for i := 0; i < cfg.subscribers; i++ {
		_, err := reactive.Effect(rs, func() error {
			runs++
			if cfg.readAll {
				arr.Values()
			} else {
				arr.Len()
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	runs = 0

	mutate := func() error {
		for m := int64(0); m < cfg.mutations; m++ {
			if _, err := arr.Push(m); err != nil {
				return err
			}
		}
		for m := int64(0); m < cfg.mutations; m++ {
			if _, err := arr.Pop(); err != nil {
				return err
			}
		}
		return nil
	}

	start := time.Now()
	for i := int64(0); i < cfg.iterations; i++ {
		var err error
		if batched {
			err = rs.Batch(mutate)
		} else {
			err = mutate()
		}
		if err != nil {
			return nil, err
		}
	}
	return &results{duration: time.Since(start), runs: runs}, nil
}
