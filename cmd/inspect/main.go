package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/delaneyj/quanta/cmd/inspect/templates"
	"github.com/delaneyj/quanta/pkg/inspect"
	"github.com/delaneyj/quanta/pkg/reactivemetrics"
	"github.com/delaneyj/quanta/reactive"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
)

const (
	fileKey    = "file"
	setKey     = "set"
	verboseKey = "verbose"
)

func fileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     fileKey,
		Aliases:  []string{"f"},
		Usage:    "JSON document to load, - for stdin",
		Value:    "-",
		Required: false,
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "inspect",
		Usage: "Load a JSON document into a reactive system and look at it",
		Commands: []*cli.Command{
			{
				Name:   "graph",
				Usage:  "Print the container tree as a Graphviz digraph",
				Flags:  []cli.Flag{fileFlag()},
				Action: graph,
			},
			{
				Name:   "report",
				Usage:  "Print the containers, their paths and a content fingerprint",
				Flags:  []cli.Flag{fileFlag()},
				Action: report,
			},
			{
				Name:  "apply",
				Usage: "Deep watch the document, apply path=value edits and print what fired",
				Flags: []cli.Flag{
					fileFlag(),
					&cli.StringSliceFlag{
						Name:  setKey,
						Usage: "edit as path=value, value is JSON or a bare string (repeatable)",
					},
					&cli.BoolFlag{
						Name:  verboseKey,
						Usage: "log engine debug output",
					},
				},
				Action: apply,
			},
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func load(cmd *cli.Command) (string, any, error) {
	name := cmd.String(fileKey)
	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(os.Stdin)
		name = "stdin"
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return "", nil, fmt.Errorf("read %s: %w", name, err)
	}

	doc, err := reactive.Decode(data)
	if err != nil {
		return "", nil, fmt.Errorf("load %s: %w", name, err)
	}
	return name, doc, nil
}

func graph(ctx context.Context, cmd *cli.Command) error {
	name, doc, err := load(cmd)
	if err != nil {
		return err
	}
	templates.WriteGraph(os.Stdout, filepath.Base(name), inspect.Walk(doc))
	return nil
}

func report(ctx context.Context, cmd *cli.Command) error {
	name, doc, err := load(cmd)
	if err != nil {
		return err
	}
	templates.WriteReport(os.Stdout, name, inspect.Fingerprint(doc), inspect.Walk(doc))
	return nil
}

func apply(ctx context.Context, cmd *cli.Command) error {
	start := time.Now()
	defer func() {
		log.Printf("apply finished in %v", time.Since(start))
	}()

	name, doc, err := load(cmd)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if cmd.Bool(verboseKey) {
		level = slog.LevelDebug
	}
	reg := prometheus.NewRegistry()
	rs := reactive.CreateReactiveSystem(
		reactive.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))),
		reactive.WithMetrics(reactivemetrics.New(reactivemetrics.WithRegistry(reg))),
	)

	root, err := rs.Wrap(doc)
	if err != nil {
		return fmt.Errorf("wrap %s: %w", name, err)
	}

	fired := 0
	watcher, err := reactive.Watch(rs, func() (reactive.Observed, error) {
		return root, nil
	}, func(value, old reactive.Observed) error {
		fired++
		log.Printf("change %d: fingerprint %x", fired, inspect.Fingerprint(value))
		return nil
	}, reactive.WithDeep(), reactive.WithImmediate(false), reactive.WithWatchName("document"))
	if err != nil {
		return err
	}
	defer watcher.Stop()

	edits, err := parseEdits(cmd.StringSlice(setKey))
	if err != nil {
		return err
	}
	for _, e := range edits {
		if err := e.apply(root); err != nil {
			return err
		}
	}

	renderStats(os.Stdout, rs.Stats(), fired)
	return renderMetrics(os.Stdout, reg)
}

func renderStats(w io.Writer, stats reactive.Stats, fired int) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"stat", "value"})
	table.Append([]string{"watch callbacks", humanize.Comma(int64(fired))})
	table.Append([]string{"targets", humanize.Comma(int64(stats.Targets))})
	table.Append([]string{"slots", humanize.Comma(int64(stats.Slots))})
	table.Append([]string{"subscriptions", humanize.Comma(int64(stats.Subscriptions))})
	table.Append([]string{"parent links", humanize.Comma(int64(stats.ParentLinks))})
	table.Render()
}

func renderMetrics(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"metric", "labels", "value"})
	for _, f := range families {
		for _, m := range f.GetMetric() {
			labels := ""
			for _, l := range m.GetLabel() {
				labels += l.GetName() + "=" + l.GetValue() + " "
			}
			var value float64
			switch {
			case m.GetCounter() != nil:
				value = m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				value = float64(m.GetHistogram().GetSampleCount())
			}
			table.Append([]string{f.GetName(), labels, humanize.Comma(int64(value))})
		}
	}
	table.Render()
	return nil
}
