package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync/atomic"
	"time"

	"github.com/AnatoleLucet/syncstate"
	"github.com/AnatoleLucet/syncstate/metrics"
	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type benchOptions struct {
	workers int
	cells   int
	writes  int
}

type benchResult struct {
	Sets    int64
	Renders int64
	Elapsed time.Duration
}

func benchCmd(logOpts *logOptions) *cobra.Command {
	var opts benchOptions

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Hammer cells from several goroutines and report throughput",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, closer, err := newLogger(logOpts)
			if err != nil {
				return err
			}
			defer closer.Close()

			if opts.workers < 1 || opts.cells < 1 || opts.writes < 0 {
				return fmt.Errorf("workers and cells must be positive, writes not negative")
			}

			reg := prometheus.NewRegistry()
			m := metrics.New(metrics.WithRegistry(reg))

			res, err := runBench(cmd.Context(), opts, func() {
				syncstate.Configure(
					syncstate.WithLogger(logger),
					syncstate.WithObserver(m),
				)
			})
			if err != nil {
				return fmt.Errorf("bench: %w", err)
			}

			out := cmd.OutOrStdout()
			printBench(out, res)

			return printCounters(out, reg)
		},
	}

	cmd.Flags().IntVar(&opts.workers, "workers", 4, "goroutines, each with its own runtime")
	cmd.Flags().IntVar(&opts.cells, "cells", 16, "cells per worker")
	cmd.Flags().IntVar(&opts.writes, "writes", 1000, "batched turns per worker")

	return cmd
}

// runBench starts one worker per goroutine. Each turn sets every cell of the
// worker to a fresh slice and checks the value reads back right away.
func runBench(ctx context.Context, opts benchOptions, setup func()) (benchResult, error) {
	var sets, renders atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	start := time.Now()

	for w := range opts.workers {
		g.Go(func() error {
			defer syncstate.Release()
			setup()

			owner := syncstate.NewOwner()
			defer owner.Dispose()

			return owner.Run(func() error {
				cells := make([]*syncstate.Cell[[]int], opts.cells)
				for i := range cells {
					cells[i] = syncstate.NewCell([]int{})

					c := cells[i]
					syncstate.NewRenderEffect(func() {
						c.Committed()
						renders.Add(1)
					})
				}

				for turn := range opts.writes {
					if err := ctx.Err(); err != nil {
						return err
					}

					var turnErr error
					syncstate.NewBatch(func() {
						for _, c := range cells {
							want := []int{w, turn}
							c.Set(want)
							sets.Add(1)

							if got := c.Get(); got[0] != w || got[1] != turn {
								turnErr = fmt.Errorf("worker %d turn %d: read %v after writing %v", w, turn, got, want)
								return
							}
						}
					})
					if turnErr != nil {
						return turnErr
					}
				}

				return nil
			})
		})
	}

	err := g.Wait()

	return benchResult{
		Sets:    sets.Load(),
		Renders: renders.Load(),
		Elapsed: time.Since(start),
	}, err
}

func printBench(out io.Writer, res benchResult) {
	var perSecond float64
	if res.Elapsed > 0 {
		perSecond = float64(res.Sets) / res.Elapsed.Seconds()
	}

	fmt.Fprintf(out, "sets:     %s\n", humanize.Comma(res.Sets))
	fmt.Fprintf(out, "renders:  %s\n", humanize.Comma(res.Renders))
	fmt.Fprintf(out, "elapsed:  %s\n", res.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(out, "sets/s:   %s\n", humanize.CommafWithDigits(perSecond, 0))
}

// printCounters prints the counters of the registry, summed over labels.
func printCounters(out io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	totals := make(map[string]float64)
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			if counter := metric.GetCounter(); counter != nil {
				totals[family.GetName()] += counter.GetValue()
			}
		}
	}

	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(out, "%s %s\n", name, humanize.Comma(int64(totals[name])))
	}

	return nil
}
