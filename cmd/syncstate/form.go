package main

import (
	"fmt"
	"io"

	"github.com/AnatoleLucet/syncstate"
	"github.com/spf13/cobra"
)

// formResult is what a two-field validation reports.
type formResult struct {
	// InTurn is the form validity read right after validating both fields.
	InTurn bool
	// Committed is the validity effects saw once the turn was flushed.
	Committed bool
	// Renders lists the validity values a render effect painted.
	Renders []bool
}

func formCmd(logOpts *logOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "form",
		Short: "Validate a two-field form with signals, then with cells",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, closer, err := newLogger(logOpts)
			if err != nil {
				return err
			}
			defer closer.Close()

			syncstate.Configure(syncstate.WithLogger(logger))

			out := cmd.OutOrStdout()
			printForm(out, "signals", validateWithSignals())
			printForm(out, "cells", validateWithCells())

			return nil
		},
	}
}

func printForm(out io.Writer, name string, res formResult) {
	fmt.Fprintf(out, "%-8s valid in turn: %-5t  committed: %-5t  renders: %v\n",
		name, res.InTurn, res.Committed, res.Renders)
}

// validateWithSignals reads the fields back from plain signals inside the
// turn that wrote them, so it validates against stale values.
func validateWithSignals() formResult {
	var res formResult

	owner := syncstate.NewOwner()
	defer owner.Dispose()

	_ = owner.Run(func() error {
		first := syncstate.NewSignal(false)
		second := syncstate.NewSignal(false)
		valid := syncstate.NewSignal(false)

		syncstate.NewRenderEffect(func() {
			res.Renders = append(res.Renders, valid.Read())
		})

		validateForm := func() { valid.Write(first.Read() && second.Read()) }

		syncstate.NewBatch(func() {
			first.Write(true)
			validateForm()
			second.Write(true)
			validateForm()

			res.InTurn = valid.Read()
		})

		res.Committed = valid.Read()
		return nil
	})

	return res
}

// validateWithCells runs the same handler on cells.
func validateWithCells() formResult {
	var res formResult

	owner := syncstate.NewOwner()
	defer owner.Dispose()

	_ = owner.Run(func() error {
		first := syncstate.NewCell(false)
		second := syncstate.NewCell(false)
		valid := syncstate.NewCell(false)

		syncstate.NewRenderEffect(func() {
			res.Renders = append(res.Renders, valid.Committed())
		})

		validateForm := func() { valid.Set(first.Get() && second.Get()) }

		syncstate.NewBatch(func() {
			first.Set(true)
			validateForm()
			second.Set(true)
			validateForm()

			res.InTurn = valid.Get()
		})

		res.Committed = valid.Committed()
		return nil
	})

	return res
}
