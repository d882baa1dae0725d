package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForm(t *testing.T) {
	t.Run("signals validate against stale values", func(t *testing.T) {
		res := validateWithSignals()

		assert.False(t, res.InTurn)
		assert.False(t, res.Committed)
		assert.Equal(t, []bool{false}, res.Renders)
	})

	t.Run("cells validate against their own writes", func(t *testing.T) {
		res := validateWithCells()

		assert.True(t, res.InTurn)
		assert.True(t, res.Committed)
		assert.Equal(t, []bool{false, true}, res.Renders)
	})

	t.Run("command output", func(t *testing.T) {
		var out bytes.Buffer

		cmd := newRootCmd()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"form", "--log-level", "warn"})

		assert.NoError(t, cmd.Execute())
		assert.Contains(t, out.String(), "signals  valid in turn: false")
		assert.Contains(t, out.String(), "cells    valid in turn: true")
	})
}

func TestBench(t *testing.T) {
	t.Run("every set reads back", func(t *testing.T) {
		res, err := runBench(context.Background(), benchOptions{workers: 3, cells: 2, writes: 5}, func() {})

		assert.NoError(t, err)
		assert.Equal(t, int64(3*2*5), res.Sets)
		// one initial render per cell, then one per turn
		assert.Equal(t, int64(3*2*(1+5)), res.Renders)
	})

	t.Run("stops on cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := runBench(ctx, benchOptions{workers: 2, cells: 1, writes: 10}, func() {})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("command output", func(t *testing.T) {
		var out bytes.Buffer
		logFile := filepath.Join(t.TempDir(), "bench.log")

		cmd := newRootCmd()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{
			"bench", "--workers", "2", "--cells", "3", "--writes", "10",
			"--log-level", "debug", "--log-format", "json", "--log-file", logFile,
		})

		assert.NoError(t, cmd.Execute())
		assert.Contains(t, out.String(), "sets:     60")
		assert.Contains(t, out.String(), "syncstate_signal_writes_total 60")
		assert.Contains(t, out.String(), `syncstate_values_cloned_total 60`)

		logs, err := os.ReadFile(logFile)
		assert.NoError(t, err)
		assert.Contains(t, string(logs), `"msg":"flushed"`)
	})

	t.Run("rejects bad flags", func(t *testing.T) {
		cmd := newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{"bench", "--workers", "0"})

		assert.Error(t, cmd.Execute())

		cmd = newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{"form", "--log-format", "xml"})

		assert.Error(t, cmd.Execute())
	})
}
