package syncstate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatch(t *testing.T) {
	t.Run("batches multiple writes", func(t *testing.T) {
		log := []string{}

		count := NewSignal(0)

		NewEffect(func() {
			log = append(log, fmt.Sprintf("changed %d", count.Read()))

			OnCleanup(func() {
				log = append(log, "cleanup")
			})
		})

		NewBatch(func() {
			count.Write(10)
			count.Write(20)
			log = append(log, "updated")
		})

		assert.Equal(t, []string{
			"changed 0",
			"updated",
			"cleanup",
			"changed 20",
		}, log)
	})

	t.Run("reads inside a batch are stale", func(t *testing.T) {
		log := []string{}

		count := NewSignal(0)
		double := NewSignal(0)

		NewEffect(func() {
			log = append(log, fmt.Sprintf("count %d", count.Read()))

			OnCleanup(func() {
				log = append(log, "count cleanup")
			})
		})

		NewEffect(func() {
			log = append(log, fmt.Sprintf("double %d", double.Read()))

			OnCleanup(func() {
				log = append(log, "double cleanup")
			})
		})

		NewBatch(func() {
			count.Write(10)
			double.Write(count.Read() * 2) // count is still 0 here
			log = append(log, "updated")
		})

		assert.Equal(t, []string{
			"count 0",
			"double 0",
			"updated",
			"count cleanup",
			"count 10",
		}, log)
	})

	t.Run("cells read their own writes inside a batch", func(t *testing.T) {
		log := []string{}

		count := NewCell(0)
		double := NewCell(0)

		NewEffect(func() {
			log = append(log, fmt.Sprintf("count %d", count.Committed()))
		})

		NewEffect(func() {
			log = append(log, fmt.Sprintf("double %d", double.Committed()))
		})

		NewBatch(func() {
			count.Set(10)
			double.Set(count.Get() * 2)
			log = append(log, "updated")
		})

		assert.Equal(t, []string{
			"count 0",
			"double 0",
			"updated",
			"count 10",
			"double 20",
		}, log)
	})

	t.Run("flush inside a batch", func(t *testing.T) {
		count := NewSignal(0)

		NewBatch(func() {
			count.Write(10)
			assert.Equal(t, 0, count.Read())

			Flush()
			assert.Equal(t, 10, count.Read())
		})
	})

	t.Run("flushes when the batch panics", func(t *testing.T) {
		count := NewSignal(0)

		assert.Panics(t, func() {
			NewBatch(func() {
				count.Write(10)
				panic("oops")
			})
		})

		assert.Equal(t, 10, count.Read())
	})

	t.Run("nested batches", func(t *testing.T) {
		log := []string{}

		count := NewSignal(0)

		NewEffect(func() {
			log = append(log, fmt.Sprintf("changed %d", count.Read()))

			OnCleanup(func() {
				log = append(log, "cleanup")
			})
		})

		NewBatch(func() {
			count.Write(10)
			NewBatch(func() {
				count.Write(20)
			})
			log = append(log, "updated")
		})

		assert.Equal(t, []string{
			"changed 0",
			"updated",
			"cleanup",
			"changed 20",
		}, log)
	})
}
