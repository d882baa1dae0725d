package syncstate

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	mu sync.Mutex

	writes  int
	effects map[EffectType]int
	flushes []int
	clones  map[string]int
}

func newRecorder() *recorder {
	return &recorder{
		effects: make(map[EffectType]int),
		clones:  make(map[string]int),
	}
}

func (r *recorder) SignalWritten() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
}

func (r *recorder) EffectRan(typ EffectType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.effects[typ]++
}

func (r *recorder) Flushed(passes int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flushes = append(r.flushes, passes)
}

func (r *recorder) ValueCloned(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clones[kind]++
}

func TestConfigure(t *testing.T) {
	t.Run("observer sees runtime events", func(t *testing.T) {
		rec := newRecorder()
		Configure(WithObserver(rec))

		items := NewCell[[]int](nil)
		lookup := NewCell(map[string]int{})
		count := NewCell(0)

		NewRenderEffect(func() { items.Committed() })
		NewEffect(func() { count.Committed() })

		NewBatch(func() {
			items.Set([]int{1})
			lookup.Set(map[string]int{"a": 1})
			count.Set(1)
		})

		assert.Equal(t, 3, rec.writes)
		assert.Equal(t, map[string]int{"sequence": 1, "record": 1}, rec.clones)
		assert.Equal(t, map[EffectType]int{EffectRender: 2, EffectUser: 2}, rec.effects)
		assert.Equal(t, []int{1}, rec.flushes)
	})

	t.Run("only configures the calling goroutine", func(t *testing.T) {
		rec := newRecorder()
		Configure(WithObserver(rec))

		done := make(chan struct{})
		go func() {
			defer close(done)
			defer Release()

			NewSignal(0).Write(1)
		}()
		<-done

		assert.Equal(t, 0, rec.writes)
	})

	t.Run("caps runaway flushes", func(t *testing.T) {
		var buf bytes.Buffer
		Configure(
			WithMaxFlushPasses(3),
			WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
		)

		count := NewSignal(0)

		NewBatch(func() {
			NewEffect(func() {
				count.Write(count.Read() + 1)
			})
		})

		assert.Equal(t, 3, count.Read())
		assert.Contains(t, buf.String(), "flush pass limit reached")
	})

	t.Run("nil options fall back to defaults", func(t *testing.T) {
		Configure(WithLogger(nil), WithObserver(nil), WithTracer(nil), WithMaxFlushPasses(0))

		count := NewSignal(0)
		count.Write(1)

		assert.Equal(t, 1, count.Read())
	})
}
