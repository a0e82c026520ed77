package parallel

import (
	"sync/atomic"
	"testing"
)

func TestFor(t *testing.T) {
	cfg := DefaultConfig()

	var counter int64
	n := 1000

	For(n, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	if counter != int64(n) {
		t.Errorf("Expected %d, got %d", n, counter)
	}
}

func TestFor_EveryIndexOnce(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinChunkSize = 1

	n := 500
	hits := make([]int32, n)
	For(n, func(i int) {
		atomic.AddInt32(&hits[i], 1)
	}, cfg)

	for i, h := range hits {
		if h != 1 {
			t.Errorf("Index %d executed %d times", i, h)
		}
	}
}

func TestFor_Sequential(t *testing.T) {
	cfg := Sequential()

	var counter int64
	For(100, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	if counter != 100 {
		t.Errorf("Expected 100, got %d", counter)
	}
}

func TestFor_SmallChunk(t *testing.T) {
	// Small work units fall back to sequential execution.
	cfg := DefaultConfig()

	var counter int64
	n := cfg.MinChunkSize - 1

	For(n, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	if counter != int64(n) {
		t.Errorf("Expected %d, got %d", n, counter)
	}
}

func TestAddFloat32_Concurrent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinChunkSize = 1

	var sum float32
	n := 10000
	For(n, func(_ int) {
		AddFloat32(&sum, 1)
	}, cfg)

	if sum != float32(n) {
		t.Errorf("Expected %d, got %v", n, sum)
	}
}

func TestAddFloat64_Concurrent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinChunkSize = 1

	var sum float64
	n := 10000
	For(n, func(_ int) {
		AddFloat64(&sum, 0.5)
	}, cfg)

	if sum != float64(n)/2 {
		t.Errorf("Expected %v, got %v", float64(n)/2, sum)
	}
}

func BenchmarkFor(b *testing.B) {
	cfg := DefaultConfig()
	n := 10000

	b.Run("parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum int64
			For(n, func(i int) {
				atomic.AddInt64(&sum, int64(i))
			}, cfg)
		}
	})

	b.Run("sequential", func(b *testing.B) {
		cfgSeq := Sequential()
		for i := 0; i < b.N; i++ {
			var sum int64
			For(n, func(i int) {
				sum += int64(i)
			}, cfgSeq)
		}
	})
}
