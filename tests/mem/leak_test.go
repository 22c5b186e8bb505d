//go:build test

package mem

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/bastiangx/sqlassist/internal/catalog"
	"github.com/bastiangx/sqlassist/pkg/fixturecatalog"
	"github.com/charmbracelet/log"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

var testMasks = []string{"u%", "o%", "us%", "ord%", "cu%", "pro%"}

func TestMemoryLeakRepeatedFind(t *testing.T) {
	iterations := []int{100, 500, 1000, 2500}

	for _, iterCount := range iterations {
		t.Run(fmt.Sprintf("iterations_%d", iterCount), func(t *testing.T) {
			runFindMemoryTest(t, iterCount)
		})
	}
}

func TestMemoryLeakConcurrentFind(t *testing.T) {
	configs := []struct {
		workers             int
		iterationsPerWorker int
	}{
		{workers: 1, iterationsPerWorker: 500},
		{workers: 4, iterationsPerWorker: 250},
		{workers: 8, iterationsPerWorker: 125},
	}

	for _, cfg := range configs {
		t.Run(fmt.Sprintf("workers_%d_iter_%d", cfg.workers, cfg.iterationsPerWorker), func(t *testing.T) {
			runConcurrentFindMemoryTest(t, cfg.workers, cfg.iterationsPerWorker)
		})
	}
}

// TestLazyLoaderGoroutineStopsCleanly verifies StartLazyLoading's
// background goroutine actually exits when Stop is called, rather than
// leaking one goroutine per discarded Catalog.
func TestLazyLoaderGoroutineStopsCleanly(t *testing.T) {
	runtime.GC()
	baseline := runtime.NumGoroutine()

	cat := fixturecatalog.New(fixturecatalog.Sample())
	cat.StartLazyLoading()
	time.Sleep(20 * time.Millisecond)
	cat.Stop()
	time.Sleep(20 * time.Millisecond)

	runtime.GC()
	final := runtime.NumGoroutine()

	if delta := final - baseline; delta > 1 {
		t.Errorf("goroutine leak after Stop: baseline=%d final=%d delta=%d", baseline, final, delta)
	}
}

func runFindMemoryTest(t *testing.T, iterations int) {
	cat := fixturecatalog.New(fixturecatalog.Sample())
	ctx := context.Background()
	mon := catalog.LiveMonitor()

	var baseline runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&baseline)
	baselineGoroutines := runtime.NumGoroutine()

	for i := 0; i < iterations; i++ {
		for _, mask := range testMasks {
			results, err := cat.Find(ctx, mon, nil, catalog.KindEntity, mask, true, 10)
			if err != nil {
				t.Fatalf("Find(%q): %v", mask, err)
			}
			_ = results
		}
	}

	var final runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&final)
	finalGoroutines := runtime.NumGoroutine()

	memDelta := int64(final.Alloc - baseline.Alloc)
	goroutineDelta := finalGoroutines - baselineGoroutines
	totalOps := iterations * len(testMasks)
	memPerOp := float64(memDelta) / float64(totalOps)

	t.Logf("iterations=%d ops=%d mem_delta=%d bytes mem_per_op=%.2f goroutine_delta=%d",
		iterations, totalOps, memDelta, memPerOp, goroutineDelta)

	if memPerOp > 2000 {
		t.Errorf("excessive memory usage per operation: %.2f bytes", memPerOp)
	}
	if goroutineDelta > 2 {
		t.Errorf("goroutine leak detected: %d goroutines leaked", goroutineDelta)
	}
}

func runConcurrentFindMemoryTest(t *testing.T, workers, iterationsPerWorker int) {
	cat := fixturecatalog.New(fixturecatalog.Sample())
	ctx := context.Background()
	mon := catalog.LiveMonitor()

	var baseline runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&baseline)
	baselineGoroutines := runtime.NumGoroutine()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var totalOps int64

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ops := int64(0)
			for iter := 0; iter < iterationsPerWorker; iter++ {
				for _, mask := range testMasks {
					if _, err := cat.Find(ctx, mon, nil, catalog.KindEntity, mask, true, 10); err != nil {
						t.Errorf("Find(%q): %v", mask, err)
						return
					}
					ops++
				}
			}
			mu.Lock()
			totalOps += ops
			mu.Unlock()
		}()
	}
	wg.Wait()

	var final runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&final)
	finalGoroutines := runtime.NumGoroutine()

	memDelta := int64(final.Alloc - baseline.Alloc)
	goroutineDelta := finalGoroutines - baselineGoroutines
	memPerOp := float64(memDelta) / float64(totalOps)

	t.Logf("workers=%d iter_per_worker=%d total_ops=%d mem_delta=%d bytes mem_per_op=%.2f goroutine_delta=%d",
		workers, iterationsPerWorker, totalOps, memDelta, memPerOp, goroutineDelta)

	if memPerOp > 2000 {
		t.Errorf("excessive memory usage per operation: %.2f bytes", memPerOp)
	}
	if goroutineDelta > 3 {
		t.Errorf("goroutine leak detected: %d goroutines leaked", goroutineDelta)
	}
}
