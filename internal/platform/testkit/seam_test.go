package testkit

import (
	"sync"
	"testing"
	"time"
)

// package-level seams the tests below swap out
var (
	nowSeam   = func() time.Time { return time.Unix(0, 0) }
	limitSeam = 100
)

func TestSwap_RestoresAfterSubtest(t *testing.T) {
	t.Run("swapped", func(t *testing.T) {
		fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		Swap(t, &nowSeam, func() time.Time { return fixed })
		if !nowSeam().Equal(fixed) {
			t.Fatalf("swap not in effect: %v", nowSeam())
		}

		Swap(t, &limitSeam, 5)
		if limitSeam != 5 {
			t.Fatalf("limit = %d, want 5", limitSeam)
		}
	})

	// subtest cleanup must have restored both seams
	if !nowSeam().Equal(time.Unix(0, 0)) {
		t.Fatalf("time seam not restored: %v", nowSeam())
	}
	if limitSeam != 100 {
		t.Fatalf("limit seam not restored: %d", limitSeam)
	}
}

func TestSerial_ExcludesParallelSiblings(t *testing.T) {
	t.Parallel()

	var (
		mu     sync.Mutex
		active int
		peak   int
	)
	enter := func() {
		mu.Lock()
		active++
		if active > peak {
			peak = active
		}
		mu.Unlock()
	}
	leave := func() {
		mu.Lock()
		active--
		mu.Unlock()
	}

	for _, name := range []string{"first", "second", "third"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			Serial(t)
			enter()
			defer leave()
			time.Sleep(20 * time.Millisecond)
		})
	}

	t.Cleanup(func() {
		mu.Lock()
		defer mu.Unlock()
		if peak != 1 {
			t.Fatalf("%d serial tests ran at once", peak)
		}
	})
}
