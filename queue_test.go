// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package faaq_test

import (
	"sync"
	"testing"
	"time"
	"unsafe"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/faaq"
	"code.hybscloud.com/faaq/hazptr"
	"code.hybscloud.com/iox"
)

// ptrOf wraps an integer in the unsafe.Pointer domain faaq.Queue trades
// in, never dereferenced, only carried and compared.
func ptrOf(v uintptr) unsafe.Pointer {
	return unsafe.Pointer(v)
}

func valOf(p unsafe.Pointer) uintptr {
	return uintptr(p)
}

func TestDequeueOnEmptyQueueReturnsErrEmpty(t *testing.T) {
	q := faaq.New(1, faaq.WithDomain(hazptr.NewDomain()))
	defer q.Close()

	_, err := q.Dequeue(0)
	if !faaq.IsEmpty(err) {
		t.Fatalf("Dequeue on empty queue: err = %v, want ErrEmpty", err)
	}
	if !faaq.IsSemantic(err) || !faaq.IsNonFailure(err) {
		t.Fatalf("ErrEmpty must be classified as semantic and non-failure")
	}
}

func TestSingleThreadFIFOOrder(t *testing.T) {
	q := faaq.New(1, faaq.WithDomain(hazptr.NewDomain()))
	defer q.Close()

	const n = 500
	for i := 0; i < n; i++ {
		if err := q.Enqueue(ptrOf(uintptr(i+1)), 0); err != nil {
			t.Fatalf("Enqueue(%d) = %v", i, err)
		}
	}

	for i := 0; i < n; i++ {
		got, err := q.Dequeue(0)
		if err != nil {
			t.Fatalf("Dequeue() at position %d: %v", i, err)
		}
		if want := uintptr(i + 1); valOf(got) != want {
			t.Fatalf("Dequeue() at position %d = %d, want %d", i, valOf(got), want)
		}
	}

	if _, err := q.Dequeue(0); !faaq.IsEmpty(err) {
		t.Fatalf("queue should be empty after draining all items, err = %v", err)
	}
}

// TestSingleThreadCrossesNodeBoundary forces enqueue past the fixed-size
// segment size so a new node must be linked and the sentinel node
// retired, all from a single thread.
func TestSingleThreadCrossesNodeBoundary(t *testing.T) {
	q := faaq.New(1, faaq.WithDomain(hazptr.NewDomain()))
	defer q.Close()

	const n = 1024*3 + 17 // spans at least 4 segments
	for i := 0; i < n; i++ {
		if err := q.Enqueue(ptrOf(uintptr(i+1)), 0); err != nil {
			t.Fatalf("Enqueue(%d) = %v", i, err)
		}
	}
	for i := 0; i < n; i++ {
		got, err := q.Dequeue(0)
		if err != nil {
			t.Fatalf("Dequeue() at position %d: %v", i, err)
		}
		if want := uintptr(i + 1); valOf(got) != want {
			t.Fatalf("Dequeue() at position %d = %d, want %d", i, valOf(got), want)
		}
	}
}

func TestInterleavedEnqueueDequeueSingleThread(t *testing.T) {
	q := faaq.New(1, faaq.WithDomain(hazptr.NewDomain()))
	defer q.Close()

	var want []uintptr
	next := uintptr(1)

	step := func(enqueues, dequeues int) {
		for i := 0; i < enqueues; i++ {
			if err := q.Enqueue(ptrOf(next), 0); err != nil {
				t.Fatalf("Enqueue(%d) = %v", next, err)
			}
			want = append(want, next)
			next++
		}
		for i := 0; i < dequeues; i++ {
			if len(want) == 0 {
				if _, err := q.Dequeue(0); !faaq.IsEmpty(err) {
					t.Fatalf("expected ErrEmpty, got %v", err)
				}
				continue
			}
			got, err := q.Dequeue(0)
			if err != nil {
				t.Fatalf("Dequeue() = %v", err)
			}
			if valOf(got) != want[0] {
				t.Fatalf("Dequeue() = %d, want %d", valOf(got), want[0])
			}
			want = want[1:]
		}
	}

	step(3, 1)
	step(2000, 500)
	step(10, 2000)
	step(500, 500)
}

func TestEnqueuePanicsOnNilItem(t *testing.T) {
	q := faaq.New(1, faaq.WithDomain(hazptr.NewDomain()))
	defer q.Close()

	defer func() {
		if recover() == nil {
			t.Fatalf("Enqueue(nil, ...) should panic")
		}
	}()
	_ = q.Enqueue(nil, 0)
}

func TestDequeuePanicsOnInvalidTid(t *testing.T) {
	q := faaq.New(2, faaq.WithDomain(hazptr.NewDomain()))
	defer q.Close()

	for _, tid := range []int{-1, 2, 100} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("Dequeue(tid=%d) should panic on invalid tid", tid)
				}
			}()
			_, _ = q.Dequeue(tid)
		}()
	}
}

// TestRetiredEqualsReclaimedAfterClose exercises the hazard-pointer
// reclamation path directly: enough nodes are created and abandoned
// across a bounded set of hazard-pointer holders that every node but
// the final live one must eventually be retired and reclaimed, and
// Close drives the domain to quiescence.
func TestRetiredEqualsReclaimedAfterClose(t *testing.T) {
	domain := hazptr.NewDomain()
	q := faaq.New(4, faaq.WithDomain(domain))

	const n = 1024 * 8 // crosses several segment boundaries
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			if err := q.Enqueue(ptrOf(uintptr(i+1)), 0); err != nil {
				t.Errorf("Enqueue(%d) = %v", i, err)
			}
		}
	}()

	consumed := make([]uintptr, 0, n)
	var mu sync.Mutex
	wg.Add(1)
	go func() {
		defer wg.Done()
		backoff := iox.Backoff{}
		for len(consumed) < n {
			v, err := q.Dequeue(1)
			if err != nil {
				backoff.Wait()
				continue
			}
			backoff.Reset()
			mu.Lock()
			consumed = append(consumed, valOf(v))
			mu.Unlock()
		}
	}()

	wg.Wait()
	q.Close()

	if len(consumed) != n {
		t.Fatalf("consumed %d items, want %d", len(consumed), n)
	}
	for i, v := range consumed {
		if v != uintptr(i+1) {
			t.Fatalf("consumed[%d] = %d, want %d (FIFO order violated)", i, v, i+1)
		}
	}
	if domain.RetiredCount() != domain.ReclaimedCount() {
		t.Fatalf("leak after Close: RetiredCount()=%d ReclaimedCount()=%d", domain.RetiredCount(), domain.ReclaimedCount())
	}
}

// TestConcurrentProducersConsumersLinearizability is the 8x8 stress
// scenario: 8 producers and 8 consumers each move one million items
// through the queue. Values are encoded as producerID*1_000_000+seq so
// every item's origin and position are independently verifiable; no
// duplicate delivery is tolerated and, because this queue offers strict
// FIFO ordering by slot-claim position, every producer's own items must
// surface to consumers in the exact order that producer issued them.
func TestConcurrentProducersConsumersLinearizability(t *testing.T) {
	if faaq.RaceEnabled {
		t.Skip("skip: linearizability stress test requires concurrent access at scale")
	}
	if testing.Short() {
		t.Skip("skip: full 8x8/1e6 stress test skipped in -short mode")
	}

	const numProducers = 8
	const numConsumers = 8
	const itemsPerProducer = 1_000_000
	const maxThreads = numProducers + numConsumers
	const expectedTotal = numProducers * itemsPerProducer

	domain := hazptr.NewDomain()
	q := faaq.New(maxThreads, faaq.WithDomain(domain))

	seen := make([]atomix.Int32, expectedTotal)
	order := make([]int64, expectedTotal)
	var consumedCount atomix.Int64
	var wg sync.WaitGroup

	for p := 0; p < numProducers; p++ {
		wg.Add(1)
		go func(id, tid int) {
			defer wg.Done()
			for i := 0; i < itemsPerProducer; i++ {
				v := uintptr(id*itemsPerProducer + i + 1) // +1 avoids the nil sentinel
				if err := q.Enqueue(ptrOf(v), tid); err != nil {
					t.Errorf("producer %d: Enqueue(%d) = %v", id, v, err)
					return
				}
			}
		}(p, p)
	}

	for c := 0; c < numConsumers; c++ {
		wg.Add(1)
		go func(tid int) {
			defer wg.Done()
			backoff := iox.Backoff{}
			deadline := time.Now().Add(2 * time.Minute)
			for consumedCount.Load() < int64(expectedTotal) {
				if time.Now().After(deadline) {
					t.Errorf("consumer %d timed out waiting for items", tid)
					return
				}
				p, err := q.Dequeue(tid)
				if err != nil {
					backoff.Wait()
					continue
				}
				backoff.Reset()

				v := valOf(p) - 1
				producerID := int(v) / itemsPerProducer
				seq := int(v) % itemsPerProducer
				if producerID < 0 || producerID >= numProducers {
					t.Errorf("value out of range: %d", v)
					consumedCount.Add(1)
					continue
				}
				idx := producerID*itemsPerProducer + seq
				seen[idx].Add(1)
				order[idx] = consumedCount.Add(1)
			}
		}(numProducers + c)
	}

	wg.Wait()
	q.Close()

	var missing, duplicates int
	for i := 0; i < expectedTotal; i++ {
		switch seen[i].Load() {
		case 0:
			missing++
		case 1:
		default:
			duplicates++
		}
	}

	if duplicates > 0 {
		t.Errorf("linearizability violation: %d duplicate deliveries", duplicates)
	}
	if missing > 0 {
		t.Errorf("%d of %d items were never delivered (unbounded queue must deliver every item)", missing, expectedTotal)
	}

	// FIFO ordering: within one producer's own items, consumption order
	// (order[idx]) must rank strictly with sequence number.
	for p := 0; p < numProducers; p++ {
		base := p * itemsPerProducer
		for seq := 1; seq < itemsPerProducer; seq++ {
			if order[base+seq] != 0 && order[base+seq-1] != 0 && order[base+seq] < order[base+seq-1] {
				t.Errorf("producer %d: item %d consumed before item %d, FIFO order violated", p, seq, seq-1)
				break
			}
		}
	}

	if domain.RetiredCount() != domain.ReclaimedCount() {
		t.Errorf("leak after Close: RetiredCount()=%d ReclaimedCount()=%d", domain.RetiredCount(), domain.ReclaimedCount())
	}
}
