// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package faaq provides an unbounded multi-producer multi-consumer FIFO
// queue built on fetch-and-add array segments and hazard-pointer
// reclamation.
//
// # Quick Start
//
//	q := faaq.New(maxGoroutines)
//	defer q.Close()
//
//	// Producer, using its own dedicated tid.
//	item := &Task{}
//	_ = q.Enqueue(unsafe.Pointer(item), tid)
//
//	// Consumer, using its own dedicated tid.
//	p, err := q.Dequeue(tid)
//	if faaq.IsEmpty(err) {
//	    // no item available right now
//	}
//	task := (*Task)(p)
//
// # Thread IDs
//
// New takes maxThreads, the number of distinct goroutines that will ever
// call Enqueue or Dequeue concurrently. Every call must pass a tid in
// [0, maxThreads) that uniquely identifies the calling goroutine for the
// lifetime of the queue — tids select a dedicated hazptr.Holder per
// goroutine, and a Holder is not safe for concurrent use. Unlike the
// bounded queues this package's sibling algorithms implement, faaq.Queue
// has no fixed capacity: Enqueue never returns a "full" error.
//
// # Node Lifecycle
//
// The queue's segments (nodes) are reclaimed through
// [code.hybscloud.com/faaq/hazptr] rather than freed synchronously: once
// a consumer advances the head past an exhausted node, the node is
// handed to the process-wide hazptr.Domain (or one supplied via
// WithDomain) and only becomes eligible for garbage collection once no
// hazard pointer anywhere in that domain still protects it. This is what
// allows Enqueue and Dequeue to dereference node pointers obtained from
// concurrent readers without a mutex.
//
// # Error Handling
//
// Dequeue returns [ErrEmpty] when no item is currently available. This
// error is sourced from [code.hybscloud.com/iox] for ecosystem
// consistency with ErrWouldBlock-style APIs elsewhere in this module
// family.
//
//	backoff := iox.Backoff{}
//	for {
//	    item, err := q.Dequeue(tid)
//	    if err == nil {
//	        backoff.Reset()
//	        process(item)
//	        continue
//	    }
//	    if !faaq.IsEmpty(err) {
//	        panic(err) // Unexpected error
//	    }
//	    backoff.Wait()
//	}
//
// For semantic error classification (delegates to iox):
//
//	faaq.IsEmpty(err)      // true if the queue had nothing to dequeue
//	faaq.IsSemantic(err)   // true if control flow signal
//	faaq.IsNonFailure(err) // true if nil or ErrEmpty
//
// # Length
//
// Length is intentionally not provided: accurate counts in a lock-free
// queue with multiple independently-advancing segments require expensive
// cross-core synchronization that would undo the algorithm's scalability.
// Use hazptr.Domain's RetiredCount/ReclaimedCount for reclamation
// diagnostics, not for tracking queue length.
//
// # Race Detection
//
// Go's race detector tracks explicit synchronization primitives but
// cannot observe happens-before relationships established purely through
// acquire/release atomics on separate variables. This package's
// algorithms are correct under the Go memory model, but the race
// detector may still report false positives on them; tests that would
// trip this skip themselves at run time when RaceEnabled is true.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for non-pointer atomic counters with
// explicit memory ordering, sync/atomic's Pointer and *Pointer functions
// for every field that must keep a Go object reachable to the garbage
// collector, [code.hybscloud.com/spin] for CAS/FAA retry backoff, and its
// own hazptr subpackage for safe memory reclamation.
package faaq
