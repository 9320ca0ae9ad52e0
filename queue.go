// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package faaq

import (
	"sync/atomic"
	"unsafe"

	"code.hybscloud.com/faaq/hazptr"
	"code.hybscloud.com/spin"
)

// Queue is an unbounded multi-producer multi-consumer FIFO of
// unsafe.Pointer values. Nodes are fixed-size segments linked in a
// Michael-Scott-style list; producers and consumers claim slots within a
// segment by fetch-and-add, and segments are retired through a
// hazard-pointer domain once the head advances past them.
//
// Every goroutine accessing a Queue must own a distinct thread ID in
// [0, maxThreads) for the lifetime of its calls: Enqueue and Dequeue use
// tid to select a dedicated hazptr.Holder, and a Holder must not be used
// concurrently from more than one goroutine.
type Queue struct {
	_ pad
	head hazptr.AtomicPointer[node]
	_    pad
	tail hazptr.AtomicPointer[node]
	_    pad

	// taken marks a slot that has been claimed and consumed, distinct
	// from both nil (unclaimed) and any real item.
	taken unsafe.Pointer

	maxThreads int
	holders    []hazptr.Holder
	domain     *hazptr.Domain
}

// New creates an empty Queue sized for maxThreads concurrent callers.
// Each caller of Enqueue/Dequeue must pass a distinct tid in
// [0, maxThreads).
//
// Panics if maxThreads <= 0.
func New(maxThreads int, opts ...Option) *Queue {
	if maxThreads <= 0 {
		panic("faaq: maxThreads must be > 0")
	}

	q := &Queue{
		maxThreads: maxThreads,
		taken:      unsafe.Pointer(new(byte)),
		domain:     hazptr.Default(),
	}
	for _, opt := range opts {
		opt(q)
	}

	sentinel := createNode(nil)
	q.head.StoreRelaxed(sentinel)
	q.tail.StoreRelaxed(sentinel)

	q.holders = make([]hazptr.Holder, maxThreads)
	for i := range q.holders {
		q.holders[i].Init(q.domain)
	}

	return q
}

// Close drains the queue and releases its hazard-pointer holders. Close
// assumes the queue is quiescent: no other goroutine may call Enqueue
// or Dequeue concurrently with or after Close.
func (q *Queue) Close() {
	for {
		if _, err := q.Dequeue(0); IsEmpty(err) {
			break
		}
	}

	if sentinel := q.head.LoadRelaxed(); sentinel != nil {
		reclaimNode(&sentinel.Object)
	}

	for i := range q.holders {
		q.holders[i].Release()
	}

	q.domain.Cleanup()
}

func (q *Queue) checkTid(tid int) {
	if tid < 0 || tid >= q.maxThreads {
		panic("faaq: invalid thread id")
	}
}

// Enqueue adds item to the tail of the queue. item must be non-nil and
// must not be the queue's internal taken sentinel (callers never see or
// construct that value, so this only fires on misuse such as passing
// back a pointer obtained by other means). tid must be the caller's
// dedicated thread ID, as passed to New.
func (q *Queue) Enqueue(item unsafe.Pointer, tid int) error {
	q.checkTid(tid)
	if item == nil {
		panic("faaq: item must not be nil")
	}
	if item == q.taken {
		panic("faaq: item matches internal sentinel")
	}

	h := &q.holders[tid]
	sw := spin.Wait{}

	for {
		ltail := hazptr.Protect(h, &q.tail)

		idx := ltail.enqIdx.AddAcqRel(1) - 1

		if idx >= nodeBufferSize {
			if ltail != q.tail.LoadAcquire() {
				h.Reset(nil)
				sw.Once()
				continue
			}

			lnext := ltail.next.LoadAcquire()
			if lnext == nil {
				newNode := createNode(item)
				if ltail.next.CompareAndSwapAcqRel(nil, newNode) {
					q.tail.CompareAndSwapAcqRel(ltail, newNode)
					h.Reset(nil)
					return nil
				}
				// Someone else linked a node first; the one we made
				// was never published and needs no retirement.
			} else {
				q.tail.CompareAndSwapAcqRel(ltail, lnext)
			}
			h.Reset(nil)
			sw.Once()
			continue
		}

		if atomic.CompareAndSwapPointer(&ltail.items[idx], nil, item) {
			h.Reset(nil)
			return nil
		}

		h.Reset(nil)
		sw.Once()
	}
}

// Dequeue removes and returns the item at the head of the queue.
// Returns ErrEmpty if the queue currently has no item available. tid
// must be the caller's dedicated thread ID, as passed to New.
func (q *Queue) Dequeue(tid int) (unsafe.Pointer, error) {
	q.checkTid(tid)

	h := &q.holders[tid]
	sw := spin.Wait{}

	for {
		lhead := hazptr.Protect(h, &q.head)

		deqIdx := lhead.deqIdx.LoadAcquire()
		enqIdx := lhead.enqIdx.LoadAcquire()
		lnext := lhead.next.LoadAcquire()

		if deqIdx >= enqIdx && lnext == nil {
			break
		}

		idx := lhead.deqIdx.AddAcqRel(1) - 1

		if idx >= nodeBufferSize {
			lnext = lhead.next.LoadAcquire()
			if lnext == nil {
				break
			}

			if q.head.CompareAndSwapAcqRel(lhead, lnext) {
				h.Reset(nil)
				q.domain.Retire(&lhead.Object, reclaimNode)
			} else {
				h.Reset(nil)
			}
			sw.Once()
			continue
		}

		slot := &lhead.items[idx]
		var raw unsafe.Pointer
		for {
			raw = atomic.LoadPointer(slot)
			if atomic.CompareAndSwapPointer(slot, raw, q.taken) {
				break
			}
		}

		if raw == nil {
			// The producer claimed this index with FAA but hasn't
			// stored its item yet. Retry rather than report empty.
			h.Reset(nil)
			sw.Once()
			continue
		}

		h.Reset(nil)
		return raw, nil
	}

	h.Reset(nil)
	return nil, ErrEmpty
}

// reclaimNode is the retirement callback for a node that has fallen out
// of the queue's live list. It does nothing: once a node is unreachable
// from every shard and every hazard pointer, the garbage collector frees
// it on its own. The callback still exists to satisfy Retire's contract
// and to mark, in code, the exact point past which obj must not be
// touched again.
func reclaimNode(obj *hazptr.Object) {
}
