// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hazptr

import "sync/atomic"

// AtomicPointer is a typed atomic pointer used for every link in the
// reclamation engine's own lock-free graph (Domain.allRecords, each
// shard's retired-object stack head, node.next in the queue package).
// It wraps sync/atomic.Pointer[T] rather than storing a bare address in
// an atomix.Uintptr: a uintptr field is invisible to the garbage
// collector's root scan, so once the only remaining reference to a
// heap object is a raw address — a mid-chain segment reachable only
// through node.next, a retired object sitting in shard.head waiting to
// cross the reclamation threshold, the head of Domain.allRecords — the
// GC is free to collect it while this graph still logically holds it.
// sync/atomic.Pointer's field is a real *T, so the referent stays
// reachable for as long as any of these fields names it.
//
// code.hybscloud.com/atomix's integer types (atomix.Uint64, atomix.Int64)
// remain the right tool for fields that are genuinely non-pointer
// bookkeeping (a counter, a flag, a fence cell) — see Domain's fenceCell/
// retiredCount/reclaiming — just not for anything that must keep a Go
// object alive.
//
// sync/atomic.Pointer exposes one ordering, at least as strong as
// acquire/release on every architecture Go supports, not atomix's
// separate Relaxed/Acquire/Release family. Every method below keeps its
// ordering suffix so call sites written against the atomix-style API
// stay unchanged; the underlying operation is the same regardless of
// which suffix is used.
type AtomicPointer[T any] struct {
	p atomic.Pointer[T]
}

// LoadRelaxed loads the pointer.
func (p *AtomicPointer[T]) LoadRelaxed() *T {
	return p.p.Load()
}

// LoadAcquire loads the pointer.
func (p *AtomicPointer[T]) LoadAcquire() *T {
	return p.p.Load()
}

// StoreRelaxed stores the pointer.
func (p *AtomicPointer[T]) StoreRelaxed(v *T) {
	p.p.Store(v)
}

// StoreRelease stores the pointer.
func (p *AtomicPointer[T]) StoreRelease(v *T) {
	p.p.Store(v)
}

// CompareAndSwapAcqRel attempts to swap old for new.
func (p *AtomicPointer[T]) CompareAndSwapAcqRel(old, new *T) bool {
	return p.p.CompareAndSwap(old, new)
}

// CompareAndSwapRelaxed is the relaxed-ordering variant of
// CompareAndSwapAcqRel, used where ordering is provided elsewhere (e.g.
// a subsequent release store on a different field).
func (p *AtomicPointer[T]) CompareAndSwapRelaxed(old, new *T) bool {
	return p.p.CompareAndSwap(old, new)
}

// SwapAcquire atomically replaces the pointer with new and returns the
// previous value.
func (p *AtomicPointer[T]) SwapAcquire(new *T) *T {
	return p.p.Swap(new)
}
