// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package hazptr implements hazard-pointer safe memory reclamation.
//
// Hazard pointers let many goroutines dereference shared pointers to heap
// objects while other goroutines logically unlink and eventually
// deallocate those objects, without reader-side locking and without
// requiring every reader to quiesce before an object can be freed.
//
// # Basic usage
//
//	var h hazptr.Holder
//	h.Init(nil) // nil selects the process-wide default domain
//	defer h.Release()
//
//	p := hazptr.Protect(&h, &shared)
//	// p is now safe to dereference until h is reset or released.
//
// # Retiring objects
//
// An object becomes reclaimable once it has been unlinked from whatever
// structure published it and handed to Retire:
//
//	type myNode struct {
//		hazptr.Object
//		value int
//	}
//
//	hazptr.Retire(&node.Object, func(o *hazptr.Object) {
//		n := (*myNode)(unsafe.Pointer(o))
//		_ = n // free n's resources
//	})
//
// Retire does not deallocate immediately. It hands the object to the
// domain's reclamation engine, which frees it only once no hazard pointer
// anywhere in the domain is observed pointing at it.
//
// # Domains
//
// A Domain is a self-contained instance of the reclamation state: the
// record list, sharded retired-object stacks, and reclamation
// bookkeeping. Default returns a lazily-initialized process-wide
// singleton; NewDomain constructs an isolated instance for testing or for
// callers who want reclamation state scoped to a subsystem rather than
// the whole process.
//
// # Memory ordering
//
// Every non-pointer atomic field (counters, the reclaiming flag, the
// fence cell) uses explicit acquire/release/relaxed ordering via
// code.hybscloud.com/atomix, matching the ordering table a correct
// hazard-pointer implementation requires: protection-slot writes are
// release, scan reads are acquire, and the asymmetric fence pairing
// between protectors and reclaimers is sequentially consistent.
//
// Every field that must keep a Go object reachable across time — the
// protection slot itself, the retired-object stacks, the record list —
// is a real pointer type (unsafe.Pointer or a generic AtomicPointer[T]
// wrapping sync/atomic.Pointer[T]), never a bare address stored in an
// atomix.Uintptr. A uintptr is invisible to the garbage collector's root
// scan, so a reclamation engine built on one could have the GC collect
// an object it still believes it is protecting.
package hazptr
