// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hazptr

import (
	"sync/atomic"
	"unsafe"
)

// Retire hands obj over to d's reclamation engine. obj will be
// deallocated via reclaim once no hazard pointer in d is observed
// pointing at it. Retire does not block on reclamation except to run the
// scan itself when this call happens to cross the dynamic threshold.
func (d *Domain) Retire(obj *Object, reclaim func(*Object)) {
	if obj == nil {
		panic("hazptr: retire of nil object")
	}
	obj.reclaim = reclaim

	// Orders the upstream "I've unlinked this object" store before the
	// push below becomes visible to a concurrent scan.
	d.fence()

	idx := calcShard(uintptr(unsafe.Pointer(obj)))
	sh := &d.shards[idx]
	head := sh.head.LoadRelaxed()
	for {
		obj.next = head
		if sh.head.CompareAndSwapRelaxed(head, obj) {
			break
		}
		head = sh.head.LoadRelaxed()
	}

	d.retiredTotal.AddAcqRel(1)
	d.retiredCount.AddAcqRel(1)

	if claimed := d.checkThreshold(); claimed > 0 {
		d.doReclamation(claimed)
	}
}

// Retire delegates to Default().Retire.
func Retire(obj *Object, reclaim func(*Object)) {
	Default().Retire(obj, reclaim)
}

// checkThreshold attempts to claim a reclamation batch by CAS-resetting
// retiredCount to zero once it meets or exceeds the dynamic threshold.
// Returns the claimed count, or 0 if no claim was made.
func (d *Domain) checkThreshold() int64 {
	rcount := d.retiredCount.LoadAcquire()
	thresh := d.threshold()
	for rcount >= thresh {
		if d.retiredCount.CompareAndSwapAcqRel(rcount, 0) {
			return rcount
		}
		rcount = d.retiredCount.LoadAcquire()
		thresh = d.threshold()
	}
	return 0
}

// doReclamation runs the scan-and-free pass. At most one reclaimer runs
// per domain at a time; a losing caller hands its claimed count back to
// retiredCount and returns immediately rather than waiting.
func (d *Domain) doReclamation(claimedCount int64) {
	if !d.reclaiming.CompareAndSwapAcqRel(0, 1) {
		if claimedCount != 0 {
			d.retiredCount.AddAcqRel(claimedCount)
		}
		return
	}

	if d.scanSet == nil {
		d.scanSet = make(map[uintptr]struct{})
	}

	rcount := claimedCount

	for {
		var extracted [numShards]*Object
		extractedAny := false

		for i := range d.shards {
			extracted[i] = d.shards[i].head.SwapAcquire(nil)
			if extracted[i] != nil {
				extractedAny = true
			}
		}

		if extractedAny {
			// Heavy side of the asymmetric fence pair: ensures every
			// hazard pointer set before this point is visible to the
			// scan below.
			d.fence()

			clear(d.scanSet)
			for rec := d.allRecords.LoadAcquire(); rec != nil; rec = rec.allNext {
				// Only the numeric identity of p is used below, to test
				// membership against other *Object values' own
				// addresses; p itself is never reconstructed into a
				// pointer and dereferenced, so this conversion does not
				// need to keep anything alive on its own.
				if p := atomic.LoadPointer(&rec.ptr); p != nil {
					d.scanSet[uintptr(p)] = struct{}{}
				}
			}

			var survivorsHead, survivorsTail *Object
			for i := range extracted {
				current := extracted[i]
				for current != nil {
					next := current.next
					if _, protected := d.scanSet[uintptr(unsafe.Pointer(current))]; protected {
						current.next = nil
						if survivorsHead == nil {
							survivorsHead, survivorsTail = current, current
						} else {
							survivorsTail.next = current
							survivorsTail = current
						}
					} else {
						if current.reclaim != nil {
							current.reclaim(current)
						}
						d.reclaimedTotal.AddAcqRel(1)
						rcount--
					}
					current = next
				}
			}

			if survivorsHead != nil {
				sh0 := &d.shards[0]
				head := sh0.head.LoadRelaxed()
				for {
					survivorsTail.next = head
					if sh0.head.CompareAndSwapRelaxed(head, survivorsHead) {
						break
					}
					head = sh0.head.LoadRelaxed()
				}
			}
		}

		if rcount != 0 {
			d.retiredCount.AddAcqRel(rcount)
		}

		rcount = d.checkThreshold()
		if rcount == 0 {
			done := true
			for i := range d.shards {
				if d.shards[i].head.LoadAcquire() != nil {
					done = false
					break
				}
			}
			if done {
				break
			}
		}
	}

	d.reclaiming.StoreRelease(0)
}

// Cleanup forces a reclamation pass, claiming whatever count remains.
// Used at shutdown or in tests to drive all retired objects to zero. It
// tolerates an already-running concurrent reclaimer: if this call loses
// the reclaiming race, its claimed count is handed back for the active
// reclaimer to process.
func (d *Domain) Cleanup() {
	rcount := d.retiredCount.LoadAcquire()
	for !d.retiredCount.CompareAndSwapAcqRel(rcount, 0) {
		rcount = d.retiredCount.LoadAcquire()
	}

	if rcount < 0 {
		// Another reclaimer's over-reclamation briefly drove the count
		// negative; give it back rather than claiming a negative batch.
		d.retiredCount.AddAcqRel(rcount)
		rcount = 0
	}

	d.doReclamation(rcount)
}

// Cleanup delegates to Default().Cleanup.
func Cleanup() {
	Default().Cleanup()
}
