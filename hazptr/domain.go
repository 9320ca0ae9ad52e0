// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hazptr

import (
	"sync"

	"code.hybscloud.com/atomix"
)

const (
	// numShards is the number of independent retired-list stacks. Must be
	// a power of two.
	numShards = 8

	// rcountThreshold is the base reclamation threshold.
	rcountThreshold = 1000

	// hcountMultiplier scales the dynamic threshold against the number of
	// live records, following Folly's max(base, liveRecords*multiplier).
	hcountMultiplier = 2
)

// shard is one independent Treiber stack of retired objects, indexed by
// an object's address to spread retirement contention.
type shard struct {
	_    pad
	head AtomicPointer[Object]
}

// Domain is a self-contained instance of hazard-pointer reclamation
// state: the append-only record list, the sharded retired-object stacks,
// and the reclamation bookkeeping. The zero value is not usable; construct
// one with NewDomain, or use the process-wide Default.
type Domain struct {
	pool sync.Pool

	_          pad
	allRecords AtomicPointer[record]
	_          pad
	recordCount atomix.Uint64

	_            pad
	retiredCount atomix.Int64 // signed: may go transiently negative
	_ pad
	// reclaiming is a 0/1 test-and-set flag, not a Bool: code.hybscloud.com/
	// atomix exposes no compare-and-swap on Bool in any retrieved source,
	// only Load/Store/LoadAcquire/StoreRelease, so the flag needs a type
	// whose CAS is confirmed.
	reclaiming atomix.Uint64
	_          pad
	fenceCell atomix.Uint64 // dummy RMW target standing in for a raw SeqCst fence

	// scanSet is mutated only by the single goroutine currently holding
	// reclaiming — no separate lock is needed (spec.md §5).
	scanSet map[uintptr]struct{}

	shards [numShards]shard

	retiredTotal   atomix.Uint64 // lifetime count of objects handed to Retire
	reclaimedTotal atomix.Uint64 // lifetime count of objects actually freed
}

// NewDomain constructs an isolated reclamation domain. Most callers want
// Default instead; NewDomain exists for tests and for subsystems that
// want reclamation state scoped independently of the rest of the process.
func NewDomain() *Domain {
	d := &Domain{}
	d.pool.New = func() any {
		return d.newRecord()
	}
	return d
}

var defaultDomain = NewDomain()

// Default returns the process-wide default Domain. It is a lazily-usable
// singleton in the sense that Go's package initialization runs exactly
// once before any caller can observe it.
func Default() *Domain {
	return defaultDomain
}

func (d *Domain) newRecord() *record {
	rec := &record{domain: d}

	head := d.allRecords.LoadRelaxed()
	for {
		rec.allNext = head
		if d.allRecords.CompareAndSwapRelaxed(head, rec) {
			break
		}
		head = d.allRecords.LoadRelaxed()
	}

	d.recordCount.AddAcqRel(1)
	return rec
}

// acquireRecord returns a record from this domain's pool, allocating a
// fresh one if the pool is empty. This merges spec.md's two-tier
// TLC-then-domain-free-stack design into the single tier sync.Pool
// already provides (see DESIGN.md).
func (d *Domain) acquireRecord() *record {
	return d.pool.Get().(*record)
}

// releaseRecord returns rec to this domain's pool for reuse. The caller
// must have already cleared rec's protection slot.
func (d *Domain) releaseRecord(rec *record) {
	d.pool.Put(rec)
}

// fence realizes the SeqCst fence pairing spec.md requires between
// protectors (Protect) and reclaimers (doReclamation) using a dummy RMW
// round trip, since no raw fence primitive is exposed by atomix in any
// retrieved source. See DESIGN.md Open Question 1.
func (d *Domain) fence() {
	d.fenceCell.AddAcqRel(0)
}

// calcShard hashes an address into a shard index, ignoring low alignment
// bits the same way the C reference does (addr>>4 to skip 16-byte
// alignment granularity).
func calcShard(addr uintptr) int {
	return int((addr >> 4) & (numShards - 1))
}

// threshold computes the dynamic reclamation threshold:
// max(rcountThreshold, recordCount*hcountMultiplier). Increasing
// recordCount never decreases the effective threshold (testable property
// 6).
func (d *Domain) threshold() int64 {
	live := int64(d.recordCount.LoadAcquire())
	dynamic := live * hcountMultiplier
	if dynamic > rcountThreshold {
		return dynamic
	}
	return rcountThreshold
}

// RetiredCount reports the lifetime number of objects handed to Retire on
// this domain. Diagnostic only; not part of the reclamation algorithm.
func (d *Domain) RetiredCount() uint64 {
	return d.retiredTotal.LoadAcquire()
}

// ReclaimedCount reports the lifetime number of objects this domain has
// actually freed via their reclaim callback. Diagnostic only.
func (d *Domain) ReclaimedCount() uint64 {
	return d.reclaimedTotal.LoadAcquire()
}
