// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hazptr

import (
	"sync/atomic"
	"unsafe"
)

// Holder is a scoped owner of one HP record. The zero value is not ready
// to protect anything; call Init before use and Release when the
// protected region ends.
//
// A Holder must not be used concurrently from more than one goroutine.
type Holder struct {
	domain *Domain
	rec    *record
}

// Init acquires an HP record for this holder, from domain if non-nil or
// from Default otherwise. Init must be called before Reset or Protect.
func (h *Holder) Init(domain *Domain) {
	if domain == nil {
		domain = Default()
	}
	h.domain = domain
	h.rec = domain.acquireRecord()
	h.reset(nil)
}

// Release clears the holder's protection and returns its record to the
// owning domain for reuse. Release is a no-op if the holder was never
// initialized or has already been released.
func (h *Holder) Release() {
	if h.rec == nil {
		return
	}
	h.reset(nil)
	h.domain.releaseRecord(h.rec)
	h.rec = nil
	h.domain = nil
}

// Reset stores ptr (possibly nil) into the holder's protection slot with
// release ordering, announcing "I may be about to dereference ptr; do not
// reclaim it until I clear this slot or overwrite it."
func (h *Holder) Reset(ptr unsafe.Pointer) {
	h.reset(ptr)
}

func (h *Holder) reset(ptr unsafe.Pointer) {
	atomic.StorePointer(&h.rec.ptr, ptr)
}

// Protect implements the load-protect-validate primitive: it repeatedly
// loads src, protects the observed value, issues the SeqCst fence pairing
// with retire/doReclamation, and reloads src to validate the observation,
// retrying until the load is stable. The returned pointer is safe to
// dereference until h is reset or released.
func Protect[T any](h *Holder, src *AtomicPointer[T]) *T {
	p := src.LoadRelaxed()
	for {
		h.reset(unsafe.Pointer(p))
		h.domain.fence()
		v := src.LoadAcquire()
		if p == v {
			return p
		}
		p = v
	}
}
