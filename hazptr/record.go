// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hazptr

import "unsafe"

// record is a single-slot protected-pointer cell. A record is owned by at
// most one Holder at a time; between domain-managed recycling it either
// sits in the domain's sync.Pool or is referenced by a live Holder.
//
// Records are never deallocated during normal operation: allRecords keeps
// every record ever created reachable for the lifetime of its Domain, and
// the reclamation scan depends on that list being exhaustive. This is by
// design, matching the C reference's "records are leaked at shutdown".
type record struct {
	_ pad
	// ptr is the protected pointer, stored as unsafe.Pointer rather than
	// an atomix.Uintptr address: this slot is the entire reason a
	// protected object must not be collected while a Holder names it, so
	// it has to stay a real, GC-visible pointer rather than a bare
	// integer. Accessed only through sync/atomic's Load/StorePointer
	// (see holder.go, retire.go) since atomix has no unsafe.Pointer
	// counterpart.
	ptr     unsafe.Pointer
	allNext *record // immutable once published; append-only list link
	domain  *Domain
}
