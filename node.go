// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package faaq

import (
	"unsafe"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/faaq/hazptr"
)

// nodeBufferSize is the number of item slots per segment node.
const nodeBufferSize = 1024

// node is one fixed-size segment of the queue's linked list. Producers
// and consumers claim slots in items by fetch-and-add on enqIdx/deqIdx;
// a node is retired via the hazard-pointer domain once the head pointer
// advances past it.
//
// items holds caller-supplied unsafe.Pointer values, not addresses: a
// slot's payload may be the only remaining reference to a heap object a
// caller enqueued, so the slot must stay a real pointer type the
// garbage collector traces. It is declared as plain unsafe.Pointer and
// accessed through sync/atomic's Load/CompareAndSwapPointer (see
// queue.go) rather than atomix.Uintptr, which is a bare integer GC
// cannot see through.
type node struct {
	hazptr.Object

	_      pad
	deqIdx atomix.Uint64
	_      pad
	enqIdx atomix.Uint64
	_      pad
	next   hazptr.AtomicPointer[node]
	_      pad
	items  [nodeBufferSize]unsafe.Pointer
}

// createNode allocates a fresh node. If initial is non-nil it is
// pre-stored into slot 0 and enqIdx starts at 1, letting a producer that
// just allocated a new tail node avoid re-claiming the slot it already
// knows it owns.
func createNode(initial unsafe.Pointer) *node {
	n := &node{}

	if initial != nil {
		n.enqIdx.StoreRelaxed(1)
		n.items[0] = initial
	}

	return n
}
