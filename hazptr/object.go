// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hazptr

// Object is the retired-object descriptor. Every object reclaimable
// through a Domain embeds Object at a known offset (conventionally the
// first field, so a *T and a *Object share an address and casting between
// them with unsafe.Pointer is valid).
//
// Object carries no payload knowledge. The reclamation engine only ever
// touches next (while the object sits on a retired-shard stack) and
// reclaim (once, to deallocate).
type Object struct {
	next    *Object
	reclaim func(*Object)
}

// next is mutated only while the object is linked onto a shard's retired
// stack, and only by the single goroutine that currently owns that link
// (the retirer while pushing, or the reclaimer while it holds the
// extracted batch). It does not need to be atomic: the shard head itself
// is the only field other goroutines synchronize through.
