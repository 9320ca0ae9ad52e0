// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package faaq

import "code.hybscloud.com/iox"

// ErrEmpty indicates Dequeue found no item available.
//
// ErrEmpty is a control flow signal, not a failure: the queue is
// unbounded, so there is no ErrWouldBlock counterpart on the Enqueue
// side. The caller should retry later rather than treat ErrEmpty as an
// error condition.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency,
// since an empty unbounded queue gives the consumer the same "try
// again" signal a bounded queue does.
//
// Example:
//
//	backoff := iox.Backoff{}
//	for {
//	    item, err := q.Dequeue(tid)
//	    if err == nil {
//	        backoff.Reset()
//	        // use item
//	        continue
//	    }
//	    if faaq.IsEmpty(err) {
//	        backoff.Wait()
//	        continue
//	    }
//	    panic(err) // Unexpected error
//	}
var ErrEmpty = iox.ErrWouldBlock

// IsEmpty reports whether err indicates the queue had no item to
// dequeue. Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsEmpty(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a
// failure). Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition:
// nil or ErrEmpty. Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
