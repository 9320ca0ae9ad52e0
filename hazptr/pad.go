// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hazptr

// cacheLineSize is the assumed cache line size used to keep hot atomic
// fields on separate lines and avoid false sharing between unrelated
// readers and reclaimers.
const cacheLineSize = 64

// pad is cache line padding to prevent false sharing, adapted from the
// teacher package's own padding convention.
type pad [cacheLineSize]byte
