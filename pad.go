// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package faaq

// pad occupies a cache line to keep hot fields that are written by
// different goroutines from sharing a line and false-sharing.
type pad [128]byte
