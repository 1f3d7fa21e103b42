// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shmq_test

import (
	"time"
	"unsafe"

	"code.hybscloud.com/iox"
)

// testRegion allocates a zero-filled, 64-byte-aligned byte slice of n
// bytes. It stands in for an externally mapped shared memory region: real
// mappings are page-aligned and zero-filled, which this reproduces on the
// Go heap so tests can simulate multiple attachers in one process.
func testRegion(n int) []byte {
	buf := make([]byte, n+63)
	off := 0
	if rem := int(uintptr(unsafe.Pointer(&buf[0])) % 64); rem != 0 {
		off = 64 - rem
	}
	return buf[off : off+n : off+n]
}

// enqueueUntil retries enqueue with backoff until it succeeds or the
// deadline passes. Reports whether the enqueue succeeded.
func enqueueUntil(enqueue func() error, deadline time.Time) bool {
	backoff := iox.Backoff{}
	for enqueue() != nil {
		if time.Now().After(deadline) {
			return false
		}
		backoff.Wait()
	}
	return true
}
