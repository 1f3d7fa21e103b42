// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shmq

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates the operation cannot proceed immediately.
//
// For Enqueue: the queue is full and the oldest occupant is important
// (backpressure — nothing may be evicted).
// For Dequeue: the queue is empty (no data available).
//
// ErrWouldBlock is a control flow signal, not a failure. The caller should
// retry the operation later (with backoff or yield) rather than propagating
// the error.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
//
// Example:
//
//	backoff := iox.Backoff{}
//	for {
//	    err := q.Enqueue(&item, false)
//	    if err == nil {
//	        backoff.Reset()
//	        break
//	    }
//	    if shmq.IsWouldBlock(err) {
//	        backoff.Wait()  // Adaptive backpressure
//	        continue
//	    }
//	    return err  // Unexpected error
//	}
var ErrWouldBlock = iox.ErrWouldBlock

// Attach-time errors. These are surfaced exactly once, when a handle is
// bound to a region; no partial queue state is constructed on failure.
var (
	// ErrRegionTooSmall indicates the supplied memory region cannot hold
	// the control block plus at least one slot for the element type, or
	// cannot hold the explicitly requested capacity.
	ErrRegionTooSmall = errors.New("shmq: region too small for control block and slots")

	// ErrMisaligned indicates the region base address is not aligned to a
	// cache line (64 bytes). Slot alignment guarantees derive from the
	// base address, so misaligned regions are rejected up front.
	ErrMisaligned = errors.New("shmq: region base address must be 64-byte aligned")

	// ErrPointerType indicates the element type contains Go pointers
	// (pointers, slices, maps, strings, channels, funcs, interfaces).
	// Such values are meaningless in another process's address space and
	// unsafe to place in memory the garbage collector does not scan.
	ErrPointerType = errors.New("shmq: element type must not contain pointers")
)

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Returns true for nil or ErrWouldBlock.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
