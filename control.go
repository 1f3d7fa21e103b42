// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shmq

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
)

// Initialization states. The handshake moves a region through
// uninitialized → initializing → initialized, exactly once, regardless of
// how many handles race to attach. A freshly mapped region must be
// zero-filled (OS-provided shared memory is) so that it starts
// uninitialized.
const (
	stateUninitialized int32 = 0
	stateInitializing  int32 = 1
	stateInitialized   int32 = 2
)

// pad is cache line padding to prevent false sharing.
type pad [64]byte

// controlBlock is the shared queue header, living at the region base.
//
// head and tail are logical positions: unbounded monotonic counters that
// wrap onto physical slots via modulo, never on the counter itself. Both
// advance by exactly one per successful claim, always through CAS. The
// unsigned difference tail-head never exceeds capacity.
//
// capacity is written by the initializing attacher before it publishes
// initState=initialized and is immutable afterwards; the release store on
// initState makes it visible to every attacher that observes initialized.
type controlBlock struct {
	initState atomix.Int32
	_         pad
	tail      atomix.Uint64 // Producer cursor
	_         pad
	head      atomix.Uint64 // Consumer cursor
	_         pad
	capacity  uint64
}

// slot is one cell of the circular buffer. The stride computed by the
// layout rounds each slot to a whole cache line.
//
// seq is the lap-aware ownership marker: seq==p means a producer may write
// logical position p; seq==p+1 publishes the write to consumers; seq==
// p+capacity frees the slot for the next lap. The acquire/release pairing
// on seq is what makes the non-atomic data field safe to access without a
// lock.
//
// important tags the current occupant as protected from overwrite-on-full
// eviction. It is consulted only when the queue is full.
type slot[T any] struct {
	seq       atomix.Uint64
	important atomix.Bool
	data      T
}

// attach runs the initialization handshake over r and returns the agreed
// capacity.
//
// requested is the capacity this attacher will construct if it wins the
// initialization race; it must already be validated against the region
// size. Losers ignore requested and adopt the published capacity.
//
// The winner constructs the control block and every slot in place, then
// publishes with a release store on initState. Losers poll initState with
// acquire loads, sleeping between polls, so that any attacher returning
// from here observes a fully constructed queue. This wait is the only
// blocking point in the package; it is bounded by the initializer's
// progress.
func attach[T any](r *region[T], requested uint64) uint64 {
	ctrl := r.control()

	if ctrl.initState.CompareAndSwapAcqRel(stateUninitialized, stateInitializing) {
		// Sole initializer. The region is private until the release
		// store below, so plain/relaxed stores suffice here.
		ctrl.head.StoreRelaxed(0)
		ctrl.tail.StoreRelaxed(0)
		ctrl.capacity = requested
		for i := uint64(0); i < requested; i++ {
			s := r.slot(i)
			s.seq.StoreRelaxed(i)
			s.important.StoreRelaxed(false)
		}
		ctrl.initState.StoreRelease(stateInitialized)
		return requested
	}

	// Another attacher is initializing (or already finished). Wait for
	// publication, with a bounded sleep between polls.
	backoff := iox.Backoff{}
	for ctrl.initState.LoadAcquire() != stateInitialized {
		backoff.Wait()
	}
	return ctrl.capacity
}
