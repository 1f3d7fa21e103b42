// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package shmq provides a bounded lock-free MPMC queue over shared memory.
//
// The queue's entire logical state — cursors, capacity, and the circular
// slot buffer — lives in a caller-supplied raw memory region. The same
// algorithm therefore works unchanged between goroutines of one process
// and between independent processes that map the same region. The package
// never acquires, names, or releases the region itself: anonymous shared
// memory, memory-mapped files, and their lifetimes are the caller's
// collaborators.
//
// # Quick Start
//
//	// Size the region for 1024 elements (pure query).
//	size := shmq.RequiredSize[Sample](1024)
//
//	// Map a zero-filled region of that size by any external means,
//	// then attach. The first attacher constructs the queue; later
//	// attachers (any process) adopt it.
//	q, err := shmq.AttachCapacity[Sample](mem, 1024)
//	if err != nil {
//	    // region too small, misaligned, or element type unsuitable
//	}
//
//	// Producers
//	s := Sample{ID: 7}
//	if err := q.Enqueue(&s, false); err != nil {
//	    // full, and the oldest occupant is important
//	}
//
//	// Consumers
//	s, important, err := q.Dequeue()
//	if shmq.IsWouldBlock(err) {
//	    // empty - try again later
//	}
//
// Alternatively, [Attach] derives the capacity from the region size, the
// way a fixed-size mapping is usually carved up:
//
//	q, err := shmq.Attach[Sample](mem) // capacity = CapacityFor[Sample](len(mem))
//
// # Memory Layout
//
// The region is laid out in host byte order, deterministically from the
// element type alone, so every attacher computes identical offsets:
//
//	[ control block          ]  aligned to the maximum scalar alignment
//	[ slot[0] ... slot[cap-1]]  each slot padded to a whole 64-byte line
//
// RequiredSize reports the exact total. Adjacent slots never share a cache
// line, and the region base must itself be 64-byte aligned (page-aligned
// mappings always are). Minimum capacity is 2: with a single slot the
// sequence protocol cannot tell a published slot from a free one.
//
// # Initialization Handshake
//
// Any number of handles may race to attach a freshly zeroed region.
// A three-state flag in the control block elects exactly one initializer
// via compare-and-swap; it constructs the cursors and slots in place and
// publishes them with a release store. Every other attacher waits for
// publication (the only blocking point in the package, bounded by the
// initializer's progress) and then adopts the published capacity.
// Attaching to an already-initialized region never mutates it.
//
// # Overwrite On Full
//
// Enqueue on a full queue does not simply fail. The oldest occupant is
// evicted to make room — unless it was enqueued with important=true, in
// which case Enqueue returns [ErrWouldBlock] and the queue is untouched.
// Only the single oldest slot is ever eligible for eviction, so dropped
// data is always the oldest and FIFO order among survivors is preserved.
// Use the important flag for data that must reach a consumer even under
// backpressure; use the error as a signal to retry, drop, or escalate.
//
// # Element Types
//
// Elements are stored by value, in place. The element type must be
// meaningful in every attaching address space: fixed-size, pointer-free
// data. Attach rejects types containing pointers, slices, maps, strings,
// channels, funcs, or interfaces with [ErrPointerType]. Host byte order
// and identical field layout across attachers are assumed — in practice,
// run the same binary or keep the struct definitions identical.
//
// # Concurrency
//
// All operations are non-blocking and lock-free: a stalled thread never
// prevents system-wide progress. Per-slot sequence counters carry the
// acquire/release pairing that makes the non-atomic element data safe to
// read without a lock; cursors advance only by compare-and-swap, one
// position at a time. There is no internal waiting, cancellation, or
// timeout — callers wanting bounded waiting poll with their own backoff:
//
//	backoff := iox.Backoff{}
//	for {
//	    elem, important, err := q.Dequeue()
//	    if err == nil {
//	        backoff.Reset()
//	        process(elem, important)
//	        continue
//	    }
//	    backoff.Wait()
//	}
//
// IsEmpty and Size are instantaneous snapshots; under concurrent mutation
// they may be stale by the time they return and must not gate correctness.
//
// # Race Detection
//
// Go's race detector cannot observe the happens-before edges that atomic
// acquire/release orderings establish across separate variables, which is
// exactly how the slot protocol protects element data. Stress tests are
// skipped under the race detector via the RaceEnabled constant; verify the
// algorithm with stress runs and memory-model analysis instead.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/atomix] for atomic primitives with
// explicit memory ordering, [code.hybscloud.com/spin] for CPU pause
// instructions in retry loops, and [code.hybscloud.com/iox] for semantic
// errors and backoff.
package shmq
