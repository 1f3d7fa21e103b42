// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shmq

import (
	"code.hybscloud.com/spin"
)

// Queue is a non-owning handle to a bounded lock-free MPMC queue whose
// state lives entirely in a caller-supplied memory region.
//
// Any number of handles, in the same or different processes, may operate
// on the same region concurrently. A handle owns neither the memory nor
// any lock; dropping it has no effect on the queue, and the queue has no
// destruction step of its own — its lifetime is the region's.
//
// The algorithm is the CAS-based sequence-per-slot MPMC protocol, extended
// with an overwrite-on-full policy: when the queue is at capacity, an
// enqueue may evict the single oldest occupant unless that occupant was
// enqueued as important, in which case the enqueue fails and nothing
// changes. Eviction never touches any slot but the oldest, so logical FIFO
// order is preserved.
type Queue[T any] struct {
	r        region[T]
	capacity uint64
}

// Attach binds a handle to mem, deriving the capacity from the region
// size: capacity = (len(mem) - control block) / slot stride.
//
// Attach runs the initialization handshake: exactly one of the handles
// racing to attach a freshly zeroed region constructs the shared state;
// the others wait for construction to finish and adopt the published
// capacity. Attaching to an already-initialized region never mutates it.
//
// mem must be zero-filled on first use, 64-byte aligned, and mapped at
// the same length by every attaching process. Acquiring, naming, and
// releasing the region are the caller's concern.
func Attach[T any](mem []byte) (*Queue[T], error) {
	r, err := newRegion[T](mem)
	if err != nil {
		return nil, err
	}
	return bind(&r, uint64(r.maxSlots))
}

// AttachCapacity is like [Attach] but constructs exactly capacity slots
// when this handle wins the initialization race, rather than filling the
// region. Returns ErrRegionTooSmall if the region cannot hold capacity
// slots. If the region is already initialized, the published capacity is
// adopted and the requested one is ignored.
//
// Panics if capacity < 2: a single-slot queue cannot distinguish a
// published slot from a free one in the sequence protocol.
func AttachCapacity[T any](mem []byte, capacity int) (*Queue[T], error) {
	if capacity < minCapacity {
		panic("shmq: capacity must be >= 2")
	}
	r, err := newRegion[T](mem)
	if err != nil {
		return nil, err
	}
	if uintptr(capacity) > r.maxSlots {
		return nil, ErrRegionTooSmall
	}
	return bind(&r, uint64(capacity))
}

// bind runs the handshake and wraps the agreed state in a handle.
func bind[T any](r *region[T], requested uint64) (*Queue[T], error) {
	capacity := attach(r, requested)
	if capacity > uint64(r.maxSlots) {
		// The region was initialized through a larger mapping than ours.
		return nil, ErrRegionTooSmall
	}
	return &Queue[T]{r: *r, capacity: capacity}, nil
}

// Enqueue adds an element to the queue. The element is copied into the
// shared buffer; the original may be modified after Enqueue returns.
//
// important marks the element as protected: once admitted, it will never
// be evicted by the overwrite-on-full policy and can only leave the queue
// through Dequeue.
//
// When the queue is full, Enqueue evicts the oldest occupant to make room
// — unless that occupant is important, in which case it returns
// ErrWouldBlock and mutates nothing. Internal CAS contention is resolved
// by retrying and never surfaces.
func (q *Queue[T]) Enqueue(elem *T, important bool) error {
	ctrl := q.r.control()
	sw := spin.Wait{}
	for {
		tail := ctrl.tail.LoadAcquire()
		s := q.r.slot(tail % q.capacity)
		seq := s.seq.LoadAcquire()
		diff := int64(seq) - int64(tail)

		if diff == 0 {
			// Slot is free for this lap.
			if ctrl.tail.CompareAndSwapAcqRel(tail, tail+1) {
				s.data = *elem
				s.important.StoreRelaxed(important)
				s.seq.StoreRelease(tail + 1)
				return nil
			}
		} else if diff < 0 {
			// Queue full: the slot still holds the oldest unconsumed
			// item. Evict it unless it is important.
			if s.important.LoadAcquire() {
				return ErrWouldBlock
			}
			if ctrl.tail.CompareAndSwapAcqRel(tail, tail+1) {
				// One item was discarded to make room; advance head
				// past it to keep the occupancy accounting exact. The
				// CAS fails only if a consumer claimed the item
				// concurrently, which settles the accounting equally.
				ctrl.head.CompareAndSwapAcqRel(tail-q.capacity, tail-q.capacity+1)
				s.data = *elem
				s.important.StoreRelaxed(important)
				s.seq.StoreRelease(tail + 1)
				return nil
			}
		}
		// CAS lost or another producer advanced tail: retry.
		sw.Once()
	}
}

// Dequeue removes and returns the oldest element along with its important
// flag. Returns (zero-value, false, ErrWouldBlock) if the queue is empty.
func (q *Queue[T]) Dequeue() (T, bool, error) {
	ctrl := q.r.control()
	sw := spin.Wait{}
	for {
		head := ctrl.head.LoadAcquire()
		s := q.r.slot(head % q.capacity)
		seq := s.seq.LoadAcquire()
		diff := int64(seq) - int64(head+1)

		if diff == 0 {
			if ctrl.head.CompareAndSwapAcqRel(head, head+1) {
				elem := s.data
				important := s.important.LoadRelaxed()
				s.important.StoreRelaxed(false)
				s.seq.StoreRelease(head + q.capacity)
				return elem, important, nil
			}
		} else if diff < 0 {
			var zero T
			return zero, false, ErrWouldBlock
		}
		sw.Once()
	}
}

// Cap returns the queue capacity agreed at initialization.
func (q *Queue[T]) Cap() int {
	return int(q.capacity)
}

// IsEmpty reports whether the queue was empty at the instant the cursors
// were read. Under concurrent mutation the answer may be stale by the time
// it is returned.
func (q *Queue[T]) IsEmpty() bool {
	ctrl := q.r.control()
	head := ctrl.head.LoadAcquire()
	tail := ctrl.tail.LoadAcquire()
	return head == tail
}

// Size returns the number of elements in the queue, derived as tail-head.
// The two cursors are read separately, so under concurrent mutation —
// eviction in particular, which advances tail before head — the value is
// a possibly stale snapshot; treat it as informational, not a basis for
// correctness decisions.
func (q *Queue[T]) Size() int {
	ctrl := q.r.control()
	head := ctrl.head.LoadAcquire()
	tail := ctrl.tail.LoadAcquire()
	return int(tail - head)
}
