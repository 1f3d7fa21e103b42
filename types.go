// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shmq

// Producer is the enqueue-side view of a queue.
//
// Hand a Producer to components that should only ever submit items.
// Enqueue is non-blocking and safe for any number of goroutines and
// processes; it returns ErrWouldBlock only when the queue is full and the
// oldest occupant is important.
type Producer[T any] interface {
	// Enqueue copies the element into the queue. important protects the
	// element from overwrite-on-full eviction.
	Enqueue(elem *T, important bool) error
}

// Consumer is the dequeue-side view of a queue.
//
// Dequeue is non-blocking and safe for any number of goroutines and
// processes. The bool result is the important flag the element was
// enqueued with.
type Consumer[T any] interface {
	// Dequeue removes and returns the oldest element and its important
	// flag. Returns (zero-value, false, ErrWouldBlock) if the queue is
	// empty.
	Dequeue() (T, bool, error)
}

var (
	_ Producer[int] = (*Queue[int])(nil)
	_ Consumer[int] = (*Queue[int])(nil)
)
