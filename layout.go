// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shmq

import "unsafe"

const (
	// maxAlign is the maximum scalar alignment. The control block begins
	// on a maxAlign boundary so every atomic field inside it is safe to
	// access atomically.
	maxAlign = 16

	// slotAlign is the cache line size. Each slot occupies a whole number
	// of cache lines so adjacent slots never share one (false sharing).
	slotAlign = 64
)

// layout describes where the shared structures live relative to the region
// base address. All values are derived purely from the element type; two
// processes computing a layout for the same type agree byte for byte.
type layout struct {
	controlSize uintptr // control block size, rounded to maxAlign
	slotsOffset uintptr // byte offset of slot[0], rounded to slotAlign
	slotStride  uintptr // distance between consecutive slots
}

// alignUp rounds n up to the next multiple of a. a must be a power of 2.
func alignUp(n, a uintptr) uintptr {
	return (n + a - 1) &^ (a - 1)
}

// layoutOf computes the region layout for element type T.
func layoutOf[T any]() layout {
	var s slot[T]
	controlSize := alignUp(unsafe.Sizeof(controlBlock{}), maxAlign)
	return layout{
		controlSize: controlSize,
		slotsOffset: alignUp(controlSize, slotAlign),
		slotStride:  alignUp(unsafe.Sizeof(s), slotAlign),
	}
}

// minCapacity is the smallest usable queue. With a single slot the
// sequence protocol cannot tell a published slot (seq = p+1) from a
// next-lap free slot (seq = p+capacity), so full-queue enqueues would
// silently overwrite without consulting the important flag.
const minCapacity = 2

// minRegionSize is the smallest region this layout can operate in:
// one control block plus minCapacity slots.
func (l layout) minRegionSize() uintptr {
	return l.slotsOffset + minCapacity*l.slotStride
}

// regionSize returns the total bytes needed for the given capacity.
func (l layout) regionSize(capacity uintptr) uintptr {
	return l.slotsOffset + capacity*l.slotStride
}

// maxCapacity returns how many slots fit in a region of regionSize bytes.
// Returns 0 when the region cannot hold the control block and one slot.
func (l layout) maxCapacity(regionSize uintptr) uintptr {
	if regionSize < l.minRegionSize() {
		return 0
	}
	return (regionSize - l.slotsOffset) / l.slotStride
}

// RequiredSize returns the number of bytes a shared region must provide to
// hold a queue of the given capacity for element type T.
//
// RequiredSize is a pure query with no side effects. Use it to size a
// shared memory mapping before the first attach:
//
//	size := shmq.RequiredSize[Sample](1024)
//	mem := mapSharedRegion("samples", size) // external collaborator
//	q, err := shmq.AttachCapacity[Sample](mem, 1024)
//
// Panics if capacity < 2.
func RequiredSize[T any](capacity int) int {
	if capacity < minCapacity {
		panic("shmq: capacity must be >= 2")
	}
	return int(layoutOf[T]().regionSize(uintptr(capacity)))
}

// CapacityFor returns the queue capacity that a region of regionSize bytes
// yields for element type T, i.e. the capacity [Attach] would derive.
// Returns 0 when the region is too small to operate in (control block
// plus two slots).
func CapacityFor[T any](regionSize int) int {
	if regionSize < 0 {
		return 0
	}
	return int(layoutOf[T]().maxCapacity(uintptr(regionSize)))
}
