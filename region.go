// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shmq

import (
	"reflect"
	"unsafe"
)

// region is a bounds-checked typed view over a caller-supplied memory
// region. It is the only place in the package that performs unsafe address
// arithmetic: the control block and every slot are reached through it.
//
// A region holds the backing byte slice (keeping a mapped region reachable
// for the lifetime of the handle) plus precomputed offsets. It never stores
// Go pointers into the shared memory itself; addresses are derived on
// demand from the slice base, so the view stays valid wherever the region
// happens to be mapped.
type region[T any] struct {
	mem      []byte
	lay      layout
	maxSlots uintptr // bound for slot(), from len(mem)
}

// newRegion validates mem and binds a typed view to it.
//
// Requirements checked here, once:
//   - T contains no Go pointers (ErrPointerType)
//   - the base address is 64-byte aligned (ErrMisaligned)
//   - the region holds the control block and at least one slot
//     (ErrRegionTooSmall)
func newRegion[T any](mem []byte) (region[T], error) {
	var zero T
	if typeHasPointers(reflect.TypeOf(zero)) {
		return region[T]{}, ErrPointerType
	}
	lay := layoutOf[T]()
	if uintptr(len(mem)) < lay.minRegionSize() {
		return region[T]{}, ErrRegionTooSmall
	}
	if uintptr(unsafe.Pointer(&mem[0]))%slotAlign != 0 {
		return region[T]{}, ErrMisaligned
	}
	return region[T]{
		mem:      mem,
		lay:      lay,
		maxSlots: lay.maxCapacity(uintptr(len(mem))),
	}, nil
}

// base returns the region base address.
func (r *region[T]) base() unsafe.Pointer {
	return unsafe.Pointer(&r.mem[0])
}

// control returns the control block view at the region base.
func (r *region[T]) control() *controlBlock {
	return (*controlBlock)(r.base())
}

// slot returns the view of slot i. Indexing past the region bound is a
// corrupted-state condition, not a recoverable error.
func (r *region[T]) slot(i uint64) *slot[T] {
	if uintptr(i) >= r.maxSlots {
		panic("shmq: slot index out of region bounds")
	}
	return (*slot[T])(unsafe.Pointer(uintptr(r.base()) + r.lay.slotsOffset + uintptr(i)*r.lay.slotStride))
}

// typeHasPointers reports whether t contains any pointer-typed memory.
// Values of such types cannot be shared across address spaces.
func typeHasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr, reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return typeHasPointers(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if typeHasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		// Pointer, UnsafePointer, Slice, Map, String, Chan, Func,
		// Interface: all carry pointers.
		return true
	}
}
