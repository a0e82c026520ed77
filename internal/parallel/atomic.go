package parallel

import (
	"math"
	"sync/atomic"
	"unsafe"
)

// AddFloat32 atomically adds delta to *addr.
//
// Go has no atomic float intrinsic, so this runs a compare-and-swap loop on
// the value's bit pattern. Multiple goroutines may accumulate into the same
// address concurrently; contributions never overwrite each other.
func AddFloat32(addr *float32, delta float32) {
	bits := (*uint32)(unsafe.Pointer(addr))
	for {
		old := atomic.LoadUint32(bits)
		next := math.Float32bits(math.Float32frombits(old) + delta)
		if atomic.CompareAndSwapUint32(bits, old, next) {
			return
		}
	}
}

// AddFloat64 atomically adds delta to *addr using a compare-and-swap loop.
func AddFloat64(addr *float64, delta float64) {
	bits := (*uint64)(unsafe.Pointer(addr))
	for {
		old := atomic.LoadUint64(bits)
		next := math.Float64bits(math.Float64frombits(old) + delta)
		if atomic.CompareAndSwapUint64(bits, old, next) {
			return
		}
	}
}
