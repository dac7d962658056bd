package status

import (
	"math"
	"sync/atomic"
)

// Float is an atomic float64 stored as bits; zero value reads 0.0
type Float struct {
	bits atomic.Uint64
}

func (f *Float) Set(v float64) {
	f.bits.Store(math.Float64bits(v))
}

func (f *Float) Get() float64 {
	return math.Float64frombits(f.bits.Load())
}
