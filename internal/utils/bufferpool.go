// Package utils provides shared helpers for the merge engine.
package utils

import "sync"

var indexPool = sync.Pool{
	New: func() any {
		s := make([]int, 0, 4096)
		return &s
	},
}

// GetIndexBuffer returns an int slice of length size from the pool.
// Its contents are undefined.
func GetIndexBuffer(size int) []int {
	p := indexPool.Get().(*[]int)
	if cap(*p) < size {
		indexPool.Put(p)
		return make([]int, size, size*2) // Increase capacity.
	}
	return (*p)[:size]
}

// ReleaseIndexBuffer returns a buffer to the pool.
func ReleaseIndexBuffer(buf []int) {
	buf = buf[:0]
	indexPool.Put(&buf)
}
