// Package mempool provides sized pools for pixel-plane buffers to reduce
// allocations on the per-image hot paths (edge maps, binary masks, gray
// planes).
package mempool

import "sync"

type poolable interface {
	~uint8 | ~bool | ~float32
}

type sizedPool[T poolable] struct {
	pools sync.Map // key: size class (int), value: *sync.Pool
}

// sizeClass rounds n up to the next multiple of 4096 to reduce churn
// across slightly different image dimensions.
func sizeClass(n int) int {
	const step = 4096
	if n <= step {
		return step
	}
	return ((n + step - 1) / step) * step
}

// get retrieves a buffer of length n, zeroed.
func (sp *sizedPool[T]) get(n int) []T {
	cls := sizeClass(n)
	pAny, _ := sp.pools.LoadOrStore(cls, &sync.Pool{New: func() any { return make([]T, cls) }})
	p, ok := pAny.(*sync.Pool)
	if !ok {
		return make([]T, n)
	}
	buf, ok := p.Get().([]T)
	if !ok || cap(buf) < cls {
		buf = make([]T, cls)
	}
	buf = buf[:n]
	var zero T
	for i := range buf {
		buf[i] = zero
	}
	return buf
}

// put returns a buffer to the pool. Nil slices are ignored.
func (sp *sizedPool[T]) put(buf []T) {
	if buf == nil {
		return
	}
	cls := sizeClass(cap(buf))
	pAny, _ := sp.pools.LoadOrStore(cls, &sync.Pool{New: func() any { return make([]T, cls) }})
	if p, ok := pAny.(*sync.Pool); ok {
		p.Put(buf[:cap(buf)]) //nolint:staticcheck
	}
}

var (
	uint8Pool   sizedPool[uint8]
	boolPool    sizedPool[bool]
	float32Pool sizedPool[float32]
)

// GetUint8 retrieves a zeroed []uint8 buffer of length n from the pool.
// The caller must return it via PutUint8 when done.
func GetUint8(n int) []uint8 { return uint8Pool.get(n) }

// PutUint8 returns a buffer to the pool. It is safe to pass a nil slice.
func PutUint8(buf []uint8) { uint8Pool.put(buf) }

// GetBool retrieves a zeroed []bool buffer of length n from the pool.
// The caller must return it via PutBool when done.
func GetBool(n int) []bool { return boolPool.get(n) }

// PutBool returns a buffer to the pool. It is safe to pass a nil slice.
func PutBool(buf []bool) { boolPool.put(buf) }

// GetFloat32 retrieves a zeroed []float32 buffer of length n from the pool.
// The caller must return it via PutFloat32 when done.
func GetFloat32(n int) []float32 { return float32Pool.get(n) }

// PutFloat32 returns a buffer to the pool. It is safe to pass a nil slice.
func PutFloat32(buf []float32) { float32Pool.put(buf) }
