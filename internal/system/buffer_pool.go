package system

import (
	"image"
	"sync"
	"sync/atomic"
)

// ImagePool переиспользует кадры *image.RGBA одного размера, чтобы
// рендер тысяч кадров не нагружал GC.
type ImagePool struct {
	mu    sync.RWMutex
	pools map[image.Rectangle]*sync.Pool

	allocated atomic.Int64
	served    atomic.Int64
}

var globalPool = NewImagePool()

func NewImagePool() *ImagePool {
	return &ImagePool{pools: make(map[image.Rectangle]*sync.Pool)}
}

// GetImage returns a frame of the given size from the shared pool. Its
// contents are whatever the previous user left there.
func GetImage(rect image.Rectangle) *image.RGBA {
	return globalPool.Get(rect)
}

// PutImage hands a frame back to the shared pool.
func PutImage(img *image.RGBA) {
	globalPool.Put(img)
}

// PoolStats reports how many frames the shared pool served and how many of
// those needed a fresh allocation.
func PoolStats() (served, allocated int64) {
	return globalPool.served.Load(), globalPool.allocated.Load()
}

func (p *ImagePool) pool(rect image.Rectangle) *sync.Pool {
	p.mu.RLock()
	pool, ok := p.pools[rect]
	p.mu.RUnlock()
	if ok {
		return pool
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// Double check
	if pool, ok = p.pools[rect]; ok {
		return pool
	}
	pool = &sync.Pool{
		New: func() any {
			p.allocated.Add(1)
			return image.NewRGBA(rect)
		},
	}
	p.pools[rect] = pool
	return pool
}

func (p *ImagePool) Get(rect image.Rectangle) *image.RGBA {
	p.served.Add(1)
	return p.pool(rect).Get().(*image.RGBA)
}

func (p *ImagePool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	p.mu.RLock()
	pool, ok := p.pools[img.Rect]
	p.mu.RUnlock()
	if ok {
		pool.Put(img)
	}
}
