package image

import "sync"

// Pool reuses Buf instances keyed by size and format.
//
// Textures take their temporary lock storage from a Pool so repeated
// lock/unlock cycles on render targets do not allocate every frame.
//
// Thread safety: All methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	buckets map[poolKey][]*Buf
	maxSize int // max buffers per bucket
}

type poolKey struct {
	width  int
	height int
	format Format
}

// NewPool creates a pool retaining at most maxPerBucket buffers of each
// size/format. Zero means unlimited.
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[poolKey][]*Buf),
		maxSize: maxPerBucket,
	}
}

// Get returns a zeroed buffer of the given size and format, or nil when the
// parameters are invalid.
func (p *Pool) Get(width, height int, format Format) *Buf {
	key := poolKey{width: width, height: height, format: format}

	p.mu.Lock()
	bucket := p.buckets[key]
	if len(bucket) > 0 {
		buf := bucket[len(bucket)-1]
		p.buckets[key] = bucket[:len(bucket)-1]
		p.mu.Unlock()
		buf.Clear()
		return buf
	}
	p.mu.Unlock()

	buf, err := NewBuf(width, height, format)
	if err != nil {
		return nil
	}
	return buf
}

// Put returns buf to the pool. Buffers with foreign pitch are discarded.
func (p *Pool) Put(buf *Buf) {
	if buf == nil || !buf.Tight() {
		return
	}
	key := poolKey{width: buf.width, height: buf.height, format: buf.format}

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[key] = append(bucket, buf)
}

// Len returns the number of pooled buffers.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, b := range p.buckets {
		n += len(b)
	}
	return n
}
