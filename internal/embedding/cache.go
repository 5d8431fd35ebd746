package embedding

import (
	"container/list"
	"context"
	"crypto/sha256"
	"sync"
)

// DefaultCacheSize bounds the number of cached vectors.
const DefaultCacheSize = 1024

// Cached memoizes an Embedder with a bounded LRU keyed by text hash.
type Cached struct {
	inner Embedder
	size  int

	mu    sync.Mutex
	order *list.List
	items map[[32]byte]*list.Element
}

type cacheEntry struct {
	key [32]byte
	vec []float32
}

// NewCached wraps inner with an LRU of the given size.
func NewCached(inner Embedder, size int) *Cached {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &Cached{
		inner: inner,
		size:  size,
		order: list.New(),
		items: make(map[[32]byte]*list.Element),
	}
}

// Embed returns a cached vector or computes and stores it.
func (c *Cached) Embed(ctx context.Context, text string) ([]float32, error) {
	key := sha256.Sum256([]byte(c.inner.Model() + "\x00" + text))
	if vec, ok := c.get(key); ok {
		return vec, nil
	}
	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.put(key, vec)
	return vec, nil
}

// EmbedBatch serves cached vectors and embeds only the misses.
func (c *Cached) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	keys := make([][32]byte, len(texts))
	var missIdx []int
	var missTexts []string
	for i, t := range texts {
		keys[i] = sha256.Sum256([]byte(c.inner.Model() + "\x00" + t))
		if vec, ok := c.get(keys[i]); ok {
			out[i] = vec
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, t)
	}
	if len(missTexts) == 0 {
		return out, nil
	}
	vecs, err := c.inner.EmbedBatch(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	for j, i := range missIdx {
		out[i] = vecs[j]
		c.put(keys[i], vecs[j])
	}
	return out, nil
}

// Model returns the wrapped model name.
func (c *Cached) Model() string {
	return c.inner.Model()
}

// Len returns the number of cached vectors.
func (c *Cached) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *Cached) get(key [32]byte) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).vec, true
}

func (c *Cached) put(key [32]byte, vec []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		el.Value.(*cacheEntry).vec = vec
		c.order.MoveToFront(el)
		return
	}
	c.items[key] = c.order.PushFront(&cacheEntry{key: key, vec: vec})
	for c.order.Len() > c.size {
		last := c.order.Back()
		c.order.Remove(last)
		delete(c.items, last.Value.(*cacheEntry).key)
	}
}
