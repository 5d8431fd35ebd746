package kb

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/jonathan/resume-scorer/internal/embedding"
	"github.com/jonathan/resume-scorer/internal/logging"
)

// LoaderFunc builds the index on first use.
type LoaderFunc func(ctx context.Context) (*Index, error)

// Handle owns a lazily-loaded Index. The loader runs at most once per
// Handle, detached from the cancellation of the caller that triggered it;
// every caller observes the same index or the same load error.
type Handle struct {
	load   LoaderFunc
	logger *zap.Logger

	start sync.Once
	done  chan struct{}
	ix    *Index
	err   error
}

// NewHandle wraps a loader.
func NewHandle(load LoaderFunc, logger *zap.Logger) *Handle {
	return &Handle{load: load, logger: logging.OrNop(logger)}
}

// FileHandle lazily loads the JSON Lines knowledge base at path.
func FileHandle(path string, e embedding.Embedder, logger *zap.Logger) *Handle {
	return NewHandle(func(ctx context.Context) (*Index, error) {
		return Load(ctx, path, e)
	}, logger)
}

// StaticHandle wraps an already-built index.
func StaticHandle(ix *Index) *Handle {
	h := &Handle{logger: zap.NewNop(), ix: ix}
	h.start.Do(func() {
		h.done = make(chan struct{})
		close(h.done)
	})
	return h
}

// Get returns the index, starting the load on the first call. A caller whose
// ctx ends first gets ctx.Err(); the load keeps running for later callers.
func (h *Handle) Get(ctx context.Context) (*Index, error) {
	if h == nil {
		return nil, fmt.Errorf("kb: no knowledge base configured")
	}
	h.start.Do(func() {
		h.done = make(chan struct{})
		go h.run(context.WithoutCancel(ctx))
	})

	select {
	case <-h.done:
		return h.ix, h.err
	default:
	}
	select {
	case <-h.done:
		return h.ix, h.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (h *Handle) run(ctx context.Context) {
	defer close(h.done)
	if h.load == nil {
		h.err = fmt.Errorf("kb: no loader configured")
		return
	}
	h.ix, h.err = h.load(ctx)
	if h.err != nil {
		h.logger.Warn("knowledge base unavailable", zap.Error(h.err))
		return
	}
	st := h.ix.Stats()
	h.logger.Info("knowledge base loaded",
		zap.Int("entries", st.TotalEntries),
		zap.Int("dimensions", st.Dimensions),
		zap.String("model", st.Model))
}

// Search implements Searcher, loading the index if needed.
func (h *Handle) Search(ctx context.Context, query, typeFilter string, topK int) ([]Result, error) {
	ix, err := h.Get(ctx)
	if err != nil {
		return nil, err
	}
	return ix.Search(ctx, query, typeFilter, topK)
}
