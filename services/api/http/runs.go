package http

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/02loveslollipop/section-viewer/services/api/pipeline"
)

// ErrRunNotFound is returned for unknown or expired runs.
var ErrRunNotFound = errors.New("run not found")

type runEntry struct {
	result  *pipeline.Result
	expires time.Time
}

// runRegistry holds completed runs until their TTL passes.
type runRegistry struct {
	mu     sync.Mutex
	ttl    time.Duration
	runs   map[string]runEntry
	now    func() time.Time
	logger *zap.Logger
}

func newRunRegistry(ttl time.Duration, logger *zap.Logger) *runRegistry {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &runRegistry{
		ttl:    ttl,
		runs:   make(map[string]runEntry),
		now:    time.Now,
		logger: logger,
	}
}

func (r *runRegistry) add(res *pipeline.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[res.ID] = runEntry{result: res, expires: r.now().Add(r.ttl)}
}

func (r *runRegistry) get(id string) (*pipeline.Result, error) {
	r.mu.Lock()
	entry, ok := r.runs[id]
	if ok && !r.now().Before(entry.expires) {
		delete(r.runs, id)
		ok = false
		defer r.cleanup(entry.result)
	}
	r.mu.Unlock()

	if !ok {
		return nil, ErrRunNotFound
	}
	return entry.result, nil
}

// sweep drops expired runs and returns how many were removed.
func (r *runRegistry) sweep() int {
	r.mu.Lock()
	now := r.now()
	expired := make([]*pipeline.Result, 0)
	for id, entry := range r.runs {
		if !now.Before(entry.expires) {
			expired = append(expired, entry.result)
			delete(r.runs, id)
		}
	}
	r.mu.Unlock()

	for _, res := range expired {
		r.cleanup(res)
	}
	return len(expired)
}

func (r *runRegistry) closeAll() {
	r.mu.Lock()
	all := make([]*pipeline.Result, 0, len(r.runs))
	for id, entry := range r.runs {
		all = append(all, entry.result)
		delete(r.runs, id)
	}
	r.mu.Unlock()

	for _, res := range all {
		r.cleanup(res)
	}
}

func (r *runRegistry) janitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.sweep(); n > 0 {
				r.logger.Info("expired runs removed", zap.Int("count", n))
			}
		}
	}
}

func (r *runRegistry) cleanup(res *pipeline.Result) {
	if err := res.Cleanup(); err != nil {
		r.logger.Warn("workspace cleanup failed", zap.String("run_id", res.ID), zap.Error(err))
	}
}
