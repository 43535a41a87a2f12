// Copyright 2026 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/casekit/core"
	"github.com/poiesic/casekit/sim"
	"github.com/poiesic/casekit/sim/embed"
)

// NoLimit disables result truncation.
const NoLimit = -1

// Request describes one retrieval call. The case base and similarity
// function are treated as read-only; the request itself is not retained by
// the engine after Retrieve returns.
type Request struct {
	CaseBase *core.CaseBase
	Query    core.Value
	Func     sim.Func

	// Limit truncates the ranking. NoLimit keeps all cases; any value
	// >= 0 keeps at most that many.
	Limit int

	// MinSimilarity drops cases scoring below the threshold, before the
	// limit is applied.
	MinSimilarity float64

	// MaxSimilarity drops cases scoring above the threshold. A value of 0
	// disables the upper bound.
	MaxSimilarity float64

	// SkipOnError omits cases whose score computation fails and records
	// them in the result diagnostics instead of failing the whole request.
	SkipOnError bool
}

func (r *Request) validate() error {
	if r.CaseBase == nil {
		return ErrCaseBaseRequired
	}
	if r.Query == nil {
		return ErrQueryRequired
	}
	if r.Func == nil {
		return ErrFuncRequired
	}
	if r.Limit < NoLimit {
		return fmt.Errorf("%w: limit must be NoLimit or non-negative, got %d", core.ErrInvalidConfiguration, r.Limit)
	}
	if r.MinSimilarity < 0 || r.MinSimilarity > 1 {
		return fmt.Errorf("%w: min similarity must be in [0, 1], got %v", core.ErrInvalidConfiguration, r.MinSimilarity)
	}
	if r.MaxSimilarity < 0 || r.MaxSimilarity > 1 {
		return fmt.Errorf("%w: max similarity must be in [0, 1], got %v", core.ErrInvalidConfiguration, r.MaxSimilarity)
	}
	if r.MaxSimilarity != 0 && r.MaxSimilarity < r.MinSimilarity {
		return fmt.Errorf("%w: max similarity %v below min similarity %v", core.ErrInvalidConfiguration, r.MaxSimilarity, r.MinSimilarity)
	}
	return nil
}

// Retriever executes retrieval requests on a bounded worker pool. Safe for
// concurrent use; each call gets its own per-call embedding cache.
type Retriever struct {
	pool            *ants.Pool
	logger          *slog.Logger
	cacheSize       int
	partialOnCancel bool
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithPoolSize sets the worker pool size for concurrent scoring.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(r *Retriever) error {
		if size < 1 {
			size = 1
		}
		if r.pool != nil {
			r.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		r.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithCacheSize sets the per-call embedding cache capacity.
func WithCacheSize(size int) Option {
	return func(r *Retriever) error {
		r.cacheSize = size
		return nil
	}
}

// WithPartialOnCancel opts into best-effort results: when a request is
// cancelled mid-flight, the scores completed so far are ranked and returned
// alongside an error wrapping core.ErrPartialResult instead of being
// discarded.
func WithPartialOnCancel() Option {
	return func(r *Retriever) error {
		r.partialOnCancel = true
		return nil
	}
}

// NewRetriever creates a retriever.
func NewRetriever(opts ...Option) (*Retriever, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	r := &Retriever{
		pool:      pool,
		logger:    slog.Default(),
		cacheSize: embed.DefaultCacheSize,
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			r.pool.Release()
			return nil, err
		}
	}
	return r, nil
}

// Close releases the worker pool.
func (r *Retriever) Close() {
	r.pool.Release()
}

// caseScore is the outcome of scoring a single case.
type caseScore struct {
	entry Entry
	err   error
	done  bool
}

// Retrieve scores every case against the request query and returns the
// ranked result.
func (r *Retriever) Retrieve(ctx context.Context, req Request) (*Result, error) {
	return r.RetrieveWithMonitor(ctx, req, nil)
}

// RetrieveWithMonitor is Retrieve with observation hooks.
//
// Cancellation is honored cooperatively: once the context is done, pending
// cases are abandoned and the call returns an error wrapping
// core.ErrCancelled, or a best-effort partial result when the retriever was
// built WithPartialOnCancel.
func (r *Retriever) RetrieveWithMonitor(ctx context.Context, req Request, monitor Monitor) (*Result, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	keys := req.CaseBase.Keys()
	monitor.Start(requestID, len(keys))

	// The embedding cache lives and dies with this call; concurrent
	// requests never share one.
	ctx = embed.WithCache(ctx, embed.NewCache(r.cacheSize))

	if primer, ok := req.Func.(sim.Primer); ok {
		caseValues := make([]core.Value, 0, len(keys))
		for _, id := range keys {
			if v, ok := req.CaseBase.Get(id); ok {
				caseValues = append(caseValues, v)
			}
		}
		if err := primer.Prime(ctx, []core.Value{req.Query}, caseValues); err != nil {
			return nil, err
		}
	}

	detailed, _ := req.Func.(sim.DetailedFunc)

	scores := make([]caseScore, len(keys))
	var wg sync.WaitGroup
	for i, id := range keys {
		if ctx.Err() != nil {
			break
		}

		i, id := i, id
		wg.Add(1)
		err := r.pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}

			value, _ := req.CaseBase.Get(id)
			entry := Entry{CaseID: id}
			var err error
			if detailed != nil {
				var detail sim.Detail
				detail, err = detailed.CompareDetailed(ctx, value, req.Query)
				entry.Score = detail.Score
				entry.ByAttribute = detail.ByAttribute
			} else {
				entry.Score, err = req.Func.Compare(ctx, value, req.Query)
			}

			scores[i] = caseScore{entry: entry, err: err, done: true}
			if err != nil {
				monitor.CaseSkipped(id, err)
			} else {
				monitor.CaseScored(id, entry.Score)
			}
		})
		if err != nil {
			wg.Done()
			return nil, fmt.Errorf("submitting case %q for scoring: %w", id, err)
		}
	}
	wg.Wait()

	partial := false
	if err := ctx.Err(); err != nil {
		if !r.partialOnCancel {
			return nil, fmt.Errorf("%w: %v", core.ErrCancelled, err)
		}
		partial = true
	}

	result := &Result{RequestID: requestID, Partial: partial}
	for i, cs := range scores {
		switch {
		case !cs.done:
			// Abandoned due to cancellation; only reachable when partial
			// results were requested.
		case cs.err != nil && req.SkipOnError:
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				CaseID: keys[i],
				Reason: cs.err.Error(),
			})
			r.logger.Warn("case skipped during retrieval",
				"requestID", requestID, "caseID", keys[i], "err", cs.err)
		case cs.err != nil:
			return nil, fmt.Errorf("scoring case %q: %w", keys[i], cs.err)
		default:
			result.Entries = append(result.Entries, cs.entry)
		}
	}

	// Entries were collected in insertion order, so a stable sort on the
	// score alone yields the mandated (score desc, insertion index asc)
	// total order.
	sort.SliceStable(result.Entries, func(a, b int) bool {
		return result.Entries[a].Score > result.Entries[b].Score
	})

	result.Entries = filterEntries(result.Entries, req.MinSimilarity, req.MaxSimilarity)
	if req.Limit != NoLimit && len(result.Entries) > req.Limit {
		result.Entries = result.Entries[:req.Limit]
	}

	monitor.Finish(result)
	if partial {
		return result, fmt.Errorf("%w: %v", core.ErrPartialResult, ctx.Err())
	}
	return result, nil
}

func filterEntries(entries []Entry, minSim, maxSim float64) []Entry {
	if minSim == 0 && maxSim == 0 {
		return entries
	}
	filtered := entries[:0]
	for _, e := range entries {
		if e.Score < minSim {
			continue
		}
		if maxSim != 0 && e.Score > maxSim {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}
