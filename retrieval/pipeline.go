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
	"sort"

	"github.com/poiesic/casekit/core"
	"github.com/poiesic/casekit/sim"
)

// Stage is one step of a cascaded pipeline. Each stage retrieves against
// the cases that survived the previous stage, so cheap coarse functions can
// narrow the candidate set before expensive fine-grained ones run.
type Stage struct {
	Name          string
	Func          sim.Func
	Limit         int
	MinSimilarity float64
	MaxSimilarity float64
	SkipOnError   bool
}

// Pipeline runs a fixed sequence of retrieval stages over a shared
// retriever.
type Pipeline struct {
	retriever *Retriever
	stages    []Stage
}

// NewPipeline validates the stages eagerly so a misconfigured stage fails
// at construction rather than mid-cascade.
func NewPipeline(retriever *Retriever, stages ...Stage) (*Pipeline, error) {
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if len(stages) == 0 {
		return nil, ErrNoStages
	}
	for i, stage := range stages {
		if stage.Func == nil {
			return nil, fmt.Errorf("%w: stage %d (%q) has no similarity function",
				core.ErrInvalidConfiguration, i, stage.Name)
		}
		if stage.Limit < NoLimit {
			return nil, fmt.Errorf("%w: stage %d (%q) limit must be NoLimit or non-negative, got %d",
				core.ErrInvalidConfiguration, i, stage.Name, stage.Limit)
		}
	}
	return &Pipeline{retriever: retriever, stages: stages}, nil
}

// ApplyQuery runs the cascade for a single query. The returned pipeline
// result records every stage so callers can inspect intermediate rankings.
func (p *Pipeline) ApplyQuery(ctx context.Context, cb *core.CaseBase, queryID string, query core.Value) (*PipelineResult, error) {
	if cb == nil {
		return nil, ErrCaseBaseRequired
	}
	if query == nil {
		return nil, ErrQueryRequired
	}

	pr := &PipelineResult{QueryID: queryID}
	current := cb
	for i, stage := range p.stages {
		res, err := p.retriever.Retrieve(ctx, Request{
			CaseBase:      current,
			Query:         query,
			Func:          stage.Func,
			Limit:         stage.Limit,
			MinSimilarity: stage.MinSimilarity,
			MaxSimilarity: stage.MaxSimilarity,
			SkipOnError:   stage.SkipOnError,
		})
		if err != nil {
			return nil, fmt.Errorf("stage %d (%q) for query %q: %w", i, stage.Name, queryID, err)
		}
		pr.Steps = append(pr.Steps, res)
		if i < len(p.stages)-1 {
			current = current.Subset(res.CaseIDs())
		}
	}
	return pr, nil
}

// Apply runs the cascade for each query. Queries are processed in sorted
// identifier order so reruns over the same inputs behave identically; the
// first failing query aborts the whole batch.
func (p *Pipeline) Apply(ctx context.Context, cb *core.CaseBase, queries map[string]core.Value) (map[string]*PipelineResult, error) {
	if len(queries) == 0 {
		return nil, fmt.Errorf("%w: no queries", core.ErrEmptyInput)
	}

	queryIDs := make([]string, 0, len(queries))
	for id := range queries {
		queryIDs = append(queryIDs, id)
	}
	sort.Strings(queryIDs)

	results := make(map[string]*PipelineResult, len(queries))
	for _, id := range queryIDs {
		pr, err := p.ApplyQuery(ctx, cb, id, queries[id])
		if err != nil {
			return nil, err
		}
		results[id] = pr
	}
	return results, nil
}
