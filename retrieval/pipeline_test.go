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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/casekit/core"
	"github.com/poiesic/casekit/sim"
)

func TestNewPipeline(t *testing.T) {
	linear, err := sim.NewLinear(10)
	require.NoError(t, err)
	r := newTestRetriever(t)

	t.Run("requires a retriever", func(t *testing.T) {
		_, err := NewPipeline(nil, Stage{Name: "only", Func: linear, Limit: NoLimit})
		assert.ErrorIs(t, err, ErrRetrieverRequired)
	})

	t.Run("requires at least one stage", func(t *testing.T) {
		_, err := NewPipeline(r)
		assert.ErrorIs(t, err, ErrNoStages)
	})

	t.Run("rejects a stage without a function", func(t *testing.T) {
		_, err := NewPipeline(r, Stage{Name: "broken", Limit: NoLimit})
		assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
	})
}

func TestPipelineApplyQuery(t *testing.T) {
	linear, err := sim.NewLinear(10)
	require.NoError(t, err)
	r := newTestRetriever(t)

	t.Run("later stages only see survivors", func(t *testing.T) {
		p, err := NewPipeline(r,
			Stage{Name: "coarse", Func: linear, Limit: 2},
			Stage{Name: "fine", Func: linear, Limit: 1},
		)
		require.NoError(t, err)

		pr, err := p.ApplyQuery(context.Background(), pricesCaseBase(t), "q1", 12)
		require.NoError(t, err)
		require.Len(t, pr.Steps, 2)
		assert.Equal(t, []core.CaseID{"c1", "c3"}, pr.Steps[0].CaseIDs())
		assert.Equal(t, []core.CaseID{"c1"}, pr.Final().CaseIDs())
	})

	t.Run("a non-narrowing cascade matches single-stage retrieval", func(t *testing.T) {
		single, err := NewPipeline(r, Stage{Name: "only", Func: linear, Limit: NoLimit})
		require.NoError(t, err)
		cascade, err := NewPipeline(r,
			Stage{Name: "first", Func: linear, Limit: NoLimit},
			Stage{Name: "second", Func: linear, Limit: NoLimit},
		)
		require.NoError(t, err)

		cb := pricesCaseBase(t)
		want, err := single.ApplyQuery(context.Background(), cb, "q1", 12)
		require.NoError(t, err)
		got, err := cascade.ApplyQuery(context.Background(), cb, "q1", 12)
		require.NoError(t, err)
		assert.Equal(t, want.Final().Entries, got.Final().Entries)
	})

	t.Run("stage failure names the stage and query", func(t *testing.T) {
		failing := sim.FuncOf(func(ctx context.Context, x, y core.Value) (float64, error) {
			return 0, assert.AnError
		})
		p, err := NewPipeline(r, Stage{Name: "broken", Func: failing, Limit: NoLimit})
		require.NoError(t, err)

		_, err = p.ApplyQuery(context.Background(), pricesCaseBase(t), "q1", 12)
		assert.ErrorIs(t, err, assert.AnError)
		assert.ErrorContains(t, err, `"broken"`)
		assert.ErrorContains(t, err, `"q1"`)
	})
}

func TestPipelineApply(t *testing.T) {
	linear, err := sim.NewLinear(10)
	require.NoError(t, err)
	r := newTestRetriever(t)

	p, err := NewPipeline(r, Stage{Name: "only", Func: linear, Limit: 1})
	require.NoError(t, err)

	t.Run("each query gets its own cascade", func(t *testing.T) {
		results, err := p.Apply(context.Background(), pricesCaseBase(t), map[string]core.Value{
			"near-ten":    12,
			"near-twenty": 19,
		})
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, []core.CaseID{"c1"}, results["near-ten"].Final().CaseIDs())
		assert.Equal(t, []core.CaseID{"c2"}, results["near-twenty"].Final().CaseIDs())
	})

	t.Run("empty query map is rejected", func(t *testing.T) {
		_, err := p.Apply(context.Background(), pricesCaseBase(t), nil)
		assert.ErrorIs(t, err, core.ErrEmptyInput)
	})
}
