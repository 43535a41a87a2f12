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


package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/casekit/core"
)

func gradedQrels() Qrels {
	return Qrels{
		"q1": {"c1": 2, "c2": 1, "c3": 0},
	}
}

func orderedRun() Run {
	return Run{
		"q1": {"c1": 0.9, "c2": 0.5, "c3": 0.3},
	}
}

func TestPrecision(t *testing.T) {
	t.Run("cutoff restricts the ranking", func(t *testing.T) {
		p, err := Precision(gradedQrels(), orderedRun(), 2)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, p, 1e-9)
	})

	t.Run("whole run counts irrelevant tail", func(t *testing.T) {
		p, err := Precision(gradedQrels(), orderedRun(), AllK)
		require.NoError(t, err)
		assert.InDelta(t, 2.0/3.0, p, 1e-9)
	})

	t.Run("empty ranking scores zero", func(t *testing.T) {
		p, err := Precision(gradedQrels(), Run{"q1": {}}, AllK)
		require.NoError(t, err)
		assert.Zero(t, p)
	})

	t.Run("disjoint queries fail", func(t *testing.T) {
		_, err := Precision(gradedQrels(), Run{"other": {"c1": 1}}, AllK)
		assert.ErrorIs(t, err, core.ErrEmptyInput)
	})
}

func TestRecall(t *testing.T) {
	t.Run("counts relevant cases found in the top k", func(t *testing.T) {
		r, err := Recall(gradedQrels(), orderedRun(), 1)
		require.NoError(t, err)
		assert.InDelta(t, 0.5, r, 1e-9)
	})

	t.Run("full ranking recovers everything", func(t *testing.T) {
		r, err := Recall(gradedQrels(), orderedRun(), AllK)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, r, 1e-9)
	})
}

func TestF1(t *testing.T) {
	// Precision@1 = 1, recall@1 = 0.5, harmonic balance = 2/3.
	f, err := F1(gradedQrels(), orderedRun(), 1)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, f, 1e-9)
}

func TestMRR(t *testing.T) {
	t.Run("first relevant at the top", func(t *testing.T) {
		m, err := MRR(gradedQrels(), orderedRun(), AllK)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, m, 1e-9)
	})

	t.Run("relevant case buried at rank three", func(t *testing.T) {
		run := Run{"q1": {"c1": 0.1, "c2": 0.2, "c3": 0.9, "c4": 0.8}}
		qrels := Qrels{"q1": {"c2": 1}}
		m, err := MRR(qrels, run, AllK)
		require.NoError(t, err)
		assert.InDelta(t, 1.0/3.0, m, 1e-9)
	})

	t.Run("cutoff hides the only relevant case", func(t *testing.T) {
		run := Run{"q1": {"c1": 0.9, "c2": 0.5}}
		qrels := Qrels{"q1": {"c2": 1}}
		m, err := MRR(qrels, run, 1)
		require.NoError(t, err)
		assert.Zero(t, m)
	})
}

func TestCorrectnessCompleteness(t *testing.T) {
	t.Run("perfectly ordered run", func(t *testing.T) {
		correctness, completeness, err := CorrectnessCompleteness(gradedQrels(), orderedRun(), AllK)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, correctness, 1e-9)
		assert.InDelta(t, 1.0, completeness, 1e-9)
	})

	t.Run("inverted pairs drive correctness negative", func(t *testing.T) {
		// Pairs with a judged order: (c1,c2), (c1,c3), (c2,c3). The run
		// ranks c2 and c3 above c1, so one pair is concordant and two are
		// discordant.
		run := Run{"q1": {"c1": 0.2, "c2": 0.5, "c3": 0.3}}
		correctness, completeness, err := CorrectnessCompleteness(gradedQrels(), run, AllK)
		require.NoError(t, err)
		assert.InDelta(t, -1.0/3.0, correctness, 1e-9)
		assert.InDelta(t, 1.0, completeness, 1e-9)
	})

	t.Run("cutoff lowers completeness", func(t *testing.T) {
		correctness, completeness, err := CorrectnessCompleteness(gradedQrels(), orderedRun(), 1)
		require.NoError(t, err)
		// Only c1 survives the cutoff, so no judged pair is decidable.
		assert.InDelta(t, 1.0, correctness, 1e-9)
		assert.InDelta(t, 0.0, completeness, 1e-9)
	})
}

func TestAveragingAcrossQueries(t *testing.T) {
	qrels := Qrels{
		"q1": {"c1": 1},
		"q2": {"c2": 1},
		"q3": {"c3": 1},
	}
	// q1 retrieves its relevant case, q2 misses it, q3 is absent from the
	// run and must not influence the mean.
	run := Run{
		"q1": {"c1": 0.9},
		"q2": {"c1": 0.9},
	}
	p, err := Precision(qrels, run, AllK)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p, 1e-9)
}

func TestParseMetric(t *testing.T) {
	t.Run("with cutoff", func(t *testing.T) {
		name, k, err := ParseMetric("precision@5")
		require.NoError(t, err)
		assert.Equal(t, MetricPrecision, name)
		assert.Equal(t, 5, k)
	})

	t.Run("without cutoff", func(t *testing.T) {
		name, k, err := ParseMetric("mrr")
		require.NoError(t, err)
		assert.Equal(t, MetricMRR, name)
		assert.Equal(t, AllK, k)
	})

	t.Run("bad cutoff", func(t *testing.T) {
		_, _, err := ParseMetric("recall@zero")
		assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
	})
}

func TestMetricsAtK(t *testing.T) {
	specs := MetricsAtK([]string{MetricPrecision, MetricRecall}, []int{1, 5})
	assert.Equal(t, []string{"precision@1", "precision@5", "recall@1", "recall@5"}, specs)
}

func TestCompute(t *testing.T) {
	t.Run("evaluates every requested spec", func(t *testing.T) {
		results, err := Compute(gradedQrels(), orderedRun(), []string{"precision@2", "recall@2", "mrr", "correctness", "completeness"})
		require.NoError(t, err)
		assert.InDelta(t, 1.0, results["precision@2"], 1e-9)
		assert.InDelta(t, 1.0, results["recall@2"], 1e-9)
		assert.InDelta(t, 1.0, results["mrr"], 1e-9)
		assert.InDelta(t, 1.0, results["correctness"], 1e-9)
		assert.InDelta(t, 1.0, results["completeness"], 1e-9)
	})

	t.Run("unknown metric is rejected", func(t *testing.T) {
		_, err := Compute(gradedQrels(), orderedRun(), []string{"ndcg@5"})
		assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
	})

	t.Run("no specs is rejected", func(t *testing.T) {
		_, err := Compute(gradedQrels(), orderedRun(), nil)
		assert.ErrorIs(t, err, core.ErrEmptyInput)
	})
}
