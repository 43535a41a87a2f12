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
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/poiesic/casekit/core"
	"github.com/poiesic/casekit/retrieval"
)

// Qrels holds graded relevance judgments per query. A grade above zero
// marks the case as relevant; higher grades mean more relevant.
type Qrels map[string]map[core.CaseID]int

// Run holds retrieved similarity scores per query.
type Run map[string]map[core.CaseID]float64

// RunFromPipeline converts final pipeline rankings into a run.
func RunFromPipeline(results map[string]*retrieval.PipelineResult) Run {
	run := make(Run, len(results))
	for queryID, pr := range results {
		final := pr.Final()
		if final == nil {
			continue
		}
		scores := make(map[core.CaseID]float64, len(final.Entries))
		for _, entry := range final.Entries {
			scores[entry.CaseID] = entry.Score
		}
		run[queryID] = scores
	}
	return run
}

// AllK disables ranking cutoffs so a metric covers the whole run.
const AllK = 0

// rankedIDs orders one query's run by score descending, breaking ties on
// the case identifier so metric values do not depend on map iteration.
func rankedIDs(scores map[core.CaseID]float64, k int) []core.CaseID {
	ids := make([]core.CaseID, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool {
		if scores[ids[a]] != scores[ids[b]] {
			return scores[ids[a]] > scores[ids[b]]
		}
		return ids[a] < ids[b]
	})
	if k > AllK && len(ids) > k {
		ids = ids[:k]
	}
	return ids
}

// sharedQueries returns the queries present in both the judgments and the
// run, sorted for deterministic averaging.
func sharedQueries(qrels Qrels, run Run) []string {
	queries := make([]string, 0, len(qrels))
	for queryID := range qrels {
		if _, ok := run[queryID]; ok {
			queries = append(queries, queryID)
		}
	}
	sort.Strings(queries)
	return queries
}

func meanOver(qrels Qrels, run Run, perQuery func(qrel map[core.CaseID]int, scores map[core.CaseID]float64) float64) (float64, error) {
	queries := sharedQueries(qrels, run)
	if len(queries) == 0 {
		return 0, fmt.Errorf("%w: no queries shared between judgments and run", core.ErrEmptyInput)
	}
	sum := 0.0
	for _, queryID := range queries {
		sum += perQuery(qrels[queryID], run[queryID])
	}
	return sum / float64(len(queries)), nil
}

func relevantCount(qrel map[core.CaseID]int) int {
	n := 0
	for _, grade := range qrel {
		if grade > 0 {
			n++
		}
	}
	return n
}

func retrievedRelevant(qrel map[core.CaseID]int, ranked []core.CaseID) int {
	n := 0
	for _, id := range ranked {
		if qrel[id] > 0 {
			n++
		}
	}
	return n
}

// Precision is the mean fraction of retrieved cases (up to k) that are
// relevant. A query with an empty ranking scores zero.
func Precision(qrels Qrels, run Run, k int) (float64, error) {
	return meanOver(qrels, run, func(qrel map[core.CaseID]int, scores map[core.CaseID]float64) float64 {
		ranked := rankedIDs(scores, k)
		if len(ranked) == 0 {
			return 0
		}
		return float64(retrievedRelevant(qrel, ranked)) / float64(len(ranked))
	})
}

// Recall is the mean fraction of relevant cases found within the top k.
// A query with no relevant cases scores zero.
func Recall(qrels Qrels, run Run, k int) (float64, error) {
	return meanOver(qrels, run, func(qrel map[core.CaseID]int, scores map[core.CaseID]float64) float64 {
		relevant := relevantCount(qrel)
		if relevant == 0 {
			return 0
		}
		ranked := rankedIDs(scores, k)
		return float64(retrievedRelevant(qrel, ranked)) / float64(relevant)
	})
}

// F1 is the mean harmonic balance of per-query precision and recall at k.
func F1(qrels Qrels, run Run, k int) (float64, error) {
	return meanOver(qrels, run, func(qrel map[core.CaseID]int, scores map[core.CaseID]float64) float64 {
		ranked := rankedIDs(scores, k)
		relevant := relevantCount(qrel)
		if len(ranked) == 0 || relevant == 0 {
			return 0
		}
		hits := float64(retrievedRelevant(qrel, ranked))
		if hits == 0 {
			return 0
		}
		precision := hits / float64(len(ranked))
		recall := hits / float64(relevant)
		return 2 * precision * recall / (precision + recall)
	})
}

// MRR is the mean reciprocal rank of the first relevant case per query.
// Queries where no relevant case appears in the top k score zero.
func MRR(qrels Qrels, run Run, k int) (float64, error) {
	return meanOver(qrels, run, func(qrel map[core.CaseID]int, scores map[core.CaseID]float64) float64 {
		for rank, id := range rankedIDs(scores, k) {
			if qrel[id] > 0 {
				return 1 / float64(rank+1)
			}
		}
		return 0
	})
}

// CorrectnessCompleteness measures how well the run preserves the pairwise
// preference order implied by the judgments. Correctness is the signed
// fraction of concordant ordered pairs among those the run ranks either
// way; completeness is the fraction of judged orderings the top k of the
// run covers at all. Both default to 1 when no pairs are decidable.
func CorrectnessCompleteness(qrels Qrels, run Run, k int) (correctness, completeness float64, err error) {
	queries := sharedQueries(qrels, run)
	if len(queries) == 0 {
		return 0, 0, fmt.Errorf("%w: no queries shared between judgments and run", core.ErrEmptyInput)
	}

	correctnessSum, completenessSum := 0.0, 0.0
	for _, queryID := range queries {
		c, cp := correctnessCompletenessSingle(qrels[queryID], run[queryID], k)
		correctnessSum += c
		completenessSum += cp
	}
	n := float64(len(queries))
	return correctnessSum / n, completenessSum / n, nil
}

func correctnessCompletenessSingle(qrel map[core.CaseID]int, scores map[core.CaseID]float64, k int) (float64, float64) {
	topK := make(map[core.CaseID]float64)
	for _, id := range rankedIDs(scores, k) {
		topK[id] = scores[id]
	}

	orders, concordances, discordances := 0, 0, 0
	for id1, grade1 := range qrel {
		for id2, grade2 := range qrel {
			if id1 == id2 || grade1 <= grade2 {
				continue
			}
			orders++

			score1, ok1 := topK[id1]
			score2, ok2 := topK[id2]
			if !ok1 || !ok2 {
				continue
			}
			if score1 > score2 {
				concordances++
			} else if score1 < score2 {
				discordances++
			}
		}
	}

	correctness, completeness := 1.0, 1.0
	if concordances+discordances > 0 {
		correctness = float64(concordances-discordances) / float64(concordances+discordances)
	}
	if orders > 0 {
		completeness = float64(concordances+discordances) / float64(orders)
	}
	return correctness, completeness
}

// Metric names accepted by Compute.
const (
	MetricPrecision    = "precision"
	MetricRecall       = "recall"
	MetricF1           = "f1"
	MetricMRR          = "mrr"
	MetricCorrectness  = "correctness"
	MetricCompleteness = "completeness"
)

// ParseMetric splits a metric spec of the form "name@k". Without a cutoff
// the metric covers the whole run.
func ParseMetric(spec string) (name string, k int, err error) {
	name, cutoff, found := strings.Cut(spec, "@")
	if !found {
		return name, AllK, nil
	}
	k, err = strconv.Atoi(cutoff)
	if err != nil || k < 1 {
		return "", 0, fmt.Errorf("%w: metric cutoff %q must be a positive integer", core.ErrInvalidConfiguration, cutoff)
	}
	return name, k, nil
}

// MetricsAtK expands metric names across cutoffs, e.g. ("precision", 5)
// becomes "precision@5".
func MetricsAtK(names []string, ks []int) []string {
	specs := make([]string, 0, len(names)*len(ks))
	for _, name := range names {
		for _, k := range ks {
			specs = append(specs, fmt.Sprintf("%s@%d", name, k))
		}
	}
	return specs
}

// Compute evaluates the named metrics and returns them keyed by spec.
func Compute(qrels Qrels, run Run, specs []string) (map[string]float64, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: no metrics requested", core.ErrEmptyInput)
	}

	results := make(map[string]float64, len(specs))
	for _, spec := range specs {
		name, k, err := ParseMetric(spec)
		if err != nil {
			return nil, err
		}

		var value float64
		switch name {
		case MetricPrecision:
			value, err = Precision(qrels, run, k)
		case MetricRecall:
			value, err = Recall(qrels, run, k)
		case MetricF1:
			value, err = F1(qrels, run, k)
		case MetricMRR:
			value, err = MRR(qrels, run, k)
		case MetricCorrectness:
			value, _, err = CorrectnessCompleteness(qrels, run, k)
		case MetricCompleteness:
			_, value, err = CorrectnessCompleteness(qrels, run, k)
		default:
			return nil, fmt.Errorf("%w: unknown metric %q", core.ErrInvalidConfiguration, name)
		}
		if err != nil {
			return nil, fmt.Errorf("computing %q: %w", spec, err)
		}
		results[spec] = value
	}
	return results, nil
}
