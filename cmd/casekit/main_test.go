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


package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func testApp() *cli.App {
	return &cli.App{
		Name: "casekit",
		Commands: []*cli.Command{
			{
				Name:   "retrieve",
				Action: retrieveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "cases", Required: true},
					&cli.StringFlag{Name: "query", Required: true},
					&cli.StringFlag{Name: "config", Required: true},
					&cli.IntFlag{Name: "limit", Value: 10},
					&cli.Float64Flag{Name: "min-similarity"},
					&cli.BoolFlag{Name: "skip-errors"},
				},
			},
			{
				Name:   "eval",
				Action: evalCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "qrels", Required: true},
					&cli.StringFlag{Name: "run", Required: true},
					&cli.StringFlag{Name: "metrics", Value: "precision@5,recall@5,f1@5,mrr"},
				},
			},
		},
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRetrieveCommand(t *testing.T) {
	dir := t.TempDir()
	cases := writeFile(t, dir, "cases.json", `{"c1": 10, "c2": 20, "c3": 15}`)
	config := writeFile(t, dir, "similarity.yaml", "type: linear\nscale: 10\n")

	t.Run("ranks cases end to end", func(t *testing.T) {
		err := testApp().Run([]string{
			"casekit", "retrieve",
			"--cases", cases,
			"--query", "12",
			"--config", config,
			"--limit", "2",
		})
		assert.NoError(t, err)
	})

	t.Run("cases flag is required", func(t *testing.T) {
		err := testApp().Run([]string{
			"casekit", "retrieve",
			"--query", "12",
			"--config", config,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cases")
	})

	t.Run("malformed query fails", func(t *testing.T) {
		err := testApp().Run([]string{
			"casekit", "retrieve",
			"--cases", cases,
			"--query", "{not json",
			"--config", config,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "query")
	})
}

func TestEvalCommand(t *testing.T) {
	dir := t.TempDir()
	qrels := writeFile(t, dir, "qrels.json", `{"q1": {"c1": 1, "c2": 0}}`)
	run := writeFile(t, dir, "run.json", `{"q1": {"c1": 0.9, "c2": 0.4}}`)

	t.Run("computes the requested metrics", func(t *testing.T) {
		err := testApp().Run([]string{
			"casekit", "eval",
			"--qrels", qrels,
			"--run", run,
			"--metrics", "precision@1,mrr",
		})
		assert.NoError(t, err)
	})

	t.Run("unknown metric fails", func(t *testing.T) {
		err := testApp().Run([]string{
			"casekit", "eval",
			"--qrels", qrels,
			"--run", run,
			"--metrics", "ndcg@5",
		})
		assert.Error(t, err)
	})
}
