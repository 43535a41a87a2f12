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
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/casekit"
	"github.com/poiesic/casekit/core"
	"github.com/poiesic/casekit/eval"
	"github.com/poiesic/casekit/loaders"
	"github.com/poiesic/casekit/retrieval"
)

func main() {
	app := &cli.App{
		Name:  "casekit",
		Usage: "Case-based retrieval over structured case bases",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "retrieve",
				Usage:  "Rank the cases of a case base against a query",
				Action: retrieveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "cases",
						Aliases:  []string{"c"},
						Usage:    "Path to the case base file (.json, .yaml, .csv)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Query as a JSON value",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "config",
						Usage:    "Path to the similarity config YAML",
						Required: true,
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"k"},
						Usage:   "Maximum number of results (-1 for all)",
						Value:   10,
					},
					&cli.Float64Flag{
						Name:  "min-similarity",
						Usage: "Drop results scoring below this threshold",
					},
					&cli.BoolFlag{
						Name:  "skip-errors",
						Usage: "Skip cases that fail to score instead of aborting",
					},
				},
			},
			{
				Name:   "eval",
				Usage:  "Score a retrieval run against relevance judgments",
				Action: evalCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "qrels",
						Usage:    "Path to a JSON file mapping query to case grades",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "run",
						Usage:    "Path to a JSON file mapping query to case scores",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "metrics",
						Usage: "Comma-separated metric specs",
						Value: "precision@5,recall@5,f1@5,mrr",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func retrieveCommand(c *cli.Context) error {
	ctx := context.Background()

	cb, err := loaders.Path(c.String("cases"))
	if err != nil {
		return fmt.Errorf("failed to load case base: %w", err)
	}

	var query core.Value
	if err := json.Unmarshal([]byte(c.String("query")), &query); err != nil {
		return fmt.Errorf("failed to parse query: %w", err)
	}

	fn, err := casekit.NewFuncBuilder().Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to build similarity function: %w", err)
	}

	retriever, err := retrieval.NewRetriever()
	if err != nil {
		return fmt.Errorf("failed to create retriever: %w", err)
	}
	defer retriever.Close()

	result, err := retriever.Retrieve(ctx, retrieval.Request{
		CaseBase:      cb,
		Query:         query,
		Func:          fn,
		Limit:         c.Int("limit"),
		MinSimilarity: c.Float64("min-similarity"),
		SkipOnError:   c.Bool("skip-errors"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Found %d hits\n", len(result.Entries))
	for i, entry := range result.Entries {
		fmt.Printf("%d: %s [%0.3f]\n", i+1, entry.CaseID, entry.Score)
	}
	for _, diag := range result.Diagnostics {
		fmt.Fprintf(os.Stderr, "skipped %s: %s\n", diag.CaseID, diag.Reason)
	}
	return nil
}

func evalCommand(c *cli.Context) error {
	var qrels eval.Qrels
	if err := readJSONFile(c.String("qrels"), &qrels); err != nil {
		return fmt.Errorf("failed to load qrels: %w", err)
	}

	var run eval.Run
	if err := readJSONFile(c.String("run"), &run); err != nil {
		return fmt.Errorf("failed to load run: %w", err)
	}

	specs := strings.Split(c.String("metrics"), ",")
	for i := range specs {
		specs[i] = strings.TrimSpace(specs[i])
	}

	results, err := eval.Compute(qrels, run, specs)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%s: %0.4f\n", name, results[name])
	}
	return nil
}

func readJSONFile(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
