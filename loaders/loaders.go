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


package loaders

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/poiesic/casekit/core"
)

// JSON reads a case base from a top-level JSON object. Keys become case
// identifiers in document order, which requires token-level decoding since
// a plain map unmarshal forgets it.
func JSON(r io.Reader) (*core.CaseBase, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("reading case base: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: case base must be a JSON object, got %v", core.ErrInvalidConfiguration, tok)
	}

	cb := core.NewCaseBase()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading case key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: case key must be a string, got %v", core.ErrInvalidConfiguration, keyTok)
		}

		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("decoding case %q: %w", key, err)
		}
		cb.Add(core.CaseID(key), normalizeJSON(value))
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("reading case base: %w", err)
	}
	return cb, nil
}

// normalizeJSON converts json.Number leaves to float64 so loaded values
// compare like values built in code.
func normalizeJSON(value any) any {
	switch v := value.(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return v.String()
		}
		return f
	case map[string]any:
		for key, elem := range v {
			v[key] = normalizeJSON(elem)
		}
		return v
	case []any:
		for i, elem := range v {
			v[i] = normalizeJSON(elem)
		}
		return v
	default:
		return value
	}
}

// YAML reads a case base from a top-level YAML mapping, preserving key
// order via the node API.
func YAML(r io.Reader) (*core.CaseBase, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("reading case base: %w", err)
	}

	node := &root
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: case base must be a YAML mapping", core.ErrInvalidConfiguration)
	}

	cb := core.NewCaseBase()
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]

		var key string
		if err := keyNode.Decode(&key); err != nil {
			return nil, fmt.Errorf("decoding case key at line %d: %w", keyNode.Line, err)
		}
		var value any
		if err := valueNode.Decode(&value); err != nil {
			return nil, fmt.Errorf("decoding case %q: %w", key, err)
		}
		cb.Add(core.CaseID(key), normalizeYAML(value))
	}
	return cb, nil
}

// normalizeYAML widens integer leaves to float64 for the same reason
// normalizeJSON does, and rewrites yaml's map[string]any values in place.
func normalizeYAML(value any) any {
	switch v := value.(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case map[string]any:
		for key, elem := range v {
			v[key] = normalizeYAML(elem)
		}
		return v
	case []any:
		for i, elem := range v {
			v[i] = normalizeYAML(elem)
		}
		return v
	default:
		return value
	}
}

// IDColumn is the CSV header cell that supplies case identifiers. Files
// without it fall back to the zero-based row index.
const IDColumn = "id"

// CSV reads a case base from comma-separated rows. The first row is the
// header; every following row becomes one case whose value is a
// column-name→cell map. Cells that parse as numbers are widened to
// float64.
func CSV(r io.Reader) (*core.CaseBase, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: csv file has no header row", core.ErrEmptyInput)
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	idIndex := -1
	for i, name := range header {
		if name == IDColumn {
			idIndex = i
			break
		}
	}

	cb := core.NewCaseBase()
	for row := 0; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row %d: %w", row, err)
		}

		id := core.CaseID(strconv.Itoa(row))
		if idIndex >= 0 {
			id = core.CaseID(record[idIndex])
		}

		value := make(map[string]core.Value, len(header))
		for i, cell := range record {
			if i == idIndex {
				continue
			}
			if f, err := strconv.ParseFloat(cell, 64); err == nil {
				value[header[i]] = f
			} else {
				value[header[i]] = cell
			}
		}
		cb.Add(id, value)
	}
	return cb, nil
}

// Path loads a case base file, dispatching on the extension. Supported:
// .json, .yaml, .yml, .csv.
func Path(path string) (*core.CaseBase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening case base: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON(f)
	case ".yaml", ".yml":
		return YAML(f)
	case ".csv":
		return CSV(f)
	default:
		return nil, fmt.Errorf("%w: unsupported case base format %q", core.ErrInvalidConfiguration, filepath.Ext(path))
	}
}
