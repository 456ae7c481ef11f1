// Package extraction loads pipeline outputs, ground-truth datasets and
// benchmark history from disk, validating each against an embedded JSON
// schema before decoding.
package extraction

import (
	"bufio"
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kaptinlin/jsonschema"
	"gopkg.in/yaml.v3"

	"github.com/Veraticus/extractbench/internal/common"
	"github.com/Veraticus/extractbench/internal/model"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

// Schema names.
const (
	SchemaResult    = "extraction_result"
	SchemaDataset   = "ground_truth"
	SchemaBenchmark = "benchmark"
)

const maxLineSize = 10 * 1024 * 1024

var (
	schemaMu    sync.Mutex
	schemaCache = map[string]*jsonschema.Schema{}
)

func loadSchema(name string) (*jsonschema.Schema, error) {
	schemaMu.Lock()
	defer schemaMu.Unlock()

	if s, ok := schemaCache[name]; ok {
		return s, nil
	}
	data, err := schemaFS.ReadFile("schemas/" + name + ".schema.json")
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", name, err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	schema, err := compiler.Compile(data)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	schemaCache[name] = schema
	return schema, nil
}

// Validate checks data against one of the embedded schemas.
func Validate(name string, data []byte) error {
	schema, err := loadSchema(name)
	if err != nil {
		return err
	}
	result := schema.ValidateJSON(data)
	if result.IsValid() {
		return nil
	}
	return fmt.Errorf("%w: %s schema validation failed: %v", common.ErrInvalidInput, name, result.Errors)
}

// DecodeResult validates and decodes an extraction result.
func DecodeResult(data []byte) (*model.ExtractionResult, error) {
	if err := Validate(SchemaResult, data); err != nil {
		return nil, err
	}
	var result model.ExtractionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("%w: decode extraction result: %w", common.ErrInvalidInput, err)
	}
	return &result, nil
}

// LoadResult reads an extraction result from a JSON file.
func LoadResult(path string) (*model.ExtractionResult, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user supplied path is expected
	if err != nil {
		return nil, fmt.Errorf("read extraction result: %w", err)
	}
	return DecodeResult(data)
}

// DecodeDataset validates and decodes a ground-truth dataset. The stored
// entity total must agree with the category lists.
func DecodeDataset(data []byte) (*model.GroundTruthDataset, error) {
	if err := Validate(SchemaDataset, data); err != nil {
		return nil, err
	}
	var ds model.GroundTruthDataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("%w: decode dataset: %w", common.ErrInvalidInput, err)
	}
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidInput, err)
	}
	return &ds, nil
}

// LoadDataset reads a dataset from a JSON or YAML file, chosen by extension.
func LoadDataset(path string) (*model.GroundTruthDataset, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user supplied path is expected
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if isYAML(path) {
		if data, err = yamlToJSON(data); err != nil {
			return nil, err
		}
	}
	return DecodeDataset(data)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse yaml: %w", common.ErrInvalidInput, err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: convert yaml: %w", common.ErrInvalidInput, err)
	}
	return out, nil
}

// DecodeBenchmarks reads newline-delimited benchmarks. Blank lines are
// skipped. Errors name the offending line.
func DecodeBenchmarks(r io.Reader) ([]model.AccuracyBenchmark, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var benchmarks []model.AccuracyBenchmark
	line := 0
	for scanner.Scan() {
		line++
		b := bytes.TrimSpace(scanner.Bytes())
		if len(b) == 0 {
			continue
		}
		if err := Validate(SchemaBenchmark, b); err != nil {
			return nil, fmt.Errorf("benchmark line %d: %w", line, err)
		}
		var bm model.AccuracyBenchmark
		if err := json.Unmarshal(b, &bm); err != nil {
			return nil, fmt.Errorf("benchmark line %d: %w: %w", line, common.ErrInvalidInput, err)
		}
		benchmarks = append(benchmarks, bm)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read benchmarks: %w", err)
	}
	return benchmarks, nil
}

// LoadBenchmarks reads a benchmark history file.
func LoadBenchmarks(path string) ([]model.AccuracyBenchmark, error) {
	f, err := os.Open(path) //nolint:gosec // user supplied path is expected
	if err != nil {
		return nil, fmt.Errorf("open benchmarks: %w", err)
	}
	defer func() { _ = f.Close() }()
	return DecodeBenchmarks(f)
}

// AppendBenchmark adds one benchmark as a line to a history file, creating
// the file when missing.
func AppendBenchmark(path string, bm *model.AccuracyBenchmark) error {
	line, err := json.Marshal(bm)
	if err != nil {
		return fmt.Errorf("marshal benchmark: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) //nolint:gosec // user supplied path is expected
	if err != nil {
		return fmt.Errorf("open benchmarks: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		_ = f.Close()
		return fmt.Errorf("write benchmark: %w", err)
	}
	return f.Close()
}
