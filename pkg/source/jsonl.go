package source

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/valyala/fastjson"

	"github.com/logweave/logweave/pkg/timestamp"
)

// JSONLReader adapts a JSON-lines export into log lines. The field
// holding the timestamp is discovered from the first row by testing each
// value against the registry; the remaining fields are rendered as
// "key: value" continuation text.
type JSONLReader struct {
	path     string
	file     *os.File
	scanner  *bufio.Scanner
	parser   fastjson.Parser
	registry *timestamp.Registry
	timeKey  string
}

// NewJSONLReader opens a .jsonl file for line iteration.
func NewJSONLReader(path string, registry *timestamp.Registry) (*JSONLReader, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	if registry == nil {
		registry = timestamp.NewRegistry()
	}
	return &JSONLReader{path: path, file: f, scanner: newLineScanner(f), registry: registry}, nil
}

// Next returns the next row flattened to "timestamp key: value" lines.
func (r *JSONLReader) Next(ctx context.Context) (string, error) {
	raw, err := scanLine(ctx, r.scanner, r.path)
	if err != nil {
		return "", err
	}

	v, err := r.parser.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parsing json in %s: %w", r.path, err)
	}
	obj, err := v.Object()
	if err != nil {
		return "", fmt.Errorf("parsing json in %s: %w", r.path, err)
	}

	type field struct{ key, value string }
	var fields []field
	obj.Visit(func(key []byte, v *fastjson.Value) {
		fields = append(fields, field{key: string(key), value: jsonScalar(v)})
	})

	if r.timeKey == "" {
		for _, f := range fields {
			if _, derr := r.registry.Detect(r.path, f.value+" "); derr == nil {
				r.timeKey = f.key
				break
			}
		}
		if r.timeKey == "" {
			return "", fmt.Errorf("could not find a timestamp field in %s", r.path)
		}
	}

	var tsValue string
	var rest []string
	for _, f := range fields {
		if f.key == r.timeKey {
			tsValue = f.value
			continue
		}
		rest = append(rest, fmt.Sprintf("%s: %s", f.key, f.value))
	}
	return tsValue + " " + strings.Join(rest, "\n"), nil
}

// Close releases the underlying file.
func (r *JSONLReader) Close() error {
	return r.file.Close()
}

// jsonScalar renders a JSON value the way it should appear in log text:
// strings unquoted, everything else in JSON syntax.
func jsonScalar(v *fastjson.Value) string {
	if v.Type() == fastjson.TypeString {
		return string(v.GetStringBytes())
	}
	return v.String()
}
