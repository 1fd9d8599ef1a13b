// Package schema loads the JSON Schema documents request bodies are
// validated against. The documents live in schemas/ as plain data and are
// embedded into the binary; a resource refers to its schema by file name
// without extension (e.g. "order-item").
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var embedded embed.FS

const baseURL = "mem://catalog/schemas/"

// ErrInvalidJSON is returned by Validate when the body is not JSON at all.
var ErrInvalidJSON = errors.New("request body is not valid JSON")

// Schema is a compiled JSON Schema document.
type Schema struct {
	name     string
	compiled *jsonschema.Schema
}

func (s *Schema) Name() string { return s.name }

// Validate checks body against the schema and returns one "<field>: <message>"
// string per violation. A nil slice means the body is valid.
func (s *Schema) Validate(body []byte) ([]string, error) {
	doc, err := decode(body)
	if err != nil {
		return nil, err
	}

	err = s.compiled.Validate(doc)
	if err == nil {
		return nil, nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, fmt.Errorf("validate %s: %w", s.name, err)
	}

	var violations []string
	collect(ve, &violations)
	return violations, nil
}

// Normalize rewrites integral numbers written with a fraction or exponent
// (1.0, 1e2) as plain integers, so a body accepted by an "integer" property
// decodes into Go integer fields.
func Normalize(body []byte) ([]byte, error) {
	doc, err := decode(body)
	if err != nil {
		return nil, err
	}
	return json.Marshal(integral(doc))
}

// decode reads exactly one JSON value, keeping numbers as json.Number.
func decode(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, ErrInvalidJSON
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, ErrInvalidJSON
	}
	return doc, nil
}

func integral(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for k, item := range v {
			v[k] = integral(item)
		}
	case []any:
		for i, item := range v {
			v[i] = integral(item)
		}
	case json.Number:
		if _, err := v.Int64(); err == nil {
			return v
		}
		f, err := v.Float64()
		if err == nil && f == math.Trunc(f) && math.Abs(f) <= 1<<53 {
			return json.Number(strconv.FormatInt(int64(f), 10))
		}
	}
	return v
}

// collect appends the leaves of the validation error tree.
func collect(ve *jsonschema.ValidationError, out *[]string) {
	if len(ve.Causes) == 0 {
		*out = append(*out, field(ve.InstanceLocation)+": "+ve.Message)
		return
	}
	for _, cause := range ve.Causes {
		collect(cause, out)
	}
}

// field renders a JSON pointer as "instance", "instance.price", ...
func field(pointer string) string {
	if pointer == "" || pointer == "/" {
		return "instance"
	}
	parts := strings.Split(strings.TrimPrefix(pointer, "/"), "/")
	for i, p := range parts {
		parts[i] = strings.NewReplacer("~1", "/", "~0", "~").Replace(p)
	}
	return "instance." + strings.Join(parts, ".")
}

// Registry holds the compiled schemas by name.
type Registry struct {
	schemas map[string]*Schema
}

// Load compiles the embedded schemas.
func Load() (*Registry, error) {
	return LoadFS(embedded, "schemas")
}

// LoadFS compiles every *.json file in dir of fsys.
func LoadFS(fsys fs.FS, dir string) (*Registry, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read schemas: %w", err)
	}

	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft7
	c.AssertFormat = true

	var names []string
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".json" {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", e.Name(), err)
		}
		if err := c.AddResource(baseURL+e.Name(), bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", e.Name(), err)
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}

	r := &Registry{schemas: make(map[string]*Schema, len(names))}
	for _, name := range names {
		compiled, err := c.Compile(baseURL + name + ".json")
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		r.schemas[name] = &Schema{name: name, compiled: compiled}
	}
	return r, nil
}

func (r *Registry) Get(name string) (*Schema, bool) {
	s, ok := r.schemas[name]
	return s, ok
}

// MustGet panics when name is not registered; used while wiring routes.
func (r *Registry) MustGet(name string) *Schema {
	s, ok := r.Get(name)
	if !ok {
		panic(fmt.Sprintf("schema: %q is not registered", name))
	}
	return s
}

// Names returns the registered schema names in order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
