package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaDraft = "https://json-schema.org/draft/2020-12/schema"

var compiledSchemas sync.Map // reflect.Type -> schemaEntry

type schemaEntry struct {
	schema *jsonschema.Schema
	err    error
}

// SchemaOf returns a JSON Schema describing the encoding/json form of the
// arguments type of v. Only tagged fields are described and any other
// property is rejected.
func SchemaOf(v any) ([]byte, error) {
	table, err := TableOf(v)
	if err != nil {
		return nil, err
	}
	return schemaFor(table)
}

func schemaFor(table *Table) ([]byte, error) {
	root := objectSchema()
	root["$schema"] = schemaDraft
	root["title"] = table.Type.Name()

	for _, o := range table.Options {
		if o.JSONPath == nil {
			continue
		}
		prop := valueSchema(o.Type)
		if o.Enum != nil {
			enum := make([]any, 0, len(o.Enum)+1)
			for _, e := range o.Enum {
				enum = append(enum, e)
			}
			if o.Type.Kind() == reflect.Pointer {
				enum = append(enum, nil)
			}
			prop["enum"] = enum
		}
		describe(prop, o.Description, o.Flag)
		if err := setProperty(root, o.JSONPath, prop); err != nil {
			return nil, fmt.Errorf("schema for %s.%s: %w", table.Type, o.Field, err)
		}
	}
	if f := table.Free; f != nil && f.JSONPath != nil {
		prop := map[string]any{
			"type":  []any{"array", "null"},
			"items": map[string]any{"type": "string"},
		}
		describe(prop, f.Description, "")
		if err := setProperty(root, f.JSONPath, prop); err != nil {
			return nil, fmt.Errorf("schema for %s.%s: %w", table.Type, f.Field, err)
		}
	}
	return json.MarshalIndent(root, "", "  ")
}

func objectSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           map[string]any{},
		"additionalProperties": false,
	}
}

func describe(prop map[string]any, desc, flag string) {
	switch {
	case desc != "" && flag != "":
		prop["description"] = fmt.Sprintf("%s (%s)", desc, flag)
	case desc != "":
		prop["description"] = desc
	case flag != "":
		prop["description"] = flag
	}
}

// setProperty places prop at path, creating nested object schemas for
// structs that encoding/json does not flatten.
func setProperty(root map[string]any, path []string, prop map[string]any) error {
	node := root
	for _, name := range path[:len(path)-1] {
		props := node["properties"].(map[string]any)
		next, ok := props[name].(map[string]any)
		if !ok {
			next = objectSchema()
			next["type"] = []any{"object", "null"}
			props[name] = next
		}
		node = next
	}
	props := node["properties"].(map[string]any)
	last := path[len(path)-1]
	if _, dup := props[last]; dup {
		return fmt.Errorf("duplicate JSON property %q", last)
	}
	props[last] = prop
	return nil
}

func valueSchema(t reflect.Type) map[string]any {
	nullable := false
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
		nullable = true
	}

	var s map[string]any
	switch {
	case implementsTextMarshaler(t):
		s = map[string]any{"type": "string"}
	case t.Kind() == reflect.Bool:
		s = map[string]any{"type": "boolean"}
	case t.Kind() == reflect.String:
		s = map[string]any{"type": "string"}
	case t.Kind() >= reflect.Int && t.Kind() <= reflect.Int64:
		s = map[string]any{"type": "integer"}
	case t.Kind() >= reflect.Uint && t.Kind() <= reflect.Uint64:
		s = map[string]any{"type": "integer", "minimum": 0}
	case t.Kind() == reflect.Float32 || t.Kind() == reflect.Float64:
		s = map[string]any{"type": "number"}
	case t.Kind() == reflect.Slice:
		s = map[string]any{"type": "array", "items": valueSchema(t.Elem())}
		nullable = true
	default:
		s = map[string]any{}
	}
	if typ, ok := s["type"].(string); ok && nullable {
		s["type"] = []any{typ, "null"}
	}
	return s
}

// ValidateDocument checks a JSON document against the schema of the
// arguments type of v.
func ValidateDocument(v any, doc []byte) error {
	table, err := TableOf(v)
	if err != nil {
		return err
	}
	schema, err := compiledSchema(table)
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()
	var data any
	if err := dec.Decode(&data); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	if err := schema.Validate(data); err != nil {
		return fmt.Errorf("validate document: %w", err)
	}
	return nil
}

func compiledSchema(table *Table) (*jsonschema.Schema, error) {
	if e, ok := compiledSchemas.Load(table.Type); ok {
		entry := e.(schemaEntry)
		return entry.schema, entry.err
	}
	var entry schemaEntry
	data, err := schemaFor(table)
	if err != nil {
		entry.err = err
	} else if entry.schema, err = jsonschema.CompileString("arguments.schema.json", string(data)); err != nil {
		entry.err = fmt.Errorf("compile %s schema: %w", table.Type, err)
	}
	e, _ := compiledSchemas.LoadOrStore(table.Type, entry)
	entry = e.(schemaEntry)
	return entry.schema, entry.err
}
