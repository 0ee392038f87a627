package dashboard

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-seo-dashboard/components/datatable"
	"github.com/goliatone/go-seo-dashboard/components/store"
)

//go:embed schemas/*.json
var embeddedSchemas embed.FS

// RecordValidator validates record payloads before they reach a repository.
// Partial payloads (updates) skip the required-field check.
type RecordValidator interface {
	Validate(entity string, data datatable.Record, partial bool) error
}

// JSONSchemaValidator compiles per-entity schemas and validates payloads.
type JSONSchemaValidator struct {
	schemas  fs.FS
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by the embedded schemas.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	sub, _ := fs.Sub(embeddedSchemas, "schemas")
	return NewJSONSchemaValidatorFS(sub)
}

// NewJSONSchemaValidatorFS builds a validator reading <entity>.json from fsys.
func NewJSONSchemaValidatorFS(fsys fs.FS) *JSONSchemaValidator {
	return &JSONSchemaValidator{
		schemas:  fsys,
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Validate ensures data satisfies the entity schema. Entities without a
// schema accept any payload.
func (v *JSONSchemaValidator) Validate(entity string, data datatable.Record, partial bool) error {
	schema, err := v.schemaFor(entity, partial)
	if err != nil {
		return err
	}
	if schema == nil {
		return nil
	}
	payload := map[string]any{}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("dashboard: marshal %s payload: %w", entity, err)
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			return fmt.Errorf("dashboard: normalize %s payload: %w", entity, err)
		}
	}
	delete(payload, datatable.IDField)
	if err := schema.Validate(payload); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return store.Invalid(entity, "%s", validationMessage(verr))
		}
		return store.Invalid(entity, "%v", err)
	}
	return nil
}

func validationMessage(err *jsonschema.ValidationError) string {
	leaf := err
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	if leaf.InstanceLocation == "" {
		return leaf.Message
	}
	return leaf.InstanceLocation + ": " + leaf.Message
}

func (v *JSONSchemaValidator) schemaFor(entity string, partial bool) (*jsonschema.Schema, error) {
	name := entity + ".json"
	if partial {
		name = entity + ".partial.json"
	}
	v.mu.RLock()
	schema, ok := v.compiled[name]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}

	data, err := fs.ReadFile(v.schemas, entity+".json")
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("dashboard: read schema %s: %w", entity, err)
	}
	if partial {
		if data, err = withoutRequired(data); err != nil {
			return nil, fmt.Errorf("dashboard: load schema %s: %w", entity, err)
		}
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("dashboard: load schema %s: %w", entity, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("dashboard: compile schema %s: %w", entity, err)
	}
	v.mu.Lock()
	v.compiled[name] = compiled
	v.mu.Unlock()
	return compiled, nil
}

func withoutRequired(data []byte) ([]byte, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	delete(doc, "required")
	return json.Marshal(doc)
}
