package schema

import (
	"bytes"
	"encoding/json"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Validator compiles JSON Schema definitions and validates payloads against
// them. Compiled schemas are cached by definition.
type Validator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewValidator creates a new schema validator.
func NewValidator() *Validator {
	return &Validator{
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Validate checks a payload against a schema definition. The payload must be
// valid JSON.
func (v *Validator) Validate(payload, definition []byte) error {
	var payloadJSON interface{}
	if err := json.Unmarshal(payload, &payloadJSON); err != nil {
		return SchemaValidationError{Reason: "payload is not valid JSON: " + err.Error()}
	}

	schema, err := v.Compile(definition)
	if err != nil {
		return err
	}

	if err := schema.Validate(payloadJSON); err != nil {
		return SchemaValidationError{Reason: err.Error()}
	}

	return nil
}

// Compile compiles a schema definition, caching the result.
func (v *Validator) Compile(definition []byte) (*jsonschema.Schema, error) {
	cacheKey := string(definition)

	v.mu.RLock()
	if compiled, exists := v.compiled[cacheKey]; exists {
		v.mu.RUnlock()
		return compiled, nil
	}
	v.mu.RUnlock()

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(definition)); err != nil {
		return nil, InvalidSchemaError{Reason: err.Error()}
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, InvalidSchemaError{Reason: err.Error()}
	}

	v.mu.Lock()
	v.compiled[cacheKey] = compiled
	v.mu.Unlock()

	return compiled, nil
}
