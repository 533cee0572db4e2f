package content

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed seed.json
var seedJSON []byte

//go:embed registry.schema.json
var registrySchemaJSON []byte

const registrySchemaURL = "schema://registry.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// validateDocument checks raw registry JSON against the embedded JSON schema.
func validateDocument(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid registry JSON: %w", err)
	}

	compiled, err := registrySchema()
	if err != nil {
		return fmt.Errorf("compile registry schema: %w", err)
	}
	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("registry schema validation failed: %w", err)
	}
	return nil
}

// registrySchema compiles the embedded schema once.
func registrySchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		var def any
		if err := json.Unmarshal(registrySchemaJSON, &def); err != nil {
			schemaErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(registrySchemaURL, def); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(registrySchemaURL)
	})
	return compiledSchema, schemaErr
}
