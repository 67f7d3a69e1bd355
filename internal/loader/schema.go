package loader

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema/suite.schema.json
var schemaFS embed.FS

var (
	suiteSchema *jsonschema.Schema
	compileOnce sync.Once
	compileErr  error
)

func compileSchema() error {
	compileOnce.Do(func() {
		data, err := schemaFS.ReadFile("schema/suite.schema.json")
		if err != nil {
			compileErr = fmt.Errorf("read suite schema: %w", err)
			return
		}

		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			compileErr = fmt.Errorf("unmarshal suite schema: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("suite.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("add suite schema resource: %w", err)
			return
		}

		suiteSchema, err = compiler.Compile("suite.schema.json")
		if err != nil {
			compileErr = fmt.Errorf("compile suite schema: %w", err)
		}
	})
	return compileErr
}

// validateSuite checks a decoded YAML document against the suite schema
func validateSuite(doc any) error {
	if err := compileSchema(); err != nil {
		return err
	}

	// Round-trip through JSON so numbers and maps take the shapes the validator expects
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("suite is not a mapping with string keys: %w", err)
	}
	v, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid suite: %w", err)
	}

	if err := suiteSchema.Validate(v); err != nil {
		return fmt.Errorf("suite validation failed: %w", err)
	}
	return nil
}
