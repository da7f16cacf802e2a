// Package exportfile checks collection export files before they are imported.
package exportfile

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/wadjakorntonsri/moodsync/pkg/core/domain"
)

const schemaURL = "moodsync://schemas/collections.schema.json"

//go:embed collections.schema.json
var schemaJSON []byte

var schema = mustCompile()

func mustCompile() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		panic(fmt.Sprintf("load export schema: %v", err))
	}
	return compiler.MustCompile(schemaURL)
}

// Parse validates body against the export schema and decodes it.
func Parse(body []byte) ([]domain.Collection, error) {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("export file is not valid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return nil, fmt.Errorf("export file failed schema validation: %w", err)
	}

	var collections []domain.Collection
	if err := json.Unmarshal(body, &collections); err != nil {
		return nil, fmt.Errorf("decode export file: %w", err)
	}
	return collections, nil
}
