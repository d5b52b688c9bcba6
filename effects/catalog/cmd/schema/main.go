package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/invopop/jsonschema"

	"game-interactor/effects/catalog"
)

func main() {
	var outPath string
	flag.StringVar(&outPath, "out", "", "path to write the JSON schema")
	flag.Parse()

	if outPath == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	if err := writeSchema(outPath, buildSchema()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write schema: %v\n", err)
		os.Exit(1)
	}
}

// buildSchema accepts both catalog layouts: an array of entries or an object
// keyed by entry id.
func buildSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}

	entrySchema := reflector.ReflectFromType(reflect.TypeOf(catalog.EntryDocument{}))
	entrySchema.Version = ""
	entrySchema.Title = "Interaction Catalog Entry"
	entrySchema.Description = "Caller-facing preset that references a registered effect kind."
	entrySchema.AdditionalProperties = &jsonschema.Schema{}

	return &jsonschema.Schema{
		Version:     jsonschema.Version,
		Title:       "Game Interactor Catalog",
		Description: "Validates config/interactions/definitions.json and the built-in catalog.",
		OneOf: []*jsonschema.Schema{
			{
				Type:        "array",
				Title:       "Array Catalog",
				Description: "Catalog expressed as an array of entry objects.",
				Items:       entrySchema,
			},
			{
				Type:                 "object",
				Title:                "Object Catalog",
				Description:          "Catalog expressed as an object keyed by entry id.",
				AdditionalProperties: entrySchema,
			},
		},
	}
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}

	return nil
}
