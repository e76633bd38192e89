package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema/manifest.schema.json
var schemaBytes []byte

const schemaURL = "https://orchester.dev/schema/manifest.schema.json"

var manifestSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
	if err != nil {
		return nil, fmt.Errorf("decoding embedded schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, err
	}
	return c.Compile(schemaURL)
})

// Validate checks manifest YAML against the embedded JSON schema. Schema
// violations come back as issues; the error is reserved for documents
// that are not YAML at all.
func Validate(data []byte) (*ValidationResult, error) {
	var set issueSet
	if err := set.validateSchema(data); err != nil {
		return nil, err
	}
	return set.result(), nil
}

// ValidateFile is Validate on the contents of path.
func ValidateFile(path string) (*ValidationResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return Validate(data)
}

func (s *issueSet) validateSchema(data []byte) error {
	sch, err := manifestSchema()
	if err != nil {
		return fmt.Errorf("loading schema: %w", err)
	}
	doc, err := decode(data)
	if err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}

	// The validator wants encoding/json shapes (float64, json.Number), not
	// the ints yaml produces.
	js, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("converting to JSON: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(js))
	if err != nil {
		return fmt.Errorf("converting to JSON: %w", err)
	}

	var ve *jsonschema.ValidationError
	switch err := sch.Validate(inst); {
	case err == nil:
	case errors.As(err, &ve):
		s.addSchemaError(ve)
	default:
		return err
	}
	return nil
}
