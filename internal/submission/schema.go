package submission

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON string

var submissionSchema = jsonschema.MustCompileString("submission.schema.json", schemaJSON)

// validateShape checks a decoded document against the submission schema.
// The document is round-tripped through JSON so numbers reach the validator as json.Number.
func validateShape(doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var generic any
	if err := decoder.Decode(&generic); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return submissionSchema.Validate(generic)
}
