package api

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/group.json
var groupSchema []byte

var groupSchemaLoader = gojsonschema.NewBytesLoader(groupSchema)

// ValidateGroup checks in against the group schema.
func ValidateGroup(in GroupInput) error {
	doc, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal group: %w", err)
	}

	result, err := gojsonschema.Validate(groupSchemaLoader, gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return &ValidationError{Problems: problems}
}
