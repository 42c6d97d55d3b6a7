// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"sort"
	"strings"

	"job-recommender/internal/common/errors"

	"github.com/xeipuuv/gojsonschema"
)

// Validator checks job variables against the input schemas declared in the
// activity registry. Schemas are compiled once at startup.
type Validator struct {
	schemas map[string]*gojsonschema.Schema
}

func NewValidator(schemas map[string]map[string]interface{}) (*Validator, error) {
	v := &Validator{schemas: make(map[string]*gojsonschema.Schema, len(schemas))}
	for taskType, raw := range schemas {
		if len(raw) == 0 {
			continue
		}
		compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("compile schema for %s: %w", taskType, err)
		}
		v.schemas[taskType] = compiled
	}
	return v, nil
}

// Validate returns an INVALID_INPUT error when variables does not satisfy the
// schema for taskType. Task types without a schema always pass.
func (v *Validator) Validate(taskType, variables string) error {
	if v == nil {
		return nil
	}
	schema, ok := v.schemas[taskType]
	if !ok {
		return nil
	}
	if strings.TrimSpace(variables) == "" {
		variables = "{}"
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(variables))
	if err != nil {
		return errors.NewInvalidInputError(fmt.Sprintf("variables are not valid JSON: %v", err))
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	sort.Strings(msgs)
	return errors.NewInvalidInputError(strings.Join(msgs, "; "))
}
