// Package monitor guards the platform wire contract: inbound webhook
// bodies are validated against a JSON schema before they are bound to
// domain types. Business-level completeness (lines present, address
// entered) is the payload validator's job, not this package's.
package monitor

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// calculateTaxesSchema describes the minimum shape every calculate-taxes
// webhook must have. It deliberately allows additional properties: the
// platform adds fields between versions and the app must not reject them.
const calculateTaxesSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"title": "CalculateTaxesPayload",
	"type": "object",
	"required": ["taxBase", "recipient"],
	"properties": {
		"taxBase": {
			"type": "object",
			"required": ["channel", "lines"],
			"properties": {
				"channel": {
					"type": "object",
					"required": ["slug"],
					"properties": {
						"slug": { "type": "string", "minLength": 1 }
					}
				},
				"lines": { "type": "array" }
			}
		},
		"recipient": {
			"type": "object",
			"required": ["privateMetadata"],
			"properties": {
				"privateMetadata": { "type": "array" }
			}
		}
	}
}`

// ContractMonitor validates raw webhook bodies against the platform schema.
type ContractMonitor struct {
	schema *gojsonschema.Schema
}

// NewCalculateTaxesMonitor compiles the embedded calculate-taxes schema.
func NewCalculateTaxesMonitor() (*ContractMonitor, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(calculateTaxesSchema))
	if err != nil {
		return nil, fmt.Errorf("compiling calculate-taxes schema: %w", err)
	}
	return &ContractMonitor{schema: schema}, nil
}

// Validate checks a raw request body against the schema. It returns true
// when the body conforms, or false plus the schema violations. The error
// return is reserved for malformed JSON and validator failures.
func (cm *ContractMonitor) Validate(requestBody []byte) (bool, []string, error) {
	result, err := cm.schema.Validate(gojsonschema.NewBytesLoader(requestBody))
	if err != nil {
		return false, nil, fmt.Errorf("validating webhook body: %w", err)
	}
	if result.Valid() {
		return true, nil, nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return false, violations, nil
}

// FormatErrors joins schema violations into one response-ready string.
func FormatErrors(violations []string) string {
	if len(violations) == 0 {
		return ""
	}
	return "Validation errors: " + strings.Join(violations, "; ")
}
