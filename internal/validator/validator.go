// Package validator rejects malformed relay requests before any event is
// produced. Inbound JSON bodies are checked against an embedded JSON schema.
package validator

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// questionSchema is the wire contract for a submitted question. The pattern
// requires at least one non-whitespace character, so blank and
// whitespace-only prompts fail here rather than deeper in the pipeline.
const questionSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["question"],
	"properties": {
		"question": {
			"type": "string",
			"minLength": 1,
			"pattern": "\\S"
		}
	}
}`

// Result reports the outcome of validating one request body.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// Validator validates inbound request payloads.
type Validator struct {
	schema *gojsonschema.Schema
}

// New compiles the embedded request schema.
func New() (*Validator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(questionSchema))
	if err != nil {
		return nil, fmt.Errorf("compile question schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// ValidateQuestion checks one raw JSON request body.
func (v *Validator) ValidateQuestion(raw []byte) Result {
	docResult, err := v.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return Result{Errors: []string{fmt.Sprintf("invalid JSON: %v", err)}}
	}
	if docResult.Valid() {
		return Result{Valid: true}
	}
	result := Result{}
	for _, desc := range docResult.Errors() {
		result.Errors = append(result.Errors, desc.String())
	}
	return result
}
