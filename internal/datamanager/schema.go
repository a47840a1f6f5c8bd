package datamanager

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// usersDocumentSchema describes the JSON store: user-id keys mapping to a
// user with nested movies keyed by movie id.
const usersDocumentSchema = `{
	"type": "object",
	"patternProperties": {
		"^[0-9]+$": {
			"type": "object",
			"properties": {
				"name": {"type": "string", "minLength": 1},
				"password": {"type": "string"},
				"movies": {
					"type": "object",
					"patternProperties": {
						"^[0-9]+$": {
							"type": "object",
							"properties": {
								"name": {"type": "string"},
								"director": {"type": "string"},
								"year": {"type": "integer"},
								"rating": {"type": "number"},
								"poster": {"type": "string"}
							},
							"required": ["name"]
						}
					},
					"additionalProperties": false
				}
			},
			"required": ["name", "movies"]
		}
	},
	"additionalProperties": false
}`

var usersSchema = mustCompileSchema(usersDocumentSchema)

func mustCompileSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("invalid JSON schema: %v", err))
	}
	return schema
}

func validateUsersDocument(data []byte) error {
	result, err := usersSchema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("failed to validate users document: %w", err)
	}
	if !result.Valid() {
		var msgs []string
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("users document is invalid: %s", strings.Join(msgs, "; "))
	}
	return nil
}
