package llm

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// GenerateJSONSchema reflects a JSON schema from v, suitable for passing
// to GenerateWithSchema. The schema is inlined (no $ref indirection) since
// provider APIs expect a self-contained object schema.
func GenerateJSONSchema(v any) (map[string]any, error) {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	schema := reflector.Reflect(v)

	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}
	// Provider schema dialects reject metadata keys.
	delete(out, "$schema")
	delete(out, "$id")
	delete(out, "additionalProperties")
	return out, nil
}

// ParseStructured decodes a schema-constrained completion into out.
// Responses that are not the expected JSON shape return a ResponseError,
// which call sites translate into their static fallback payload.
func ParseStructured(response string, out any) error {
	if err := json.Unmarshal([]byte(response), out); err != nil {
		return NewLLMError(ErrorTypeResponse, "response is not the expected structured shape", err)
	}
	return nil
}
