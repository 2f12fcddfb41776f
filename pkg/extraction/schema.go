package extraction

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/geosect/geosect/pkg/borehole"
	"github.com/geosect/geosect/pkg/errors"
)

// payloadSchema constrains the oracle's JSON output. Anything the model
// hallucinates outside this shape is rejected before it can reach
// reconciliation.
const payloadSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["fragments"],
  "properties": {
    "fragments": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["header"],
        "properties": {
          "header": {
            "type": "object",
            "properties": {
              "project":     {"type": "string"},
              "name":        {"type": "string"},
              "date":        {"type": "string"},
              "elevation":   {"type": "string"},
              "coordinates": {"type": "string"},
              "client":      {"type": "string"},
              "water_table": {"type": "string"}
            }
          },
          "layers": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["depth_from", "depth_to"],
              "properties": {
                "depth_from":    {"type": "number", "minimum": 0},
                "depth_to":      {"type": "number", "minimum": 0},
                "description":   {"type": "string"},
                "uscs":          {"type": "string"},
                "fines_percent": {"type": "number", "minimum": 0, "maximum": 100},
                "plasticity":    {"type": "string"},
                "swelling":      {"type": "string"},
                "color_name":    {"type": "string"}
              }
            }
          },
          "spt": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["depth", "blow_count"],
              "properties": {
                "depth":      {"type": "number", "minimum": 0},
                "blow_count": {"type": "integer", "minimum": 0},
                "notes":      {"type": "string"}
              }
            }
          }
        }
      }
    }
  }
}`

var compiledSchema = jsonschema.MustCompileString("fragments.schema.json", payloadSchema)

// oraclePayload is the wire shape of a validated oracle response.
type oraclePayload struct {
	Fragments []borehole.Fragment `json:"fragments"`
}

// decodePayload validates raw oracle output and decodes it into fragments,
// stamping each with the source page. Models wrap JSON in markdown fences
// often enough that we strip them before parsing.
func decodePayload(raw string, page int) ([]borehole.Fragment, error) {
	cleaned := stripFences(raw)

	var v any
	if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExtraction, err, "oracle returned malformed JSON")
	}
	if err := compiledSchema.Validate(v); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExtraction, err, "oracle payload failed schema validation")
	}

	var payload oraclePayload
	dec := json.NewDecoder(bytes.NewReader([]byte(cleaned)))
	if err := dec.Decode(&payload); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExtraction, err, "decoding oracle payload")
	}

	for i := range payload.Fragments {
		payload.Fragments[i].Page = page
	}
	return payload.Fragments, nil
}

// stripFences removes a surrounding markdown code fence if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
