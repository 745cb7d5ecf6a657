package fit

import (
	"github.com/xeipuuv/gojsonschema"
)

const (
	SchemaV1  = "fit.v1"
	SchemaV11 = "fit.v1.1"

	// MarkdownField is the field the engine uses for long-form markdown reports.
	MarkdownField = "applicant_recruitment"

	// AxisCount is the fixed number of axes in a structured report.
	AxisCount = 5

	// DefaultPriority is assigned to recommendations that carry none.
	DefaultPriority = "P3"
)

// DocumentV11 is the current structured report. Field names follow the
// engine's snake_case wire format.
type DocumentV11 struct {
	SchemaVersion   string           `json:"schema_version"`
	Axes            []Axis           `json:"axes"`
	DeepDives       []DeepDiveV11    `json:"deep_dives"`
	Overall         Overall          `json:"overall"`
	SummaryShort    string           `json:"summary_short,omitempty"`
	SummaryLong     string           `json:"summary_long,omitempty"`
	Locale          string           `json:"locale,omitempty"`
	JobFamily       string           `json:"job_family,omitempty"`
	Meta            map[string]any   `json:"meta,omitempty"`
	Job             map[string]any   `json:"job,omitempty"`
	Resume          map[string]any   `json:"resume,omitempty"`
	Confidence      *float64         `json:"confidence,omitempty"`
	Strengths       []string         `json:"strengths,omitempty"`
	Gaps            []string         `json:"gaps,omitempty"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
}

type Axis struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Score   float64 `json:"score"`
	Comment string  `json:"comment,omitempty"`
}

type DeepDiveV11 struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Score     float64  `json:"score"`
	Overview  string   `json:"overview"`
	DetailMD  string   `json:"detail_md"`
	NextSteps []string `json:"next_steps"`
}

type Overall struct {
	Score float64 `json:"score"`
	Grade string  `json:"grade,omitempty"`
}

type Recommendation struct {
	Priority string `json:"priority"`
	Action   string `json:"action"`
	Impact   string `json:"impact,omitempty"`
}

// schemaV11JSON accepts only documents that decode into DocumentV11 without loss.
const schemaV11JSON = `{
  "type": "object",
  "required": ["schema_version", "axes", "deep_dives", "overall"],
  "properties": {
    "schema_version": {"enum": ["fit.v1.1"]},
    "axes": {
      "type": "array", "minItems": 5, "maxItems": 5,
      "items": {
        "type": "object",
        "required": ["id", "name", "score"],
        "properties": {
          "id": {"type": "string"},
          "name": {"type": "string"},
          "score": {"type": "number"},
          "comment": {"type": "string"}
        }
      }
    },
    "deep_dives": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "title", "score"],
        "properties": {
          "id": {"type": "string"},
          "title": {"type": "string"},
          "score": {"type": "number"},
          "overview": {"type": "string"},
          "detail_md": {"type": "string"},
          "next_steps": {"type": "array", "items": {"type": "string"}}
        }
      }
    },
    "overall": {
      "type": "object",
      "required": ["score"],
      "properties": {"score": {"type": "number"}, "grade": {"type": "string"}}
    },
    "summary_short": {"type": "string"},
    "summary_long": {"type": "string"},
    "locale": {"type": "string"},
    "job_family": {"type": "string"},
    "meta": {"type": "object"},
    "job": {"type": "object"},
    "resume": {"type": "object"},
    "confidence": {"type": "number"},
    "strengths": {"type": "array", "items": {"type": "string"}},
    "gaps": {"type": "array", "items": {"type": "string"}},
    "recommendations": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "priority": {"type": "string"},
          "action": {"type": "string"},
          "impact": {"type": "string"}
        }
      }
    }
  }
}`

// schemaV1JSON only checks the skeleton. Optional fields are repaired by
// MigrateV1 and overall.score is enforced there.
const schemaV1JSON = `{
  "type": "object",
  "required": ["schema_version", "axes", "deep_dives", "overall"],
  "properties": {
    "schema_version": {"enum": ["fit.v1"]},
    "axes": {
      "type": "array", "minItems": 5, "maxItems": 5,
      "items": {
        "type": "object",
        "required": ["id", "name", "score"],
        "properties": {
          "id": {"type": "string"},
          "name": {"type": "string"},
          "score": {"type": "number"}
        }
      }
    },
    "deep_dives": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "title", "score"],
        "properties": {
          "id": {"type": "string"},
          "title": {"type": "string"},
          "score": {"type": "number"},
          "analysis": {"type": "string"}
        }
      }
    },
    "overall": {"type": "object"}
  }
}`

var (
	schemaV11 = mustSchema(schemaV11JSON)
	schemaV1  = mustSchema(schemaV1JSON)
)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic("fit: invalid embedded schema: " + err.Error())
	}
	return s
}

// matches reports whether doc satisfies schema. Validation errors count as a
// mismatch.
func matches(schema *gojsonschema.Schema, doc map[string]any) bool {
	res, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return false
	}
	return res.Valid()
}

// SchemaErrors lists why doc fails the v1.1 schema. Used by fitctl detect.
func SchemaErrors(doc map[string]any) []string {
	res, err := schemaV11.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(res.Errors()))
	for _, desc := range res.Errors() {
		out = append(out, desc.Field()+": "+desc.Description())
	}
	return out
}
