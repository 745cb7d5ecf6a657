package fit

import (
	"encoding/json"
	"errors"
)

// ErrMissingOverallScore means a v1 document cannot be upgraded and must be
// handled as opaque text.
var ErrMissingOverallScore = errors.New("fit: v1 document has no numeric overall.score")

// MigrateV1 upgrades a v1 document to the v1.1 shape. Malformed optional
// fields are dropped, never reported.
func MigrateV1(doc map[string]any) (DocumentV11, error) {
	overall, _ := doc["overall"].(map[string]any)
	score, ok := number(overall["score"])
	if !ok {
		return DocumentV11{}, ErrMissingOverallScore
	}
	out := DocumentV11{
		SchemaVersion: SchemaV11,
		Overall:       Overall{Score: score},
		Axes:          migrateAxes(doc["axes"]),
		DeepDives:     migrateDeepDives(doc["deep_dives"]),
	}
	if grade, ok := overall["grade"].(string); ok {
		out.Overall.Grade = grade
	}
	if recs, ok := doc["recommendations"].([]any); ok {
		out.Recommendations = migrateRecommendations(recs)
	}

	if s, ok := doc["summary_short"].(string); ok {
		out.SummaryShort = s
	}
	if s, ok := doc["summary_long"].(string); ok {
		out.SummaryLong = s
	}
	if s, ok := doc["locale"].(string); ok {
		out.Locale = s
	}
	if s, ok := doc["job_family"].(string); ok {
		out.JobFamily = s
	}
	if m, ok := doc["meta"].(map[string]any); ok {
		out.Meta = m
	}
	if m, ok := doc["job"].(map[string]any); ok {
		out.Job = m
	}
	if m, ok := doc["resume"].(map[string]any); ok {
		out.Resume = m
	}
	if c, ok := number(doc["confidence"]); ok {
		out.Confidence = &c
	}
	out.Strengths = stringsOnly(doc["strengths"])
	out.Gaps = stringsOnly(doc["gaps"])
	return out, nil
}

func migrateAxes(v any) []Axis {
	items, _ := v.([]any)
	axes := make([]Axis, 0, len(items))
	for _, it := range items {
		e, ok := it.(map[string]any)
		if !ok {
			continue
		}
		score, ok := number(e["score"])
		if !ok {
			continue
		}
		a := Axis{Score: score}
		a.ID, _ = e["id"].(string)
		a.Name, _ = e["name"].(string)
		a.Comment, _ = e["comment"].(string)
		axes = append(axes, a)
	}
	return axes
}

func migrateDeepDives(v any) []DeepDiveV11 {
	items, _ := v.([]any)
	out := make([]DeepDiveV11, 0, len(items))
	for _, it := range items {
		e, ok := it.(map[string]any)
		if !ok {
			continue
		}
		d := DeepDiveV11{NextSteps: stringsOnly(e["next_steps"])}
		d.ID, _ = e["id"].(string)
		d.Title, _ = e["title"].(string)
		d.Score, _ = number(e["score"])
		if overview, ok := e["overview"].(string); ok {
			d.Overview = overview
		} else {
			d.Overview, _ = e["analysis"].(string)
		}
		d.DetailMD, _ = e["detail_md"].(string)
		out = append(out, d)
	}
	return out
}

func migrateRecommendations(items []any) []Recommendation {
	out := make([]Recommendation, 0, len(items))
	for _, it := range items {
		r := Recommendation{Priority: DefaultPriority}
		switch e := it.(type) {
		case map[string]any:
			if p, ok := e["priority"].(string); ok {
				r.Priority = p
			}
			r.Action, _ = e["action"].(string)
			r.Impact, _ = e["impact"].(string)
		case string:
			// bare strings were how v1 engines wrote actions
			r.Action = e
		}
		out = append(out, r)
	}
	return out
}

// stringsOnly keeps the string elements of v, or returns an empty slice.
func stringsOnly(v any) []string {
	if ss, ok := v.([]string); ok {
		return append([]string{}, ss...)
	}
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
