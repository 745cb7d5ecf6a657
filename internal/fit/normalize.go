package fit

import (
	"sort"
	"strings"
)

// textKeys are checked, in order, for the report text inside an object payload.
var textKeys = []string{"text", "rawText", "content", "report"}

// Normalizer converts stored payloads into FitViews.
type Normalizer struct {
	Dedup DedupPolicy
}

var defaultNormalizer = Normalizer{Dedup: DedupAll}

// Normalize is Normalizer.Normalize with the default dedup policy.
func Normalize(item Item) FitView {
	return defaultNormalizer.Normalize(item)
}

// Normalize never fails; unrecognized shapes degrade to text mining and
// finally to a view carrying only item's own fields.
func (n Normalizer) Normalize(item Item) FitView {
	switch d := Detect(item.Raw).(type) {
	case V11:
		return viewFromDocument(d.Doc, KindV11, item)
	case V1:
		doc, err := MigrateV1(d.Doc)
		if err == nil {
			return viewFromDocument(doc, KindV1, item)
		}
		return n.opaque(item, d.Doc)
	case MarkdownEmbedded:
		view := mineText(d.Markdown, n.Dedup)
		view.Kind = KindMarkdownEmbedded
		view.RawText = d.Markdown
		return view
	case OpaqueText:
		return n.opaque(item, d.Payload)
	}
	return FitView{}
}

func (n Normalizer) opaque(item Item, raw any) FitView {
	if obj, ok := raw.(map[string]any); ok && hasDirectFields(obj) {
		return directView(obj, item)
	}
	text := bestText(raw, item)
	if text == "" {
		return FitView{Kind: KindOpaqueText, Score: item.Score, Summary: item.Summary}
	}
	return mineText(text, n.Dedup)
}

func hasDirectFields(obj map[string]any) bool {
	if _, ok := number(obj["score"]); ok {
		return true
	}
	_, ok := obj["dimensions"].([]any)
	return ok
}

// directView builds a view from an object that already carries view fields.
func directView(obj map[string]any, item Item) FitView {
	text := bestText(obj, item)
	view := FitView{Kind: KindOpaqueText, RawText: text}

	if s, ok := number(obj["score"]); ok {
		view.Score = scorePtr(s)
	} else if item.Score != nil {
		view.Score = scorePtr(*item.Score)
	}

	switch {
	case nonEmptyString(obj["summary"]):
		view.Summary = obj["summary"].(string)
	case item.Summary != "":
		view.Summary = item.Summary
	default:
		view.Summary = ExtractSummary(text)
	}

	view.Dimensions = dimensionsOf(obj["dimensions"])
	view.Strengths = firstList(obj["strengths"], item.Strengths)
	view.Gaps = firstList(obj["gaps"], item.Gaps)
	view.Recommendations = firstList(obj["recommendations"], item.Recommendations)
	return view
}

func viewFromDocument(doc DocumentV11, kind Kind, item Item) FitView {
	view := FitView{
		Kind:  kind,
		Score: scorePtr(doc.Overall.Score),
	}
	switch {
	case strings.TrimSpace(doc.SummaryShort) != "":
		view.Summary = doc.SummaryShort
	case strings.TrimSpace(doc.SummaryLong) != "":
		view.Summary = ExtractSummary(doc.SummaryLong)
	default:
		view.Summary = item.Summary
	}

	view.Dimensions = make([]Dimension, 0, len(doc.Axes))
	for _, a := range doc.Axes {
		view.Dimensions = append(view.Dimensions, Dimension{Name: a.Name, Score: clampScore(a.Score)})
	}
	view.DeepDives = make([]DeepDive, 0, len(doc.DeepDives))
	for _, d := range doc.DeepDives {
		view.DeepDives = append(view.DeepDives, DeepDive{
			ID:        d.ID,
			Title:     d.Title,
			Score:     clampScore(d.Score),
			Overview:  d.Overview,
			DetailMD:  d.DetailMD,
			NextSteps: d.NextSteps,
		})
	}

	view.Strengths = orElse(doc.Strengths, item.Strengths)
	view.Gaps = orElse(doc.Gaps, item.Gaps)
	var recs []string
	for _, r := range doc.Recommendations {
		if a := strings.TrimSpace(r.Action); a != "" {
			recs = append(recs, a)
		}
	}
	view.Recommendations = orElse(recs, item.Recommendations)
	return view
}

// bestText picks the text to mine: raw itself when it is a string, then the
// item's rawText, then well-known keys, then the longest string in raw, then
// the item summary.
func bestText(raw any, item Item) string {
	if s, ok := raw.(string); ok && s != "" {
		return s
	}
	if item.RawText != "" {
		return item.RawText
	}
	if obj, ok := raw.(map[string]any); ok {
		for _, k := range textKeys {
			if nonEmptyString(obj[k]) {
				return obj[k].(string)
			}
		}
	}
	if s := longestString(raw); s != "" {
		return s
	}
	return item.Summary
}

// longestString returns the longest string among raw's top-level values,
// descending into nested objects and arrays only when there is none. Ties go
// to the first value in key order.
func longestString(v any) string {
	if _, isString := v.(string); isString {
		return ""
	}
	children := orderedChildren(v)
	var best string
	for _, child := range children {
		if s, ok := child.(string); ok && len(s) > len(best) {
			best = s
		}
	}
	if best != "" {
		return best
	}
	for _, child := range children {
		if s := longestString(child); len(s) > len(best) {
			best = s
		}
	}
	return best
}

// orderedChildren lists the values of an object by sorted key, or of an array
// by index.
func orderedChildren(v any) []any {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]any, 0, len(keys))
		for _, k := range keys {
			out = append(out, t[k])
		}
		return out
	case []any:
		return t
	}
	return nil
}

func dimensionsOf(v any) []Dimension {
	items, _ := v.([]any)
	dims := make([]Dimension, 0, len(items))
	for _, it := range items {
		e, ok := it.(map[string]any)
		if !ok {
			continue
		}
		name, _ := e["name"].(string)
		score, ok := number(e["score"])
		if name == "" || !ok {
			continue
		}
		dims = append(dims, Dimension{Name: name, Score: clampScore(score)})
	}
	return dims
}

func firstList(v any, fallback []string) []string {
	if _, ok := v.([]any); ok {
		if out := stringsOnly(v); len(out) > 0 {
			return out
		}
	}
	return orElse(nil, fallback)
}

func orElse(primary, fallback []string) []string {
	if len(primary) > 0 {
		return primary
	}
	if len(fallback) > 0 {
		return fallback
	}
	return []string{}
}

func nonEmptyString(v any) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) != ""
}
