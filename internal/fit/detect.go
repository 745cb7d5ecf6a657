package fit

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Detection is the closed set of payload classifications: V1, V11,
// MarkdownEmbedded or OpaqueText.
type Detection interface {
	Kind() Kind
	isDetection()
}

// V1 holds a document that matched the v1 skeleton. It still needs MigrateV1.
type V1 struct {
	Doc map[string]any
}

// V11 holds a fully decoded current-version document.
type V11 struct {
	Doc DocumentV11
}

// MarkdownEmbedded holds the markdown report found under MarkdownField.
type MarkdownEmbedded struct {
	Markdown string
	Source   map[string]any
}

// OpaqueText is everything else. Payload is the decoded value (object, array,
// scalar or the original string) and Text its string rendering.
type OpaqueText struct {
	Payload any
	Text    string
}

func (V1) Kind() Kind               { return KindV1 }
func (V11) Kind() Kind              { return KindV11 }
func (MarkdownEmbedded) Kind() Kind { return KindMarkdownEmbedded }
func (OpaqueText) Kind() Kind       { return KindOpaqueText }

func (V1) isDetection()               {}
func (V11) isDetection()              {}
func (MarkdownEmbedded) isDetection() {}
func (OpaqueText) isDetection()       {}

// Detect classifies payload. It never fails: anything ambiguous falls through
// to a weaker classification.
func Detect(payload any) Detection {
	decoded := DecodeRaw(payload)
	m, ok := decoded.(map[string]any)
	if !ok {
		return OpaqueText{Payload: decoded, Text: stringify(decoded)}
	}
	if matches(schemaV11, m) {
		if doc, err := decodeDocument(m); err == nil {
			return V11{Doc: doc}
		}
	}
	if matches(schemaV1, m) {
		return V1{Doc: m}
	}
	if md, ok := m[MarkdownField].(string); ok && strings.TrimSpace(md) != "" {
		return MarkdownEmbedded{Markdown: md, Source: m}
	}
	return OpaqueText{Payload: m, Text: stringify(m)}
}

// DecodeRaw turns a stored payload into a Go value. Strings and byte slices are
// decoded as JSON when they parse; otherwise the original string is returned.
func DecodeRaw(payload any) any {
	switch p := payload.(type) {
	case nil:
		return nil
	case string:
		return decodeString(p)
	case []byte:
		return decodeString(string(p))
	case json.RawMessage:
		return decodeString(string(p))
	default:
		return p
	}
}

func decodeString(s string) any {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return s
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(trimmed)))
	var v any
	if err := dec.Decode(&v); err != nil {
		return s
	}
	// trailing garbage means this was text that merely started like JSON
	if dec.More() {
		return s
	}
	if v == nil {
		return nil
	}
	return v
}

func decodeDocument(m map[string]any) (DocumentV11, error) {
	var doc DocumentV11
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &doc,
	})
	if err != nil {
		return DocumentV11{}, err
	}
	if err := dec.Decode(m); err != nil {
		return DocumentV11{}, err
	}
	return doc, nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
