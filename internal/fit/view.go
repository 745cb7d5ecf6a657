package fit

// Kind names the detector path that produced a FitView.
type Kind string

const (
	KindV1               Kind = "v1"
	KindV11              Kind = "v1.1"
	KindMarkdownEmbedded Kind = "markdown_embedded"
	KindOpaqueText       Kind = "opaque_text"
)

// FitView is the renderer-agnostic result of normalization. Every field is
// optional; the zero value renders as "no data yet".
type FitView struct {
	Kind            Kind        `json:"kind,omitempty"`
	Score           *float64    `json:"score,omitempty"`
	Summary         string      `json:"summary,omitempty"`
	Dimensions      []Dimension `json:"dimensions,omitempty"`
	DeepDives       []DeepDive  `json:"deepDives,omitempty"`
	Strengths       []string    `json:"strengths,omitempty"`
	Gaps            []string    `json:"gaps,omitempty"`
	Recommendations []string    `json:"recommendations,omitempty"`
	RawText         string      `json:"rawText,omitempty"`
}

// Dimension is one named competency score in [0,100].
type Dimension struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// DeepDive is the per-topic elaboration carried by structured payloads.
type DeepDive struct {
	ID        string   `json:"id,omitempty"`
	Title     string   `json:"title"`
	Score     float64  `json:"score"`
	Overview  string   `json:"overview,omitempty"`
	DetailMD  string   `json:"detailMd,omitempty"`
	NextSteps []string `json:"nextSteps,omitempty"`
}

// Item is the input to Normalize: the stored raw payload plus whatever
// denormalized fields sit next to it.
type Item struct {
	Raw             any
	RawText         string
	Score           *float64
	Summary         string
	Strengths       []string
	Gaps            []string
	Recommendations []string
}

// IsEmpty reports whether nothing renderable was extracted.
func (v FitView) IsEmpty() bool {
	return v.Score == nil && v.Summary == "" && len(v.Dimensions) == 0 &&
		len(v.DeepDives) == 0 && len(v.Strengths) == 0 && len(v.Gaps) == 0 &&
		len(v.Recommendations) == 0
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func scorePtr(v float64) *float64 {
	c := clampScore(v)
	return &c
}
