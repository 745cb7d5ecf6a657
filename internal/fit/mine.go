package fit

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Style is the report flavor detected from free text.
type Style string

const (
	StyleReview     Style = "review"
	StyleComparison Style = "comparison"
)

// DedupPolicy decides what happens when a dimension label is mined twice.
type DedupPolicy string

const (
	DedupAll     DedupPolicy = "all"
	DedupFirst   DedupPolicy = "first"
	DedupLast    DedupPolicy = "last"
	DedupAverage DedupPolicy = "average"
)

// ParseDedupPolicy maps a config value to a policy, defaulting to DedupAll.
func ParseDedupPolicy(s string) DedupPolicy {
	switch DedupPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case DedupFirst:
		return DedupFirst
	case DedupLast:
		return DedupLast
	case DedupAverage:
		return DedupAverage
	default:
		return DedupAll
	}
}

const summaryFallbackRunes = 300

var (
	totalScoreRe   = regexp.MustCompile(`총\s*점\s*[:：]?\s*(\d{1,3})\s*점`)
	overallScoreRe = regexp.MustCompile(`(?i)overall\s*score[:\s]+(\d{1,3})`)
	outOf100Re     = regexp.MustCompile(`(?:^|[^\d.])(\d{1,3}(?:\.\d+)?)\s*/\s*100\s*점?`)

	reviewDimRe      = regexp.MustCompile(`(기술\s*역량|문제\s*해결|학습|성장|오너십|협업|소통)[^\n]*?(\d{1,3})\s*점`)
	comparisonFracRe = regexp.MustCompile(`(직무.?기술|기술.?적합성|유사.?프로덕트|개인.?역량|커뮤니케이션|협업)[^\n]*?(\d{1,3})\s*/\s*(\d{1,3})\s*점`)
	comparisonBareRe = regexp.MustCompile(`(직무.?기술|유사.?프로덕트|개인.?역량|커뮤니케이션|협업)[^\n]*?(\d{1,3})\s*점`)
	tableRowRe       = regexp.MustCompile(`(?m)^\|\s*([^|\n]+?)\s*\|\s*(\d+(?:\.\d+)?)\s*/\s*(\d+(?:\.\d+)?)\s*점?\s*\|`)

	reviewStyleRe = regexp.MustCompile(`첨삭|가독성|문서|역량\s*점수|기술\s*역량|문제\s*해결|오너십|협업`)

	strengthsHeadingRe            = regexp.MustCompile(`(강점|부각해야\s*할\s*점)`)
	gapsHeadingRe                 = regexp.MustCompile(`(아쉽|부족|개선\s*필요)`)
	recommendationsHeadingRe      = regexp.MustCompile(`(추천|액션|더\s*쌓아야|제안)`)
	comparisonRecommendationsHead = regexp.MustCompile(`(추천|액션|더\s*쌓아야|제안|스토리텔링)`)

	blankLineRe  = regexp.MustCompile(`\n[ \t\r\f\v]*\n`)
	paragraphRe  = regexp.MustCompile(`\n{2,}`)
	bulletMarkRe = regexp.MustCompile(`^[-*•]\s*`)
)

// DetectStyle classifies text as a résumé review or, by default, a
// job comparison report.
func DetectStyle(text string) Style {
	if reviewStyleRe.MatchString(text) {
		return StyleReview
	}
	return StyleComparison
}

// Mine runs the text-mining fallback with the default dedup policy.
func Mine(text string) FitView {
	return mineText(text, DedupAll)
}

func mineText(text string, dedup DedupPolicy) FitView {
	text = norm.NFC.String(text)
	style := DetectStyle(text)

	view := FitView{Kind: KindOpaqueText, RawText: text}
	view.Score = ExtractScore(text)

	recHeading := recommendationsHeadingRe
	var dims []Dimension
	if style == StyleReview {
		dims = reviewDimensions(text)
	} else {
		dims = comparisonDimensions(text)
		recHeading = comparisonRecommendationsHead
	}
	view.Dimensions = dedupDimensions(dims, dedup)

	view.Strengths = ExtractBullets(text, strengthsHeadingRe)
	view.Gaps = ExtractBullets(text, gapsHeadingRe)
	view.Recommendations = ExtractBullets(text, recHeading)
	view.Summary = ExtractSummary(text)
	return view
}

// ExtractScore returns the first total score found, clamped to [0,100].
func ExtractScore(text string) *float64 {
	for _, re := range []*regexp.Regexp{totalScoreRe, overallScoreRe, outOf100Re} {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		return scorePtr(v)
	}
	return nil
}

func reviewDimensions(text string) []Dimension {
	var dims []Dimension
	for _, m := range reviewDimRe.FindAllStringSubmatch(text, -1) {
		v, _ := strconv.Atoi(m[2])
		dims = append(dims, Dimension{
			Name:  strings.Join(strings.Fields(m[1]), " "),
			Score: clampScore(float64(v)),
		})
	}
	return dims
}

type positioned struct {
	at  int
	dim Dimension
}

func comparisonDimensions(text string) []Dimension {
	var found []positioned
	var spans [][]int
	for _, m := range comparisonFracRe.FindAllStringSubmatchIndex(text, -1) {
		a, _ := strconv.ParseFloat(text[m[4]:m[5]], 64)
		b, _ := strconv.ParseFloat(text[m[6]:m[7]], 64)
		found = append(found, positioned{at: m[0], dim: Dimension{
			Name:  removeSpaces(text[m[2]:m[3]]),
			Score: fraction(a, b),
		}})
		spans = append(spans, []int{m[0], m[1]})
	}
	for _, m := range tableRowRe.FindAllStringSubmatchIndex(text, -1) {
		if overlaps(spans, m[0], m[1]) {
			continue
		}
		a, errA := strconv.ParseFloat(text[m[4]:m[5]], 64)
		b, errB := strconv.ParseFloat(text[m[6]:m[7]], 64)
		if errA != nil || errB != nil {
			continue
		}
		found = append(found, positioned{at: m[0], dim: Dimension{
			Name:  strings.Join(strings.Fields(text[m[2]:m[3]]), " "),
			Score: fraction(a, b),
		}})
	}
	if len(found) == 0 {
		for _, m := range comparisonBareRe.FindAllStringSubmatchIndex(text, -1) {
			v, _ := strconv.Atoi(text[m[4]:m[5]])
			found = append(found, positioned{at: m[0], dim: Dimension{
				Name:  removeSpaces(text[m[2]:m[3]]),
				Score: clampScore(float64(v)),
			}})
		}
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].at < found[j].at })
	dims := make([]Dimension, 0, len(found))
	for _, f := range found {
		dims = append(dims, f.dim)
	}
	return dims
}

func fraction(a, b float64) float64 {
	return clampScore(math.Round(a / math.Max(1, b) * 100))
}

func overlaps(spans [][]int, start, end int) bool {
	for _, s := range spans {
		if start < s[1] && s[0] < end {
			return true
		}
	}
	return false
}

func removeSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func dedupDimensions(dims []Dimension, policy DedupPolicy) []Dimension {
	if len(dims) == 0 {
		return nil
	}
	if policy == DedupAll || policy == "" {
		return dims
	}
	order := make([]string, 0, len(dims))
	byName := make(map[string][]float64, len(dims))
	for _, d := range dims {
		if _, seen := byName[d.Name]; !seen {
			order = append(order, d.Name)
		}
		byName[d.Name] = append(byName[d.Name], d.Score)
	}
	out := make([]Dimension, 0, len(order))
	for _, name := range order {
		scores := byName[name]
		var v float64
		switch policy {
		case DedupFirst:
			v = scores[0]
		case DedupLast:
			v = scores[len(scores)-1]
		case DedupAverage:
			var sum float64
			for _, s := range scores {
				sum += s
			}
			v = math.Round(sum / float64(len(scores)))
		}
		out = append(out, Dimension{Name: name, Score: v})
	}
	return out
}

// ExtractBullets returns the bullet lines under the first heading matching
// heading, stopping at the next blank line. A missing heading yields an empty
// slice.
func ExtractBullets(text string, heading *regexp.Regexp) []string {
	loc := heading.FindStringIndex(text)
	if loc == nil {
		return []string{}
	}
	section := text[loc[0]:]
	if end := blankLineRe.FindStringIndex(section); end != nil {
		section = section[:end[0]]
	}
	lines := strings.Split(section, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines[1:] {
		line = strings.TrimSpace(bulletMarkRe.ReplaceAllString(strings.TrimLeft(line, " \t"), ""))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// ExtractSummary returns the first three sentences of the first paragraph, or
// all of them when there are fewer. The 300-rune cut applies only when the
// paragraph yields no sentence.
func ExtractSummary(text string) string {
	var first string
	for _, p := range paragraphRe.Split(text, -1) {
		if p = strings.TrimSpace(p); p != "" {
			first = p
			break
		}
	}
	if first == "" {
		return ""
	}
	sentences := splitSentences(first)
	if len(sentences) > 3 {
		sentences = sentences[:3]
	}
	if s := strings.Join(sentences, " "); s != "" {
		return s
	}
	return truncateRunes(first, summaryFallbackRunes)
}

// splitSentences cuts after ., !, ? or … when whitespace follows.
func splitSentences(p string) []string {
	var out []string
	start := 0
	prev := rune(0)
	for i := 0; i < len(p); {
		r, size := utf8.DecodeRuneInString(p[i:])
		if unicode.IsSpace(r) && isSentenceEnd(prev) {
			out = append(out, p[start:i])
			j := i
			for j < len(p) {
				r2, s2 := utf8.DecodeRuneInString(p[j:])
				if !unicode.IsSpace(r2) {
					break
				}
				j += s2
			}
			start = j
			i = j
			prev = 0
			continue
		}
		prev = r
		i += size
	}
	if start < len(p) {
		out = append(out, p[start:])
	}
	return out
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', '…':
		return true
	}
	return false
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
