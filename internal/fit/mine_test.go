package fit

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"
)

func TestExtractScorePrecedence(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{name: "total score wins", text: "점수 90/100\n총점 78점", want: 78},
		{name: "spaced total", text: "총 점 81 점", want: 81},
		{name: "overall label", text: "Overall Score: 66 and 90/100", want: 66},
		{name: "out of 100", text: "결과 72/100점", want: 72},
		{name: "decimal out of 100", text: "| 항목 | 64.5/100 |", want: 64.5},
		{name: "clamped", text: "총점 150점", want: 100},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ExtractScore(tt.text)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestExtractScoreMissing(t *testing.T) {
	assert.Nil(t, ExtractScore("점수가 없습니다"))
}

func TestMineReviewReport(t *testing.T) {
	view := Mine(reviewReport)

	require.NotNil(t, view.Score)
	assert.Equal(t, 78.0, *view.Score)
	assert.Equal(t, []Dimension{
		{Name: "기술 역량", Score: 80},
		{Name: "문제 해결", Score: 72},
		{Name: "오너십", Score: 55},
	}, view.Dimensions)
	assert.Equal(t, []string{"프로젝트 경험이 구체적임", "기술 스택이 명확함"}, view.Strengths)
	assert.Equal(t, []string{"성과 수치가 부족함"}, view.Gaps)
	assert.Equal(t, []string{"성과를 숫자로 표현하세요"}, view.Recommendations)
	assert.Equal(t, "이력서 첨삭 결과입니다. 전반적으로 가독성이 좋습니다! 경력 기술이 구체적입니다.", view.Summary)
	assert.Equal(t, reviewReport, view.RawText)
}

func TestMineComparisonReport(t *testing.T) {
	view := Mine(comparisonReport)

	require.NotNil(t, view.Score)
	assert.Equal(t, 64.0, *view.Score)
	assert.Equal(t, []Dimension{
		{Name: "기술적합성", Score: 80},
		{Name: "유사프로덕트", Score: 75},
		{Name: "개인역량", Score: 80},
	}, view.Dimensions)
	assert.Equal(t, []string{"대규모 트래픽 경험"}, view.Strengths)
	assert.Equal(t, []string{"문제 정의부터 서술하세요"}, view.Recommendations)
	assert.Equal(t, []string{}, view.Gaps)
}

func TestComparisonBareScoresWhenNoFractions(t *testing.T) {
	view := Mine("커뮤니케이션 능력 70점\n유사 프로덕트 경험 40점")
	assert.Equal(t, []Dimension{
		{Name: "커뮤니케이션", Score: 70},
		{Name: "유사프로덕트", Score: 40},
	}, view.Dimensions)
}

func TestTableRowsClampToHundred(t *testing.T) {
	view := Mine("# Report\n\n| 항목 | 점수 |\n|---|---|\n| 경험 | 150/100 |\n| 역할 적합도 | 64.4/100 |\n")
	require.Len(t, view.Dimensions, 2)
	assert.Equal(t, Dimension{Name: "경험", Score: 100}, view.Dimensions[0])
	assert.Equal(t, Dimension{Name: "역할 적합도", Score: 64}, view.Dimensions[1])
	for _, d := range view.Dimensions {
		assert.GreaterOrEqual(t, d.Score, 0.0)
		assert.LessOrEqual(t, d.Score, 100.0)
	}
}

func TestDuplicateDimensionsKeptByDefault(t *testing.T) {
	text := "오너십 50점\n협업 60점\n오너십 70점"
	assert.Len(t, Mine(text).Dimensions, 3)

	n := Normalizer{Dedup: DedupFirst}
	assert.Equal(t, []Dimension{{Name: "오너십", Score: 50}, {Name: "협업", Score: 60}}, n.Normalize(Item{Raw: text}).Dimensions)

	n.Dedup = DedupLast
	assert.Equal(t, 70.0, n.Normalize(Item{Raw: text}).Dimensions[0].Score)

	n.Dedup = DedupAverage
	assert.Equal(t, 60.0, n.Normalize(Item{Raw: text}).Dimensions[0].Score)
}

func TestParseDedupPolicy(t *testing.T) {
	assert.Equal(t, DedupFirst, ParseDedupPolicy(" First "))
	assert.Equal(t, DedupAll, ParseDedupPolicy("bogus"))
	assert.Equal(t, DedupAll, ParseDedupPolicy(""))
}

func TestExtractBulletsIsIdempotent(t *testing.T) {
	first := ExtractBullets(reviewReport, strengthsHeadingRe)
	second := ExtractBullets(reviewReport, strengthsHeadingRe)
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

func TestExtractBulletsMissingHeading(t *testing.T) {
	got := ExtractBullets("아무 내용 없음", regexp.MustCompile(`없는제목`))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestExtractSummary(t *testing.T) {
	assert.Equal(t, "하나. 둘! 셋?", ExtractSummary("하나. 둘! 셋? 넷.\n\n다음 단락"))
	assert.Equal(t, "짧은 요약", ExtractSummary("\n\n짧은 요약\n\n다음"))
	assert.Equal(t, "", ExtractSummary("  \n\n "))

	long := strings.Repeat("가", 400) + ". 끝."
	assert.Equal(t, long, ExtractSummary(long), "fewer than three sentences are kept whole")
}

func TestDetectStyle(t *testing.T) {
	assert.Equal(t, StyleReview, DetectStyle("문서 가독성"))
	assert.Equal(t, StyleComparison, DetectStyle("직무 기술 28/35점"))
}

func TestMineNormalizesDecomposedHangul(t *testing.T) {
	decomposed := norm.NFD.String("총점 88점")
	view := Mine(decomposed)
	require.NotNil(t, view.Score)
	assert.Equal(t, 88.0, *view.Score)
}
