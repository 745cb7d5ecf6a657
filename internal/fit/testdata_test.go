package fit

func v11Fixture() map[string]any {
	return map[string]any{
		"schema_version": SchemaV11,
		"axes": []any{
			map[string]any{"id": "a1", "name": "직무 및 기술 적합성", "score": 82.0},
			map[string]any{"id": "a2", "name": "오너십", "score": 74.0},
			map[string]any{"id": "a3", "name": "협업 및 소통", "score": 68.0},
			map[string]any{"id": "a4", "name": "문제 해결", "score": 90.0},
			map[string]any{"id": "a5", "name": "학습 및 성장", "score": 120.0},
		},
		"deep_dives": []any{
			map[string]any{"id": "d1", "title": "Kubernetes 운영 경험", "score": 70.0, "overview": "운영 경험이 있음", "detail_md": "## 상세", "next_steps": []any{"CKA 준비"}},
			map[string]any{"id": "d2", "title": "대용량 트래픽 처리", "score": 55.0, "overview": "", "detail_md": ""},
			map[string]any{"id": "d3", "title": "  Leading a team  ", "score": 61.0, "overview": "x", "detail_md": "y"},
			map[string]any{"id": "d4", "title": "데이터 파이프라인", "score": 80.0, "overview": "z", "detail_md": ""},
		},
		"overall":       map[string]any{"score": 76.0, "grade": "B"},
		"summary_short": "백엔드 포지션과 잘 맞습니다.",
		"strengths":     []any{"Go 실무 경험"},
		"gaps":          []any{"프론트엔드 경험 부족"},
		"recommendations": []any{
			map[string]any{"priority": "P1", "action": "트래픽 처리 사례를 정리하세요", "impact": "high"},
			map[string]any{"priority": "P2", "action": ""},
		},
	}
}

func v1Fixture() map[string]any {
	return map[string]any{
		"schema_version": SchemaV1,
		"axes": []any{
			map[string]any{"id": "a1", "name": "직무 기술", "score": 60.0},
			map[string]any{"id": "a2", "name": "오너십", "score": 70.0},
			map[string]any{"id": "a3", "name": "협업", "score": 65.0},
			map[string]any{"id": "a4", "name": "문제 해결", "score": 50.0},
			map[string]any{"id": "a5", "name": "성장", "score": 40.0},
		},
		"deep_dives": []any{
			map[string]any{"id": "d1", "title": "클라우드", "score": 60.0, "analysis": "AWS 경험이 풍부합니다."},
			map[string]any{"id": "d2", "title": "테스트", "score": 40.0, "analysis": "테스트 문화가 약합니다.", "next_steps": []any{"TDD 연습", 3.0, nil}},
		},
		"overall":         map[string]any{"score": 58.0},
		"summary_short":   "보통 수준의 적합도",
		"locale":          42.0,
		"confidence":      0.7,
		"meta":            "not-an-object",
		"recommendations": []any{map[string]any{"action": 5.0}, map[string]any{"priority": "P1", "action": "포트폴리오 보강"}},
	}
}

const reviewReport = `이력서 첨삭 결과입니다. 전반적으로 가독성이 좋습니다! 경력 기술이 구체적입니다. 다만 수치가 적습니다. 마지막 문장입니다.

총점 78점

기술 역량: 80점
문제 해결 능력 72점
오너십 55점

강점
- 프로젝트 경험이 구체적임
* 기술 스택이 명확함
• 

부족한 점
- 성과 수치가 부족함

추천 액션
- 성과를 숫자로 표현하세요
`

const comparisonReport = `지원 직무와의 비교 리포트입니다.

Overall score: 64

직무 및 기술 적합성 28/35점
유사 프로덕트 경험 15/20점
개인 역량 12/15점

부각해야 할 점
- 대규모 트래픽 경험

스토리텔링 제안
- 문제 정의부터 서술하세요
`
