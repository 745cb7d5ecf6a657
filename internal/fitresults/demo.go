package fitresults

// DemoType selects a bundled example report that is stored without calling
// the engine.
type DemoType string

const (
	DemoComparison DemoType = "comparison"
	DemoReview     DemoType = "review"
)

func demoReport(t DemoType) (string, bool) {
	switch t {
	case DemoComparison:
		return demoComparisonReport, true
	case DemoReview:
		return demoReviewReport, true
	}
	return "", false
}

const demoComparisonReport = `지원자는 백엔드 플랫폼 직무와 전반적으로 잘 맞습니다. 결제 도메인 경험이 공고의 핵심 요구사항과 겹칩니다. 대규모 트래픽 운영 지표는 보강이 필요합니다.

총점 74점

| 항목 | 점수 |
| 직무 및 기술 적합성 | 32/40 점 |
| 유사 프로덕트 경험 | 22/30 점 |
| 개인 역량 | 20/30 점 |

부각해야 할 점
- Go 기반 결제 API 설계와 운영 경험
- 장애 대응 회고를 주도한 경험

더 쌓아야 할 경험
- 초당 수천 건 이상의 트래픽 처리 사례
- 메시지 브로커 기반 비동기 아키텍처

스토리텔링 제안
- 결제 실패율을 줄인 과정을 수치와 함께 서술하세요
`

const demoReviewReport = `이력서는 구성이 깔끔하고 읽기 쉽습니다. 다만 성과가 수치로 드러나지 않는 문장이 적지 않습니다. 프로젝트별 역할을 한 줄로 먼저 제시하면 가독성이 좋아집니다.

총점 78점

기술 역량 82점
문제 해결 76점
협업 80점
오너십 55점

강점
- 최신 기술 스택을 꾸준히 학습한 흔적
- 협업 도구와 코드 리뷰 문화에 익숙함

부족한 점
- 프로젝트 성과가 정량적으로 표현되지 않음
- 주도적으로 이끈 경험이 드러나지 않음

추천 액션
- 각 프로젝트에 성과 지표를 한 문장씩 추가하세요
- 직접 설계하고 결정한 사례를 앞쪽에 배치하세요
`
