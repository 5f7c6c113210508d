// Package prompt builds the collaborator prompts for every generation task.
// The templates mirror the wording the document flows rely on: the output
// format rules here define the marker grammar internal/plan extracts.
package prompt

import (
	"fmt"
	"strings"

	"github.com/sped-on/iep-bot/internal/diagnosis"
	"github.com/sped-on/iep-bot/internal/evaluation"
)

// Summary asks for a single-paragraph current-level summary from the
// achieved criteria.
func Summary(subject string, achieved []diagnosis.Entry) string {
	var lines strings.Builder
	for _, e := range achieved {
		fmt.Fprintf(&lines, "- (%s 영역) %s\n", e.Criterion.Domain, e.Criterion.Text)
	}

	return fmt.Sprintf(`당신은 특수교사를 돕는 IEP 작성 전문가입니다. 다음은 특수교육 대상학생의 %s 교과 성취기준 평가 결과 중 '예'로 체크된 항목입니다.
이를 바탕으로 학생의 강점을 보여주는 '현행학습수준'을 하나의 자연스러운 종합 문단으로 작성해 주세요.

[학생이 성취한 기준 목록]
%s
[출력 규칙]
- 각 영역(예: 읽기, 쓰기)의 강점들을 자연스럽게 연결하여 하나의 완성된 글로 작성하세요.
- 절대로 영역별로 목록을 나누거나 글머리 기호('-', '*')를 사용하지 마세요.
- 학생의 강점을 나타내는 긍정적인 어조를 사용하세요.
- '~을 할 수 있으며, ~하는 능력을 보임.'과 같이 완전한 문장 형태로 자연스럽게 서술하세요.`,
		subject, lines.String())
}

// Goals asks for a semester goal plus one bracket-marked goal per month. The
// output format rules here are what plan.Extract parses.
func Goals(subject, semester string, months []string, targets []diagnosis.Entry) string {
	var criteriaLines strings.Builder
	for _, e := range targets {
		fmt.Fprintf(&criteriaLines, "- %s %s\n", e.Criterion.ID, e.Criterion.Text)
	}
	monthList := strings.Join(months, ", ")

	return fmt.Sprintf(`당신은 IEP 교육목표를 작성하는 특수교육 전문가입니다.

[분석 자료]
- 교과: %s, 대상 학기: %s, 목표 수립 월: %s
- 미도달 성취기준:
%s
[과업 지시]
1. 학기 목표 생성: 미도달 성취기준 전체를 아우르는 %s 학기 목표를 생성합니다.
2. 월별 목표 생성: %s 각각에 해당하는 월별 목표를 구체적으로 생성합니다. 이때, 목표는 학생이 달성해야 할 '성취 상태'를 나타내도록 '~할 수 있다', '~한다' 와 같이 측정 가능한 학생 중심의 결과로 서술해 주세요.

[출력 형식 규칙]
- 제목은 '[%s 학기 목표]', '[3월 목표]'와 같이 대괄호로 묶어서 표시해주세요.
- 절대로 '#', '*'와 같은 다른 특수기호는 사용하지 마세요.
- 각 월별 목표 다음 줄에는 '근거 성취기준:' 이라는 문구와 함께 관련 ID를 명시합니다.

[출력 예시]
[1학기 학기 목표]
일상생활 속 다양한 상황과 자료를 활용하여 자신의 생각과 느낌을 적절하게 표현하고, 타인과 바르고 고운 언어로 소통하며 즐겁게 국어 활동에 참여할 수 있다.

[3월 목표]
자신의 외모, 감정, 행동을 나타내는 간단한 단어와 짧은 문장을 사용하여 자신을 소개할 수 있다.
근거 성취기준: 6국어01-02, 6국어02-03`,
		subject, semester, monthList, criteriaLines.String(), semester, monthList, semester)
}

// Contents asks for three student-centered learning activities per month,
// sectioned with the "### <월> 주요 학습 활동" markers plan.Extract parses.
func Contents(goalsText string, targets []diagnosis.Entry) string {
	var criteriaLines strings.Builder
	for _, e := range targets {
		explanation := e.Criterion.Explanation
		if explanation == "" {
			explanation = "없음"
		}
		fmt.Fprintf(&criteriaLines, "- %s %s\n  (해설: %s)\n", e.Criterion.ID, e.Criterion.Text, explanation)
	}

	return fmt.Sprintf(`당신은 학생 중심의 학습 활동을 설계하는 교육 전문가입니다. 아래 교육 목표를 달성하기 위해 학생이 직접 수행할 '주요 학습 활동' 목록을 생성해야 합니다.

[참고 자료]
1. 수립된 교육 목표:
%s

2. 관련 성취기준 및 해설:
%s
[과업 지시]
- 각 월별 목표를 달성하기 위한 학생 중심의 주요 학습 활동을 3가지씩 제안합니다.
- 교사의 지도 내용이 아닌, 학생의 입장에서 수행하는 과제를 서술합니다.
- 모든 활동 설명은 '~하기'와 같은 명사형으로 끝나야 합니다.

[출력 형식 규칙]
- 각 월별 주요 학습 활동 섹션의 제목은 '### 3월 주요 학습 활동'과 같은 형식이어야 합니다.
- 각 활동은 '**활동명:** 활동 설명' 형식으로 작성합니다.
- 절대로 문장 앞에 '*', '-', '#' 와 같은 특수 기호를 사용하지 마세요.
- 각 활동은 반드시 줄을 바꿔서 작성합니다.`,
		goalsText, criteriaLines.String())
}

// ObservationQuestions asks for one objective diagnostic question per
// needs-observation criterion.
func ObservationQuestions(items []diagnosis.Entry) string {
	var lines strings.Builder
	for _, e := range items {
		fmt.Fprintf(&lines, "- %s\n", e.Criterion.Text)
	}

	return fmt.Sprintf(`당신은 국가수준 학업성취도평가 문항을 출제하는 교육평가 전문가입니다.
다음은 교사가 관찰만으로는 학생의 성취 여부를 판단하기 어려운 '관찰 필요' 항목들입니다.
각 성취기준의 핵심 개념을 정확히 파악했는지 확인할 수 있는 객관적인 평가 문항(선다형 또는 단답형)을 각 항목당 1개씩 만들어주세요.

[성취기준 목록]
%s`, lines.String())
}

// PlanEvalFocus asks for 3-4 evaluation-focus points matched to the chosen
// evaluation methods (planning flow).
func PlanEvalFocus(goal, content string, methods []string) string {
	methodsText := strings.Join(methods, ", ")

	return fmt.Sprintf(`당신은 개별화교육계획(IEP) 전문가입니다.
아래는 학생의 월별 교육 목표와 내용이며, 이를 평가하기 위한 방법으로 '%s'가 선택되었습니다.

- 월별 교육 목표: %s
- 주요 교육 내용: %s
- 선택된 평가 방법: %s

[과업 지시]
선택된 평가 방법에 가장 적합한 '평가 초점'을 구체적인 질문 또는 확인 항목의 형태로 3~4가지 제안해 주세요.

[출력 규칙]
- 마크다운 리스트('- ') 형식으로 평가 초점만 간결하게 작성하세요.
- 각 항목은 학생의 성취 여부를 명확히 확인할 수 있는 내용이어야 합니다.`,
		methodsText, goal, content, methodsText)
}

// BehaviorEvalFocus asks for five behavior-centered focus items that can be
// matched against the assistance scale (evaluation flow).
func BehaviorEvalFocus(goal, content string) string {
	return fmt.Sprintf(`당신은 특수교육 IEP 전문가임.
교육 목표: %s / 교육 내용: %s를 바탕으로 성취 수준을 관찰할 수 있는 '평가 초점' 5가지를 생성함.

[절대 규칙 - 반드시 준수할 것]
1. '20%% 이상인가?', '3회 성공하는가?'와 같은 수치적 기준이나 성공 빈도는 절대 포함하지 마십시오.
   도움의 수준(척도)과 매칭될 수 있도록 '특정 동작이나 기술의 수행 행위' 자체를 서술하십시오.
   (예: '슛 성공률이 20%%인가?' -> '골 밑에서 골대를 향해 슛을 던지는 동작을 수행함')
2. 항목만 바로 출력하십시오. "다음은 ~입니다"와 같은 서론, 인사말, 부연 설명은 절대 포함하지 마십시오.
3. 모든 문장은 반드시 '~함' 또는 '~임'으로 끝나는 명사형 종결 어미를 사용하십시오.
4. 각 항목을 줄바꿈으로 구분하여 리스트 형태로 출력하십시오.`,
		goal, content)
}

// MonthlyNarrative asks for a woven observation narrative from the rated
// focus items of one month.
func MonthlyNarrative(goal string, pairs []evaluation.FocusRating) string {
	var data strings.Builder
	for _, p := range pairs {
		fmt.Fprintf(&data, "- 평가 초점: %s / 성취 수준: %s\n", p.Item, p.Rating)
	}

	return fmt.Sprintf(`당신은 특수교육 전문가임. 제공된 자료로 학생 성취도를 전문적인 관찰 언어로 서술함.
[작성 규칙]
1. '초점+척도'를 단순히 합친 문장을 나열하지 마십시오.
2. 비슷한 수행 수준을 보인 항목들을 유기적으로 묶어서 하나의 문단으로 구성하십시오.
3. 강점과 보완점을 대조하는 연결어를 사용하여 문장의 흐름을 자연스럽게 만드십시오.
4. 모든 문장은 반드시 '~함', '~임', '~하였음'과 같은 명사형 종결 어미를 사용하십시오.

목표: %s
관찰 데이터:
%s`, goal, data.String())
}

// SemesterRollup asks for a four-section summary across the stored monthly
// narratives.
func SemesterRollup(data []evaluation.MonthNarrative) string {
	var body strings.Builder
	for _, d := range data {
		fmt.Fprintf(&body, "[%s 평가 내용]\n%s\n\n", d.Month, d.Narrative)
	}

	return fmt.Sprintf(`당신은 특수교육 전문가임. 제공된 학생의 월별 평가 내용을 분석하여 학기 전반의 성취를 종합 기술함.
월별 내용을 각각 나열하지 말고, 전체 내용을 관통하는 공통적인 특성을 파악하여 아래의 4가지 항목으로 요약하여 작성하십시오.

[작성 규칙]
1. 모든 문장은 반드시 '~하였음.', '~할 수 있음.', '~가능함.', '~임.'과 같은 명사형 종결 어미로 작성함.
2. 구조:
   - 강점 및 독립 수행 수준: 한 학기 동안 학생이 스스로 수행 가능한 기술 및 두드러진 강점 요약.
   - 교사 지원을 통한 성취: 시범이나 다양한 촉구(도움)를 통해 성공적으로 완수한 부분 요약.
   - 보완점 및 향후 지도 방향: 여전히 어려움을 느끼는 부분과 이를 개선하기 위한 구체적인 지원 전략.
   - 최종 종합 의견: 학생의 한 학기 전체 성취를 아우르는 전문적인 총평 한 문장.

데이터:
%s`, body.String())
}

// MinutesOpinion refines a rough opinion summary into 개조식 minutes language.
func MinutesOpinion(text string) string {
	return fmt.Sprintf(`당신은 회의록 작성 전문가입니다. 아래에 제시된 의견 요지를 전문가의 어조로 다듬어 주세요.
내용을 간결하고 명확하게 정리하여 개조식 형태로 작성하고, 불필요한 내용은 제거해 주세요.

[회의 내용 요지]
%s

[출력 규칙]
- 마크다운 리스트('- ') 형식을 사용하여 각 항목을 정리하세요.
- 각 항목의 문장은 '~이 필요함'으로 마무리하세요.
- 오직 보완된 최종 문장만 출력하세요.`, text)
}

// MinutesResolution refines decided items into definitive resolution wording.
func MinutesResolution(text string) string {
	return fmt.Sprintf(`당신은 개별화교육지원팀 회의록의 의결 사항을 전문가의 관점에서 명확하게 작성하는 역할을 합니다.
아래에 제시된 내용 요지를 바탕으로, 결정된 사항을 확정적으로 표현하는 개조식 문장으로 정리해 주세요.

[의결 사항 요지]
%s

[출력 규칙]
- 마크다운 리스트('- ') 형식으로 각 항목을 정리하세요.
- 문장은 '~하기로 의결함', '~을 지원함'과 같이 확정적으로 마무리하세요.
- 오직 보완된 최종 문장만 출력하세요.`, text)
}
