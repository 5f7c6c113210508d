package export

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/sped-on/iep-bot/internal/evaluation"
	"github.com/sped-on/iep-bot/internal/minutes"
	"github.com/sped-on/iep-bot/internal/plan"
	"github.com/sped-on/iep-bot/internal/session"
)

func completeSession() *session.Session {
	sess := session.New("서울특수학교", "김민수")
	sess.Selection = session.Selection{
		Curriculums: []string{"기본교육과정"},
		Subject:     "국어",
		GradeBands:  []string{"중학교 1-3학년군"},
	}
	sess.Student = session.StudentInfo{Name: "이학생", ClassInfo: "2학년 3반"}
	sess.SummaryText = "문장 읽기가 가능한 수준임."
	sess.GoalsText = "[3월 목표]\n소리 내어 읽을 수 있다."
	sess.ContentsText = "### 3월 주요 학습 활동\n- 문장 읽기"
	sess.Semester = "1학기"
	sess.Months = []string{"3월", "4월"}
	sess.Plan = map[string]plan.Entry{
		"3월": {
			Month:       "3월",
			Goal:        "소리 내어 읽을 수 있다.",
			Content:     "- 문장 읽기",
			Methods:     []string{"직접 교수법", plan.MethodOther},
			OtherMethod: "그림 카드 활용",
		},
	}
	sess.EvalPlans["3월"] = session.EvalPlan{
		Methods: []string{"관찰누가기록"},
		Focus:   "- 스스로 읽는가?",
	}
	sess.Evaluations.Put(evaluation.MonthRecord{
		Month:      "3월",
		Status:     evaluation.Normal,
		Goal:       "소리 내어 읽을 수 있다.",
		Content:    "- 문장 읽기",
		FocusItems: []string{"스스로 읽는가?"},
		Ratings:    map[int]string{0: evaluation.ScaleStandard.Labels[1]},
		Narrative:  "약간의 구어 촉진으로 문장을 읽을 수 있음.",
	})
	sess.Evaluations.Semester["1학기"] = "전반적으로 읽기 능력이 향상됨."
	return sess
}

func completeMinutes() *minutes.Record {
	rec := minutes.NewRecord()
	rec.Info = minutes.Info{
		Date:      "2026-03-02",
		Time:      "14:00~15:00",
		Location:  "특수교육지원실",
		Methods:   []string{"대면 회의"},
		Attendees: "홍길동(담임), 김철수(특수교사), 이영희(보호자)",
	}
	rec.SetOpinion(minutes.SectionGuardian, "가정에서 읽기 지도를 원함.")
	rec.Resolution = "주 2회 읽기 보충 지도를 실시하기로 의결함."
	return rec
}

func TestMinutes_RequiresResolution(t *testing.T) {
	rec := completeMinutes()
	rec.Resolution = ""

	path := filepath.Join(t.TempDir(), "minutes.docx")
	err := Minutes(path, rec)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if verr.Message != "의결 사항을 먼저 작성해주세요." {
		t.Errorf("message = %q", verr.Message)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("a partial document was written despite the validation error")
	}
}

func TestMinutes_WritesDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minutes.docx")
	if err := Minutes(path, completeMinutes()); err != nil {
		t.Fatalf("Minutes: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("document not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("document is empty")
	}
}

func TestIEP_ValidationOrder(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*session.Session)
		wantMsg string
	}{
		{
			name:    "missing student name",
			mutate:  func(s *session.Session) { s.Student.Name = "" },
			wantMsg: "학생 이름을 먼저 입력해주세요.",
		},
		{
			name:    "missing class info",
			mutate:  func(s *session.Session) { s.Student.ClassInfo = "" },
			wantMsg: "학년/반을 먼저 입력해주세요.",
		},
		{
			name:    "missing summary",
			mutate:  func(s *session.Session) { s.SummaryText = "" },
			wantMsg: "현행수준 작성 단계에서 내용을 생성하고 확인해주세요.",
		},
		{
			name:    "missing goals",
			mutate:  func(s *session.Session) { s.GoalsText = "" },
			wantMsg: "교육목표 수립 단계에서 내용을 생성하고 확인해주세요.",
		},
		{
			name:    "missing plan",
			mutate:  func(s *session.Session) { s.Plan = nil },
			wantMsg: "교육 방법 선택 단계에서 내용을 확인하고 저장해주세요.",
		},
		{
			name:    "missing evaluation plan",
			mutate:  func(s *session.Session) { s.EvalPlans = map[string]session.EvalPlan{} },
			wantMsg: "평가계획 수립 단계에서 내용을 생성하고 확인해주세요.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := completeSession()
			tt.mutate(sess)

			path := filepath.Join(t.TempDir(), "iep.docx")
			err := IEP(path, sess)

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if verr.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", verr.Message, tt.wantMsg)
			}
			if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
				t.Error("a partial document was written despite the validation error")
			}
		})
	}
}

func TestIEP_WritesDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "iep.docx")
	if err := IEP(path, completeSession()); err != nil {
		t.Fatalf("IEP: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("document not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("document is empty")
	}
}

func TestEvaluationReport_RequiresEvaluatedMonth(t *testing.T) {
	sess := completeSession()
	sess.Evaluations = evaluationBookWithoutNarratives()

	path := filepath.Join(t.TempDir(), "report.docx")
	err := EvaluationReport(path, sess)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func evaluationBookWithoutNarratives() *evaluation.Book {
	b := evaluation.NewBook()
	b.Put(evaluation.MonthRecord{Month: "3월", Status: evaluation.Normal})
	return b
}

func TestEvaluationReport_WritesDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.docx")
	if err := EvaluationReport(path, completeSession()); err != nil {
		t.Fatalf("EvaluationReport: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Fatalf("document missing or empty: %v", err)
	}
}

func TestWorkbook_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.xlsx")
	if err := Workbook(path, completeSession()); err != nil {
		t.Fatalf("Workbook: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue(sheetPlan, "A2")
	if err != nil {
		t.Fatal(err)
	}
	if got != "3월" {
		t.Errorf("plan A2 = %q, want 3월", got)
	}

	// The free-text method replaces its placeholder in the joined list.
	methods, err := f.GetCellValue(sheetPlan, "D2")
	if err != nil {
		t.Fatal(err)
	}
	if methods != "직접 교수법, 그림 카드 활용" {
		t.Errorf("methods cell = %q", methods)
	}

	rating, err := f.GetCellValue(sheetRatings, "D2")
	if err != nil {
		t.Fatal(err)
	}
	if rating != evaluation.ScaleStandard.Labels[1] {
		t.Errorf("rating cell = %q", rating)
	}
}

func TestWorkbook_RequiresPlan(t *testing.T) {
	sess := completeSession()
	sess.Plan = nil

	err := Workbook(filepath.Join(t.TempDir(), "plan.xlsx"), sess)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}
