// Package export renders the three Word documents (meeting minutes, the
// IEP itself, the evaluation report) and the companion spreadsheet. Every
// document is validated before a single line is written: the first missing
// artifact aborts the export with a message naming the step to finish, and
// no partial file is produced.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/sped-on/iep-bot/internal/minutes"
	"github.com/sped-on/iep-bot/internal/plan"
	"github.com/sped-on/iep-bot/internal/session"
)

// ValidationError reports a missing required artifact. Its message names
// the step the teacher has to complete first.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Required-artifact messages, one per incomplete step.
const (
	msgNoResolution  = "의결 사항을 먼저 작성해주세요."
	msgNoStudentName = "학생 이름을 먼저 입력해주세요."
	msgNoClassInfo   = "학년/반을 먼저 입력해주세요."
	msgNoSummary     = "현행수준 작성 단계에서 내용을 생성하고 확인해주세요."
	msgNoGoals       = "교육목표 수립 단계에서 내용을 생성하고 확인해주세요."
	msgNoContents    = "교육내용 생성 단계에서 내용을 생성하고 확인해주세요."
	msgNoPlan        = "교육 방법 선택 단계에서 내용을 확인하고 저장해주세요."
	msgNoEvalPlan    = "평가계획 수립 단계에서 내용을 생성하고 확인해주세요."
	msgNoEvaluations = "먼저 최소 한 달 이상의 평가를 생성해주세요."
)

// Minutes writes the meeting-minutes document. The resolution section is
// mandatory; opinion sections appear only when filled in.
func Minutes(path string, rec *minutes.Record) error {
	if !rec.HasResolution() {
		return &ValidationError{Message: msgNoResolution}
	}

	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	if _, err := doc.AddHeading("개별화교육지원팀 협의회 회의록", 0); err != nil {
		return fmt.Errorf("add title: %w", err)
	}

	addBoldParagraph(doc, "1. 협의회 기본 정보")

	info := rec.Info
	table := doc.AddTable()
	addInfoRow(table, "일시", strings.TrimSpace(info.Date+" "+info.Time))
	addInfoRow(table, "장소", info.Location)
	addInfoRow(table, "방식", strings.Join(info.FinalMethods(), ", "))
	addInfoRow(table, "참석자", info.Attendees)

	doc.AddParagraph("")
	addBoldParagraph(doc, "2. 회의 내용")
	for _, section := range minutes.OpinionSections {
		text := rec.Opinion(section)
		if text == "" {
			continue
		}
		p := doc.AddParagraph("")
		p.AddText("- " + rec.SectionTitle(section) + ":").Bold(true)
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				doc.AddParagraph("• " + line)
			}
		}
	}

	doc.AddParagraph("")
	addBoldParagraph(doc, "3. 의결 사항")
	doc.AddParagraph(rec.Resolution)

	if err := doc.SaveTo(path); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

// IEP writes the final IEP document: personal info, current learning
// level, and the five-column semester plan table.
func IEP(path string, sess *session.Session) error {
	if err := validateIEP(sess); err != nil {
		return err
	}

	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	if _, err := doc.AddHeading("개별화교육계획(IEP)", 0); err != nil {
		return fmt.Errorf("add title: %w", err)
	}

	if _, err := doc.AddHeading("1. 인적사항", 1); err != nil {
		return fmt.Errorf("add heading: %w", err)
	}
	infoTable := doc.AddTable()
	row := infoTable.AddRow()
	addBoldCell(row, "학생명")
	row.AddCell().AddParagraph(sess.Student.Name)
	addBoldCell(row, "학년/반")
	row.AddCell().AddParagraph(sess.Student.ClassInfo)
	row = infoTable.AddRow()
	addBoldCell(row, "교과")
	row.AddCell().AddParagraph(sess.Selection.Subject)

	if _, err := doc.AddHeading("2. 현행학습수준", 1); err != nil {
		return fmt.Errorf("add heading: %w", err)
	}
	doc.AddParagraph(sess.SummaryText)

	if _, err := doc.AddHeading("3. 학기별 교육 계획", 1); err != nil {
		return fmt.Errorf("add heading: %w", err)
	}
	planTable := doc.AddTable()
	header := planTable.AddRow()
	for _, h := range []string{"교과(영역)", "교육 목표", "교육 내용", "교육 방법", "평가 계획"} {
		addBoldCell(header, h)
	}
	for _, month := range sess.Months {
		entry, ok := sess.Plan[month]
		if !ok {
			continue
		}
		r := planTable.AddRow()
		r.AddCell().AddParagraph(fmt.Sprintf("%s (%s)", sess.Selection.Subject, month))
		r.AddCell().AddParagraph(entry.Goal)
		r.AddCell().AddParagraph(entry.Content)
		r.AddCell().AddParagraph(strings.Join(finalMethods(entry), ", "))
		r.AddCell().AddParagraph(evalPlanText(sess.EvalPlans[month]))
	}

	if err := doc.SaveTo(path); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

// EvaluationReport writes the evaluation result report: one section per
// evaluated month plus the semester summary when present.
func EvaluationReport(path string, sess *session.Session) error {
	evaluated := evaluatedMonths(sess)
	if len(evaluated) == 0 {
		return &ValidationError{Message: msgNoEvaluations}
	}

	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	if _, err := doc.AddHeading("개별화교육평가 결과 보고서", 0); err != nil {
		return fmt.Errorf("add title: %w", err)
	}
	doc.AddParagraph("작성일: " + time.Now().Format("2006년 01월 02일"))

	for _, month := range evaluated {
		rec := sess.Evaluations.Months[month]
		if _, err := doc.AddHeading(month+" 평가", 2); err != nil {
			return fmt.Errorf("add heading: %w", err)
		}
		doc.AddParagraph("▪︎ 교육 목표: " + rec.Goal)
		doc.AddParagraph("▪︎ 주요 교육 내용:\n" + rec.Content)
		doc.AddParagraph("▪︎ 종합 평가 결과:\n" + rec.Narrative)
	}

	if summary := sess.Evaluations.Semester[sess.Semester]; summary != "" {
		if _, err := doc.AddHeading(sess.Semester+" 종합 요약 평가", 1); err != nil {
			return fmt.Errorf("add heading: %w", err)
		}
		doc.AddParagraph(summary)
	}

	if err := doc.SaveTo(path); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func validateIEP(sess *session.Session) error {
	checks := []struct {
		ok  bool
		msg string
	}{
		{sess.Student.Name != "", msgNoStudentName},
		{sess.Student.ClassInfo != "", msgNoClassInfo},
		{sess.SummaryText != "", msgNoSummary},
		{sess.GoalsText != "", msgNoGoals},
		{sess.ContentsText != "", msgNoContents},
		{len(sess.Plan) > 0, msgNoPlan},
		{len(sess.EvalPlans) > 0, msgNoEvalPlan},
	}
	for _, c := range checks {
		if !c.ok {
			return &ValidationError{Message: c.msg}
		}
	}
	return nil
}

// evaluatedMonths returns, in month order, the months with a stored
// narrative.
func evaluatedMonths(sess *session.Session) []string {
	var out []string
	for _, month := range sess.Months {
		if rec, ok := sess.Evaluations.Months[month]; ok && rec.Narrative != "" {
			out = append(out, month)
		}
	}
	return out
}

// finalMethods renders a plan entry's method list with the free-text
// choice replaced by its entered text.
func finalMethods(entry plan.Entry) []string {
	out := make([]string, 0, len(entry.Methods))
	for _, m := range entry.Methods {
		if m == plan.MethodOther {
			if entry.OtherMethod != "" {
				out = append(out, entry.OtherMethod)
			}
			continue
		}
		out = append(out, m)
	}
	return out
}

func evalPlanText(ep session.EvalPlan) string {
	return fmt.Sprintf("▪︎ 평가 방법: %s\n▪︎ 평가 초점:\n%s",
		strings.Join(ep.Methods, ", "), strings.TrimSpace(ep.Focus))
}

func addBoldParagraph(doc *docx.RootDoc, text string) {
	p := doc.AddParagraph("")
	p.AddText(text).Bold(true)
}

func addInfoRow(table *docx.Table, label, value string) {
	row := table.AddRow()
	addBoldCell(row, label)
	row.AddCell().AddParagraph(value)
}

func addBoldCell(row *docx.Row, text string) {
	p := row.AddCell().AddParagraph("")
	p.AddText(text).Bold(true)
}
