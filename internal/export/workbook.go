package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/sped-on/iep-bot/internal/session"
)

const (
	sheetPlan    = "학기별 교육 계획"
	sheetRatings = "평가 기록"
)

// Workbook writes the companion spreadsheet: the semester plan matrix plus
// the per-month rating rows.
func Workbook(path string, sess *session.Session) error {
	if len(sess.Plan) == 0 {
		return &ValidationError{Message: msgNoPlan}
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetPlan); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	planHeader := []string{"월", "교육 목표", "교육 내용", "교육 방법", "평가 방법", "평가 초점"}
	if err := writeRow(f, sheetPlan, 1, planHeader); err != nil {
		return err
	}
	rowNum := 2
	for _, month := range sess.Months {
		entry, ok := sess.Plan[month]
		if !ok {
			continue
		}
		ep := sess.EvalPlans[month]
		row := []string{
			month,
			entry.Goal,
			entry.Content,
			strings.Join(finalMethods(entry), ", "),
			strings.Join(ep.Methods, ", "),
			strings.TrimSpace(ep.Focus),
		}
		if err := writeRow(f, sheetPlan, rowNum, row); err != nil {
			return err
		}
		rowNum++
	}

	if _, err := f.NewSheet(sheetRatings); err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}
	ratingHeader := []string{"월", "수업 형태", "평가 항목", "평가 결과"}
	if err := writeRow(f, sheetRatings, 1, ratingHeader); err != nil {
		return err
	}
	rowNum = 2
	for _, month := range sess.Months {
		rec, ok := sess.Evaluations.Months[month]
		if !ok {
			continue
		}
		if len(rec.FocusItems) == 0 {
			row := []string{month, string(rec.Status), "", ""}
			if err := writeRow(f, sheetRatings, rowNum, row); err != nil {
				return err
			}
			rowNum++
			continue
		}
		for _, fr := range rec.FocusRatings() {
			row := []string{month, string(rec.Status), fr.Item, fr.Rating}
			if err := writeRow(f, sheetRatings, rowNum, row); err != nil {
				return err
			}
			rowNum++
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	return nil
}
