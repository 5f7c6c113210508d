// Package evaluation accumulates per-month evaluation records and the
// semester rollup for the evaluation report.
package evaluation

import (
	"errors"
	"fmt"
	"strings"
)

// MonthStatus describes how a month's classes actually ran.
type MonthStatus string

const (
	Normal                MonthStatus = "정상 수업"
	ReducedHours          MonthStatus = "외부 행사 등으로 인한 수업 시수 부족"
	ShortenedForTreatment MonthStatus = "치료 목적의 단축 수업(조퇴)"
	IrregularAttendance   MonthStatus = "잦은 지각 및 결석으로 인한 수업 미참여"
)

// ParseStatus maps a form value to a MonthStatus.
func ParseStatus(s string) (MonthStatus, error) {
	switch MonthStatus(s) {
	case Normal, ReducedHours, ShortenedForTreatment, IrregularAttendance:
		return MonthStatus(s), nil
	}
	return "", fmt.Errorf("unknown month status %q", s)
}

// statusTemplates holds the fixed narrative assigned to each special status.
// A Normal month gets a generated narrative instead.
var statusTemplates = map[MonthStatus]string{
	ReducedHours:          "잦은 외부 활동 참여에 따른 수업 시수 부족으로 개별화교육계획에 수립된 내용을 계획대로 실시하지 못하였으며, 미진한 부분은 차기 교육과정에 반영하여 지속 지도하고자 함.",
	ShortenedForTreatment: "건강 회복 및 외부 치료 지원을 위한 오전 단축 수업(등교 후 즉시 조퇴)이 지속됨에 따라, 실질적인 수업 참여 및 성취도 평가 근거가 미비함.",
	IrregularAttendance:   "잦은 출결 변동(지각·결석)으로 인해 실질적인 수업 참여가 불규칙하여, 목표 달성 여부를 확인하기 위한 객관적인 평가 자료가 미비함.",
}

// StatusTemplate returns the fixed narrative for a special status.
func StatusTemplate(status MonthStatus) (string, error) {
	tmpl, ok := statusTemplates[status]
	if !ok {
		return "", fmt.Errorf("no fixed narrative for status %q", status)
	}
	return tmpl, nil
}

// MonthRecord is one month's evaluation state.
type MonthRecord struct {
	Month      string         `json:"month"`
	Status     MonthStatus    `json:"status"`
	Goal       string         `json:"goal"`
	Content    string         `json:"content"`
	FocusItems []string       `json:"focus_items"`
	Ratings    map[int]string `json:"ratings"` // focus item index -> rating label
	Narrative  string         `json:"narrative"`
}

// SplitFocusItems derives ratable focus items from a free-text block: one
// item per non-blank line, trimmed.
func SplitFocusItems(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			items = append(items, line)
		}
	}
	return items
}

// RatingFor returns the rating label for focus item i, or Unrated.
func (r MonthRecord) RatingFor(i int) string {
	if label, ok := r.Ratings[i]; ok && label != "" {
		return label
	}
	return Unrated
}

// FocusRatings pairs each focus item with its rating label, in item order.
func (r MonthRecord) FocusRatings() []FocusRating {
	out := make([]FocusRating, 0, len(r.FocusItems))
	for i, item := range r.FocusItems {
		out = append(out, FocusRating{Item: item, Rating: r.RatingFor(i)})
	}
	return out
}

// FocusRating is one observed focus item with its assistance-level rating.
type FocusRating struct {
	Item   string `json:"item"`
	Rating string `json:"rating"`
}

// Book collects the evaluation state for one student: per-month records plus
// per-semester rollup narratives.
type Book struct {
	Months   map[string]MonthRecord `json:"months"`
	Semester map[string]string      `json:"semester"`
}

// NewBook creates an empty evaluation book.
func NewBook() *Book {
	return &Book{
		Months:   make(map[string]MonthRecord),
		Semester: make(map[string]string),
	}
}

// Put stores (or replaces) a month's record.
func (b *Book) Put(rec MonthRecord) {
	b.Months[rec.Month] = rec
}

// ErrNoData is returned when a semester rollup is requested with no stored
// monthly narratives to summarize.
var ErrNoData = errors.New("no monthly evaluations to summarize")

// MonthNarrative is a month paired with its stored narrative.
type MonthNarrative struct {
	Month     string
	Narrative string
}

// SemesterData returns, in chronological month order, the narratives stored
// for the given months. ErrNoData if none exist; the caller must not issue a
// generation call in that case.
func (b *Book) SemesterData(months []string) ([]MonthNarrative, error) {
	var out []MonthNarrative
	for _, m := range months {
		rec, ok := b.Months[m]
		if !ok || rec.Narrative == "" {
			continue
		}
		out = append(out, MonthNarrative{Month: m, Narrative: rec.Narrative})
	}
	if len(out) == 0 {
		return nil, ErrNoData
	}
	return out, nil
}
