// Package plan derives the structured per-month education plan from the
// generated goal and activity texts.
//
// The generated texts carry a small marker grammar the prompts ask the
// collaborator to follow: goal segments open with "[<월> 목표]" and activity
// segments with "### <월> 주요 학습 활동". The extractor is the only place
// that grammar is known; callers work with Entry values.
package plan

import (
	"crypto/sha256"
	"fmt"
	"regexp"
	"strings"
)

// Entry is the per-month unit of the education plan.
type Entry struct {
	Month       string   `json:"month"`
	Goal        string   `json:"goal"`
	Content     string   `json:"content"`
	Methods     []string `json:"methods"`
	OtherMethod string   `json:"other_method"`
}

// Sentinels substituted when a month's marker is absent from the generated
// text. They name the step to redo instead of failing the derivation.
const (
	GoalMissing    = "추출 실패: 교육목표 생성 단계의 출력을 확인해주세요."
	ContentMissing = "추출 실패: 교육내용 생성 단계의 출력을 확인해주세요."
)

// CitationMarker starts the supporting-criteria citation appended to a goal
// segment; everything from the marker on is dropped from the goal field.
const CitationMarker = "근거 성취기준:"

// MethodOther is the teaching-method option that carries free text.
const MethodOther = "기타 (직접 작성)"

// MethodOptions is the fixed teaching-method list offered per month.
var MethodOptions = []string{
	"직접 교수법",
	"개념 학습법",
	"모델링 (시범)",
	"점진적 지원 감소",
	"협동학습 / 또래 교수",
	MethodOther,
}

// MonthsBySemester maps a semester to its fixed, chronological month list.
var MonthsBySemester = map[string][]string{
	"1학기": {"3월", "4월", "5월", "6월", "7월"},
	"2학기": {"8월", "9월", "10월", "11월", "12월"},
}

// Months returns the month list for a semester.
func Months(semester string) ([]string, error) {
	months, ok := MonthsBySemester[semester]
	if !ok {
		return nil, fmt.Errorf("unknown semester %q", semester)
	}
	return months, nil
}

var (
	goalMarker    = regexp.MustCompile(`\[(\d{1,2}월) 목표\]`)
	contentMarker = regexp.MustCompile(`### (\d{1,2}월) 주요 학습 활동`)
)

// Extract produces one Entry per month in months, in no particular map
// order. Goal and activity segments are matched by exact month label; a month
// without a marker gets the sentinel for that field. Method selections are
// carried over from previous; months absent from months are dropped even if
// previously present. The operation is pure and idempotent.
func Extract(goalsText, contentsText string, months []string, previous map[string]Entry) map[string]Entry {
	goals := segment(goalsText, goalMarker)
	contents := segment(contentsText, contentMarker)

	out := make(map[string]Entry, len(months))
	for _, month := range months {
		entry := Entry{
			Month:   month,
			Goal:    GoalMissing,
			Content: ContentMissing,
		}

		if g, ok := goals[month]; ok {
			if i := strings.Index(g, CitationMarker); i >= 0 {
				g = g[:i]
			}
			entry.Goal = strings.TrimSpace(g)
		}
		if c, ok := contents[month]; ok {
			entry.Content = strings.TrimSpace(c)
		}

		if prev, ok := previous[month]; ok {
			entry.Methods = prev.Methods
			entry.OtherMethod = prev.OtherMethod
		}

		out[month] = entry
	}
	return out
}

// segment splits text on the marker pattern and returns segment text keyed by
// the captured month label. Later occurrences of a month overwrite earlier
// ones.
func segment(text string, marker *regexp.Regexp) map[string]string {
	matches := marker.FindAllStringSubmatchIndex(text, -1)
	out := make(map[string]string, len(matches))
	for i, m := range matches {
		month := text[m[2]:m[3]]
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		out[month] = strings.TrimSpace(text[m[1]:end])
	}
	return out
}

// InputHash fingerprints the extractor's declared inputs. The derive
// operation recomputes the plan only when this hash changes.
func InputHash(goalsText, contentsText string, months []string) string {
	h := sha256.New()
	h.Write([]byte(goalsText))
	h.Write([]byte{0})
	h.Write([]byte(contentsText))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(months, "\x1f")))
	return fmt.Sprintf("%x", h.Sum(nil))
}
