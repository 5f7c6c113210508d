package evaluation

import (
	"errors"
	"reflect"
	"testing"
)

func TestScale_Bijection(t *testing.T) {
	tests := []struct {
		name  string
		scale Scale
		size  int
	}{
		{"standard", ScaleStandard, 5},
		{"strict", ScaleStrict, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.scale.Labels) != tt.size {
				t.Fatalf("scale has %d labels, want %d", len(tt.scale.Labels), tt.size)
			}

			seen := make(map[int]string)
			for _, label := range tt.scale.Labels {
				score, ok := tt.scale.Score(label)
				if !ok {
					t.Fatalf("Score(%q) not found", label)
				}
				if score < 1 || score > tt.size {
					t.Errorf("Score(%q) = %d, want 1..%d", label, score, tt.size)
				}
				if prev, dup := seen[score]; dup {
					t.Errorf("score %d shared by %q and %q", score, prev, label)
				}
				seen[score] = label

				back, ok := tt.scale.Label(score)
				if !ok || back != label {
					t.Errorf("Label(%d) = %q, want %q", score, back, label)
				}
			}

			// 1 = fully independent, max = fully assisted.
			if s, _ := tt.scale.Score(tt.scale.Labels[0]); s != 1 {
				t.Errorf("first label scored %d, want 1", s)
			}
		})
	}
}

func TestScale_UnknownLabel(t *testing.T) {
	if _, ok := ScaleStrict.Score(Unrated); ok {
		t.Error("Unrated must not map to a score")
	}
	if _, ok := ScaleStrict.Score("스스로 함"); ok {
		t.Error("unknown label must not map to a score")
	}
	if _, ok := ScaleStrict.Label(0); ok {
		t.Error("Label(0) must fail")
	}
	if _, ok := ScaleStrict.Label(7); ok {
		t.Error("Label(7) must fail on the six-level scale")
	}
}

func TestSplitFocusItems(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			"drops blanks and trims",
			"책상 위 자료를 스스로 준비함\n\n  교사 질문에 단어로 답함  \n",
			[]string{"책상 위 자료를 스스로 준비함", "교사 질문에 단어로 답함"},
		},
		{"empty", "", nil},
		{"only whitespace", " \n\t\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitFocusItems(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitFocusItems() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMonthRecord_RatingDefaultsToUnrated(t *testing.T) {
	rec := MonthRecord{
		FocusItems: []string{"항목 하나", "항목 둘"},
		Ratings:    map[int]string{0: ScaleStrict.Labels[2]},
	}

	pairs := rec.FocusRatings()
	if pairs[0].Rating != ScaleStrict.Labels[2] {
		t.Errorf("item 0 rating = %q", pairs[0].Rating)
	}
	if pairs[1].Rating != Unrated {
		t.Errorf("item 1 rating = %q, want %q", pairs[1].Rating, Unrated)
	}
}

func TestStatusTemplate(t *testing.T) {
	for _, status := range []MonthStatus{ReducedHours, ShortenedForTreatment, IrregularAttendance} {
		tmpl, err := StatusTemplate(status)
		if err != nil {
			t.Errorf("StatusTemplate(%q) error = %v", status, err)
		}
		if tmpl == "" {
			t.Errorf("StatusTemplate(%q) is empty", status)
		}
	}

	if _, err := StatusTemplate(Normal); err == nil {
		t.Error("StatusTemplate(Normal) should error; normal months get generated narratives")
	}
}

func TestParseStatus(t *testing.T) {
	if _, err := ParseStatus("정상 수업"); err != nil {
		t.Errorf("ParseStatus(정상 수업) error = %v", err)
	}
	if _, err := ParseStatus("휴교"); err == nil {
		t.Error("ParseStatus(휴교) should error")
	}
}

func TestBook_SemesterData(t *testing.T) {
	b := NewBook()
	months := []string{"3월", "4월", "5월", "6월", "7월"}

	if _, err := b.SemesterData(months); !errors.Is(err, ErrNoData) {
		t.Fatalf("empty book: err = %v, want ErrNoData", err)
	}

	b.Put(MonthRecord{Month: "4월", Status: Normal, Narrative: "4월 평가 문구"})
	b.Put(MonthRecord{Month: "3월", Status: Normal, Narrative: "3월 평가 문구"})
	b.Put(MonthRecord{Month: "5월", Status: Normal}) // no narrative yet

	data, err := b.SemesterData(months)
	if err != nil {
		t.Fatalf("SemesterData() error = %v", err)
	}
	if len(data) != 2 {
		t.Fatalf("SemesterData() = %d entries, want 2", len(data))
	}
	// Chronological, not insertion, order.
	if data[0].Month != "3월" || data[1].Month != "4월" {
		t.Errorf("order = [%s %s], want [3월 4월]", data[0].Month, data[1].Month)
	}
}
