package minutes

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sped-on/iep-bot/internal/ai"
)

func TestInfo_FinalMethods(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want []string
	}{
		{
			name: "plain methods pass through",
			info: Info{Methods: []string{"대면 회의", "전화 상담"}},
			want: []string{"대면 회의", "전화 상담"},
		},
		{
			name: "other replaced with entered text",
			info: Info{Methods: []string{"대면 회의", MethodOther}, OtherMethod: "화상 회의"},
			want: []string{"대면 회의", "화상 회의"},
		},
		{
			name: "other without text is dropped",
			info: Info{Methods: []string{MethodOther}},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.info.FinalMethods()
			if len(got) != len(tt.want) {
				t.Fatalf("FinalMethods = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("FinalMethods[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRecord_SetOpinion(t *testing.T) {
	r := NewRecord()
	if err := r.SetOpinion(SectionGuardian, "가정에서 읽기를 어려워합니다."); err != nil {
		t.Fatalf("SetOpinion: %v", err)
	}
	if got := r.Opinion(SectionGuardian); got != "가정에서 읽기를 어려워합니다." {
		t.Errorf("Opinion = %q", got)
	}
	if err := r.SetOpinion("없는 섹션", "x"); err == nil {
		t.Error("SetOpinion accepted an unknown section")
	}
}

func TestRecord_SectionTitle(t *testing.T) {
	r := NewRecord()
	if got := r.SectionTitle(SectionHomeroom); got != "담임교사 의견" {
		t.Errorf("SectionTitle = %q", got)
	}
	if got := r.SectionTitle(SectionOther); got != "기타 의견" {
		t.Errorf("SectionTitle without author = %q", got)
	}
	r.OtherAuthor = "치료지원사 박지원"
	if got := r.SectionTitle(SectionOther); got != "치료지원사 박지원 의견" {
		t.Errorf("SectionTitle with author = %q", got)
	}
}

func TestRecord_RefineOpinion(t *testing.T) {
	r := NewRecord()
	r.SetOpinion(SectionGuardian, "애가 집에서 책을 잘 안 봐요")

	mock := &ai.MockProvider{Response: "가정에서 독서 활동에 대한 관심이 낮은 편임."}
	if err := r.RefineOpinion(context.Background(), mock, SectionGuardian); err != nil {
		t.Fatalf("RefineOpinion: %v", err)
	}
	if got := r.Opinion(SectionGuardian); got != "가정에서 독서 활동에 대한 관심이 낮은 편임." {
		t.Errorf("refined opinion = %q", got)
	}
	if !strings.Contains(mock.LastPrompt, "애가 집에서 책을 잘 안 봐요") {
		t.Error("prompt does not carry the original text")
	}
}

func TestRecord_RefineOpinion_FailureKeepsText(t *testing.T) {
	r := NewRecord()
	r.SetOpinion(SectionHomeroom, "원래 의견")

	mock := &ai.MockProvider{Err: errors.New("quota exceeded")}
	if err := r.RefineOpinion(context.Background(), mock, SectionHomeroom); err == nil {
		t.Fatal("expected error from failing collaborator")
	}
	if got := r.Opinion(SectionHomeroom); got != "원래 의견" {
		t.Errorf("opinion after failure = %q, want original text kept", got)
	}
}

func TestRecord_RefineOpinion_EmptySectionNoCall(t *testing.T) {
	r := NewRecord()
	mock := &ai.MockProvider{Response: "무언가"}
	if err := r.RefineOpinion(context.Background(), mock, SectionGuardian); err == nil {
		t.Fatal("expected error for empty section")
	}
	if mock.CallCount() != 0 {
		t.Errorf("collaborator called %d times for empty section, want 0", mock.CallCount())
	}
}

func TestRecord_RefineResolution(t *testing.T) {
	r := NewRecord()
	r.Resolution = "주 2회 언어치료 지원하기로 함"

	mock := &ai.MockProvider{Response: "주 2회 언어치료 지원을 제공하기로 의결함."}
	if err := r.RefineResolution(context.Background(), mock); err != nil {
		t.Fatalf("RefineResolution: %v", err)
	}
	if r.Resolution != "주 2회 언어치료 지원을 제공하기로 의결함." {
		t.Errorf("resolution = %q", r.Resolution)
	}
}

func TestRecord_HasResolution(t *testing.T) {
	r := NewRecord()
	if r.HasResolution() {
		t.Error("HasResolution = true for empty record")
	}
	r.Resolution = "의결함"
	if !r.HasResolution() {
		t.Error("HasResolution = false after setting resolution")
	}
}
