package diagnosis

import (
	"testing"

	"github.com/sped-on/iep-bot/internal/criteria"
)

func crit(id, domain string) criteria.Sourced {
	return criteria.Sourced{
		Criterion:  criteria.Criterion{Domain: domain, ID: id, Text: "내용 " + id},
		Curriculum: "기본교육과정",
		GradeBand:  "중학교 1-3학년군",
	}
}

func TestSheet_Views(t *testing.T) {
	s := NewSheet()
	s.Record(crit("A1", "읽기"), Met)
	s.Record(crit("A2", "읽기"), NotMet)
	s.Record(crit("A3", "쓰기"), NeedsObservation)
	s.Record(crit("A4", "쓰기"), Met)

	all := []string{"읽기", "쓰기"}

	if got := len(s.Achieved(all)); got != 2 {
		t.Errorf("Achieved = %d, want 2", got)
	}
	if got := len(s.Targets(all)); got != 2 {
		t.Errorf("Targets = %d, want 2", got)
	}
	obs := s.NeedsObservation(all)
	if len(obs) != 1 || obs[0].Criterion.ID != "A3" {
		t.Errorf("NeedsObservation = %v, want [A3]", obs)
	}
}

func TestSheet_DomainFilterLeavesJudgmentsIntact(t *testing.T) {
	s := NewSheet()
	s.Record(crit("A1", "읽기"), Met)
	s.Record(crit("A2", "쓰기"), Met)

	// Narrowing the domain set changes the view only.
	if got := len(s.Achieved([]string{"읽기"})); got != 1 {
		t.Errorf("Achieved(읽기) = %d, want 1", got)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (stored judgments untouched)", s.Len())
	}
	// Restoring the domain restores the view.
	if got := len(s.Achieved([]string{"읽기", "쓰기"})); got != 2 {
		t.Errorf("Achieved(both) = %d, want 2", got)
	}
}

func TestSheet_RecordOverwrites(t *testing.T) {
	s := NewSheet()
	c := crit("A1", "읽기")
	s.Record(c, Met)
	s.Record(c, NotMet)

	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	if got := len(s.Targets([]string{"읽기"})); got != 1 {
		t.Errorf("Targets = %d, want 1 after overwrite", got)
	}
}

func TestSheet_SameIDDifferentSourceDistinct(t *testing.T) {
	s := NewSheet()
	a := crit("A1", "읽기")
	b := a
	b.GradeBand = "초등학교 5-6학년군"

	s.Record(a, Met)
	s.Record(b, NotMet)

	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (distinct source labels)", s.Len())
	}
}

func TestParseJudgment(t *testing.T) {
	tests := []struct {
		in      string
		want    Judgment
		wantErr bool
	}{
		{"예", Met, false},
		{"아니오", NotMet, false},
		{"관찰 필요", NeedsObservation, false},
		{"maybe", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseJudgment(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseJudgment(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseJudgment(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
