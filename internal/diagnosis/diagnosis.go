// Package diagnosis tracks per-criterion judgments and derives the filtered
// views the planning steps consume.
package diagnosis

import (
	"fmt"
	"sort"

	"github.com/sped-on/iep-bot/internal/criteria"
)

// Judgment is the tri-state result of diagnosing one achievement criterion.
type Judgment string

const (
	Met              Judgment = "예"
	NotMet           Judgment = "아니오"
	NeedsObservation Judgment = "관찰 필요"
)

// ParseJudgment maps a form value to a Judgment.
func ParseJudgment(s string) (Judgment, error) {
	switch Judgment(s) {
	case Met, NotMet, NeedsObservation:
		return Judgment(s), nil
	}
	return "", fmt.Errorf("unknown judgment %q", s)
}

// Entry is one judged criterion. Key identity is (source label, criterion id).
type Entry struct {
	Criterion criteria.Sourced `json:"criterion"`
	Judgment  Judgment         `json:"judgment"`
}

// Sheet accumulates judgments for the current selection. Judgments survive
// domain-set changes; a subject/grade-band/curriculum change replaces the
// whole sheet (handled by the session hard reset).
type Sheet struct {
	Entries map[string]Entry `json:"entries"`
}

// NewSheet creates an empty diagnosis sheet.
func NewSheet() *Sheet {
	return &Sheet{Entries: make(map[string]Entry)}
}

// Record stores (or overwrites) the judgment for a criterion.
func (s *Sheet) Record(c criteria.Sourced, j Judgment) {
	s.Entries[c.Key()] = Entry{Criterion: c, Judgment: j}
}

// Len returns the number of judged criteria.
func (s *Sheet) Len() int {
	return len(s.Entries)
}

// Achieved returns the judged-Met criteria whose domain is in the selected
// set, ordered by key. Input for the current-level summary.
func (s *Sheet) Achieved(domains []string) []Entry {
	return s.filter(domains, func(j Judgment) bool { return j == Met })
}

// Targets returns NotMet and NeedsObservation criteria in the selected
// domains. Input for goal setting.
func (s *Sheet) Targets(domains []string) []Entry {
	return s.filter(domains, func(j Judgment) bool { return j != Met })
}

// NeedsObservation returns criteria the teacher could not judge directly.
// Input for supplemental diagnostic-question generation.
func (s *Sheet) NeedsObservation(domains []string) []Entry {
	return s.filter(domains, func(j Judgment) bool { return j == NeedsObservation })
}

func (s *Sheet) filter(domains []string, keep func(Judgment) bool) []Entry {
	selected := make(map[string]bool, len(domains))
	for _, d := range domains {
		selected[d] = true
	}

	keys := make([]string, 0, len(s.Entries))
	for k := range s.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []Entry
	for _, k := range keys {
		e := s.Entries[k]
		if keep(e.Judgment) && selected[e.Criterion.Domain] {
			out = append(out, e)
		}
	}
	return out
}
