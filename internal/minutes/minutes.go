// Package minutes holds the IEP support-team meeting record: basic info,
// per-role opinion sections, and the resolution. Opinion and resolution
// text can be refined through the collaborator; a failed refinement leaves
// the stored text untouched.
package minutes

import (
	"context"
	"fmt"

	"github.com/sped-on/iep-bot/internal/ai"
	"github.com/sped-on/iep-bot/internal/prompt"
)

// MethodOther is the meeting-method choice that carries free text.
const MethodOther = "기타 (직접 작성)"

// MethodOptions lists how the meeting can be held.
var MethodOptions = []string{
	"서면 의견서 제출",
	"전화 상담",
	"대면 회의",
	MethodOther,
}

// Opinion section names. The order is the order sections appear in the
// exported document.
const (
	SectionGuardian       = "보호자 의견"
	SectionHomeroom       = "담임교사 의견"
	SectionSpecialTeacher = "특수교사 의견"
	SectionOther          = "기타 의견"
)

// OpinionSections is the fixed section order.
var OpinionSections = []string{
	SectionGuardian,
	SectionHomeroom,
	SectionSpecialTeacher,
	SectionOther,
}

// Info is the meeting's basic information block.
type Info struct {
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Location    string   `json:"location"`
	Methods     []string `json:"methods"`
	OtherMethod string   `json:"other_method,omitempty"`
	Attendees   string   `json:"attendees"`
}

// FinalMethods returns the method list with the free-text choice replaced
// by its entered text. The placeholder is dropped when no text was given.
func (i Info) FinalMethods() []string {
	out := make([]string, 0, len(i.Methods))
	for _, m := range i.Methods {
		if m == MethodOther {
			if i.OtherMethod != "" {
				out = append(out, i.OtherMethod)
			}
			continue
		}
		out = append(out, m)
	}
	return out
}

// Record is one meeting's minutes.
type Record struct {
	Info        Info              `json:"info"`
	Opinions    map[string]string `json:"opinions"`
	OtherAuthor string            `json:"other_author,omitempty"`
	Resolution  string            `json:"resolution"`
}

// NewRecord creates an empty meeting record.
func NewRecord() *Record {
	return &Record{Opinions: make(map[string]string)}
}

// SetOpinion stores the text for a known opinion section.
func (r *Record) SetOpinion(section, text string) error {
	if !knownSection(section) {
		return fmt.Errorf("unknown opinion section: %s", section)
	}
	r.Opinions[section] = text
	return nil
}

// Opinion returns the stored text for a section.
func (r *Record) Opinion(section string) string {
	return r.Opinions[section]
}

// SectionTitle returns the document heading for a section. The free
// section uses its author's name when one was entered.
func (r *Record) SectionTitle(section string) string {
	if section == SectionOther && r.OtherAuthor != "" {
		return r.OtherAuthor + " 의견"
	}
	return section
}

// HasResolution reports whether a resolution was written. Export refuses
// to run without one.
func (r *Record) HasResolution() bool {
	return r.Resolution != ""
}

// RefineOpinion rewrites one opinion section through the collaborator.
// An empty section or a failed call leaves the text as it was.
func (r *Record) RefineOpinion(ctx context.Context, gen ai.Generator, section string) error {
	if !knownSection(section) {
		return fmt.Errorf("unknown opinion section: %s", section)
	}
	text := r.Opinions[section]
	if text == "" {
		return fmt.Errorf("opinion section %s is empty", section)
	}

	resp, err := gen.Generate(ctx, ai.GenerateRequest{Prompt: prompt.MinutesOpinion(text)})
	if err != nil {
		return err
	}
	r.Opinions[section] = resp.Text
	return nil
}

// RefineResolution rewrites the resolution through the collaborator.
func (r *Record) RefineResolution(ctx context.Context, gen ai.Generator) error {
	if r.Resolution == "" {
		return fmt.Errorf("resolution is empty")
	}

	resp, err := gen.Generate(ctx, ai.GenerateRequest{Prompt: prompt.MinutesResolution(r.Resolution)})
	if err != nil {
		return err
	}
	r.Resolution = resp.Text
	return nil
}

func knownSection(section string) bool {
	for _, s := range OpinionSections {
		if s == section {
			return true
		}
	}
	return false
}
