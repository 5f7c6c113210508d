package session

import (
	"context"
	"fmt"

	"github.com/sped-on/iep-bot/internal/ai"
	"github.com/sped-on/iep-bot/internal/criteria"
	"github.com/sped-on/iep-bot/internal/diagnosis"
	"github.com/sped-on/iep-bot/internal/evaluation"
	"github.com/sped-on/iep-bot/internal/minutes"
	"github.com/sped-on/iep-bot/internal/plan"
	"github.com/sped-on/iep-bot/internal/prompt"
)

// Service runs the session operations. Each operation is a synchronous unit
// of work on one Session; the caller persists the session afterwards.
type Service struct {
	criteria *criteria.Store
	gen      ai.Generator
}

// NewService creates the session service.
func NewService(cs *criteria.Store, gen ai.Generator) *Service {
	return &Service{criteria: cs, gen: gen}
}

// Generator exposes the collaborator for operations that live outside the
// service, such as minutes refinement.
func (s *Service) Generator() ai.Generator {
	return s.gen
}

// Criteria loads the achievement-criteria set for the session's current
// selection, including per-file warnings and errors.
func (s *Service) Criteria(sess *Session) *criteria.Set {
	return s.criteria.Load(sess.Selection.Curriculums, sess.Selection.Subject, sess.Selection.GradeBands)
}

// GradeBands reports which grade bands have criteria files on disk for the
// given curriculums and subject.
func (s *Service) GradeBands(curriculums []string, subject string) []string {
	return s.criteria.AvailableGradeBands(curriculums, subject)
}

// SetSelection changes the curriculum scope. A changed selection resets all
// derived state: judgments, generated texts, the plan, and evaluations.
// Student info and meeting minutes are not derived from the selection and
// survive. Returns the freshly loaded criteria set.
func (s *Service) SetSelection(sess *Session, sel Selection) (*criteria.Set, error) {
	if sel.Subject == "" || len(sel.Curriculums) == 0 || len(sel.GradeBands) == 0 {
		return nil, fmt.Errorf("selection requires subject, curriculums, and grade bands")
	}

	if !sess.Selection.Equal(sel) {
		sess.Selection = sel
		sess.Domains = nil
		sess.Diagnosis = diagnosis.NewSheet()
		sess.SummaryText = ""
		sess.GoalsText = ""
		sess.ContentsText = ""
		sess.ObservationQuestions = ""
		sess.Semester = ""
		sess.Months = nil
		sess.Plan = nil
		sess.PlanInputHash = ""
		sess.EvalPlans = make(map[string]EvalPlan)
		sess.Evaluations = evaluation.NewBook()
	}

	return s.Criteria(sess), nil
}

// SetDomains narrows the working domain set. Judgments outside the set are
// kept, only hidden from the derived views.
func (s *Service) SetDomains(sess *Session, domains []string) {
	sess.Domains = append([]string(nil), domains...)
}

// RecordJudgment stores a judgment for the criterion with the given key
// ("[curriculum] gradeBand id"). The criterion must exist in the current
// selection's criteria set.
func (s *Service) RecordJudgment(sess *Session, key string, j diagnosis.Judgment) error {
	set := s.Criteria(sess)
	for _, rec := range set.Records {
		if rec.Key() == key {
			sess.Diagnosis.Record(rec, j)
			return nil
		}
	}
	return fmt.Errorf("criterion not in current selection: %s", key)
}

// GenerateSummary builds the current-level summary from the achieved
// criteria. The collaborator output is stored verbatim; a failed call
// leaves any prior summary untouched.
func (s *Service) GenerateSummary(ctx context.Context, sess *Session) error {
	achieved := sess.Diagnosis.Achieved(sess.Domains)
	if len(achieved) == 0 {
		return fmt.Errorf("no achieved criteria to summarize")
	}

	resp, err := s.gen.Generate(ctx, ai.GenerateRequest{
		Prompt: prompt.Summary(sess.Selection.Subject, achieved),
	})
	if err != nil {
		return fmt.Errorf("generate summary: %w", err)
	}
	sess.SummaryText = resp.Text
	return nil
}

// UpdateSummary replaces the summary with teacher-edited text.
func (s *Service) UpdateSummary(sess *Session, text string) {
	sess.SummaryText = text
}

// GenerateGoals builds the semester goals from the target criteria. The
// chosen semester fixes the month list.
func (s *Service) GenerateGoals(ctx context.Context, sess *Session, semester string) error {
	months, err := plan.Months(semester)
	if err != nil {
		return err
	}

	targets := sess.Diagnosis.Targets(sess.Domains)
	if len(targets) == 0 {
		return fmt.Errorf("no target criteria for goal setting")
	}

	resp, err := s.gen.Generate(ctx, ai.GenerateRequest{
		Prompt: prompt.Goals(sess.Selection.Subject, semester, months, targets),
	})
	if err != nil {
		return fmt.Errorf("generate goals: %w", err)
	}

	// Only a successful call switches the semester; a failure must not
	// leave the old goals text paired with a new month list.
	sess.Semester = semester
	sess.Months = months
	sess.GoalsText = resp.Text
	return nil
}

// UpdateGoals replaces the goals text with teacher-edited text.
func (s *Service) UpdateGoals(sess *Session, text string) {
	sess.GoalsText = text
}

// GenerateContents builds the monthly learning activities from the goals
// text and the target criteria.
func (s *Service) GenerateContents(ctx context.Context, sess *Session) error {
	if sess.GoalsText == "" {
		return fmt.Errorf("goals text is required before generating contents")
	}

	targets := sess.Diagnosis.Targets(sess.Domains)
	resp, err := s.gen.Generate(ctx, ai.GenerateRequest{
		Prompt: prompt.Contents(sess.GoalsText, targets),
	})
	if err != nil {
		return fmt.Errorf("generate contents: %w", err)
	}
	sess.ContentsText = resp.Text
	return nil
}

// UpdateContents replaces the contents text with teacher-edited text.
func (s *Service) UpdateContents(sess *Session, text string) {
	sess.ContentsText = text
}

// GenerateObservationQuestions builds objective diagnostic questions for
// the needs-observation criteria.
func (s *Service) GenerateObservationQuestions(ctx context.Context, sess *Session) error {
	items := sess.Diagnosis.NeedsObservation(sess.Domains)
	if len(items) == 0 {
		return fmt.Errorf("no criteria marked for observation")
	}

	resp, err := s.gen.Generate(ctx, ai.GenerateRequest{
		Prompt: prompt.ObservationQuestions(items),
	})
	if err != nil {
		return fmt.Errorf("generate observation questions: %w", err)
	}
	sess.ObservationQuestions = resp.Text
	return nil
}

// DerivePlan (re)derives the monthly plan from the goals and contents
// texts. The derivation is memoized: when the declared inputs are unchanged
// since the last derive, the stored plan is kept as is, preserving method
// selections and avoiding spurious recomputation.
func (s *Service) DerivePlan(sess *Session) error {
	if sess.GoalsText == "" {
		return fmt.Errorf("goals text is required before deriving the plan")
	}
	if sess.ContentsText == "" {
		return fmt.Errorf("contents text is required before deriving the plan")
	}
	if len(sess.Months) == 0 {
		return fmt.Errorf("no semester selected")
	}

	hash := plan.InputHash(sess.GoalsText, sess.ContentsText, sess.Months)
	if hash == sess.PlanInputHash && sess.Plan != nil {
		return nil
	}

	sess.Plan = plan.Extract(sess.GoalsText, sess.ContentsText, sess.Months, sess.Plan)
	sess.PlanInputHash = hash
	return nil
}

// SetMethods records the teaching methods chosen for one month of the plan.
func (s *Service) SetMethods(sess *Session, month string, methods []string, otherMethod string) error {
	entry, ok := sess.Plan[month]
	if !ok {
		return fmt.Errorf("no plan entry for %s", month)
	}
	for _, m := range methods {
		if !contains(plan.MethodOptions, m) {
			return fmt.Errorf("unknown teaching method %q", m)
		}
	}

	entry.Methods = append([]string(nil), methods...)
	entry.OtherMethod = otherMethod
	sess.Plan[month] = entry
	return nil
}

// SetEvalMethods records the evaluation methods chosen for one month.
func (s *Service) SetEvalMethods(sess *Session, month string, methods []string) error {
	if _, ok := sess.Plan[month]; !ok {
		return fmt.Errorf("no plan entry for %s", month)
	}
	for _, m := range methods {
		if !contains(EvalMethodOptions, m) {
			return fmt.Errorf("unknown evaluation method %q", m)
		}
	}

	ep := sess.EvalPlans[month]
	ep.Methods = append([]string(nil), methods...)
	sess.EvalPlans[month] = ep
	return nil
}

// GenerateEvalFocus builds the evaluation focus for one month from that
// month's goal, content, and chosen evaluation methods. At least one method
// must be chosen first.
func (s *Service) GenerateEvalFocus(ctx context.Context, sess *Session, month string) error {
	entry, ok := sess.Plan[month]
	if !ok {
		return fmt.Errorf("no plan entry for %s", month)
	}
	ep := sess.EvalPlans[month]
	if len(ep.Methods) == 0 {
		return fmt.Errorf("choose at least one evaluation method for %s first", month)
	}

	resp, err := s.gen.Generate(ctx, ai.GenerateRequest{
		Prompt: prompt.PlanEvalFocus(entry.Goal, entry.Content, ep.Methods),
	})
	if err != nil {
		return fmt.Errorf("generate evaluation focus: %w", err)
	}
	ep.Focus = resp.Text
	sess.EvalPlans[month] = ep
	return nil
}

// UpdateEvalFocus replaces one month's evaluation focus with edited text.
func (s *Service) UpdateEvalFocus(sess *Session, month, text string) error {
	ep, ok := sess.EvalPlans[month]
	if !ok {
		return fmt.Errorf("no evaluation plan for %s", month)
	}
	ep.Focus = text
	sess.EvalPlans[month] = ep
	return nil
}

// RecordEvaluation stores (or replaces) one month's evaluation record. The
// month must come from the selected semester's month list; anything else
// would be unreachable by the rollup and the report.
func (s *Service) RecordEvaluation(sess *Session, rec evaluation.MonthRecord) error {
	if rec.Month == "" {
		return fmt.Errorf("evaluation record has no month")
	}
	if !contains(sess.Months, rec.Month) {
		return fmt.Errorf("month %s is not in the selected semester", rec.Month)
	}
	sess.Evaluations.Put(rec)
	return nil
}

// GenerateFocusItems produces behavior-centered focus items for one
// evaluated month from its goal and content. The generated items replace the
// month's focus list and clear any ratings tied to the old list.
func (s *Service) GenerateFocusItems(ctx context.Context, sess *Session, month string) error {
	rec, ok := sess.Evaluations.Months[month]
	if !ok {
		return fmt.Errorf("no evaluation record for %s", month)
	}
	if rec.Goal == "" || rec.Content == "" {
		return fmt.Errorf("goal and content are required for %s before generating focus items", month)
	}

	resp, err := s.gen.Generate(ctx, ai.GenerateRequest{
		Prompt: prompt.BehaviorEvalFocus(rec.Goal, rec.Content),
	})
	if err != nil {
		return fmt.Errorf("generate focus items: %w", err)
	}
	rec.FocusItems = evaluation.SplitFocusItems(resp.Text)
	rec.Ratings = make(map[int]string)
	sess.Evaluations.Put(rec)
	return nil
}

// GenerateMonthlyNarrative produces the narrative for one evaluated month.
// A month with a special status gets its fixed template sentence without a
// collaborator call; a normal month's narrative is generated from the goal
// and the focus-item ratings.
func (s *Service) GenerateMonthlyNarrative(ctx context.Context, sess *Session, month string) error {
	rec, ok := sess.Evaluations.Months[month]
	if !ok {
		return fmt.Errorf("no evaluation record for %s", month)
	}

	if rec.Status != evaluation.Normal {
		tmpl, err := evaluation.StatusTemplate(rec.Status)
		if err != nil {
			return err
		}
		rec.Narrative = tmpl
		sess.Evaluations.Put(rec)
		return nil
	}

	if len(rec.FocusItems) == 0 {
		return fmt.Errorf("no focus items recorded for %s", month)
	}

	resp, err := s.gen.Generate(ctx, ai.GenerateRequest{
		Prompt: prompt.MonthlyNarrative(rec.Goal, rec.FocusRatings()),
	})
	if err != nil {
		return fmt.Errorf("generate monthly narrative: %w", err)
	}
	rec.Narrative = resp.Text
	sess.Evaluations.Put(rec)
	return nil
}

// UpdateMonthlyNarrative replaces one month's narrative with edited text.
func (s *Service) UpdateMonthlyNarrative(sess *Session, month, text string) error {
	rec, ok := sess.Evaluations.Months[month]
	if !ok {
		return fmt.Errorf("no evaluation record for %s", month)
	}
	rec.Narrative = text
	sess.Evaluations.Put(rec)
	return nil
}

// GenerateSemesterRollup produces the semester comprehensive opinion from
// the stored monthly narratives. With no narratives stored it returns
// evaluation.ErrNoData and never calls the collaborator.
func (s *Service) GenerateSemesterRollup(ctx context.Context, sess *Session) error {
	if sess.Semester == "" {
		return fmt.Errorf("no semester selected")
	}

	data, err := sess.Evaluations.SemesterData(sess.Months)
	if err != nil {
		return err
	}

	resp, err := s.gen.Generate(ctx, ai.GenerateRequest{
		Prompt: prompt.SemesterRollup(data),
	})
	if err != nil {
		return fmt.Errorf("generate semester rollup: %w", err)
	}
	sess.Evaluations.Semester[sess.Semester] = resp.Text
	return nil
}

// SetStudent stores the student's personal information.
func (s *Service) SetStudent(sess *Session, info StudentInfo) {
	sess.Student = info
}

// Reset clears all working state while keeping the teacher's identity, so
// a new student's flow can start in the same session.
func (s *Service) Reset(sess *Session) {
	sess.Selection = Selection{}
	sess.Domains = nil
	sess.Diagnosis = diagnosis.NewSheet()
	sess.SummaryText = ""
	sess.GoalsText = ""
	sess.ContentsText = ""
	sess.ObservationQuestions = ""
	sess.Semester = ""
	sess.Months = nil
	sess.Plan = nil
	sess.PlanInputHash = ""
	sess.EvalPlans = make(map[string]EvalPlan)
	sess.Evaluations = evaluation.NewBook()
	sess.Student = StudentInfo{}
	sess.Minutes = minutes.NewRecord()
}

func contains(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
