// Package httpapi exposes the session flow as a JSON API. Every mutating
// endpoint loads the session, runs one service operation, and saves the
// session back; at most one blocking collaborator call happens per request.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sped-on/iep-bot/internal/criteria"
	"github.com/sped-on/iep-bot/internal/diagnosis"
	"github.com/sped-on/iep-bot/internal/gate"
	"github.com/sped-on/iep-bot/internal/session"
)

// ReadyChecker reports whether a backing service is reachable.
type ReadyChecker interface {
	HealthCheck(ctx context.Context) error
}

// Server holds the API dependencies.
type Server struct {
	svc     *session.Service
	store   session.Store
	gate    *gate.Gate
	readies map[string]ReadyChecker
}

// New creates the API server.
func New(svc *session.Service, store session.Store, g *gate.Gate) *Server {
	return &Server{
		svc:     svc,
		store:   store,
		gate:    g,
		readies: make(map[string]ReadyChecker),
	}
}

// AddReadyCheck registers a backing service for the readiness endpoint.
func (s *Server) AddReadyCheck(name string, c ReadyChecker) {
	s.readies[name] = c
}

// Mux builds the HTTP router.
func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)

	mux.HandleFunc("GET /api/catalog", s.handleCatalog)

	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("POST /api/sessions/{id}/reset", s.handleReset)

	mux.HandleFunc("PUT /api/sessions/{id}/selection", s.handleSetSelection)
	mux.HandleFunc("GET /api/sessions/{id}/criteria", s.handleGetCriteria)
	mux.HandleFunc("PUT /api/sessions/{id}/domains", s.handleSetDomains)
	mux.HandleFunc("PUT /api/sessions/{id}/judgments", s.handleRecordJudgment)

	mux.HandleFunc("POST /api/sessions/{id}/summary", s.generateHandler(s.opGenerateSummary))
	mux.HandleFunc("PUT /api/sessions/{id}/summary", s.updateTextHandler(func(sess *session.Session, text string) error {
		s.svc.UpdateSummary(sess, text)
		return nil
	}))
	mux.HandleFunc("POST /api/sessions/{id}/goals", s.handleGenerateGoals)
	mux.HandleFunc("PUT /api/sessions/{id}/goals", s.updateTextHandler(func(sess *session.Session, text string) error {
		s.svc.UpdateGoals(sess, text)
		return nil
	}))
	mux.HandleFunc("POST /api/sessions/{id}/contents", s.generateHandler(s.opGenerateContents))
	mux.HandleFunc("PUT /api/sessions/{id}/contents", s.updateTextHandler(func(sess *session.Session, text string) error {
		s.svc.UpdateContents(sess, text)
		return nil
	}))
	mux.HandleFunc("POST /api/sessions/{id}/observation-questions", s.generateHandler(s.opGenerateObservationQuestions))

	mux.HandleFunc("POST /api/sessions/{id}/plan", s.handleDerivePlan)
	mux.HandleFunc("PUT /api/sessions/{id}/plan/{month}/methods", s.handleSetMethods)
	mux.HandleFunc("PUT /api/sessions/{id}/eval-plan/{month}/methods", s.handleSetEvalMethods)
	mux.HandleFunc("POST /api/sessions/{id}/eval-plan/{month}/focus", s.handleGenerateEvalFocus)
	mux.HandleFunc("PUT /api/sessions/{id}/eval-plan/{month}/focus", s.handleUpdateEvalFocus)

	mux.HandleFunc("PUT /api/sessions/{id}/student", s.handleSetStudent)
	mux.HandleFunc("POST /api/sessions/{id}/evaluations", s.handleRecordEvaluation)
	mux.HandleFunc("POST /api/sessions/{id}/evaluations/{month}/focus", s.handleGenerateFocusItems)
	mux.HandleFunc("POST /api/sessions/{id}/evaluations/{month}/narrative", s.handleGenerateNarrative)
	mux.HandleFunc("PUT /api/sessions/{id}/evaluations/{month}/narrative", s.handleUpdateNarrative)
	mux.HandleFunc("POST /api/sessions/{id}/semester-summary", s.generateHandler(s.opGenerateSemesterRollup))

	mux.HandleFunc("PUT /api/sessions/{id}/minutes", s.handleUpdateMinutes)
	mux.HandleFunc("POST /api/sessions/{id}/minutes/refine", s.handleRefineMinutes)

	mux.HandleFunc("GET /api/sessions/{id}/export/{doc}", s.handleExport)

	return mux
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	for name, c := range s.readies {
		if err := c.HealthCheck(r.Context()); err != nil {
			slog.Warn("readiness check failed", "service", name, "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status":  "unavailable",
				"service": name,
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleCatalog serves the curriculum vocabulary the selection form is
// built from. With curriculum + subject query parameters it also reports
// which grade bands have criteria data on disk.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out := map[string]any{
		"curriculums": criteria.Curriculums,
		"short_names": criteria.CurriculumShortNames,
		"subjects":    criteria.SubjectsByCurriculum,
	}
	if subject := q.Get("subject"); subject != "" {
		out["grade_bands"] = s.svc.GradeBands(q["curriculum"], subject)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Organization string `json:"organization"`
		Name         string `json:"name"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	if !s.gate.Check(req.Organization, req.Name) {
		writeError(w, http.StatusForbidden, "등록된 사용자가 아닙니다.")
		return
	}

	sess := session.New(strings.TrimSpace(req.Organization), strings.TrimSpace(req.Name))
	id, err := s.store.Create(r.Context(), sess)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	s.svc.Reset(sess)
	s.saveAndRespond(w, r, sess)
}

func (s *Server) handleSetSelection(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}

	var sel session.Selection
	if !readJSON(w, r, &sel) {
		return
	}

	set, err := s.svc.SetSelection(sess, sel)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// handleGetCriteria serves the loaded criteria grouped by domain, the shape
// the judgment grid renders from.
func (s *Server) handleGetCriteria(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	set := s.svc.Criteria(sess)
	writeJSON(w, http.StatusOK, map[string]any{
		"domains":     set.Domains(),
		"by_domain":   set.ByDomain(),
		"warnings":    set.Warnings,
		"file_errors": set.FileErrors,
	})
}

func (s *Server) handleSetDomains(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}

	var req struct {
		Domains []string `json:"domains"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	s.svc.SetDomains(sess, req.Domains)
	s.saveAndRespond(w, r, sess)
}

func (s *Server) handleRecordJudgment(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}

	var req struct {
		Key      string `json:"key"`
		Judgment string `json:"judgment"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	j, err := diagnosis.ParseJudgment(req.Judgment)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.svc.RecordJudgment(sess, req.Key, j); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.saveAndRespond(w, r, sess)
}

func (s *Server) handleGenerateGoals(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}

	var req struct {
		Semester string `json:"semester"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	if err := s.svc.GenerateGoals(r.Context(), sess, req.Semester); err != nil {
		s.writeOpError(w, err)
		return
	}
	s.saveAndRespond(w, r, sess)
}

func (s *Server) handleDerivePlan(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	if err := s.svc.DerivePlan(sess); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.saveAndRespond(w, r, sess)
}

func (s *Server) handleSetMethods(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}

	var req struct {
		Methods     []string `json:"methods"`
		OtherMethod string   `json:"other_method"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	if err := s.svc.SetMethods(sess, r.PathValue("month"), req.Methods, req.OtherMethod); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.saveAndRespond(w, r, sess)
}

func (s *Server) handleSetEvalMethods(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}

	var req struct {
		Methods []string `json:"methods"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	if err := s.svc.SetEvalMethods(sess, r.PathValue("month"), req.Methods); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.saveAndRespond(w, r, sess)
}

func (s *Server) handleGenerateEvalFocus(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	if err := s.svc.GenerateEvalFocus(r.Context(), sess, r.PathValue("month")); err != nil {
		s.writeOpError(w, err)
		return
	}
	s.saveAndRespond(w, r, sess)
}

func (s *Server) handleUpdateEvalFocus(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	if err := s.svc.UpdateEvalFocus(sess, r.PathValue("month"), req.Text); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.saveAndRespond(w, r, sess)
}

func (s *Server) handleSetStudent(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}

	var info session.StudentInfo
	if !readJSON(w, r, &info) {
		return
	}

	s.svc.SetStudent(sess, info)
	s.saveAndRespond(w, r, sess)
}
