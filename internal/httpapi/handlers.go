package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/sped-on/iep-bot/internal/evaluation"
	"github.com/sped-on/iep-bot/internal/export"
	"github.com/sped-on/iep-bot/internal/minutes"
	"github.com/sped-on/iep-bot/internal/session"
)

// sessionOp is one generation operation bound to a session.
type sessionOp func(ctx context.Context, sess *session.Session) error

func (s *Server) opGenerateSummary(ctx context.Context, sess *session.Session) error {
	return s.svc.GenerateSummary(ctx, sess)
}

func (s *Server) opGenerateContents(ctx context.Context, sess *session.Session) error {
	return s.svc.GenerateContents(ctx, sess)
}

func (s *Server) opGenerateObservationQuestions(ctx context.Context, sess *session.Session) error {
	return s.svc.GenerateObservationQuestions(ctx, sess)
}

func (s *Server) opGenerateSemesterRollup(ctx context.Context, sess *session.Session) error {
	return s.svc.GenerateSemesterRollup(ctx, sess)
}

// generateHandler runs one generation operation and returns the updated
// session state.
func (s *Server) generateHandler(op sessionOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.loadSession(w, r)
		if !ok {
			return
		}
		if err := op(r.Context(), sess); err != nil {
			s.writeOpError(w, err)
			return
		}
		s.saveAndRespond(w, r, sess)
	}
}

// updateTextHandler stores teacher-edited text through the given setter.
func (s *Server) updateTextHandler(set func(sess *session.Session, text string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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

		if err := set(sess, req.Text); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.saveAndRespond(w, r, sess)
	}
}

func (s *Server) handleRecordEvaluation(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}

	var req struct {
		Month     string `json:"month"`
		Status    string `json:"status"`
		Goal      string `json:"goal"`
		Content   string `json:"content"`
		FocusText string `json:"focus_text"`
		Ratings   []struct {
			Index int    `json:"index"`
			Label string `json:"label"`
		} `json:"ratings"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	status, err := evaluation.ParseStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec := evaluation.MonthRecord{
		Month:      req.Month,
		Status:     status,
		Goal:       req.Goal,
		Content:    req.Content,
		FocusItems: evaluation.SplitFocusItems(req.FocusText),
		Ratings:    make(map[int]string),
	}
	for _, rt := range req.Ratings {
		rec.Ratings[rt.Index] = rt.Label
	}

	if err := s.svc.RecordEvaluation(sess, rec); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.saveAndRespond(w, r, sess)
}

func (s *Server) handleGenerateFocusItems(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	if err := s.svc.GenerateFocusItems(r.Context(), sess, r.PathValue("month")); err != nil {
		s.writeOpError(w, err)
		return
	}
	s.saveAndRespond(w, r, sess)
}

func (s *Server) handleGenerateNarrative(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	if err := s.svc.GenerateMonthlyNarrative(r.Context(), sess, r.PathValue("month")); err != nil {
		s.writeOpError(w, err)
		return
	}
	s.saveAndRespond(w, r, sess)
}

func (s *Server) handleUpdateNarrative(w http.ResponseWriter, r *http.Request) {
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

	if err := s.svc.UpdateMonthlyNarrative(sess, r.PathValue("month"), req.Text); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.saveAndRespond(w, r, sess)
}

func (s *Server) handleUpdateMinutes(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}

	var req struct {
		Info        *minutes.Info     `json:"info,omitempty"`
		Opinions    map[string]string `json:"opinions,omitempty"`
		OtherAuthor *string           `json:"other_author,omitempty"`
		Resolution  *string           `json:"resolution,omitempty"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	if req.Info != nil {
		sess.Minutes.Info = *req.Info
	}
	for section, text := range req.Opinions {
		if err := sess.Minutes.SetOpinion(section, text); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.OtherAuthor != nil {
		sess.Minutes.OtherAuthor = *req.OtherAuthor
	}
	if req.Resolution != nil {
		sess.Minutes.Resolution = *req.Resolution
	}
	s.saveAndRespond(w, r, sess)
}

func (s *Server) handleRefineMinutes(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}

	var req struct {
		Target string `json:"target"` // opinion section name or "의결 사항"
	}
	if !readJSON(w, r, &req) {
		return
	}

	var err error
	if req.Target == "의결 사항" {
		err = sess.Minutes.RefineResolution(r.Context(), s.svc.Generator())
	} else {
		err = sess.Minutes.RefineOpinion(r.Context(), s.svc.Generator(), req.Target)
	}
	if err != nil {
		s.writeOpError(w, err)
		return
	}
	s.saveAndRespond(w, r, sess)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}

	doc := r.PathValue("doc")

	dir, err := os.MkdirTemp("", "iep-export")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	defer os.RemoveAll(dir)

	var path, filename, contentType string
	switch doc {
	case "minutes":
		filename = "협의회_회의록.docx"
		path = filepath.Join(dir, filename)
		err = export.Minutes(path, sess.Minutes)
		contentType = docxContentType
	case "iep":
		filename = fmt.Sprintf("IEP_%s.docx", sess.Student.Name)
		path = filepath.Join(dir, filename)
		err = export.IEP(path, sess)
		contentType = docxContentType
	case "report":
		filename = "개별화교육평가_결과보고서.docx"
		path = filepath.Join(dir, filename)
		err = export.EvaluationReport(path, sess)
		contentType = docxContentType
	case "workbook":
		filename = "학기별_교육계획.xlsx"
		path = filepath.Join(dir, filename)
		err = export.Workbook(path, sess)
		contentType = xlsxContentType
	default:
		writeError(w, http.StatusNotFound, "unknown document type")
		return
	}

	if err != nil {
		var verr *export.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusUnprocessableEntity, verr.Message)
			return
		}
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	http.ServeFile(w, r, path)
}

const (
	docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)
