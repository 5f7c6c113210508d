package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sped-on/iep-bot/internal/ai"
	"github.com/sped-on/iep-bot/internal/evaluation"
	"github.com/sped-on/iep-bot/internal/session"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// loadSession fetches the session addressed by the {id} path segment.
func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, err)
		return nil, false
	}
	return sess, true
}

// saveAndRespond persists the mutated session and returns its new state.
func (s *Server) saveAndRespond(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := s.store.Save(r.Context(), sess); err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, session.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	slog.Error("session store error", "error", err)
	writeError(w, http.StatusInternalServerError, "session store error")
}

// writeOpError maps a service-operation failure to a status code: missing
// prerequisites are the client's to fix, a failed collaborator call is a
// bad gateway.
func (s *Server) writeOpError(w http.ResponseWriter, err error) {
	if errors.Is(err, evaluation.ErrNoData) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if errors.Is(err, ai.ErrCollaborator) {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}
