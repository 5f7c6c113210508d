// Package session holds one teacher's working state across the planning and
// evaluation flow, plus the stores it persists through. Nothing here is
// global: every operation acts on an explicit Session.
package session

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sped-on/iep-bot/internal/diagnosis"
	"github.com/sped-on/iep-bot/internal/evaluation"
	"github.com/sped-on/iep-bot/internal/minutes"
	"github.com/sped-on/iep-bot/internal/plan"
)

// EvalMethodOptions lists the selectable evaluation methods.
var EvalMethodOptions = []string{
	"관찰누가기록",
	"포트폴리오",
	"학습지/과제물 분석",
	"질의응답",
	"발표",
	"프로젝트",
	"자기평가/동료평가",
}

// Selection is the curriculum scope the teacher works in. Changing any of
// its fields resets all derived state downstream.
type Selection struct {
	Curriculums []string `json:"curriculums"`
	Subject     string   `json:"subject"`
	GradeBands  []string `json:"grade_bands"`
}

// Equal reports whether two selections cover the same scope.
func (s Selection) Equal(o Selection) bool {
	if s.Subject != o.Subject {
		return false
	}
	return equalStrings(s.Curriculums, o.Curriculums) && equalStrings(s.GradeBands, o.GradeBands)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// StudentInfo is the personal-information block of the exported IEP.
type StudentInfo struct {
	Name      string `json:"name"`
	ClassInfo string `json:"class_info"` // 학년/반
}

// EvalPlan is one month's evaluation plan: chosen methods plus the focus
// text (generated, then editable).
type EvalPlan struct {
	Methods []string `json:"methods"`
	Focus   string   `json:"focus"`
}

// Session is the complete working state for one teacher.
type Session struct {
	ID           string `json:"id"`
	Organization string `json:"organization"`
	TeacherName  string `json:"teacher_name"`

	Selection Selection        `json:"selection"`
	Domains   []string         `json:"domains"`
	Diagnosis *diagnosis.Sheet `json:"diagnosis"`

	SummaryText          string `json:"summary_text"`
	GoalsText            string `json:"goals_text"`
	ContentsText         string `json:"contents_text"`
	ObservationQuestions string `json:"observation_questions"`

	Semester string   `json:"semester"`
	Months   []string `json:"months"`

	Plan          map[string]plan.Entry `json:"plan"`
	PlanInputHash string                `json:"plan_input_hash"`

	EvalPlans map[string]EvalPlan `json:"eval_plans"`

	Evaluations *evaluation.Book `json:"evaluations"`

	Student StudentInfo     `json:"student"`
	Minutes *minutes.Record `json:"minutes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New creates a fresh session for an authenticated teacher.
func New(organization, teacherName string) *Session {
	return &Session{
		Organization: organization,
		TeacherName:  teacherName,
		Diagnosis:    diagnosis.NewSheet(),
		EvalPlans:    make(map[string]EvalPlan),
		Evaluations:  evaluation.NewBook(),
		Minutes:      minutes.NewRecord(),
	}
}

// ErrNotFound is returned by every Store for an id that does not exist.
var ErrNotFound = errors.New("session not found")

// Store persists session state.
type Store interface {
	Create(ctx context.Context, sess *Session) (string, error)
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore is the in-memory Store used when no external store is
// configured.
type MemoryStore struct {
	sessions map[string]*Session
	mu       sync.RWMutex
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

func (s *MemoryStore) Create(_ context.Context, sess *Session) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := generateID()
	sess.ID = id
	sess.CreatedAt = time.Now()
	sess.UpdatedAt = sess.CreatedAt
	s.sessions[id] = sess
	return id, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return sess, nil
}

func (s *MemoryStore) Save(_ context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sess.ID]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, sess.ID)
	}
	sess.UpdatedAt = time.Now()
	s.sessions[sess.ID] = sess
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.sessions, id)
	return nil
}

func generateID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return fmt.Sprintf("%x", b)
}
