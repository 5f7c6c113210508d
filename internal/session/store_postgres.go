package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 5 * time.Second

// PostgresStore persists each session as a jsonb state blob:
//
//	CREATE TABLE sessions (
//	    id           uuid PRIMARY KEY DEFAULT gen_random_uuid(),
//	    organization text NOT NULL,
//	    teacher_name text NOT NULL,
//	    state        jsonb NOT NULL,
//	    created_at   timestamptz NOT NULL DEFAULT NOW(),
//	    updated_at   timestamptz NOT NULL DEFAULT NOW()
//	);
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed session store.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Create(ctx context.Context, sess *Session) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if sess.Organization == "" || sess.TeacherName == "" {
		return "", fmt.Errorf("organization and teacher name are required")
	}

	sess.CreatedAt = time.Now()
	sess.UpdatedAt = sess.CreatedAt

	state, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}

	var id string
	err = s.pool.QueryRow(ctx,
		`INSERT INTO sessions (organization, teacher_name, state, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $4)
		 RETURNING id::text`,
		sess.Organization,
		sess.TeacherName,
		state,
		sess.CreatedAt,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	sess.ID = id

	// The blob was written before the id existed; rewrite it so the stored
	// state carries its own id.
	if err := s.Save(ctx, sess); err != nil {
		return "", err
	}
	return id, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Session, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var state []byte
	err := s.pool.QueryRow(ctx,
		`SELECT state FROM sessions WHERE id = $1::uuid LIMIT 1`,
		id,
	).Scan(&state)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(state, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	sess.ID = id
	return &sess, nil
}

func (s *PostgresStore) Save(ctx context.Context, sess *Session) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if sess.ID == "" {
		return fmt.Errorf("session has no id")
	}

	sess.UpdatedAt = time.Now()
	state, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	cmd, err := s.pool.Exec(ctx,
		`UPDATE sessions SET state = $2, updated_at = $3 WHERE id = $1::uuid`,
		sess.ID,
		state,
		sess.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, sess.ID)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	cmd, err := s.pool.Exec(ctx,
		`DELETE FROM sessions WHERE id = $1::uuid`,
		id,
	)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
