package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/appspark/waitlist/internal/questionnaire"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps signups in a local SQLite file. Email is indexed but not
// unique, matching the hosted store.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS signups (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT UNIQUE NOT NULL,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    signed_up_at INTEGER,
    questionnaire_completed INTEGER NOT NULL DEFAULT 0,
    completed_at INTEGER,
    interests TEXT NOT NULL DEFAULT '[]',
    previous_experience TEXT NOT NULL DEFAULT '',
    skill_level TEXT NOT NULL DEFAULT '',
    app_type TEXT NOT NULL DEFAULT '',
    primary_goal TEXT NOT NULL DEFAULT '',
    biggest_challenge TEXT NOT NULL DEFAULT '',
    beta_test TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_signups_email ON signups(email);
`

const signupColumns = `id, name, email, signed_up_at, questionnaire_completed, completed_at,
	interests, previous_experience, skill_level, app_type, primary_goal, biggest_challenge, beta_test`

func Open(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Name() string {
	return "sqlite"
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateSignup(ctx context.Context, name, email string, signedUpAt time.Time) (*Signup, error) {
	id := uuid.NewString()
	at := signedUpAt.UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO signups (id, name, email, signed_up_at, questionnaire_completed)
		 VALUES (?, ?, ?, ?, 0)`,
		id, name, email, at.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert signup: %w", err)
	}

	return &Signup{
		ID:         id,
		Name:       name,
		Email:      email,
		SignedUpAt: &at,
		Responses:  questionnaire.Responses{Interests: []string{}},
	}, nil
}

func (s *SQLiteStore) FindByEmail(ctx context.Context, email string) ([]*Signup, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+signupColumns+` FROM signups WHERE email = ? ORDER BY seq`, email,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find signups: %w", err)
	}
	defer rows.Close()

	return scanSignups(rows)
}

func (s *SQLiteStore) CompleteQuestionnaire(ctx context.Context, id string, r questionnaire.Responses, completedAt time.Time) error {
	interests := r.Interests
	if interests == nil {
		interests = []string{}
	}
	interestsJSON, err := json.Marshal(interests)
	if err != nil {
		return fmt.Errorf("failed to marshal interests: %w", err)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE signups SET
			questionnaire_completed = 1, completed_at = ?, interests = ?,
			previous_experience = ?, skill_level = ?, app_type = ?,
			primary_goal = ?, biggest_challenge = ?, beta_test = ?
		 WHERE id = ?`,
		completedAt.UTC().UnixMilli(), string(interestsJSON),
		r.PreviousExperience, r.SkillLevel, r.AppType,
		r.PrimaryGoal, r.BiggestChallenge, r.BetaTest,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update signup: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *SQLiteStore) ListSignups(ctx context.Context) ([]*Signup, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+signupColumns+` FROM signups ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to list signups: %w", err)
	}
	defer rows.Close()

	return scanSignups(rows)
}

// DB returns the underlying database connection for health checks
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

func scanSignups(rows *sql.Rows) ([]*Signup, error) {
	var signups []*Signup
	for rows.Next() {
		var su Signup
		var signedUpAt, completedAt sql.NullInt64
		var completed int
		var interestsJSON string

		err := rows.Scan(&su.ID, &su.Name, &su.Email, &signedUpAt, &completed, &completedAt,
			&interestsJSON, &su.Responses.PreviousExperience, &su.Responses.SkillLevel,
			&su.Responses.AppType, &su.Responses.PrimaryGoal, &su.Responses.BiggestChallenge,
			&su.Responses.BetaTest)
		if err != nil {
			return nil, fmt.Errorf("failed to scan signup: %w", err)
		}

		if err := json.Unmarshal([]byte(interestsJSON), &su.Responses.Interests); err != nil {
			return nil, fmt.Errorf("failed to unmarshal interests: %w", err)
		}
		if su.Responses.Interests == nil {
			su.Responses.Interests = []string{}
		}

		su.QuestionnaireCompleted = completed != 0
		su.SignedUpAt = nullableTime(signedUpAt)
		su.CompletedAt = nullableTime(completedAt)

		signups = append(signups, &su)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate signups: %w", err)
	}

	return signups, nil
}

func nullableTime(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.UnixMilli(v.Int64).UTC()
	return &t
}
