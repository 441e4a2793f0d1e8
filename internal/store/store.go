package store

import (
	"context"
	"errors"
	"time"

	"github.com/appspark/waitlist/internal/questionnaire"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrRateLimited = errors.New("rate limited")
)

// Store defines the operations the waitlist needs from its record store
type Store interface {
	// CreateSignup adds a record. The returned signup carries its ID.
	CreateSignup(ctx context.Context, name, email string, signedUpAt time.Time) (*Signup, error)
	// FindByEmail returns every record whose email matches exactly, in the
	// backend's order.
	FindByEmail(ctx context.Context, email string) ([]*Signup, error)
	// CompleteQuestionnaire writes responses to the record with the given ID
	// and marks it completed.
	CompleteQuestionnaire(ctx context.Context, id string, responses questionnaire.Responses, completedAt time.Time) error
	ListSignups(ctx context.Context) ([]*Signup, error)

	// Name identifies the backend in logs and health output.
	Name() string
	Close() error
}

var (
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*NotionStore)(nil)
)
