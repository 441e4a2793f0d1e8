package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/appspark/waitlist/internal/questionnaire"
	"github.com/appspark/waitlist/internal/store"
	"github.com/google/go-cmp/cmp"
)

func setupTestDB(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func TestOpen(t *testing.T) {
	s := setupTestDB(t)

	if s.Name() != "sqlite" {
		t.Errorf("expected name sqlite, got %s", s.Name())
	}
}

func TestCreateSignup(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	su, err := s.CreateSignup(ctx, "Ada", "ada@example.com", at)
	if err != nil {
		t.Fatalf("failed to create signup: %v", err)
	}

	if su.ID == "" {
		t.Error("expected non-empty ID")
	}
	if su.QuestionnaireCompleted {
		t.Error("expected new signup not to be completed")
	}

	found, err := s.FindByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("failed to find signup: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected 1 match, got %d", len(found))
	}

	got := found[0]
	if got.ID != su.ID || got.Name != "Ada" {
		t.Errorf("unexpected signup %+v", got)
	}
	if got.SignedUpAt == nil || !got.SignedUpAt.Equal(at) {
		t.Errorf("expected signed up at %v, got %v", at, got.SignedUpAt)
	}
	if got.CompletedAt != nil {
		t.Errorf("expected no completion time, got %v", got.CompletedAt)
	}
	if got.Responses.Interests == nil || len(got.Responses.Interests) != 0 {
		t.Errorf("expected empty interests, got %#v", got.Responses.Interests)
	}
}

func TestFindByEmail_NoMatch(t *testing.T) {
	s := setupTestDB(t)

	found, err := s.FindByEmail(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("FindByEmail failed: %v", err)
	}
	if len(found) != 0 {
		t.Errorf("expected no matches, got %d", len(found))
	}
}

func TestFindByEmail_DuplicatesInInsertOrder(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()
	now := time.Now()

	first, _ := s.CreateSignup(ctx, "Ada", "ada@example.com", now)
	second, _ := s.CreateSignup(ctx, "Ada L.", "ada@example.com", now)

	found, err := s.FindByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("FindByEmail failed: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(found))
	}
	if found[0].ID != first.ID || found[1].ID != second.ID {
		t.Errorf("expected insert order, got %s, %s", found[0].ID, found[1].ID)
	}
}

func TestCompleteQuestionnaire(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	su, _ := s.CreateSignup(ctx, "Ada", "ada@example.com", time.Now())

	responses := questionnaire.Responses{
		Interests:        []string{"AI", "MVP"},
		SkillLevel:       "Beginner",
		BiggestChallenge: "time",
	}
	completedAt := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	if err := s.CompleteQuestionnaire(ctx, su.ID, responses, completedAt); err != nil {
		t.Fatalf("CompleteQuestionnaire failed: %v", err)
	}

	found, _ := s.FindByEmail(ctx, "ada@example.com")
	got := found[0]

	if !got.QuestionnaireCompleted {
		t.Error("expected questionnaire to be completed")
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(completedAt) {
		t.Errorf("expected completed at %v, got %v", completedAt, got.CompletedAt)
	}
	if diff := cmp.Diff(responses, got.Responses); diff != "" {
		t.Errorf("unexpected responses (-want +got):\n%s", diff)
	}
}

func TestCompleteQuestionnaire_NotFound(t *testing.T) {
	s := setupTestDB(t)

	err := s.CompleteQuestionnaire(context.Background(), "missing", questionnaire.Responses{}, time.Now())
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListSignups(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	_, _ = s.CreateSignup(ctx, "Ada", "ada@example.com", time.Now())
	_, _ = s.CreateSignup(ctx, "Grace", "grace@example.com", time.Now())

	signups, err := s.ListSignups(ctx)
	if err != nil {
		t.Fatalf("failed to list signups: %v", err)
	}

	if len(signups) != 2 {
		t.Fatalf("got %d signups, want 2", len(signups))
	}
	if signups[0].Name != "Ada" || signups[1].Name != "Grace" {
		t.Errorf("unexpected order: %s, %s", signups[0].Name, signups[1].Name)
	}
}
