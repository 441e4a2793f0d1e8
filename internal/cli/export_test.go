package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/appspark/waitlist/internal/insights"
	"github.com/appspark/waitlist/internal/questionnaire"
	"github.com/appspark/waitlist/internal/store"
)

func fixtureSignups() []*store.Signup {
	signed := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	done := signed.Add(5 * time.Minute)
	return []*store.Signup{
		{
			ID: "1", Name: "Ada", Email: "ada@example.com",
			SignedUpAt: &signed, QuestionnaireCompleted: true, CompletedAt: &done,
			Responses: questionnaire.Responses{
				Interests: []string{"A", "B"},
				BetaTest:  "Not right now",
			},
		},
		{ID: "2", Name: "Grace", Email: "grace@example.com", SignedUpAt: &signed},
	}
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := exportCSV(&buf, fixtureSignups()); err != nil {
		t.Fatalf("exportCSV failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("failed to read CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][2] != "email" {
		t.Errorf("unexpected header %v", rows[0])
	}
	ada := rows[1]
	if ada[3] != "2026-03-01T09:30:00Z" || ada[4] != "true" || ada[6] != "A; B" || ada[12] != "Not right now" {
		t.Errorf("unexpected row %v", ada)
	}
	if rows[2][5] != "" {
		t.Errorf("expected empty completedAt, got %q", rows[2][5])
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := exportJSON(&buf, fixtureSignups()); err != nil {
		t.Fatalf("exportJSON failed: %v", err)
	}

	var got jsonExport
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode export: %v", err)
	}
	if len(got.Signups) != 2 || got.Signups[0].Email != "ada@example.com" {
		t.Errorf("unexpected export %+v", got)
	}
	if got.Signups[1].CompletedAt != nil {
		t.Error("expected no completedAt for unfinished signup")
	}
}

func TestPrintInsights(t *testing.T) {
	var buf bytes.Buffer
	printInsights(&buf, insights.Compute(fixtureSignups()))

	output := buf.String()
	expectations := []string{
		"SIGNUPS: 2",
		"COMPLETED: 1 (50.0%",
		"2026-03-01",
		"Not right now",
		"(no responses)",
	}
	for _, expected := range expectations {
		if !strings.Contains(output, expected) {
			t.Errorf("output missing expected content: %s\n\nGot:\n%s", expected, output)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[int]string{7: "7", 1234: "1,234", 1234567: "1,234,567"}
	for n, want := range tests {
		if got := formatNumber(n); got != want {
			t.Errorf("formatNumber(%d) = %s, want %s", n, got, want)
		}
	}
}

func TestSignupThenExport_SQLite(t *testing.T) {
	db := filepath.Join(t.TempDir(), "waitlist.db")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	rootCmd.SetArgs([]string{"--store", "sqlite", "--db", db, "--log-level", "error", "signup", "ada@example.com", "--name", "Ada"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("signup failed: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "Added Ada <ada@example.com>") {
		t.Errorf("unexpected signup output %q", out.String())
	}

	out.Reset()
	rootCmd.SetArgs([]string{"--store", "sqlite", "--db", db, "export", "--format", "json"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var got jsonExport
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode export: %v\n%s", err, out.String())
	}
	if len(got.Signups) != 1 || got.Signups[0].Name != "Ada" || got.Signups[0].QuestionnaireCompleted {
		t.Errorf("unexpected export %+v", got)
	}
}

func TestSignup_InvalidEmail(t *testing.T) {
	db := filepath.Join(t.TempDir(), "waitlist.db")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	rootCmd.SetArgs([]string{"--store", "sqlite", "--db", db, "--log-level", "error", "signup", "not-an-email", "--name", "Ada"})
	if err := rootCmd.Execute(); err == nil {
		t.Error("expected invalid email to fail")
	}
}
