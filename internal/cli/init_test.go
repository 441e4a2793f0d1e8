package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/appspark/waitlist/internal/config"
)

func TestStoreFromIndex(t *testing.T) {
	tests := []struct {
		index    int
		expected string
	}{
		{0, config.StoreNotion},
		{1, config.StoreSQLite},
	}

	for _, tc := range tests {
		result := storeFromIndex(tc.index)
		if result != tc.expected {
			t.Errorf("storeFromIndex(%d) = %s, want %s", tc.index, result, tc.expected)
		}
	}
	if len(storeChoices) != len(tests) {
		t.Errorf("expected %d store choices, got %d", len(tests), len(storeChoices))
	}
}

func TestValidatePort(t *testing.T) {
	for _, ok := range []string{"80", "8080", " 65535 "} {
		if err := validatePort(ok); err != nil {
			t.Errorf("validatePort(%q) = %v, want nil", ok, err)
		}
	}
	for _, bad := range []string{"", "http", "0", "70000", "-1"} {
		if err := validatePort(bad); err == nil {
			t.Errorf("validatePort(%q) = nil, want error", bad)
		}
	}
}

func TestValidateRequired(t *testing.T) {
	if err := validateRequired("secret_abc"); err != nil {
		t.Errorf("expected value to pass, got %v", err)
	}
	if err := validateRequired("   "); err == nil {
		t.Error("expected blank value to fail")
	}
}

func TestPrintNextSteps_Notion(t *testing.T) {
	var buf bytes.Buffer
	printNextSteps(&buf, ".env", config.Config{Store: config.StoreNotion, Port: 8080})

	output := buf.String()
	expectations := []string{
		"Saved settings to .env",
		"Share the Notion database with your integration",
		"Questionnaire Completed (checkbox)",
		"http://localhost:8080",
	}

	for _, expected := range expectations {
		if !strings.Contains(output, expected) {
			t.Errorf("Notion output missing expected content: %s\n\nGot:\n%s", expected, output)
		}
	}
}

func TestPrintNextSteps_SQLite(t *testing.T) {
	var buf bytes.Buffer
	printNextSteps(&buf, "deploy/.env", config.Config{Store: config.StoreSQLite, DBPath: "./data/waitlist.db", Port: 9090})

	output := buf.String()
	if !strings.Contains(output, "Records will be kept in ./data/waitlist.db") {
		t.Errorf("SQLite output missing database path:\n%s", output)
	}
	if strings.Contains(output, "Notion") {
		t.Errorf("SQLite output should not mention Notion:\n%s", output)
	}
	if !strings.Contains(output, "http://localhost:9090") {
		t.Errorf("expected configured port in output:\n%s", output)
	}
}
