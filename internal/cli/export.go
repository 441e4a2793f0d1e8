package cli

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/appspark/waitlist/internal/questionnaire"
	"github.com/appspark/waitlist/internal/store"
	"github.com/spf13/cobra"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export signup records",
	Long: `Export every signup record in CSV or JSON format.

Examples:
  waitlist export --format csv > signups.csv
  waitlist export --format json > signups.json`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "output format (csv or json)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportFormat != "csv" && exportFormat != "json" {
		return fmt.Errorf("invalid format: must be 'csv' or 'json'")
	}

	return withStore(func(s store.Store) error {
		signups, err := s.ListSignups(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list signups: %w", err)
		}

		if exportFormat == "csv" {
			return exportCSV(cmd.OutOrStdout(), signups)
		}
		return exportJSON(cmd.OutOrStdout(), signups)
	})
}

var csvHeader = []string{
	"id", "name", "email", "signed_up_at", "questionnaire_completed", "completed_at",
	"interests", "previous_experience", "skill_level", "app_type",
	"primary_goal", "biggest_challenge", "beta_test",
}

func exportCSV(out io.Writer, signups []*store.Signup) error {
	w := csv.NewWriter(out)

	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, su := range signups {
		r := su.Responses
		row := []string{
			su.ID,
			su.Name,
			su.Email,
			formatTime(su.SignedUpAt),
			strconv.FormatBool(su.QuestionnaireCompleted),
			formatTime(su.CompletedAt),
			strings.Join(r.Interests, "; "),
			r.PreviousExperience,
			r.SkillLevel,
			r.AppType,
			r.PrimaryGoal,
			r.BiggestChallenge,
			r.BetaTest,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

type jsonExport struct {
	Signups []jsonSignup `json:"signups"`
}

type jsonSignup struct {
	ID                     string                  `json:"id"`
	Name                   string                  `json:"name"`
	Email                  string                  `json:"email"`
	SignedUpAt             *time.Time              `json:"signedUpAt,omitempty"`
	QuestionnaireCompleted bool                    `json:"questionnaireCompleted"`
	CompletedAt            *time.Time              `json:"completedAt,omitempty"`
	Responses              questionnaire.Responses `json:"responses"`
}

func exportJSON(out io.Writer, signups []*store.Signup) error {
	export := jsonExport{
		Signups: make([]jsonSignup, len(signups)),
	}

	for i, su := range signups {
		export.Signups[i] = jsonSignup{
			ID:                     su.ID,
			Name:                   su.Name,
			Email:                  su.Email,
			SignedUpAt:             su.SignedUpAt,
			QuestionnaireCompleted: su.QuestionnaireCompleted,
			CompletedAt:            su.CompletedAt,
			Responses:              su.Responses,
		}
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(export)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
