package server

import (
	"net/http"
	"unicode/utf8"

	"github.com/appspark/waitlist/internal/insights"
	"github.com/appspark/waitlist/internal/stats"
)

const maxLabelLen = 30

type dashboardData struct {
	TotalSignups            int
	CompletedQuestionnaires int
	CompletionPercent       float64
	CILowerPercent          float64
	CIUpperPercent          float64
	SignupDays              int
	Tables                  []chartTable
}

type chartTable struct {
	Title string
	Rows  []chartRow
}

type chartRow struct {
	Label     string
	FullLabel string
	Count     int
	Width     int
}

func (s *Server) handleInsightsPage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("logout") == "1" {
		clearTokenCookie(w)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	agg, err := s.insights.Fetch(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("insights fetch failed")
		s.renderError(w, http.StatusInternalServerError, "Failed to fetch insights data", "/insights")
		return
	}

	s.render(w, http.StatusOK, "Insights", "insights.html", buildDashboard(agg))
}

func buildDashboard(agg *insights.Aggregate) dashboardData {
	ci := stats.CompletionInterval(agg.CompletedQuestionnaires, agg.TotalSignups)

	return dashboardData{
		TotalSignups:            agg.TotalSignups,
		CompletedQuestionnaires: agg.CompletedQuestionnaires,
		CompletionPercent:       ci.Rate * 100,
		CILowerPercent:          ci.Lower * 100,
		CIUpperPercent:          ci.Upper * 100,
		SignupDays:              agg.SignupsByDate.Len(),
		Tables: []chartTable{
			newTable("Signups Over Time", agg.SignupsByDate.Sorted(), agg.SignupsByDate.Max()),
			newTable("Interests", agg.Interests.ByCount(), agg.Interests.Max()),
			newTable("Previous Experience", agg.PreviousExperience.ByCount(), agg.PreviousExperience.Max()),
			newTable("Skill Level", agg.SkillLevel.ByCount(), agg.SkillLevel.Max()),
			newTable("Primary Goal", agg.PrimaryGoal.ByCount(), agg.PrimaryGoal.Max()),
			newTable("Beta Test Interest", agg.BetaTest.ByCount(), agg.BetaTest.Max()),
		},
	}
}

func newTable(title string, entries []insights.Entry, max int) chartTable {
	t := chartTable{Title: title}
	for _, e := range entries {
		width := 0
		if max > 0 {
			width = e.Count * 100 / max
		}
		t.Rows = append(t.Rows, chartRow{
			Label:     truncateLabel(e.Label),
			FullLabel: e.Label,
			Count:     e.Count,
			Width:     width,
		})
	}
	return t
}

func truncateLabel(label string) string {
	if utf8.RuneCountInString(label) <= maxLabelLen {
		return label
	}
	runes := []rune(label)
	return string(runes[:maxLabelLen]) + "..."
}
