// Package insights reduces waitlist records into the dashboard's summary
// counts.
package insights

import (
	"context"
	"fmt"

	"github.com/appspark/waitlist/internal/store"
)

// Aggregate is the derived summary of every signup record. It is recomputed
// on every fetch and never stored.
type Aggregate struct {
	TotalSignups            int     `json:"totalSignups"`
	CompletedQuestionnaires int     `json:"completedQuestionnaires"`
	SignupsByDate           *Counts `json:"signupsByDate"`
	Interests               *Counts `json:"interests"`
	PreviousExperience      *Counts `json:"previousExperience"`
	SkillLevel              *Counts `json:"skillLevel"`
	PrimaryGoal             *Counts `json:"primaryGoal"`
	BetaTest                *Counts `json:"betaTest"`
}

func newAggregate() *Aggregate {
	return &Aggregate{
		SignupsByDate:      &Counts{},
		Interests:          &Counts{},
		PreviousExperience: &Counts{},
		SkillLevel:         &Counts{},
		PrimaryGoal:        &Counts{},
		BetaTest:           &Counts{},
	}
}

// Compute reduces records in a single pass. Absent fields contribute to no
// bucket.
func Compute(records []*store.Signup) *Aggregate {
	a := newAggregate()

	for _, r := range records {
		a.TotalSignups++

		if r.QuestionnaireCompleted {
			a.CompletedQuestionnaires++
		}

		if r.SignedUpAt != nil {
			a.SignupsByDate.Add(r.SignedUpAt.UTC().Format("2006-01-02"))
		}

		for _, interest := range r.Responses.Interests {
			a.Interests.Add(interest)
		}

		addPresent(a.PreviousExperience, r.Responses.PreviousExperience)
		addPresent(a.SkillLevel, r.Responses.SkillLevel)
		addPresent(a.PrimaryGoal, r.Responses.PrimaryGoal)
		addPresent(a.BetaTest, r.Responses.BetaTest)
	}

	return a
}

func addPresent(c *Counts, v string) {
	if v != "" {
		c.Add(v)
	}
}

// CompletionRate is the share of signups that finished the questionnaire,
// between 0 and 1.
func (a *Aggregate) CompletionRate() float64 {
	if a.TotalSignups == 0 {
		return 0
	}
	return float64(a.CompletedQuestionnaires) / float64(a.TotalSignups)
}

// Lister is the part of the store the aggregator reads from.
type Lister interface {
	ListSignups(ctx context.Context) ([]*store.Signup, error)
}

type Service struct {
	store Lister
}

func NewService(s Lister) *Service {
	return &Service{store: s}
}

// Fetch reads every record and aggregates it. A failed read is reported as a
// single error with no partial result.
func (s *Service) Fetch(ctx context.Context) (*Aggregate, error) {
	records, err := s.store.ListSignups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch insights data: %w", err)
	}
	return Compute(records), nil
}
