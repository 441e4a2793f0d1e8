package store

import (
	"context"
	"fmt"
	"time"

	"github.com/appspark/waitlist/internal/notion"
	"github.com/appspark/waitlist/internal/questionnaire"
)

// Notion database property names.
const (
	PropName                   = "Name"
	PropEmail                  = "Email"
	PropSignedUpAt             = "Signed Up At"
	PropQuestionnaireCompleted = "Questionnaire Completed"
	PropCompletedAt            = "Completed At"
	PropInterests              = "Interests"
	PropPreviousExperience     = "Previous Experience"
	PropSkillLevel             = "Skill Level"
	PropAppType                = "App Type"
	PropPrimaryGoal            = "Primary Goal"
	PropBiggestChallenge       = "Biggest Challenge"
	PropBetaTest               = "Beta Test"
)

// NotionStore keeps signups as pages of a Notion database.
type NotionStore struct {
	client     *notion.Client
	databaseID string
}

func NewNotionStore(client *notion.Client, databaseID string) *NotionStore {
	return &NotionStore{client: client, databaseID: databaseID}
}

func (s *NotionStore) Name() string {
	return "notion"
}

func (s *NotionStore) Close() error {
	return nil
}

func (s *NotionStore) CreateSignup(ctx context.Context, name, email string, signedUpAt time.Time) (*Signup, error) {
	page, err := s.client.CreatePage(ctx, s.databaseID, notion.Properties{
		PropEmail:                  notion.EmailProperty(email),
		PropName:                   notion.TitleProperty(name),
		PropSignedUpAt:             notion.DateProperty(signedUpAt),
		PropQuestionnaireCompleted: notion.CheckboxProperty(false),
	})
	if err != nil {
		return nil, wrapNotion("failed to add email to Notion", err)
	}

	at := signedUpAt.UTC()
	return &Signup{
		ID:         page.ID,
		Name:       name,
		Email:      email,
		SignedUpAt: &at,
		Responses:  questionnaire.Responses{Interests: []string{}},
	}, nil
}

func (s *NotionStore) FindByEmail(ctx context.Context, email string) ([]*Signup, error) {
	pages, err := s.client.QueryDatabase(ctx, s.databaseID, notion.EmailEquals(PropEmail, email))
	if err != nil {
		return nil, wrapNotion("failed to query Notion", err)
	}
	return signupsFromPages(pages), nil
}

func (s *NotionStore) CompleteQuestionnaire(ctx context.Context, id string, r questionnaire.Responses, completedAt time.Time) error {
	_, err := s.client.UpdatePage(ctx, id, notion.Properties{
		PropInterests:              notion.MultiSelectProperty(r.Interests),
		PropPreviousExperience:     notion.SelectProperty(r.PreviousExperience),
		PropSkillLevel:             notion.SelectProperty(r.SkillLevel),
		PropAppType:                notion.RichTextProperty(r.AppType),
		PropPrimaryGoal:            notion.SelectProperty(r.PrimaryGoal),
		PropBiggestChallenge:       notion.RichTextProperty(r.BiggestChallenge),
		PropBetaTest:               notion.SelectProperty(r.BetaTest),
		PropQuestionnaireCompleted: notion.CheckboxProperty(true),
		PropCompletedAt:            notion.DateProperty(completedAt),
	})
	if err != nil {
		return wrapNotion("failed to update questionnaire data in Notion", err)
	}
	return nil
}

func (s *NotionStore) ListSignups(ctx context.Context) ([]*Signup, error) {
	pages, err := s.client.QueryDatabase(ctx, s.databaseID, nil)
	if err != nil {
		return nil, wrapNotion("failed to query Notion", err)
	}
	return signupsFromPages(pages), nil
}

func wrapNotion(msg string, err error) error {
	if notion.IsRateLimited(err) {
		return fmt.Errorf("%s: %w: %w", msg, ErrRateLimited, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func signupsFromPages(pages []notion.Page) []*Signup {
	signups := make([]*Signup, 0, len(pages))
	for _, p := range pages {
		signups = append(signups, signupFromPage(p))
	}
	return signups
}

func signupFromPage(p notion.Page) *Signup {
	props := p.Properties
	su := &Signup{
		ID:                     p.ID,
		Name:                   props[PropName].PlainText(),
		Email:                  props[PropEmail].EmailValue(),
		QuestionnaireCompleted: props[PropQuestionnaireCompleted].Bool(),
		Responses: questionnaire.Responses{
			Interests:          props[PropInterests].Names(),
			PreviousExperience: props[PropPreviousExperience].SelectName(),
			SkillLevel:         props[PropSkillLevel].SelectName(),
			AppType:            props[PropAppType].PlainText(),
			PrimaryGoal:        props[PropPrimaryGoal].SelectName(),
			BiggestChallenge:   props[PropBiggestChallenge].PlainText(),
			BetaTest:           props[PropBetaTest].SelectName(),
		},
	}
	if t, ok := props[PropSignedUpAt].Time(); ok {
		su.SignedUpAt = &t
	}
	if t, ok := props[PropCompletedAt].Time(); ok {
		su.CompletedAt = &t
	}
	return su
}
