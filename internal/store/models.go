package store

import (
	"time"

	"github.com/appspark/waitlist/internal/questionnaire"
)

// Signup is one waitlist record. Email is the natural key; ID is the
// backend's identifier for the record.
type Signup struct {
	ID                     string
	Name                   string
	Email                  string
	SignedUpAt             *time.Time
	QuestionnaireCompleted bool
	CompletedAt            *time.Time
	Responses              questionnaire.Responses
}
