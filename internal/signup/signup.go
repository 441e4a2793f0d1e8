// Package signup translates waitlist actions into store calls and reports
// their outcome as a tagged Result. Errors never escape this package.
package signup

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/appspark/waitlist/internal/questionnaire"
	"github.com/appspark/waitlist/internal/store"
	"github.com/rs/zerolog"
)

// Reason tags why an operation failed.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonInvalid     Reason = "invalid"
	ReasonRateLimited Reason = "rate_limited"
	ReasonNotFound    Reason = "not_found"
	ReasonFailed      Reason = "failed"
)

// Result is the outcome of a sync operation.
type Result struct {
	OK      bool
	Updated bool
	Reason  Reason
	Message string
}

func failure(reason Reason, msg string) Result {
	return Result{Reason: reason, Message: msg}
}

var (
	ErrMissingFields = errors.New("please fill in all fields")
	ErrInvalidEmail  = errors.New("please enter a valid email address")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether email looks like an address.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Validate checks signup input before anything is sent to the store.
func Validate(name, email string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
		return ErrMissingFields
	}
	if !ValidEmail(email) {
		return ErrInvalidEmail
	}
	return nil
}

type Client struct {
	store store.Store
	log   zerolog.Logger
	now   func() time.Time
}

type Option func(*Client)

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// WithClock overrides the time source used for signedUpAt and completedAt.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

func New(s store.Store, opts ...Option) *Client {
	c := &Client{
		store: s,
		log:   zerolog.Nop(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateSignup adds a new, not yet completed, waitlist record.
func (c *Client) CreateSignup(ctx context.Context, name, email string) Result {
	if err := Validate(name, email); err != nil {
		return failure(ReasonInvalid, err.Error())
	}

	su, err := c.store.CreateSignup(ctx, name, email, c.now())
	if err != nil {
		c.log.Error().Err(err).Str("store", c.store.Name()).Msg("create signup failed")
		if errors.Is(err, store.ErrRateLimited) {
			return failure(ReasonRateLimited, "Rate limited")
		}
		return failure(ReasonFailed, "Failed to add email to the waitlist")
	}

	c.log.Info().Str("id", su.ID).Msg("signup created")
	return Result{OK: true}
}

// SubmitQuestionnaire attaches responses to the signup with the given email.
// Only the first matching record is updated.
func (c *Client) SubmitQuestionnaire(ctx context.Context, email string, responses questionnaire.Responses) Result {
	if !ValidEmail(email) {
		return failure(ReasonInvalid, ErrInvalidEmail.Error())
	}

	matches, err := c.store.FindByEmail(ctx, email)
	if err != nil {
		c.log.Error().Err(err).Str("store", c.store.Name()).Msg("signup lookup failed")
		return c.storeFailure(err)
	}

	if len(matches) == 0 {
		return failure(ReasonNotFound, "User not found for questionnaire update")
	}
	if len(matches) > 1 {
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = m.ID
		}
		c.log.Warn().
			Int("matches", len(matches)).
			Strs("ids", ids).
			Str("updating", matches[0].ID).
			Msg("duplicate signups share an email")
	}

	if responses.Interests == nil {
		responses.Interests = []string{}
	}

	target := matches[0]
	if err := c.store.CompleteQuestionnaire(ctx, target.ID, responses, c.now()); err != nil {
		c.log.Error().Err(err).Str("id", target.ID).Msg("questionnaire update failed")
		if errors.Is(err, store.ErrNotFound) {
			return failure(ReasonNotFound, "User not found for questionnaire update")
		}
		return c.storeFailure(err)
	}

	c.log.Info().Str("id", target.ID).Msg("questionnaire completed")
	return Result{OK: true, Updated: true}
}

func (c *Client) storeFailure(err error) Result {
	if errors.Is(err, store.ErrRateLimited) {
		return failure(ReasonRateLimited, "Rate limited")
	}
	return failure(ReasonFailed, "Failed to update questionnaire data")
}
