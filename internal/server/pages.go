package server

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/appspark/waitlist/internal/questionnaire"
	"github.com/appspark/waitlist/internal/signup"
)

const (
	msgRateLimited   = "You're doing that too much. Please try again later"
	msgSaveFailed    = "Failed to save your details. Please try again 😢."
	msgWizardFailed  = "Oops! Something went wrong. Please try again 😢"
	msgNoSignup      = "We couldn't find your signup. Please join the waitlist first."
	msgPickAnOption  = "Please choose an answer to continue"
	msgSignupWelcome = "You're on the list! Tell us a little about yourself."
)

type landingData struct {
	Name  string
	Email string
	Error string
}

type optionData struct {
	Value    string
	Selected bool
}

type questionnaireData struct {
	State    string
	Name     string
	Email    string
	Question questionnaire.Question
	Kind     string
	Options  []optionData
	Text     string
	Position int
	Total    int
	Percent  int
	IsFirst  bool
	IsLast   bool
	Error    string
	Flash    string
}

func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.renderNotFound(w)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.render(w, http.StatusOK, "Join the waitlist", "landing.html", landingData{})
}

func (s *Server) handleSignupForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	// Limited before parsing: every attempt spends a token, valid or not
	if !s.limiter.allow(clientIP(r)) {
		s.render(w, http.StatusTooManyRequests, "Join the waitlist", "landing.html", landingData{Error: msgRateLimited})
		return
	}
	if err := r.ParseForm(); err != nil {
		s.render(w, http.StatusBadRequest, "Join the waitlist", "landing.html", landingData{Error: msgSaveFailed})
		return
	}

	form := landingData{
		Name:  strings.TrimSpace(r.PostFormValue("name")),
		Email: strings.TrimSpace(r.PostFormValue("email")),
	}

	if err := signup.Validate(form.Name, form.Email); err != nil {
		form.Error = validationMessage(err)
		s.render(w, http.StatusBadRequest, "Join the waitlist", "landing.html", form)
		return
	}

	res := s.signups.CreateSignup(r.Context(), form.Name, form.Email)
	if !res.OK {
		switch res.Reason {
		case signup.ReasonRateLimited:
			form.Error = msgRateLimited
		case signup.ReasonInvalid:
			form.Error = res.Message
		default:
			form.Error = msgSaveFailed
		}
		s.render(w, resultStatus(res), "Join the waitlist", "landing.html", form)
		return
	}

	s.renderStep(w, http.StatusOK, form.Name, form.Email, s.wizard.Start(), "", msgSignupWelcome)
}

func (s *Server) handleQuestionnaire(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderError(w, http.StatusBadRequest, msgWizardFailed, "/")
		return
	}

	name := r.PostFormValue("name")
	email := r.PostFormValue("email")
	state, err := s.wizard.Decode(r.PostFormValue("state"))
	if err != nil || state.Completed || !signup.ValidEmail(email) {
		s.renderError(w, http.StatusBadRequest, msgWizardFailed, "/")
		return
	}

	state = s.applyAnswer(state, r.PostForm["answer"])

	if r.PostFormValue("action") == "back" {
		s.renderStep(w, http.StatusOK, name, email, s.wizard.Retreat(state), "", "")
		return
	}

	if !s.wizard.CanAdvance(state) {
		s.renderStep(w, http.StatusOK, name, email, state, msgPickAnOption, "")
		return
	}

	next, responses := s.wizard.Advance(state)
	if responses == nil {
		s.renderStep(w, http.StatusOK, name, email, next, "", "")
		return
	}

	res := s.signups.SubmitQuestionnaire(r.Context(), email, *responses)
	if !res.OK {
		msg := msgWizardFailed
		switch res.Reason {
		case signup.ReasonRateLimited:
			msg = msgRateLimited
		case signup.ReasonNotFound:
			msg = msgNoSignup
		}
		// Stay on the last question so the answers can be resubmitted
		s.renderStep(w, resultStatus(res), name, email, state, msg, "")
		return
	}

	http.Redirect(w, r, "/success", http.StatusSeeOther)
}

func (s *Server) handleSuccess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.render(w, http.StatusOK, "You're on the list", "success.html", nil)
}

// applyAnswer replaces the current question's answer with the submitted
// form values. Values outside the question's options are dropped.
func (s *Server) applyAnswer(state questionnaire.State, submitted []string) questionnaire.State {
	q := s.wizard.Current(state)

	switch q.Kind {
	case questionnaire.KindMultiple:
		for _, v := range state.Set(q.ID) {
			if !slices.Contains(submitted, v) {
				state = s.wizard.SelectMultiple(state, q.ID, v)
			}
		}
		for _, v := range submitted {
			if slices.Contains(q.Options, v) && !state.Has(q.ID, v) {
				state = s.wizard.SelectMultiple(state, q.ID, v)
			}
		}
	case questionnaire.KindSingle:
		if len(submitted) > 0 && slices.Contains(q.Options, submitted[0]) {
			state = s.wizard.SelectSingle(state, q.ID, submitted[0])
		}
	case questionnaire.KindText:
		if len(submitted) > 0 {
			state = s.wizard.SetText(state, q.ID, strings.TrimSpace(submitted[0]))
		}
	}
	return state
}

func (s *Server) renderStep(w http.ResponseWriter, status int, name, email string, state questionnaire.State, errMsg, flash string) {
	token, err := s.wizard.Encode(state)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to encode questionnaire state")
		s.renderError(w, http.StatusInternalServerError, msgWizardFailed, "/")
		return
	}

	q := s.wizard.Current(state)
	pos, total, pct := s.wizard.Progress(state)

	data := questionnaireData{
		State:    token,
		Name:     name,
		Email:    email,
		Question: q,
		Kind:     string(q.Kind),
		Text:     state.Value(q.ID),
		Position: pos,
		Total:    total,
		Percent:  pct,
		IsFirst:  state.Step == 0,
		IsLast:   s.wizard.IsLast(state),
		Error:    errMsg,
		Flash:    flash,
	}
	for _, opt := range q.Options {
		selected := state.Value(q.ID) == opt
		if q.Kind == questionnaire.KindMultiple {
			selected = state.Has(q.ID, opt)
		}
		data.Options = append(data.Options, optionData{Value: opt, Selected: selected})
	}

	s.render(w, status, q.Title, "questionnaire.html", data)
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, signup.ErrMissingFields):
		return "Please fill in all fields"
	case errors.Is(err, signup.ErrInvalidEmail):
		return "Please enter a valid email address"
	default:
		return err.Error()
	}
}
