package server_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/appspark/waitlist/internal/questionnaire"
	"github.com/appspark/waitlist/internal/server"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

func TestLanding(t *testing.T) {
	srv, _ := setupTestServer(t)

	w := serve(srv, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("expected HTML content type, got %s", ct)
	}
	if !strings.Contains(w.Body.String(), `action="/signup"`) {
		t.Error("expected signup form")
	}
}

func TestSignupForm_Validation(t *testing.T) {
	srv, s := setupTestServer(t)

	w := postForm(srv, "/signup", url.Values{"name": {"Ada"}, "email": {"not-an-email"}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Please enter a valid email address") {
		t.Error("expected validation message")
	}

	w = postForm(srv, "/signup", url.Values{"email": {"ada@example.com"}})
	if !strings.Contains(w.Body.String(), "Please fill in all fields") {
		t.Error("expected missing fields message")
	}

	records, _ := s.ListSignups(context.Background())
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestSignupForm_StoreFailure(t *testing.T) {
	srv := server.New(server.Options{Store: failingStore{err: errors.New("boom")}, Logger: zerolog.Nop()})

	w := postForm(srv, "/signup", url.Values{"name": {"Ada"}, "email": {"ada@example.com"}})
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Failed to save your details") {
		t.Error("expected save failure message")
	}
}

func TestSignupForm_InvalidPostsSpendRateLimit(t *testing.T) {
	srv := server.New(server.Options{
		Store:       setupTestStore(t),
		Logger:      zerolog.Nop(),
		SignupRate:  0.001,
		SignupBurst: 1,
	})

	w := postForm(srv, "/signup", url.Values{"name": {"Ada"}, "email": {"not-an-email"}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	w = postForm(srv, "/signup", url.Values{"name": {"Ada"}, "email": {"ada@example.com"}})
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "doing that too much") {
		t.Error("expected rate limited message")
	}
}

// walk submits one answer per question and returns the final response.
func walk(t *testing.T, srv *server.Server, token string, answers [][]string) *httptest.ResponseRecorder {
	t.Helper()

	var w *httptest.ResponseRecorder
	for i, answer := range answers {
		w = postForm(srv, "/questionnaire", url.Values{
			"state":  {token},
			"name":   {"Ada"},
			"email":  {"ada@example.com"},
			"action": {"next"},
			"answer": answer,
		})
		if i < len(answers)-1 {
			if w.Code != http.StatusOK {
				t.Fatalf("step %d: expected status 200, got %d", i, w.Code)
			}
			token = stateToken(t, w.Body.String())
		}
	}
	return w
}

func TestQuestionnaire_AdaEndToEnd(t *testing.T) {
	srv, s := setupTestServer(t)

	w := postForm(srv, "/signup", url.Values{"name": {"Ada"}, "email": {"ada@example.com"}})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Question 1 of 7") || !strings.Contains(body, "Select all that apply") {
		t.Fatalf("expected first question, got:\n%s", body)
	}

	qs := questionnaire.Questions
	w = walk(t, srv, stateToken(t, body), [][]string{
		{qs[0].Options[4], qs[0].Options[1]},
		{qs[1].Options[3]},
		{qs[2].Options[0]},
		{"A recipe planner"},
		{qs[4].Options[3]},
		{""},
		{qs[6].Options[1]},
	})

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect 303, got %d: %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/success" {
		t.Errorf("expected redirect to /success, got %s", loc)
	}

	records, err := s.FindByEmail(context.Background(), "ada@example.com")
	if err != nil || len(records) != 1 {
		t.Fatalf("expected one record, got %d (%v)", len(records), err)
	}
	want := questionnaire.Responses{
		Interests:          []string{qs[0].Options[4], qs[0].Options[1]},
		PreviousExperience: qs[1].Options[3],
		SkillLevel:         qs[2].Options[0],
		AppType:            "A recipe planner",
		PrimaryGoal:        qs[4].Options[3],
		BetaTest:           qs[6].Options[1],
	}
	if !records[0].QuestionnaireCompleted {
		t.Error("expected questionnaire to be completed")
	}
	if diff := cmp.Diff(want, records[0].Responses); diff != "" {
		t.Errorf("responses mismatch (-want +got):\n%s", diff)
	}
}

func TestQuestionnaire_BlockedWithoutAnswer(t *testing.T) {
	srv, _ := setupTestServer(t)
	w := questionnaire.Default()
	token, _ := w.Encode(w.Start())

	resp := postForm(srv, "/questionnaire", url.Values{
		"state":  {token},
		"email":  {"ada@example.com"},
		"action": {"next"},
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	body := resp.Body.String()
	if !strings.Contains(body, "Please choose an answer to continue") || !strings.Contains(body, "Question 1 of 7") {
		t.Errorf("expected to stay on first question with an error:\n%s", body)
	}
}

func TestQuestionnaire_BackKeepsAnswers(t *testing.T) {
	srv, _ := setupTestServer(t)
	wiz := questionnaire.Default()

	state := wiz.SelectMultiple(wiz.Start(), questionnaire.IDInterests, questionnaire.Questions[0].Options[2])
	state, _ = wiz.Advance(state)
	token, _ := wiz.Encode(state)

	resp := postForm(srv, "/questionnaire", url.Values{
		"state":  {token},
		"email":  {"ada@example.com"},
		"action": {"back"},
	})
	body := resp.Body.String()
	if !strings.Contains(body, "Question 1 of 7") {
		t.Fatalf("expected first question after back:\n%s", body)
	}

	back, err := wiz.Decode(stateToken(t, body))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !back.Has(questionnaire.IDInterests, questionnaire.Questions[0].Options[2]) {
		t.Error("expected interest selection to survive going back")
	}
}

func TestQuestionnaire_UnknownOptionIgnored(t *testing.T) {
	srv, _ := setupTestServer(t)
	wiz := questionnaire.Default()
	token, _ := wiz.Encode(wiz.Start())

	resp := postForm(srv, "/questionnaire", url.Values{
		"state":  {token},
		"email":  {"ada@example.com"},
		"action": {"next"},
		"answer": {"Something made up"},
	})
	if !strings.Contains(resp.Body.String(), "Question 1 of 7") {
		t.Error("expected unknown option not to satisfy the question")
	}
}

func TestQuestionnaire_TamperedState(t *testing.T) {
	srv, _ := setupTestServer(t)

	resp := postForm(srv, "/questionnaire", url.Values{
		"state": {"not-a-state"},
		"email": {"ada@example.com"},
	})
	if resp.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Oops! Something went wrong") {
		t.Error("expected questionnaire failure message")
	}
}

func TestQuestionnaire_ForgedStateRejected(t *testing.T) {
	srv, s := setupTestServer(t)
	postForm(srv, "/signup", url.Values{"name": {"Ada"}, "email": {"ada@example.com"}})

	wiz := questionnaire.Default()
	forged, err := wiz.Encode(questionnaire.State{
		Step:   6,
		Sets:   map[string][]string{questionnaire.IDInterests: {"EVIL", "EVIL"}},
		Values: map[string]string{questionnaire.IDSkillLevel: "NOT AN OPTION"},
	})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	resp := postForm(srv, "/questionnaire", url.Values{
		"state":  {forged},
		"email":  {"ada@example.com"},
		"action": {"next"},
		"answer": {questionnaire.Questions[6].Options[1]},
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}

	records, err := s.FindByEmail(context.Background(), "ada@example.com")
	if err != nil || len(records) != 1 {
		t.Fatalf("expected one record, got %d (%v)", len(records), err)
	}
	if records[0].QuestionnaireCompleted || len(records[0].Responses.Interests) != 0 {
		t.Errorf("expected forged answers not to be stored, got %+v", records[0].Responses)
	}
}

func TestQuestionnaire_UnknownEmailStaysOnLastStep(t *testing.T) {
	srv, _ := setupTestServer(t)
	wiz := questionnaire.Default()

	state := wiz.SelectMultiple(wiz.Start(), questionnaire.IDInterests, questionnaire.Questions[0].Options[0])
	for !wiz.IsLast(state) {
		q := wiz.Current(state)
		if q.Kind == questionnaire.KindSingle {
			state = wiz.SelectSingle(state, q.ID, q.Options[0])
		}
		state, _ = wiz.Advance(state)
	}
	token, _ := wiz.Encode(state)

	resp := postForm(srv, "/questionnaire", url.Values{
		"state":  {token},
		"email":  {"ghost@example.com"},
		"action": {"next"},
		"answer": {questionnaire.Questions[6].Options[0]},
	})
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", resp.Code)
	}
	body := resp.Body.String()
	if !strings.Contains(body, "find your signup") || !strings.Contains(body, "Question 7 of 7") {
		t.Errorf("expected to stay on last question with an error:\n%s", body)
	}
}

func TestSuccess(t *testing.T) {
	srv, _ := setupTestServer(t)

	w := serve(srv, httptest.NewRequest(http.MethodGet, "/success", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "on the list") {
		t.Error("expected success page")
	}
}
