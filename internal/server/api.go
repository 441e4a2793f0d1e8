package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/appspark/waitlist/internal/questionnaire"
	"github.com/appspark/waitlist/internal/signup"
)

type HealthResponse struct {
	Status        string `json:"status"`
	Store         string `json:"store"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		Store:         s.store.Name(),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
	})
}

// SignupRequest is the body of POST /api/notion. With IsUpdate set it carries
// questionnaire answers for an existing signup.
type SignupRequest struct {
	Name          string                   `json:"name"`
	Email         string                   `json:"email"`
	Questionnaire *questionnaire.Responses `json:"questionnaire,omitempty"`
	IsUpdate      bool                     `json:"isUpdate,omitempty"`
}

type SignupResponse struct {
	Success bool   `json:"success"`
	Updated bool   `json:"updated,omitempty"`
	Error   string `json:"error,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

func (s *Server) handleSignupAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Limited before decoding: every attempt spends a token, valid or not
	if !s.limiter.allow(clientIP(r)) {
		writeJSON(w, http.StatusTooManyRequests, SignupResponse{
			Error:  "Rate limited",
			Reason: string(signup.ReasonRateLimited),
		})
		return
	}

	var req SignupRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, SignupResponse{
			Error:  "Invalid JSON",
			Reason: string(signup.ReasonInvalid),
		})
		return
	}

	var res signup.Result
	if req.IsUpdate {
		if req.Questionnaire == nil {
			writeJSON(w, http.StatusBadRequest, SignupResponse{
				Error:  "Missing questionnaire data",
				Reason: string(signup.ReasonInvalid),
			})
			return
		}
		res = s.signups.SubmitQuestionnaire(r.Context(), req.Email, *req.Questionnaire)
	} else {
		res = s.signups.CreateSignup(r.Context(), req.Name, req.Email)
	}

	if res.OK {
		writeJSON(w, http.StatusOK, SignupResponse{Success: true, Updated: res.Updated})
		return
	}
	writeJSON(w, resultStatus(res), SignupResponse{
		Error:  res.Message,
		Reason: string(res.Reason),
	})
}

func (s *Server) handleInsightsAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	agg, err := s.insights.Fetch(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("insights fetch failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "Failed to fetch insights data",
		})
		return
	}

	writeJSON(w, http.StatusOK, agg)
}

// resultStatus maps a failed Result onto an HTTP status. Not-found is a
// server error: the client only submits for an email it just registered.
func resultStatus(res signup.Result) int {
	switch res.Reason {
	case signup.ReasonInvalid:
		return http.StatusBadRequest
	case signup.ReasonRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
