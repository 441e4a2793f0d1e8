package questionnaire

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

var ErrInvalidState = errors.New("invalid questionnaire state")

// Encode serializes a state into an opaque URL-safe token.
func (w *Wizard) Encode(s State) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to marshal state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Decode restores a state produced by Encode and checks it against the
// wizard's questions: answers must be offered options, sets must not repeat
// a value, and every step before the current one must be answered.
func (w *Wizard) Decode(token string) (State, error) {
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	var s State
	if err := json.Unmarshal(b, &s); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if s.Step < 0 || s.Step >= len(w.questions) {
		return State{}, fmt.Errorf("%w: step %d out of range", ErrInvalidState, s.Step)
	}
	for id, set := range s.Sets {
		q, ok := w.Question(id)
		if !ok || q.Kind != KindMultiple {
			return State{}, fmt.Errorf("%w: unexpected set answer %q", ErrInvalidState, id)
		}
		for i, v := range set {
			if !slices.Contains(q.Options, v) {
				return State{}, fmt.Errorf("%w: %q is not an option of %q", ErrInvalidState, v, id)
			}
			if slices.Contains(set[:i], v) {
				return State{}, fmt.Errorf("%w: %q repeated in %q", ErrInvalidState, v, id)
			}
		}
	}
	for id, v := range s.Values {
		q, ok := w.Question(id)
		if !ok || q.Kind == KindMultiple {
			return State{}, fmt.Errorf("%w: unexpected answer %q", ErrInvalidState, id)
		}
		if q.Kind == KindSingle && v != "" && !slices.Contains(q.Options, v) {
			return State{}, fmt.Errorf("%w: %q is not an option of %q", ErrInvalidState, v, id)
		}
	}

	// Every step already passed must satisfy the gate that let it advance.
	passed := s.Step
	if s.Completed {
		passed = len(w.questions)
	}
	for _, q := range w.questions[:passed] {
		if !answered(s, q) {
			return State{}, fmt.Errorf("%w: %q was never answered", ErrInvalidState, q.ID)
		}
	}

	next := s.clone()
	for _, q := range w.questions {
		if q.Kind == KindMultiple && next.Sets[q.ID] == nil {
			next.Sets[q.ID] = []string{}
		}
	}
	return next, nil
}
