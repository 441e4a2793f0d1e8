// Package questionnaire implements the multi-step signup questionnaire as an
// explicit state value with pure transition functions.
//
// A State is never mutated in place: every transition returns the next state,
// so a caller can hold, serialize, or discard states freely.
package questionnaire

import "slices"

// State is the answer state of one wizard session.
type State struct {
	Step      int                 `json:"step"`
	Sets      map[string][]string `json:"sets,omitempty"`
	Values    map[string]string   `json:"values,omitempty"`
	Completed bool                `json:"completed,omitempty"`
}

func (s State) clone() State {
	next := State{Step: s.Step, Completed: s.Completed}
	next.Sets = make(map[string][]string, len(s.Sets))
	for id, set := range s.Sets {
		next.Sets[id] = slices.Clone(set)
		if next.Sets[id] == nil {
			next.Sets[id] = []string{}
		}
	}
	next.Values = make(map[string]string, len(s.Values))
	for id, v := range s.Values {
		next.Values[id] = v
	}
	return next
}

// Set returns the selected values of a multiple-choice question.
func (s State) Set(questionID string) []string {
	return s.Sets[questionID]
}

// Value returns the answer of a single-choice or text question.
func (s State) Value(questionID string) string {
	return s.Values[questionID]
}

// Has reports whether value is selected for a multiple-choice question.
func (s State) Has(questionID, value string) bool {
	return slices.Contains(s.Sets[questionID], value)
}

// Wizard walks an ordered, fixed list of questions.
type Wizard struct {
	questions []Question
	index     map[string]int
}

// New returns a wizard over questions. The slice must not be empty.
func New(questions []Question) *Wizard {
	w := &Wizard{
		questions: questions,
		index:     make(map[string]int, len(questions)),
	}
	for i, q := range questions {
		w.index[q.ID] = i
	}
	return w
}

// Default returns a wizard over the App Spark questionnaire.
func Default() *Wizard {
	return New(Questions)
}

func (w *Wizard) Questions() []Question {
	return w.questions
}

func (w *Wizard) Len() int {
	return len(w.questions)
}

// Question looks up a question by id.
func (w *Wizard) Question(id string) (Question, bool) {
	i, ok := w.index[id]
	if !ok {
		return Question{}, false
	}
	return w.questions[i], true
}

// Start returns the initial state: step 0, every multiple-choice answer an
// empty set, everything else absent.
func (w *Wizard) Start() State {
	s := State{
		Sets:   make(map[string][]string),
		Values: make(map[string]string),
	}
	for _, q := range w.questions {
		if q.Kind == KindMultiple {
			s.Sets[q.ID] = []string{}
		}
	}
	return s
}

// Current returns the question at the state's step.
func (w *Wizard) Current(s State) Question {
	return w.questions[s.Step]
}

// IsLast reports whether the state sits on the final question.
func (w *Wizard) IsLast(s State) bool {
	return s.Step == len(w.questions)-1
}

// Progress returns the 1-based position, the question count and the
// percentage complete for display.
func (w *Wizard) Progress(s State) (position, total, percent int) {
	total = len(w.questions)
	position = s.Step + 1
	if s.Completed {
		position = total
	}
	return position, total, position * 100 / total
}

// SelectMultiple toggles value in the answer set of a multiple-choice
// question. Unknown ids and other question kinds are ignored.
func (w *Wizard) SelectMultiple(s State, questionID, value string) State {
	if s.Completed || !w.is(questionID, KindMultiple) {
		return s
	}
	next := s.clone()
	set := next.Sets[questionID]
	if i := slices.Index(set, value); i >= 0 {
		next.Sets[questionID] = slices.Delete(set, i, i+1)
	} else {
		next.Sets[questionID] = append(set, value)
	}
	return next
}

// SelectSingle overwrites the answer of a single-choice question.
func (w *Wizard) SelectSingle(s State, questionID, value string) State {
	if s.Completed || !w.is(questionID, KindSingle) {
		return s
	}
	next := s.clone()
	next.Values[questionID] = value
	return next
}

// SetText overwrites the answer of a text question.
func (w *Wizard) SetText(s State, questionID, value string) State {
	if s.Completed || !w.is(questionID, KindText) {
		return s
	}
	next := s.clone()
	next.Values[questionID] = value
	return next
}

// CanAdvance is the only gating rule: multiple-choice needs a non-empty set,
// single-choice needs a non-empty value, text is always allowed.
func (w *Wizard) CanAdvance(s State) bool {
	if s.Completed {
		return false
	}
	return answered(s, w.Current(s))
}

func answered(s State, q Question) bool {
	switch q.Kind {
	case KindMultiple:
		return len(s.Sets[q.ID]) > 0
	case KindSingle:
		return s.Values[q.ID] != ""
	default:
		return true
	}
}

// Advance moves to the next step. On the last step it returns the terminal
// state together with the completed payload. When CanAdvance is false the
// state is returned unchanged and the payload is nil.
func (w *Wizard) Advance(s State) (State, *Responses) {
	if !w.CanAdvance(s) {
		return s, nil
	}
	next := s.clone()
	if w.IsLast(s) {
		next.Completed = true
		r := w.Responses(next)
		return next, &r
	}
	next.Step++
	return next, nil
}

// Retreat moves back one step. It is a no-op at step 0 and on the terminal
// state.
func (w *Wizard) Retreat(s State) State {
	if s.Completed || s.Step == 0 {
		return s
	}
	next := s.clone()
	next.Step--
	return next
}

// Responses collects the answers accumulated so far. Unanswered
// multiple-choice questions become empty lists, everything else "".
func (w *Wizard) Responses(s State) Responses {
	interests := slices.Clone(s.Sets[IDInterests])
	if interests == nil {
		interests = []string{}
	}
	return Responses{
		Interests:          interests,
		PreviousExperience: s.Values[IDPreviousExperience],
		SkillLevel:         s.Values[IDSkillLevel],
		AppType:            s.Values[IDAppType],
		PrimaryGoal:        s.Values[IDPrimaryGoal],
		BiggestChallenge:   s.Values[IDBiggestChallenge],
		BetaTest:           s.Values[IDBetaTest],
	}
}

func (w *Wizard) is(questionID string, kind Kind) bool {
	q, ok := w.Question(questionID)
	return ok && q.Kind == kind
}
